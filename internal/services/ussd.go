package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/provigo/provigo-backend/internal/models"
	"github.com/provigo/provigo-backend/internal/storage"
	"github.com/provigo/provigo-backend/internal/utils"
)

// Conversation steps for the USSD menu
const (
	StepMainMenu      = "MAIN_MENU"
	StepSeePackages   = "SEE_PACKAGES"
	StepSelectPackage = "SELECT_PACKAGE"
	StepEnterSchool   = "ENTER_SCHOOL"
	StepEnterStudent  = "ENTER_STUDENT"
	StepEnterHouse    = "ENTER_HOUSE"
	StepConfirmation  = "CONFIRMATION"
	StepTrackOrder    = "TRACK_ORDER"
)

// minFieldLength is the shortest accepted free-text entry (school,
// student, house, tracking query).
const minFieldLength = 2

// Package is a catalog entry sold on the USSD menu
type Package struct {
	Name  string
	Price int // whole cedis
	Items string
}

// USSDConfig is the single configuration surface for the menu flow.
// Welcome text, catalog, expiry window and channel user ID all live
// here so every deployment runs the same machine.
type USSDConfig struct {
	ServiceUserID string
	ServiceCode   string
	WelcomeText   string
	ContactText   string
	Packages      []Package
	SessionExpiry time.Duration
}

// DefaultUSSDConfig returns the production ProviGO menu configuration.
func DefaultUSSDConfig() USSDConfig {
	return USSDConfig{
		ServiceUserID: "PR0VISSD",
		ServiceCode:   "*920*332#",
		WelcomeText:   "Welcome to ProviGO 🎒\nComfort for Parents & Care for Students",
		ContactText:   "📞 Contact ProviGO:\n\nCall/WhatsApp: 0247112620\nEmail: provigogh@gmail.com\n\nThank you!",
		Packages: []Package{
			{Name: "Starter", Price: 350, Items: "Milo, Nido, Gari, Sugar, Shito, Biscuits & Toiletries."},
			{Name: "Ready Box", Price: 580, Items: "Starter + Milk, Drinks, Snacks, Notebooks & more Toiletries."},
			{Name: "Dadabee", Price: 780, Items: "Full box: Double Milo/Nido, Cornflakes, plenty Snacks, 15 Books & huge Soap pack."},
		},
		SessionExpiry: 5 * time.Minute,
	}
}

// USSDRequest is the inbound envelope from the NALO channel gateway.
// MSGTYPE is true on a fresh dial and false on a continuation.
type USSDRequest struct {
	UserID   string `json:"USERID" form:"USERID" query:"USERID"`
	MSISDN   string `json:"MSISDN" form:"MSISDN" query:"MSISDN"`
	UserData string `json:"USERDATA" form:"USERDATA" query:"USERDATA"`
	MsgType  bool   `json:"MSGTYPE" form:"MSGTYPE" query:"MSGTYPE"`
}

// USSDResponse is returned to the channel gateway. MSGTYPE true keeps
// the session open awaiting more input.
type USSDResponse struct {
	UserID   string `json:"USERID"`
	MSISDN   string `json:"MSISDN"`
	UserData string `json:"USERDATA"`
	Message  string `json:"MSG"`
	MsgType  bool   `json:"MSGTYPE"`
}

// PaymentInitiator is the seam to the payment gateway. It returns the
// gateway's transaction reference on success.
type PaymentInitiator interface {
	InitializeTransaction(email string, amountPesewas int, metadata map[string]string) (string, error)
}

// USSDService drives the order-taking conversation over USSD
type USSDService struct {
	store   storage.Store
	payment PaymentInitiator
	config  USSDConfig
	now     func() time.Time
}

// NewUSSDService creates a new USSD service
func NewUSSDService(store storage.Store, payment PaymentInitiator, config USSDConfig) *USSDService {
	return &USSDService{
		store:   store,
		payment: payment,
		config:  config,
		now:     time.Now,
	}
}

// UserID returns the channel credential the gateway must present.
func (s *USSDService) UserID() string {
	return s.config.ServiceUserID
}

// stepResult is the outcome of feeding one input to a step handler
type stepResult struct {
	message       string
	keepOpen      bool
	update        *models.SessionUpdate // applied before responding, nil for re-prompts
	deleteSession bool                  // terminal outcomes drop the session
}

// HandleRequest processes one inbound channel request end to end:
// load or initialize the session, apply the expiry policy, dispatch
// the input, persist the outcome and build the response envelope.
// It never returns an error — the channel cannot tolerate a dropped
// response, so any failure degrades to a terminal error message.
func (s *USSDService) HandleRequest(req *USSDRequest) (resp *USSDResponse) {
	phone := utils.NormalizeMSISDN(req.MSISDN)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ussd: panic handling request from %s: %v", phone, r)
			resp = s.respond(req, "An error occurred. Please try again.", false)
		}
	}()

	// A redial must never resume a stale flow, expired or not
	if req.MsgType {
		if err := s.store.DeleteSession(phone); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ussd: clearing session on redial for %s: %v", phone, err)
		}
	}

	session, err := s.store.GetSession(phone)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("ussd: loading session for %s: %v", phone, err)
		return s.respond(req, "An error occurred. Please try again.", false)
	}

	// An expired session is treated as absent; the current input is
	// not replayed into the fresh one
	if session != nil && s.now().Sub(session.CreatedAt) > s.config.SessionExpiry {
		if err := s.store.DeleteSession(phone); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ussd: deleting expired session for %s: %v", phone, err)
		}
		session = nil
	}

	// No session means first contact: open one at the main menu and
	// render the welcome screen
	if session == nil {
		fresh := &models.UssdSession{
			PhoneNumber: phone,
			Step:        StepMainMenu,
			CreatedAt:   s.now(),
		}
		if err := s.store.CreateSession(fresh); err != nil {
			log.Printf("ussd: creating session for %s: %v", phone, err)
			return s.respond(req, "An error occurred. Please try again.", false)
		}
		return s.respond(req, s.welcomeScreen(), true)
	}

	result := s.dispatch(session, strings.TrimSpace(req.UserData), phone)

	if result.update != nil {
		if err := s.store.UpdateSession(phone, result.update); err != nil {
			log.Printf("ussd: updating session for %s: %v", phone, err)
			_ = s.store.DeleteSession(phone)
			return s.respond(req, "An error occurred. Please try again.", false)
		}
	}
	if result.deleteSession {
		if err := s.store.DeleteSession(phone); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Printf("ussd: deleting session for %s: %v", phone, err)
		}
	}

	return s.respond(req, result.message, result.keepOpen)
}

// dispatch routes input to the handler for the session's current step
func (s *USSDService) dispatch(session *models.UssdSession, input, phone string) stepResult {
	switch session.Step {
	case StepMainMenu:
		return s.handleMainMenu(input)
	case StepSeePackages:
		return s.handleSeePackages(input)
	case StepSelectPackage:
		return s.handleSelectPackage(input)
	case StepEnterSchool:
		return s.handleEnterSchool(input)
	case StepEnterStudent:
		return s.handleEnterStudent(input)
	case StepEnterHouse:
		return s.handleEnterHouse(session, input)
	case StepConfirmation:
		return s.handleConfirmation(session, input, phone)
	case StepTrackOrder:
		return s.handleTrackOrder(input)
	default:
		// Unknown step means corrupted or outdated state
		return stepResult{
			message:       fmt.Sprintf("Session expired. Please dial %s again.", s.config.ServiceCode),
			deleteSession: true,
		}
	}
}

func (s *USSDService) handleMainMenu(input string) stepResult {
	switch input {
	case "1":
		return stepResult{
			message:  s.packageListScreen(),
			keepOpen: true,
			update:   &models.SessionUpdate{Step: strPtr(StepSelectPackage)},
		}
	case "2":
		return stepResult{
			message:  s.packageDetailsScreen(),
			keepOpen: true,
			update:   &models.SessionUpdate{Step: strPtr(StepSeePackages)},
		}
	case "3":
		return stepResult{
			message:  "Enter Order ID or Student Name:",
			keepOpen: true,
			update:   &models.SessionUpdate{Step: strPtr(StepTrackOrder)},
		}
	case "4":
		return stepResult{
			message:       s.config.ContactText,
			deleteSession: true,
		}
	default:
		return stepResult{
			message:  "Invalid option. Please select:\n\n" + s.menuOptions(),
			keepOpen: true,
		}
	}
}

func (s *USSDService) handleSeePackages(input string) stepResult {
	if input == s.backOption() {
		return stepResult{
			message:  s.welcomeScreen(),
			keepOpen: true,
			update:   &models.SessionUpdate{Step: strPtr(StepMainMenu)},
		}
	}
	return stepResult{message: s.packageDetailsScreen(), keepOpen: true}
}

func (s *USSDService) handleSelectPackage(input string) stepResult {
	if input == s.backOption() {
		return stepResult{
			message:  s.welcomeScreen(),
			keepOpen: true,
			update:   &models.SessionUpdate{Step: strPtr(StepMainMenu)},
		}
	}

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(s.config.Packages) {
		return stepResult{
			message:  "Invalid selection. " + s.packageListScreen(),
			keepOpen: true,
		}
	}

	pkg := s.config.Packages[choice-1]
	return stepResult{
		message:  "Enter School Name:",
		keepOpen: true,
		update: &models.SessionUpdate{
			Step:            strPtr(StepEnterSchool),
			SelectedPackage: strPtr(pkg.Name),
			PackagePrice:    intPtr(pkg.Price),
		},
	}
}

func (s *USSDService) handleEnterSchool(input string) stepResult {
	if len(input) < minFieldLength {
		return stepResult{message: "Please enter a valid school name:", keepOpen: true}
	}
	return stepResult{
		message:  "Enter Student Name:",
		keepOpen: true,
		update: &models.SessionUpdate{
			Step:       strPtr(StepEnterStudent),
			SchoolName: strPtr(input),
		},
	}
}

func (s *USSDService) handleEnterStudent(input string) stepResult {
	if len(input) < minFieldLength {
		return stepResult{message: "Please enter a valid student name:", keepOpen: true}
	}
	return stepResult{
		message:  "Enter House & Year (e.g. Akufo Hall, Year 2):",
		keepOpen: true,
		update: &models.SessionUpdate{
			Step:        strPtr(StepEnterHouse),
			StudentName: strPtr(input),
		},
	}
}

func (s *USSDService) handleEnterHouse(session *models.UssdSession, input string) stepResult {
	if len(input) < minFieldLength {
		return stepResult{message: "Please enter a valid house & year:", keepOpen: true}
	}

	summary := fmt.Sprintf(
		"Send %s to %s at %s?\nHouse/Year: %s\nTotal: GH₵%d\n\n1. Pay with Momo\n2. Cancel",
		session.SelectedPackage, session.StudentName, session.SchoolName, input, session.PackagePrice,
	)
	return stepResult{
		message:  summary,
		keepOpen: true,
		update: &models.SessionUpdate{
			Step:      strPtr(StepConfirmation),
			HouseYear: strPtr(input),
		},
	}
}

func (s *USSDService) handleConfirmation(session *models.UssdSession, input, phone string) stepResult {
	switch input {
	case "2":
		return stepResult{
			message:       "Order cancelled. Thank you for using ProviGO!",
			deleteSession: true,
		}
	case "1":
		if err := s.submitOrder(session, phone); err != nil {
			// Losing the order is an error; losing the payment push
			// is not (submitOrder swallows that itself)
			log.Printf("ussd: submitting order for %s: %v", phone, err)
			return stepResult{
				message:       "An error occurred. Please try again.",
				deleteSession: true,
			}
		}
		return stepResult{
			message:       "Payment request sent to your phone.\nPlease complete the Mobile Money payment to confirm your order.\n\nThank you for choosing ProviGO! 🎒",
			deleteSession: true,
		}
	default:
		return stepResult{
			message:  "Invalid option.\n\n1. Pay with Momo\n2. Cancel",
			keepOpen: true,
		}
	}
}

func (s *USSDService) handleTrackOrder(input string) stepResult {
	if len(input) < minFieldLength {
		return stepResult{message: "Please enter a valid Order ID or Student Name:", keepOpen: true}
	}

	// Order IDs are matched case-insensitively; student names are
	// matched exactly as typed
	order, err := s.store.GetOrderByOrderID(strings.ToUpper(input))
	if errors.Is(err, storage.ErrNotFound) {
		order, err = s.store.GetOrderByStudentName(input)
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("ussd: tracking lookup %q: %v", input, err)
		return stepResult{
			message:       "An error occurred. Please try again.",
			deleteSession: true,
		}
	}

	if order == nil {
		return stepResult{
			message:       "Order not found. Please check and try again.",
			deleteSession: true,
		}
	}

	orderID := order.OrderID
	if orderID == "" {
		orderID = "Pending"
	}
	payment := "Pending ⏳"
	if order.PaymentStatus == models.PaymentStatusPaid {
		payment = "Paid ✅"
	}
	return stepResult{
		message: fmt.Sprintf(
			"Order Found:\n\nOrder ID: %s\nPackage: %s\nPayment: %s\nStatus: %s\n\nThank you for using ProviGO!",
			orderID, order.Package, payment, order.OrderStatus,
		),
		deleteSession: true,
	}
}

// submitOrder creates the order record and asks the payment gateway
// to push a Mobile Money prompt. Payment initiation failures are
// logged and swallowed: the pending order is reconciled later by the
// gateway webhook.
func (s *USSDService) submitOrder(session *models.UssdSession, phone string) error {
	order := &models.Order{
		Ref:           uuid.NewString(),
		StudentName:   session.StudentName,
		SchoolName:    session.SchoolName,
		HouseYear:     session.HouseYear,
		Package:       session.SelectedPackage,
		Price:         session.PackagePrice,
		PhoneNumber:   phone,
		PaymentStatus: models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusProcessing,
	}

	if _, err := s.store.CreateOrder(order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	amountPesewas := session.PackagePrice * 100
	metadata := map[string]string{
		"studentName": session.StudentName,
		"schoolName":  session.SchoolName,
		"package":     session.SelectedPackage,
		"houseYear":   session.HouseYear,
		"phoneNumber": phone,
		"orderRef":    order.Ref,
	}

	reference, err := s.payment.InitializeTransaction(utils.PaymentEmail(phone), amountPesewas, metadata)
	if err != nil {
		log.Printf("ussd: payment initiation for order %s: %v", order.Ref, err)
		return nil
	}
	if reference != "" {
		order.PaystackReference = reference
		if err := s.store.UpdateOrder(order); err != nil {
			log.Printf("ussd: attaching payment reference to order %s: %v", order.Ref, err)
		}
	}
	return nil
}

// respond builds the response envelope, echoing the subscriber and
// input per the channel contract.
func (s *USSDService) respond(req *USSDRequest, message string, keepOpen bool) *USSDResponse {
	return &USSDResponse{
		UserID:   s.config.ServiceUserID,
		MSISDN:   req.MSISDN,
		UserData: req.UserData,
		Message:  message,
		MsgType:  keepOpen,
	}
}

// Screen rendering

func (s *USSDService) menuOptions() string {
	return "1. Buy Provision\n2. See Packages\n3. Track Order\n4. Contact Us"
}

func (s *USSDService) welcomeScreen() string {
	return s.config.WelcomeText + "\n\n" + s.menuOptions()
}

// backOption is the menu number that returns to the main menu from
// the package screens, one past the last catalog entry.
func (s *USSDService) backOption() string {
	return strconv.Itoa(len(s.config.Packages) + 1)
}

func (s *USSDService) packageListScreen() string {
	var b strings.Builder
	b.WriteString("Pick your pack:\n")
	for i, pkg := range s.config.Packages {
		fmt.Fprintf(&b, "\n%d. %s - GH₵%d", i+1, pkg.Name, pkg.Price)
	}
	fmt.Fprintf(&b, "\n%s. Back", s.backOption())
	return b.String()
}

func (s *USSDService) packageDetailsScreen() string {
	var b strings.Builder
	b.WriteString("📦 ProviGO Packages:\n")
	for i, pkg := range s.config.Packages {
		fmt.Fprintf(&b, "\n%d. %s (GH₵%d): %s\n", i+1, pkg.Name, pkg.Price, pkg.Items)
	}
	fmt.Fprintf(&b, "\n%s. Back", s.backOption())
	return b.String()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
