package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

const arkeselBaseURL = "https://sms.arkesel.com"

// SMSSender delivers a text message to a subscriber
type SMSSender interface {
	Send(to, message string) error
}

// ArkeselClient sends SMS through the Arkesel HTTP API
type ArkeselClient struct {
	apiKey   string
	senderID string
	baseURL  string
	client   *http.Client
}

// NewArkeselClient creates an Arkesel client from the environment
func NewArkeselClient() (*ArkeselClient, error) {
	apiKey := os.Getenv("ARKESEL_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing ARKESEL_API_KEY in environment variables")
	}
	senderID := os.Getenv("ARKESEL_SENDER_ID")
	if senderID == "" {
		senderID = "ProviGO"
	}
	return &ArkeselClient{
		apiKey:   apiKey,
		senderID: senderID,
		baseURL:  arkeselBaseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// NewArkeselClientWithBaseURL is used by tests to point the client at
// a local server.
func NewArkeselClientWithBaseURL(apiKey, senderID, baseURL string) *ArkeselClient {
	return &ArkeselClient{
		apiKey:   apiKey,
		senderID: senderID,
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type arkeselResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send delivers one SMS via Arkesel's send-sms action
func (a *ArkeselClient) Send(to, message string) error {
	query := url.Values{}
	query.Set("action", "send-sms")
	query.Set("api_key", a.apiKey)
	query.Set("to", to)
	query.Set("from", a.senderID)
	query.Set("sms", message)

	resp, err := a.client.Get(a.baseURL + "/sms/api?" + query.Encode())
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	var parsed arkeselResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode sms response: %w", err)
	}
	if parsed.Code != "ok" {
		return fmt.Errorf("arkesel rejected sms: %s", parsed.Message)
	}

	log.Printf("SMS sent to %s via Arkesel", to)
	return nil
}

// BuildPaymentConfirmationSMS renders the message sent when a Mobile
// Money payment lands.
func BuildPaymentConfirmationSMS(orderID, schoolName string) string {
	return fmt.Sprintf(
		"Hello,\n\nYour ProviGO order (Order ID: %s) has been received successfully.\n\nWe are currently preparing your package for delivery to %s.\n\nThank you for choosing ProviGO.\n\nSupport: 0247112620",
		orderID, schoolName,
	)
}

// BuildDeliveryConfirmationSMS renders the message sent when an order
// is marked Delivered.
func BuildDeliveryConfirmationSMS(orderID, schoolName string) string {
	return fmt.Sprintf(
		"Your ProviGO package (Order ID: %s) has been delivered to %s. Thank you for trusting us.",
		orderID, schoolName,
	)
}
