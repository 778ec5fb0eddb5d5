package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/provigo/provigo-backend/internal/services"
)

// USSDHandler handles requests from the NALO USSD gateway
type USSDHandler struct {
	service *services.USSDService
}

// NewUSSDHandler creates a new USSD handler
func NewUSSDHandler(service *services.USSDService) *USSDHandler {
	return &USSDHandler{service: service}
}

// HandleUSSD processes an inbound USSD request. The gateway posts a
// JSON or form body; some deployments probe with GET and query
// parameters, so both are accepted. Every response is HTTP 200 with a
// well-formed envelope — the channel drops anything else.
func (h *USSDHandler) HandleUSSD(c *fiber.Ctx) error {
	var req services.USSDRequest

	if c.Method() == fiber.MethodGet {
		req.UserID = c.Query("USERID")
		req.MSISDN = c.Query("MSISDN")
		req.UserData = c.Query("USERDATA")
		req.MsgType = c.Query("MSGTYPE") == "true"
	} else if err := c.BodyParser(&req); err != nil {
		log.Printf("ussd: parsing request body: %v", err)
		return c.JSON(services.USSDResponse{
			UserID:  h.service.UserID(),
			Message: "Invalid session. Please try again.",
		})
	}

	// Reject requests that do not carry the channel credential
	if req.UserID != h.service.UserID() {
		return c.JSON(services.USSDResponse{
			UserID:   h.service.UserID(),
			MSISDN:   req.MSISDN,
			UserData: req.UserData,
			Message:  "Invalid session. Please try again.",
		})
	}

	return c.JSON(h.service.HandleRequest(&req))
}
