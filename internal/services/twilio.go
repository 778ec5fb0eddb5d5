package services

import (
	"fmt"
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends SMS through Twilio. It is the fallback provider
// for destinations Arkesel does not cover; select it with
// SMS_PROVIDER=twilio.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender creates a Twilio sender from the environment
func NewTwilioSender() (*TwilioSender, error) {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	from := os.Getenv("TWILIO_PHONE_NUMBER")

	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioSender{
		client: client,
		from:   from,
	}, nil
}

// Send delivers one SMS via Twilio
func (t *TwilioSender) Send(to, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(message)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS via Twilio: %v", err)
		return err
	}

	log.Printf("✅ SMS sent via Twilio! SID: %s", *resp.Sid)
	return nil
}

// NewSMSSenderFromEnv picks the configured SMS provider. Arkesel is
// the default.
func NewSMSSenderFromEnv() (SMSSender, error) {
	if os.Getenv("SMS_PROVIDER") == "twilio" {
		return NewTwilioSender()
	}
	return NewArkeselClient()
}
