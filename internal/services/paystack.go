package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

const paystackBaseURL = "https://api.paystack.co"

// PaystackClient talks to the Paystack transaction API
type PaystackClient struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackClient creates a Paystack client from the environment
func NewPaystackClient() (*PaystackClient, error) {
	secretKey := os.Getenv("PAYSTACK_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("missing PAYSTACK_SECRET_KEY in environment variables")
	}
	return &PaystackClient{
		secretKey: secretKey,
		baseURL:   paystackBaseURL,
		// Short timeout: a slow gateway must not hold the USSD
		// response hostage
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// NewPaystackClientWithBaseURL is used by tests to point the client
// at a local server.
func NewPaystackClientWithBaseURL(secretKey, baseURL string) *PaystackClient {
	return &PaystackClient{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type paystackInitRequest struct {
	Email    string            `json:"email"`
	Amount   int               `json:"amount"` // pesewas
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeTransaction starts a Paystack transaction and returns the
// gateway reference.
func (p *PaystackClient) InitializeTransaction(email string, amountPesewas int, metadata map[string]string) (string, error) {
	body, err := json.Marshal(paystackInitRequest{
		Email:    email,
		Amount:   amountPesewas,
		Currency: "GHS",
		Metadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("marshal initialize request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("initialize transaction: %w", err)
	}
	defer resp.Body.Close()

	var parsed paystackInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode initialize response: %w", err)
	}
	if !parsed.Status {
		return "", fmt.Errorf("paystack rejected transaction: %s", parsed.Message)
	}

	log.Printf("Paystack transaction initialized, reference %s", parsed.Data.Reference)
	return parsed.Data.Reference, nil
}

// VerifySignature checks the x-paystack-signature header on a webhook
// body: HMAC-SHA512 of the raw payload keyed with the secret key.
func (p *PaystackClient) VerifySignature(body []byte, signature string) bool {
	return VerifyPaystackSignature(p.secretKey, body, signature)
}

// VerifyPaystackSignature implements the webhook signature check used
// by both the client and the webhook middleware.
func VerifyPaystackSignature(secretKey string, body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
