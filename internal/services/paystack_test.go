package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	var captured struct {
		Email    string            `json:"email"`
		Amount   int               `json:"amount"`
		Currency string            `json:"currency"`
		Metadata map[string]string `json:"metadata"`
	}
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transaction/initialize", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"reference": "ps_test_ref",
			},
		})
	}))
	defer server.Close()

	client := NewPaystackClientWithBaseURL("sk_test_abc", server.URL)
	reference, err := client.InitializeTransaction("233241234567@provigo.app", 35000, map[string]string{
		"orderRef": "ref-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "ps_test_ref", reference)
	assert.Equal(t, "Bearer sk_test_abc", gotAuth)
	assert.Equal(t, "233241234567@provigo.app", captured.Email)
	assert.Equal(t, 35000, captured.Amount)
	assert.Equal(t, "GHS", captured.Currency)
	assert.Equal(t, "ref-1", captured.Metadata["orderRef"])
}

func TestInitializeTransactionRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer server.Close()

	client := NewPaystackClientWithBaseURL("sk_test_bad", server.URL)
	_, err := client.InitializeTransaction("x@provigo.app", 100, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestVerifyPaystackSignature(t *testing.T) {
	secret := "sk_test_secret"
	body := []byte(`{"event":"charge.success"}`)

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyPaystackSignature(secret, body, valid))
	assert.False(t, VerifyPaystackSignature(secret, body, "deadbeef"))
	assert.False(t, VerifyPaystackSignature("other_key", body, valid))
	assert.False(t, VerifyPaystackSignature(secret, []byte(`tampered`), valid))
}
