package notifications

import (
	"crypto/hmac"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendWebhookSignsBody(t *testing.T) {
	const secret = "unit-secret"

	var gotSignature string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	payload := map[string]string{"event": "transaction.updated"}
	if err := SendWebhook(server.URL, payload, secret); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotSignature == "" {
		t.Fatal("request missing signature header")
	}
	if !hmac.Equal([]byte(gotSignature), []byte(Sign(gotBody, secret))) {
		t.Fatal("signature does not match the delivered body")
	}
}

func TestSendWebhookReportsReceiverErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if err := SendWebhook(server.URL, map[string]string{}, "s"); err == nil {
		t.Fatal("non-2xx response must surface an error")
	}
}

func TestSendWebhookUnreachableURL(t *testing.T) {
	if err := SendWebhook("http://127.0.0.1:1/none", map[string]string{}, "s"); err == nil {
		t.Fatal("unreachable receiver must surface an error")
	}
}
