package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMailClientSend(t *testing.T) {
	var received outboundEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"MessageID": "test-id"}`))
	}))
	defer server.Close()

	client := NewMailClient("test-token", "deals@example.com", server.URL)

	err := client.Send(context.Background(), Message{
		ToEmail: "alice@example.com",
		ToName:  "Alice",
		Subject: "Game deals report: 3 discounted games",
		Body:    "report body",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("server token = %q, want test-token", gotToken)
	}
	if received.To != "Alice <alice@example.com>" {
		t.Errorf("To = %q", received.To)
	}
	if received.From != "deals@example.com" {
		t.Errorf("From = %q", received.From)
	}
	if received.Subject != "Game deals report: 3 discounted games" {
		t.Errorf("Subject = %q", received.Subject)
	}
	if received.TextBody != "report body" {
		t.Errorf("TextBody = %q", received.TextBody)
	}
}

func TestMailClientSendWithoutName(t *testing.T) {
	var received outboundEmail
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewMailClient("test-token", "deals@example.com", server.URL)
	if err := client.Send(context.Background(), Message{ToEmail: "bob@example.com"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if received.To != "bob@example.com" {
		t.Errorf("To = %q, want bare address", received.To)
	}
}

func TestMailClientNotConfigured(t *testing.T) {
	client := NewMailClient("", "deals@example.com", "https://mail.test")

	if client.Configured() {
		t.Error("expected Configured() = false")
	}
	if err := client.Send(context.Background(), Message{ToEmail: "a@b.co"}); err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}

func TestMailClientAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewMailClient("test-token", "deals@example.com", server.URL)
	if err := client.Send(context.Background(), Message{ToEmail: "a@b.co"}); err == nil {
		t.Fatal("expected error for API failure")
	}
}
