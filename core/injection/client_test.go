package injection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInjectPostsChatIDAndText(t *testing.T) {
	var received injectRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("failed to decode injection request: %v", err)
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.Inject(context.Background(), "chat-123", "Sorry to interrupt."); err != nil {
		t.Fatalf("expected injection to succeed, got %v", err)
	}

	if received.ChatID != "chat-123" || received.Text != "Sorry to interrupt." {
		t.Fatalf("unexpected injection payload: %+v", received)
	}
}

func TestInjectReportsEndpointFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer server.Close()

	if err := NewClient(server.URL).Inject(context.Background(), "chat-123", "text"); err == nil {
		t.Fatalf("expected an error when the endpoint reports failure")
	}
}

func TestInjectReportsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	if err := NewClient(server.URL).Inject(context.Background(), "chat-123", "text"); err == nil {
		t.Fatalf("expected an error for a non-OK status")
	}
}
