package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lbrandt/voicefloor/core/judge"
)

func TestJudgeDecodesStructuredVerdict(t *testing.T) {
	var requested requestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&requested); err != nil {
			t.Fatalf("failed to decode llm request: %v", err)
		}

		w.Write([]byte(`{"choices": [{"message": {"role": "assistant",
			"content": "{\"interrupt\": true, \"message\": \"Sorry to interrupt, but is this the main goal?\", \"reason\": \"rambling\"}"}}]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithURL(server.URL))
	verdict, err := client.Judge(context.Background(), judge.Request{
		Speech:              "um so basically I was like thinking that maybe we could",
		ConversationHistory: []judge.Entry{{Role: "assistant", Content: "What would you like to build?"}},
		SpeakingTime:        4.2,
	})
	if err != nil {
		t.Fatalf("expected judge call to succeed, got %v", err)
	}

	if requested.ResponseFormat == nil || requested.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected a json_schema response format, got %+v", requested.ResponseFormat)
	}
	if len(requested.Messages) != 3 {
		t.Fatalf("expected system + history + utterance messages, got %d", len(requested.Messages))
	}

	if !verdict.Interrupt || verdict.Message == "" || verdict.Reason != "rambling" {
		t.Fatalf("unexpected verdict: %+v", verdict)
	}
	if verdict.Stats.WordCount != 11 {
		t.Fatalf("expected word count 11, got %d", verdict.Stats.WordCount)
	}
	if verdict.Stats.FillerCount != 3 {
		t.Fatalf("expected filler count 3 (um, basically, like), got %d", verdict.Stats.FillerCount)
	}
}

func TestJudgeReturnsErrorOnNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", WithURL(server.URL))
	if _, err := client.Judge(context.Background(), judge.Request{Speech: "hello"}); err == nil {
		t.Fatalf("expected an error for a non-OK status")
	}
}

func TestCountFillersIgnoresPunctuationAndCase(t *testing.T) {
	if got := countFillers("Um, I was Like... basically done"); got != 3 {
		t.Fatalf("expected 3 fillers, got %d", got)
	}
}
