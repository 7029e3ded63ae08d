package hume

import (
	"encoding/json"
	"testing"
)

func TestIncomingFrameDecodesMessageContent(t *testing.T) {
	payload := `{"type":"user_message","interim":true,
		"message":{"role":"user","content":"so I was thinking"},
		"models":{"prosody":{"scores":{"calmness":0.6}}}}`

	var frame incomingFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}

	if frame.Message.Content != "so I was thinking" {
		t.Fatalf("expected the message content decoded, got %q", frame.Message.Content)
	}
	if frame.Message.Role != "user" || !frame.Interim {
		t.Errorf("unexpected frame fields: %+v", frame)
	}
	if frame.Models.Prosody.Scores["calmness"] != 0.6 {
		t.Errorf("unexpected prosody scores: %v", frame.Models.Prosody.Scores)
	}
}

func TestIncomingFrameDecodesAssistantContent(t *testing.T) {
	payload := `{"type":"assistant_message","message":{"role":"assistant","content":"Sure."}}`

	var frame incomingFrame
	if err := json.Unmarshal([]byte(payload), &frame); err != nil {
		t.Fatalf("failed to decode frame: %v", err)
	}

	if frame.Message.Content != "Sure." {
		t.Fatalf("expected the assistant content decoded, got %q", frame.Message.Content)
	}
}

func TestErrorFrameDecodesSeparately(t *testing.T) {
	payload := `{"type":"error","code":"E0101","slug":"payment_required","message":"credits exhausted"}`

	var sessionError errorFrame
	if err := json.Unmarshal([]byte(payload), &sessionError); err != nil {
		t.Fatalf("failed to decode error frame: %v", err)
	}

	if sessionError.Code != "E0101" || sessionError.Message != "credits exhausted" {
		t.Errorf("unexpected error frame: %+v", sessionError)
	}
}
