package hume

// Wire types for the EVI chat websocket. Every frame is a JSON object with a
// discriminating "type" field; unknown types are skipped by the read loop.

const (
	incomingChatMetadata     = "chat_metadata"
	incomingUserMessage      = "user_message"
	incomingAssistantMessage = "assistant_message"
	incomingUserInterruption = "user_interruption"
	incomingAudioOutput      = "audio_output"
	incomingError            = "error"

	outgoingAudioInput      = "audio_input"
	outgoingSessionSettings = "session_settings"
	outgoingPauseAssistant  = "pause_assistant_message"
	outgoingResumeAssistant = "resume_assistant_message"
)

type incomingFrame struct {
	Type string `json:"type"`

	// chat_metadata
	ChatID      string `json:"chat_id,omitempty"`
	ChatGroupID string `json:"chat_group_id,omitempty"`

	// user_message, assistant_message
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message,omitempty"`
	Interim bool `json:"interim,omitempty"`
	Models  struct {
		Prosody struct {
			Scores map[string]float64 `json:"scores"`
		} `json:"prosody"`
	} `json:"models,omitempty"`

	// audio_output
	Data string `json:"data,omitempty"`
	ID   string `json:"id,omitempty"`
}

// errorFrame is decoded separately from incomingFrame: its "message" field
// would collide with the chat message object and make encoding/json drop
// both.
type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

type audioInputMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type controlMessage struct {
	Type string `json:"type"`
}

type sessionSettingsMessage struct {
	Type    string          `json:"type"`
	Context *sessionContext `json:"context,omitempty"`
}

type sessionContext struct {
	Text string `json:"text"`
	// Type "editable" keeps later settings messages able to replace this
	// context instead of appending to it.
	Type string `json:"type"`
}
