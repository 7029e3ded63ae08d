package events

const (
	// KindSessionStarted identifies the transport assigning a chat identity.
	KindSessionStarted Kind = "session.started"
)

// SessionStarted carries the chat identity assigned by the transport.
type SessionStarted struct {
	Base
	ChatID string
}

// NewSessionStarted creates a session identity event.
func NewSessionStarted(chatID string) SessionStarted {
	return SessionStarted{Base: NewBase(KindSessionStarted), ChatID: chatID}
}
