package coordination

import "sync"

// session holds the chat identity assigned by the transport.
//
// The identity is written exactly once by the event normalizer path and read
// by every controller; no other component may mutate it.
type session struct {
	mu     sync.RWMutex
	chatID string
}

func (s *session) setChatID(chatID string) {
	if chatID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chatID != "" && s.chatID != chatID {
		logger.Warn("transport reassigned chat identity mid-session",
			"previous", s.chatID, "next", chatID)
	}
	s.chatID = chatID
}

func (s *session) ChatID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatID
}
