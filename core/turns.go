package coordination

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/lbrandt/voicefloor/core/judge"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryEntry is a single finalized conversation item.
type HistoryEntry struct {
	Role    string
	Content string
}

// conversationLog is the append-only conversation record used as judge
// context and as the visible transcript source.
//
// Only final user turns and completed assistant turns are recorded.
// Consecutive assistant fragments coalesce into one entry until a user turn
// or an injected message closes the assistant turn.
type conversationLog struct {
	mu            sync.RWMutex
	entries       []HistoryEntry
	openAssistant bool
}

func (l *conversationLog) appendUser(content string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, HistoryEntry{Role: RoleUser, Content: content})
	l.openAssistant = false
}

func (l *conversationLog) appendAssistant(fragment string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.openAssistant && len(l.entries) > 0 {
		last := &l.entries[len(l.entries)-1]
		if last.Role == RoleAssistant {
			if last.Content != "" && fragment != "" {
				last.Content += " "
			}
			last.Content += fragment
			return
		}
	}

	l.entries = append(l.entries, HistoryEntry{Role: RoleAssistant, Content: fragment})
	l.openAssistant = true
}

// appendInjected records an injected assistant message as a closed entry so
// later response fragments do not merge into it.
func (l *conversationLog) appendInjected(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, HistoryEntry{Role: RoleAssistant, Content: message})
	l.openAssistant = false
}

// Entries returns a deep snapshot of the log.
func (l *conversationLog) Entries() []HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var entries []HistoryEntry
	if err := copier.Copy(&entries, &l.entries); err != nil {
		logger.Warn("failed to snapshot conversation log", "error", err)
		entries = append([]HistoryEntry(nil), l.entries...)
	}
	return entries
}

// judgeContext converts the log tail into judge entries. Window trimming is
// the judge client's concern.
func (l *conversationLog) judgeContext() []judge.Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]judge.Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		entries = append(entries, judge.Entry{Role: entry.Role, Content: entry.Content})
	}
	return entries
}

// userTurn accumulates one contiguous user utterance from interim snapshots
// until a final event closes it. Owned exclusively by the coordinator's
// event loop.
type userTurn struct {
	id            string
	interim       string
	started       bool
	speakingStart time.Time
}

// applyInterim records an interim snapshot, starting the turn (and its
// speaking clock) on the first one.
func (t *userTurn) applyInterim(transcript string, now time.Time) {
	if !t.started {
		t.id = uuid.NewString()
		t.started = true
		t.speakingStart = now
	}
	t.interim = transcript
}

// speakingTime is the elapsed speaking time for the open turn.
func (t *userTurn) speakingTime(now time.Time) time.Duration {
	if !t.started {
		return 0
	}
	return now.Sub(t.speakingStart)
}

func (t *userTurn) reset() {
	*t = userTurn{}
}
