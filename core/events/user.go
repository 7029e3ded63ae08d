package events

const (
	// KindUserUtterance identifies an interim or final user transcript update.
	KindUserUtterance Kind = "user_input.utterance"
	// KindUserInterruption identifies a transport notice that the user barged
	// in over assistant playback.
	KindUserInterruption Kind = "user_input.interruption"
)

// EmotionScore is a single named emotion measurement for an utterance.
type EmotionScore struct {
	Name  string
	Score float64
}

// UserUtterance carries a user transcript update.
//
// An interim utterance is a full snapshot of the turn so far and is
// superseded by the next interim or final utterance of the same turn.
type UserUtterance struct {
	Base
	Transcript string
	Final      bool
	// Emotions holds the top measured emotions for this utterance, strongest
	// first. Empty when the transport provides no prosody information.
	Emotions []EmotionScore
}

// NewUserUtterance creates a user transcript update event.
func NewUserUtterance(transcript string, final bool, emotions []EmotionScore) UserUtterance {
	return UserUtterance{
		Base:       NewBase(KindUserUtterance),
		Transcript: transcript,
		Final:      final,
		Emotions:   emotions,
	}
}

// UserInterruption marks a transport-level user barge-in over assistant
// playback.
type UserInterruption struct{ Base }

// NewUserInterruption creates a user barge-in notice event.
func NewUserInterruption() UserInterruption {
	return UserInterruption{Base: NewBase(KindUserInterruption)}
}
