package hume

import (
	"sort"

	"github.com/lbrandt/voicefloor/core/events"
)

const (
	emotionScoreFloor = 0.1
	emotionLimit      = 3
)

// normalize converts an incoming frame into a coordinator event. Frames that
// carry no conversational meaning (audio, errors, unknown types) return nil.
func normalize(frame incomingFrame) events.Event {
	switch frame.Type {
	case incomingChatMetadata:
		if frame.ChatID == "" {
			return nil
		}
		return events.NewSessionStarted(frame.ChatID)
	case incomingUserMessage:
		if frame.Message.Content == "" {
			return nil
		}
		return events.NewUserUtterance(
			frame.Message.Content,
			!frame.Interim,
			topEmotions(frame.Models.Prosody.Scores),
		)
	case incomingAssistantMessage:
		if frame.Message.Content == "" {
			return nil
		}
		return events.NewAssistantUtterance(frame.Message.Content)
	case incomingUserInterruption:
		return events.NewUserInterruption()
	}
	return nil
}

// topEmotions keeps the strongest prosody scores above the noise floor,
// strongest first, capped to a small fixed count.
func topEmotions(scores map[string]float64) []events.EmotionScore {
	if len(scores) == 0 {
		return nil
	}

	emotions := make([]events.EmotionScore, 0, len(scores))
	for name, score := range scores {
		if score > emotionScoreFloor {
			emotions = append(emotions, events.EmotionScore{Name: name, Score: score})
		}
	}
	if len(emotions) == 0 {
		return nil
	}

	sort.Slice(emotions, func(i, j int) bool {
		if emotions[i].Score != emotions[j].Score {
			return emotions[i].Score > emotions[j].Score
		}
		return emotions[i].Name < emotions[j].Name
	})

	if len(emotions) > emotionLimit {
		emotions = emotions[:emotionLimit]
	}
	return emotions
}
