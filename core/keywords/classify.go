// Package keywords maps user utterances to conversation-control intents.
//
// Classification is a pure string check: it carries no session or
// interruption state, and callers are responsible for deciding whether a
// matched intent may act. Phrase classes are evaluated in fixed priority
// order pause > brevity > elaboration and the first match wins.
package keywords

import "strings"

// Intent is a conversation-control intent matched from an utterance.
type Intent string

const (
	IntentNone        Intent = ""
	IntentPause       Intent = "pause"
	IntentBrevity     Intent = "brevity"
	IntentElaboration Intent = "elaboration"
)

var pausePhrases = []string{
	"hold on",
	"hang on",
	"wait a moment",
	"wait a second",
	"give me a second",
	"give me a moment",
	"let me think",
	"one moment",
	"one second",
	"pause for a moment",
}

var brevityPhrases = []string{
	"keep it short",
	"keep it brief",
	"be brief",
	"be quick",
	"short answer",
	"short version",
	"in a sentence",
	"quick answer",
	"make it quick",
}

var elaborationPhrases = []string{
	"in detail",
	"more detail",
	"tell me more",
	"elaborate",
	"explain more",
	"go deeper",
	"give me an example",
	"walk me through",
}

// Classify returns the control intent matched by text, or IntentNone.
//
// Matching is case-insensitive substring containment against disjoint phrase
// lists, checked in priority order so an utterance carrying both a pause
// phrase and a mode phrase always resolves to pause.
func Classify(text string) Intent {
	lowered := strings.ToLower(text)

	for _, phrase := range pausePhrases {
		if strings.Contains(lowered, phrase) {
			return IntentPause
		}
	}
	for _, phrase := range brevityPhrases {
		if strings.Contains(lowered, phrase) {
			return IntentBrevity
		}
	}
	for _, phrase := range elaborationPhrases {
		if strings.Contains(lowered, phrase) {
			return IntentElaboration
		}
	}

	return IntentNone
}
