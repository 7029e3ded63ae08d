package events

const (
	// KindAssistantUtterance identifies a streamed assistant response fragment.
	KindAssistantUtterance Kind = "assistant_response.fragment"
)

// AssistantUtterance carries a streamed assistant response text fragment.
//
// Consecutive fragments belong to the same assistant turn until a final user
// utterance closes it.
type AssistantUtterance struct {
	Base
	Fragment string
}

// NewAssistantUtterance creates an assistant response fragment event.
func NewAssistantUtterance(fragment string) AssistantUtterance {
	return AssistantUtterance{Base: NewBase(KindAssistantUtterance), Fragment: fragment}
}
