package coordination

import (
	"sync"

	"github.com/lbrandt/voicefloor/core/keywords"
)

// Mode is the assistant's verbosity mode.
type Mode string

const (
	ModeNormal   Mode = "normal"
	ModeQuick    Mode = "quick"
	ModeDetailed Mode = "detailed"
)

const (
	quickInstruction = "Answer in a single short sentence. Skip caveats and " +
		"extra detail unless the user asks for them."
	detailedInstruction = "Answer in two or three sentences, include a " +
		"concrete example, and briefly explain your reasoning."
)

// modeController tracks the verbosity mode and emits the matching
// response-context instruction when it changes.
//
// A mode persists until the opposite keyword class fires; there is
// intentionally no reset-to-normal keyword.
type modeController struct {
	mu       sync.Mutex
	mode     Mode
	controls *audioControls

	onModeChanged func(Mode)
}

func newModeController(controls *audioControls) *modeController {
	return &modeController{mode: ModeNormal, controls: controls}
}

// apply switches the mode for a matched intent. Re-matching the active mode
// is a no-op so the instruction is never redundantly resent.
func (m *modeController) apply(intent keywords.Intent) {
	var (
		target      Mode
		instruction string
	)
	switch intent {
	case keywords.IntentBrevity:
		target, instruction = ModeQuick, quickInstruction
	case keywords.IntentElaboration:
		target, instruction = ModeDetailed, detailedInstruction
	default:
		return
	}

	m.mu.Lock()
	if m.mode == target {
		m.mu.Unlock()
		return
	}
	m.mode = target
	m.mu.Unlock()

	m.controls.setResponseInstruction(instruction)
	logger.Info("verbosity mode changed", "mode", string(target))
	if m.onModeChanged != nil {
		m.onModeChanged(target)
	}
}

func (m *modeController) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}
