package coordination

import (
	"sync"
	"time"

	"github.com/lbrandt/voicefloor/core/keywords"
)

// pauseController pauses the conversation when the user asks for a moment.
//
// Entering the paused state mutes both the microphone and the assistant's
// audio, then re-opens the microphone alone after a short delay so the user's
// next answer can be heard while the assistant stays quiet. A final
// non-pause utterance while paused resumes everything early.
type pauseController struct {
	mu     sync.Mutex
	paused bool

	controls        *audioControls
	interruptActive func() bool

	reopenDelay time.Duration
	reopenTimer *time.Timer

	onPauseStateChanged func(bool)
}

func newPauseController(controls *audioControls, interruptActive func() bool, reopenDelay time.Duration) *pauseController {
	return &pauseController{
		controls:        controls,
		interruptActive: interruptActive,
		reopenDelay:     reopenDelay,
	}
}

// requestPause enters the paused state for a matched pause intent. It is a
// no-op while already paused or while an interruption sequence is active.
func (p *pauseController) requestPause() {
	p.mu.Lock()
	if p.paused {
		p.mu.Unlock()
		return
	}
	if p.interruptActive != nil && p.interruptActive() {
		p.mu.Unlock()
		logger.Debug("suppressing pause during interruption sequence")
		return
	}
	p.paused = true
	p.mu.Unlock()

	p.controls.muteMicrophone()
	p.controls.muteAssistantAudio()
	logger.Info("conversation paused")

	p.mu.Lock()
	p.stopReopenTimerLocked()
	// Only the microphone re-opens; assistant audio stays muted until the
	// user actually answers.
	p.reopenTimer = time.AfterFunc(p.reopenDelay, p.reopenMicrophone)
	p.mu.Unlock()

	if p.onPauseStateChanged != nil {
		p.onPauseStateChanged(true)
	}
}

func (p *pauseController) reopenMicrophone() {
	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()

	if paused {
		p.controls.unmuteMicrophone()
	}
}

// handleFinalUtterance resumes the conversation when a paused user gives a
// real answer. The evaluation only runs while the microphone is actually
// open; pause phrases and very short fragments keep the pause in place.
func (p *pauseController) handleFinalUtterance(transcript string) {
	p.mu.Lock()
	paused := p.paused
	p.mu.Unlock()
	if !paused {
		return
	}

	if !p.controls.microphoneOpen() {
		return
	}
	if len(transcript) <= 3 {
		return
	}
	if keywords.Classify(transcript) == keywords.IntentPause {
		return
	}

	p.resume()
}

func (p *pauseController) resume() {
	p.mu.Lock()
	if !p.paused {
		p.mu.Unlock()
		return
	}
	p.paused = false
	p.stopReopenTimerLocked()
	p.mu.Unlock()

	p.controls.unmuteMicrophone()
	p.controls.unmuteAssistantAudio()
	logger.Info("conversation resumed")

	if p.onPauseStateChanged != nil {
		p.onPauseStateChanged(false)
	}
}

// interrupted clears any pause state when an interruption sequence starts;
// the orchestrator owns the microphone and playback from that point on.
func (p *pauseController) interrupted() {
	p.mu.Lock()
	wasPaused := p.paused
	p.paused = false
	p.stopReopenTimerLocked()
	p.mu.Unlock()

	if wasPaused && p.onPauseStateChanged != nil {
		p.onPauseStateChanged(false)
	}
}

func (p *pauseController) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *pauseController) stopReopenTimerLocked() {
	if p.reopenTimer != nil {
		p.reopenTimer.Stop()
		p.reopenTimer = nil
	}
}

func (p *pauseController) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopReopenTimerLocked()
}
