package coordination

import (
	"sync"
	"testing"
	"time"
)

const (
	actionMuteMicrophone       = "mute_microphone"
	actionUnmuteMicrophone     = "unmute_microphone"
	actionMuteAssistantAudio   = "mute_assistant_audio"
	actionUnmuteAssistantAudio = "unmute_assistant_audio"
	actionPauseResponses       = "pause_responses"
	actionResumeResponses      = "resume_responses"
	actionSetInstruction       = "set_response_instruction"
)

// actionRecorder records every audio-control action in order.
type actionRecorder struct {
	mu           sync.Mutex
	actions      []string
	instructions []string
	micMuted     bool
	err          error
}

func newActionRecorder() *actionRecorder {
	return &actionRecorder{}
}

func (r *actionRecorder) record(action string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	return r.err
}

func (r *actionRecorder) MuteMicrophone() error {
	r.mu.Lock()
	r.micMuted = true
	r.mu.Unlock()
	return r.record(actionMuteMicrophone)
}

func (r *actionRecorder) UnmuteMicrophone() error {
	r.mu.Lock()
	r.micMuted = false
	r.mu.Unlock()
	return r.record(actionUnmuteMicrophone)
}

func (r *actionRecorder) MuteAssistantAudio() error   { return r.record(actionMuteAssistantAudio) }
func (r *actionRecorder) UnmuteAssistantAudio() error { return r.record(actionUnmuteAssistantAudio) }
func (r *actionRecorder) PauseResponses() error       { return r.record(actionPauseResponses) }
func (r *actionRecorder) ResumeResponses() error      { return r.record(actionResumeResponses) }

func (r *actionRecorder) SetResponseInstruction(instruction string) error {
	r.mu.Lock()
	r.instructions = append(r.instructions, instruction)
	r.mu.Unlock()
	return r.record(actionSetInstruction)
}

func (r *actionRecorder) MicrophoneOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.micMuted
}

func (r *actionRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.actions...)
}

func (r *actionRecorder) instructionsSnapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.instructions...)
}

// waitForActions polls until the recorder holds exactly the expected sequence.
func waitForActions(t *testing.T, recorder *actionRecorder, expected []string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		actions := recorder.snapshot()
		if equalStrings(actions, expected) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected actions %v, got %v", expected, actions)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// waitForCondition polls until check passes.
func waitForCondition(t *testing.T, description string, check func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if check() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", description)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAudioControlsToleratesMissingSink(t *testing.T) {
	controls := newAudioControls(nil)

	controls.muteMicrophone()
	controls.unmuteMicrophone()
	controls.muteAssistantAudio()
	controls.unmuteAssistantAudio()
	controls.pauseResponses()
	controls.resumeResponses()
	controls.setResponseInstruction("anything")

	if !controls.microphoneOpen() {
		t.Errorf("expected unconfigured controls to report the microphone open")
	}
}

func TestAudioControlsReportsMicrophoneState(t *testing.T) {
	recorder := newActionRecorder()
	controls := newAudioControls(recorder)

	if !controls.microphoneOpen() {
		t.Fatalf("expected microphone open initially")
	}

	controls.muteMicrophone()
	if controls.microphoneOpen() {
		t.Errorf("expected microphone closed after mute")
	}

	controls.unmuteMicrophone()
	if !controls.microphoneOpen() {
		t.Errorf("expected microphone open after unmute")
	}
}
