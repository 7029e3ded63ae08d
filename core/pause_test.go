package coordination

import (
	"sync"
	"testing"
	"time"
)

func newPauseFixture(interruptActive bool) (*pauseController, *actionRecorder) {
	recorder := newActionRecorder()
	controls := newAudioControls(recorder)
	pause := newPauseController(controls, func() bool { return interruptActive }, 30*time.Millisecond)
	return pause, recorder
}

func TestPauseMutesBothSides(t *testing.T) {
	pause, recorder := newPauseFixture(false)
	defer pause.Close()

	pause.requestPause()

	if !pause.Paused() {
		t.Fatalf("expected paused state")
	}
	actions := recorder.snapshot()
	if len(actions) != 2 || actions[0] != actionMuteMicrophone || actions[1] != actionMuteAssistantAudio {
		t.Fatalf("expected microphone and assistant audio muted, got %v", actions)
	}
}

func TestPauseReopensMicrophoneOnly(t *testing.T) {
	pause, recorder := newPauseFixture(false)
	defer pause.Close()

	pause.requestPause()

	waitForActions(t, recorder, []string{
		actionMuteMicrophone,
		actionMuteAssistantAudio,
		actionUnmuteMicrophone,
	})

	if !pause.Paused() {
		t.Errorf("expected the pause to persist after the microphone re-opens")
	}
}

func TestPauseIsIdempotent(t *testing.T) {
	pause, recorder := newPauseFixture(false)
	defer pause.Close()

	pause.requestPause()
	pause.requestPause()

	if actions := recorder.snapshot(); len(actions) != 2 {
		t.Errorf("expected a repeated pause request to be a no-op, got %v", actions)
	}
}

func TestPauseSuppressedDuringInterruption(t *testing.T) {
	pause, recorder := newPauseFixture(true)
	defer pause.Close()

	pause.requestPause()

	if pause.Paused() {
		t.Errorf("expected no pause during an interruption sequence")
	}
	if actions := recorder.snapshot(); len(actions) != 0 {
		t.Errorf("expected no actions, got %v", actions)
	}
}

func TestPauseResumesOnSubstantiveAnswer(t *testing.T) {
	pause, recorder := newPauseFixture(false)
	defer pause.Close()

	pause.requestPause()
	waitForCondition(t, "microphone re-open", func() bool {
		return recorder.MicrophoneOpen()
	})

	pause.handleFinalUtterance("okay, so here is what I actually wanted to ask")

	if pause.Paused() {
		t.Fatalf("expected the answer to resume the conversation")
	}
	actions := recorder.snapshot()
	last := actions[len(actions)-1]
	if last != actionUnmuteAssistantAudio {
		t.Errorf("expected assistant audio unmuted on resume, got %v", actions)
	}
}

func TestPauseIgnoresShortAndPausePhraseAnswers(t *testing.T) {
	pause, recorder := newPauseFixture(false)
	defer pause.Close()

	pause.requestPause()
	waitForCondition(t, "microphone re-open", func() bool {
		return recorder.MicrophoneOpen()
	})

	pause.handleFinalUtterance("hm")
	pause.handleFinalUtterance("wait, hold on a second")

	if !pause.Paused() {
		t.Errorf("expected short and pause-phrase answers to keep the pause in place")
	}
}

func TestPauseIgnoresAnswersWhileMicrophoneClosed(t *testing.T) {
	pause, recorder := newPauseFixture(false)
	defer pause.Close()

	pause.requestPause()
	if recorder.MicrophoneOpen() {
		t.Fatalf("expected the microphone closed right after pausing")
	}

	pause.handleFinalUtterance("this arrived before the microphone re-opened")

	if !pause.Paused() {
		t.Errorf("expected answers before the re-open to be ignored")
	}
}

func TestPauseStateCallbackFiresOnTransitions(t *testing.T) {
	pause, recorder := newPauseFixture(false)
	defer pause.Close()

	var (
		mu          sync.Mutex
		transitions []bool
	)
	pause.onPauseStateChanged = func(paused bool) {
		mu.Lock()
		transitions = append(transitions, paused)
		mu.Unlock()
	}

	pause.requestPause()
	waitForCondition(t, "microphone re-open", func() bool {
		return recorder.MicrophoneOpen()
	})
	pause.handleFinalUtterance("alright, I remembered what I wanted to say")

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 2 || !transitions[0] || transitions[1] {
		t.Errorf("expected transitions [true false], got %v", transitions)
	}
}
