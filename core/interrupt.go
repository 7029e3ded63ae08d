package coordination

import (
	"context"
	"sync"
	"time"

	"github.com/lbrandt/voicefloor/core/judge"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// InterruptPhase is the interrupt orchestrator's externally visible state.
type InterruptPhase string

const (
	// InterruptPhaseIdle accepts new verdicts.
	InterruptPhaseIdle InterruptPhase = "idle"
	// InterruptPhaseInterrupting runs the mute/pause/inject/resume sequence
	// and holds the microphone closed while the injected message plays out.
	InterruptPhaseInterrupting InterruptPhase = "interrupting"
	// InterruptPhaseCooling has re-opened the microphone but still suppresses
	// new interruptions so the judge cannot re-trigger on the tail of the
	// same utterance.
	InterruptPhaseCooling InterruptPhase = "cooling"
)

// Injector speaks text into the assistant's output channel out of band,
// bypassing the paused response pipeline.
type Injector interface {
	Inject(ctx context.Context, chatID string, text string) error
}

// interruptOrchestrator sequences a barge-in: mute the microphone, pause
// response generation, inject the judge-supplied message, resume, then walk
// through the hold and cooldown windows.
//
// At most one sequence is active at a time. All timers live as fields here
// so Close can cancel every scheduled step.
type interruptOrchestrator struct {
	mu    sync.Mutex
	phase InterruptPhase
	// cooldownActive stays set from sequence start until the cooldown window
	// ends; the judge client's suppression gate reads it.
	cooldownActive bool
	closed         bool

	chatID      func() string
	baseContext func() context.Context
	controls    *audioControls
	injector    Injector
	pause       *pauseController
	record      func(message string)
	timings     Timings

	settleTimer   *time.Timer
	resumeTimer   *time.Timer
	holdTimer     *time.Timer
	cooldownTimer *time.Timer

	onPhaseChanged func(InterruptPhase)
}

func newInterruptOrchestrator(
	chatID func() string,
	baseContext func() context.Context,
	controls *audioControls,
	pause *pauseController,
	record func(message string),
	timings Timings,
) *interruptOrchestrator {
	return &interruptOrchestrator{
		phase:       InterruptPhaseIdle,
		chatID:      chatID,
		baseContext: baseContext,
		controls:    controls,
		pause:       pause,
		record:      record,
		timings:     timings,
	}
}

func (i *interruptOrchestrator) setInjector(injector Injector) {
	if i != nil {
		i.injector = injector
	}
}

// Active reports whether an interruption sequence is in progress, including
// its cooldown. Pause and mode transitions are suppressed while it is.
func (i *interruptOrchestrator) Active() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.phase != InterruptPhaseIdle || i.cooldownActive
}

func (i *interruptOrchestrator) Phase() InterruptPhase {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.phase
}

// Offer hands a judge verdict to the orchestrator. Verdicts that do not
// request an interruption, arrive outside Idle, or arrive before the chat
// identity is known are discarded.
func (i *interruptOrchestrator) Offer(verdict judge.Verdict) {
	if !verdict.Interrupt || verdict.Message == "" {
		return
	}

	i.mu.Lock()
	if i.closed || i.phase != InterruptPhaseIdle || i.cooldownActive {
		i.mu.Unlock()
		logger.Debug("discarding interrupt verdict outside idle phase", "reason", verdict.Reason)
		return
	}
	chatID := i.chatID()
	if chatID == "" {
		i.mu.Unlock()
		logger.Debug("discarding interrupt verdict before chat identity is known")
		return
	}
	i.phase = InterruptPhaseInterrupting
	i.cooldownActive = true
	i.mu.Unlock()

	logger.Info("starting interruption sequence", "reason", verdict.Reason,
		"word_count", verdict.Stats.WordCount, "filler_count", verdict.Stats.FillerCount)

	// Muting first keeps new input from reaching the assistant mid-cancel;
	// pausing second discards the stale response. The order is load-bearing.
	i.controls.muteMicrophone()
	i.controls.pauseResponses()
	i.pause.interrupted()

	i.notifyPhase(InterruptPhaseInterrupting)

	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return
	}
	// The settle delay lets the pause take effect upstream before the
	// injected message is dispatched.
	i.settleTimer = time.AfterFunc(i.timings.InterruptSettle, func() {
		i.inject(chatID, verdict.Message)
	})
	i.holdTimer = time.AfterFunc(i.timings.InterruptHold, i.enterCooling)
	i.mu.Unlock()
}

func (i *interruptOrchestrator) inject(chatID string, message string) {
	ctx, span := tracer.Start(i.baseContext(), "inject interruption message")
	defer span.End()
	span.SetAttributes(attribute.String("injection.chat_id", chatID))

	if i.injector != nil {
		if err := i.injector.Inject(ctx, chatID, message); err != nil {
			// The attempt is irreversible from the user's perspective once
			// dispatched; local state advances regardless.
			logger.Warn("failed to inject interruption message", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	if i.record != nil {
		i.record(message)
	}

	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return
	}
	i.resumeTimer = time.AfterFunc(i.timings.InterruptResume, i.controls.resumeResponses)
	i.mu.Unlock()
}

func (i *interruptOrchestrator) enterCooling() {
	i.mu.Lock()
	if i.closed || i.phase != InterruptPhaseInterrupting {
		i.mu.Unlock()
		return
	}
	i.phase = InterruptPhaseCooling
	i.cooldownTimer = time.AfterFunc(i.timings.InterruptCooldown, i.enterIdle)
	i.mu.Unlock()

	i.controls.unmuteMicrophone()
	i.notifyPhase(InterruptPhaseCooling)
}

func (i *interruptOrchestrator) enterIdle() {
	i.mu.Lock()
	if i.closed || i.phase != InterruptPhaseCooling {
		i.mu.Unlock()
		return
	}
	i.phase = InterruptPhaseIdle
	i.cooldownActive = false
	i.mu.Unlock()

	logger.Info("interruption cooldown cleared")
	i.notifyPhase(InterruptPhaseIdle)
}

func (i *interruptOrchestrator) notifyPhase(phase InterruptPhase) {
	if i.onPhaseChanged != nil {
		i.onPhaseChanged(phase)
	}
}

func (i *interruptOrchestrator) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closed = true
	for _, timer := range []*time.Timer{i.settleTimer, i.resumeTimer, i.holdTimer, i.cooldownTimer} {
		if timer != nil {
			timer.Stop()
		}
	}
}
