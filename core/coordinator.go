// Package coordination mediates turn-taking in a live spoken conversation
// between a user and a voice assistant.
//
// The Coordinator consumes normalized speech events from a transport and
// produces audio-control actions: muting either side, pausing and resuming
// response generation, steering verbosity, and barging in with an injected
// utterance when the judge decides the user needs redirecting.
package coordination

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lbrandt/voicefloor/core/events"
	"github.com/lbrandt/voicefloor/core/judge"
	"github.com/lbrandt/voicefloor/core/keywords"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const eventQueueCapacity = 32

// Coordinator is the top-level turn-taking coordinator.
//
// Speech events are processed strictly in arrival order on a single event
// loop; judge verdicts may resolve out of order and are reconciled by the
// judge client's generation token before they reach the orchestrator.
type Coordinator struct {
	session session
	log     conversationLog
	turn    userTurn

	controls  *audioControls
	modes     *modeController
	pause     *pauseController
	interrupt *interruptOrchestrator
	judge     *judge.Client

	judgeCaller  judge.Caller
	judgeOptions []judge.ClientOption
	injector     Injector
	timings      Timings

	queue     chan events.Event
	closeCh   chan struct{}
	done      chan struct{}
	started   atomic.Bool
	startOnce sync.Once
	closeOnce sync.Once

	ctxMu       sync.RWMutex
	baseContext context.Context

	coordinateOptions CoordinateOptions

	drainMu    sync.Mutex
	drainTimer *time.Timer
}

// NewCoordinator creates a coordinator. Collaborators are wired through
// options; anything left unconfigured degrades to a no-op so the coordinator
// stays serviceable in partial setups and tests.
func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		timings:     DefaultTimings(),
		queue:       make(chan events.Event, eventQueueCapacity),
		closeCh:     make(chan struct{}),
		done:        make(chan struct{}),
		baseContext: context.Background(),
	}
	c.controls = newAudioControls(nil)

	for _, opt := range opts {
		opt(c)
	}

	c.pause = newPauseController(c.controls, func() bool { return c.interrupt.Active() }, c.timings.PauseReopen)
	c.modes = newModeController(c.controls)
	c.interrupt = newInterruptOrchestrator(
		c.session.ChatID,
		c.currentContext,
		c.controls,
		c.pause,
		c.recordInjectedMessage,
		c.timings,
	)
	c.interrupt.setInjector(c.injector)

	judgeOptions := append([]judge.ClientOption{}, c.judgeOptions...)
	judgeOptions = append(judgeOptions, judge.WithSuppression(c.interrupt.Active))
	c.judge = judge.NewClient(c.judgeCaller, c.interrupt.Offer, judgeOptions...)

	c.modes.onModeChanged = func(mode Mode) {
		if callback := c.coordinateOptions.onModeChanged; callback != nil {
			callback(mode)
		}
	}
	c.pause.onPauseStateChanged = func(paused bool) {
		if callback := c.coordinateOptions.onPauseStateChanged; callback != nil {
			callback(paused)
		}
	}
	c.interrupt.onPhaseChanged = func(phase InterruptPhase) {
		if callback := c.coordinateOptions.onInterruptPhaseChanged; callback != nil {
			callback(phase)
		}
	}

	return c
}

// Coordinate starts the event loop.
//
// ctx is the base context for judge and injection calls; cancelling it closes
// the coordinator. Call Coordinate at most once per coordinator instance.
func (c *Coordinator) Coordinate(ctx context.Context, opts ...CoordinateOption) {
	if c.isClosed() {
		logger.Warn("coordinator already closed, skipping Coordinate")
		return
	}

	c.coordinateOptions = CoordinateOptions{}
	for _, opt := range opts {
		opt(&c.coordinateOptions)
	}

	c.ctxMu.Lock()
	c.baseContext = ctx
	c.ctxMu.Unlock()

	c.startOnce.Do(func() {
		c.started.Store(true)
		go func() {
			defer close(c.done)
			for {
				select {
				case <-c.closeCh:
					return
				case event := <-c.queue:
					c.processEvent(event)
				}
			}
		}()
		go func() {
			select {
			case <-ctx.Done():
				c.Close()
			case <-c.closeCh:
			}
		}()
	})
}

// HandleEvent enqueues a normalized speech event for processing. Events are
// handled strictly in the order they were enqueued.
func (c *Coordinator) HandleEvent(event events.Event) {
	if event == nil {
		return
	}

	select {
	case <-c.closeCh:
	case c.queue <- event:
	}
}

// Close shuts the event loop down and cancels every outstanding timer and
// judge call.
func (c *Coordinator) Close() {
	c.closeOnce.Do(func() {
		close(c.closeCh)

		c.judge.Close()
		c.interrupt.Close()
		c.pause.Close()

		c.drainMu.Lock()
		if c.drainTimer != nil {
			c.drainTimer.Stop()
		}
		c.drainMu.Unlock()

		if c.started.Load() {
			<-c.done
		}
	})
}

// ConversationSnapshot is a point-in-time view of coordinator state.
type ConversationSnapshot struct {
	ChatID         string
	Entries        []HistoryEntry
	Mode           Mode
	Paused         bool
	InterruptPhase InterruptPhase
}

func (c *Coordinator) Conversation() ConversationSnapshot {
	return ConversationSnapshot{
		ChatID:         c.session.ChatID(),
		Entries:        c.log.Entries(),
		Mode:           c.modes.Mode(),
		Paused:         c.pause.Paused(),
		InterruptPhase: c.interrupt.Phase(),
	}
}

func (c *Coordinator) processEvent(event events.Event) {
	_, span := tracer.Start(c.currentContext(), "process speech event",
		trace.WithAttributes(attribute.String("event.kind", string(event.Kind()))))
	defer span.End()

	switch typedEvent := event.(type) {
	case events.SessionStarted:
		c.session.setChatID(typedEvent.ChatID)
	case events.UserInterruption:
		c.handleUserInterruption()
	case events.UserUtterance:
		c.handleUserUtterance(typedEvent)
	case events.AssistantUtterance:
		c.handleAssistantUtterance(typedEvent)
	}
}

// handleUserInterruption reacts to the transport's own barge-in notice with
// a short mute/unmute beat on assistant playback, letting the transport's
// buffer drain. This path is independent of the interrupt orchestrator.
func (c *Coordinator) handleUserInterruption() {
	c.controls.muteAssistantAudio()

	c.drainMu.Lock()
	if c.drainTimer != nil {
		c.drainTimer.Stop()
	}
	c.drainTimer = time.AfterFunc(c.timings.PlaybackDrain, c.controls.unmuteAssistantAudio)
	c.drainMu.Unlock()
}

func (c *Coordinator) handleUserUtterance(utterance events.UserUtterance) {
	transcript := utterance.Transcript

	if !utterance.Final {
		c.turn.applyInterim(transcript, time.Now())
	}

	if callback := c.coordinateOptions.onEmotions; callback != nil && len(utterance.Emotions) > 0 {
		callback(utterance.Emotions)
	}

	c.applyIntent(keywords.Classify(transcript))

	if utterance.Final {
		c.pause.handleFinalUtterance(transcript)

		if strings.TrimSpace(transcript) != "" {
			c.log.appendUser(transcript)
			if callback := c.coordinateOptions.onTranscription; callback != nil {
				callback(transcript)
			}
		}
		c.turn.reset()
		return
	}

	if callback := c.coordinateOptions.onInterimTranscription; callback != nil {
		callback(transcript)
	}

	c.judge.Submit(c.currentContext(), transcript, c.log.judgeContext(), c.turn.speakingTime(time.Now()))
}

func (c *Coordinator) handleAssistantUtterance(utterance events.AssistantUtterance) {
	if strings.TrimSpace(utterance.Fragment) == "" {
		return
	}

	c.log.appendAssistant(utterance.Fragment)
	if callback := c.coordinateOptions.onAssistantResponse; callback != nil {
		callback(utterance.Fragment)
	}
}

// applyIntent applies the trigger precedence table: an active interruption
// sequence suppresses both pause and mode transitions.
func (c *Coordinator) applyIntent(intent keywords.Intent) {
	if intent == keywords.IntentNone {
		return
	}

	if c.interrupt.Active() {
		logger.Debug("suppressing keyword intent during interruption sequence", "intent", string(intent))
		return
	}

	switch intent {
	case keywords.IntentPause:
		c.pause.requestPause()
	case keywords.IntentBrevity, keywords.IntentElaboration:
		c.modes.apply(intent)
	}
}

// recordInjectedMessage advances local conversation state for a dispatched
// injection, whether or not the transport accepted it.
func (c *Coordinator) recordInjectedMessage(message string) {
	c.log.appendInjected(message)
	if callback := c.coordinateOptions.onInjectedMessage; callback != nil {
		callback(message)
	}
}

func (c *Coordinator) currentContext() context.Context {
	c.ctxMu.RLock()
	defer c.ctxMu.RUnlock()
	if c.baseContext != nil {
		return c.baseContext
	}
	return context.Background()
}

func (c *Coordinator) isClosed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}
