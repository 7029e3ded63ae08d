package coordination

import (
	"time"

	"github.com/lbrandt/voicefloor/core/events"
	"github.com/lbrandt/voicefloor/core/judge"
)

// Timings are the fixed delays driving the coordinator's state machines.
// They are overridable for tests; none of them is user-cancelable except via
// the explicit actions described on each field.
type Timings struct {
	// InterruptSettle separates the mute/pause pair from the injection
	// dispatch, letting the pause take effect upstream.
	InterruptSettle time.Duration
	// InterruptResume separates the injection dispatch from resuming normal
	// response generation.
	InterruptResume time.Duration
	// InterruptHold keeps the microphone closed after an interruption starts
	// so the injected message can finish playing.
	InterruptHold time.Duration
	// InterruptCooldown suppresses new interruptions after the hold ends so
	// the judge cannot re-trigger on the tail of the same utterance.
	InterruptCooldown time.Duration
	// PauseReopen re-opens the microphone after a pause; a fresh final
	// non-pause utterance cancels it early.
	PauseReopen time.Duration
	// PlaybackDrain is the beat between muting and unmuting assistant audio
	// on a transport-level user barge-in notice, letting the transport's own
	// buffer drain.
	PlaybackDrain time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		InterruptSettle:   200 * time.Millisecond,
		InterruptResume:   100 * time.Millisecond,
		InterruptHold:     4 * time.Second,
		InterruptCooldown: 8 * time.Second,
		PauseReopen:       2 * time.Second,
		PlaybackDrain:     100 * time.Millisecond,
	}
}

type CoordinatorOption func(*Coordinator)

// WithAudioControls wires the audio-control action sink, usually the
// transport adapter.
func WithAudioControls(sink AudioControls) CoordinatorOption {
	return func(c *Coordinator) { c.controls.set(sink) }
}

// WithJudge wires the judge caller deciding barge-ins. Additional judge
// client options (debounce, word and speaking-time minimums) pass through;
// the coordinator always installs its own suppression gate last.
func WithJudge(caller judge.Caller, opts ...judge.ClientOption) CoordinatorOption {
	return func(c *Coordinator) {
		c.judgeCaller = caller
		c.judgeOptions = opts
	}
}

// WithInjector wires the out-of-band text-injection channel used by the
// interrupt orchestrator.
func WithInjector(injector Injector) CoordinatorOption {
	return func(c *Coordinator) { c.injector = injector }
}

func WithTimings(timings Timings) CoordinatorOption {
	return func(c *Coordinator) { c.timings = timings }
}

type CoordinateOptions struct {
	onTranscription         func(transcript string)
	onInterimTranscription  func(transcript string)
	onAssistantResponse     func(fragment string)
	onInjectedMessage       func(message string)
	onEmotions              func(emotions []events.EmotionScore)
	onModeChanged           func(mode Mode)
	onPauseStateChanged     func(paused bool)
	onInterruptPhaseChanged func(phase InterruptPhase)
}

type CoordinateOption func(*CoordinateOptions)

// WithTranscriptionCallback registers a callback for final user transcripts.
func WithTranscriptionCallback(callback func(transcript string)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onTranscription = callback }
}

// WithInterimTranscriptionCallback registers a callback for interim user
// transcript snapshots.
func WithInterimTranscriptionCallback(callback func(transcript string)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onInterimTranscription = callback }
}

// WithAssistantResponseCallback registers a callback for streamed assistant
// response fragments.
func WithAssistantResponseCallback(callback func(fragment string)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onAssistantResponse = callback }
}

// WithInjectedMessageCallback registers a callback for messages spoken
// through the interruption channel. The callback fires once the injection is
// dispatched, regardless of whether the transport accepted it.
func WithInjectedMessageCallback(callback func(message string)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onInjectedMessage = callback }
}

// WithEmotionsCallback registers a callback for per-utterance emotion scores
// measured by the transport.
func WithEmotionsCallback(callback func(emotions []events.EmotionScore)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onEmotions = callback }
}

func WithModeChangedCallback(callback func(mode Mode)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onModeChanged = callback }
}

func WithPauseStateCallback(callback func(paused bool)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onPauseStateChanged = callback }
}

func WithInterruptPhaseCallback(callback func(phase InterruptPhase)) CoordinateOption {
	return func(o *CoordinateOptions) { o.onInterruptPhaseChanged = callback }
}
