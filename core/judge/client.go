package judge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// historyWindow caps how many conversation entries are sent per call.
const historyWindow = 4

const (
	defaultMinimumWords        = 8
	defaultMinimumSpeakingTime = 1500 * time.Millisecond
	defaultDebounce            = 400 * time.Millisecond
)

// Client submits candidate utterances to a Caller, enforcing the dispatch
// preconditions and making sure at most one call is meaningfully in flight.
//
// Submitting a new call cancels the previous outstanding one; a superseded
// response is dropped by generation token, never merged.
type Client struct {
	caller     Caller
	onVerdict  func(Verdict)
	suppressed func() bool

	minimumWords        int
	minimumSpeakingTime time.Duration
	debounce            time.Duration

	mu             sync.Mutex
	token          uint64
	lastIssuedAt   time.Time
	cancelInFlight context.CancelFunc
}

type ClientOption func(*Client)

// WithSuppression registers a gate evaluated before every dispatch; while it
// reports true no calls are issued. The coordinator uses this to block judge
// traffic during an interruption sequence and its cooldown.
func WithSuppression(suppressed func() bool) ClientOption {
	return func(c *Client) { c.suppressed = suppressed }
}

func WithMinimumWords(words int) ClientOption {
	return func(c *Client) { c.minimumWords = words }
}

func WithMinimumSpeakingTime(duration time.Duration) ClientOption {
	return func(c *Client) { c.minimumSpeakingTime = duration }
}

// WithDebounce sets the minimum spacing between issued calls, measured from
// the previous dispatch, not from its response.
func WithDebounce(duration time.Duration) ClientOption {
	return func(c *Client) { c.debounce = duration }
}

// NewClient creates a judge client delivering verdicts to onVerdict.
//
// Only verdicts from the most recent outstanding call are delivered, and only
// when they are well formed; failed, canceled and superseded calls resolve
// silently.
func NewClient(caller Caller, onVerdict func(Verdict), opts ...ClientOption) *Client {
	c := &Client{
		caller:              caller,
		onVerdict:           onVerdict,
		minimumWords:        defaultMinimumWords,
		minimumSpeakingTime: defaultMinimumSpeakingTime,
		debounce:            defaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit evaluates the dispatch preconditions in order and, when they all
// hold, issues an asynchronous judge call for speech. It reports whether a
// call was issued.
//
// speakingTime is the elapsed speaking time of the current user turn. history
// is trimmed to the most recent entries before dispatch.
func (c *Client) Submit(ctx context.Context, speech string, history []Entry, speakingTime time.Duration) bool {
	if c == nil || c.caller == nil {
		return false
	}

	if c.suppressed != nil && c.suppressed() {
		return false
	}
	if len(strings.Fields(speech)) < c.minimumWords {
		return false
	}
	if speakingTime < c.minimumSpeakingTime {
		return false
	}

	c.mu.Lock()
	if !c.lastIssuedAt.IsZero() && time.Since(c.lastIssuedAt) < c.debounce {
		c.mu.Unlock()
		return false
	}

	if c.cancelInFlight != nil {
		c.cancelInFlight()
	}

	c.token++
	token := c.token
	c.lastIssuedAt = time.Now()

	callCtx, cancel := context.WithCancel(ctx)
	c.cancelInFlight = cancel
	c.mu.Unlock()

	go c.call(callCtx, token, Request{
		Speech:              speech,
		ConversationHistory: trimHistory(history),
		SpeakingTime:        speakingTime.Seconds(),
	})

	return true
}

func (c *Client) call(ctx context.Context, token uint64, request Request) {
	ctx, span := tracer.Start(ctx, "judge utterance")
	defer span.End()
	span.SetAttributes(
		attribute.Int("judge.request.word_count", len(strings.Fields(request.Speech))),
		attribute.Float64("judge.request.speaking_time", request.SpeakingTime),
	)

	verdict, err := c.caller.Judge(ctx, request)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// A superseded call resolving is expected, not a failure.
			logger.Debug("judge call superseded", "token", token)
			return
		}

		// Judge failure is equivalent to "no interrupt"; it never surfaces.
		logger.Warn("judge call failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if verdict == nil {
		return
	}

	c.mu.Lock()
	stale := token != c.token
	c.mu.Unlock()
	if stale {
		logger.Debug("dropping verdict from superseded judge call", "token", token)
		return
	}

	if verdict.Interrupt && verdict.Message == "" {
		logger.Warn("judge requested interruption without a message, ignoring", "reason", verdict.Reason)
		return
	}

	span.SetAttributes(attribute.Bool("judge.verdict.interrupt", verdict.Interrupt))
	if c.onVerdict != nil {
		c.onVerdict(*verdict)
	}
}

// Close cancels any outstanding call.
func (c *Client) Close() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelInFlight != nil {
		c.cancelInFlight()
		c.cancelInFlight = nil
	}
	// Advance the token so a late response from the canceled call can never
	// be delivered.
	c.token++
}

func trimHistory(history []Entry) []Entry {
	if len(history) <= historyWindow {
		return history
	}
	return history[len(history)-historyWindow:]
}
