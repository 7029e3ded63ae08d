// Package hume adapts an EVI chat websocket to the coordination core: it
// normalizes incoming frames into speech events and implements the
// audio-control surface on top of the session's control messages.
package hume

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/lbrandt/voicefloor/core/events"
)

const defaultHost = "api.hume.ai"
const defaultPath = "/v0/evi/chat"

// Client is a live EVI chat connection.
//
// One goroutine owns the read loop; writes are serialized by a mutex. The
// microphone and playback gates live client-side so mute actions take effect
// immediately, without a server round trip.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex

	options clientOptions

	stateMu       sync.Mutex
	micMuted      bool
	playbackMuted bool
	closed        bool

	onEvent func(events.Event)
	done    chan struct{}
}

type clientOptions struct {
	url      string
	apiKey   string
	configID string

	audioCallback func([]byte)
}

type ClientOption func(*clientOptions)

// WithURL overrides the chat endpoint, mainly for tests against a local
// server.
func WithURL(rawURL string) ClientOption {
	return func(o *clientOptions) { o.url = rawURL }
}

func WithAPIKey(apiKey string) ClientOption {
	return func(o *clientOptions) { o.apiKey = apiKey }
}

// WithConfigID selects the EVI configuration the session runs under.
func WithConfigID(configID string) ClientOption {
	return func(o *clientOptions) { o.configID = configID }
}

// WithAudioCallback registers a consumer for decoded assistant audio chunks.
// Chunks arriving while playback is muted are dropped before the callback.
func WithAudioCallback(callback func(chunk []byte)) ClientOption {
	return func(o *clientOptions) { o.audioCallback = callback }
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{done: make(chan struct{})}
	for _, opt := range opts {
		opt(&c.options)
	}
	if c.options.apiKey == "" {
		c.options.apiKey = os.Getenv("HUME_API_KEY")
	}
	return c
}

// Connect dials the chat endpoint and starts the read loop. Every normalized
// frame is delivered to onEvent in arrival order.
func (c *Client) Connect(ctx context.Context, onEvent func(events.Event)) error {
	if c.options.apiKey == "" && c.options.url == "" {
		return fmt.Errorf("api key not configured")
	}

	c.onEvent = onEvent

	endpoint := c.options.url
	if endpoint == "" {
		urlValues := url.Values{}
		urlValues.Set("api_key", c.options.apiKey)
		if c.options.configID != "" {
			urlValues.Set("config_id", c.options.configID)
		}
		endpoint = (&url.URL{
			Scheme:   "wss",
			Host:     defaultHost,
			Path:     defaultPath,
			RawQuery: urlValues.Encode(),
		}).String()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to open chat websocket: %w", err)
	}
	c.conn = conn

	go c.readLoop()
	return nil
}

func (c *Client) readLoop() {
	defer close(c.done)

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) && !c.isClosed() {
				logger.Warn("chat websocket read failed", "error", err)
			}
			return
		}

		var frame incomingFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			logger.Warn("failed to decode chat frame", "error", err)
			continue
		}

		switch frame.Type {
		case incomingAudioOutput:
			c.handleAudioOutput(frame)
		case incomingError:
			var sessionError errorFrame
			if err := json.Unmarshal(payload, &sessionError); err != nil {
				logger.Warn("failed to decode chat error frame", "error", err)
				continue
			}
			logger.Error("chat session error",
				"code", sessionError.Code, "slug", sessionError.Slug, "message", sessionError.Message)
		default:
			if event := normalize(frame); event != nil && c.onEvent != nil {
				c.onEvent(event)
			}
		}
	}
}

func (c *Client) handleAudioOutput(frame incomingFrame) {
	if c.options.audioCallback == nil {
		return
	}

	c.stateMu.Lock()
	muted := c.playbackMuted
	c.stateMu.Unlock()
	if muted {
		return
	}

	chunk, err := base64.StdEncoding.DecodeString(frame.Data)
	if err != nil {
		logger.Warn("failed to decode assistant audio chunk", "error", err)
		return
	}
	c.options.audioCallback(chunk)
}

// SendAudio forwards a raw microphone chunk to the session. Chunks are
// silently dropped while the microphone is muted, so upstream capture can
// keep running through a mute.
func (c *Client) SendAudio(chunk []byte) error {
	c.stateMu.Lock()
	muted := c.micMuted
	c.stateMu.Unlock()
	if muted {
		return nil
	}

	return c.send(audioInputMessage{
		Type: outgoingAudioInput,
		Data: base64.StdEncoding.EncodeToString(chunk),
	})
}

// Done is closed when the read loop exits.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() error {
	c.stateMu.Lock()
	if c.closed {
		c.stateMu.Unlock()
		return nil
	}
	c.closed = true
	c.stateMu.Unlock()

	if c.conn == nil {
		return nil
	}

	c.writeMu.Lock()
	err := c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	if err != nil {
		if closeErr := c.conn.Close(); closeErr != nil {
			return fmt.Errorf("failed to close chat websocket: %w", closeErr)
		}
		return nil
	}
	return c.conn.Close()
}

func (c *Client) isClosed() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.closed
}

func (c *Client) send(message any) error {
	if c.conn == nil {
		return fmt.Errorf("chat websocket not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(message); err != nil {
		return fmt.Errorf("failed to write to chat websocket: %w", err)
	}
	return nil
}
