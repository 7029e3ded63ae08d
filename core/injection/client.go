// Package injection sends out-of-band synthesized utterances into the
// assistant's output channel.
//
// The injection channel bypasses the normal response pipeline and is defined
// to ignore pause state, which is what lets the interrupt orchestrator speak
// while the assistant's own generation is paused.
package injection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Client posts injection requests to a side text-to-speech endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates an injection client posting to url.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type injectRequest struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

type injectResponse struct {
	Success bool `json:"success"`
}

// Inject speaks text into the chat identified by chatID.
//
// Callers must treat the attempt as irreversible once dispatched: a failure
// here is logged and reported, but local conversation state has already
// advanced by the time the error is observed.
func (c *Client) Inject(ctx context.Context, chatID string, text string) error {
	ctx, span := tracer.Start(ctx, "inject utterance")
	defer span.End()
	span.SetAttributes(attribute.String("injection.chat_id", chatID))

	requestBodyBytes, err := json.Marshal(injectRequest{ChatID: chatID, Text: text})
	if err != nil {
		err = fmt.Errorf("error marshalling injection request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating injection request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending injection request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("non-OK HTTP status from injection endpoint: %s", resp.Status)
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading injection response body: %w", err)
	}
	var parsedResponse injectResponse
	if err := json.Unmarshal(respBodyBytes, &parsedResponse); err != nil {
		return fmt.Errorf("error unmarshalling injection response: %w", err)
	}
	if !parsedResponse.Success {
		return fmt.Errorf("injection endpoint reported failure")
	}

	return nil
}
