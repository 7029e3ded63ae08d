// Package rest implements the judge contract against a remote arbiter
// service speaking plain JSON over HTTP.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lbrandt/voicefloor/core/judge"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

var _ judge.Caller = (*Client)(nil)

// Client calls a remote judge endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client used for judge calls.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a judge caller posting to url.
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

// Judge posts the request and decodes the verdict. The call is abandoned as
// soon as ctx is canceled.
func (c *Client) Judge(ctx context.Context, request judge.Request) (*judge.Verdict, error) {
	ctx, span := tracer.Start(ctx, "call judge service")
	defer span.End()
	span.SetAttributes(attribute.String("request.url", c.url))

	requestBodyBytes, err := json.Marshal(request)
	if err != nil {
		err = fmt.Errorf("error marshalling judge request: %w", err)
		span.RecordError(err)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating judge request: %w", err)
		span.RecordError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending judge request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, err := io.ReadAll(resp.Body); err == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		return nil, fmt.Errorf("non-OK HTTP status from judge: %s", resp.Status)
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading judge response body: %w", err)
	}

	var verdict struct {
		Interrupt bool        `json:"interrupt"`
		Message   *string     `json:"message"`
		Reason    string      `json:"reason"`
		Stats     judge.Stats `json:"stats"`
	}
	if err := json.Unmarshal(respBodyBytes, &verdict); err != nil {
		return nil, fmt.Errorf("error unmarshalling judge response: %w", err)
	}

	message := ""
	if verdict.Message != nil {
		message = *verdict.Message
	}

	return &judge.Verdict{
		Interrupt: verdict.Interrupt,
		Message:   message,
		Reason:    verdict.Reason,
		Stats:     verdict.Stats,
	}, nil
}
