// Package llm implements the judge contract on top of an OpenAI-compatible
// chat-completions endpoint with structured (json_schema) output.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/lbrandt/voicefloor/core/judge"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var _ judge.Caller = (*Client)(nil)

const (
	defaultURL   = "https://api.groq.com/openai/v1/chat/completions"
	defaultModel = "llama-3.3-70b-versatile"
)

const systemPrompt = `You listen to a live voice conversation and decide whether the assistant should briefly interrupt the user.

Interrupt only when the user has been speaking for a while without getting to a point: rambling, circling, or heavy filler. When you do interrupt, produce one short spoken sentence that gently redirects the user toward their goal. When the user is coherent, do not interrupt and leave the message empty.`

// verdictSchema is the structured output contract sent to the model.
type verdictSchema struct {
	Interrupt bool   `json:"interrupt" jsonschema:"title=Interrupt,description=Whether the assistant should barge in on the user right now"`
	Message   string `json:"message" jsonschema:"title=Message,description=The exact sentence to speak when interrupting; empty otherwise"`
	Reason    string `json:"reason" jsonschema:"title=Reason,description=A short justification for the decision"`
}

// Client is an LLM-backed judge.
type Client struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithURL(url string) ClientOption {
	return func(c *Client) { c.url = url }
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates an LLM judge authenticating with apiKey.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		url:        defaultURL,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Judge prompts the model with the utterance and recent history and decodes
// the structured verdict. Utterance statistics are measured locally.
func (c *Client) Judge(ctx context.Context, request judge.Request) (*judge.Verdict, error) {
	ctx, span := tracer.Start(ctx, "prompt judge llm")
	defer span.End()
	span.SetAttributes(attribute.String("request.model", c.model))

	messages := []message{{Role: messageRoleSystem, Content: systemPrompt}}
	for _, entry := range request.ConversationHistory {
		role := messageRoleUser
		if entry.Role == "assistant" {
			role = messageRoleAssistant
		}
		messages = append(messages, message{Role: role, Content: entry.Content})
	}
	messages = append(messages, message{
		Role: messageRoleUser,
		Content: fmt.Sprintf("The user has been speaking for %.1f seconds. Their utterance so far: %q",
			request.SpeakingTime, request.Speech),
	})

	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(verdictSchema{})

	reqBody := requestBody{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   "verdictSchema",
				Schema: *schema,
				Strict: true,
			},
		},
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		err = fmt.Errorf("error marshalling JSON: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		err = fmt.Errorf("error creating HTTP request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, err := io.ReadAll(resp.Body); err == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		return nil, fmt.Errorf("non-OK HTTP status: %s", resp.Status)
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	var parsedResponse responseBody
	if err := json.Unmarshal(respBodyBytes, &parsedResponse); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}
	if len(parsedResponse.Choices) == 0 {
		return nil, fmt.Errorf("no choices in judge llm response")
	}

	content := parsedResponse.Choices[0].Message.Content
	if split := strings.Split(content, "```"); len(split) > 1 {
		content = split[1]
	}

	var verdict verdictSchema
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil, fmt.Errorf("error unmarshalling verdict: %w", err)
	}

	return &judge.Verdict{
		Interrupt: verdict.Interrupt,
		Message:   verdict.Message,
		Reason:    verdict.Reason,
		Stats: judge.Stats{
			WordCount:    len(strings.Fields(request.Speech)),
			FillerCount:  countFillers(request.Speech),
			SpeakingTime: request.SpeakingTime,
		},
	}, nil
}

var fillerWords = []string{"um", "uh", "uhm", "like", "basically", "actually", "literally"}

func countFillers(speech string) int {
	count := 0
	for _, word := range strings.Fields(strings.ToLower(speech)) {
		word = strings.Trim(word, ".,!?;:")
		for _, filler := range fillerWords {
			if word == filler {
				count++
				break
			}
		}
	}
	return count
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type requestBody struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Schema      jsonschema.Schema `json:"schema"`
	Strict      bool              `json:"strict"`
}

type responseBody struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content,omitempty"`
		} `json:"message"`
	} `json:"choices"`
}
