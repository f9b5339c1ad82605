// Package assistant wraps the hosted Gemini generative model behind the
// three AI capabilities the service needs: free-form medical chat, remedy
// simplification, and remedy generation. Every call runs under its own
// timeout and is retried once after a short backoff before the failure is
// surfaced, since transient provider blips are common but persistent outages
// should fail fast.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/medicure/medicure-api/logging"
	"github.com/medicure/medicure-api/metrics"
)

// ErrUnavailable is wrapped into every error returned by the assistant, so
// callers can map any upstream failure to a service-unavailable response
// without inspecting provider internals.
var ErrUnavailable = errors.New("upstream AI unavailable")

// retryBackoff is the pause before the single retry attempt.
const retryBackoff = 500 * time.Millisecond

// maxAttempts caps provider calls per operation: the original try plus one retry.
const maxAttempts = 2

// Operation labels used in logs and metrics.
const (
	opChat     = "chat"
	opSimplify = "simplify_remedies"
	opGenerate = "generate_remedies"
)

// Turn is one prior exchange in a chat conversation, as sent by the client.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to the Gemini API. It is safe for concurrent use.
type Client struct {
	api     *genai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini-backed assistant. The timeout bounds each
// individual provider call, not the whole retried operation.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	if model == "" {
		return nil, fmt.Errorf("gemini model name is empty")
	}

	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	logging.Info("Assistant client ready", "model", model, "timeout", timeout.String())

	return &Client{
		api:     api,
		model:   model,
		timeout: timeout,
	}, nil
}

// Converse answers a free-form health question. Prior turns are replayed to
// the model so follow-up questions keep their context; turns with unknown
// roles or empty content are dropped rather than rejected.
func (c *Client) Converse(ctx context.Context, message string, history []Turn) (string, error) {
	contents := historyContents(history)
	contents = append(contents, genai.Text(message)...)

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: chatSystemInstruction}}},
	}

	return c.generate(ctx, opChat, contents, config)
}

// SimplifyRemedies rewrites database remedies for a health issue into plain,
// action-oriented sentences. The reply is parsed back into one remedy per
// entry; a reply with no usable lines counts as a failure.
func (c *Client) SimplifyRemedies(ctx context.Context, disease string, originals []string) ([]string, error) {
	text, err := c.generate(ctx, opSimplify, genai.Text(buildSimplifyPrompt(disease, originals)), nil)
	if err != nil {
		return nil, err
	}

	remedies := parseRemedyList(text)
	if len(remedies) == 0 {
		return nil, fmt.Errorf("%s: %w: reply had no usable remedy lines", opSimplify, ErrUnavailable)
	}
	return remedies, nil
}

// GenerateRemedies invents home remedies for a health issue the database
// does not cover, primed with sample rows so the answers match the dataset's
// style.
func (c *Client) GenerateRemedies(ctx context.Context, disease string, samples []string) ([]string, error) {
	text, err := c.generate(ctx, opGenerate, genai.Text(buildGeneratePrompt(disease, samples)), nil)
	if err != nil {
		return nil, err
	}

	remedies := parseRemedyList(text)
	if len(remedies) == 0 {
		return nil, fmt.Errorf("%s: %w: reply had no usable remedy lines", opGenerate, ErrUnavailable)
	}
	return remedies, nil
}

// generate runs one provider call with timeout, retry and metrics. All
// failures come back wrapped in ErrUnavailable with the provider cause kept
// in the message for the logs.
func (c *Client) generate(ctx context.Context, operation string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			logging.Warn("Retrying upstream AI request",
				"operation", operation,
				"attempt", attempt,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%s: %w: %v", operation, ErrUnavailable, ctx.Err())
			case <-time.After(retryBackoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := c.api.Models.GenerateContent(callCtx, c.model, contents, config)
		cancel()

		if err != nil {
			metrics.UpstreamAIRequests.WithLabelValues(operation, "error").Inc()
			lastErr = err
			continue
		}

		text := strings.TrimSpace(result.Text())
		if text == "" {
			metrics.UpstreamAIRequests.WithLabelValues(operation, "error").Inc()
			lastErr = fmt.Errorf("model returned an empty reply")
			continue
		}

		metrics.UpstreamAIRequests.WithLabelValues(operation, "success").Inc()
		return text, nil
	}

	logging.Error("Upstream AI request failed",
		"operation", operation,
		"model", c.model,
		"error", lastErr,
	)
	return "", fmt.Errorf("%s: %w: %v", operation, ErrUnavailable, lastErr)
}

// historyContents converts client-supplied chat history into model contents.
// Client roles are normalized: "assistant" is accepted as an alias for
// "model" since several frontends send it that way.
func historyContents(history []Turn) []*genai.Content {
	var contents []*genai.Content
	for _, turn := range history {
		text := strings.TrimSpace(turn.Content)
		if text == "" {
			continue
		}

		var role string
		switch strings.ToLower(strings.TrimSpace(turn.Role)) {
		case "user":
			role = "user"
		case "model", "assistant":
			role = "model"
		default:
			continue
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contents
}
