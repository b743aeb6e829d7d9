package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

const (
	completionsPath = "/completions"

	responseTextPath  = "choices.0.text"
	responseErrorPath = "error.message"
)

// CompletionClient calls an OpenAI-compatible /completions endpoint.
type CompletionClient struct {
	httpClient *http.Client
	logger     ports.Logger
}

// NewCompletionClient builds a client. A nil httpClient gets one without a
// timeout; callers bound the call through the context instead.
func NewCompletionClient(httpClient *http.Client, logger ports.Logger) *CompletionClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &CompletionClient{httpClient: httpClient, logger: logger}
}

type completionPayload struct {
	Model            string  `json:"model"`
	Prompt           string  `json:"prompt"`
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	MaxTokens        int     `json:"max_tokens"`
	Stop             string  `json:"stop"`
	Suffix           string  `json:"suffix"`
	PresencePenalty  float64 `json:"presence_penalty"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
}

func newCompletionPayload(req domain.CompletionRequest) completionPayload {
	return completionPayload{
		Model:       valueOrDefault(req.Model, domain.DefaultModel),
		Prompt:      BuildPrompt(req.Description, req.OS),
		Temperature: 0,
		TopP:        1,
		MaxTokens:   valueOrDefaultInt(req.MaxTokens, domain.DefaultMaxTokens),
		Stop:        domain.FenceMarker,
		Suffix:      "\n" + domain.FenceMarker,
	}
}

// Complete implements ports.CompletionClient.
func (c *CompletionClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	body, err := json.Marshal(newCompletionPayload(req))
	if err != nil {
		return "", domain.NewFailure(domain.FailureConfig, "Failed to encode the completion request.", err)
	}

	endpoint := strings.TrimRight(valueOrDefault(req.APIBase, domain.DefaultAPIBase), "/") + completionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", domain.NewFailure(domain.FailureConfig, fmt.Sprintf("Invalid API base URL %q.", req.APIBase), err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+req.APIKey)

	c.debug("calling completion api", map[string]interface{}{
		"endpoint": endpoint,
		"model":    valueOrDefault(req.Model, domain.DefaultModel),
	})

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", domain.NewFailure(domain.FailureTransport, "Failed to reach the completion API.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewFailure(domain.FailureTransport, "Failed to read the completion API response.", err)
	}

	c.debug("completion api responded", map[string]interface{}{
		"status": resp.StatusCode,
		"bytes":  len(raw),
	})

	return classifyResponse(resp.StatusCode, raw)
}

// classifyResponse maps a status code and body to generated code or a failure.
func classifyResponse(status int, body []byte) (string, error) {
	switch {
	case status >= 400 && status < 500:
		message := gjson.GetBytes(body, responseErrorPath)
		if message.Type == gjson.String {
			return "", domain.ClientFailure(status, message.String())
		}
		return "", domain.ClientFailure(status, "")
	case status >= 500:
		return "", domain.ServerFailure(status)
	}

	if !gjson.ValidBytes(body) {
		return "", malformed("response body is not JSON")
	}
	text := gjson.GetBytes(body, responseTextPath)
	if !text.Exists() {
		return "", malformed("missing choices[0].text")
	}
	if text.Type != gjson.String {
		return "", malformed("choices[0].text is not a string")
	}
	return strings.TrimSpace(text.String()), nil
}

func malformed(detail string) *domain.Failure {
	return &domain.Failure{
		Kind:    domain.FailureMalformed,
		Message: fmt.Sprintf("Malformed API response: %s.", detail),
	}
}

func (c *CompletionClient) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}

var _ ports.CompletionClient = (*CompletionClient)(nil)
