package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/pkg/logger"
)

func newTestServer(t *testing.T, status int, body string, inspect func(*http.Request, map[string]interface{})) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &payload))
			inspect(r, payload)
		}
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func request(base string) domain.CompletionRequest {
	return domain.CompletionRequest{
		Description: "say hi",
		OS:          domain.OSLinux,
		APIKey:      "sk-test",
		APIBase:     base,
	}
}

func TestCompleteReturnsTrimmedText(t *testing.T) {
	server := newTestServer(t, http.StatusOK, `{"choices":[{"text":"  echo hi\n"}]}`, nil)
	client := NewCompletionClient(server.Client(), logger.Discard())

	code, err := client.Complete(context.Background(), request(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "echo hi", code)
}

func TestCompleteSendsWireContract(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotPayload map[string]interface{}
	)
	server := newTestServer(t, http.StatusOK, `{"choices":[{"text":"ls"}]}`, func(r *http.Request, payload map[string]interface{}) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotPayload = payload
	})
	client := NewCompletionClient(server.Client(), nil)

	_, err := client.Complete(context.Background(), request(server.URL+"/v1/"))
	require.NoError(t, err)

	assert.Equal(t, "/v1/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, domain.DefaultModel, gotPayload["model"])
	assert.Equal(t, BuildPrompt("say hi", domain.OSLinux), gotPayload["prompt"])
	assert.EqualValues(t, 0, gotPayload["temperature"])
	assert.EqualValues(t, 1, gotPayload["top_p"])
	assert.EqualValues(t, domain.DefaultMaxTokens, gotPayload["max_tokens"])
	assert.Equal(t, "```", gotPayload["stop"])
	assert.Equal(t, "\n```", gotPayload["suffix"])
	assert.EqualValues(t, 0, gotPayload["presence_penalty"])
	assert.EqualValues(t, 0, gotPayload["frequency_penalty"])
}

func TestCompleteClassifiesFailures(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    domain.FailureKind
		wantMessage string
	}{
		{
			name:        "client error with message",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"invalid key"}}`,
			wantKind:    domain.FailureClient,
			wantMessage: "invalid key",
		},
		{
			name:        "client error without body",
			status:      http.StatusForbidden,
			body:        ``,
			wantKind:    domain.FailureClient,
			wantMessage: "OPENAI_API_KEY",
		},
		{
			name:        "client error with non-string message",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"message":42}}`,
			wantKind:    domain.FailureClient,
			wantMessage: "OPENAI_API_KEY",
		},
		{
			name:        "server error",
			status:      http.StatusServiceUnavailable,
			body:        `{"error":{"message":"overloaded"}}`,
			wantKind:    domain.FailureServer,
			wantMessage: "503",
		},
		{
			name:        "missing choices",
			status:      http.StatusOK,
			body:        `{"id":"cmpl-1"}`,
			wantKind:    domain.FailureMalformed,
			wantMessage: "choices[0].text",
		},
		{
			name:        "empty choices",
			status:      http.StatusOK,
			body:        `{"choices":[]}`,
			wantKind:    domain.FailureMalformed,
			wantMessage: "choices[0].text",
		},
		{
			name:        "text is not a string",
			status:      http.StatusOK,
			body:        `{"choices":[{"text":null}]}`,
			wantKind:    domain.FailureMalformed,
			wantMessage: "not a string",
		},
		{
			name:        "not json",
			status:      http.StatusOK,
			body:        `<html>`,
			wantKind:    domain.FailureMalformed,
			wantMessage: "not JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, tt.status, tt.body, nil)
			client := NewCompletionClient(server.Client(), nil)

			_, err := client.Complete(context.Background(), request(server.URL))
			require.Error(t, err)

			failure, ok := domain.AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, failure.Kind)
			assert.Contains(t, failure.Message, tt.wantMessage)
			assert.Equal(t, 1, failure.ExitCode())
		})
	}
}

func TestCompleteTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	_, err := NewCompletionClient(nil, nil).Complete(context.Background(), request(base))
	failure, ok := domain.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, domain.FailureTransport, failure.Kind)
}

func TestCompleteHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewCompletionClient(server.Client(), nil).Complete(ctx, request(server.URL))
	failure, ok := domain.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, domain.FailureTransport, failure.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
