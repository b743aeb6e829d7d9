package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invocation struct {
	code   int
	stdout string
	stderr string
}

// setupEnv isolates HOME and config, and points the API at a fake server
// answering every request with status and body.
func setupEnv(t *testing.T, status int, body string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PLZ_CONFIG", filepath.Join(home, "config.yaml"))
	t.Setenv("PLZ_DEBUG", "")
	t.Setenv("SHELL", "/bin/bash")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	t.Setenv("OPENAI_API_BASE", server.URL)
	return home
}

func invoke(stdin string, args ...string) invocation {
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return invocation{code: code, stdout: out.String(), stderr: errOut.String()}
}

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
}

func TestRunMissingAPIKey(t *testing.T) {
	setupEnv(t, http.StatusOK, `{}`)
	t.Setenv("OPENAI_API_KEY", "")

	res := invoke("", "list", "files")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "requires an OpenAI API key")
}

func TestRunClientErrorShowsAPIMessage(t *testing.T) {
	setupEnv(t, http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`)

	res := invoke("", "list", "files")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "invalid key")
}

func TestRunServerErrorShowsStatus(t *testing.T) {
	setupEnv(t, http.StatusBadGateway, `oops`)

	res := invoke("", "list", "files")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Status code: 502")
}

func TestRunForcedSuccessPrintsOutputAndRecordsHistory(t *testing.T) {
	requireBash(t)
	home := setupEnv(t, http.StatusOK, `{"choices":[{"text":"\necho hello\n"}]}`)
	historyPath := filepath.Join(home, ".bash_history")
	require.NoError(t, os.WriteFile(historyPath, []byte("ls\n"), 0o600))

	res := invoke("", "-y", "say", "hello")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "hello\n", res.stdout)
	assert.Contains(t, res.stderr, "Command ran successfully")

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Equal(t, "ls\necho hello\n", string(data))

	journal := invoke("", "--journal")
	assert.Equal(t, 0, journal.code, journal.stderr)
	assert.Contains(t, journal.stdout, "echo hello")
	assert.Contains(t, journal.stdout, "# say hello")
}

func TestRunTrailingForceFlag(t *testing.T) {
	requireBash(t)
	setupEnv(t, http.StatusOK, `{"choices":[{"text":"echo hello"}]}`)

	res := invoke("", "say", "hello", "-y")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "hello\n", res.stdout)
	assert.NotContains(t, res.stderr, "Run the generated program?")
}

func TestRunFailingCommandMirrorsExitCode(t *testing.T) {
	requireBash(t)
	setupEnv(t, http.StatusOK, `{"choices":[{"text":"echo partial; echo broken >&2; exit 3"}]}`)

	res := invoke("", "-y", "fail")
	assert.Equal(t, 3, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "The program threw an error.")
	assert.Contains(t, res.stderr, "broken")
}

func TestRunDeclinedDoesNothing(t *testing.T) {
	requireBash(t)
	home := setupEnv(t, http.StatusOK, `{"choices":[{"text":"touch created"}]}`)
	t.Chdir(home)
	historyPath := filepath.Join(home, ".bash_history")
	require.NoError(t, os.WriteFile(historyPath, nil, 0o600))

	res := invoke("n\n", "make", "a", "file")
	assert.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "Run the generated program?")
	assert.NoFileExists(t, filepath.Join(home, "created"))

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRunClosedStdinIsFatal(t *testing.T) {
	setupEnv(t, http.StatusOK, `{"choices":[{"text":"echo hi"}]}`)

	res := invoke("", "say", "hi")
	assert.Equal(t, 1, res.code)
	assert.Empty(t, res.stdout)
}

func TestRunMalformedResponse(t *testing.T) {
	setupEnv(t, http.StatusOK, `{"choices":[]}`)

	res := invoke("", "-y", "x")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Malformed API response")
}

func TestRunInvalidConfig(t *testing.T) {
	home := setupEnv(t, http.StatusOK, `{}`)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("timeout: soon\n"), 0o600))

	res := invoke("", "-y", "x")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "Failed to load configuration.")
}

// watchedBuffer is a goroutine-safe writer that closes seen once needle
// has been written.
type watchedBuffer struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	needle string
	seen   chan struct{}
	once   sync.Once
}

func newWatchedBuffer(needle string) *watchedBuffer {
	return &watchedBuffer{needle: needle, seen: make(chan struct{})}
}

func (w *watchedBuffer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, err := w.buf.Write(p)
	if strings.Contains(w.buf.String(), w.needle) {
		w.once.Do(func() { close(w.seen) })
	}
	return n, err
}

func (w *watchedBuffer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestRunInterruptAtPromptRunsAndRecordsNothing(t *testing.T) {
	requireBash(t)
	home := setupEnv(t, http.StatusOK, `{"choices":[{"text":"echo ran > marker"}]}`)
	t.Chdir(home)
	historyPath := filepath.Join(home, ".bash_history")
	require.NoError(t, os.WriteFile(historyPath, nil, 0o600))

	stdin, answer := io.Pipe()
	t.Cleanup(func() { _ = answer.Close() })
	stderr := newWatchedBuffer("Run the generated program?")
	var stdout bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"say", "hi"}, stdin, &stdout, stderr)
	}()

	select {
	case <-stderr.seen:
	case <-time.After(10 * time.Second):
		t.Fatalf("confirmation prompt never shown, stderr: %s", stderr.String())
	}
	cancel()

	var code int
	select {
	case code = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("run kept waiting for an answer after the interrupt")
	}
	// A late Enter (default yes) must not start anything.
	go func() { _, _ = answer.Write([]byte("\n")) }()

	assert.Equal(t, 130, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Interrupted.")
	assert.NotContains(t, stderr.String(), "Failed to execute")
	assert.NoFileExists(t, filepath.Join(home, "marker"))

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)
	assert.Empty(t, data)

	journal := invoke("", "--journal")
	assert.Contains(t, journal.stdout, "No runs recorded yet.")
}

func TestIsVerbose(t *testing.T) {
	for value, want := range map[string]bool{"1": true, "TRUE": true, "": false, "0": false} {
		t.Setenv("PLZ_DEBUG", value)
		assert.Equal(t, want, isVerbose(), value)
	}
}
