package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Stumpwiz/lmacfy/internal/assistant"
)

type fakeAssistant struct {
	answer string
	err    error
	lastQ  string
	calls  int
}

func (f *fakeAssistant) Ask(_ context.Context, question string) (string, error) {
	f.calls++
	f.lastQ = question
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestServer(t *testing.T, fa *fakeAssistant) *httptest.Server {
	t.Helper()
	s, err := New(Options{Addr: ":0", Assistant: fa})
	require.NoError(t, err)
	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, rawURL string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func TestAskWithoutQuestionShowsForm(t *testing.T) {
	fa := &fakeAssistant{}
	ts := newTestServer(t, fa)

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Ask a question")
	assert.NotContains(t, body, "Share this answer")
	assert.Zero(t, fa.calls)
}

func TestAskRendersAnswerAndShareURL(t *testing.T) {
	fa := &fakeAssistant{answer: "Blue, mostly."}
	ts := newTestServer(t, fa)

	resp, body := get(t, ts.URL+"/?q="+url.QueryEscape("why is the sky blue?"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "why is the sky blue?", fa.lastQ)
	assert.Contains(t, body, "Blue, mostly.")
	assert.Contains(t, body, "Share this answer")
	assert.Contains(t, body, "q=why+is+the+sky+blue%3F")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAskAcceptsRefParameter(t *testing.T) {
	fa := &fakeAssistant{answer: "hi"}
	ts := newTestServer(t, fa)

	_, _ = get(t, ts.URL+"/?ref="+url.QueryEscape("from copilot"))
	assert.Equal(t, "from copilot", fa.lastQ)
}

func TestAskPrefersQOverRef(t *testing.T) {
	fa := &fakeAssistant{answer: "hi"}
	ts := newTestServer(t, fa)

	_, _ = get(t, ts.URL+"/?q=primary&ref=secondary")
	assert.Equal(t, "primary", fa.lastQ)
}

func TestAskShowsClassifiedErrorMessage(t *testing.T) {
	fa := &fakeAssistant{err: assistant.NewError(assistant.KindRateLimit, errors.New("429"))}
	ts := newTestServer(t, fa)

	resp, body := get(t, ts.URL+"/?q=hello")
	// the page renders the failure, it is not an HTTP error
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "API rate limit exceeded. Please try again later.")
	assert.NotContains(t, body, "Share this answer")
}

func TestAskShowsGenericMessageForUnknownErrors(t *testing.T) {
	fa := &fakeAssistant{err: errors.New("boom")}
	ts := newTestServer(t, fa)

	_, body := get(t, ts.URL+"/?q=hello")
	assert.Contains(t, body, "An unexpected error occurred. Please try again.")
	assert.NotContains(t, body, "boom")
}

func TestUnknownPathIs404(t *testing.T) {
	ts := newTestServer(t, &fakeAssistant{})

	resp, _ := get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &fakeAssistant{})

	resp, err := http.Post(ts.URL+"/", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &fakeAssistant{})

	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.NotEmpty(t, payload["timestamp"])
}

func TestMetricsExposed(t *testing.T) {
	ts := newTestServer(t, &fakeAssistant{answer: "hi"})

	_, _ = get(t, ts.URL+"/?q=hello")
	_, body := get(t, ts.URL+"/metrics")
	assert.Contains(t, body, "lmacfy_web_http_requests_total")
	assert.Contains(t, body, "lmacfy_web_answer_results_total")
}

func TestShareURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/?q=a+b", nil)
	assert.Equal(t, "http://example.com/?q=a+b", shareURL(req, "a b"))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://example.com/?q=a+b", shareURL(req, "a b"))
}
