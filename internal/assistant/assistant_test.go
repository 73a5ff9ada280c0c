package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := New("test-key", "", ts.URL+"/v1")
	require.NoError(t, err)
	return c, ts
}

func completionResponse(content string) []byte {
	resp := openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			},
		}},
	}
	data, _ := json.Marshal(resp)
	return data
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    "invalid_request_error",
		},
	})
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestNewDefaultsModel(t *testing.T) {
	c, err := New("test-key", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())

	c, err = New("test-key", "gpt-4o", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.Model())
}

func TestAskSendsExpectedRequest(t *testing.T) {
	var got openai.ChatCompletionRequest
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionResponse("The answer is 42."))
	})

	answer, err := c.Ask(context.Background(), "What is the answer?")
	require.NoError(t, err)
	assert.Equal(t, "The answer is 42.", answer)

	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "You are a helpful assistant.", got.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[1].Role)
	assert.Equal(t, "What is the answer?", got.Messages[1].Content)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)
}

func TestAskClassifiesErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "rate limited",
			status:      http.StatusTooManyRequests,
			wantKind:    KindRateLimit,
			wantMessage: "API rate limit exceeded. Please try again later.",
		},
		{
			name:        "bad credentials",
			status:      http.StatusUnauthorized,
			wantKind:    KindAuth,
			wantMessage: "API authentication failed. Please check your API key.",
		},
		{
			name:        "server error",
			status:      http.StatusInternalServerError,
			wantKind:    KindUnexpected,
			wantMessage: "An unexpected error occurred. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				errorResponse(w, tt.status, "nope")
			})

			_, err := c.Ask(context.Background(), "hello")
			require.Error(t, err)

			var aerr *Error
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, tt.wantKind, aerr.Kind)
			assert.Equal(t, tt.wantMessage, aerr.UserMessage())
		})
	}
}

func TestAskClassifiesConnectionFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing listens here anymore

	c, err := New("test-key", "", url+"/v1")
	require.NoError(t, err)

	_, err = c.Ask(context.Background(), "hello")
	require.Error(t, err)

	var aerr *Error
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, KindConnection, aerr.Kind)
	assert.Equal(t, "Unable to connect to OpenAI API. Please check your internet connection.", aerr.UserMessage())
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Kind: KindUnexpected, err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, truncate(string(long), 50), 53)
}
