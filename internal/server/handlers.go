package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/apex/log"

	"github.com/Stumpwiz/lmacfy/internal/assistant"
)

// askPage is the data the index template renders.
type askPage struct {
	Question string
	Answer   string
	ShareURL string
	Error    string
}

// handleAsk serves the question form. A question arrives in the q query
// parameter, or in ref for links coming from copilot.microsoft.com.
func (r *Router) handleAsk(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	question := req.URL.Query().Get("q")
	if question == "" {
		question = req.URL.Query().Get("ref")
	}
	if question == "" {
		r.renderPage(w, req, askPage{})
		return
	}

	answer, err := r.assistant.Ask(req.Context(), question)
	if err != nil {
		log.FromContext(req.Context()).WithError(err).Error("failed to answer question")
		r.recordAnswer(outcomeLabel(err))
		r.renderPage(w, req, askPage{Question: question, Error: userMessage(err)})
		return
	}

	r.recordAnswer("ok")
	r.renderPage(w, req, askPage{
		Question: question,
		Answer:   answer,
		ShareURL: shareURL(req, question),
	})
}

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// renderPage renders into a buffer first so a template failure can still
// become a clean 500 instead of a half-written page.
func (r *Router) renderPage(w http.ResponseWriter, req *http.Request, page askPage) {
	var buf bytes.Buffer
	if err := r.templates.render(&buf, "index.html", page); err != nil {
		log.FromContext(req.Context()).WithError(err).Error("template render failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// userMessage maps an answer failure to the text shown on the page.
func userMessage(err error) string {
	var aerr *assistant.Error
	if errors.As(err, &aerr) {
		return aerr.UserMessage()
	}
	return "An unexpected error occurred. Please try again."
}

func outcomeLabel(err error) string {
	var aerr *assistant.Error
	if !errors.As(err, &aerr) {
		return "unexpected"
	}
	switch aerr.Kind {
	case assistant.KindRateLimit:
		return "rate_limit"
	case assistant.KindAuth:
		return "auth"
	case assistant.KindConnection:
		return "connection"
	default:
		return "unexpected"
	}
}

// shareURL rebuilds the page URL with the question encoded, honoring the
// forwarded protocol when the app sits behind a proxy.
func shareURL(req *http.Request, question string) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if proto := req.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	values := url.Values{"q": []string{question}}
	return fmt.Sprintf("%s://%s/?%s", scheme, req.Host, values.Encode())
}
