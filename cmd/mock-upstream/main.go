// Command mock-upstream is a minimal bot API server for development and
// testing. It speaks the Poe bot query protocol: POST /bot/{name} with a
// JSON query body, answered with a named-event SSE stream.
//
// The reply is deterministic: the last user message echoed back, streamed
// word by word. Two bot names trigger special behavior for testing error
// paths:
//
//	error-bot   - emits an error event after one text event
//	replace-bot - emits text events followed by a replace_response event
//
// Environment:
//
//	MOCK_PORT - listen port (default: 8081)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

type queryRequest struct {
	Version string           `json:"version"`
	Type    string           `json:"type"`
	Query   []queryMessage   `json:"query"`
}

type queryMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /bot/{name}", handleBotQuery)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock upstream starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	slog.Info("mock upstream stopped")
}

func handleBotQuery(w http.ResponseWriter, r *http.Request) {
	botName := r.PathValue("name")

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Type != "query" || len(req.Query) == 0 {
		writeJSONError(w, http.StatusBadRequest, "request must contain a query")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	reply := buildReply(req.Query)

	switch botName {
	case "error-bot":
		sendEvent(w, flusher, "text", map[string]any{"text": "partial "})
		sendEvent(w, flusher, "error", map[string]any{"text": "simulated bot failure", "allow_retry": false})
	case "replace-bot":
		sendEvent(w, flusher, "text", map[string]any{"text": "draft answer"})
		sendEvent(w, flusher, "replace_response", map[string]any{"text": reply})
		sendEvent(w, flusher, "done", map[string]any{})
	default:
		streamWords(r.Context(), w, flusher, reply)
		sendEvent(w, flusher, "done", map[string]any{})
	}
}

// buildReply echoes the last user message so responses are predictable.
func buildReply(query []queryMessage) string {
	for i := len(query) - 1; i >= 0; i-- {
		if query[i].Role == "user" {
			return "You said: " + query[i].Content
		}
	}
	return "Hello from the mock upstream."
}

func streamWords(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, reply string) {
	words := strings.Fields(reply)
	for i, word := range words {
		if ctx.Err() != nil {
			return
		}
		chunk := word
		if i < len(words)-1 {
			chunk += " "
		}
		sendEvent(w, flusher, "text", map[string]any{"text": chunk})
		time.Sleep(20 * time.Millisecond)
	}
}

func sendEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    "invalid_request_error",
		},
	})
}
