package poe

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/provider"
)

// ParseBotEventStream reads named SSE events from the given reader,
// translates each into a provider Event, and sends them on ch. The channel
// is NOT closed by this function; the caller is responsible for closing it.
//
// Expected format (named events, unlike the data-only Chat Completions SSE):
//
//	event: text\n
//	data: {"text":"Hel"}\n
//	\n
//	event: done\n
//	data: {}\n
//	\n
//
// Reading stops after a "done" or "error" event. Malformed payloads are
// logged and skipped. Context cancellation stops reading immediately, even
// when the consumer has stopped receiving; sends never block past ctx.
func ParseBotEventStream(ctx context.Context, body io.Reader, ch chan<- provider.Event) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	currentEvent := ""

	for scanner.Scan() {
		// Check for context cancellation between lines.
		if ctx.Err() != nil {
			return
		}

		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
			continue

		case strings.HasPrefix(line, "data: "):
			payload := strings.TrimPrefix(line, "data: ")
			if dispatchEvent(ctx, currentEvent, payload, ch) {
				return
			}

		default:
			// Blank separator lines and ":" comments reset nothing; the
			// event name is consumed when its data line arrives.
			continue
		}
	}

	// Scanner error (e.g., connection dropped) without a done event.
	if err := scanner.Err(); err != nil {
		// Context cancellation is not an error from our perspective.
		if ctx.Err() != nil {
			return
		}
		sendEvent(ctx, ch, provider.Event{
			Type: provider.EventError,
			Err:  api.NewUpstreamError(0, "event stream read error: "+err.Error()),
		})
		return
	}

	// Stream ended without an explicit done or error event. Treat as an
	// incomplete but clean termination.
	sendEvent(ctx, ch, provider.Event{Type: provider.EventDone, Status: provider.StatusIncomplete})
}

// sendEvent delivers ev unless the context is cancelled first. A blocked
// consumer that goes away must not pin this goroutine on the send.
func sendEvent(ctx context.Context, ch chan<- provider.Event, ev provider.Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// dispatchEvent translates one named event into a provider Event and sends
// it. Returns true when reading should stop, either because the event is
// terminal or because the context was cancelled mid-send.
func dispatchEvent(ctx context.Context, name, payload string, ch chan<- provider.Event) bool {
	switch name {
	case eventText, eventReplaceResponse:
		var data textEventData
		if err := json.Unmarshal([]byte(payload), &data); err != nil {
			slog.Warn("skipping malformed bot event",
				"event", name,
				"error", err.Error(),
				"data", truncate(payload, 200),
			)
			return false
		}
		typ := provider.EventDelta
		if name == eventReplaceResponse {
			typ = provider.EventReplace
		}
		return !sendEvent(ctx, ch, provider.Event{Type: typ, Text: data.Text})

	case eventDone:
		sendEvent(ctx, ch, provider.Event{Type: provider.EventDone, Status: provider.StatusCompleted})
		return true

	case eventError:
		var data errorEventData
		if err := json.Unmarshal([]byte(payload), &data); err != nil {
			data.Text = truncate(payload, 200)
		}
		msg := data.Text
		if msg == "" {
			msg = "upstream reported an unspecified error"
		}
		sendEvent(ctx, ch, provider.Event{
			Type: provider.EventError,
			Err:  api.NewUpstreamError(0, msg),
		})
		return true

	case eventJSON:
		// Metadata events carry no reply content.
		return false

	default:
		slog.Warn("ignoring unknown bot event", "event", name)
		return false
	}
}

// truncate limits a string to maxLen characters for log output.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
