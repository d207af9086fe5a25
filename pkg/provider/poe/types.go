package poe

// Bot query wire types. These mirror the Poe bot query protocol: the
// request is a single JSON document and the response is a named-event SSE
// stream.

// queryRequest is the request body for POST /bot/{name}.
type queryRequest struct {
	Version       string            `json:"version"`
	Type          string            `json:"type"` // always "query"
	Query         []protocolMessage `json:"query"`
	Temperature   *float64          `json:"temperature,omitempty"`
	TopP          *float64          `json:"top_p,omitempty"`
	StopSequences []string          `json:"stop_sequences,omitempty"`
	MaxTokens     *int              `json:"max_tokens,omitempty"`
}

// protocolMessage is one conversation turn in bot API vocabulary.
// Roles are "system", "user", and "bot".
type protocolMessage struct {
	Role        string `json:"role"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"` // always "text/markdown"
}

// protocolVersion is the query protocol revision sent with every request.
const protocolVersion = "1.0"

// Named SSE event types emitted by the bot API.
const (
	eventText            = "text"
	eventReplaceResponse = "replace_response"
	eventJSON            = "json" // metadata, ignored
	eventDone            = "done"
	eventError           = "error"
)

// textEventData is the payload of "text" and "replace_response" events.
type textEventData struct {
	Text string `json:"text"`
}

// errorEventData is the payload of "error" events.
type errorEventData struct {
	Text       string `json:"text"`
	AllowRetry bool   `json:"allow_retry"`
}

// apiErrorResponse is the error body returned with non-2xx statuses.
type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
