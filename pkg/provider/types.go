package provider

// Request is the backend-facing request. It contains only the information
// the provider needs, stripped of transport concerns. Roles use the
// caller-facing vocabulary (system/user/assistant); adapters map them to
// their own wire roles.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Stop        []string

	// APIKey overrides the provider's configured credential for this
	// request. Used for caller key passthrough; empty means "use the
	// configured key".
	APIKey string
}

// Message is one conversation message in provider-neutral form.
type Message struct {
	Role    string
	Content string
}

// Status classifies how an upstream reply ended.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusIncomplete Status = "incomplete"
	StatusFailed     Status = "failed"
)

// Usage holds token accounting reported by the backend. Nil in a Response
// means the backend reports no counts and the caller should estimate.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response is the backend's complete non-streaming reply.
type Response struct {
	Text   string
	Model  string
	Status Status
	Usage  *Usage
}

// EventType classifies a streaming event from the backend.
type EventType int

const (
	// EventDelta carries an incremental piece of reply text.
	EventDelta EventType = iota

	// EventReplace carries text that supersedes everything received so
	// far. Emitted by backends that rewrite their partial output.
	EventReplace

	// EventDone signals that the stream finished cleanly.
	EventDone

	// EventError signals that the stream ended with an upstream failure.
	EventError
)

// Event is a single streaming event from the backend. The stream is a pure
// relay source: events arrive in upstream order and are never reordered.
type Event struct {
	// Type indicates what kind of event this is.
	Type EventType

	// Text contains delta or replacement content.
	Text string

	// Status is populated on EventDone.
	Status Status

	// Err is populated on EventError.
	Err error
}
