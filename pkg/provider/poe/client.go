package poe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/provider"
)

// Client performs HTTP requests against a Poe-style bot API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string

	// ModelMapper is an optional function that transforms the model name
	// into the upstream bot name. If nil, the model name is used as-is.
	ModelMapper func(string) string
}

// Ensure Client implements provider.Provider at compile time.
var _ provider.Provider = (*Client)(nil)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the bot API root (required).
	BaseURL string

	// APIKey is the upstream credential. May be empty when every request
	// carries its own key via passthrough.
	APIKey string

	// Timeout bounds non-streaming calls. Default: 120s. Streaming calls
	// are bounded by context cancellation instead.
	Timeout time.Duration
}

// New creates a new bot API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, api.NewConfigurationError("upstream base URL is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return "poe" }

// Complete performs non-streaming inference. The bot API is stream-only,
// so the reply stream is drained and its deltas concatenated, honoring
// replace_response events by resetting the accumulator.
func (c *Client) Complete(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	events, err := c.Stream(ctx, req)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	status := provider.StatusCompleted

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return &provider.Response{
					Text:   text.String(),
					Model:  req.Model,
					Status: status,
				}, nil
			}
			switch ev.Type {
			case provider.EventDelta:
				text.WriteString(ev.Text)
			case provider.EventReplace:
				text.Reset()
				text.WriteString(ev.Text)
			case provider.EventDone:
				if ev.Status != "" {
					status = ev.Status
				}
			case provider.EventError:
				return nil, ev.Err
			}
		}
	}
}

// Stream performs streaming inference against the bot API. It returns a
// channel of Events closed when the stream completes, errors, or the
// context is cancelled.
//
// The HTTP client timeout is not applied for streaming requests because a
// stream can legitimately last longer than any fixed timeout. Lifecycle
// control relies on context cancellation instead.
func (c *Client) Stream(ctx context.Context, req *provider.Request) (<-chan provider.Event, error) {
	key := req.APIKey
	if key == "" {
		key = c.apiKey
	}
	if key == "" {
		return nil, api.NewConfigurationError("upstream credential is not configured")
	}

	bot := req.Model
	if c.ModelMapper != nil {
		bot = c.ModelMapper(bot)
	}
	if bot == "" {
		return nil, api.NewInvalidRequestError("model", "model is required")
	}

	body, err := json.Marshal(translateQuery(req))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to marshal query: %s", err.Error()))
	}

	reqURL := c.baseURL + "/bot/" + url.PathEscape(bot)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	// Use a client without timeout for streaming. The context controls
	// the request lifetime instead.
	streamClient := &http.Client{
		Transport: c.httpClient.Transport,
	}

	httpResp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, MapNetworkError(err)
	}

	// Check for error status codes before starting the stream.
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		defer httpResp.Body.Close()
		return nil, MapHTTPError(httpResp)
	}

	ch := make(chan provider.Event, 16)

	go func() {
		defer close(ch)
		defer httpResp.Body.Close()
		ParseBotEventStream(ctx, httpResp.Body, ch)
	}()

	return ch, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
