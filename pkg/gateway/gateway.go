package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/auth"
	"github.com/umleit-dev/umleit/pkg/observability"
	"github.com/umleit-dev/umleit/pkg/provider"
	"github.com/umleit-dev/umleit/pkg/transport"
)

// Config holds gateway behavior settings.
type Config struct {
	// DefaultModel is substituted when a request omits the model field.
	// Empty means the model field is required.
	DefaultModel string

	// Validation bounds incoming requests. Zero value uses defaults.
	Validation api.ValidationConfig
}

// Gateway translates Chat Completions requests into provider calls and
// relays the results back through the transport writer. It implements
// transport.ChatCompleter.
type Gateway struct {
	provider provider.Provider
	cfg      Config
}

var _ transport.ChatCompleter = (*Gateway)(nil)

// New creates a gateway backed by the given provider.
func New(p provider.Provider, cfg Config) *Gateway {
	if cfg.Validation == (api.ValidationConfig{}) {
		cfg.Validation = api.DefaultValidationConfig()
	}
	return &Gateway{provider: p, cfg: cfg}
}

// CreateChatCompletion handles one request end to end. For streaming
// requests it relays provider events as chunks in arrival order; for
// non-streaming requests it writes a single response document.
func (g *Gateway) CreateChatCompletion(ctx context.Context, req *api.ChatCompletionRequest, w transport.ChatWriter) error {
	if req.Model == "" {
		req.Model = g.cfg.DefaultModel
	}
	if err := api.ValidateRequest(req, g.cfg.Validation); err != nil {
		return err
	}

	preq := translateRequest(req)
	preq.APIKey = auth.UpstreamKeyFromContext(ctx)

	if req.Stream {
		return g.streamCompletion(ctx, req, preq, w)
	}
	return g.completeOnce(ctx, req, preq, w)
}

func (g *Gateway) completeOnce(ctx context.Context, req *api.ChatCompletionRequest, preq *provider.Request, w transport.ChatWriter) error {
	start := time.Now()
	presp, err := g.provider.Complete(ctx, preq)
	observability.ObserveUpstreamRequest(req.Model, outcomeLabel(err), time.Since(start))
	if err != nil {
		return err
	}

	usage := estimateUsage(req, presp.Text)
	if presp.Usage != nil {
		usage = api.Usage{
			PromptTokens:     presp.Usage.InputTokens,
			CompletionTokens: presp.Usage.OutputTokens,
			TotalTokens:      presp.Usage.TotalTokens,
		}
		if usage.TotalTokens == 0 {
			usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
		}
	}
	observability.AddUpstreamTokens(req.Model, usage.PromptTokens, usage.CompletionTokens)

	resp := &api.ChatCompletionResponse{
		ID:      api.NewCompletionID(),
		Object:  api.ObjectChatCompletion,
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []api.ChatChoice{{
			Index: 0,
			Message: api.ChatMessage{
				Role:    api.RoleAssistant,
				Content: presp.Text,
			},
			FinishReason: finishReasonFromStatus(presp.Status),
		}},
		Usage: usage,
	}
	return w.WriteResponse(ctx, resp)
}

func (g *Gateway) streamCompletion(ctx context.Context, req *api.ChatCompletionRequest, preq *provider.Request, w transport.ChatWriter) error {
	start := time.Now()
	events, err := g.provider.Stream(ctx, preq)
	if err != nil {
		observability.ObserveUpstreamRequest(req.Model, "error", time.Since(start))
		return err
	}

	id := api.NewCompletionID()
	created := time.Now().Unix()
	chunk := func(delta api.ChunkDelta, finish *string) api.ChatCompletionChunk {
		return api.ChatCompletionChunk{
			ID:      id,
			Object:  api.ObjectChatCompletionChunk,
			Created: created,
			Model:   req.Model,
			Choices: []api.ChunkChoice{{Index: 0, Delta: delta, FinishReason: finish}},
		}
	}

	// The first chunk announces the assistant role with no content.
	if err := w.WriteChunk(ctx, chunk(api.ChunkDelta{Role: api.RoleAssistant}, nil)); err != nil {
		return err
	}

	var completion strings.Builder
	for {
		select {
		case <-ctx.Done():
			observability.ObserveUpstreamRequest(req.Model, "canceled", time.Since(start))
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				// Channel closed without a terminal event. Treat the
				// stream as complete rather than hanging the client.
				observability.ObserveUpstreamRequest(req.Model, "ok", time.Since(start))
				return g.finishStream(ctx, req, completion.String(), chunk(api.ChunkDelta{}, finishPtr(api.FinishReasonStop)), w)
			}
			switch ev.Type {
			case provider.EventDelta, provider.EventReplace:
				// A replacement cannot retract bytes already relayed;
				// it is forwarded as a regular content chunk.
				completion.WriteString(ev.Text)
				if err := w.WriteChunk(ctx, chunk(api.ChunkDelta{Content: ev.Text}, nil)); err != nil {
					return err
				}
			case provider.EventDone:
				observability.ObserveUpstreamRequest(req.Model, "ok", time.Since(start))
				finish := finishReasonFromStatus(ev.Status)
				return g.finishStream(ctx, req, completion.String(), chunk(api.ChunkDelta{}, finishPtr(finish)), w)
			case provider.EventError:
				observability.ObserveUpstreamRequest(req.Model, "error", time.Since(start))
				return ev.Err
			}
		}
	}
}

// finishStream records token estimates and writes the terminal chunk.
func (g *Gateway) finishStream(ctx context.Context, req *api.ChatCompletionRequest, completion string, terminal api.ChatCompletionChunk, w transport.ChatWriter) error {
	usage := estimateUsage(req, completion)
	observability.AddUpstreamTokens(req.Model, usage.PromptTokens, usage.CompletionTokens)
	return w.WriteChunk(ctx, terminal)
}

func finishPtr(reason string) *string { return &reason }

func outcomeLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
