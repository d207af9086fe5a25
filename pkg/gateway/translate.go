package gateway

import (
	"strings"

	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/provider"
)

// translateRequest maps a Chat Completions request onto the provider's
// request shape. Roles pass through unchanged; provider adapters own any
// provider-specific renaming.
func translateRequest(req *api.ChatCompletionRequest) *provider.Request {
	pr := &provider.Request{
		Model:       req.Model,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		Stop:        req.Stop,
	}
	for _, m := range req.Messages {
		pr.Messages = append(pr.Messages, provider.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	return pr
}

// finishReasonFromStatus maps the provider's terminal status onto a
// finish reason. A failed status never reaches here; failures surface as
// errors before a response is built.
func finishReasonFromStatus(status provider.Status) string {
	if status == provider.StatusIncomplete {
		return api.FinishReasonLength
	}
	return api.FinishReasonStop
}

// estimateUsage approximates token counts by whitespace-separated words.
// The upstream bot protocol reports no counts, so this keeps the usage
// block populated for clients that read it.
func estimateUsage(req *api.ChatCompletionRequest, completion string) api.Usage {
	prompt := 0
	for _, m := range req.Messages {
		prompt += len(strings.Fields(m.Content))
	}
	u := api.Usage{
		PromptTokens:     prompt,
		CompletionTokens: len(strings.Fields(completion)),
	}
	u.TotalTokens = u.PromptTokens + u.CompletionTokens
	return u
}
