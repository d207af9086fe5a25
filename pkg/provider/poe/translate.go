package poe

import (
	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/provider"
)

// roleMapping declares how caller-facing roles translate into bot API
// roles. Unknown roles fall back to "user"; validation upstream of the
// provider guarantees they do not occur in practice.
var roleMapping = map[string]string{
	string(api.RoleSystem):    "system",
	string(api.RoleUser):      "user",
	string(api.RoleAssistant): "bot",
}

// translateQuery converts a provider Request into the bot API query body.
func translateQuery(req *provider.Request) queryRequest {
	qr := queryRequest{
		Version:       protocolVersion,
		Type:          "query",
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		StopSequences: req.Stop,
		MaxTokens:     req.MaxTokens,
	}

	for _, m := range req.Messages {
		role, ok := roleMapping[m.Role]
		if !ok {
			role = "user"
		}
		qr.Query = append(qr.Query, protocolMessage{
			Role:        role,
			Content:     m.Content,
			ContentType: "text/markdown",
		})
	}

	return qr
}
