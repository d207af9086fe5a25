package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/umleit-dev/umleit/pkg/api"
	"github.com/umleit-dev/umleit/pkg/models"
	"github.com/umleit-dev/umleit/pkg/transport"
)

type staticCompleter struct{}

func (staticCompleter) CreateChatCompletion(ctx context.Context, req *api.ChatCompletionRequest, w transport.ChatWriter) error {
	return w.WriteResponse(ctx, &api.ChatCompletionResponse{
		ID:     "chatcmpl-static",
		Object: api.ObjectChatCompletion,
		Model:  req.Model,
		Choices: []api.ChatChoice{{
			Message:      api.ChatMessage{Role: api.RoleAssistant, Content: "ok"},
			FinishReason: api.FinishReasonStop,
		}},
	})
}

func TestServerExtraRoutes(t *testing.T) {
	srv := NewServer(staticCompleter{}, models.NewRegistry(nil),
		WithRoute("GET /custom", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "custom route")
		})),
	)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/custom", nil))
	if rec.Body.String() != "custom route" {
		t.Errorf("body = %q", rec.Body.String())
	}

	// Adapter routes still reachable through the outer mux fallback.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
}

func TestServerHandlerWrapperOrder(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	srv := NewServer(staticCompleter{}, models.NewRegistry(nil),
		WithHandlerWrapper(tag("outer")),
		WithHandlerWrapper(tag("inner")),
	)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("wrapper order = %v, want [outer inner]", order)
	}
}

func TestServerShutdown(t *testing.T) {
	srv := NewServer(staticCompleter{}, models.NewRegistry(nil))
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
