// Package integration provides integration tests for the umleit gateway.
//
// Tests run against a real gateway HTTP server backed by a mock bot API
// upstream, both started in-process using net/http/httptest.
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/umleit-dev/umleit/pkg/auth"
	"github.com/umleit-dev/umleit/pkg/gateway"
	"github.com/umleit-dev/umleit/pkg/models"
	"github.com/umleit-dev/umleit/pkg/provider/poe"
	transporthttp "github.com/umleit-dev/umleit/pkg/transport/http"
)

// testEnv holds the shared servers for all integration tests.
var testEnv *TestEnvironment

// serverKey is the configured upstream credential.
const serverKey = "server-upstream-key"

// TestEnvironment holds the gateway server and mock upstream for testing.
type TestEnvironment struct {
	GatewayServer *httptest.Server
	MockUpstream  *httptest.Server

	mu          sync.Mutex
	lastAuth    string
	lastBotName string
}

// TestMain starts the mock upstream and gateway server before running tests.
func TestMain(m *testing.M) {
	testEnv = setupTestEnvironment()
	code := m.Run()
	testEnv.Teardown()
	os.Exit(code)
}

// setupTestEnvironment creates a mock bot API upstream and a gateway wired to it.
func setupTestEnvironment() *TestEnvironment {
	env := &TestEnvironment{}
	env.MockUpstream = env.startMockUpstream()

	prov, err := poe.New(poe.Config{
		BaseURL: env.MockUpstream.URL,
		APIKey:  serverKey,
	})
	if err != nil {
		panic(fmt.Sprintf("creating provider: %v", err))
	}

	registry := models.NewRegistry([]models.Descriptor{
		{ID: "mock-bot"},
		{ID: "other-bot", OwnedBy: "test"},
	})

	gw := gateway.New(prov, gateway.Config{DefaultModel: "mock-bot"})

	chain := &auth.AuthChain{DefaultDecision: auth.Yes}
	srv := transporthttp.NewServer(gw, registry,
		transporthttp.WithHandlerWrapper(auth.Middleware(chain, auth.Options{
			BypassEndpoints: auth.DefaultBypassEndpoints,
			KeyPassthrough:  true,
		})),
	)

	env.GatewayServer = httptest.NewServer(srv.Handler())
	return env
}

// Teardown stops both servers.
func (env *TestEnvironment) Teardown() {
	if env.GatewayServer != nil {
		env.GatewayServer.Close()
	}
	if env.MockUpstream != nil {
		env.MockUpstream.Close()
	}
}

// BaseURL returns the gateway server base URL.
func (env *TestEnvironment) BaseURL() string {
	return env.GatewayServer.URL
}

// LastUpstreamAuth returns the Authorization header of the most recent
// upstream request.
func (env *TestEnvironment) LastUpstreamAuth() string {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.lastAuth
}

// LastBotName returns the bot name of the most recent upstream request.
func (env *TestEnvironment) LastBotName() string {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.lastBotName
}

// --- HTTP helpers ---

// postJSON sends a POST request with JSON body and returns the response.
func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// postJSONWithKey sends a POST request with JSON body and a bearer token.
func postJSONWithKey(t *testing.T, url, key string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

// getURL sends a GET request and returns the response.
func getURL(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp
}

// readBody reads and returns the response body as a string.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	return string(body)
}

// decodeJSON reads the response body and decodes it into the target.
func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("decoding JSON: %v", err)
	}
}

// chatRequest builds a minimal chat completion request body.
func chatRequest(message string, stream bool) map[string]any {
	return map[string]any{
		"model":    "mock-bot",
		"messages": []map[string]any{{"role": "user", "content": message}},
		"stream":   stream,
	}
}

// sseDataPayloads extracts the data payloads from an SSE body.
func sseDataPayloads(body string) []string {
	var payloads []string
	for _, line := range strings.Split(body, "\n") {
		if after, ok := strings.CutPrefix(line, "data: "); ok {
			payloads = append(payloads, after)
		}
	}
	return payloads
}

// --- Mock upstream ---

// startMockUpstream creates an httptest server that mimics the bot API.
//
// Replies are deterministic and chosen by trigger words in the last user
// message:
//
//	"fail"    - one text event, then an error event
//	"replace" - a draft text event, then replace_response, then done
//	"cutoff"  - text events, then the stream ends without a done event
//	otherwise - the message echoed word by word, then done
func (env *TestEnvironment) startMockUpstream() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /bot/{name}", env.handleBotQuery)
	return httptest.NewServer(mux)
}

func (env *TestEnvironment) handleBotQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Version string `json:"version"`
		Type    string `json:"type"`
		Query   []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"message":"invalid request","type":"invalid_request_error"}}`, http.StatusBadRequest)
		return
	}

	env.mu.Lock()
	env.lastAuth = r.Header.Get("Authorization")
	env.lastBotName = r.PathValue("name")
	env.mu.Unlock()

	lastUser := ""
	for i := len(req.Query) - 1; i >= 0; i-- {
		if req.Query[i].Role == "user" {
			lastUser = req.Query[i].Content
			break
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	lower := strings.ToLower(lastUser)
	switch {
	case strings.Contains(lower, "fail"):
		writeBotEvent(w, flusher, "text", map[string]any{"text": "partial "})
		writeBotEvent(w, flusher, "error", map[string]any{"text": "simulated bot failure", "allow_retry": false})

	case strings.Contains(lower, "replace"):
		writeBotEvent(w, flusher, "text", map[string]any{"text": "draft answer"})
		writeBotEvent(w, flusher, "replace_response", map[string]any{"text": "final answer"})
		writeBotEvent(w, flusher, "done", map[string]any{})

	case strings.Contains(lower, "cutoff"):
		writeBotEvent(w, flusher, "text", map[string]any{"text": "truncated rep"})
		// No done event: the connection closes mid-reply.

	default:
		reply := "You said: " + lastUser
		words := strings.Fields(reply)
		for i, word := range words {
			chunk := word
			if i < len(words)-1 {
				chunk += " "
			}
			writeBotEvent(w, flusher, "text", map[string]any{"text": chunk})
		}
		writeBotEvent(w, flusher, "done", map[string]any{})
	}
}

func writeBotEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload map[string]any) {
	data, _ := json.Marshal(payload)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
