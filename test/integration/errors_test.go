package integration

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/umleit-dev/umleit/pkg/api"
)

func TestErrorValidationMissingMessages(t *testing.T) {
	resp := postJSON(t, testEnv.BaseURL()+"/v1/chat/completions", map[string]any{
		"model": "mock-bot",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var envelope api.ErrorResponse
	decodeJSON(t, resp, &envelope)
	if envelope.Error == nil || envelope.Error.Type != api.ErrorTypeInvalidRequest {
		t.Errorf("error = %+v", envelope.Error)
	}
	if envelope.Error.Param != "messages" {
		t.Errorf("param = %q", envelope.Error.Param)
	}
}

func TestErrorValidationBadRole(t *testing.T) {
	resp := postJSON(t, testEnv.BaseURL()+"/v1/chat/completions", map[string]any{
		"model":    "mock-bot",
		"messages": []map[string]any{{"role": "robot", "content": "hi"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	readBody(t, resp)
}

func TestErrorMalformedJSON(t *testing.T) {
	resp, err := http.Post(testEnv.BaseURL()+"/v1/chat/completions", "application/json",
		bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	readBody(t, resp)
}

func TestErrorUnsupportedContentType(t *testing.T) {
	resp, err := http.Post(testEnv.BaseURL()+"/v1/chat/completions", "text/plain",
		bytes.NewReader([]byte("hello")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}
	readBody(t, resp)
}

func TestErrorUpstreamNonStreaming(t *testing.T) {
	resp := postJSON(t, testEnv.BaseURL()+"/v1/chat/completions", chatRequest("please fail", false))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502, body: %s", resp.StatusCode, readBody(t, resp))
	}

	var envelope api.ErrorResponse
	decodeJSON(t, resp, &envelope)
	if envelope.Error == nil || envelope.Error.Type != api.ErrorTypeUpstream {
		t.Errorf("error = %+v", envelope.Error)
	}
	if !strings.Contains(envelope.Error.Message, "simulated bot failure") {
		t.Errorf("message = %q", envelope.Error.Message)
	}
}

func TestErrorUpstreamMidStream(t *testing.T) {
	resp := postJSON(t, testEnv.BaseURL()+"/v1/chat/completions", chatRequest("please fail", true))
	body := readBody(t, resp)

	// Headers were already sent when the upstream failed, so the HTTP
	// status stays 200 and the error travels in-band.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", resp.StatusCode, body)
	}

	payloads := sseDataPayloads(body)
	if payloads[len(payloads)-1] != "[DONE]" {
		t.Fatalf("stream not closed with sentinel: %v", payloads)
	}
	errPayload := payloads[len(payloads)-2]
	if !strings.Contains(errPayload, "simulated bot failure") {
		t.Errorf("error event = %q", errPayload)
	}

	// The partial delta was delivered before the failure.
	if !strings.Contains(body, "partial ") {
		t.Errorf("partial content missing:\n%s", body)
	}
}

func TestErrorStreamResponseMissingMessage(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/stream-response")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	readBody(t, resp)
}
