package integration

import (
	"net/http"
	"testing"

	"github.com/umleit-dev/umleit/pkg/api"
)

func TestListModels(t *testing.T) {
	resp := getURL(t, testEnv.BaseURL()+"/v1/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.StatusCode, readBody(t, resp))
	}

	var list api.ModelList
	decodeJSON(t, resp, &list)

	if list.Object != api.ObjectList {
		t.Errorf("object = %q", list.Object)
	}
	if len(list.Data) != 2 {
		t.Fatalf("models = %d, want 2: %+v", len(list.Data), list.Data)
	}

	byID := make(map[string]api.Model, len(list.Data))
	for _, m := range list.Data {
		if m.Object != api.ObjectModel {
			t.Errorf("model %q object = %q", m.ID, m.Object)
		}
		if m.Created == 0 {
			t.Errorf("model %q has no created timestamp", m.ID)
		}
		byID[m.ID] = m
	}

	if m, ok := byID["mock-bot"]; !ok || m.OwnedBy != "poe" {
		t.Errorf("mock-bot = %+v (default owner expected)", m)
	}
	if m, ok := byID["other-bot"]; !ok || m.OwnedBy != "test" {
		t.Errorf("other-bot = %+v", m)
	}
}

func TestListModelsStableAcrossCalls(t *testing.T) {
	var first, second api.ModelList
	resp := getURL(t, testEnv.BaseURL()+"/v1/models")
	decodeJSON(t, resp, &first)
	resp = getURL(t, testEnv.BaseURL()+"/v1/models")
	decodeJSON(t, resp, &second)

	if len(first.Data) != len(second.Data) {
		t.Fatalf("listing changed between calls")
	}
	for i := range first.Data {
		if first.Data[i] != second.Data[i] {
			t.Errorf("entry %d differs: %+v vs %+v", i, first.Data[i], second.Data[i])
		}
	}
}
