package workflow_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/internal/workflow"
	"github.com/JaimeStill/epistle/pkg/routes"
)

func newTurnServer(coordinator *workflow.Coordinator) http.Handler {
	mux := http.NewServeMux()
	routes.Register(mux, coordinator.Handler().Routes())
	return mux
}

func TestHandlerTurn(t *testing.T) {
	store := sessions.NewMemoryStore()
	coordinator := newCoordinator(store, classify(routeJSON("unclear", nil)), generate("unused"))
	server := newTurnServer(coordinator)

	body := `{"input":"hello there"}`
	req := httptest.NewRequest("POST", "/turns", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp workflow.TurnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Kind != workflow.KindReply {
		t.Errorf("kind = %s, want %s", resp.Kind, workflow.KindReply)
	}
	if resp.SessionID == uuid.Nil {
		t.Error("response carries no session id")
	}
}

func TestHandlerTurnEmptyInput(t *testing.T) {
	store := sessions.NewMemoryStore()
	coordinator := newCoordinator(store, classifyFail(t), generate("unused"))
	server := newTurnServer(coordinator)

	req := httptest.NewRequest("POST", "/turns", strings.NewReader(`{"input":"  "}`))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandlerTurnUnknownSession(t *testing.T) {
	store := sessions.NewMemoryStore()
	coordinator := newCoordinator(store, classifyFail(t), generate("unused"))
	server := newTurnServer(coordinator)

	body := `{"session_id":"6b1e2c4a-8f3d-4e5b-9a7c-1d2e3f405162","input":"hello"}`
	req := httptest.NewRequest("POST", "/turns", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerTurnMalformedBody(t *testing.T) {
	store := sessions.NewMemoryStore()
	coordinator := newCoordinator(store, classifyFail(t), generate("unused"))
	server := newTurnServer(coordinator)

	req := httptest.NewRequest("POST", "/turns", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
