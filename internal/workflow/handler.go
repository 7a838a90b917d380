package workflow

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/epistle/pkg/handlers"
	"github.com/JaimeStill/epistle/pkg/routes"
)

// Handler provides HTTP endpoints for turn execution.
type Handler struct {
	coordinator *Coordinator
	logger      *slog.Logger
}

// NewHandler creates a Handler over the given coordinator.
func NewHandler(coordinator *Coordinator, logger *slog.Logger) *Handler {
	return &Handler{
		coordinator: coordinator,
		logger:      logger.With("handler", "turns"),
	}
}

// Routes returns the route group definition for turn endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/turns",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Turn},
		},
	}
}

// Turn executes one conversational turn. Workflow failures inside a
// completed turn return 200 with kind "error"; transport and concurrency
// failures map to HTTP status codes.
func (h *Handler) Turn(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	resp, err := h.coordinator.Turn(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
