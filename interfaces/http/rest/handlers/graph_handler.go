// Package handlers contains the HTTP handlers for the debug surface.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"notecanvas/interfaces/canvas"
)

// SnapshotProvider supplies a read-only copy of the canvas state.
type SnapshotProvider interface {
	Snapshot() canvas.Snapshot
}

// GraphHandler serves the current graph as JSON for inspection.
type GraphHandler struct {
	provider SnapshotProvider
	logger   *zap.Logger
}

// NewGraphHandler creates a graph snapshot handler
func NewGraphHandler(provider SnapshotProvider, logger *zap.Logger) *GraphHandler {
	return &GraphHandler{provider: provider, logger: logger}
}

// GetGraph handles GET /api/graph
func (h *GraphHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.provider.Snapshot())
}

func (h *GraphHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
