package server

import (
	"context"
	"encoding/json"
	"net/http"

	"paintbrawl/internal/protocol"
)

// DrawingStore is the shared-canvas surface of the persistence layer.
type DrawingStore interface {
	SaveDrawing(ctx context.Context, p protocol.DrawingPoint) error
	Drawings(ctx context.Context) ([]protocol.DrawingPoint, error)
}

// SaveDrawingHandler appends one stamped point. Clients treat this as
// fire and forget, so the only contract is the status code.
func SaveDrawingHandler(draws DrawingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var point protocol.DrawingPoint
		if err := json.NewDecoder(r.Body).Decode(&point); err != nil {
			http.Error(w, "Invalid input", http.StatusBadRequest)
			return
		}
		if err := draws.SaveDrawing(r.Context(), point); err != nil {
			http.Error(w, "Failed to save drawing", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// DrawingsHandler returns the whole drawing for initial replay.
func DrawingsHandler(draws DrawingStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		points, err := draws.Drawings(r.Context())
		if err != nil {
			http.Error(w, "Failed to fetch drawings", http.StatusInternalServerError)
			return
		}
		if points == nil {
			points = []protocol.DrawingPoint{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(points)
	}
}
