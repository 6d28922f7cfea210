package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"paintbrawl/internal/protocol"
)

// Overlay is the shared canvas: an append-only list of stamped colored
// points in world coordinates. Points are persisted through the HTTP
// side channel and replayed on start; there is no deletion.
type Overlay struct {
	baseURL string
	httpc   *http.Client

	points []protocol.DrawingPoint
	color  string
	active bool
}

func NewOverlay(baseURL string) *Overlay {
	return &Overlay{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 5 * time.Second},
		color:   "#000000",
	}
}

func (o *Overlay) SetColor(color string) { o.color = color }
func (o *Overlay) SetActive(on bool)     { o.active = on }
func (o *Overlay) Active() bool          { return o.active }

// Points returns the replayed plus locally stamped drawing, in order.
func (o *Overlay) Points() []protocol.DrawingPoint {
	return o.points
}

// Stamp appends one dot at a world point and persists it without ever
// waiting on the network: the POST runs on its own goroutine so a slow
// backend cannot stall the tick.
func (o *Overlay) Stamp(worldX, worldY, playerID int) {
	p := protocol.DrawingPoint{
		X:        worldX,
		Y:        worldY,
		Color:    o.color,
		Size:     DrawStampSize,
		PlayerID: playerID,
	}
	o.points = append(o.points, p)

	go func() {
		body, err := json.Marshal(p)
		if err != nil {
			log.Printf("overlay: marshal point: %v", err)
			return
		}
		resp, err := o.httpc.Post(o.baseURL+"/draw", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("overlay: save point: %v", err)
			return
		}
		resp.Body.Close()
	}()
}

// Load replaces the local cache with the persisted drawing.
func (o *Overlay) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/drawings", nil)
	if err != nil {
		return err
	}
	resp, err := o.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("overlay: fetch drawings: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("overlay: fetch drawings: status %d", resp.StatusCode)
	}

	var points []protocol.DrawingPoint
	if err := json.NewDecoder(resp.Body).Decode(&points); err != nil {
		return fmt.Errorf("overlay: decode drawings: %w", err)
	}
	o.points = points
	return nil
}
