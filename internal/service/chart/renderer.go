package chart

import (
	"sync"

	"AstroView/internal/domain/models"
)

// Marker is one trade annotation on the candle series.
type Marker struct {
	Time     int64  `json:"time"` // unix seconds, bar-aligned
	Position string `json:"position"`
	Shape    string `json:"shape"`
	Color    string `json:"color"`
	Text     string `json:"text"`
}

// PriceLine is one horizontal level overlay.
type PriceLine struct {
	Price float64 `json:"price"`
	Color string  `json:"color"`
	Style string  `json:"style"`
	Title string  `json:"title"`
}

// Renderer is the drawing surface the engine talks to. Implementations
// must tolerate Dispose being called more than once.
type Renderer interface {
	SetCandles(candles []models.Candle)
	SetMarkers(markers []Marker)
	AddPriceLine(line PriceLine)
	ClearPriceLines()
	Resize(width, height int)
	Dispose()
}

// ChartModel is a point-in-time snapshot of everything drawn. Revision
// increments on every mutation so consumers can cheaply detect change.
type ChartModel struct {
	Candles    []models.Candle `json:"candles"`
	Markers    []Marker        `json:"markers"`
	PriceLines []PriceLine     `json:"price_lines"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Revision   uint64          `json:"revision"`
	Disposed   bool            `json:"-"`
}

// ModelRenderer renders into an in-memory model served over the view API.
type ModelRenderer struct {
	mu    sync.Mutex
	model ChartModel
}

// NewModelRenderer creates an empty renderer.
func NewModelRenderer() *ModelRenderer {
	return &ModelRenderer{}
}

func (r *ModelRenderer) SetCandles(candles []models.Candle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.Candles = candles
	r.model.Revision++
}

func (r *ModelRenderer) SetMarkers(markers []Marker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.Markers = markers
	r.model.Revision++
}

func (r *ModelRenderer) AddPriceLine(line PriceLine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.PriceLines = append(r.model.PriceLines, line)
	r.model.Revision++
}

func (r *ModelRenderer) ClearPriceLines() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.PriceLines = nil
	r.model.Revision++
}

func (r *ModelRenderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model.Width = width
	r.model.Height = height
	r.model.Revision++
}

func (r *ModelRenderer) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.model = ChartModel{Disposed: true, Revision: r.model.Revision + 1}
}

// Snapshot returns a copy of the current model. Slices are shared; callers
// must treat them as read-only.
func (r *ModelRenderer) Snapshot() ChartModel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.model
}
