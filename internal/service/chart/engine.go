package chart

import (
	"errors"
	"sort"
	"sync"

	"AstroView/internal/domain/models"
	"AstroView/pkg/util"
)

// Marker and level colors follow the usual long/short convention.
const (
	colorBuy   = "#26a69a"
	colorSell  = "#ef5350"
	colorEntry = "#2962ff"

	positionBelow = "belowBar"
	positionAbove = "aboveBar"
	shapeUp       = "arrowUp"
	shapeDown     = "arrowDown"

	styleDotted = "dotted"
	styleDashed = "dashed"
)

// Phase is the engine lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseMounted
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseMounted:
		return "mounted"
	case PhaseDisposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

var (
	ErrNotMounted = errors.New("chart engine not mounted")
	ErrDisposed   = errors.New("chart engine disposed")
)

// Engine drives a Renderer through the chart lifecycle. Every update is a
// full rebuild: candles, markers and price lines are replaced wholesale,
// which keeps the renderer state a pure function of the latest inputs.
type Engine struct {
	mu       sync.Mutex
	phase    Phase
	renderer Renderer
}

// NewEngine creates an engine in the uninitialized phase.
func NewEngine() *Engine {
	return &Engine{}
}

// Mount binds the renderer and enters the mounted phase. Mounting twice or
// mounting a disposed engine fails.
func (e *Engine) Mount(r Renderer, width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.phase {
	case PhaseMounted:
		return errors.New("chart engine already mounted")
	case PhaseDisposed:
		return ErrDisposed
	}
	e.renderer = r
	e.phase = PhaseMounted
	r.Resize(width, height)
	return nil
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Update rebuilds the full chart from the latest data. Trades annotate the
// series as markers; every open position contributes its three level lines.
func (e *Engine) Update(candles []models.Candle, trades []models.Signal, positions []models.Position) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkMounted(); err != nil {
		return err
	}

	e.renderer.SetCandles(candles)
	e.renderer.SetMarkers(BuildMarkers(trades))
	e.renderer.ClearPriceLines()
	for _, line := range BuildPriceLines(positions) {
		e.renderer.AddPriceLine(line)
	}
	return nil
}

// Resize forwards new dimensions to the renderer.
func (e *Engine) Resize(width, height int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkMounted(); err != nil {
		return err
	}
	e.renderer.Resize(width, height)
	return nil
}

// Dispose releases the renderer. Idempotent; the engine cannot be
// remounted afterwards.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseDisposed {
		return
	}
	if e.renderer != nil {
		e.renderer.Dispose()
		e.renderer = nil
	}
	e.phase = PhaseDisposed
}

func (e *Engine) checkMounted() error {
	switch e.phase {
	case PhaseUninitialized:
		return ErrNotMounted
	case PhaseDisposed:
		return ErrDisposed
	}
	return nil
}

// BuildMarkers converts closed and open trades into chart markers, sorted
// ascending by time. Trades without an entry price or a parseable
// timestamp carry nothing to draw and are skipped.
func BuildMarkers(trades []models.Signal) []Marker {
	markers := make([]Marker, 0, len(trades))
	for i := range trades {
		tr := &trades[i]
		if tr.EntryPrice == nil {
			continue
		}
		ts, ok := tr.Time()
		if !ok {
			continue
		}

		m := Marker{Time: ts.Unix()}
		if tr.Action.IsSell() {
			m.Position = positionAbove
			m.Shape = shapeDown
			m.Color = colorSell
		} else {
			m.Position = positionBelow
			m.Shape = shapeUp
			m.Color = colorBuy
		}
		if tr.Result != nil && *tr.Result != "" {
			m.Text = *tr.Result
		} else {
			m.Text = tr.Action.Badge()
		}
		markers = append(markers, m)
	}

	sort.SliceStable(markers, func(i, j int) bool {
		return markers[i].Time < markers[j].Time
	})
	return markers
}

// BuildPriceLines derives level overlays: three lines per open position,
// entry dotted, stop dashed red, target dashed green. Rebuilt wholesale on
// every update, no diffing.
func BuildPriceLines(positions []models.Position) []PriceLine {
	lines := make([]PriceLine, 0, len(positions)*3)
	for i := range positions {
		p := &positions[i]
		lines = append(lines,
			PriceLine{
				Price: p.Entry,
				Color: colorEntry,
				Style: styleDotted,
				Title: "Entry " + util.FormatPrice(p.Entry),
			},
			PriceLine{
				Price: p.SL,
				Color: colorSell,
				Style: styleDashed,
				Title: "SL " + util.FormatPrice(p.SL),
			},
			PriceLine{
				Price: p.TP,
				Color: colorBuy,
				Style: styleDashed,
				Title: "TP " + util.FormatPrice(p.TP),
			})
	}
	return lines
}
