package chart

import (
	"testing"

	"AstroView/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func signalAt(ts string, action models.Action, entry *float64, result *string) models.Signal {
	return models.Signal{
		Timestamp:  ts,
		Action:     action,
		EntryPrice: entry,
		Result:     result,
	}
}

func TestEngineLifecycle(t *testing.T) {
	e := NewEngine()
	if e.Phase() != PhaseUninitialized {
		t.Fatalf("phase = %v, want uninitialized", e.Phase())
	}

	if err := e.Update(nil, nil, nil); err != ErrNotMounted {
		t.Fatalf("update before mount: %v, want ErrNotMounted", err)
	}
	if err := e.Resize(800, 420); err != ErrNotMounted {
		t.Fatalf("resize before mount: %v, want ErrNotMounted", err)
	}

	r := NewModelRenderer()
	if err := e.Mount(r, 800, 420); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if e.Phase() != PhaseMounted {
		t.Fatalf("phase = %v, want mounted", e.Phase())
	}
	if err := e.Mount(r, 800, 420); err == nil {
		t.Fatalf("double mount succeeded")
	}

	snap := r.Snapshot()
	if snap.Width != 800 || snap.Height != 420 {
		t.Fatalf("mount did not size renderer: %dx%d", snap.Width, snap.Height)
	}

	e.Dispose()
	e.Dispose() // idempotent
	if e.Phase() != PhaseDisposed {
		t.Fatalf("phase = %v, want disposed", e.Phase())
	}
	if err := e.Update(nil, nil, nil); err != ErrDisposed {
		t.Fatalf("update after dispose: %v, want ErrDisposed", err)
	}
	if err := e.Mount(NewModelRenderer(), 1, 1); err != ErrDisposed {
		t.Fatalf("remount after dispose: %v, want ErrDisposed", err)
	}
	if !r.Snapshot().Disposed {
		t.Fatalf("renderer not disposed")
	}
}

func TestUpdateIsFullRebuild(t *testing.T) {
	e := NewEngine()
	r := NewModelRenderer()
	if err := e.Mount(r, 640, 300); err != nil {
		t.Fatalf("mount: %v", err)
	}

	candles := []models.Candle{{Time: 1700000000, Close: 42000}}
	trades := []models.Signal{
		signalAt("2024-03-01T00:00:00", models.ActionStrongBuy, fptr(42000), sptr("WIN")),
	}
	positions := []models.Position{
		{Side: "BUY", Entry: 43000, SL: 42000, TP: 45000, Notional: 100},
		{Side: "SELL", Entry: 44000, SL: 44500, TP: 42500, Notional: 50},
	}

	if err := e.Update(candles, trades, positions); err != nil {
		t.Fatalf("update: %v", err)
	}
	first := r.Snapshot()
	if len(first.Candles) != 1 || len(first.Markers) != 1 || len(first.PriceLines) != 6 {
		t.Fatalf("first update: %d candles %d markers %d lines",
			len(first.Candles), len(first.Markers), len(first.PriceLines))
	}

	// Second update with fewer positions must not leak the previous lines.
	if err := e.Update(candles, nil, positions[:1]); err != nil {
		t.Fatalf("update: %v", err)
	}
	second := r.Snapshot()
	if len(second.Markers) != 0 {
		t.Fatalf("markers not replaced, got %d", len(second.Markers))
	}
	if len(second.PriceLines) != 3 {
		t.Fatalf("price lines not cleared, got %d", len(second.PriceLines))
	}
	if second.Revision <= first.Revision {
		t.Fatalf("revision did not advance: %d -> %d", first.Revision, second.Revision)
	}
}

func TestBuildMarkersOrderingAndShape(t *testing.T) {
	trades := []models.Signal{
		signalAt("2024-03-03T12:00:00", models.ActionStrongSell, fptr(68000), sptr("STOP")),
		signalAt("2024-03-01T12:00:00", models.ActionStrongBuy, fptr(62000), sptr("WIN")),
		signalAt("2024-03-02T12:00:00", models.ActionWeakBuy, fptr(64000), nil),
		// No entry price, nothing to draw.
		signalAt("2024-03-04T12:00:00", models.ActionStrongBuy, nil, nil),
		// Unparseable timestamp.
		signalAt("not-a-time", models.ActionStrongBuy, fptr(61000), nil),
	}

	markers := BuildMarkers(trades)
	if len(markers) != 3 {
		t.Fatalf("got %d markers, want 3", len(markers))
	}
	for i := 1; i < len(markers); i++ {
		if markers[i].Time < markers[i-1].Time {
			t.Fatalf("markers out of order at %d: %d < %d", i, markers[i].Time, markers[i-1].Time)
		}
	}

	buy := markers[0]
	if buy.Position != positionBelow || buy.Shape != shapeUp || buy.Color != colorBuy {
		t.Fatalf("buy marker shape wrong: %+v", buy)
	}
	if buy.Text != "WIN" {
		t.Fatalf("closed trade text = %q, want result", buy.Text)
	}

	open := markers[1]
	if open.Text != string(models.ActionWeakBuy) {
		t.Fatalf("open trade text = %q, want action label", open.Text)
	}

	sell := markers[2]
	if sell.Position != positionAbove || sell.Shape != shapeDown || sell.Color != colorSell {
		t.Fatalf("sell marker shape wrong: %+v", sell)
	}
}

func TestBuildPriceLines(t *testing.T) {
	if lines := BuildPriceLines(nil); len(lines) != 0 {
		t.Fatalf("no positions produced %d lines", len(lines))
	}

	lines := BuildPriceLines([]models.Position{
		{Side: "BUY", Entry: 100, SL: 95, TP: 110},
	})
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if lines[0].Price != 100 || lines[0].Style != styleDotted {
		t.Fatalf("entry line wrong: %+v", lines[0])
	}
	if lines[1].Price != 95 || lines[1].Style != styleDashed || lines[1].Color != colorSell {
		t.Fatalf("stop line wrong: %+v", lines[1])
	}
	if lines[2].Price != 110 || lines[2].Style != styleDashed || lines[2].Color != colorBuy {
		t.Fatalf("target line wrong: %+v", lines[2])
	}
}
