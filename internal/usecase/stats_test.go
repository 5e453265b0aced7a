package usecase

import (
	"math"
	"testing"

	"AstroView/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func closedTrade(pnl *float64, result string) models.Signal {
	return models.Signal{
		Action: models.ActionStrongBuy,
		PnL:    pnl,
		Result: sptr(result),
	}
}

func TestWinRateBounds(t *testing.T) {
	cases := []struct {
		wins, losses int
		want         float64
	}{
		{0, 0, 0},
		{1, 0, 100},
		{0, 1, 0},
		{1, 1, 50},
		{1, 2, 33.3},
		{2, 1, 66.7},
	}
	for _, c := range cases {
		got := WinRate(c.wins, c.losses)
		if got != c.want {
			t.Fatalf("WinRate(%d, %d) = %v, want %v", c.wins, c.losses, got, c.want)
		}
		if got < 0 || got > 100 {
			t.Fatalf("WinRate(%d, %d) = %v out of [0,100]", c.wins, c.losses, got)
		}
	}
}

func TestComputeStatsScenario(t *testing.T) {
	trades := []models.Signal{
		closedTrade(fptr(50), "WIN"),
		closedTrade(fptr(-20), "STOP"),
	}

	stats := ComputeStats(trades)
	if stats.Trades != 2 || stats.Wins != 1 || stats.Losses != 1 {
		t.Fatalf("counts = %d/%d/%d", stats.Trades, stats.Wins, stats.Losses)
	}
	if stats.WinRate != 50.0 {
		t.Fatalf("win rate = %v, want 50.0", stats.WinRate)
	}
	if stats.TotalPnL != 30 {
		t.Fatalf("total pnl = %v, want 30", stats.TotalPnL)
	}
	if stats.AvgWin != 50 || stats.AvgLoss != -20 {
		t.Fatalf("avg win/loss = %v/%v", stats.AvgWin, stats.AvgLoss)
	}
}

func TestComputeStatsIgnoresOpenRows(t *testing.T) {
	trades := []models.Signal{
		closedTrade(fptr(10), "WIN"),
		// Result without pnl: not closed yet.
		{Action: models.ActionStrongSell, PnL: nil, Result: sptr("STOP")},
		// Pnl without result: not closed either.
		{Action: models.ActionStrongBuy, PnL: fptr(99)},
	}

	stats := ComputeStats(trades)
	if stats.Trades != 1 {
		t.Fatalf("trades = %d, want 1", stats.Trades)
	}
	if stats.Wins != 1 || stats.Losses != 0 {
		t.Fatalf("wins/losses = %d/%d", stats.Wins, stats.Losses)
	}
}

func TestTotalPnLTreatsNullAsZero(t *testing.T) {
	signals := []models.Signal{
		{PnL: fptr(50)},
		{PnL: nil},
		{PnL: fptr(-20)},
	}
	if got := TotalPnL(signals); got != 30 {
		t.Fatalf("total pnl = %v, want 30", got)
	}
}

func TestPercentToLevel(t *testing.T) {
	if got := PercentToLevel(0, 100); got != 0 {
		t.Fatalf("zero price: %v, want 0", got)
	}
	if got := PercentToLevel(100, 110); got != 10 {
		t.Fatalf("PercentToLevel(100, 110) = %v, want 10", got)
	}
	if got := PercentToLevel(100, 90); got != -10 {
		t.Fatalf("PercentToLevel(100, 90) = %v, want -10", got)
	}
}

func TestRiskAndReward(t *testing.T) {
	if got := RiskAmount(0, 90, 100); got != 0 {
		t.Fatalf("zero entry risk: %v", got)
	}
	risk := RiskAmount(100, 95, 200)
	if math.Abs(risk-10) > 1e-9 {
		t.Fatalf("risk = %v, want 10", risk)
	}
	reward := RewardAmount(100, 115, 200)
	if math.Abs(reward-30) > 1e-9 {
		t.Fatalf("reward = %v, want 30", reward)
	}
}

func TestPredictionsFilter(t *testing.T) {
	sym := "BTC/USDT"
	signals := []models.Signal{
		{Action: models.ActionStrongBuy, Symbol: &sym, EntryPrice: fptr(100)},
		{Action: models.ActionNoTrade, Symbol: &sym, EntryPrice: fptr(100)},
		{Action: models.ActionHold, Symbol: &sym},
		{Action: models.ActionWeakSell, Symbol: &sym, Target: fptr(90)},
		{Action: models.ActionStrongSell, Symbol: &sym}, // tradeable but no levels
		{Action: models.ActionStrongBuy, EntryPrice: fptr(100)}, // no symbol
	}

	preds := Predictions(signals)
	if len(preds) != 2 {
		t.Fatalf("got %d predictions, want 2", len(preds))
	}
	if preds[0].Action != models.ActionStrongBuy || preds[1].Action != models.ActionWeakSell {
		t.Fatalf("wrong rows: %v %v", preds[0].Action, preds[1].Action)
	}
}

func TestOpenAggregates(t *testing.T) {
	positions := []models.Position{
		{Notional: 100, Risk: 5},
		{Notional: 250, Risk: 12.5},
	}
	notional, risk := OpenAggregates(positions)
	if notional != 350 || risk != 17.5 {
		t.Fatalf("aggregates = %v/%v", notional, risk)
	}
}
