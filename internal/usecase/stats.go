package usecase

import (
	"math"

	"AstroView/internal/domain/models"
)

// round1 rounds to one decimal place, matching the backend's stats payload.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// pnlOf treats a missing pnl column as zero.
func pnlOf(s *models.Signal) float64 {
	if s.PnL == nil {
		return 0
	}
	return *s.PnL
}

// WinRate returns the percentage of wins among closed trades, rounded to
// one decimal. Always in [0, 100]; zero closed trades yield 0.
func WinRate(wins, losses int) float64 {
	total := wins + losses
	if total <= 0 {
		return 0
	}
	return round1(float64(wins) / float64(total) * 100)
}

// TotalPnL sums pnl over the given signals, treating null as 0.
func TotalPnL(signals []models.Signal) float64 {
	var total float64
	for i := range signals {
		total += pnlOf(&signals[i])
	}
	return total
}

// ComputeStats derives the aggregate trade statistics from a signal list.
// Only closed rows count; wins are trades with positive pnl, everything
// else is a loss.
func ComputeStats(trades []models.Signal) models.Stats {
	var stats models.Stats
	var winSum, lossSum float64

	for i := range trades {
		tr := &trades[i]
		if !tr.Closed() {
			continue
		}
		stats.Trades++
		pnl := pnlOf(tr)
		stats.TotalPnL += pnl
		if pnl > 0 {
			stats.Wins++
			winSum += pnl
		} else {
			stats.Losses++
			lossSum += pnl
		}
	}

	stats.WinRate = WinRate(stats.Wins, stats.Losses)
	if stats.Wins > 0 {
		stats.AvgWin = winSum / float64(stats.Wins)
	}
	if stats.Losses > 0 {
		stats.AvgLoss = lossSum / float64(stats.Losses)
	}
	return stats
}

// PercentToLevel returns how far level sits from price, as a signed
// percentage of price. A zero price has no meaningful distance and
// yields 0 instead of dividing by it.
func PercentToLevel(price, level float64) float64 {
	if price == 0 {
		return 0
	}
	return (level - price) / price * 100
}

// RiskAmount is the notional at risk between entry and stop.
func RiskAmount(entry, sl, notional float64) float64 {
	if entry == 0 {
		return 0
	}
	return math.Abs(entry-sl) / entry * notional
}

// RewardAmount is the notional gained between entry and target.
func RewardAmount(entry, tp, notional float64) float64 {
	if entry == 0 {
		return 0
	}
	return math.Abs(tp-entry) / entry * notional
}

// Predictions filters signals down to rows that carry trade intent, a
// symbol and at least one price level, newest first as delivered.
func Predictions(signals []models.Signal) []models.Signal {
	out := make([]models.Signal, 0, len(signals))
	for i := range signals {
		s := &signals[i]
		if !s.Action.Tradeable() {
			continue
		}
		if s.Symbol == nil {
			continue
		}
		if !s.HasLevels() {
			continue
		}
		out = append(out, *s)
	}
	return out
}

// OpenAggregates sums notional and risk across open positions.
func OpenAggregates(positions []models.Position) (notional, risk float64) {
	for i := range positions {
		notional += positions[i].Notional
		risk += positions[i].Risk
	}
	return notional, risk
}
