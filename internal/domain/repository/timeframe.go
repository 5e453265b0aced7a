package repository

// Timeframes accepted by the backend OHLCV endpoint.
const (
	TF1m  = "1m"
	TF5m  = "5m"
	TF15m = "15m"
	TF1h  = "1h"
	TF4h  = "4h"
	TF1d  = "1d"
)

// DefaultTimeframe matches the bot's own decision cadence.
const DefaultTimeframe = TF4h

// NormalizeTimeframe maps an arbitrary string onto a supported timeframe,
// falling back to the default rather than failing the chart.
func NormalizeTimeframe(tf string) string {
	switch tf {
	case TF1m, TF5m, TF15m, TF1h, TF4h, TF1d:
		return tf
	default:
		return DefaultTimeframe
	}
}
