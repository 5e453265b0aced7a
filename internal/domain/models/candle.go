package models

// Candle represents one OHLCV bar. Time is unix seconds, one per bar,
// strictly increasing as delivered by the backend.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Ticker maps a base asset (e.g. "BTC") to its current price.
type Ticker map[string]float64
