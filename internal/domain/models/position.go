package models

// Position is a currently open trade taken from the bot's state file. It
// exists only while open; absence from the next poll implies closure.
type Position struct {
	Side     string  `json:"side"` // BUY | SELL
	Signal   string  `json:"signal"`
	Entry    float64 `json:"entry"`
	SL       float64 `json:"sl"`
	TP       float64 `json:"tp"`
	Notional float64 `json:"notional"`
	Risk     float64 `json:"risk"`
	Age      int     `json:"age"` // bars since open
	OpenTS   string  `json:"open_ts"`
	Paper    bool    `json:"paper,omitempty"`
}

// IsBuy reports whether the position is long.
func (p *Position) IsBuy() bool {
	return p.Side == "BUY"
}

// EquityState is the per-user equity aggregate the backend recomputes each
// cycle. PeakEquity is monotonic.
type EquityState struct {
	PeakEquity  float64 `json:"peak_equity"`
	PaperPnL    float64 `json:"paper_pnl"`
	PaperWins   int     `json:"paper_wins"`
	PaperLosses int     `json:"paper_losses"`
	PaperTrades int     `json:"paper_trades"`
}

// Stats is the backend's aggregate stats payload.
type Stats struct {
	Trades        int     `json:"trades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
	TotalPnL      float64 `json:"total_pnl"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	PeakEquity    float64 `json:"peak_equity"`
	PaperPnL      float64 `json:"paper_pnl"`
	OpenPositions int     `json:"open_positions"`
}
