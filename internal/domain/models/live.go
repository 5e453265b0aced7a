package models

// LiveUpdate is one per-user snapshot pushed over the backend websocket.
// It carries the same shapes as the polled endpoints so a push can replace
// a poll result in place.
type LiveUpdate struct {
	UserID       string       `json:"user_id"`
	Positions    []Position   `json:"positions"`
	Equity       *EquityState `json:"equity"`
	LatestSignal *Signal      `json:"latest_signal"`
}
