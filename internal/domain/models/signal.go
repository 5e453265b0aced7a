package models

import (
	"encoding/json"
	"time"

	"AstroView/pkg/util"
)

// Action is the bot's decision label. The set is closed on purpose: an
// unrecognized value renders through the UnknownBadge fallback instead of a
// silent string lookup.
type Action string

const (
	ActionStrongBuy      Action = "STRONG_BUY"
	ActionStrongSell     Action = "STRONG_SELL"
	ActionWeakBuy        Action = "WEAK_BUY"
	ActionWeakSell       Action = "WEAK_SELL"
	ActionNoTrade        Action = "NO_TRADE"
	ActionHold           Action = "HOLD"
	ActionCollectingData Action = "COLLECTING_DATA"
)

// UnknownBadge is the fallback label for actions outside the known set.
const UnknownBadge = "UNKNOWN"

// Known reports whether a is part of the closed action set.
func (a Action) Known() bool {
	switch a {
	case ActionStrongBuy, ActionStrongSell, ActionWeakBuy, ActionWeakSell,
		ActionNoTrade, ActionHold, ActionCollectingData:
		return true
	default:
		return false
	}
}

// IsBuy reports whether a opens a long.
func (a Action) IsBuy() bool {
	return a == ActionStrongBuy || a == ActionWeakBuy
}

// IsSell reports whether a opens a short.
func (a Action) IsSell() bool {
	return a == ActionStrongSell || a == ActionWeakSell
}

// Tradeable reports whether a carries trade intent (everything except the
// informational NO_TRADE / HOLD labels).
func (a Action) Tradeable() bool {
	return a != ActionNoTrade && a != ActionHold
}

// Badge returns the display label, falling back for unknown actions.
func (a Action) Badge() string {
	if !a.Known() {
		return UnknownBadge
	}
	return string(a)
}

// Signal is one immutable bot decision row, read as-is from the backend.
// Numeric fields are pointers because the sqlite columns are nullable;
// absence degrades to display sentinels, never to an error.
type Signal struct {
	ID            int64   `json:"id"`
	Timestamp     string  `json:"timestamp"`
	Symbol        *string `json:"symbol"`
	Action        Action  `json:"action"`
	WesternScore  *float64 `json:"western_score"`
	VedicScore    *float64 `json:"vedic_score"`
	WesternSignal *string  `json:"western_signal"`
	VedicSignal   *string  `json:"vedic_signal"`
	Nakshatra     *string  `json:"nakshatra"`
	EntryPrice    *float64 `json:"entry_price"`
	StopLoss      *float64 `json:"stop_loss"`
	Target        *float64 `json:"target"`
	PositionSize  *float64 `json:"position_size_usdt"`
	Paper         int      `json:"paper"` // sqlite stores 0/1
	ClosePrice    *float64 `json:"close_price"`
	PnL           *float64 `json:"pnl"`
	Result        *string  `json:"result"`
	Notes         *string  `json:"notes"`
}

// Closed reports whether the trade behind this signal has been closed out.
// Closure is marked by pnl and result both being filled; there is no
// separate close event or close timestamp.
func (s *Signal) Closed() bool {
	return s.PnL != nil && s.Result != nil
}

// IsPaper reports whether the signal was simulated.
func (s *Signal) IsPaper() bool {
	return s.Paper != 0
}

// Time parses the signal timestamp. ok is false when the stamp is absent or
// unparseable.
func (s *Signal) Time() (time.Time, bool) {
	return util.ParseTime(s.Timestamp)
}

// HasLevels reports whether the signal carries at least one prediction level.
func (s *Signal) HasLevels() bool {
	return s.EntryPrice != nil || s.StopLoss != nil || s.Target != nil
}

// SignalDetail is the optional "full signal" document some bots embed in
// the notes column. The schema is defined but partial; any field may be
// missing.
type SignalDetail struct {
	Aspects    []string `json:"aspects"`
	MoonPhase  string   `json:"moon_phase"`
	Dasha      string   `json:"dasha"`
	Confidence *float64 `json:"confidence"`
	Comment    string   `json:"comment"`
}

// Detail opportunistically parses the notes column as a SignalDetail.
// Returns nil when notes is absent or not valid JSON; the parent signal
// still renders either way.
func (s *Signal) Detail() *SignalDetail {
	if s.Notes == nil || *s.Notes == "" {
		return nil
	}
	var d SignalDetail
	if err := json.Unmarshal([]byte(*s.Notes), &d); err != nil {
		return nil
	}
	return &d
}
