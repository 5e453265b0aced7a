package models

// CalendarDay is one resonance record of the prediction calendar.
// Multiplier is a backend-derived display value and is never recomputed
// client-side.
type CalendarDay struct {
	Date       string  `json:"date"` // YYYY-MM-DD
	UDN        int     `json:"udn"`  // universal day number
	Resonance  bool    `json:"resonance"`
	Multiplier float64 `json:"multiplier"` // 1.0 or 1.5
	Label      string  `json:"label,omitempty"`
	Action     *Action `json:"action,omitempty"` // only on days the bot emitted a signal
}

// Calendar is the prediction calendar payload. Available=false is a valid
// terminal state, not an error: the backend could not resolve the asset's
// birth data and reports why, plus the paths it tried.
type Calendar struct {
	Available bool          `json:"available"`
	Reason    string        `json:"reason,omitempty"`
	Tried     []string      `json:"tried,omitempty"`
	Asset     string        `json:"asset"`
	LifePath  int           `json:"life_path"`
	Days      []CalendarDay `json:"days"`
}
