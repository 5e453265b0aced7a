package botapi

import (
	"testing"
)

func TestParseEnvelopeFansOutPerUser(t *testing.T) {
	raw := []byte(`{
		"type": "update",
		"data": {
			"main": {
				"positions": [{"side":"BUY","entry":62000,"sl":60000,"tp":66000,"notional":100,"risk":3.2,"age":4,"open_ts":"2024-03-01T12:00","paper":true}],
				"equity": {"peak_equity":1200,"paper_pnl":55.5,"paper_wins":3,"paper_losses":1,"paper_trades":4},
				"latest_signal": {"id":9,"timestamp":"2024-03-01T12:00:00","action":"STRONG_BUY","paper":1}
			},
			"alt": {
				"positions": [],
				"equity": null,
				"latest_signal": null
			}
		}
	}`)

	updates, err := parseEnvelope(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(updates))
	}

	byUser := map[string]bool{}
	for _, u := range updates {
		byUser[u.UserID] = true
		if u.UserID == "main" {
			if len(u.Positions) != 1 || !u.Positions[0].Paper {
				t.Fatalf("main positions wrong: %+v", u.Positions)
			}
			if u.Equity == nil || u.Equity.PaperPnL != 55.5 {
				t.Fatalf("main equity wrong: %+v", u.Equity)
			}
			if u.LatestSignal == nil || u.LatestSignal.ID != 9 {
				t.Fatalf("main latest signal wrong: %+v", u.LatestSignal)
			}
		}
		if u.UserID == "alt" {
			if u.Equity != nil || u.LatestSignal != nil {
				t.Fatalf("alt nulls decoded non-nil")
			}
		}
	}
	if !byUser["main"] || !byUser["alt"] {
		t.Fatalf("missing users: %v", byUser)
	}
}

func TestParseEnvelopeIgnoresOtherTypes(t *testing.T) {
	updates, err := parseEnvelope([]byte(`{"type":"ping"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(updates) != 0 {
		t.Fatalf("got %d updates from ping frame", len(updates))
	}
}

func TestParseEnvelopeMalformed(t *testing.T) {
	if _, err := parseEnvelope([]byte(`{"type":`)); err == nil {
		t.Fatalf("malformed frame accepted")
	}
}

func TestStreamCloseIsIdempotent(t *testing.T) {
	s := NewStream("ws://localhost:1/ws")
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if s.IsConnected() {
		t.Fatalf("closed stream reports connected")
	}
}
