package models

import "testing"

func TestActionClassification(t *testing.T) {
	cases := []struct {
		action    Action
		buy, sell bool
		tradeable bool
	}{
		{ActionStrongBuy, true, false, true},
		{ActionWeakBuy, true, false, true},
		{ActionStrongSell, false, true, true},
		{ActionWeakSell, false, true, true},
		{ActionNoTrade, false, false, false},
		{ActionHold, false, false, false},
		{ActionCollectingData, false, false, true},
	}
	for _, c := range cases {
		if c.action.IsBuy() != c.buy || c.action.IsSell() != c.sell {
			t.Fatalf("%s: buy/sell = %v/%v", c.action, c.action.IsBuy(), c.action.IsSell())
		}
		if c.action.Tradeable() != c.tradeable {
			t.Fatalf("%s: tradeable = %v", c.action, c.action.Tradeable())
		}
		if !c.action.Known() {
			t.Fatalf("%s not known", c.action)
		}
	}
}

func TestUnknownActionBadge(t *testing.T) {
	a := Action("MOON_BLAST")
	if a.Known() {
		t.Fatalf("unknown action reported known")
	}
	if a.Badge() != UnknownBadge {
		t.Fatalf("badge = %q, want %q", a.Badge(), UnknownBadge)
	}
	if ActionStrongBuy.Badge() != "STRONG_BUY" {
		t.Fatalf("known badge = %q", ActionStrongBuy.Badge())
	}
}

func TestSignalDetailParse(t *testing.T) {
	notes := `{"aspects":["Jupiter trine Sun"],"moon_phase":"waxing","confidence":0.72}`
	s := Signal{Notes: &notes}
	d := s.Detail()
	if d == nil {
		t.Fatalf("detail not parsed")
	}
	if len(d.Aspects) != 1 || d.MoonPhase != "waxing" {
		t.Fatalf("detail fields: %+v", d)
	}
	if d.Confidence == nil || *d.Confidence != 0.72 {
		t.Fatalf("confidence: %v", d.Confidence)
	}

	plain := "just a comment"
	s = Signal{Notes: &plain}
	if s.Detail() != nil {
		t.Fatalf("plain-text notes parsed as detail")
	}
	if (&Signal{}).Detail() != nil {
		t.Fatalf("nil notes parsed as detail")
	}
}

func TestSignalClosed(t *testing.T) {
	res := "WIN"
	pnl := 5.0
	if !(&Signal{PnL: &pnl, Result: &res}).Closed() {
		t.Fatalf("pnl and result set but not closed")
	}
	if (&Signal{Result: &res}).Closed() {
		t.Fatalf("result without pnl reported closed")
	}
	if (&Signal{PnL: &pnl}).Closed() {
		t.Fatalf("pnl without result reported closed")
	}
}
