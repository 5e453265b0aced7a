package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"AstroView/internal/domain/models"
	xhttp "AstroView/pkg/http"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second), srv
}

func TestUsers(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"main","name":"Main Bot","bot_dir":"/opt/bot","color":"#ff8800"}]`))
	})

	users, err := client.Users(context.Background())
	if err != nil {
		t.Fatalf("users: %v", err)
	}
	if len(users) != 1 || users[0].ID != "main" || users[0].Color != "#ff8800" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestSignalsPassesLimit(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/main/signals" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`[{"id":7,"timestamp":"2024-03-01T12:00:00","action":"STRONG_BUY","entry_price":62000.5,"paper":1}]`))
	})

	signals, err := client.Signals(context.Background(), "main", 100)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	if len(signals) != 1 {
		t.Fatalf("got %d signals", len(signals))
	}
	s := signals[0]
	if s.ID != 7 || s.EntryPrice == nil || *s.EntryPrice != 62000.5 || !s.IsPaper() {
		t.Fatalf("unexpected signal: %+v", s)
	}
	if s.Closed() {
		t.Fatalf("open signal reported closed")
	}
}

func TestNullableColumnsDecode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"timestamp":"2024-03-01T12:00","action":"NO_TRADE",
			"symbol":null,"entry_price":null,"pnl":null,"result":null,"notes":null,"paper":0}]`))
	})

	signals, err := client.Signals(context.Background(), "main", 10)
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	s := signals[0]
	if s.EntryPrice != nil || s.PnL != nil || s.Result != nil {
		t.Fatalf("null columns decoded non-nil: %+v", s)
	}
	if _, ok := s.Time(); !ok {
		t.Fatalf("minute-precision timestamp did not parse")
	}
}

func TestRemoteErrorCarriesStatusAndPath(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"user not found"}`, http.StatusNotFound)
	})

	_, err := client.Stats(context.Background(), "ghost")
	if err == nil {
		t.Fatalf("expected error")
	}
	var remote *xhttp.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("error is not RemoteError: %v", err)
	}
	if remote.Status != http.StatusNotFound {
		t.Fatalf("status = %d", remote.Status)
	}
	if remote.Path != "/api/users/ghost/stats" {
		t.Fatalf("path = %s", remote.Path)
	}
}

func TestLatestSignalNull(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	sig, err := client.LatestSignal(context.Background(), "main")
	if err != nil {
		t.Fatalf("latest signal: %v", err)
	}
	if sig != nil {
		t.Fatalf("expected nil signal, got %+v", sig)
	}
}

func TestOpenPaperTradeBody(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/paper/trade" {
			t.Errorf("path = %s", r.URL.Path)
		}
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	})

	req := &models.PaperTradeRequest{
		UserID:   "main",
		Side:     "BUY",
		Entry:    100,
		SL:       95,
		TP:       110,
		Notional: 250,
	}
	if err := client.OpenPaperTrade(context.Background(), req); err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, want := range []string{`"user_id":"main"`, `"side":"BUY"`, `"entry":100`} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("body %s missing %s", gotBody, want)
		}
	}
}

func TestRegisterUserContract(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/register" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			Username    *string `json:"username"`
			DisplayName *string `json:"display_name"`
			Wallet      *string `json:"wallet"`
			PrivateKey  *string `json:"private_key"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			t.Errorf("unexpected body field: %v", err)
		}
		if body.Username == nil || body.DisplayName == nil || body.Wallet == nil || body.PrivateKey == nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		w.Write([]byte(`{"status":"ok","user":{"id":"alice","name":"Alice"},"log":"provisioned alice\n"}`))
	})

	log, err := client.RegisterUser(context.Background(), &models.RegisterUserRequest{
		Username:    "alice",
		DisplayName: "Alice",
		Wallet:      "0xabc",
		PrivateKey:  "0xdef",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if log != "provisioned alice\n" {
		t.Fatalf("log = %q", log)
	}
}

func TestOHLCVNormalizesTimeframe(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("timeframe"); got != "4h" {
			t.Errorf("timeframe = %q, want fallback 4h", got)
		}
		w.Write([]byte(`[{"time":1700000000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10}]`))
	})

	candles, err := client.OHLCV(context.Background(), "BTC/USDT", "7h", 500)
	if err != nil {
		t.Fatalf("ohlcv: %v", err)
	}
	if len(candles) != 1 || candles[0].Time != 1700000000 {
		t.Fatalf("unexpected candles: %+v", candles)
	}
}
