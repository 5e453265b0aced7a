package usecase

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"AstroView/internal/service/botapi"
	"AstroView/internal/service/poller"
	"AstroView/pkg/cache"
	"AstroView/pkg/config"
	"AstroView/pkg/logger"
)

func dashboardTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Chart.Symbol = "BTC/USDT"
	cfg.Chart.Timeframe = "4h"
	cfg.Chart.Limit = 10
	cfg.Chart.Height = 400
	cfg.Limits.Signals = 10
	cfg.Limits.Trades = 10
	cfg.Poll.Users = time.Hour
	cfg.Poll.Signals = time.Hour
	cfg.Poll.Positions = time.Hour
	cfg.Poll.Trades = time.Hour
	cfg.Poll.Equity = time.Hour
	cfg.Poll.Stats = time.Hour
	cfg.Poll.LatestSignal = time.Hour
	cfg.Poll.ServiceStatus = time.Hour
	cfg.Poll.OHLCV = time.Hour
	cfg.Poll.Ticker = time.Hour
	cfg.Calendar.Asset = "BTC"
	cfg.Calendar.UntilYear = 2026
	cfg.Calendar.CacheTTL = time.Hour
	return cfg
}

// newDashboardBackend serves a minimal bot backend: the stats endpoint is
// permanently down, user "a" holds a long and user "b" a short.
func newDashboardBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case path == "/api/users":
			w.Write([]byte(`[{"id":"a","name":"A"},{"id":"b","name":"B"}]`))
		case path == "/api/ticker":
			w.Write([]byte(`{"BTC":65000}`))
		case path == "/api/ohlcv":
			w.Write([]byte(`[{"time":1700000000,"open":1,"high":2,"low":0.5,"close":1.5,"volume":10}]`))
		case strings.HasSuffix(path, "/stats"):
			http.Error(w, `{"detail":"stats backend down"}`, http.StatusInternalServerError)
		case strings.HasSuffix(path, "/trades"):
			w.Write([]byte(`[
				{"id":1,"timestamp":"2024-03-01T12:00","action":"STRONG_BUY","pnl":50,"result":"WIN","paper":1},
				{"id":2,"timestamp":"2024-03-02T12:00","action":"STRONG_SELL","pnl":-20,"result":"STOP","paper":1}
			]`))
		case strings.HasSuffix(path, "/a/positions"):
			w.Write([]byte(`[{"side":"BUY","signal":"STRONG_BUY","entry":100,"sl":95,"tp":110,"notional":250,"risk":12.5,"age":1,"open_ts":"2024-03-01T12:00"}]`))
		case strings.HasSuffix(path, "/b/positions"):
			w.Write([]byte(`[{"side":"SELL","signal":"STRONG_SELL","entry":200,"sl":210,"tp":180,"notional":250,"risk":12.5,"age":1,"open_ts":"2024-03-01T12:00"}]`))
		case strings.HasSuffix(path, "/equity"):
			w.Write([]byte(`{"peak_equity":1000,"paper_pnl":30}`))
		case strings.HasSuffix(path, "/latest-signal"):
			w.Write([]byte(`null`))
		case strings.HasSuffix(path, "/service-status"):
			w.Write([]byte(`{"service":"astrobot-a","status":"active","running":true}`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestDashboard(t *testing.T) *DashboardUsecase {
	t.Helper()
	srv := newDashboardBackend(t)
	client := botapi.NewClient(srv.URL, 2*time.Second)
	u := NewDashboardUsecase(dashboardTestConfig(), client, poller.NewStore(), cache.NewMemoryCache(), nil, logger.NewNop())
	if err := u.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(u.Stop)
	return u
}

func TestDashboardDerivesStatsWhenBackendStatsFail(t *testing.T) {
	u := newTestDashboard(t)

	deadline := time.Now().Add(3 * time.Second)
	var last *UserDashboard
	for time.Now().Before(deadline) {
		dash := u.Dashboard("a")
		last = dash
		settled := dash.Stats != nil &&
			dash.Stats.Trades == 2 &&
			dash.Stats.OpenPositions == 1 &&
			dash.Stats.PeakEquity == 1000 &&
			dash.Errors["stats"] != ""
		if settled {
			if dash.Stats.Wins != 1 || dash.Stats.Losses != 1 {
				t.Fatalf("derived counts: %+v", dash.Stats)
			}
			if dash.Stats.WinRate != 50.0 || dash.Stats.TotalPnL != 30 {
				t.Fatalf("derived rate/pnl: %+v", dash.Stats)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("derived stats never settled: %+v", last)
}

func TestChartModelConcurrentUsersDoNotBleed(t *testing.T) {
	u := newTestDashboard(t)

	deadline := time.Now().Add(3 * time.Second)
	for {
		ma, _ := u.ChartModel("a")
		mb, _ := u.ChartModel("b")
		if len(ma.PriceLines) == 3 && len(mb.PriceLines) == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("positions never settled: a=%d b=%d lines", len(ma.PriceLines), len(mb.PriceLines))
		}
		time.Sleep(10 * time.Millisecond)
	}

	levels := map[string][]float64{
		"a": {100, 95, 110},
		"b": {200, 210, 180},
	}
	ownLevel := func(userID string, price float64) bool {
		for _, lv := range levels[userID] {
			if price == lv {
				return true
			}
		}
		return false
	}

	var wg sync.WaitGroup
	for userID := range levels {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				m, err := u.ChartModel(userID)
				if err != nil {
					t.Errorf("chart %s: %v", userID, err)
					return
				}
				if len(m.PriceLines) != 3 {
					t.Errorf("chart %s: %d price lines", userID, len(m.PriceLines))
					return
				}
				for _, pl := range m.PriceLines {
					if !ownLevel(userID, pl.Price) {
						t.Errorf("chart %s: price line %v belongs to another user", userID, pl.Price)
						return
					}
				}
			}
		}(userID)
	}
	wg.Wait()
}
