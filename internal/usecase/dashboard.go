package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"AstroView/internal/domain/models"
	"AstroView/internal/domain/repository"
	"AstroView/internal/service/botapi"
	"AstroView/internal/service/chart"
	"AstroView/internal/service/poller"
	"AstroView/pkg/cache"
	"AstroView/pkg/config"
	"AstroView/pkg/logger"
)

// userScope bundles the poll handles behind one user's dashboard. Scopes
// are created on first request and torn down when the user is dropped, so
// the backend is only polled for users somebody is actually looking at.
type userScope struct {
	signals       *poller.Handle
	trades        *poller.Handle
	positions     *poller.Handle
	equity        *poller.Handle
	stats         *poller.Handle
	latestSignal  *poller.Handle
	serviceStatus *poller.Handle
}

func (sc *userScope) release() {
	sc.signals.Release()
	sc.trades.Release()
	sc.positions.Release()
	sc.equity.Release()
	sc.stats.Release()
	sc.latestSignal.Release()
	sc.serviceStatus.Release()
}

// PositionView is an open position enriched with live-price distances.
type PositionView struct {
	models.Position
	CurrentPrice float64 `json:"current_price"`
	PnLPercent   float64 `json:"pnl_percent"`
	ToSL         float64 `json:"to_sl_percent"`
	ToTP         float64 `json:"to_tp_percent"`
}

// UserDashboard is the assembled per-user view model. Errors maps a data
// section to its last fetch error; a section with an error may still carry
// the previous good value.
type UserDashboard struct {
	UserID        string                `json:"user_id"`
	Loading       bool                  `json:"loading"`
	Positions     []PositionView        `json:"positions"`
	OpenNotional  float64               `json:"open_notional"`
	OpenRisk      float64               `json:"open_risk"`
	Equity        *models.EquityState   `json:"equity"`
	Stats         *models.Stats         `json:"stats"`
	LatestSignal  *models.Signal        `json:"latest_signal"`
	ServiceStatus *models.ServiceStatus `json:"service_status"`
	Signals       []models.Signal       `json:"signals"`
	Errors        map[string]string     `json:"errors,omitempty"`
}

// ViewStatus is the dashboard's own health view.
type ViewStatus struct {
	Environment     string                  `json:"environment"`
	StreamConnected bool                    `json:"stream_connected"`
	ActiveUsers     []string                `json:"active_users"`
	RecentErrors    []logger.CollectedEntry `json:"recent_errors"`
}

// DashboardUsecase assembles every view model the dashboard serves. It
// owns the poll subscriptions and the chart engine; handlers stay thin.
type DashboardUsecase struct {
	cfg      *config.Config
	client   *botapi.Client
	polls    *poller.Store
	cache    cache.Service
	logger   *logger.Logger
	engine   *chart.Engine
	renderer *chart.ModelRenderer
	stream   repository.UpdateStream

	mu     sync.Mutex
	scopes map[string]*userScope

	// chartMu serializes engine updates with renderer snapshots so one
	// request never observes another request's overlays.
	chartMu sync.Mutex

	users  *poller.Handle
	ticker *poller.Handle
	chart  *poller.Handle
}

// NewDashboardUsecase creates the use case. Start must be called before
// serving.
func NewDashboardUsecase(
	cfg *config.Config,
	client *botapi.Client,
	polls *poller.Store,
	cacheSvc cache.Service,
	stream repository.UpdateStream,
	l *logger.Logger,
) *DashboardUsecase {
	return &DashboardUsecase{
		cfg:      cfg,
		client:   client,
		polls:    polls,
		cache:    cacheSvc,
		stream:   stream,
		logger:   l,
		engine:   chart.NewEngine(),
		renderer: chart.NewModelRenderer(),
		scopes:   make(map[string]*userScope),
	}
}

// Start subscribes the global slots and mounts the chart.
func (u *DashboardUsecase) Start() error {
	u.users = u.polls.Subscribe(KeyUsers(), u.cfg.Poll.Users, func(ctx context.Context) (interface{}, error) {
		return u.client.Users(ctx)
	})
	u.ticker = u.polls.Subscribe(KeyTicker(), u.cfg.Poll.Ticker, func(ctx context.Context) (interface{}, error) {
		return u.client.Ticker(ctx)
	})
	u.chart = u.polls.Subscribe(KeyChart(), u.cfg.Poll.OHLCV, func(ctx context.Context) (interface{}, error) {
		return u.client.OHLCV(ctx, u.cfg.Chart.Symbol, u.cfg.Chart.Timeframe, u.cfg.Chart.Limit)
	})
	if err := u.engine.Mount(u.renderer, 0, u.cfg.Chart.Height); err != nil {
		return fmt.Errorf("mount chart: %w", err)
	}
	return nil
}

// Stop releases global slots and disposes the chart. Per-user scopes are
// released too.
func (u *DashboardUsecase) Stop() {
	u.mu.Lock()
	for id, sc := range u.scopes {
		sc.release()
		delete(u.scopes, id)
	}
	u.mu.Unlock()

	if u.users != nil {
		u.users.Release()
	}
	if u.ticker != nil {
		u.ticker.Release()
	}
	if u.chart != nil {
		u.chart.Release()
	}
	u.engine.Dispose()
}

// EnsureUser makes sure the per-user poll scope exists.
func (u *DashboardUsecase) EnsureUser(userID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.scopes[userID]; ok {
		return
	}
	u.scopes[userID] = &userScope{
		signals: u.polls.Subscribe(KeySignals(userID), u.cfg.Poll.Signals, func(ctx context.Context) (interface{}, error) {
			return u.client.Signals(ctx, userID, u.cfg.Limits.Signals)
		}),
		trades: u.polls.Subscribe(KeyTrades(userID), u.cfg.Poll.Trades, func(ctx context.Context) (interface{}, error) {
			return u.client.Trades(ctx, userID, u.cfg.Limits.Trades)
		}),
		positions: u.polls.Subscribe(KeyPositions(userID), u.cfg.Poll.Positions, func(ctx context.Context) (interface{}, error) {
			return u.client.Positions(ctx, userID)
		}),
		equity: u.polls.Subscribe(KeyEquity(userID), u.cfg.Poll.Equity, func(ctx context.Context) (interface{}, error) {
			return u.client.Equity(ctx, userID)
		}),
		stats: u.polls.Subscribe(KeyStats(userID), u.cfg.Poll.Stats, func(ctx context.Context) (interface{}, error) {
			return u.client.Stats(ctx, userID)
		}),
		latestSignal: u.polls.Subscribe(KeyLatestSignal(userID), u.cfg.Poll.LatestSignal, func(ctx context.Context) (interface{}, error) {
			return u.client.LatestSignal(ctx, userID)
		}),
		serviceStatus: u.polls.Subscribe(KeyServiceStatus(userID), u.cfg.Poll.ServiceStatus, func(ctx context.Context) (interface{}, error) {
			return u.client.ServiceStatus(ctx, userID)
		}),
	}
	u.logger.Info("user scope created", logger.String("user", userID))
}

// ReleaseUser tears down a user's poll scope. In-flight responses for the
// old scope settle into slots that no longer exist and are discarded.
func (u *DashboardUsecase) ReleaseUser(userID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	sc, ok := u.scopes[userID]
	if !ok {
		return
	}
	sc.release()
	delete(u.scopes, userID)
	u.logger.Info("user scope released", logger.String("user", userID))
}

// Users returns the bot roster, falling back to a direct fetch until the
// poll slot has settled.
func (u *DashboardUsecase) Users(ctx context.Context) ([]models.User, error) {
	if data, ok := u.users.Data(); ok {
		if users, ok := data.([]models.User); ok {
			return users, nil
		}
	}
	if err := u.users.Err(); err != nil {
		return nil, err
	}
	return u.client.Users(ctx)
}

// Dashboard assembles the per-user view model from whatever the scope's
// slots currently hold.
func (u *DashboardUsecase) Dashboard(userID string) *UserDashboard {
	u.EnsureUser(userID)
	u.mu.Lock()
	sc := u.scopes[userID]
	u.mu.Unlock()

	dash := &UserDashboard{
		UserID: userID,
		Errors: make(map[string]string),
	}

	dash.Loading = sc.positions.Loading() || sc.stats.Loading()

	price := u.currentPrice()

	if data, ok := sc.positions.Data(); ok {
		if positions, ok := data.([]models.Position); ok {
			dash.Positions = buildPositionViews(positions, price)
			dash.OpenNotional, dash.OpenRisk = OpenAggregates(positions)
		}
	}
	if data, ok := sc.equity.Data(); ok {
		if eq, ok := data.(*models.EquityState); ok {
			dash.Equity = eq
		}
	}
	if data, ok := sc.stats.Data(); ok {
		if st, ok := data.(*models.Stats); ok {
			dash.Stats = st
		}
	}
	if data, ok := sc.latestSignal.Data(); ok {
		if sig, ok := data.(*models.Signal); ok {
			dash.LatestSignal = sig
		}
	}
	if data, ok := sc.serviceStatus.Data(); ok {
		if st, ok := data.(*models.ServiceStatus); ok {
			dash.ServiceStatus = st
		}
	}
	if data, ok := sc.signals.Data(); ok {
		if signals, ok := data.([]models.Signal); ok {
			dash.Signals = signals
		}
	}

	// The backend's stats payload is authoritative. Until that slot has
	// produced a value the closed-trades slot is enough to derive the same
	// numbers locally, so a failing stats endpoint degrades to a computed
	// section instead of an empty one.
	if dash.Stats == nil {
		if data, ok := sc.trades.Data(); ok {
			if trades, ok := data.([]models.Signal); ok {
				derived := ComputeStats(trades)
				derived.TotalPnL = TotalPnL(trades)
				derived.OpenPositions = len(dash.Positions)
				if dash.Equity != nil {
					derived.PeakEquity = dash.Equity.PeakEquity
					derived.PaperPnL = dash.Equity.PaperPnL
				}
				dash.Stats = &derived
			}
		}
	}

	collectErr(dash.Errors, "positions", sc.positions.Err())
	collectErr(dash.Errors, "equity", sc.equity.Err())
	collectErr(dash.Errors, "stats", sc.stats.Err())
	collectErr(dash.Errors, "latest_signal", sc.latestSignal.Err())
	collectErr(dash.Errors, "service_status", sc.serviceStatus.Err())
	collectErr(dash.Errors, "signals", sc.signals.Err())

	return dash
}

// Predictions returns the tradeable signals with levels for a user.
func (u *DashboardUsecase) Predictions(userID string) []models.Signal {
	u.EnsureUser(userID)
	u.mu.Lock()
	sc := u.scopes[userID]
	u.mu.Unlock()

	if data, ok := sc.signals.Data(); ok {
		if signals, ok := data.([]models.Signal); ok {
			return Predictions(signals)
		}
	}
	return nil
}

// ChartModel rebuilds the chart from the latest candles, overlaying the
// given user's trade markers and open-position levels when userID is
// non-empty.
func (u *DashboardUsecase) ChartModel(userID string) (chart.ChartModel, error) {
	var candles []models.Candle
	if data, ok := u.chart.Data(); ok {
		candles, _ = data.([]models.Candle)
	} else if err := u.chart.Err(); err != nil {
		return chart.ChartModel{}, err
	}

	var trades []models.Signal
	var positions []models.Position
	if userID != "" {
		u.EnsureUser(userID)
		u.mu.Lock()
		sc := u.scopes[userID]
		u.mu.Unlock()
		if data, ok := sc.trades.Data(); ok {
			trades, _ = data.([]models.Signal)
		}
		if data, ok := sc.positions.Data(); ok {
			positions, _ = data.([]models.Position)
		}
	}

	u.chartMu.Lock()
	defer u.chartMu.Unlock()
	if err := u.engine.Update(candles, trades, positions); err != nil {
		return chart.ChartModel{}, err
	}
	return u.renderer.Snapshot(), nil
}

// ResizeChart forwards new chart dimensions, keeping the configured height
// when the caller only knows its width.
func (u *DashboardUsecase) ResizeChart(width, height int) error {
	if height <= 0 {
		height = u.cfg.Chart.Height
	}
	u.chartMu.Lock()
	defer u.chartMu.Unlock()
	return u.engine.Resize(width, height)
}

// Calendar returns the prediction calendar, read through the shared cache.
// The backend computation is expensive and the data only changes when the
// bot's birth-data files do, so one fetch serves every replica for the TTL.
func (u *DashboardUsecase) Calendar(ctx context.Context) (*models.Calendar, error) {
	key := cache.GenerateKeyWithParams("calendar", u.cfg.Calendar.Asset, u.cfg.Calendar.UntilYear)
	var cal models.Calendar
	err := cache.GetOrFill(ctx, u.cache, key, u.cfg.Calendar.CacheTTL, &cal, func(ctx context.Context) (interface{}, error) {
		return u.client.Calendar(ctx, u.cfg.Calendar.UntilYear, u.cfg.Calendar.Asset)
	})
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

// CalendarMonth builds the grid for one month of the prediction calendar.
func (u *DashboardUsecase) CalendarMonth(ctx context.Context, year int, month time.Month) (*models.Calendar, MonthGrid, error) {
	cal, err := u.Calendar(ctx)
	if err != nil {
		return nil, MonthGrid{}, err
	}
	if !cal.Available {
		return cal, MonthGrid{}, nil
	}
	return cal, BuildMonthGrid(year, month, cal.Days), nil
}

// CalendarGrouped builds every month grid, ascending.
func (u *DashboardUsecase) CalendarGrouped(ctx context.Context) (*models.Calendar, []MonthGrid, error) {
	cal, err := u.Calendar(ctx)
	if err != nil {
		return nil, nil, err
	}
	if !cal.Available {
		return cal, nil, nil
	}
	return cal, GroupByMonth(cal.Days), nil
}

// Status reports the dashboard's own health: stream state, active scopes
// and recent collected errors.
func (u *DashboardUsecase) Status() *ViewStatus {
	u.mu.Lock()
	active := make([]string, 0, len(u.scopes))
	for id := range u.scopes {
		active = append(active, id)
	}
	u.mu.Unlock()

	status := &ViewStatus{
		Environment: u.cfg.Environment,
		ActiveUsers: active,
	}
	if u.stream != nil {
		status.StreamConnected = u.stream.IsConnected()
	}
	if col := u.logger.Collector(); col != nil {
		status.RecentErrors = col.Recent()
	}
	return status
}

func (u *DashboardUsecase) currentPrice() float64 {
	data, ok := u.ticker.Data()
	if !ok {
		return 0
	}
	ticker, ok := data.(models.Ticker)
	if !ok {
		return 0
	}
	return ticker[baseAsset(u.cfg.Chart.Symbol)]
}

// baseAsset strips the quote currency from a symbol like BTC/USDT.
func baseAsset(symbol string) string {
	if i := strings.IndexAny(symbol, "/-"); i > 0 {
		return symbol[:i]
	}
	return symbol
}

func buildPositionViews(positions []models.Position, price float64) []PositionView {
	views := make([]PositionView, 0, len(positions))
	for _, p := range positions {
		v := PositionView{Position: p, CurrentPrice: price}
		if price > 0 && p.Entry > 0 {
			move := PercentToLevel(p.Entry, price)
			if p.IsBuy() {
				v.PnLPercent = move
			} else {
				v.PnLPercent = -move
			}
			v.ToSL = PercentToLevel(price, p.SL)
			v.ToTP = PercentToLevel(price, p.TP)
		}
		views = append(views, v)
	}
	return views
}

func collectErr(dst map[string]string, section string, err error) {
	if err != nil {
		dst[section] = err.Error()
	}
}
