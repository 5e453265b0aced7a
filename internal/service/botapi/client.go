package botapi

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"AstroView/internal/domain/models"
	"AstroView/internal/domain/repository"
	"AstroView/pkg/http"
	"AstroView/pkg/logger"
)

// Client is the typed gateway to the bot backend. It is a thin fetch layer:
// no caching, no retries, no derived values. Every method returns the
// backend payload as-is or an error the poll layer can classify.
type Client struct {
	http    *http.Client
	metrics repository.Metrics
	logger  *logger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithMetrics attaches a fetch latency recorder.
func WithMetrics(m repository.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger attaches a logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a gateway bound to the backend base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:   http.NewClient(baseURL, http.WithTimeout(timeout)),
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, endpoint, path string, query map[string][]string, dest interface{}) error {
	start := time.Now()
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method:      http.MethodGet,
		Path:        path,
		QueryParams: query,
	}, dest)
	if c.metrics != nil {
		c.metrics.RecordFetchLatency(endpoint, time.Since(start).Seconds())
	}
	if err != nil {
		c.logger.Debug("backend fetch failed",
			logger.String("endpoint", endpoint),
			logger.String("path", path),
			logger.Error(err))
	}
	return err
}

// Users lists all configured bot instances.
func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "users", "/api/users", nil, &users); err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	return users, nil
}

// Signals returns the most recent signal rows for a user, newest first.
func (c *Client) Signals(ctx context.Context, userID string, limit int) ([]models.Signal, error) {
	var signals []models.Signal
	query := map[string][]string{"limit": {strconv.Itoa(limit)}}
	path := fmt.Sprintf("/api/users/%s/signals", userID)
	if err := c.get(ctx, "signals", path, query, &signals); err != nil {
		return nil, fmt.Errorf("fetch signals for %s: %w", userID, err)
	}
	return signals, nil
}

// Trades returns the most recent closed trades for a user, newest first.
func (c *Client) Trades(ctx context.Context, userID string, limit int) ([]models.Signal, error) {
	var trades []models.Signal
	query := map[string][]string{"limit": {strconv.Itoa(limit)}}
	path := fmt.Sprintf("/api/users/%s/trades", userID)
	if err := c.get(ctx, "trades", path, query, &trades); err != nil {
		return nil, fmt.Errorf("fetch trades for %s: %w", userID, err)
	}
	return trades, nil
}

// Positions returns a user's currently open positions.
func (c *Client) Positions(ctx context.Context, userID string) ([]models.Position, error) {
	var positions []models.Position
	path := fmt.Sprintf("/api/users/%s/positions", userID)
	if err := c.get(ctx, "positions", path, nil, &positions); err != nil {
		return nil, fmt.Errorf("fetch positions for %s: %w", userID, err)
	}
	return positions, nil
}

// Equity returns a user's equity aggregate.
func (c *Client) Equity(ctx context.Context, userID string) (*models.EquityState, error) {
	var equity models.EquityState
	path := fmt.Sprintf("/api/users/%s/equity", userID)
	if err := c.get(ctx, "equity", path, nil, &equity); err != nil {
		return nil, fmt.Errorf("fetch equity for %s: %w", userID, err)
	}
	return &equity, nil
}

// Stats returns the backend-computed trade statistics for a user.
func (c *Client) Stats(ctx context.Context, userID string) (*models.Stats, error) {
	var stats models.Stats
	path := fmt.Sprintf("/api/users/%s/stats", userID)
	if err := c.get(ctx, "stats", path, nil, &stats); err != nil {
		return nil, fmt.Errorf("fetch stats for %s: %w", userID, err)
	}
	return &stats, nil
}

// LatestSignal returns a user's most recent signal, or nil when the bot has
// not emitted one yet.
func (c *Client) LatestSignal(ctx context.Context, userID string) (*models.Signal, error) {
	var signal *models.Signal
	path := fmt.Sprintf("/api/users/%s/latest-signal", userID)
	if err := c.get(ctx, "latest_signal", path, nil, &signal); err != nil {
		return nil, fmt.Errorf("fetch latest signal for %s: %w", userID, err)
	}
	return signal, nil
}

// ServiceStatus probes the systemd unit behind a user's bot.
func (c *Client) ServiceStatus(ctx context.Context, userID string) (*models.ServiceStatus, error) {
	var status models.ServiceStatus
	path := fmt.Sprintf("/api/users/%s/service-status", userID)
	if err := c.get(ctx, "service_status", path, nil, &status); err != nil {
		return nil, fmt.Errorf("fetch service status for %s: %w", userID, err)
	}
	return &status, nil
}

// OHLCV fetches candles for the chart. Candle times are unix seconds.
func (c *Client) OHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	var candles []models.Candle
	query := map[string][]string{
		"symbol":    {symbol},
		"timeframe": {repository.NormalizeTimeframe(timeframe)},
		"limit":     {strconv.Itoa(limit)},
	}
	if err := c.get(ctx, "ohlcv", "/api/ohlcv", query, &candles); err != nil {
		return nil, fmt.Errorf("fetch ohlcv %s: %w", symbol, err)
	}
	return candles, nil
}

// Ticker returns current prices keyed by base asset.
func (c *Client) Ticker(ctx context.Context) (models.Ticker, error) {
	var ticker models.Ticker
	if err := c.get(ctx, "ticker", "/api/ticker", nil, &ticker); err != nil {
		return nil, fmt.Errorf("fetch ticker: %w", err)
	}
	if c.metrics != nil {
		for asset, price := range ticker {
			c.metrics.RecordLastPrice(asset, price)
		}
	}
	return ticker, nil
}

// Calendar fetches the prediction calendar. An unavailable calendar is a
// valid payload (Available=false with a reason), not an error.
func (c *Client) Calendar(ctx context.Context, untilYear int, asset string) (*models.Calendar, error) {
	var cal models.Calendar
	query := map[string][]string{
		"until_year": {strconv.Itoa(untilYear)},
		"asset":      {asset},
	}
	if err := c.get(ctx, "calendar", "/api/predictions/calendar", query, &cal); err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	return &cal, nil
}

// OpenPaperTrade submits a manual simulated trade for a user.
func (c *Client) OpenPaperTrade(ctx context.Context, req *models.PaperTradeRequest) error {
	start := time.Now()
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodPost,
		Path:   "/api/paper/trade",
		Body:   req,
	}, nil)
	if c.metrics != nil {
		c.metrics.RecordFetchLatency("paper_trade", time.Since(start).Seconds())
	}
	if err != nil {
		return fmt.Errorf("open paper trade for %s: %w", req.UserID, err)
	}
	return nil
}

// ClosePaperTrade closes the paper position at the given index in the
// user's open position list.
func (c *Client) ClosePaperTrade(ctx context.Context, userID string, index int) error {
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/paper/trade/%s/%d", userID, index),
	}, nil)
	if err != nil {
		return fmt.Errorf("close paper trade %d for %s: %w", index, userID, err)
	}
	return nil
}

// RegisterUser provisions a bot instance on the backend roster. The
// response carries the created roster entry and the tail of the
// provisioning script's output.
func (c *Client) RegisterUser(ctx context.Context, req *models.RegisterUserRequest) (string, error) {
	var resp struct {
		Status string       `json:"status"`
		User   *models.User `json:"user"`
		Log    string       `json:"log"`
	}
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodPost,
		Path:   "/api/users/register",
		Body:   req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("register user %s: %w", req.Username, err)
	}
	return resp.Log, nil
}

// RemoveUser removes a bot instance from the roster.
func (c *Client) RemoveUser(ctx context.Context, userID string) error {
	err := c.http.SendAndParse(ctx, &http.RequestOptions{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/users/%s", userID),
	}, nil)
	if err != nil {
		return fmt.Errorf("remove user %s: %w", userID, err)
	}
	return nil
}
