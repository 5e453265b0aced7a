package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	BotAPI struct {
		BaseURL        string        `yaml:"base_url"`
		WSURL          string        `yaml:"ws_url"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay"`
		PingInterval   time.Duration `yaml:"ping_interval"`
	} `yaml:"bot_api"`
	Poll struct {
		Users         time.Duration `yaml:"users"`
		Signals       time.Duration `yaml:"signals"`
		Positions     time.Duration `yaml:"positions"`
		Trades        time.Duration `yaml:"trades"`
		Equity        time.Duration `yaml:"equity"`
		Stats         time.Duration `yaml:"stats"`
		LatestSignal  time.Duration `yaml:"latest_signal"`
		ServiceStatus time.Duration `yaml:"service_status"`
		OHLCV         time.Duration `yaml:"ohlcv"`
		Ticker        time.Duration `yaml:"ticker"`
	} `yaml:"poll"`
	Limits struct {
		Signals int `yaml:"signals"`
		Trades  int `yaml:"trades"`
	} `yaml:"limits"`
	Chart struct {
		Symbol    string `yaml:"symbol"`
		Timeframe string `yaml:"timeframe"`
		Limit     int    `yaml:"limit"`
		Height    int    `yaml:"height"`
	} `yaml:"chart"`
	Calendar struct {
		Asset     string        `yaml:"asset"`
		UntilYear int           `yaml:"until_year"`
		CacheTTL  time.Duration `yaml:"cache_ttl"`
	} `yaml:"calendar"`
	Cache struct {
		Backend string `yaml:"backend"` // memory, redis, layered
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("ASTROBOT_API_URL"); v != "" {
		c.BotAPI.BaseURL = v
	}
	if v := os.Getenv("ASTROBOT_WS_URL"); v != "" {
		c.BotAPI.WSURL = v
	}
	if v := os.Getenv("DASHBOARD_ASSET"); v != "" {
		c.Calendar.Asset = v
	}
	if v := os.Getenv("CHART_SYMBOL"); v != "" {
		c.Chart.Symbol = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Backend = "redis"
		host, port := splitHostPort(v, c.Cache.Redis.Port)
		c.Cache.Redis.Host = host
		c.Cache.Redis.Port = port
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.BotAPI.BaseURL == "" {
		return fmt.Errorf("bot_api.base_url is required")
	}
	if c.Chart.Symbol == "" {
		return fmt.Errorf("chart.symbol is required")
	}
	if c.Calendar.Asset == "" {
		return fmt.Errorf("calendar.asset is required")
	}
	switch c.Cache.Backend {
	case "", "memory", "redis", "layered":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'layered', got '%s'", c.Cache.Backend)
	}
	return nil
}

// applyDefaults fills poll intervals and misc knobs left out of the file.
// The defaults mirror the refresh cadences the dashboard was designed for.
func (c *Config) applyDefaults() {
	def := func(d *time.Duration, v time.Duration) {
		if *d <= 0 {
			*d = v
		}
	}
	def(&c.Poll.Users, 10*time.Second)
	def(&c.Poll.Signals, 30*time.Second)
	def(&c.Poll.Positions, 20*time.Second)
	def(&c.Poll.Trades, 30*time.Second)
	def(&c.Poll.Equity, 30*time.Second)
	def(&c.Poll.Stats, 30*time.Second)
	def(&c.Poll.LatestSignal, 30*time.Second)
	def(&c.Poll.ServiceStatus, 15*time.Second)
	def(&c.Poll.OHLCV, 60*time.Second)
	def(&c.Poll.Ticker, 15*time.Second)
	def(&c.BotAPI.RequestTimeout, 15*time.Second)
	def(&c.BotAPI.ReconnectDelay, 5*time.Second)
	def(&c.BotAPI.PingInterval, 30*time.Second)
	def(&c.Calendar.CacheTTL, 12*time.Hour)

	if c.Limits.Signals <= 0 {
		c.Limits.Signals = 100
	}
	if c.Limits.Trades <= 0 {
		c.Limits.Trades = 200
	}
	if c.Chart.Timeframe == "" {
		c.Chart.Timeframe = "4h"
	}
	if c.Chart.Limit <= 0 {
		c.Chart.Limit = 500
	}
	if c.Chart.Height <= 0 {
		c.Chart.Height = 420
	}
	if c.Calendar.UntilYear <= 0 {
		c.Calendar.UntilYear = time.Now().Year() + 1
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port <= 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	def(&c.Server.ReadTimeout, 10*time.Second)
	def(&c.Server.WriteTimeout, 10*time.Second)
	def(&c.Server.ShutdownTimeout, 10*time.Second)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
}

func splitHostPort(addr string, defPort int) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, defPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return host, defPort
	}
	return host, port
}
