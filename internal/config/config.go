package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// SymbolConfig describes one tracked ETF and its allocation targets.
type SymbolConfig struct {
	Symbol           string  `yaml:"symbol"`
	Name             string  `yaml:"name"`
	TargetAllocation float64 `yaml:"target_allocation"`
	BuyOnDipPct      float64 `yaml:"buy_on_dip"`
	SellOnSpikePct   float64 `yaml:"sell_on_spike"`
	CurrentInvested  float64 `yaml:"current_invested"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Feed struct {
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"feed"`
	Symbols   []SymbolConfig `yaml:"symbols"`
	Portfolio struct {
		Amount         float64 `yaml:"amount"`
		MaxSingleTrade float64 `yaml:"max_single_trade"`
		SellFraction   float64 `yaml:"sell_fraction"`
	} `yaml:"portfolio"`
	Signals struct {
		MovingAvgPeriod     int     `yaml:"moving_avg_period"`
		CheapPercentile     float64 `yaml:"cheap_percentile"`
		ExpensivePercentile float64 `yaml:"expensive_percentile"`
		TrendLength         int     `yaml:"trend_length"`
	} `yaml:"signals"`
	History struct {
		WindowDays int `yaml:"window_days"`
	} `yaml:"history"`
	Alerts struct {
		CooldownMinutes   int  `yaml:"cooldown_minutes"`
		ResetOnNewSession bool `yaml:"reset_on_new_session"`
	} `yaml:"alerts"`
	Poll struct {
		IntervalSeconds      int    `yaml:"interval_seconds"`
		RateLimitBackoffSecs int    `yaml:"rate_limit_backoff_seconds"`
		DailySummaryCron     string `yaml:"daily_summary_cron"`
	} `yaml:"poll"`
	Market struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"market"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Snapshot struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"snapshot"`
	Health struct {
		Port int `yaml:"port"`
	} `yaml:"health"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("FEED_BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}
	if v := os.Getenv("FEED_API_KEY"); v != "" {
		cfg.Feed.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PORTFOLIO_AMOUNT"); v != "" {
		if amount, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Portfolio.Amount = amount
		}
	}
	if v := os.Getenv("CHECK_INTERVAL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.Poll.IntervalSeconds = secs
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Health.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = []SymbolConfig{
			{Symbol: "NIFTYBEES.NS", Name: "Nifty 50", TargetAllocation: 0.15},
			{Symbol: "JUNIORBEES.NS", Name: "Nifty Next 50", TargetAllocation: 0.10},
			{Symbol: "BANKBEES.NS", Name: "Bank Nifty", TargetAllocation: 0.15},
		}
	}
	for i := range cfg.Symbols {
		if cfg.Symbols[i].Name == "" {
			cfg.Symbols[i].Name = cfg.Symbols[i].Symbol
		}
		if cfg.Symbols[i].BuyOnDipPct == 0 {
			cfg.Symbols[i].BuyOnDipPct = 2.0
		}
		if cfg.Symbols[i].SellOnSpikePct == 0 {
			cfg.Symbols[i].SellOnSpikePct = 3.0
		}
	}
	if cfg.Feed.TimeoutSeconds == 0 {
		cfg.Feed.TimeoutSeconds = 30
	}
	if cfg.Portfolio.Amount == 0 {
		cfg.Portfolio.Amount = 100000
	}
	if cfg.Portfolio.MaxSingleTrade == 0 {
		cfg.Portfolio.MaxSingleTrade = 25000
	}
	if cfg.Portfolio.SellFraction == 0 {
		cfg.Portfolio.SellFraction = 0.25
	}
	if cfg.Signals.MovingAvgPeriod == 0 {
		cfg.Signals.MovingAvgPeriod = 20
	}
	if cfg.Signals.CheapPercentile == 0 {
		cfg.Signals.CheapPercentile = 20
	}
	if cfg.Signals.ExpensivePercentile == 0 {
		cfg.Signals.ExpensivePercentile = 80
	}
	if cfg.Signals.TrendLength == 0 {
		cfg.Signals.TrendLength = 3
	}
	if cfg.History.WindowDays == 0 {
		cfg.History.WindowDays = 90
	}
	if cfg.Alerts.CooldownMinutes == 0 {
		cfg.Alerts.CooldownMinutes = 5
	}
	if cfg.Poll.IntervalSeconds == 0 {
		cfg.Poll.IntervalSeconds = 60
	}
	if cfg.Poll.RateLimitBackoffSecs == 0 {
		cfg.Poll.RateLimitBackoffSecs = 300
	}
	if cfg.Poll.DailySummaryCron == "" {
		cfg.Poll.DailySummaryCron = "0 0 16 * * 1-5"
	}
	if cfg.Market.Timezone == "" {
		cfg.Market.Timezone = "Asia/Kolkata"
	}
	if cfg.Health.Port == 0 {
		cfg.Health.Port = 10000
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
}

// Validate checks that the configuration is usable. A failure here is fatal
// at startup, before any cycle runs.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("at least one symbol is required")
	}
	seen := make(map[string]bool, len(c.Symbols))
	totalAlloc := 0.0
	for _, s := range c.Symbols {
		if s.Symbol == "" {
			return fmt.Errorf("symbol name must not be empty")
		}
		if seen[s.Symbol] {
			return fmt.Errorf("duplicate symbol %q", s.Symbol)
		}
		seen[s.Symbol] = true
		if s.TargetAllocation <= 0 || s.TargetAllocation > 1 {
			return fmt.Errorf("symbol %s: target_allocation must be in (0, 1], got %v", s.Symbol, s.TargetAllocation)
		}
		if s.BuyOnDipPct <= 0 {
			return fmt.Errorf("symbol %s: buy_on_dip must be positive", s.Symbol)
		}
		if s.SellOnSpikePct <= 0 {
			return fmt.Errorf("symbol %s: sell_on_spike must be positive", s.Symbol)
		}
		if s.CurrentInvested < 0 {
			return fmt.Errorf("symbol %s: current_invested must not be negative", s.Symbol)
		}
		totalAlloc += s.TargetAllocation
	}
	if totalAlloc > 1 {
		return fmt.Errorf("target allocations sum to %.2f, must not exceed 1", totalAlloc)
	}
	if c.Portfolio.Amount <= 0 {
		return fmt.Errorf("portfolio.amount must be positive")
	}
	if c.Portfolio.SellFraction <= 0 || c.Portfolio.SellFraction > 1 {
		return fmt.Errorf("portfolio.sell_fraction must be in (0, 1]")
	}
	if c.Signals.CheapPercentile >= c.Signals.ExpensivePercentile {
		return fmt.Errorf("signals.cheap_percentile must be below expensive_percentile")
	}
	if c.History.WindowDays <= 0 {
		return fmt.Errorf("history.window_days must be positive")
	}
	if c.Poll.IntervalSeconds <= 0 {
		return fmt.Errorf("poll.interval_seconds must be positive")
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone: %w", err)
	}
	return nil
}
