package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Symbols) != 3 {
		t.Fatalf("expected 3 default symbols, got %d", len(cfg.Symbols))
	}
	if cfg.Symbols[0].Symbol != "NIFTYBEES.NS" {
		t.Errorf("unexpected first default symbol %s", cfg.Symbols[0].Symbol)
	}
	if cfg.Signals.MovingAvgPeriod != 20 || cfg.History.WindowDays != 90 {
		t.Errorf("defaults not applied: %+v", cfg.Signals)
	}
	if cfg.Market.Timezone != "Asia/Kolkata" {
		t.Errorf("expected default timezone, got %s", cfg.Market.Timezone)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoad_YAMLAndDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
symbols:
  - symbol: NIFTYBEES.NS
    name: Nifty 50
    target_allocation: 0.3
    buy_on_dip: 1.5
portfolio:
  amount: 500000
poll:
  interval_seconds: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Portfolio.Amount != 500000 {
		t.Errorf("expected portfolio amount 500000, got %v", cfg.Portfolio.Amount)
	}
	if cfg.Poll.IntervalSeconds != 30 {
		t.Errorf("expected interval 30, got %d", cfg.Poll.IntervalSeconds)
	}
	sc := cfg.Symbols[0]
	if sc.BuyOnDipPct != 1.5 {
		t.Errorf("expected configured buy_on_dip 1.5, got %v", sc.BuyOnDipPct)
	}
	if sc.SellOnSpikePct != 3.0 {
		t.Errorf("expected default sell_on_spike 3.0, got %v", sc.SellOnSpikePct)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok123")
	t.Setenv("CHECK_INTERVAL", "15")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telegram.BotToken != "tok123" {
		t.Errorf("env token not applied, got %q", cfg.Telegram.BotToken)
	}
	if cfg.Poll.IntervalSeconds != 15 {
		t.Errorf("env interval not applied, got %d", cfg.Poll.IntervalSeconds)
	}
}

func validConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no symbols", func(c *Config) { c.Symbols = nil }, true},
		{"duplicate symbol", func(c *Config) { c.Symbols[1].Symbol = c.Symbols[0].Symbol }, true},
		{"allocation above one", func(c *Config) { c.Symbols[0].TargetAllocation = 1.5 }, true},
		{"allocations sum above one", func(c *Config) {
			for i := range c.Symbols {
				c.Symbols[i].TargetAllocation = 0.4
			}
		}, true},
		{"negative invested", func(c *Config) { c.Symbols[0].CurrentInvested = -1 }, true},
		{"zero portfolio", func(c *Config) { c.Portfolio.Amount = 0 }, true},
		{"sell fraction above one", func(c *Config) { c.Portfolio.SellFraction = 1.5 }, true},
		{"inverted percentiles", func(c *Config) { c.Signals.CheapPercentile = 90 }, true},
		{"bad timezone", func(c *Config) { c.Market.Timezone = "Mars/Olympus" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
