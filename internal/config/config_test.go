package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "REDIS_DB", "IDEMPOTENCY_TTL_SECONDS", "COMMITTEE_AMOUNT_THRESHOLD", "RISK_SCORE_THRESHOLD", "CONTRACT_FEE_RATE", "LOG_LEVEL", "NATS_URL", "APPROVAL_LEVELS_REFRESH_SECONDS"} {
		t.Setenv(k, "")
	}
	c := Load(filepath.Join(t.TempDir(), "missing.env"))

	if c.AppPort != "8080" || c.RedisDB != 0 || c.IdempotencyTTL() != 5*time.Minute {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	th := c.Thresholds()
	if !th.CommitteeAmount.Equal(decimal.NewFromInt(5_000_000)) || th.RiskScore != 600 {
		t.Fatalf("thresholds = %+v", th)
	}
	if !c.ContractFeeRate.Equal(decimal.RequireFromString("0.02")) {
		t.Fatalf("fee rate = %s", c.ContractFeeRate)
	}
	if c.LevelsRefresh() != time.Minute {
		t.Fatalf("levels refresh = %v", c.LevelsRefresh())
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "60")
	t.Setenv("COMMITTEE_AMOUNT_THRESHOLD", "7500000")
	t.Setenv("RISK_SCORE_THRESHOLD", "550")
	t.Setenv("CONTRACT_FEE_RATE", "0.015")
	t.Setenv("APPROVAL_LEVELS_CACHE_TTL_SECONDS", "0")
	t.Setenv("APPROVAL_LEVELS_REFRESH_SECONDS", "0")
	t.Setenv("LOG_LEVEL", "debug")

	c := Load(filepath.Join(t.TempDir(), "missing.env"))
	if c.AppPort != "9090" || c.RedisDB != 3 || c.IdempotencyTTL() != time.Minute {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if !c.CommitteeAmountThreshold.Equal(decimal.NewFromInt(7_500_000)) || c.RiskScoreThreshold != 550 {
		t.Fatalf("thresholds = %s/%d", c.CommitteeAmountThreshold, c.RiskScoreThreshold)
	}
	if c.LevelsCacheTTL() != 0 {
		t.Fatalf("cache should be disabled")
	}
	if c.LevelsRefresh() != 0 {
		t.Fatalf("refresh should be disabled")
	}
	if lvl, err := c.SlogLevel(); err != nil || lvl != slog.LevelDebug {
		t.Fatalf("level = %v err = %v", lvl, err)
	}
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("CONTRACT_FEE_RATE", "2%")
	c := Load(filepath.Join(t.TempDir(), "missing.env"))
	if c.RedisDB != 0 || !c.ContractFeeRate.Equal(decimal.RequireFromString("0.02")) {
		t.Fatalf("fallbacks not applied: %+v", c)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	// t.Setenv restores the original value; unset so the file can supply it.
	t.Setenv("MYSQL_DB", "")
	os.Unsetenv("MYSQL_DB")
	t.Setenv("APP_PORT", "7000")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MYSQL_DB=from_file\nAPP_PORT=1111\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c := Load(path)
	if c.MySQLDB != "from_file" {
		t.Fatalf("MYSQL_DB = %q, want from_file", c.MySQLDB)
	}
	if c.AppPort != "7000" {
		t.Fatalf("environment must win over the file, got %q", c.AppPort)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
			IdempTTLSecs:             10,
			CommitteeAmountThreshold: decimal.NewFromInt(1),
			ContractFeeRate:          decimal.Zero,
			LogLevel:                 "info",
		}
	}
	cases := map[string]func(*Config){
		"no host":       func(c *Config) { c.MySQLHost = "" },
		"bad port":      func(c *Config) { c.MySQLPort = "not-a-port" },
		"no app port":   func(c *Config) { c.AppPort = "" },
		"zero ttl":      func(c *Config) { c.IdempTTLSecs = 0 },
		"zero amount":   func(c *Config) { c.CommitteeAmountThreshold = decimal.Zero },
		"fee too large": func(c *Config) { c.ContractFeeRate = decimal.NewFromInt(2) },
		"log level":     func(c *Config) { c.LogLevel = "loud" },
	}
	if err := base().Validate(); err != nil {
		t.Fatalf("base should validate: %v", err)
	}
	for name, mutate := range cases {
		c := base()
		mutate(c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPass: "p", MySQLHost: "db", MySQLPort: "3307", MySQLDB: "loans"}
	want := "u:p@tcp(db:3307)/loans?multiStatements=true&parseTime=true&charset=utf8mb4,utf8"
	if got := c.MySQLDSN(); got != want {
		t.Fatalf("dsn = %s", got)
	}
}
