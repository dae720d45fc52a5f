package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	wf "loan-origination/internal/domain/workflow"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string
	GormDebug bool

	RedisAddr string
	RedisDB   int

	IdempTTLSecs       int
	LevelsCacheTTLSecs int
	LevelsRefreshSecs  int

	NATSURL  string
	LogLevel string

	// Workflow tuning.
	CommitteeAmountThreshold decimal.Decimal
	RiskScoreThreshold       int
	ContractFeeRate          decimal.Decimal
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config: ignoring non-integer value", "key", k, "value", v)
		return d
	}
	return n
}

func getdec(k string, d decimal.Decimal) decimal.Decimal {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := decimal.NewFromString(v)
	if err != nil {
		slog.Warn("config: ignoring non-decimal value", "key", k, "value", v)
		return d
	}
	return n
}

// Load reads the environment, after merging any of files (default ".env")
// that exist. Variables already set in the environment win.
func Load(files ...string) *Config {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("config: cannot read env file", "file", f, "error", err)
		}
	}

	def := wf.DefaultThresholds()
	return &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loans"),
		MySQLUser: getenv("MYSQL_USER", "loans"),
		MySQLPass: getenv("MYSQL_PASS", "loans"),
		GormDebug: getenv("GORM_DEBUG", "") == "true",

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getint("REDIS_DB", 0),

		IdempTTLSecs:       getint("IDEMPOTENCY_TTL_SECONDS", 300),
		LevelsCacheTTLSecs: getint("APPROVAL_LEVELS_CACHE_TTL_SECONDS", 600),
		LevelsRefreshSecs:  getint("APPROVAL_LEVELS_REFRESH_SECONDS", 60),

		NATSURL:  getenv("NATS_URL", ""),
		LogLevel: getenv("LOG_LEVEL", "info"),

		CommitteeAmountThreshold: getdec("COMMITTEE_AMOUNT_THRESHOLD", def.CommitteeAmount),
		RiskScoreThreshold:       getint("RISK_SCORE_THRESHOLD", def.RiskScore),
		ContractFeeRate:          getdec("CONTRACT_FEE_RATE", decimal.RequireFromString("0.02")),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	if !c.CommitteeAmountThreshold.IsPositive() {
		return errors.New("COMMITTEE_AMOUNT_THRESHOLD must be positive")
	}
	if c.ContractFeeRate.IsNegative() || c.ContractFeeRate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("CONTRACT_FEE_RATE must be between 0 and 1")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempTTLSecs) * time.Second
}

// LevelsCacheTTL is zero when the Redis level cache is disabled.
func (c *Config) LevelsCacheTTL() time.Duration {
	if c.LevelsCacheTTLSecs <= 0 {
		return 0
	}
	return time.Duration(c.LevelsCacheTTLSecs) * time.Second
}

// LevelsRefresh is how long a server keeps its in-memory level table.
// Zero loads the table once per process.
func (c *Config) LevelsRefresh() time.Duration {
	if c.LevelsRefreshSecs <= 0 {
		return 0
	}
	return time.Duration(c.LevelsRefreshSecs) * time.Second
}

func (c *Config) Thresholds() wf.Thresholds {
	return wf.Thresholds{CommitteeAmount: c.CommitteeAmountThreshold, RiskScore: c.RiskScoreThreshold}
}

func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
}
