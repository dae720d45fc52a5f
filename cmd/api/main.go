package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"loan-origination/internal/adapter/events"
	httpadp "loan-origination/internal/adapter/http"
	"loan-origination/internal/adapter/metrics"
	mw "loan-origination/internal/adapter/middleware"
	"loan-origination/internal/adapter/repository/mysql"
	rediscache "loan-origination/internal/adapter/repository/redis"
	"loan-origination/internal/config"
	"loan-origination/internal/domain/approvallevel"
	"loan-origination/internal/infrastructure/broker"
	"loan-origination/internal/infrastructure/cache"
	"loan-origination/internal/infrastructure/db"
	"loan-origination/internal/usecase/loan"
	"loan-origination/internal/usecase/workflow"
)

const (
	Version = "0.1.0"
	appName = "loan-origination"

	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Loan origination workflow service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file merged into the environment if present")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := setup(envFile)
				if err != nil {
					return err
				}
				return serve(cmd.Context(), cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(*cobra.Command, []string) error {
				cfg, err := setup(envFile)
				if err != nil {
					return err
				}
				gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.GormDebug)
				if err != nil {
					return fmt.Errorf("open mysql: %w", err)
				}
				if err := mysql.AutoMigrate(gdb); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				slog.Info("schema migrated")
				return nil
			},
		},
		seedLevelsCmd(&envFile),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(*cobra.Command, []string) {
				fmt.Printf("%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func seedLevelsCmd(envFile *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-levels",
		Short: "Replace the approval level table from a YAML file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(*envFile)
			if err != nil {
				return err
			}
			levels, err := config.LoadLevelsFile(file)
			if err != nil {
				return err
			}
			gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.GormDebug)
			if err != nil {
				return fmt.Errorf("open mysql: %w", err)
			}
			var repo approvallevel.Repository = mysql.NewApprovalLevelRepository(gdb)
			// Go through the cache when it is enabled so its entry is dropped; running
			// servers pick the new table up on their next levels refresh.
			if ttl := cfg.LevelsCacheTTL(); ttl > 0 {
				rdb, err := cache.OpenRedis(cmd.Context(), cfg.RedisAddr, cfg.RedisDB)
				if err != nil {
					return fmt.Errorf("open redis: %w", err)
				}
				defer rdb.Close()
				repo = rediscache.NewApprovalLevelCache(rdb, repo, ttl)
			}
			if err := repo.ReplaceAll(cmd.Context(), levels); err != nil {
				return fmt.Errorf("replace approval levels: %w", err)
			}
			slog.Info("approval levels seeded", "file", file, "count", len(levels))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "levels.yaml", "YAML file with the approval levels")
	return cmd
}

// setup loads and validates config, then installs the default logger.
func setup(envFile string) (*config.Config, error) {
	cfg := config.Load(envFile)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), cfg.GormDebug)
	if err != nil {
		return fmt.Errorf("open mysql: %w", err)
	}
	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	defer rdb.Close()

	rec := metrics.NewRecorder()
	opts := []workflow.Option{
		workflow.WithRecorder(rec),
		workflow.WithThresholds(cfg.Thresholds()),
		workflow.WithFeeRate(cfg.ContractFeeRate),
		workflow.WithLevelsRefresh(cfg.LevelsRefresh()),
	}
	if cfg.NATSURL != "" {
		nc, err := broker.OpenNATS(cfg.NATSURL, appName)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Drain()
		opts = append(opts, workflow.WithPublisher(events.NewPublisher(nc)))
	} else {
		slog.Info("NATS_URL not set, workflow events are not published")
	}

	e := newServer(gdb, rdb, cfg, rec, opts)

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		slog.Info("listening", "addr", addr, "version", Version)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func newServer(gdb *gorm.DB, rdb *redis.Client, cfg *config.Config, rec *metrics.Recorder, opts []workflow.Option) *echo.Echo {
	loans := mysql.NewLoanRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	var levels approvallevel.Repository = mysql.NewApprovalLevelRepository(gdb)
	if ttl := cfg.LevelsCacheTTL(); ttl > 0 {
		levels = rediscache.NewApprovalLevelCache(rdb, levels, ttl)
	}

	wfUC := workflow.NewUsecase(loans, levels, tx, opts...)
	loanUC := loan.NewUsecase(loans, tx, loan.WithHistory(mysql.NewTransitionRepository(gdb)))

	e := httpadp.NewEcho()
	e.Use(middleware.Logger(), middleware.Recover())
	httpadp.Routes{
		Health:   httpadp.NewHandler(Version),
		Loans:    httpadp.NewLoanHandler(loanUC),
		Workflow: httpadp.NewWorkflowHandler(wfUC),
		Metrics:  rec.Echo(),
		Mutating: []echo.MiddlewareFunc{mw.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL())},
	}.Register(e)
	return e
}
