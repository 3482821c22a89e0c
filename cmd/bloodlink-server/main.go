package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bloodlink/bloodlink/internal/config"
	"github.com/bloodlink/bloodlink/internal/domain/appointment"
	"github.com/bloodlink/bloodlink/internal/domain/bloodrequest"
	"github.com/bloodlink/bloodlink/internal/domain/dashboard"
	"github.com/bloodlink/bloodlink/internal/domain/identity"
	"github.com/bloodlink/bloodlink/internal/domain/inventory"
	"github.com/bloodlink/bloodlink/internal/platform/apperr"
	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/db"
	"github.com/bloodlink/bloodlink/internal/platform/middleware"
	"github.com/bloodlink/bloodlink/internal/platform/notification"
)

func main() {
	root := &cobra.Command{
		Use:   "bloodlink-server",
		Short: "Blood donation coordination API server",
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			e := buildServer(cfg, logger, pool)

			go func() {
				addr := ":" + cfg.Port
				logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()

			<-ctx.Done()
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
}

func buildServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger, cfg.IsDev())

	e.Use(middleware.RequestID())
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authCfg := auth.Config{
		Secret: []byte(cfg.JWTSecret),
		TTL:    time.Duration(cfg.JWTTTLHours) * time.Hour,
	}
	required := auth.Required(authCfg)
	optional := auth.Optional(authCfg)
	adminOnly := auth.RequireRole(identity.RoleAdmin)

	var sender notification.Sender
	if cfg.SMTPHost != "" {
		sender = &notification.SMTPSender{Host: cfg.SMTPHost, Port: cfg.SMTPPort, From: cfg.SMTPFrom}
	} else {
		sender = &notification.LogSender{Logger: logger}
	}
	notifier := notification.NewService(sender, logger)

	userRepo := identity.NewRepoPG(pool)
	invRepo := inventory.NewRepoPG(pool)
	apptRepo := appointment.NewRepoPG(pool)
	reqRepo := bloodrequest.NewRepoPG(pool)
	dashRepo := dashboard.NewRepoPG(pool)

	userSvc := identity.NewService(userRepo, authCfg)
	invSvc := inventory.NewService(invRepo)
	apptSvc := appointment.NewService(apptRepo, userRepo, invSvc, notifier,
		func(ctx context.Context, fn func(ctx context.Context) error) error {
			return db.WithTx(ctx, pool, fn)
		})
	reqSvc := bloodrequest.NewService(reqRepo)
	dashSvc := dashboard.NewService(dashRepo)

	api := e.Group("/api/v1")
	identity.NewHandler(userSvc).RegisterRoutes(api, required)
	inventory.NewHandler(invSvc).RegisterRoutes(api, required, adminOnly)
	appointment.NewHandler(apptSvc).RegisterRoutes(api, required)
	bloodrequest.NewHandler(reqSvc).RegisterRoutes(api, required, optional)
	dashboard.NewHandler(dashSvc).RegisterRoutes(api)

	return e
}

func migrateCmd() *cobra.Command {
	var migrationsDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "path to migration files")

	withMigrator := func(fn func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			return fn(ctx, db.NewMigrator(pool, migrationsDir), logger)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error {
			n, err := m.Up(ctx)
			if err != nil {
				return err
			}
			logger.Info().Int("applied", n).Msg("migrations complete")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator, _ zerolog.Logger) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, st := range statuses {
				state := "pending"
				if st.Applied {
					state = "applied " + st.AppliedAt.Format(time.RFC3339)
				}
				fmt.Printf("%03d %-40s %s\n", st.Version, st.Name, state)
			}
			return nil
		}),
	})

	return cmd
}
