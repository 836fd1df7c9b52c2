package main

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-tg-updates/internal/config"
	httpapi "github.com/tbourn/go-tg-updates/internal/http"
	"github.com/tbourn/go-tg-updates/internal/observability"
	"github.com/tbourn/go-tg-updates/internal/publish"
	"github.com/tbourn/go-tg-updates/internal/repo"
	"github.com/tbourn/go-tg-updates/internal/services"
	"github.com/tbourn/go-tg-updates/internal/sysutil"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server",
		Long: "Loads configuration from the environment (and an optional .env file),\n" +
			"then serves the webhook, registry and stats endpoints until SIGINT or SIGTERM.",
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("env-file", ".env", "dotenv file loaded before reading the environment; missing files are ignored")
	cmd.Flags().String("port", "", "overrides PORT")
	cmd.Flags().String("db", "", "overrides DB_PATH")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	port, _ := cmd.Flags().GetString("port")
	dbPath, _ := cmd.Flags().GetString("db")
	cfg.Port = sysutil.FirstNonEmpty(port, cfg.Port)
	cfg.DBPath = sysutil.FirstNonEmpty(dbPath, cfg.DBPath)

	logger := sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repo.AutoMigrate(db); err != nil {
		return err
	}

	var pub publish.Publisher
	if cfg.NATS.Enabled() {
		np, err := publish.NewNatsPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix, cfg.NATS.PublishTimeout)
		if err != nil {
			return err
		}
		defer func() {
			if err := np.Close(); err != nil {
				logger.Warn().Err(err).Msg("nats drain")
			}
		}()
		pub = np
		logger.Info().Str("url", cfg.NATS.URL).Str("prefix", cfg.NATS.SubjectPrefix).Msg("dispatching to nats")
	} else {
		logger.Info().Msg("NATS_URL not set; accepted updates are counted but not dispatched")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, pub, cfg)

	srv := newHTTPServer(ctx, cfg, r)

	purgeDone := make(chan struct{})
	go func() {
		defer close(purgeDone)
		runPurger(ctx, services.NewIngestService(db, nil), cfg.ReceiptPurgeInterval)
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		<-purgeDone
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(sctx)
	<-purgeDone
	return err
}

// newHTTPServer builds the listener for h. Request contexts inherit ctx's
// values but not its cancellation: a signal stops accepting connections while
// in-flight updates finish publishing and writing their receipts.
func newHTTPServer(ctx context.Context, cfg config.Config, h http.Handler) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
}

// loadEnvFile applies path to the process environment without overriding
// variables that are already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

type receiptPurger interface {
	PurgeReceipts(ctx context.Context, now time.Time) (int64, error)
}

// runPurger deletes expired receipts every interval until ctx is done.
func runPurger(ctx context.Context, p receiptPurger, every time.Duration) {
	log := zerolog.Ctx(ctx)
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := p.PurgeReceipts(ctx, now.UTC())
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Msg("purge receipts")
				}
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("expired receipts deleted")
			}
		}
	}
}
