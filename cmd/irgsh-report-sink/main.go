package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/blankon/irgsh-report/internal/config"
	"github.com/blankon/irgsh-report/internal/notification"
	"github.com/blankon/irgsh-report/internal/sink"
	"github.com/blankon/irgsh-report/internal/storage"
)

var (
	app     *cli.App
	version string
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	app = cli.NewApp()
	app.Name = "irgsh-report-sink"
	app.Usage = "Receive and store irgsh bug reports"
	app.Author = "BlankOn Developer"
	app.Email = "blankon-dev@googlegroups.com"
	app.Version = version
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}

	app.Action = func(c *cli.Context) error {
		zapConfig := zap.NewProductionConfig()
		if c.Bool("verbose") {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		reportConfig, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger.Info("configuration loaded", zap.String("path", reportConfig.Path))
		if err := reportConfig.Sink.Validate(); err != nil {
			return fmt.Errorf("invalid sink configuration: %w", err)
		}

		return serve(reportConfig.Sink, logger)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(cfg config.SinkConfig, logger *zap.Logger) error {
	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var deduper sink.Deduper
	if cfg.Redis != "" {
		window := time.Duration(cfg.DedupeWindowSeconds) * time.Second
		redisDeduper, err := sink.NewRedisDeduper(ctx, cfg.Redis, window)
		if err != nil {
			logger.Warn("Continuing without duplicate detection", zap.Error(err))
		} else {
			defer redisDeduper.Close()
			deduper = redisDeduper
		}
	}

	handler := sink.NewHandler(
		storage.NewReceivedReportStore(db, cfg.MaxReports, logger),
		deduper,
		notification.NewNotifier(nil, cfg.WebhookURL, logger),
		logger,
		version,
	)
	// Runs before the deferred db.Close.
	defer handler.Wait()

	server := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("irgsh-report-sink listening", zap.String("address", cfg.Address))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down, waiting for pending notifications")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
