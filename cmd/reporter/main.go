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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/urlreporter/internal/config"
	"github.com/hamed0406/urlreporter/internal/httpapi"
	apimw "github.com/hamed0406/urlreporter/internal/httpapi/middleware"
	"github.com/hamed0406/urlreporter/internal/logging"
	"github.com/hamed0406/urlreporter/internal/notify"
	"github.com/hamed0406/urlreporter/internal/probe"
	"github.com/hamed0406/urlreporter/internal/scheduler"
)

func main() {
	var configPath string
	root := &cobra.Command{
		Use:           "reporter",
		Short:         "Check configured URLs and report their status to a webhook",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, configPath)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_FILE"), "path to a YAML config file (env: CONFIG_FILE)")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.NewLogger(logging.Options{Dir: cfg.Log.Dir, Level: cfg.Log.Level, Console: cfg.Log.Console})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	digest, err := cfg.DigestSchedule()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("load digest timezone: %w", err)
	}

	checker := probe.NewURLChecker(logger, probe.NewHTTPChecker(probe.HTTPOptions{
		Timeout:         cfg.HTTP.Timeout,
		UserAgent:       cfg.HTTP.UserAgent,
		FollowRedirects: cfg.HTTP.FollowRedirects,
		VerifyTLS:       cfg.HTTP.VerifyTLS,
	}), cfg.HTTP.Timeout)
	notifier := notify.NewWebhooks(cfg.WebhookURLs, cfg.Webhook.Timeout)
	reporter := scheduler.NewReporter(logger, checker, notifier, cfg.URLs, cfg.Alert.SendWhenHealthy)
	sched := scheduler.New(logger, reporter, scheduler.Options{
		AlertInterval: cfg.Alert.Interval,
		Digest:        digest,
		Location:      loc,
	})

	logger.Info("reporter_start",
		zap.Int("urls", len(cfg.URLs)),
		zap.Int("webhooks", len(cfg.WebhookURLs)),
		zap.Duration("alert_interval", cfg.Alert.Interval),
		zap.String("digest_schedule", cfg.Digest.Schedule),
		zap.String("digest_timezone", loc.String()),
	)

	var srv *http.Server
	srvErr := make(chan error, 1)
	if cfg.API.Addr != "" {
		api := httpapi.NewServer(logger, checker, reporter, cfg.URLs)
		srv = &http.Server{
			Addr: cfg.API.Addr,
			Handler: api.Router(httpapi.RouterConfig{
				Keys:           apimw.Keys{Public: cfg.API.PublicKeys, Admin: cfg.API.AdminKeys},
				AllowedOrigins: cfg.API.AllowedOrigins,
				PublicRPM:      cfg.API.PublicRPM,
				PublicBurst:    cfg.API.PublicBurst,
				AdminRPM:       cfg.API.AdminRPM,
				AdminBurst:     cfg.API.AdminBurst,
				TrustProxy:     cfg.API.TrustProxy,
			}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("api_listen", zap.String("addr", cfg.API.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				srvErr <- err
			}
		}()
	} else {
		logger.Info("api_disabled")
	}

	schedCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	schedDone := make(chan error, 1)
	go func() { schedDone <- sched.Run(schedCtx) }()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown_signal")
	case err := <-srvErr:
		logger.Error("api_failed", zap.Error(err))
		runErr = fmt.Errorf("api server: %w", err)
	}

	cancel()
	<-schedDone

	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api_shutdown", zap.Error(err))
		}
	}
	logger.Info("reporter_stopped")
	return runErr
}
