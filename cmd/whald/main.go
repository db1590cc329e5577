// Command whald runs the Wi-Fi HAL control daemon: it powers the radio up
// through the vendor driver and serves the HTTP control API until signalled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/wifi-control/whal/internal/api"
	"github.com/wifi-control/whal/internal/audit"
	"github.com/wifi-control/whal/internal/config"
	"github.com/wifi-control/whal/internal/simplelink/simulator"
	"github.com/wifi-control/whal/internal/wifi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "whald:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	auditLog := audit.NewLogger(audit.Options{
		Path:       cfg.Audit.Path,
		MaxSizeMB:  cfg.Audit.MaxSizeMB,
		MaxBackups: cfg.Audit.MaxBackups,
		MaxAgeDays: cfg.Audit.MaxAgeDays,
	})
	defer auditLog.Close()

	// The simulated driver stands in for real network-processor hardware.
	drv := simulator.New()
	hal := wifi.New(drv, cfg.WifiConfig(), log.With().Str("component", "wifi").Logger())
	hal.SetActionLogger(auditLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := hal.On(ctx); err != nil {
		return fmt.Errorf("radio power on: %w", err)
	}
	defer func() {
		if err := hal.Off(context.Background()); err != nil {
			log.Warn().Err(err).Msg("radio power off failed")
		}
	}()

	router := api.NewRouter(hal, log.With().Str("component", "api").Logger(), api.Options{
		AuthSecret:     cfg.Auth.Secret,
		AllowedOrigins: cfg.API.AllowedOrigins,
		MaxScanResults: cfg.Radio.MaxScanResults,
	})

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("control API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout.Std())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
	}

	log.Info().Msg("whald stopped")
	return nil
}
