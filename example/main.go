package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kroksys/restbatch"
	"github.com/kroksys/restbatch/internal/config"
	"github.com/kroksys/restbatch/internal/logger"
	"github.com/kroksys/restbatch/internal/metrics"
	"github.com/kroksys/restbatch/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "restbatch-example",
		Usage: "serve the greetings and tokens example resources",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "example/config.yaml",
				Usage:   "path to the YAML configuration",
			},
			&cli.StringFlag{
				Name:    "env",
				Value:   "local",
				EnvVars: []string{"ENV"},
				Usage:   "environment: local, dev or prod",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(c.String("env"), cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	maxVersion, _ := cfg.MaxProtocolVersion()
	errorFormat, _ := cfg.ErrorFormat()

	collectors := metrics.New()
	promRegistry := prometheus.NewRegistry()
	if err := collectors.Register(promRegistry); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	server := restbatch.NewServer(
		restbatch.WithLogger(log),
		restbatch.WithMetrics(collectors),
		restbatch.WithMaxProtocolVersion(maxVersion),
		restbatch.WithErrorFormat(errorFormat),
		restbatch.WithBaseURI(cfg.HTTP.BaseURI),
		restbatch.WithPingPeriod(time.Duration(cfg.WebSocket.PingPeriodSec)*time.Second),
	)
	if err := server.Register("greetings", NewGreetings(), registry.WithAltKey("slug", greetingSlug)); err != nil {
		return err
	}
	if err := server.Register("tokens", NewTokens()); err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET(cfg.WebSocket.Path, server.WebsocketHandlerGin)
	server.Routes(r)
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("ws", cfg.WebSocket.Path),
			zap.String("max_protocol_version", maxVersion.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
