package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/storefront/internal/config"
	"github.com/vango-dev/storefront/internal/pages"
	"github.com/vango-dev/storefront/internal/shop"
	"github.com/vango-dev/storefront/internal/telemetry"
	"github.com/vango-dev/storefront/pkg/assets"
	"github.com/vango-dev/storefront/pkg/middleware"
	"github.com/vango-dev/storefront/pkg/server"
)

const siteName = "Storefront"

func serveCmd() *cobra.Command {
	var (
		dir      string
		host     string
		port     int
		logLevel string
		dev      bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront server",
		Long: `Run the storefront server.

Configuration is read from storefront.json in --dir when present, then
from STOREFRONT_* environment variables. Flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(dir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if dev {
				cfg.Server.DevAssets = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory containing storefront.json")
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Host to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVar(&dev, "dev", false, "Serve client assets unfingerprinted and uncached")

	return cmd
}

func serve(cfg *config.Config) error {
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.Name, version)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(middleware.WithRegistry(registry))
	tracer := middleware.OpenTelemetry(middleware.WithTracerName(cfg.Name))

	money, err := shop.NewFormatter(cfg.Shop.Locale, cfg.Shop.Currency)
	if err != nil {
		return err
	}
	images, err := newImages(cfg.Images, cfg.URLExpiry())
	if err != nil {
		return err
	}
	env := &pages.Env{
		Backend: shop.NewMemory(shop.WithLatency(cfg.Latency())),
		Money:   money,
		Images:  images,
		Logger:  logger.With("component", "pages"),
	}

	srv, err := server.New(&server.ServerConfig{
		Address:           cfg.Address(),
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
		ShutdownTimeout:   cfg.ShutdownTimeout(),
		Metrics:           cfg.Server.Metrics,
		Title:             siteName,
		DevAssets:         cfg.Server.DevAssets,
		Session:           &server.SessionConfig{MaxRedirects: cfg.Router.MaxRedirects},
	}, pages.App(env, siteName),
		server.WithLogger(logger),
		server.WithMetrics(metrics, registry),
		server.WithTracer(tracer),
	)
	if err != nil {
		return err
	}

	if path := cfg.Path(); path != "" {
		info("config: %s", path)
	}
	success("Serving on http://%s", cfg.Address())
	return srv.Run(ctx)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newImages picks the product image source.
func newImages(cfg config.ImagesConfig, expiry time.Duration) (assets.ImageResolver, error) {
	switch cfg.Driver {
	case "", "static":
		return assets.NewStaticImages(cfg.Prefix), nil
	case "s3":
		client := assets.NewS3Client(assets.S3Config{
			Bucket:          cfg.Bucket,
			Prefix:          cfg.KeyPrefix,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			PathStyle:       cfg.PathStyle,
		})
		return assets.NewS3Images(s3.NewPresignClient(client), cfg.Bucket, cfg.KeyPrefix).WithURLExpiry(expiry), nil
	default:
		return nil, fmt.Errorf("unknown image driver %q", cfg.Driver)
	}
}
