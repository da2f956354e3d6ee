// s3presignd is a sidecar service that signs batches of S3 object keys
// over HTTP, amortizing the SigV4 setup work across each batch.
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

	"github.com/ethanadams/s3presign"
	"github.com/ethanadams/s3presign/internal/awsclient"
	"github.com/ethanadams/s3presign/internal/config"
	"github.com/ethanadams/s3presign/internal/logging"
	"github.com/ethanadams/s3presign/internal/metrics"
	"github.com/ethanadams/s3presign/internal/refresh"
	"github.com/ethanadams/s3presign/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	logging.Info("starting s3presignd", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket, "use_sdk", cfg.S3.UseSDK)

	collector := metrics.NewCollector(prometheus.DefaultRegisterer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signer, rebuild, err := buildSigner(ctx, cfg)
	if err != nil {
		logging.Error("failed to create signer", "error", err)
		os.Exit(1)
	}

	srv := server.New(signer, cfg.Presign.DefaultExpiresDuration(), collector)

	if rebuild != nil && cfg.Presign.RefreshSchedule != "" {
		refresher := refresh.New(rebuild, srv.Swap, collector)
		if err := refresher.Start(ctx, cfg.Presign.RefreshSchedule); err != nil {
			logging.Error("failed to start signer refresh", "error", err)
			os.Exit(1)
		}
		defer refresher.Stop()
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: srv.Handler(cfg.Metrics.Path, promhttp.Handler()),
	}

	go func() {
		logging.Info("http server listening", "addr", httpServer.Addr, "metrics_path", cfg.Metrics.Path)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("http server failed", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error("shutdown failed", "error", err)
	}
}

// buildSigner creates the initial signer. In SDK mode it also returns the
// rebuilder used for scheduled credential refresh.
func buildSigner(ctx context.Context, cfg *config.Config) (*s3presign.Signer, refresh.Rebuilder, error) {
	if cfg.S3.UseSDK {
		client, err := awsclient.New(ctx, awsclient.Options{
			Endpoint:       cfg.S3.Endpoint,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			SessionToken:   cfg.S3.SessionToken,
			Region:         cfg.S3.Region,
			ForcePathStyle: cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}

		rebuild := refresh.Rebuilder(func(ctx context.Context) (*s3presign.Signer, error) {
			return s3presign.FromS3Client(ctx, client, cfg.S3.Bucket)
		})

		signer, err := rebuild(ctx)
		if err != nil {
			return nil, nil, err
		}
		return signer, rebuild, nil
	}

	creds := s3presign.Credentials{
		AccessKey:    cfg.S3.AccessKey,
		SecretKey:    cfg.S3.SecretKey,
		SessionToken: cfg.S3.SessionToken,
	}
	signer, err := s3presign.New(cfg.S3.BucketEndpointURL(), creds, s3presign.WithRegion(cfg.S3.Region))
	if err != nil {
		return nil, nil, err
	}
	return signer, nil, nil
}
