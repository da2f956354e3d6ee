// Package refresh rebuilds the daemon's signer on a cron schedule.
//
// The signer itself never refreshes credentials; when they are temporary,
// the caller is expected to reconstruct it before they rotate out. For the
// daemon, this package is that caller.
package refresh

import (
	"context"
	"fmt"

	"github.com/ethanadams/s3presign"
	"github.com/ethanadams/s3presign/internal/logging"
	"github.com/ethanadams/s3presign/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Rebuilder constructs a fresh signer, typically via s3presign.FromS3Client.
type Rebuilder func(ctx context.Context) (*s3presign.Signer, error)

// Refresher periodically rebuilds a signer and hands it to apply.
type Refresher struct {
	cron    *cron.Cron
	rebuild Rebuilder
	apply   func(*s3presign.Signer)
	metrics *metrics.Collector
}

// New creates a Refresher. apply receives every successfully rebuilt signer.
func New(rebuild Rebuilder, apply func(*s3presign.Signer), mc *metrics.Collector) *Refresher {
	return &Refresher{
		cron:    cron.New(),
		rebuild: rebuild,
		apply:   apply,
		metrics: mc,
	}
}

// Start schedules refreshes with the given cron expression.
func (r *Refresher) Start(ctx context.Context, schedule string) error {
	_, err := r.cron.AddFunc(schedule, func() {
		r.RefreshNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	logging.Info("signer refresh scheduled", "schedule", schedule)
	return nil
}

// Stop halts the schedule. A refresh already running completes.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

// RefreshNow rebuilds the signer once. On failure the previous signer
// stays active; the next scheduled run tries again.
func (r *Refresher) RefreshNow(ctx context.Context) {
	signer, err := r.rebuild(ctx)
	if err != nil {
		r.metrics.RecordRefresh(false)
		logging.Error("signer refresh failed, keeping previous signer", "error", err)
		return
	}
	r.apply(signer)
	r.metrics.RecordRefresh(true)
	logging.Info("signer refreshed")
}
