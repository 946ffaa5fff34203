package sched

import (
	"context"
	"time"

	"media-analysis-api/internal/domain/ports/repository"
	"media-analysis-api/internal/infra/metrics"
	"media-analysis-api/internal/usecase"

	"github.com/rs/zerolog"
)

// StaleJobReaper periodically sweeps processing jobs whose worker went
// silent. Default outcome is a requeue to pending; failMode marks them
// failed instead for deployments where retries are not safe.
type StaleJobReaper struct {
	interval   time.Duration
	staleAfter time.Duration
	failMode   bool
	jobs       repository.JobRepository
	statsCache usecase.StatisticsCache
	log        *zerolog.Logger
}

func NewStaleJobReaper(interval, staleAfter time.Duration, failMode bool, jobs repository.JobRepository, statsCache usecase.StatisticsCache, logger *zerolog.Logger) *StaleJobReaper {
	reaperLog := logger.With().Str("component", "StaleJobReaper").Logger()
	return &StaleJobReaper{
		interval:   interval,
		staleAfter: staleAfter,
		failMode:   failMode,
		jobs:       jobs,
		statsCache: statsCache,
		log:        &reaperLog,
	}
}

func (w *StaleJobReaper) Run(ctx context.Context) error {
	w.log.Info().
		Dur("interval", w.interval).
		Dur("stale_after", w.staleAfter).
		Bool("fail_mode", w.failMode).
		Msg("Starting stale job reaper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping stale job reaper")
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *StaleJobReaper) sweep(ctx context.Context) {
	var (
		n       int64
		err     error
		outcome string
	)
	if w.failMode {
		outcome = "failed"
		n, err = w.jobs.FailStale(ctx, w.staleAfter, "Processing timed out")
	} else {
		outcome = "requeued"
		n, err = w.jobs.RequeueStale(ctx, w.staleAfter)
	}
	if err != nil {
		w.log.Error().Err(err).Msg("reaper sweep error")
		return
	}
	if n > 0 {
		metrics.AddStaleJobsReaped(outcome, n)
		if w.statsCache != nil {
			if cerr := w.statsCache.Invalidate(ctx); cerr != nil {
				w.log.Warn().Err(cerr).Msg("failed to invalidate stats cache after sweep")
			}
		}
		w.log.Info().Int64("count", n).Str("outcome", outcome).Msg("stale jobs reaped")
	}
}
