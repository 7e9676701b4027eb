package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"lifecycle-cms/errs"
	"lifecycle-cms/services"
)

// RetentionScheduler permanently erases trashed articles whose retention
// window has elapsed. Each purge removes the article together with its whole
// version history.
type RetentionScheduler struct {
	svc       services.ArticleService
	log       *zap.Logger
	opTimeout time.Duration
	sweeper
}

func NewRetentionScheduler(svc services.ArticleService, interval, opTimeout time.Duration, log *zap.Logger) *RetentionScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	r := &RetentionScheduler{
		svc:       svc,
		log:       log,
		opTimeout: opTimeout,
	}
	r.sweeper = sweeper{
		name:     "retention-scheduler",
		interval: interval,
		log:      log,
		sweep:    r.Sweep,
	}
	return r
}

// Sweep purges every trashed article past the retention window. Per-article
// failures are logged and retried on the next sweep.
func (r *RetentionScheduler) Sweep(ctx context.Context) {
	due, err := r.svc.DueForPurge(ctx, sweepBatchSize)
	if err != nil {
		r.log.Warn("retention sweep listing failed", zap.Error(err))
		return
	}

	for _, article := range due {
		opCtx, cancel := context.WithTimeout(ctx, r.opTimeout)
		err := retryTransient(opCtx, 3, 200*time.Millisecond, func() error {
			return r.svc.PurgeExpired(opCtx, article.ID)
		})
		cancel()

		switch {
		case err == nil:
			r.log.Info("article purged", zap.String("article_id", article.ID.String()))
		case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrInvalidTransition):
			// Already purged or restored since the listing; nothing to do.
			r.log.Debug("purge skipped",
				zap.String("article_id", article.ID.String()),
				zap.Error(err))
		default:
			r.log.Warn("purge failed",
				zap.String("article_id", article.ID.String()),
				zap.Error(err))
		}
	}
}
