package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"lifecycle-cms/errs"
	"lifecycle-cms/services"
)

const sweepBatchSize = 100

// ScheduledPublisher promotes articles whose scheduled publish time has
// arrived. The sweep interval bounds publish lateness: with a one-minute
// interval an article goes live at most one minute after its scheduled time.
type ScheduledPublisher struct {
	svc       services.ArticleService
	log       *zap.Logger
	opTimeout time.Duration
	sweeper
}

func NewScheduledPublisher(svc services.ArticleService, interval, opTimeout time.Duration, log *zap.Logger) *ScheduledPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	p := &ScheduledPublisher{
		svc:       svc,
		log:       log,
		opTimeout: opTimeout,
	}
	p.sweeper = sweeper{
		name:     "scheduled-publisher",
		interval: interval,
		log:      log,
		sweep:    p.Sweep,
	}
	return p
}

// Sweep publishes every due scheduled article. Failures are isolated per
// article: one failed publish never aborts the rest of the sweep.
func (p *ScheduledPublisher) Sweep(ctx context.Context) {
	due, err := p.svc.DueForPublish(ctx, sweepBatchSize)
	if err != nil {
		p.log.Warn("scheduled publish sweep listing failed", zap.Error(err))
		return
	}

	for _, article := range due {
		opCtx, cancel := context.WithTimeout(ctx, p.opTimeout)
		err := retryTransient(opCtx, 3, 200*time.Millisecond, func() error {
			_, err := p.svc.AutoPublish(opCtx, article.ID)
			return err
		})
		cancel()

		switch {
		case err == nil:
			p.log.Info("article auto-published", zap.String("article_id", article.ID.String()))
		case errors.Is(err, errs.ErrStaleState), errors.Is(err, errs.ErrInvalidTransition), errors.Is(err, errs.ErrNotFound):
			// A user-initiated transition won the race; nothing to do.
			p.log.Debug("auto-publish skipped",
				zap.String("article_id", article.ID.String()),
				zap.Error(err))
		default:
			// Retried on the next sweep, not immediately, to avoid tight-loop
			// contention with a persistently failing record.
			p.log.Warn("auto-publish failed",
				zap.String("article_id", article.ID.String()),
				zap.Error(err))
		}
	}
}
