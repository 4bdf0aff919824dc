package subscription

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/supplier-directory/internal/audit"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/account"
	"github.com/BruksfildServices01/supplier-directory/internal/domain/plan"
	domain "github.com/BruksfildServices01/supplier-directory/internal/domain/subscription"
	"github.com/BruksfildServices01/supplier-directory/internal/logger"
)

// ExpirySweeper marca como past_due as assinaturas pagas vencidas e devolve
// o usuário ao plano gratuito.
type ExpirySweeper struct {
	repo       account.Repository
	invalidate Invalidator
	audit      audit.Recorder
	interval   time.Duration
	now        func() time.Time
}

func NewExpirySweeper(
	repo account.Repository,
	invalidate Invalidator,
	audit audit.Recorder,
	interval time.Duration,
) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{
		repo:       repo,
		invalidate: invalidate,
		audit:      audit,
		interval:   interval,
		now:        time.Now,
	}
}

// Run bloqueia até ctx ser cancelado.
func (s *ExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *ExpirySweeper) tick(ctx context.Context) {
	n, err := s.SweepOnce(ctx)
	if err != nil {
		logger.Log.Error("subscription sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Log.Info("subscriptions expired", zap.Int("count", n))
	}
}

func (s *ExpirySweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.now()

	subs, err := s.repo.ListExpiredSubscriptions(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range subs {
		sub := &subs[i]
		if !domain.MarkPastDue(sub, now) {
			continue
		}

		if err := s.repo.SaveSubscriptionAndPlan(ctx, sub, string(plan.Free)); err != nil {
			logger.Log.Warn("expire subscription failed",
				zap.Uint("user_id", sub.UserID),
				zap.Error(err),
			)
			continue
		}

		s.invalidate.InvalidateSubscription(ctx, sub.UserID)
		s.audit.Dispatch(audit.Event{
			UserID:   &sub.UserID,
			Action:   "subscription_expired",
			Entity:   "subscription",
			EntityID: &sub.ID,
			Metadata: map[string]any{"plan": sub.PlanType},
		})
		expired++
	}

	return expired, nil
}
