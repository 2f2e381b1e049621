package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
)

// RandomSend selects a winner among the active cast's eligible reactors and
// moves the train to them. The lock is scoped to the cast hash so repeated
// triggers for the same cast collapse to a single pipeline run.
func (o *orchestrator) RandomSend(ctx context.Context) *domain.SendOutcome {
	prior, err := o.records.GetWorkflowState(ctx)
	if err != nil {
		return failure(fmt.Errorf("failed to read workflow state: %w", err))
	}
	if prior.CurrentCastHash == "" {
		return failure(fmt.Errorf("no active cast to select a winner from (workflow state %s)", prior.State))
	}
	castHash := prior.CurrentCastHash

	var outcome *domain.SendOutcome
	err = o.locks.WithLock(ctx, domain.RandomSendLockKey(castHash), o.cfg.LockTTL, func(ctx context.Context) error {
		winner, err := o.social.SelectWinner(ctx, castHash)
		if err != nil {
			outcome = failure(fmt.Errorf("winner selection failed: %w", err))
			return nil
		}

		logger.InfoCtx(ctx, "winner selected",
			zap.Uint64("winner_fid", winner.FID),
			zap.Int("total_eligible_reactors", winner.TotalEligibleReactors),
			zap.String("cast_hash", castHash),
		)

		outcome = o.run(ctx, &attempt{
			source:         domain.SourceTypeRandom,
			winner:         winner,
			sourceCastHash: castHash,
			priorWorkflow:  prior,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrLockContention) {
			return contention()
		}
		return failure(err)
	}

	return outcome
}
