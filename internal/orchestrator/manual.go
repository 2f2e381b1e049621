package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
)

// ManualSend moves the train from the current holder to an explicitly chosen
// recipient. Recipient resolution happens before the lock so a recipient with
// no wallet address is rejected without touching any shared state.
func (o *orchestrator) ManualSend(ctx context.Context, fromFID, toFID uint64) *domain.SendOutcome {
	if fromFID == 0 || toFID == 0 {
		return failure(errors.New("both sender and recipient fids are required"))
	}
	if fromFID == toFID {
		return failure(errors.New("cannot send the train to its current holder"))
	}

	recipient, err := o.social.GetUser(ctx, toFID)
	if err != nil {
		return failure(fmt.Errorf("failed to resolve recipient %d: %w", toFID, err))
	}
	if recipient.Address == "" {
		return failure(fmt.Errorf("recipient %d: %w", toFID, domain.ErrAddressNotFound))
	}

	prior, err := o.records.GetWorkflowState(ctx)
	if err != nil {
		return failure(fmt.Errorf("failed to read workflow state: %w", err))
	}

	o.backfillHolderAddress(ctx)

	var outcome *domain.SendOutcome
	err = o.locks.WithLock(ctx, domain.ManualSendLockKey(fromFID, toFID), o.cfg.LockTTL, func(ctx context.Context) error {
		// Mark the cycle as a manual hand-off while the pipeline runs; a
		// failed attempt rolls this back to the captured prior state.
		if err := o.records.SetWorkflowState(ctx, &domain.WorkflowState{
			State:           domain.WorkflowManualSend,
			CurrentCastHash: prior.CurrentCastHash,
		}); err != nil {
			outcome = failure(fmt.Errorf("failed to mark manual send in workflow state: %w", err))
			return nil
		}

		outcome = o.run(ctx, &attempt{
			source:        domain.SourceTypeManual,
			winner:        &domain.Winner{Passenger: *recipient},
			priorWorkflow: prior,
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

// backfillHolderAddress resolves and persists the departing holder's wallet
// address when the pointer was written without one, so the promoted token
// record chain stays address-complete. Best-effort.
func (o *orchestrator) backfillHolderAddress(ctx context.Context) {
	holder, err := o.records.GetCurrentHolder(ctx)
	if err != nil || holder == nil || holder.Address != "" {
		return
	}

	address, err := o.social.ResolveWalletAddress(ctx, holder.FID)
	if err != nil {
		logger.WarnCtx(ctx, "failed to backfill departing holder address",
			zap.Error(err),
			zap.Uint64("holder_fid", holder.FID),
		)
		return
	}

	holder.Address = address
	if err := o.records.SetCurrentHolder(ctx, holder); err != nil {
		logger.WarnCtx(ctx, "failed to persist backfilled holder address",
			zap.Error(err),
			zap.Uint64("holder_fid", holder.FID),
		)
	}
}
