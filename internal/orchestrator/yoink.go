package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/choochoo-labs/conductor/internal/domain"
)

// Yoink force-moves the train to the caller's address. All three on-chain
// eligibility gates run before the lock: an ineligible caller never acquires
// it and never creates a staging entry.
func (o *orchestrator) Yoink(ctx context.Context, callerFID uint64, targetAddress string) *domain.SendOutcome {
	if callerFID == 0 || targetAddress == "" {
		return failure(errors.New("caller fid and target address are required"))
	}

	status, err := o.chain.IsYoinkable(ctx)
	if err != nil {
		return failure(fmt.Errorf("failed to check yoink availability: %w", err))
	}
	if !status.CanYoink {
		if status.Reason != "" {
			return failure(fmt.Errorf("%w: %s", domain.ErrNotYoinkable, status.Reason))
		}
		return failure(domain.ErrNotYoinkable)
	}

	ridden, err := o.chain.HasRiddenBefore(ctx, targetAddress)
	if err != nil {
		return failure(fmt.Errorf("failed to check ride history for %s: %w", targetAddress, err))
	}
	if ridden {
		return failure(fmt.Errorf("address %s: %w", targetAddress, domain.ErrAlreadyRidden))
	}

	deposited, err := o.chain.HasDepositedEnough(ctx, callerFID)
	if err != nil {
		return failure(fmt.Errorf("failed to check deposit for fid %d: %w", callerFID, err))
	}
	if !deposited {
		return failure(fmt.Errorf("fid %d: %w", callerFID, domain.ErrInsufficientDeposit))
	}

	caller, err := o.social.GetUser(ctx, callerFID)
	if err != nil {
		return failure(fmt.Errorf("failed to resolve caller %d: %w", callerFID, err))
	}
	// The train goes to the address the caller yoinks with, which may differ
	// from the profile's primary address.
	caller.Address = targetAddress

	prior, err := o.records.GetWorkflowState(ctx)
	if err != nil {
		return failure(fmt.Errorf("failed to read workflow state: %w", err))
	}

	var outcome *domain.SendOutcome
	err = o.locks.WithLock(ctx, domain.YoinkLockKey(callerFID, targetAddress), o.cfg.LockTTL, func(ctx context.Context) error {
		outcome = o.run(ctx, &attempt{
			source:        domain.SourceTypeYoink,
			winner:        &domain.Winner{Passenger: *caller},
			yoinkTarget:   targetAddress,
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
