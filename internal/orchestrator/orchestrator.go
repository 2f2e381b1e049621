// Package orchestrator sequences the three hand-off pipelines: random send,
// manual send and yoink. Each invocation runs as an independent task in a
// horizontally scaled, stateless process; the distributed lock is the only
// correctness boundary between concurrent identical operations, backed by
// the staging store's conditional create and the promotion script's
// write-once and monotonicity guarantees.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/artifacts"
	"github.com/choochoo-labs/conductor/internal/chain"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/generation"
	"github.com/choochoo-labs/conductor/internal/lock"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/messaging"
	"github.com/choochoo-labs/conductor/internal/promotion"
	"github.com/choochoo-labs/conductor/internal/providers/neynar"
	"github.com/choochoo-labs/conductor/internal/records"
	"github.com/choochoo-labs/conductor/internal/staging"
)

// Orchestrator defines the three pipeline entry points. Every call returns a
// tagged outcome: 200 with the winner and minted ticket, 409 when the
// operation is already in progress, 500 on any other failure. Failures leave
// the system retryable (lock released, workflow state rolled back) except
// for integrity violations, which require explicit operator action first.
//
//go:generate mockgen -source=orchestrator.go -destination=../mocks/orchestrator.go -package=mocks -mock_names=Orchestrator=MockOrchestrator
type Orchestrator interface {
	// RandomSend moves the train to a winner selected over the active
	// cast's eligible reactors
	RandomSend(ctx context.Context) *domain.SendOutcome

	// ManualSend moves the train from the current holder to a chosen fid
	ManualSend(ctx context.Context, fromFID, toFID uint64) *domain.SendOutcome

	// Yoink force-moves the train to the caller's address after the
	// inactivity window, subject to the on-chain eligibility gates
	Yoink(ctx context.Context, callerFID uint64, targetAddress string) *domain.SendOutcome
}

// Config holds orchestration tuning
type Config struct {
	// LockTTL must exceed the worst-case pipeline duration (generation +
	// pinning + mint + receipt wait) with margin: a lock expiring under a
	// live pipeline is the one window where a second identical operation
	// can start.
	LockTTL time.Duration
}

type orchestrator struct {
	cfg       Config
	locks     lock.Manager
	staging   staging.Store
	cache     generation.Cache
	promoter  promotion.Promoter
	records   records.Store
	chain     chain.Service
	social    neynar.Client
	artifacts artifacts.Service
	publisher messaging.Publisher
	clock     adapter.Clock
}

// New creates a new orchestrator
func New(
	cfg Config,
	locks lock.Manager,
	stagingStore staging.Store,
	cache generation.Cache,
	promoter promotion.Promoter,
	recordsStore records.Store,
	chainService chain.Service,
	social neynar.Client,
	artifactService artifacts.Service,
	publisher messaging.Publisher,
	clock adapter.Clock,
) Orchestrator {
	if cfg.LockTTL == 0 {
		cfg.LockTTL = 5 * time.Minute
	}

	return &orchestrator{
		cfg:       cfg,
		locks:     locks,
		staging:   stagingStore,
		cache:     cache,
		promoter:  promoter,
		records:   recordsStore,
		chain:     chainService,
		social:    social,
		artifacts: artifactService,
		publisher: publisher,
		clock:     clock,
	}
}

// attempt carries one pipeline run's context through the shared core
type attempt struct {
	source         domain.SourceType
	winner         *domain.Winner
	sourceCastHash string
	yoinkTarget    string // set only for yoink; switches the chain mutation
	priorWorkflow  *domain.WorkflowState
}

// run executes the convergent pipeline tail: ticket id read, staging,
// artifact generation, chain mutation, consistency validation, atomic
// promotion, then best-effort side effects. Must be called while holding
// the pipeline's lock.
func (o *orchestrator) run(ctx context.Context, a *attempt) *domain.SendOutcome {
	expected, err := o.chain.NextTicketID(ctx)
	if err != nil {
		o.rollbackWorkflow(ctx, a)
		return failure(fmt.Errorf("failed to read next ticket id: %w", err))
	}

	log := logger.FromContext(ctx).With(
		zap.Uint64("token_id", expected),
		zap.String("orchestrator", string(a.source)),
	)

	// Second dedup signal, independent of the lock: the staging key is
	// derived from the token id, which is only known after the chain read.
	if err := o.staging.Create(ctx, expected, a.source); err != nil {
		o.rollbackWorkflow(ctx, a)
		if errors.Is(err, domain.ErrStagingExists) {
			log.Warn("staging entry already present, treating as in-progress")
			return &domain.SendOutcome{Status: http.StatusConflict, Error: domain.ErrLockContention.Error()}
		}
		return failure(err)
	}

	o.updateStaging(ctx, expected, domain.StagingStatusGenerating, "")

	generated, err := o.cache.GetOrGenerate(ctx, expected, func(ctx context.Context) (*domain.PendingGeneration, error) {
		return o.artifacts.Generate(ctx, expected, a.winner.Passenger)
	})
	if err != nil {
		return o.abort(ctx, a, expected, fmt.Errorf("artifact generation failed: %w", err))
	}

	o.updateStaging(ctx, expected, domain.StagingStatusMinting, "")

	var tx *domain.TxResult
	if a.source == domain.SourceTypeYoink {
		tx, err = o.chain.YoinkTransfer(ctx, a.yoinkTarget)
	} else {
		tx, err = o.chain.Mint(ctx, a.winner.Address, generated.TokenURI)
	}
	if err != nil {
		return o.abort(ctx, a, expected, fmt.Errorf("chain mutation failed: %w", err))
	}

	actual, err := o.chain.ResolveMintedID(ctx, tx.TxHash)
	if err != nil {
		return o.abort(ctx, a, expected, fmt.Errorf("failed to resolve minted id: %w", err))
	}

	if err := promotion.ValidateTokenID(expected, actual); err != nil {
		// A race with an out-of-band mint. Never promote under the wrong id.
		log.Error("minted id diverged from expectation, aborting before promotion",
			zap.Uint64("actual_token_id", actual),
			zap.String("tx_hash", tx.TxHash),
		)
		return o.abort(ctx, a, expected, err)
	}

	now := o.clock.Now().UTC()
	record := &domain.TokenRecord{
		TokenID:               expected,
		ImageHash:             generated.ImageHash,
		MetadataHash:          generated.MetadataHash,
		TokenURI:              generated.TokenURI,
		Holder:                a.winner.Passenger,
		TransactionHash:       tx.TxHash,
		Timestamp:             now,
		BlockNumber:           tx.BlockNumber,
		Attributes:            generated.Attributes,
		SourceType:            a.source,
		SourceCastHash:        a.sourceCastHash,
		TotalEligibleReactors: a.winner.TotalEligibleReactors,
	}
	holder := &domain.CurrentHolderPointer{
		FID:         a.winner.FID,
		Username:    a.winner.Username,
		DisplayName: a.winner.DisplayName,
		PfpURL:      a.winner.PfpURL,
		Address:     a.winner.Address,
		Timestamp:   now,
	}

	promoteStatus, err := o.promoter.Promote(ctx, record, holder)
	if err != nil {
		return o.abort(ctx, a, expected, fmt.Errorf("promotion failed: %w", err))
	}

	log.Info("hand-off promoted",
		zap.String("tx_hash", tx.TxHash),
		zap.String("promote_status", string(promoteStatus)),
		zap.Uint64("winner_fid", a.winner.FID),
	)

	o.emitSideEffects(ctx, a, record, holder)

	return &domain.SendOutcome{
		Status:                http.StatusOK,
		Winner:                a.winner,
		TokenID:               expected,
		TxHash:                tx.TxHash,
		TokenURI:              generated.TokenURI,
		TotalEligibleReactors: a.winner.TotalEligibleReactors,
	}
}

// abort marks the staging entry failed, restores the workflow state and
// returns a structured failure. Integrity violations are surfaced verbatim
// so the caller (and the operator) can tell them apart from transient
// upstream failures.
func (o *orchestrator) abort(ctx context.Context, a *attempt, tokenID uint64, err error) *domain.SendOutcome {
	logger.ErrorCtx(ctx, err,
		zap.Uint64("token_id", tokenID),
		zap.String("orchestrator", string(a.source)),
	)

	o.updateStaging(ctx, tokenID, domain.StagingStatusFailed, err.Error())
	o.rollbackWorkflow(ctx, a)

	return failure(err)
}

// updateStaging is best-effort: a staging bookkeeping failure must not mask
// the pipeline's own outcome
func (o *orchestrator) updateStaging(ctx context.Context, tokenID uint64, status domain.StagingStatus, lastErr string) {
	if err := o.staging.UpdateStatus(ctx, tokenID, status, lastErr); err != nil {
		logger.WarnCtx(ctx, "failed to update staging status",
			zap.Error(err),
			zap.Uint64("token_id", tokenID),
			zap.String("status", string(status)),
		)
	}
}

// rollbackWorkflow restores the workflow state captured before the attempt
// so the operation can be retried
func (o *orchestrator) rollbackWorkflow(ctx context.Context, a *attempt) {
	if a.priorWorkflow == nil {
		return
	}
	if err := o.records.SetWorkflowState(ctx, a.priorWorkflow); err != nil {
		logger.WarnCtx(ctx, "failed to roll back workflow state", zap.Error(err))
	}
}

// emitSideEffects fires the post-promotion notifications. Each is allowed
// to fail: the hand-off is already permanent.
func (o *orchestrator) emitSideEffects(ctx context.Context, a *attempt, record *domain.TokenRecord, holder *domain.CurrentHolderPointer) {
	event := &domain.TrainEvent{
		ID:         ulid.MustNewDefault(o.clock.Now()).String(),
		EventType:  domain.EventTypeHolderChanged,
		TokenID:    record.TokenID,
		Holder:     *holder,
		SourceType: a.source,
		TxHash:     record.TransactionHash,
		Timestamp:  record.Timestamp,
	}
	if err := o.publisher.PublishHolderChanged(ctx, event); err != nil {
		logger.WarnCtx(ctx, "failed to publish holder-changed event", zap.Error(err), zap.Uint64("token_id", record.TokenID))
	}

	if err := o.social.PostCast(ctx, celebrationText(a, record)); err != nil {
		logger.WarnCtx(ctx, "failed to post celebratory cast", zap.Error(err), zap.Uint64("token_id", record.TokenID))
	}

	if err := o.records.SetWorkflowState(ctx, &domain.WorkflowState{State: domain.WorkflowNotCasted}); err != nil {
		logger.WarnCtx(ctx, "failed to reset workflow state", zap.Error(err))
	}
}

// celebrationText builds the social announcement for a completed hand-off
func celebrationText(a *attempt, record *domain.TokenRecord) string {
	switch a.source {
	case domain.SourceTypeYoink:
		return fmt.Sprintf("🚂 @%s yoinked the train! Ticket #%d punched.", a.winner.Username, record.TokenID)
	case domain.SourceTypeManual:
		return fmt.Sprintf("🚂 The train rolls on to @%s! Ticket #%d punched.", a.winner.Username, record.TokenID)
	default:
		return fmt.Sprintf("🚂 All aboard! @%s won the ride out of %d eligible passengers. Ticket #%d punched.",
			a.winner.Username, a.winner.TotalEligibleReactors, record.TokenID)
	}
}

// failure wraps an error into the 500 outcome shape
func failure(err error) *domain.SendOutcome {
	return &domain.SendOutcome{
		Status: http.StatusInternalServerError,
		Error:  err.Error(),
	}
}

// contention is the 409 outcome returned when the lock is already held
func contention() *domain.SendOutcome {
	return &domain.SendOutcome{
		Status: http.StatusConflict,
		Error:  domain.ErrLockContention.Error(),
	}
}
