package domain

import "errors"

var (
	// ErrLockContention is returned when a named lock is already held.
	// Expected and non-exceptional: the caller should retry later.
	ErrLockContention = errors.New("operation already in progress")

	// ErrStagingExists is returned when a staging entry already exists for a token id
	ErrStagingExists = errors.New("staging entry already exists")

	// ErrStagingNotFound is returned when no staging entry exists for a token id
	ErrStagingNotFound = errors.New("staging entry not found")

	// ErrTokenIDMismatch is returned when the minted token id differs from the
	// id the pipeline expected to mint. Requires operator attention.
	ErrTokenIDMismatch = errors.New("tokenId mismatch")

	// ErrTokenDataMismatch is returned when a promotion carries a payload that
	// differs from an already-promoted record for the same token id
	ErrTokenDataMismatch = errors.New("token data mismatch")

	// ErrInvalidTokenDataJSON is returned when a stored token record cannot be decoded
	ErrInvalidTokenDataJSON = errors.New("invalid token data json")

	// ErrInvalidTrackerJSON is returned when the stored token id tracker cannot be decoded
	ErrInvalidTrackerJSON = errors.New("invalid tracker json")

	// ErrInvalidWorkflowStateJSON is returned when the stored workflow state cannot be decoded
	ErrInvalidWorkflowStateJSON = errors.New("invalid workflow state json")

	// ErrAddressNotFound is returned when the identity service has no verified
	// wallet address for an fid
	ErrAddressNotFound = errors.New("wallet address not found")

	// ErrNoEligibleReactors is returned when winner selection finds nobody eligible
	ErrNoEligibleReactors = errors.New("no eligible reactors")

	// ErrNotYoinkable is returned when the cooldown timer has not expired
	ErrNotYoinkable = errors.New("train is not yoinkable yet")

	// ErrAlreadyRidden is returned when the yoink target has already held the train
	ErrAlreadyRidden = errors.New("target has already ridden the train")

	// ErrInsufficientDeposit is returned when the yoink caller has not deposited enough
	ErrInsufficientDeposit = errors.New("insufficient deposit")

	// ErrTokenNotFound is returned when a token record is not found
	ErrTokenNotFound = errors.New("token not found")
)
