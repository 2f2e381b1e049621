package domain

import (
	"time"
)

// StagingStatus represents the lifecycle state of an in-flight hand-off attempt
type StagingStatus string

const (
	StagingStatusPending    StagingStatus = "pending"
	StagingStatusGenerating StagingStatus = "generating"
	StagingStatusMinting    StagingStatus = "minting"
	StagingStatusPromoted   StagingStatus = "promoted"
	StagingStatusFailed     StagingStatus = "failed"
	StagingStatusAbandoned  StagingStatus = "abandoned"
)

// IsValidStagingStatus checks if a staging status is valid
func IsValidStagingStatus(status StagingStatus) bool {
	switch status {
	case StagingStatusPending, StagingStatusGenerating, StagingStatusMinting,
		StagingStatusPromoted, StagingStatusFailed, StagingStatusAbandoned:
		return true
	}
	return false
}

// SourceType identifies which pipeline produced a hand-off
type SourceType string

const (
	SourceTypeRandom SourceType = "random"
	SourceTypeManual SourceType = "manual"
	SourceTypeYoink  SourceType = "yoink"
)

// WorkflowStateName represents the social-post workflow state machine
type WorkflowStateName string

const (
	WorkflowNotCasted     WorkflowStateName = "NOT_CASTED"
	WorkflowCasted        WorkflowStateName = "CASTED"
	WorkflowChanceActive  WorkflowStateName = "CHANCE_ACTIVE"
	WorkflowManualSend    WorkflowStateName = "MANUAL_SEND"
	WorkflowChanceExpired WorkflowStateName = "CHANCE_EXPIRED"
)

// StagingEntry tracks one in-flight mint attempt, keyed by the token id
// about to be minted. At most one entry exists per token id at a time.
type StagingEntry struct {
	TokenID      uint64        `json:"token_id"`
	Status       StagingStatus `json:"status"`
	Orchestrator SourceType    `json:"orchestrator"`
	CreatedAt    time.Time     `json:"created_at"`
	LastError    string        `json:"last_error,omitempty"`
}

// Attribute is a single display attribute attached to a minted token
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Passenger identifies a social-graph account together with its wallet address
type Passenger struct {
	FID         uint64 `json:"fid"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PfpURL      string `json:"pfp_url"`
	Address     string `json:"address"`
}

// Winner is a selected recipient together with the size of the eligible pool
type Winner struct {
	Passenger
	TotalEligibleReactors int `json:"total_eligible_reactors"`
}

// PendingGeneration holds the completed result of artifact generation for a
// token id. The expensive generation work runs at most once per token id;
// concurrent callers observe the same result.
type PendingGeneration struct {
	TokenID      uint64      `json:"token_id"`
	ImageHash    string      `json:"image_hash"`
	MetadataHash string      `json:"metadata_hash"`
	TokenURI     string      `json:"token_uri"`
	Attributes   []Attribute `json:"attributes"`
	Passenger    Passenger   `json:"passenger"`
}

// TokenRecord is the permanent, promoted record of a hand-off.
// Write-once: once a token id has a record, a write with different content is
// a data integrity error; a write with identical content is a no-op.
type TokenRecord struct {
	TokenID               uint64      `json:"token_id"`
	ImageHash             string      `json:"image_hash"`
	MetadataHash          string      `json:"metadata_hash"`
	TokenURI              string      `json:"token_uri"`
	Holder                Passenger   `json:"holder"`
	TransactionHash       string      `json:"transaction_hash"`
	Timestamp             time.Time   `json:"timestamp"`
	BlockNumber           uint64      `json:"block_number,omitempty"`
	Attributes            []Attribute `json:"attributes,omitempty"`
	SourceType            SourceType  `json:"source_type"`
	SourceCastHash        string      `json:"source_cast_hash,omitempty"`
	TotalEligibleReactors int         `json:"total_eligible_reactors,omitempty"`
}

// CurrentHolderPointer is the singleton record of who holds the train right now
type CurrentHolderPointer struct {
	FID         uint64    `json:"fid"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	PfpURL      string    `json:"pfp_url"`
	Address     string    `json:"address"`
	Timestamp   time.Time `json:"timestamp"`
}

// TokenIDTracker is the singleton authoritative highest-minted-id record.
// CurrentTokenID is monotonically non-decreasing across all promotions.
type TokenIDTracker struct {
	CurrentTokenID uint64    `json:"currentTokenId"`
	Timestamp      time.Time `json:"timestamp"`
}

// WorkflowState is the social-post workflow consumed by the pipelines to
// locate the active cast and reset the cycle after completion or failure.
type WorkflowState struct {
	State                WorkflowStateName `json:"state"`
	WinnerSelectionStart *time.Time        `json:"winner_selection_start,omitempty"`
	CurrentCastHash      string            `json:"current_cast_hash,omitempty"`
}

// PromoteStatus is the outcome of an atomic promotion
type PromoteStatus string

const (
	// PromoteCreated means a new permanent record was written
	PromoteCreated PromoteStatus = "created"
	// PromoteExists means an identical record was already present (idempotent replay)
	PromoteExists PromoteStatus = "exists"
)

// SendOutcome is the tagged result every pipeline entry point returns.
// Status is one of 200 (success), 409 (lock contention) or 500 (failure);
// the core produces no other statuses.
type SendOutcome struct {
	Status                int     `json:"status"`
	Winner                *Winner `json:"winner,omitempty"`
	TokenID               uint64  `json:"token_id,omitempty"`
	TxHash                string  `json:"tx_hash,omitempty"`
	TokenURI              string  `json:"token_uri,omitempty"`
	TotalEligibleReactors int     `json:"total_eligible_reactors,omitempty"`
	Error                 string  `json:"error,omitempty"`
}

// TrainEventType represents the type of train event published to NATS
type TrainEventType string

const (
	EventTypeHolderChanged TrainEventType = "holder_changed"
)

// TrainEvent is the normalized event published after a successful promotion
type TrainEvent struct {
	ID         string               `json:"id"` // ULID, time-ordered
	EventType  TrainEventType       `json:"event_type"`
	TokenID    uint64               `json:"token_id"`
	Holder     CurrentHolderPointer `json:"holder"`
	SourceType SourceType           `json:"source_type"`
	TxHash     string               `json:"tx_hash"`
	Timestamp  time.Time            `json:"timestamp"`
}

// YoinkStatus reports whether a forced transfer is currently allowed
type YoinkStatus struct {
	CanYoink bool   `json:"can_yoink"`
	Reason   string `json:"reason,omitempty"`
}

// TxResult is the outcome of a chain mutation
type TxResult struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number,omitempty"`
}
