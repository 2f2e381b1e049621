package domain

import (
	"fmt"
	"strings"
)

// Logical key layout in the shared store. Every cross-process coordination
// point lives under the "train:" prefix.
const (
	// KeyCurrentHolder is the singleton current-holder pointer
	KeyCurrentHolder = "train:current-holder"

	// KeyTokenTracker is the singleton highest-minted-id tracker
	KeyTokenTracker = "train:token-tracker"

	// KeyWorkflowState is the singleton social-post workflow state
	KeyWorkflowState = "train:workflow-state"

	// StagingKeyPrefix prefixes per-token staging entries
	StagingKeyPrefix = "train:staging:"

	// TokenKeyPrefix prefixes permanent token records
	TokenKeyPrefix = "train:token:"

	// GenerationKeyPrefix prefixes pending-generation cache entries
	GenerationKeyPrefix = "train:generation:"

	// LockKeyPrefix prefixes named locks
	LockKeyPrefix = "train:lock:"
)

// StagingKey returns the staging entry key for a token id
func StagingKey(tokenID uint64) string {
	return fmt.Sprintf("%s%d", StagingKeyPrefix, tokenID)
}

// TokenKey returns the permanent record key for a token id
func TokenKey(tokenID uint64) string {
	return fmt.Sprintf("%s%d", TokenKeyPrefix, tokenID)
}

// GenerationKey returns the pending-generation cache key for a token id
func GenerationKey(tokenID uint64) string {
	return fmt.Sprintf("%s%d", GenerationKeyPrefix, tokenID)
}

// RandomSendLockKey derives the random-send lock name from the active cast hash
func RandomSendLockKey(castHash string) string {
	return fmt.Sprintf("%srandom:%s", LockKeyPrefix, strings.ToLower(castHash))
}

// ManualSendLockKey derives the manual-send lock name from the ordered fid pair
func ManualSendLockKey(fromFID, toFID uint64) string {
	return fmt.Sprintf("%smanual:%d:%d", LockKeyPrefix, fromFID, toFID)
}

// YoinkLockKey derives the yoink lock name from the caller fid and target address
func YoinkLockKey(callerFID uint64, targetAddress string) string {
	return fmt.Sprintf("%syoink:%d:%s", LockKeyPrefix, callerFID, strings.ToLower(targetAddress))
}
