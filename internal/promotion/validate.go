package promotion

import (
	"fmt"

	"github.com/choochoo-labs/conductor/internal/domain"
)

// ValidateTokenID compares the token id the pipeline expected to mint against
// the token id actually minted on-chain. A mismatch indicates a race with an
// out-of-band mint and must abort the pipeline before promotion.
func ValidateTokenID(expected, actual uint64) error {
	if expected != actual {
		return fmt.Errorf("%w: expected %d, minted %d", domain.ErrTokenIDMismatch, expected, actual)
	}

	return nil
}
