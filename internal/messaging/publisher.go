package messaging

import (
	"context"

	"github.com/choochoo-labs/conductor/internal/domain"
)

// Publisher defines the interface for publishing train events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishHolderChanged publishes a holder-changed event
	PublishHolderChanged(ctx context.Context, event *domain.TrainEvent) error
	// Close closes the connection
	Close()
}
