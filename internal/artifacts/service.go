// Package artifacts produces the minted artifacts for one hand-off: a
// generated ticket image, its pinned IPFS hash, and the pinned metadata
// document the tokenURI points at.
package artifacts

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/providers/pinata"
)

// generateResponse represents the image generator's response
type generateResponse struct {
	ImageBase64 string             `json:"image_base64"`
	Attributes  []domain.Attribute `json:"attributes"`
}

// Service defines the interface for artifact generation to enable mocking
//
//go:generate mockgen -source=service.go -destination=../mocks/artifacts.go -package=mocks -mock_names=Service=MockArtifactService
type Service interface {
	// Generate produces and pins the full artifact set for a token id.
	// Expensive: callers must route through the generation cache so this
	// runs at most once per token id.
	Generate(ctx context.Context, tokenID uint64, passenger domain.Passenger) (*domain.PendingGeneration, error)
}

type service struct {
	httpClient   adapter.HTTPClient
	json         adapter.JSON
	pinner       pinata.Client
	generatorURL string
}

// NewService creates a new artifact service
func NewService(httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, pinner pinata.Client, generatorURL string) Service {
	return &service{
		httpClient:   httpClient,
		json:         jsonAdapter,
		pinner:       pinner,
		generatorURL: generatorURL,
	}
}

// Generate produces and pins the full artifact set for a token id
func (s *service) Generate(ctx context.Context, tokenID uint64, passenger domain.Passenger) (*domain.PendingGeneration, error) {
	var response generateResponse
	if err := s.httpClient.Get(ctx, s.generatorURL, &response); err != nil {
		return nil, fmt.Errorf("failed to generate image for token %d: %w", tokenID, err)
	}

	image, err := base64.StdEncoding.DecodeString(response.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image for token %d: %w", tokenID, err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("generator returned an empty image for token %d", tokenID)
	}

	imageHash, err := s.pinner.PinImage(ctx, image, fmt.Sprintf("ticket-%d.png", tokenID))
	if err != nil {
		return nil, fmt.Errorf("failed to pin image for token %d: %w", tokenID, err)
	}

	metadataHash, err := s.pinner.PinMetadata(ctx, tokenID, imageHash, response.Attributes, passenger)
	if err != nil {
		return nil, fmt.Errorf("failed to pin metadata for token %d: %w", tokenID, err)
	}

	return &domain.PendingGeneration{
		TokenID:      tokenID,
		ImageHash:    imageHash,
		MetadataHash: metadataHash,
		TokenURI:     fmt.Sprintf("ipfs://%s", metadataHash),
		Attributes:   response.Attributes,
		Passenger:    passenger,
	}, nil
}
