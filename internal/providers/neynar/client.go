// Package neynar is the social-graph API client: fid-to-wallet resolution,
// user profile lookups, winner selection over a cast's reactions, and
// celebratory cast publishing.
package neynar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/ratelimit"
)

const PROVIDER_NAME = "neynar"

var ErrNoAPIKey = errors.New("no API key provided")

// userResponse represents a user lookup response
type userResponse struct {
	User struct {
		FID               uint64 `json:"fid"`
		Username          string `json:"username"`
		DisplayName       string `json:"display_name"`
		PfpURL            string `json:"pfp_url"`
		VerifiedAddresses struct {
			EthAddresses []string `json:"eth_addresses"`
		} `json:"verified_addresses"`
		CustodyAddress string `json:"custody_address"`
	} `json:"user"`
}

// winnerResponse represents a winner-selection response
type winnerResponse struct {
	Winner *struct {
		FID         uint64 `json:"fid"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name"`
		PfpURL      string `json:"pfp_url"`
		Address     string `json:"address"`
	} `json:"winner"`
	TotalEligibleReactors int `json:"total_eligible_reactors"`
}

// castRequest represents a cast publish request
type castRequest struct {
	SignerUUID string `json:"signer_uuid"`
	Text       string `json:"text"`
}

// castResponse represents a cast publish response
type castResponse struct {
	Success bool `json:"success"`
	Cast    struct {
		Hash string `json:"hash"`
	} `json:"cast"`
}

// Client defines the interface for social-graph API operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/neynar_client.go -package=mocks -mock_names=Client=MockNeynarClient
type Client interface {
	// GetUser fetches the profile and verified wallet address for an fid
	GetUser(ctx context.Context, fid uint64) (*domain.Passenger, error)

	// ResolveWalletAddress returns the verified wallet address for an fid.
	// Returns domain.ErrAddressNotFound when the account has no usable address.
	ResolveWalletAddress(ctx context.Context, fid uint64) (string, error)

	// SelectWinner asks the selection service to pick a winner over the
	// eligible reactors of a cast. Returns domain.ErrNoEligibleReactors
	// when nobody qualifies.
	SelectWinner(ctx context.Context, castHash string) (*domain.Winner, error)

	// PostCast publishes a cast from the orchestrator account
	PostCast(ctx context.Context, text string) error
}

// NeynarClient implements the social-graph API client
type NeynarClient struct {
	httpClient     adapter.HTTPClient
	rateLimitProxy ratelimit.Proxy
	json           adapter.JSON
	apiURL         string
	apiKey         string
	signerUUID     string
}

// NewClient creates a new social-graph API client
func NewClient(httpClient adapter.HTTPClient, rateLimitProxy ratelimit.Proxy, jsonAdapter adapter.JSON, apiURL, apiKey, signerUUID string) Client {
	return &NeynarClient{
		httpClient:     httpClient,
		rateLimitProxy: rateLimitProxy,
		json:           jsonAdapter,
		apiURL:         apiURL,
		apiKey:         apiKey,
		signerUUID:     signerUUID,
	}
}

// GetUser fetches the profile and verified wallet address for an fid
func (c *NeynarClient) GetUser(ctx context.Context, fid uint64) (*domain.Passenger, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	reqURL := fmt.Sprintf("%s/v2/farcaster/user?fid=%d", c.apiURL, fid)

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, reqURL, c.headers())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", fid, err)
	}

	var response userResponse
	if err := c.json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user response: %w", err)
	}

	passenger := &domain.Passenger{
		FID:         response.User.FID,
		Username:    response.User.Username,
		DisplayName: response.User.DisplayName,
		PfpURL:      response.User.PfpURL,
	}
	if len(response.User.VerifiedAddresses.EthAddresses) > 0 {
		passenger.Address = response.User.VerifiedAddresses.EthAddresses[0]
	} else {
		passenger.Address = response.User.CustodyAddress
	}

	return passenger, nil
}

// ResolveWalletAddress returns the verified wallet address for an fid
func (c *NeynarClient) ResolveWalletAddress(ctx context.Context, fid uint64) (string, error) {
	passenger, err := c.GetUser(ctx, fid)
	if err != nil {
		return "", err
	}

	if passenger.Address == "" {
		return "", fmt.Errorf("fid %d: %w", fid, domain.ErrAddressNotFound)
	}

	return passenger.Address, nil
}

// SelectWinner asks the selection service to pick a winner over a cast's reactions
func (c *NeynarClient) SelectWinner(ctx context.Context, castHash string) (*domain.Winner, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	reqURL := fmt.Sprintf("%s/v1/winner?cast_hash=%s", c.apiURL, url.QueryEscape(castHash))

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.GetBytes(ctx, reqURL, c.headers())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select winner for cast %s: %w", castHash, err)
	}

	var response winnerResponse
	if err := c.json.Unmarshal(respBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal winner response: %w", err)
	}

	if response.Winner == nil || response.TotalEligibleReactors == 0 {
		return nil, fmt.Errorf("cast %s: %w", castHash, domain.ErrNoEligibleReactors)
	}

	return &domain.Winner{
		Passenger: domain.Passenger{
			FID:         response.Winner.FID,
			Username:    response.Winner.Username,
			DisplayName: response.Winner.DisplayName,
			PfpURL:      response.Winner.PfpURL,
			Address:     response.Winner.Address,
		},
		TotalEligibleReactors: response.TotalEligibleReactors,
	}, nil
}

// PostCast publishes a cast from the orchestrator account
func (c *NeynarClient) PostCast(ctx context.Context, text string) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	payload, err := c.json.Marshal(castRequest{
		SignerUUID: c.signerUUID,
		Text:       text,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal cast request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v2/farcaster/cast", c.apiURL)

	respBody, err := ratelimit.Request(ctx, c.rateLimitProxy, func(ctx context.Context) ([]byte, error) {
		return c.httpClient.PostBytes(ctx, reqURL, "application/json", bytes.NewReader(payload), c.headers())
	})
	if err != nil {
		return fmt.Errorf("failed to post cast: %w", err)
	}

	var response castResponse
	if err := c.json.Unmarshal(respBody, &response); err != nil {
		return fmt.Errorf("failed to unmarshal cast response: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("cast was not accepted")
	}

	return nil
}

// headers returns the authenticated request headers
func (c *NeynarClient) headers() map[string]string {
	return map[string]string{
		"x-api-key": c.apiKey,
	}
}
