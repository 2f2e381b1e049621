// Package pinata pins ticket images and metadata to IPFS through the pinning
// service API.
package pinata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
)

var ErrNoJWT = errors.New("no pinning service token provided")

// pinResponse represents a pinning response
type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// metadataPayload is the token metadata document pinned per ticket
type metadataPayload struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Attributes  []domain.Attribute `json:"attributes"`
}

// pinJSONRequest wraps a metadata document for the pinJSONToIPFS endpoint
type pinJSONRequest struct {
	PinataContent  metadataPayload `json:"pinataContent"`
	PinataMetadata struct {
		Name string `json:"name"`
	} `json:"pinataMetadata"`
}

// Client defines the interface for pinning operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/pinata_client.go -package=mocks -mock_names=Client=MockPinataClient
type Client interface {
	// PinImage pins a PNG image and returns its IPFS hash
	PinImage(ctx context.Context, image []byte, name string) (string, error)

	// PinMetadata pins a token metadata document and returns its IPFS hash
	PinMetadata(ctx context.Context, tokenID uint64, imageHash string, attributes []domain.Attribute, passenger domain.Passenger) (string, error)
}

// PinataClient implements the pinning service client
type PinataClient struct {
	httpClient adapter.HTTPClient
	json       adapter.JSON
	apiURL     string
	jwt        string
}

// NewClient creates a new pinning service client
func NewClient(httpClient adapter.HTTPClient, jsonAdapter adapter.JSON, apiURL, jwt string) Client {
	return &PinataClient{
		httpClient: httpClient,
		json:       jsonAdapter,
		apiURL:     apiURL,
		jwt:        jwt,
	}
}

// PinImage pins a PNG image and returns its IPFS hash
func (c *PinataClient) PinImage(ctx context.Context, image []byte, name string) (string, error) {
	if c.jwt == "" {
		return "", ErrNoJWT
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to write image payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	reqURL := fmt.Sprintf("%s/pinning/pinFileToIPFS", c.apiURL)

	respBody, err := c.httpClient.PostBytes(ctx, reqURL, writer.FormDataContentType(), &body, c.headers())
	if err != nil {
		return "", fmt.Errorf("failed to pin image: %w", err)
	}

	return c.parsePinResponse(respBody)
}

// PinMetadata pins a token metadata document and returns its IPFS hash
func (c *PinataClient) PinMetadata(ctx context.Context, tokenID uint64, imageHash string, attributes []domain.Attribute, passenger domain.Passenger) (string, error) {
	if c.jwt == "" {
		return "", ErrNoJWT
	}

	request := pinJSONRequest{
		PinataContent: metadataPayload{
			Name:        fmt.Sprintf("Ticket #%d", tokenID),
			Description: fmt.Sprintf("Ticket #%d, punched for @%s.", tokenID, passenger.Username),
			Image:       fmt.Sprintf("ipfs://%s", imageHash),
			Attributes:  attributes,
		},
	}
	request.PinataMetadata.Name = fmt.Sprintf("ticket-%d-metadata", tokenID)

	payload, err := c.json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	reqURL := fmt.Sprintf("%s/pinning/pinJSONToIPFS", c.apiURL)

	respBody, err := c.httpClient.PostBytes(ctx, reqURL, "application/json", bytes.NewReader(payload), c.headers())
	if err != nil {
		return "", fmt.Errorf("failed to pin metadata: %w", err)
	}

	return c.parsePinResponse(respBody)
}

// parsePinResponse extracts the IPFS hash from a pinning response
func (c *PinataClient) parsePinResponse(respBody []byte) (string, error) {
	var response pinResponse
	if err := c.json.Unmarshal(respBody, &response); err != nil {
		return "", fmt.Errorf("failed to unmarshal pin response: %w", err)
	}
	if response.IpfsHash == "" {
		return "", fmt.Errorf("pin response carried no hash")
	}

	return response.IpfsHash, nil
}

// headers returns the authenticated request headers
func (c *PinataClient) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.jwt,
	}
}
