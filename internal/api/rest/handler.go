package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/orchestrator"
	"github.com/choochoo-labs/conductor/internal/records"
	"github.com/choochoo-labs/conductor/internal/staging"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// RandomSend moves the train to a randomly selected eligible reactor
	// POST /api/v1/train/random-send
	RandomSend(c *gin.Context)

	// ManualSend moves the train to an explicitly chosen recipient
	// POST /api/v1/train/manual-send
	ManualSend(c *gin.Context)

	// Yoink force-moves the train to the caller after the inactivity window
	// POST /api/v1/train/yoink
	Yoink(c *gin.Context)

	// GetCurrentHolder retrieves the current holder of the train
	// GET /api/v1/train/current-holder
	GetCurrentHolder(c *gin.Context)

	// GetTracker retrieves the authoritative highest-minted-id tracker
	// GET /api/v1/train/tracker
	GetTracker(c *gin.Context)

	// GetToken retrieves a permanent token record by id
	// GET /api/v1/tokens/:id
	GetToken(c *gin.Context)

	// ListStaging lists all in-flight staging entries (requires API key)
	// GET /api/v1/admin/staging
	ListStaging(c *gin.Context)

	// AbandonStaging abandons a staging entry and clears its cached
	// generation result (requires API key)
	// POST /api/v1/admin/staging/:id/abandon
	AbandonStaging(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	orchestrator orchestrator.Orchestrator
	records      records.Store
	staging      staging.Store
	redis        adapter.RedisClient
}

// NewHandler creates a new REST API handler
func NewHandler(
	orch orchestrator.Orchestrator,
	recordsStore records.Store,
	stagingStore staging.Store,
	redis adapter.RedisClient,
) Handler {
	return &handler{
		orchestrator: orch,
		records:      recordsStore,
		staging:      stagingStore,
		redis:        redis,
	}
}

// manualSendRequest is the body of POST /api/v1/train/manual-send
type manualSendRequest struct {
	FromFID uint64 `json:"from_fid" binding:"required"`
	ToFID   uint64 `json:"to_fid" binding:"required"`
}

// yoinkRequest is the body of POST /api/v1/train/yoink
type yoinkRequest struct {
	CallerFID     uint64 `json:"caller_fid" binding:"required"`
	TargetAddress string `json:"target_address" binding:"required"`
}

// abandonRequest is the optional body of POST /api/v1/admin/staging/:id/abandon
type abandonRequest struct {
	Reason string `json:"reason"`
}

// RandomSend moves the train to a randomly selected eligible reactor
func (h *handler) RandomSend(c *gin.Context) {
	outcome := h.orchestrator.RandomSend(c.Request.Context())
	respondOutcome(c, outcome)
}

// ManualSend moves the train to an explicitly chosen recipient
func (h *handler) ManualSend(c *gin.Context) {
	var req manualSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	outcome := h.orchestrator.ManualSend(c.Request.Context(), req.FromFID, req.ToFID)
	respondOutcome(c, outcome)
}

// Yoink force-moves the train to the caller
func (h *handler) Yoink(c *gin.Context) {
	var req yoinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	outcome := h.orchestrator.Yoink(c.Request.Context(), req.CallerFID, req.TargetAddress)
	respondOutcome(c, outcome)
}

// GetCurrentHolder retrieves the current holder of the train
func (h *handler) GetCurrentHolder(c *gin.Context) {
	holder, err := h.records.GetCurrentHolder(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to retrieve current holder")
		return
	}
	if holder == nil {
		respondNotFound(c, "The train has no holder yet")
		return
	}

	c.JSON(http.StatusOK, holder)
}

// GetTracker retrieves the authoritative highest-minted-id tracker
func (h *handler) GetTracker(c *gin.Context) {
	tracker, err := h.records.GetTracker(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to retrieve token id tracker")
		return
	}
	if tracker == nil {
		respondNotFound(c, "No token has been minted yet")
		return
	}

	c.JSON(http.StatusOK, tracker)
}

// GetToken retrieves a permanent token record by id
func (h *handler) GetToken(c *gin.Context) {
	tokenID, err := parseTokenID(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}

	record, err := h.records.GetTokenRecord(c.Request.Context(), tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			respondNotFound(c, fmt.Sprintf("Token %d not found", tokenID))
			return
		}
		respondInternalError(c, err, "Failed to retrieve token record", zap.Uint64("token_id", tokenID))
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListStaging lists all in-flight staging entries
func (h *handler) ListStaging(c *gin.Context) {
	entries, err := h.staging.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to list staging entries")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// AbandonStaging abandons a staging entry and clears its cached generation result
func (h *handler) AbandonStaging(c *gin.Context) {
	tokenID, err := parseTokenID(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid token id", err.Error())
		return
	}

	var req abandonRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondValidationError(c, err.Error())
		return
	}
	if req.Reason == "" {
		req.Reason = "abandoned by operator"
	}

	if err := h.staging.Abandon(c.Request.Context(), tokenID, req.Reason); err != nil {
		if errors.Is(err, domain.ErrStagingNotFound) {
			respondNotFound(c, fmt.Sprintf("Staging entry %d not found", tokenID))
			return
		}
		respondInternalError(c, err, "Failed to abandon staging entry", zap.Uint64("token_id", tokenID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "abandoned", "token_id": tokenID})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"redis":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondOutcome maps a pipeline outcome onto the HTTP response
func respondOutcome(c *gin.Context, outcome *domain.SendOutcome) {
	switch outcome.Status {
	case http.StatusOK:
		c.JSON(http.StatusOK, outcome)
	case http.StatusConflict:
		respondConflict(c, "Operation already in progress", outcome.Error)
	default:
		respondWithError(c, http.StatusInternalServerError,
			newServiceError("Operation failed", outcome.Error))
	}
}

// parseTokenID parses a decimal token id path parameter
func parseTokenID(raw string) (uint64, error) {
	tokenID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token id must be a positive integer: %w", err)
	}
	return tokenID, nil
}
