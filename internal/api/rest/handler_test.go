package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/api/rest"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/mocks"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

// testHandlerMocks contains all the mocks needed for testing the handlers
type testHandlerMocks struct {
	ctrl         *gomock.Controller
	orchestrator *mocks.MockOrchestrator
	records      *mocks.MockRecordsStore
	staging      *mocks.MockStagingStore
	redisClient  *mocks.MockRedisClient
}

// setupTestHandler creates all the mocks for testing
func setupTestHandler(t *testing.T) *testHandlerMocks {
	ctrl := gomock.NewController(t)

	return &testHandlerMocks{
		ctrl:         ctrl,
		orchestrator: mocks.NewMockOrchestrator(ctrl),
		records:      mocks.NewMockRecordsStore(ctrl),
		staging:      mocks.NewMockStagingStore(ctrl),
		redisClient:  mocks.NewMockRedisClient(ctrl),
	}
}

// tearDownTestHandler cleans up the test mocks
func tearDownTestHandler(mocks *testHandlerMocks) {
	mocks.ctrl.Finish()
}

// newTestRouter wires the handlers onto a bare router, without the
// authentication middleware
func newTestRouter(tm *testHandlerMocks) *gin.Engine {
	h := rest.NewHandler(tm.orchestrator, tm.records, tm.staging, tm.redisClient)

	router := gin.New()
	router.GET("/health", h.HealthCheck)
	router.POST("/api/v1/train/random-send", h.RandomSend)
	router.POST("/api/v1/train/manual-send", h.ManualSend)
	router.POST("/api/v1/train/yoink", h.Yoink)
	router.GET("/api/v1/train/current-holder", h.GetCurrentHolder)
	router.GET("/api/v1/train/tracker", h.GetTracker)
	router.GET("/api/v1/tokens/:id", h.GetToken)
	router.GET("/api/v1/admin/staging", h.ListStaging)
	router.POST("/api/v1/admin/staging/:id/abandon", h.AbandonStaging)

	return router
}

func performRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func successOutcome() *domain.SendOutcome {
	return &domain.SendOutcome{
		Status: http.StatusOK,
		Winner: &domain.Winner{
			Passenger:             domain.Passenger{FID: 5678, Username: "lucky", Address: "0xlucky"},
			TotalEligibleReactors: 12,
		},
		TokenID:               42,
		TxHash:                "0xdeadbeef",
		TokenURI:              "ipfs://QmMeta",
		TotalEligibleReactors: 12,
	}
}

func TestRandomSend_OutcomeMapping(t *testing.T) {
	tests := []struct {
		name       string
		outcome    *domain.SendOutcome
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			outcome:    successOutcome(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "already in progress",
			outcome:    &domain.SendOutcome{Status: http.StatusConflict, Error: domain.ErrLockContention.Error()},
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "pipeline failure",
			outcome:    &domain.SendOutcome{Status: http.StatusInternalServerError, Error: "artifact generation failed"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "service_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestHandler(t)
			defer tearDownTestHandler(tm)

			tm.orchestrator.EXPECT().
				RandomSend(gomock.Any()).
				Return(tt.outcome)

			w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/train/random-send", nil)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantCode != "" {
				var resp struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantCode, resp.Error.Code)
				return
			}

			var outcome domain.SendOutcome
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
			assert.Equal(t, *tt.outcome, outcome)
		})
	}
}

func TestManualSend(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.orchestrator.EXPECT().
			ManualSend(gomock.Any(), uint64(1234), uint64(5678)).
			Return(successOutcome())

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/train/manual-send",
			[]byte(`{"from_fid":1234,"to_fid":5678}`))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/train/manual-send",
			[]byte(`{"from_fid":1234}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "validation_failed", resp.Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/train/manual-send",
			[]byte(`{`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestYoink(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.orchestrator.EXPECT().
			Yoink(gomock.Any(), uint64(1234), "0xtarget").
			Return(successOutcome())

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/train/yoink",
			[]byte(`{"caller_fid":1234,"target_address":"0xtarget"}`))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing target address", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/train/yoink",
			[]byte(`{"caller_fid":1234}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetCurrentHolder(t *testing.T) {
	t.Run("holder present", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.records.EXPECT().
			GetCurrentHolder(gomock.Any()).
			Return(&domain.CurrentHolderPointer{
				FID:       1234,
				Username:  "conductor",
				Address:   "0xabc",
				Timestamp: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			}, nil)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/train/current-holder", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var holder domain.CurrentHolderPointer
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &holder))
		assert.Equal(t, uint64(1234), holder.FID)
	})

	t.Run("no holder yet", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.records.EXPECT().
			GetCurrentHolder(gomock.Any()).
			Return(nil, nil)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/train/current-holder", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetTracker(t *testing.T) {
	t.Run("tracker present", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.records.EXPECT().
			GetTracker(gomock.Any()).
			Return(&domain.TokenIDTracker{
				CurrentTokenID: 42,
				Timestamp:      time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
			}, nil)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/train/tracker", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var tracker domain.TokenIDTracker
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracker))
		assert.Equal(t, uint64(42), tracker.CurrentTokenID)
	})

	t.Run("nothing minted yet", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.records.EXPECT().
			GetTracker(gomock.Any()).
			Return(nil, nil)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/train/tracker", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetToken(t *testing.T) {
	t.Run("token found", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.records.EXPECT().
			GetTokenRecord(gomock.Any(), uint64(42)).
			Return(&domain.TokenRecord{TokenID: 42, TransactionHash: "0xdeadbeef"}, nil)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/tokens/42", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var record domain.TokenRecord
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
		assert.Equal(t, uint64(42), record.TokenID)
	})

	t.Run("token not found", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.records.EXPECT().
			GetTokenRecord(gomock.Any(), uint64(42)).
			Return(nil, domain.ErrTokenNotFound)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/tokens/42", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/tokens/not-a-number", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListStaging(t *testing.T) {
	tm := setupTestHandler(t)
	defer tearDownTestHandler(tm)

	tm.staging.EXPECT().
		List(gomock.Any()).
		Return([]*domain.StagingEntry{
			{TokenID: 42, Status: domain.StagingStatusMinting, Orchestrator: domain.SourceTypeRandom},
		}, nil)

	w := performRequest(newTestRouter(tm), http.MethodGet, "/api/v1/admin/staging", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []*domain.StagingEntry `json:"entries"`
		Count   int                    `json:"count"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, uint64(42), resp.Entries[0].TokenID)
}

func TestAbandonStaging(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.staging.EXPECT().
			Abandon(gomock.Any(), uint64(42), "mint confirmed absent on-chain").
			Return(nil)

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/admin/staging/42/abandon",
			[]byte(`{"reason":"mint confirmed absent on-chain"}`))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("default reason without body", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.staging.EXPECT().
			Abandon(gomock.Any(), uint64(42), "abandoned by operator").
			Return(nil)

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/admin/staging/42/abandon", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("entry not found", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		tm.staging.EXPECT().
			Abandon(gomock.Any(), uint64(42), gomock.Any()).
			Return(domain.ErrStagingNotFound)

		w := performRequest(newTestRouter(tm), http.MethodPost, "/api/v1/admin/staging/42/abandon", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		statusCmd := redis.NewStatusCmd(context.Background())
		statusCmd.SetVal("PONG")
		tm.redisClient.EXPECT().
			Ping(gomock.Any()).
			Return(statusCmd)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("store unreachable", func(t *testing.T) {
		tm := setupTestHandler(t)
		defer tearDownTestHandler(tm)

		statusCmd := redis.NewStatusCmd(context.Background())
		statusCmd.SetErr(errors.New("connection refused"))
		tm.redisClient.EXPECT().
			Ping(gomock.Any()).
			Return(statusCmd)

		w := performRequest(newTestRouter(tm), http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
