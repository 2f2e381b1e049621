package neynar_test

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/mocks"
	"github.com/choochoo-labs/conductor/internal/providers/neynar"
)

const (
	testAPIURL     = "https://api.example.com"
	testAPIKey     = "test-key"
	testSignerUUID = "signer-uuid"
)

func TestMain(m *testing.M) {
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

// testClientMocks contains all the mocks needed for testing the client
type testClientMocks struct {
	ctrl       *gomock.Controller
	httpClient *mocks.MockHTTPClient
}

// setupTestClient creates all the mocks for testing
func setupTestClient(t *testing.T) *testClientMocks {
	ctrl := gomock.NewController(t)

	return &testClientMocks{
		ctrl:       ctrl,
		httpClient: mocks.NewMockHTTPClient(ctrl),
	}
}

// tearDownTestClient cleans up the test mocks
func tearDownTestClient(mocks *testClientMocks) {
	mocks.ctrl.Finish()
}

// newTestClient builds the client with a real JSON adapter and no rate
// limiting proxy (requests execute directly)
func newTestClient(tm *testClientMocks) neynar.Client {
	return neynar.NewClient(tm.httpClient, nil, adapter.NewJSON(), testAPIURL, testAPIKey, testSignerUUID)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		body        string
		wantAddress string
	}{
		{
			name:        "prefers verified address",
			body:        `{"user":{"fid":1234,"username":"conductor","display_name":"Conductor","pfp_url":"https://example.com/pfp.png","verified_addresses":{"eth_addresses":["0xabc","0xdef"]},"custody_address":"0xcustody"}}`,
			wantAddress: "0xabc",
		},
		{
			name:        "falls back to custody address",
			body:        `{"user":{"fid":1234,"username":"conductor","verified_addresses":{"eth_addresses":[]},"custody_address":"0xcustody"}}`,
			wantAddress: "0xcustody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTestClient(t)
			defer tearDownTestClient(tm)

			tm.httpClient.EXPECT().
				GetBytes(gomock.Any(), testAPIURL+"/v2/farcaster/user?fid=1234", map[string]string{"x-api-key": testAPIKey}).
				Return([]byte(tt.body), nil)

			client := newTestClient(tm)
			passenger, err := client.GetUser(ctx, 1234)

			assert.NoError(t, err)
			assert.Equal(t, uint64(1234), passenger.FID)
			assert.Equal(t, "conductor", passenger.Username)
			assert.Equal(t, tt.wantAddress, passenger.Address)
		})
	}
}

func TestGetUser_NoAPIKey(t *testing.T) {
	ctx := context.Background()

	tm := setupTestClient(t)
	defer tearDownTestClient(tm)

	client := neynar.NewClient(tm.httpClient, nil, adapter.NewJSON(), testAPIURL, "", testSignerUUID)
	_, err := client.GetUser(ctx, 1234)

	assert.ErrorIs(t, err, neynar.ErrNoAPIKey)
}

func TestResolveWalletAddress(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves verified address", func(t *testing.T) {
		tm := setupTestClient(t)
		defer tearDownTestClient(tm)

		tm.httpClient.EXPECT().
			GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{"user":{"fid":1234,"username":"conductor","verified_addresses":{"eth_addresses":["0xabc"]}}}`), nil)

		client := newTestClient(tm)
		address, err := client.ResolveWalletAddress(ctx, 1234)

		assert.NoError(t, err)
		assert.Equal(t, "0xabc", address)
	})

	t.Run("no usable address", func(t *testing.T) {
		tm := setupTestClient(t)
		defer tearDownTestClient(tm)

		tm.httpClient.EXPECT().
			GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{"user":{"fid":1234,"username":"conductor"}}`), nil)

		client := newTestClient(tm)
		_, err := client.ResolveWalletAddress(ctx, 1234)

		assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	})
}

func TestSelectWinner(t *testing.T) {
	ctx := context.Background()

	t.Run("returns winner", func(t *testing.T) {
		tm := setupTestClient(t)
		defer tearDownTestClient(tm)

		tm.httpClient.EXPECT().
			GetBytes(gomock.Any(), testAPIURL+"/v1/winner?cast_hash=0xcast", gomock.Any()).
			Return([]byte(`{"winner":{"fid":5678,"username":"lucky","display_name":"Lucky","address":"0xlucky"},"total_eligible_reactors":12}`), nil)

		client := newTestClient(tm)
		winner, err := client.SelectWinner(ctx, "0xcast")

		assert.NoError(t, err)
		assert.Equal(t, uint64(5678), winner.FID)
		assert.Equal(t, "0xlucky", winner.Address)
		assert.Equal(t, 12, winner.TotalEligibleReactors)
	})

	t.Run("no eligible reactors", func(t *testing.T) {
		tm := setupTestClient(t)
		defer tearDownTestClient(tm)

		tm.httpClient.EXPECT().
			GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{"winner":null,"total_eligible_reactors":0}`), nil)

		client := newTestClient(tm)
		_, err := client.SelectWinner(ctx, "0xcast")

		assert.ErrorIs(t, err, domain.ErrNoEligibleReactors)
	})

	t.Run("request failure", func(t *testing.T) {
		tm := setupTestClient(t)
		defer tearDownTestClient(tm)

		tm.httpClient.EXPECT().
			GetBytes(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("upstream unavailable"))

		client := newTestClient(tm)
		_, err := client.SelectWinner(ctx, "0xcast")

		assert.Error(t, err)
	})
}

func TestPostCast(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes cast", func(t *testing.T) {
		tm := setupTestClient(t)
		defer tearDownTestClient(tm)

		tm.httpClient.EXPECT().
			PostBytes(gomock.Any(), testAPIURL+"/v2/farcaster/cast", "application/json", gomock.Any(), map[string]string{"x-api-key": testAPIKey}).
			DoAndReturn(func(_ context.Context, _ string, _ string, body io.Reader, _ map[string]string) ([]byte, error) {
				payload, err := io.ReadAll(body)
				assert.NoError(t, err)
				assert.JSONEq(t, `{"signer_uuid":"signer-uuid","text":"all aboard"}`, string(payload))
				return []byte(`{"success":true,"cast":{"hash":"0xnewcast"}}`), nil
			})

		client := newTestClient(tm)
		assert.NoError(t, client.PostCast(ctx, "all aboard"))
	})

	t.Run("rejected cast", func(t *testing.T) {
		tm := setupTestClient(t)
		defer tearDownTestClient(tm)

		tm.httpClient.EXPECT().
			PostBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]byte(`{"success":false}`), nil)

		client := newTestClient(tm)
		assert.Error(t, client.PostCast(ctx, "all aboard"))
	})
}
