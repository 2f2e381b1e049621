package artifacts_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/choochoo-labs/conductor/internal/adapter"
	"github.com/choochoo-labs/conductor/internal/artifacts"
	"github.com/choochoo-labs/conductor/internal/domain"
	"github.com/choochoo-labs/conductor/internal/logger"
	"github.com/choochoo-labs/conductor/internal/mocks"
)

const testGeneratorURL = "https://generator.example.com/generate"

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

// testServiceMocks contains all the mocks needed for testing the service
type testServiceMocks struct {
	ctrl       *gomock.Controller
	httpClient *mocks.MockHTTPClient
	pinner     *mocks.MockPinataClient
}

// setupTestService creates all the mocks for testing
func setupTestService(t *testing.T) *testServiceMocks {
	ctrl := gomock.NewController(t)

	return &testServiceMocks{
		ctrl:       ctrl,
		httpClient: mocks.NewMockHTTPClient(ctrl),
		pinner:     mocks.NewMockPinataClient(ctrl),
	}
}

// tearDownTestService cleans up the test mocks
func tearDownTestService(mocks *testServiceMocks) {
	mocks.ctrl.Finish()
}

func newTestService(tm *testServiceMocks) artifacts.Service {
	return artifacts.NewService(tm.httpClient, adapter.NewJSON(), tm.pinner, testGeneratorURL)
}

func testPassenger() domain.Passenger {
	return domain.Passenger{
		FID:      1234,
		Username: "conductor",
		Address:  "0xabc",
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	tm := setupTestService(t)
	defer tearDownTestService(tm)

	image := []byte{0x89, 0x50, 0x4e, 0x47}
	attributes := []domain.Attribute{{TraitType: "Passenger", Value: "conductor"}}

	tm.httpClient.EXPECT().
		Get(gomock.Any(), testGeneratorURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, result interface{}) error {
			body := fmt.Sprintf(`{"image_base64":%q,"attributes":[{"trait_type":"Passenger","value":"conductor"}]}`,
				base64.StdEncoding.EncodeToString(image))
			return json.Unmarshal([]byte(body), result)
		})

	tm.pinner.EXPECT().
		PinImage(gomock.Any(), image, "ticket-42.png").
		Return("QmImage", nil)
	tm.pinner.EXPECT().
		PinMetadata(gomock.Any(), uint64(42), "QmImage", attributes, testPassenger()).
		Return("QmMeta", nil)

	svc := newTestService(tm)
	generated, err := svc.Generate(ctx, 42, testPassenger())

	assert.NoError(t, err)
	assert.Equal(t, uint64(42), generated.TokenID)
	assert.Equal(t, "QmImage", generated.ImageHash)
	assert.Equal(t, "QmMeta", generated.MetadataHash)
	assert.Equal(t, "ipfs://QmMeta", generated.TokenURI)
	assert.Equal(t, attributes, generated.Attributes)
	assert.Equal(t, testPassenger(), generated.Passenger)
}

func TestGenerate_GeneratorFailure(t *testing.T) {
	ctx := context.Background()

	tm := setupTestService(t)
	defer tearDownTestService(tm)

	tm.httpClient.EXPECT().
		Get(gomock.Any(), testGeneratorURL, gomock.Any()).
		Return(errors.New("generator unavailable"))

	svc := newTestService(tm)
	_, err := svc.Generate(ctx, 42, testPassenger())

	assert.Error(t, err)
}

func TestGenerate_EmptyImage(t *testing.T) {
	ctx := context.Background()

	tm := setupTestService(t)
	defer tearDownTestService(tm)

	tm.httpClient.EXPECT().
		Get(gomock.Any(), testGeneratorURL, gomock.Any()).
		Return(nil) // leaves the response empty

	svc := newTestService(tm)
	_, err := svc.Generate(ctx, 42, testPassenger())

	assert.Error(t, err)
}

func TestGenerate_PinImageFailure(t *testing.T) {
	ctx := context.Background()

	tm := setupTestService(t)
	defer tearDownTestService(tm)

	tm.httpClient.EXPECT().
		Get(gomock.Any(), testGeneratorURL, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, result interface{}) error {
			body := fmt.Sprintf(`{"image_base64":%q}`, base64.StdEncoding.EncodeToString([]byte{0x1}))
			return json.Unmarshal([]byte(body), result)
		})

	tm.pinner.EXPECT().
		PinImage(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.New("pinning quota exceeded"))

	svc := newTestService(tm)
	_, err := svc.Generate(ctx, 42, testPassenger())

	assert.Error(t, err)
}
