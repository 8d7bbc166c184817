package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/rto-console/internal/auth"
	"github.com/ukydev/rto-console/internal/lifecycle"
	"github.com/ukydev/rto-console/internal/middleware"
	"github.com/ukydev/rto-console/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockDocumentCollection is a mock implementation of DocumentCollection
type MockDocumentCollection struct {
	mock.Mock
}

func (m *MockDocumentCollection) InsertDocument(ctx context.Context, doc *models.DocumentRecord) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentCollection) FindDocumentByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DocumentRecord), args.Error(1)
}

func (m *MockDocumentCollection) FindDocumentsByVehicle(ctx context.Context, vehicleNumber string) ([]models.DocumentRecord, error) {
	args := m.Called(ctx, vehicleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DocumentRecord), args.Error(1)
}

func (m *MockDocumentCollection) FindAllDocuments(ctx context.Context) ([]models.DocumentRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DocumentRecord), args.Error(1)
}

func (m *MockDocumentCollection) MarkRenewed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStaffCollection is a mock implementation of StaffCollection
type MockStaffCollection struct {
	mock.Mock
}

func (m *MockStaffCollection) InsertStaff(ctx context.Context, staff models.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MockStaffCollection) FindStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Staff), args.Error(1)
}

func (m *MockStaffCollection) FindStaffByUsername(ctx context.Context, username string) (*models.Staff, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Staff), args.Error(1)
}

func (m *MockStaffCollection) UpdateLastLogin(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var testNow = time.Date(2025, 2, 1, 10, 0, 0, 0, time.Local)

type testServer struct {
	handler   http.Handler
	auth      *auth.Service
	documents *MockDocumentCollection
	staff     *MockStaffCollection
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	authService, err := auth.NewService("test-secret", time.Hour)
	require.NoError(t, err)

	documents := new(MockDocumentCollection)
	staff := new(MockStaffCollection)
	docHandler := NewDocumentHandler(documents, lifecycle.DefaultPolicies())
	docHandler.now = func() time.Time { return testNow }

	router := Router{
		Auth:      NewAuthHandler(authService, staff),
		Documents: docHandler,
		Input:     NewInputHandler(),
		AuthMW:    middleware.NewAuthMiddleware(authService),
	}
	return &testServer{
		handler:   router.Handler(),
		auth:      authService,
		documents: documents,
		staff:     staff,
	}
}

func (s *testServer) token(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := s.auth.GenerateToken(&models.Staff{ID: primitive.NewObjectID(), Username: "clerk1", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}
