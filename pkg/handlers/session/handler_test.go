package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/license-atlas/pkg/models/api"
	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/models/store"
	sessionsvc "github.com/de-tools/license-atlas/pkg/services/session"
	sessionstore "github.com/de-tools/license-atlas/pkg/store/session"
)

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Start(ctx context.Context, sess *domain.Session) {
	m.Called(ctx, sess)
}

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) Add(ctx context.Context, record store.ReportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockReportStore) Get(ctx context.Context, id string) (store.ReportRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.ReportRecord), args.Error(1)
}

func (m *mockReportStore) GetBySession(ctx context.Context, sessionID string) (store.ReportRecord, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(store.ReportRecord), args.Error(1)
}

func newManager() *sessionsvc.Manager {
	return sessionsvc.NewManager(sessionstore.NewMemoryStore(), sessionsvc.DefaultConfig())
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
		expectRunStart bool
	}{
		{
			name:           "demo session",
			body:           `{"isDemo":true,"demoDataset":"techstartup"}`,
			expectedStatus: http.StatusCreated,
			expectRunStart: true,
		},
		{
			name:           "live session",
			body:           `{"googleDomain":"acme.com"}`,
			expectedStatus: http.StatusCreated,
			expectRunStart: true,
		},
		{
			name:           "malformed JSON",
			body:           `{"isDemo":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation_error",
		},
		{
			name:           "demo without dataset",
			body:           `{"isDemo":true}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation_error",
		},
		{
			name:           "dataset without demo flag",
			body:           `{"googleDomain":"acme.com","demoDataset":"growthco"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation_error",
		},
		{
			name:           "live session without domain",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation_error",
		},
		{
			name:           "unknown dataset",
			body:           `{"isDemo":true,"demoDataset":"bigcorp"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(mockRunner)
			if tt.expectRunStart {
				runner.On("Start", mock.Anything, mock.AnythingOfType("*domain.Session")).Return()
			}
			handler := NewHandler(newManager(), runner, new(mockReportStore))

			req := httptest.NewRequest("POST", "/api/v1/sessions", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.CreateSession(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.expectedStatus == http.StatusCreated {
				var resp struct {
					Status string      `json:"status"`
					Data   api.Session `json:"data"`
				}
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "success", resp.Status)
				assert.NotEmpty(t, resp.Data.ID)
				assert.Equal(t, "processing", resp.Data.Status)
				assert.Equal(t, 0, resp.Data.Progress.CompletedSteps)
			} else {
				resp := decodeError(t, rec)
				assert.Equal(t, tt.expectedError, resp.Error)
				assert.Equal(t, tt.expectedStatus, resp.StatusCode)
				assert.NotEmpty(t, resp.Detail)
			}

			runner.AssertExpectations(t)
		})
	}
}

func TestGetSession(t *testing.T) {
	ctx := context.Background()
	manager := newManager()
	handler := NewHandler(manager, new(mockRunner), new(mockReportStore))

	sess, err := manager.Create(ctx, sessionsvc.CreateParams{GoogleDomain: "acme.com"})
	require.NoError(t, err)

	t.Run("existing session", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest("GET", "/api/v1/sessions/"+sess.ID, nil), "sessionID", sess.ID)
		rec := httptest.NewRecorder()

		handler.GetSession(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Status string      `json:"status"`
			Data   api.Session `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, sess.ID, resp.Data.ID)
		assert.Equal(t, "acme.com", resp.Data.GoogleDomain)
	})

	t.Run("unknown session", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest("GET", "/api/v1/sessions/nope", nil), "sessionID", "nope")
		rec := httptest.NewRecorder()

		handler.GetSession(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "not_found", resp.Error)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetSession_Expired(t *testing.T) {
	ctx := context.Background()
	config := sessionsvc.DefaultConfig()
	config.TTL = -time.Minute
	manager := sessionsvc.NewManager(sessionstore.NewMemoryStore(), config)
	handler := NewHandler(manager, new(mockRunner), new(mockReportStore))

	sess, err := manager.Create(ctx, sessionsvc.CreateParams{GoogleDomain: "acme.com"})
	require.NoError(t, err)

	req := withURLParam(httptest.NewRequest("GET", "/api/v1/sessions/"+sess.ID, nil), "sessionID", sess.ID)
	rec := httptest.NewRecorder()

	handler.GetSession(rec, req)

	assert.Equal(t, http.StatusGone, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "session_expired", resp.Error)
	assert.Equal(t, http.StatusGone, resp.StatusCode)
}

func TestGetProgress(t *testing.T) {
	ctx := context.Background()
	manager := newManager()
	handler := NewHandler(manager, new(mockRunner), new(mockReportStore))

	sess, err := manager.Create(ctx, sessionsvc.CreateParams{IsDemo: true, DemoDataset: domain.DemoDatasetGrowthCo})
	require.NoError(t, err)

	_, err = manager.Advance(ctx, sess.ID, "classifying_licenses", 1, nil)
	require.NoError(t, err)

	req := withURLParam(httptest.NewRequest("GET", "/api/v1/sessions/"+sess.ID+"/progress", nil), "sessionID", sess.ID)
	rec := httptest.NewRecorder()

	handler.GetProgress(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Status string             `json:"status"`
		Data   api.ProgressUpdate `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, sess.ID, resp.Data.SessionID)
	assert.Equal(t, "classifying_licenses", resp.Data.CurrentStep)
	assert.Equal(t, 1, resp.Data.CompletedSteps)
	assert.Equal(t, 4, resp.Data.TotalSteps)
}

func TestGetReport(t *testing.T) {
	t.Run("existing report", func(t *testing.T) {
		payload := []byte(`{"id":"r1","domain":"acme.com"}`)
		reports := new(mockReportStore)
		reports.On("Get", mock.Anything, "r1").
			Return(store.ReportRecord{ID: "r1", Payload: payload}, nil)
		handler := NewHandler(newManager(), new(mockRunner), reports)

		req := withURLParam(httptest.NewRequest("GET", "/api/v1/reports/r1", nil), "reportID", "r1")
		rec := httptest.NewRecorder()

		handler.GetReport(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Status string          `json:"status"`
			Data   json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.JSONEq(t, string(payload), string(resp.Data))
		reports.AssertExpectations(t)
	})

	t.Run("unknown report", func(t *testing.T) {
		reports := new(mockReportStore)
		reports.On("Get", mock.Anything, "missing").
			Return(store.ReportRecord{}, &domain.NotFoundError{Kind: "report", ID: "missing"})
		handler := NewHandler(newManager(), new(mockRunner), reports)

		req := withURLParam(httptest.NewRequest("GET", "/api/v1/reports/missing", nil), "reportID", "missing")
		rec := httptest.NewRecorder()

		handler.GetReport(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "not_found", resp.Error)
	})
}
