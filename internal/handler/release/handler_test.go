package release

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchnotify/notifier-api/internal/middleware"
	"github.com/watchnotify/notifier-api/internal/model"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
)

type stubService struct {
	created  *model.Release
	release  *model.Release
	releases []*model.Release
	markedID uuid.UUID
	err      error
}

func (s *stubService) CreateRelease(ctx context.Context, release *model.Release) (*model.Release, error) {
	if s.err != nil {
		return nil, s.err
	}
	release.ID = uuid.New()
	s.created = release
	return release, nil
}

func (s *stubService) GetRelease(ctx context.Context, id uuid.UUID) (*model.Release, error) {
	return s.release, s.err
}

func (s *stubService) UpdateRelease(ctx context.Context, release *model.Release) (*model.Release, error) {
	return release, s.err
}

func (s *stubService) DeleteRelease(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func (s *stubService) ListReleases(ctx context.Context) ([]*model.Release, error) {
	return s.releases, s.err
}

func (s *stubService) ListUnnotified(ctx context.Context) ([]*model.Release, error) {
	return s.releases, s.err
}

func (s *stubService) ListUpcoming(ctx context.Context) ([]*model.Release, error) {
	return s.releases, s.err
}

func (s *stubService) ListLimitedEdition(ctx context.Context) ([]*model.Release, error) {
	return s.releases, s.err
}

func (s *stubService) ListByBrand(ctx context.Context, brand string) ([]*model.Release, error) {
	return s.releases, s.err
}

func (s *stubService) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Release, error) {
	return s.releases, s.err
}

func (s *stubService) MarkNotified(ctx context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.markedID = id
	return nil
}

func setupRouter(svc *stubService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.RegisterValidators()
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestCreateRelease(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"watch_name": "Speedmaster Professional",
		"brand":      "Omega",
		"currency":   "CHF",
		"categories": []string{"luxury", "chronograph"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/releases", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Speedmaster Professional", svc.created.WatchName)
	assert.Equal(t, "Omega", svc.created.Brand)
	assert.Equal(t, "CHF", svc.created.Currency)

	var resp struct {
		Status string        `json:"status"`
		Data   model.Release `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, svc.created.ID, resp.Data.ID)
}

func TestCreateReleaseRejectsBadCurrency(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc)

	body := []byte(`{"watch_name":"Submariner","brand":"Rolex","currency":"chf"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/releases", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)
}

func TestMarkNotifiedRoundTrip(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc)

	id := uuid.New()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/releases/"+id.String()+"/mark-notified", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, svc.markedID)
}

func TestMarkNotifiedRejectsBadID(t *testing.T) {
	svc := &stubService{}
	router := setupRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/releases/not-a-uuid/mark-notified", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, uuid.Nil, svc.markedID)
}

func TestGetReleaseMapsUnknownIDTo404(t *testing.T) {
	router := setupRouter(&stubService{err: apperrors.NotFound("release", nil)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/releases/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
