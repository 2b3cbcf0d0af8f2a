package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/service"
	"github.com/aminovt/solvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAppInfoService implements service.AppInfoService for testing.
type mockAppInfoService struct {
	buildInfo models.AppBuildInfo
}

func (m *mockAppInfoService) GetAppInfo(_ context.Context) models.AppBuildInfo {
	return m.buildInfo
}

// newHandlerWithAppInfo builds a Handler whose AppInfoService is replaced
// with the provided mock. All other service fields are left nil because
// getServerVersion does not use them.
func newHandlerWithAppInfo(t *testing.T, svc service.AppInfoService) *Handler {
	t.Helper()
	return NewHandler(
		&service.Services{AppInfoService: svc},
		logger.Nop(),
	)
}

func TestGetServerVersion_WritesVersion(t *testing.T) {
	const want = "1.2.3"

	h := newHandlerWithAppInfo(t, &mockAppInfoService{
		buildInfo: models.NewAppBuildInfo(want, "2026-01-01", "abc1234"),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, want, rec.Body.String())
}

func TestGetServerVersion_UnsetVersion(t *testing.T) {
	h := newHandlerWithAppInfo(t, &mockAppInfoService{
		buildInfo: models.NewAppBuildInfo("", "", ""),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	assert.Equal(t, "N/A", rec.Body.String())
}
