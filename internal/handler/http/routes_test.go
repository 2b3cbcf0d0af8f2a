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
)

func newRouterUnderTest() http.Handler {
	h := NewHandler(&service.Services{
		SessionService: &mockSessionService{
			parseFn: func(_ context.Context, _ string) (models.Token, error) {
				return models.Token{}, service.ErrTokenIsExpiredOrInvalid
			},
		},
		VaultService: &mockVaultService{},
		AppInfoService: &mockAppInfoService{
			buildInfo: models.NewAppBuildInfo("test", "", ""),
		},
	}, logger.Nop())
	return h.Init()
}

func TestRoutes_VaultRequiresAuth(t *testing.T) {
	router := newRouterUnderTest()

	paths := []string{
		"/api/vault/initialize",
		"/api/vault/deposit",
		"/api/vault/withdraw",
		"/api/vault/close",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRoutes_VersionIsPublic(t *testing.T) {
	router := newRouterUnderTest()

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Body.String())
}

func TestRoutes_UnknownPath(t *testing.T) {
	router := newRouterUnderTest()

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_WrongMethodHidesRoute(t *testing.T) {
	router := newRouterUnderTest()

	// DELETE is not registered for the session route; the router answers
	// 404 instead of 405 so probing does not reveal route existence.
	req := httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
