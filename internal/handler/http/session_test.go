package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/service"
	"github.com/aminovt/solvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionHandler(session service.SessionService) *Handler {
	return NewHandler(&service.Services{SessionService: session}, logger.Nop())
}

func TestCreateSession_Success(t *testing.T) {
	identity := testOwner(t)
	request := models.SessionRequest{
		Identity:  identity,
		IssuedAt:  time.Now(),
		Signature: "sig",
	}

	h := newSessionHandler(&mockSessionService{
		createFn: func(_ context.Context, got models.SessionRequest) (models.Token, error) {
			assert.True(t, got.Identity.Equal(identity))
			return models.Token{SignedString: "issued-token", Identity: got.Identity}, nil
		},
	})

	payload, err := json.Marshal(request)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewReader(payload))
	rec := httptest.NewRecorder()

	h.createSession(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer issued-token", rec.Header().Get("Authorization"))
}

func TestCreateSession_InvalidJSON(t *testing.T) {
	h := newSessionHandler(&mockSessionService{})

	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()

	h.createSession(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSession_ServiceErrors(t *testing.T) {
	identity := testOwner(t)

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"invalid data", service.ErrInvalidDataProvided, http.StatusBadRequest},
		{"stale handshake", service.ErrRequestNotFresh, http.StatusUnauthorized},
		{"bad signature", service.ErrSignatureInvalid, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSessionHandler(&mockSessionService{
				createFn: func(_ context.Context, _ models.SessionRequest) (models.Token, error) {
					return models.Token{}, tt.serviceErr
				},
			})

			payload, err := json.Marshal(models.SessionRequest{Identity: identity, IssuedAt: time.Now(), Signature: "sig"})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewReader(payload))
			rec := httptest.NewRecorder()

			h.createSession(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Header().Get("Authorization"))
		})
	}
}
