package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.Handler) ServerAdapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewHTTPServerAdapter(config.ClientAdapter{
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	return a
}

func testIdentity(t *testing.T) models.Address {
	t.Helper()
	raw := make([]byte, models.AddressLength)
	for i := range raw {
		raw[i] = byte(i + 7)
	}
	identity, err := models.AddressFromBytes(raw)
	require.NoError(t, err)
	return identity
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"full url", "http://localhost:8080", "http://localhost:8080", false},
		{"no scheme", "localhost:8080", "http://localhost:8080", false},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080", false},
		{"empty", "", "", true},
		{"whitespace", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateSession_StoresToken(t *testing.T) {
	identity := testIdentity(t)

	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/session", r.URL.Path)

		var request models.SessionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		assert.True(t, request.Identity.Equal(identity))

		w.Header().Set("Authorization", "Bearer issued-token")
		w.WriteHeader(http.StatusOK)
	}))

	err := a.CreateSession(context.Background(), models.SessionRequest{
		Identity:  identity,
		IssuedAt:  time.Now(),
		Signature: "sig",
	})

	require.NoError(t, err)
	assert.Equal(t, "issued-token", a.Token())
}

func TestCreateSession_Rejected(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "signature verification failed", http.StatusUnauthorized)
	}))

	err := a.CreateSession(context.Background(), models.SessionRequest{Identity: testIdentity(t)})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, a.Token())
}

func TestExecute_SendsTokenAndDecodesResult(t *testing.T) {
	identity := testIdentity(t)

	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vault/deposit", r.URL.Path)
		require.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))

		var request models.OperationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))

		result := models.OperationResult{
			Op:      request.Op,
			Owner:   request.Owner,
			Amount:  request.Amount,
			Balance: 500,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}))
	a.SetToken("session-token")

	result, err := a.Execute(context.Background(), models.OperationRequest{
		Op:        models.OpDeposit,
		Owner:     identity,
		Amount:    500,
		IssuedAt:  time.Now(),
		Signature: "sig",
	})

	require.NoError(t, err)
	assert.Equal(t, uint64(500), result.Balance)
	assert.True(t, result.Owner.Equal(identity))
}

func TestExecute_UnknownOperation(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server must not be reached")
	}))

	_, err := a.Execute(context.Background(), models.OperationRequest{Op: "transfer"})

	assert.Error(t, err)
}

func TestExecute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"conflict", http.StatusConflict, ErrConflict},
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rejected", http.StatusUnprocessableEntity, ErrUnprocessable},
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tt.name, tt.status)
			}))
			a.SetToken("session-token")

			_, err := a.Execute(context.Background(), models.OperationRequest{
				Op:    models.OpWithdraw,
				Owner: testIdentity(t),
			})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatus_DecodesView(t *testing.T) {
	identity := testIdentity(t)

	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/vault", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.VaultView{Owner: identity, Balance: 1234})
	}))
	a.SetToken("session-token")

	view, err := a.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint64(1234), view.Balance)
	assert.True(t, view.Owner.Equal(identity))
}

func TestServerVersion(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/version", r.URL.Path)
		w.Write([]byte("1.4.0\n"))
	}))

	version, err := a.ServerVersion(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "1.4.0", version)
}
