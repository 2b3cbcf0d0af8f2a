// Package adapter provides the client-side transport to a remote vault
// server. It hides the HTTP wire format behind the [ServerAdapter]
// interface so the client application deals only in domain models.
package adapter

import (
	"context"

	"github.com/aminovt/solvault/models"
)

// ServerAdapter is the client's view of a remote vault server.
//
// CreateSession must be called before any authenticated method; the
// adapter stores the issued bearer token and attaches it to subsequent
// requests.
type ServerAdapter interface {
	// CreateSession exchanges a signed handshake for a bearer token.
	CreateSession(ctx context.Context, request models.SessionRequest) error

	// Execute submits one signed vault operation.
	Execute(ctx context.Context, request models.OperationRequest) (models.OperationResult, error)

	// Status fetches the vault projection for the session identity.
	Status(ctx context.Context) (models.VaultView, error)

	// ServerVersion fetches the server build version. Unauthenticated.
	ServerVersion(ctx context.Context) (string, error)

	// SetToken replaces the bearer token used for authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently held by the adapter.
	Token() string
}
