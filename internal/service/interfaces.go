package service

import (
	"context"

	"github.com/aminovt/solvault/models"
)

// VaultService executes signed vault operations against the ledger.
type VaultService interface {
	Execute(ctx context.Context, request models.OperationRequest) (models.OperationResult, error)
	Status(ctx context.Context, owner models.Address) (models.VaultView, error)
}

// SessionService trades a signed handshake for a bearer token and
// validates tokens presented on subsequent requests.
type SessionService interface {
	CreateSession(ctx context.Context, request models.SessionRequest) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService reports build metadata for the version endpoint.
type AppInfoService interface {
	GetAppInfo(ctx context.Context) models.AppBuildInfo
}
