package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/utils"
	"github.com/aminovt/solvault/models"
)

// sessionService is the concrete implementation of SessionService.
// It verifies signed handshakes against the caller's ed25519 public key
// and manages the JWT token lifecycle for authenticated sessions.
type sessionService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	// signatureWindow bounds the age of a signed handshake. Requests whose
	// IssuedAt falls outside now±signatureWindow are rejected as replays.
	signatureWindow time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewSessionService constructs a SessionService populated with security
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewSessionService(cfg config.App, logger *logger.Logger) SessionService {
	return &sessionService{
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		tokenDuration:   cfg.TokenDuration,
		signatureWindow: cfg.SignatureWindow,
		logger:          logger,
	}
}

// CreateSession verifies a signed handshake and issues a bearer token.
//
// The handshake proves possession of the private key matching
// request.Identity: the signature over the canonical handshake bytes must
// verify against the identity public key, and the embedded timestamp must
// fall within the configured freshness window.
//
// Returns the issued token or:
//   - ErrInvalidDataProvided if the identity or signature is empty.
//   - ErrRequestNotFresh if the handshake timestamp is stale or too far
//     in the future.
//   - ErrSignatureInvalid if the signature does not verify.
func (s *sessionService) CreateSession(ctx context.Context, request models.SessionRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if request.Identity.IsZero() || request.Signature == "" {
		log.Error().Stringer("identity", request.Identity).Msg("invalid session request provided")
		return models.Token{}, ErrInvalidDataProvided
	}

	if age := time.Since(request.IssuedAt); age > s.signatureWindow || age < -s.signatureWindow {
		log.Error().
			Stringer("identity", request.Identity).
			Time("issued_at", request.IssuedAt).
			Msg("session request outside freshness window")
		return models.Token{}, ErrRequestNotFresh
	}

	if err := utils.VerifySignature(request.Identity, request.CanonicalBytes(), request.Signature); err != nil {
		log.Err(err).Stringer("identity", request.Identity).Msg("session signature verification failed")
		return models.Token{}, ErrSignatureInvalid
	}

	token, err := utils.GenerateJWTToken(s.tokenIssuer, request.Identity, s.tokenDuration, s.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature
// and the issuer claim. Any validation failure (expired, wrong issuer,
// malformed, undecodable subject) is normalised to
// ErrTokenIsExpiredOrInvalid so that callers do not need to inspect
// low-level JWT errors.
func (s *sessionService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.tokenSignKey, s.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
