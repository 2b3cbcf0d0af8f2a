// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/aminovt/solvault/internal/config"
	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/internal/utils"
	"github.com/aminovt/solvault/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// operationPaths maps each operation kind to its endpoint, mirroring the
// server's route layout.
var operationPaths = map[models.OperationKind]string{
	models.OpInitialize: "/api/vault/initialize",
	models.OpDeposit:    "/api/vault/deposit",
	models.OpWithdraw:   "/api/vault/withdraw",
	models.OpClose:      "/api/vault/close",
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.BaseURL and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	return h.token
}

// CreateSession implements [ServerAdapter]. It POSTs the signed handshake
// to POST /api/session. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns an error
// if the request fails, the server returns a non-2xx status, or the token
// cannot be parsed.
func (h *httpServerAdapter) CreateSession(ctx context.Context, request models.SessionRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post("/api/session")
	if err != nil {
		return fmt.Errorf("session request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("session parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

// Execute implements [ServerAdapter]. It POSTs the signed operation to the
// endpoint matching request.Op and decodes the operation result. Requires
// a valid bearer token.
func (h *httpServerAdapter) Execute(ctx context.Context, request models.OperationRequest) (models.OperationResult, error) {
	path, ok := operationPaths[request.Op]
	if !ok {
		return models.OperationResult{}, fmt.Errorf("unknown operation %q", request.Op)
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		Post(path)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("%s request: %w", request.Op, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.OperationResult{}, err
	}

	var result models.OperationResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.OperationResult{}, fmt.Errorf("decode %s response: %w", request.Op, err)
	}

	return result, nil
}

// Status implements [ServerAdapter]. It GETs /api/vault and decodes the
// vault projection. The server infers the owner from the bearer token.
// Requires a valid bearer token.
func (h *httpServerAdapter) Status(ctx context.Context) (models.VaultView, error) {
	resp, err := h.authedRequest(ctx).Get("/api/vault")
	if err != nil {
		return models.VaultView{}, fmt.Errorf("status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VaultView{}, err
	}

	var view models.VaultView
	if err = json.Unmarshal(resp.Body(), &view); err != nil {
		return models.VaultView{}, fmt.Errorf("decode status response: %w", err)
	}

	return view, nil
}

// ServerVersion implements [ServerAdapter]. It GETs /api/version and
// returns the plain-text body.
func (h *httpServerAdapter) ServerVersion(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(string(resp.Body())), nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
