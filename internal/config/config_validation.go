// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

package config

// defaults applied by validate for optional settings.
const (
	defaultTokenDuration   = "1h"
	defaultSignatureWindow = "2m"
	defaultAuditPageSize   = 200
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup, filling defaults
// for optional fields.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = mustDuration(defaultTokenDuration)
	}
	if cfg.App.SignatureWindow == 0 {
		cfg.App.SignatureWindow = mustDuration(defaultSignatureWindow)
	}
	if cfg.Workers.AuditPageSize <= 0 {
		cfg.Workers.AuditPageSize = defaultAuditPageSize
	}

	return nil
}

// validate checks the CLI client configuration.
func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Keystore.Path == "" {
		return ErrInvalidStorageConfigs
	}

	return nil
}
