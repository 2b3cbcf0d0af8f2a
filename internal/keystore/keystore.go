// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Timur Aminov

// Package keystore persists the client's ed25519 identities in a local
// SQLite file. Private keys are never written in the clear: each key is
// sealed with AES-256-GCM under a key derived from the user's passphrase
// via Argon2id, so the database file alone is useless to an attacker.
package keystore

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/aminovt/solvault/internal/logger"
	"github.com/aminovt/solvault/models"
)

var (
	// ErrIdentityExists is returned by CreateIdentity when an identity with
	// the same name is already stored.
	ErrIdentityExists = errors.New("identity already exists")

	// ErrIdentityNotFound is returned when no identity with the given name
	// is stored.
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrWrongPassphrase is returned by LoadIdentity when the sealed key
	// cannot be opened with the supplied passphrase.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

const schema = `
CREATE TABLE IF NOT EXISTS identities (
    name        TEXT PRIMARY KEY,
    public_key  TEXT NOT NULL,
    sealed_seed BLOB NOT NULL,
    salt        BLOB NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// Keystore is a passphrase-sealed identity store backed by SQLite.
type Keystore struct {
	db     *sql.DB
	sealer *sealer
	logger *logger.Logger
}

// Open opens (or creates) the keystore file at path and ensures the schema
// exists.
func Open(ctx context.Context, path string, log *logger.Logger) (*Keystore, error) {
	if err := createFileIfNotExists(path); err != nil {
		log.Err(err).Str("path", path).Msg("error creating keystore file")
		return nil, fmt.Errorf("error creating keystore file: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening keystore: %w", err)
	}

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting keystore: %w", err)
	}

	if _, err = db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("error creating keystore schema: %w", err)
	}

	log.Debug().Str("path", path).Msg("keystore opened")

	return &Keystore{db: db, sealer: newSealer(), logger: log}, nil
}

// Close releases the underlying database handle.
func (k *Keystore) Close() error {
	return k.db.Close()
}

// CreateIdentity generates a fresh ed25519 key pair, seals the private seed
// under the passphrase and stores it under name. Returns the new identity's
// public address.
func (k *Keystore) CreateIdentity(ctx context.Context, name, passphrase string) (models.Address, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return models.Address{}, fmt.Errorf("key generation failed: %w", err)
	}

	salt, err := k.sealer.generateSalt()
	if err != nil {
		return models.Address{}, fmt.Errorf("salt generation failed: %w", err)
	}

	// Seal only the 32-byte seed; the full private key is re-expanded on load.
	kek := k.sealer.deriveKEK(passphrase, salt)
	sealedSeed, err := k.sealer.seal(priv.Seed(), kek)
	if err != nil {
		return models.Address{}, fmt.Errorf("sealing failed: %w", err)
	}

	address, err := models.AddressFromBytes(pub)
	if err != nil {
		return models.Address{}, err
	}

	_, err = k.db.ExecContext(ctx,
		`INSERT INTO identities (name, public_key, sealed_seed, salt) VALUES (?, ?, ?, ?)`,
		name, address.String(), sealedSeed, salt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Address{}, ErrIdentityExists
		}
		return models.Address{}, fmt.Errorf("storing identity failed: %w", err)
	}

	k.logger.Info().Str("name", name).Stringer("address", address).Msg("identity created")

	return address, nil
}

// LoadIdentity unseals and returns the private key stored under name.
func (k *Keystore) LoadIdentity(ctx context.Context, name, passphrase string) (ed25519.PrivateKey, error) {
	var (
		sealedSeed []byte
		salt       []byte
	)
	row := k.db.QueryRowContext(ctx, `SELECT sealed_seed, salt FROM identities WHERE name = ?`, name)
	if err := row.Scan(&sealedSeed, &salt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, fmt.Errorf("loading identity failed: %w", err)
	}

	kek := k.sealer.deriveKEK(passphrase, salt)
	seed, err := k.sealer.unseal(sealedSeed, kek)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("stored seed has unexpected length %d", len(seed))
	}

	return ed25519.NewKeyFromSeed(seed), nil
}

// Address returns the public address stored under name without requiring
// the passphrase.
func (k *Keystore) Address(ctx context.Context, name string) (models.Address, error) {
	var encoded string
	row := k.db.QueryRowContext(ctx, `SELECT public_key FROM identities WHERE name = ?`, name)
	if err := row.Scan(&encoded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Address{}, ErrIdentityNotFound
		}
		return models.Address{}, fmt.Errorf("loading identity failed: %w", err)
	}

	return models.ParseAddress(encoded)
}

// ListIdentities returns the names of all stored identities in creation
// order.
func (k *Keystore) ListIdentities(ctx context.Context) ([]string, error) {
	rows, err := k.db.QueryContext(ctx, `SELECT name FROM identities ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("listing identities failed: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning identity name failed: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func createFileIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// The default path lives under a dotdir that may not exist yet.
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		return f.Close()
	}
	return nil
}

// isUniqueViolation reports whether err is the sqlite unique constraint
// error raised when an identity name is already taken.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
