// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, JWT token
// generation and validation, signature verification over canonical
// request encodings, and other common operations.
package utils

import (
	"context"

	"github.com/aminovt/solvault/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// IdentityCtxKey is the key used to store the authenticated caller identity
// in the context. Used together with GetIdentityFromContext for type-safe
// retrieval of the owner public key from context.Context.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.IdentityCtxKey, owner)
var IdentityCtxKey = contextKey("identity")

// GetIdentityFromContext retrieves the authenticated caller identity from
// the context.
//
// Returns the identity of type models.Address and an ok flag:
//   - ok == true:  value is found and has the correct type
//   - ok == false: value is missing or has an unexpected type
func GetIdentityFromContext(ctx context.Context) (models.Address, bool) {
	identity, ok := ctx.Value(IdentityCtxKey).(models.Address)
	return identity, ok
}
