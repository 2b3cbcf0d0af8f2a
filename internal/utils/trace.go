package utils

import "github.com/google/uuid"

// NewTraceID returns a fresh request trace identifier. UUIDv7 is preferred
// for its time-ordered prefix, which keeps trace ids roughly sortable in
// log storage; on the rare entropy failure a random UUIDv4 is used instead.
func NewTraceID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
