package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrUnknownOperation    = errors.New("unknown operation")

	ErrSignatureInvalid = errors.New("request signature is invalid")
	ErrRequestNotFresh  = errors.New("request timestamp is outside the freshness window")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")
)
