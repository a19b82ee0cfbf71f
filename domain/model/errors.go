package model

import "errors"

// Integration failure taxonomy. Boundary handlers translate these into
// redirect error codes or {success:false} results; raw provider responses
// stay in the server logs.
var (
	ErrUnauthorized            = errors.New("unauthorized")
	ErrNotConnected            = errors.New("account not connected")
	ErrInvalidState            = errors.New("invalid state token")
	ErrExpiredState            = errors.New("expired state token")
	ErrTokenExchangeFailed     = errors.New("token exchange failed")
	ErrLongTokenExchangeFailed = errors.New("long-lived token exchange failed")
	ErrProfileFetchFailed      = errors.New("profile fetch failed")
	ErrRemoteFetchFailed       = errors.New("remote fetch failed")
	ErrNotFound                = errors.New("not found")
)
