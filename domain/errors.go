package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput     = errors.New("Given Param is not valid")
	ErrUnsupportedSchema = errors.New("Unsupported schema")
	ErrInvalidJsonFormat = errors.New("invalid JSON format")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")
	ErrUnauthorized   = errors.New("Unauthorized")

	// marketplace
	ErrInvalidPriceRange  = errors.New("invalid price range")
	ErrUnknownDimension   = errors.New("unknown filter dimension")
	ErrSessionClosed      = errors.New("session closed")
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrMalformedListing   = errors.New("malformed listing account")
	// ErrStaleRefresh is returned by a refresh whose result was superseded by a later one
	ErrStaleRefresh = errors.New("refresh result superseded")
)
