package core

import "errors"

// Authentication and playback failures. Components wrap the upstream cause
// with one of these so callers can dispatch with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")

	ErrMissingCode    = errors.New("authorization code missing from redirect url")
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	ErrInvalidToken   = errors.New("invalid access token")

	ErrNoActiveDevice  = errors.New("no active device")
	ErrCommandRejected = errors.New("playback command rejected")
	ErrFetchFailed     = errors.New("failed to fetch playback state")
)

// ErrorKind returns a short label for err, used for metrics and log fields.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrMissingCode):
		return "missing_code"
	case errors.Is(err, ErrExchangeFailed):
		return "exchange_failed"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, ErrNoActiveDevice):
		return "no_active_device"
	case errors.Is(err, ErrCommandRejected):
		return "command_rejected"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	default:
		return "unknown"
	}
}
