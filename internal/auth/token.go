package auth

import (
	"fmt"
	"net/http"
	"strings"

	"spotgate/internal/core"
)

const bearerScheme = "bearer"

// TokenFromRequest returns the access token carried in the Authorization header.
// Both a raw token and "Bearer <token>" are accepted.
func TokenFromRequest(r *http.Request) (string, error) {
	return TokenFromHeader(r.Header.Get("Authorization"))
}

func TokenFromHeader(header string) (string, error) {
	token := strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, bearerScheme) {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, bearerScheme) {
		token = ""
	}

	if token == "" {
		return "", fmt.Errorf("%w: missing authorization header", core.ErrInvalidToken)
	}
	return token, nil
}
