package utils

import (
	"strconv"
	"strings"

	"github.com/turtacn/adminauth/pkg/constants"
)

// ExtractBearer returns the raw token from an Authorization header value.
// The header must start with the exact "Bearer " prefix; anything else yields ok=false.
func ExtractBearer(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, constants.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(authHeader[len(constants.BearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// TokenPreview returns a log-safe preview of a token: a short prefix and the total length.
func TokenPreview(token string) string {
	n := constants.TokenPreviewLength
	if len(token) <= n {
		return "***(len=" + strconv.Itoa(len(token)) + ")"
	}
	return token[:n] + "...(len=" + strconv.Itoa(len(token)) + ")"
}
