package common

import "strings"

// Reasons a bearer credential could not be extracted.
const (
	ReasonMissingHeader = "missing_header"
	ReasonBadScheme     = "bad_scheme"
)

// ParseBearer extracts the token from an "Authorization: Bearer <token>"
// value. On failure the token is empty and reason says why.
func ParseBearer(header string) (token string, reason string) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ReasonMissingHeader
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerScheme) {
		return "", ReasonBadScheme
	}
	return parts[1], ""
}
