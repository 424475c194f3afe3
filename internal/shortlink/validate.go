package shortlink

import (
	"net/url"
	"strings"

	"github.com/MagnunAVF/clicklink/internal/apperror"
)

const MaxURLLength = 2083

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return apperror.Validation("URL cannot be empty")
	}
	if len(raw) > MaxURLLength {
		return apperror.Validation("URL must be at most 2083 characters")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return apperror.Validation("Invalid URL")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return apperror.Validation("URL scheme must be http or https")
	}
	if u.Host == "" || u.Hostname() == "" {
		return apperror.Validation("URL must include a host")
	}
	return nil
}
