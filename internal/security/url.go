package security

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateResultURL checks that a judged result points at an absolute
// http(s) URL. It does not resolve the host.
func ValidateResultURL(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("empty url")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported url scheme: %q", parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Hostname()) == "" {
		return fmt.Errorf("url host is required")
	}
	return nil
}
