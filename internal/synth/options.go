package synth

import (
	"strings"

	"github.com/specforge/oas2raw/internal/models"
)

// ParseHost normalizes a user-supplied target into a bare host[:port].
// Pasted scheme prefixes and trailing paths are stripped; the scheme choice
// stays with RuntimeOptions, not the host field.
func ParseHost(raw string) string {
	host := strings.TrimSpace(raw)
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "https://")
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	return host
}

// ParseExtraHeaders parses "Name: Value" lines into ordered headers. Blank
// lines and lines starting with '#' are ignored, as are lines without a
// colon.
func ParseExtraHeaders(text string) []models.Header {
	var headers []models.Header
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		headers = append(headers, models.Header{Name: name, Value: strings.TrimSpace(value)})
	}
	return headers
}
