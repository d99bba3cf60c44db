// Package cnr normalizes Case Number Record identifiers. A CNR is a
// 16-character alphanumeric court case identifier (e.g. DLCT010001232023),
// often embedded in free text such as "CNR NO: DLCT010001232023".
package cnr

import (
	"fmt"
	"regexp"
	"strings"

	"legal-backend/internal/upstream"
)

var runPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// Normalize extracts the CNR from raw input, stripping any non-alphanumeric
// prefix or suffix noise. It returns the uppercased 16-character identifier
// or upstream.ErrInvalidInput when no candidate run exists.
func Normalize(raw string) (string, error) {
	for _, run := range runPattern.FindAllString(raw, -1) {
		if len(run) != 16 {
			continue
		}
		candidate := strings.ToUpper(run)
		if !strings.ContainsAny(candidate, "0123456789") {
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("%w: no 16-character CNR found in %q", upstream.ErrInvalidInput, truncate(raw, 80))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
