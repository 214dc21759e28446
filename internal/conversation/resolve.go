package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/hammamikhairi/bigbite/internal/domain"
)

// maxDistanceRatio is the largest edit distance, relative to the longer
// string, that still counts as a fuzzy match.
const maxDistanceRatio = 0.4

// Resolve maps a payload to a 0-based index into names. The payload may be
// a 1-based number, an exact name (case-insensitive), a substring of a
// name, or a near miss within maxDistanceRatio. Ties go to the earliest
// entry.
func Resolve(payload string, names []string) (int, error) {
	q := strings.TrimSpace(payload)
	if q == "" {
		return -1, fmt.Errorf("resolve: empty selection: %w", domain.ErrNotFound)
	}

	if n, err := strconv.Atoi(q); err == nil {
		if n < 1 || n > len(names) {
			return -1, fmt.Errorf("resolve: %d is not between 1 and %d: %w", n, len(names), domain.ErrNotFound)
		}
		return n - 1, nil
	}

	lq := strings.ToLower(q)
	for i, name := range names {
		if strings.ToLower(name) == lq {
			return i, nil
		}
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lq) {
			return i, nil
		}
	}

	best, bestRatio := -1, maxDistanceRatio
	for i, name := range names {
		ln := strings.ToLower(name)
		longest := max(len(ln), len(lq))
		if longest == 0 {
			continue
		}
		ratio := float64(levenshtein.ComputeDistance(ln, lq)) / float64(longest)
		if ratio < bestRatio {
			best, bestRatio = i, ratio
		}
	}
	if best < 0 {
		return -1, fmt.Errorf("resolve: no match for %q: %w", q, domain.ErrNotFound)
	}
	return best, nil
}
