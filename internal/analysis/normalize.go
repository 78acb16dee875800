package analysis

import (
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/validatehq/idea-cli/internal/model"
)

// NormalizeDomain canonicalizes a competitor URL to a bare lower-cased
// hostname with any leading "www." removed. When the URL does not parse as
// an absolute URL, it falls back to string-level stripping of the protocol,
// "www." prefix, and path.
func NormalizeDomain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err == nil && u.Hostname() != "" {
		host := strings.ToLower(u.Hostname())
		return strings.TrimPrefix(host, "www.")
	}

	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// dedupeKey computes the identity key for a candidate: the normalized website
// domain when present, else the lower-cased name with whitespace removed.
func dedupeKey(c model.CompetitorCandidate) string {
	if strings.TrimSpace(c.Website) != "" {
		return NormalizeDomain(c.Website)
	}
	return strings.ToLower(strings.Join(strings.Fields(c.Name), ""))
}

// DedupeCandidates keeps the first candidate seen per identity key,
// preserving input order. Idempotent: deduping a deduped list is a no-op.
func DedupeCandidates(in []model.CompetitorCandidate) []model.CompetitorCandidate {
	seen := make(map[string]bool, len(in))
	out := make([]model.CompetitorCandidate, 0, len(in))

	for _, c := range in {
		key := dedupeKey(c)
		if seen[key] {
			zap.L().Debug("discover: skipping duplicate candidate",
				zap.String("name", c.Name),
				zap.String("key", key),
			)
			continue
		}
		seen[key] = true
		out = append(out, c)
	}

	return out
}
