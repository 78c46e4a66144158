package directory

import (
	"strconv"
	"strings"

	"github.com/sis-thesqd/hub-thesquad-sub000/internal/config"
)

// slug.go - URL path segment handling for directory entries.
//
// Slugs are only unique among siblings sharing a parent, never globally.
// Collision handling appends the first free numeric suffix (-2, -3, ...).

// Slugify lowers a display name into a URL path segment: lowercase
// alphanumerics with single dashes, trimmed at the edges.
//
// Examples:
//   - Slugify("Time Off Request") → "time-off-request"
//   - Slugify("  Q3 — Reports  ") → "q3-reports"
func Slugify(name string) string {
	slug := make([]rune, 0, len(name))
	lastDash := false
	for _, ch := range strings.ToLower(strings.TrimSpace(name)) {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') {
			slug = append(slug, ch)
			lastDash = false
			continue
		}
		if !lastDash {
			slug = append(slug, '-')
			lastDash = true
		}
	}
	text := strings.Trim(string(slug), "-")
	if text == "" {
		text = "page"
	}
	if len(text) > config.MaxSlugLength {
		text = strings.TrimRight(text[:config.MaxSlugLength], "-")
	}
	return text
}

// NextFreeSlug returns base if it is not taken, otherwise the first free
// "base-N" starting at N=2. The caller owns reserving the result in taken so
// later assignments in the same batch don't collide.
func NextFreeSlug(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !taken[candidate] {
			return candidate
		}
	}
}
