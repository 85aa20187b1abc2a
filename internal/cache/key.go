// Package cache stores search results for a bounded freshness window.
package cache

import (
	"strings"
	"time"

	"github.com/amishk599/joblens/internal/normalize"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 10 * time.Minute

// Key derives the cache key for a query. Inputs that differ only in case or
// whitespace map to the same key.
func Key(keywords, location string) string {
	return "search:" + strings.ToLower(normalize.CleanText(keywords)) + ":" + strings.ToLower(normalize.CleanText(location))
}
