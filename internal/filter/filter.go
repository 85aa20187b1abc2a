// Package filter matches raw listings against a search query for sources that
// return a whole board instead of searching server-side.
package filter

import (
	"strings"

	"github.com/amishk599/joblens/internal/model"
)

var _ model.RawJobFilter = (*QueryFilter)(nil)

// QueryFilter matches jobs whose title or description contains every keyword
// term and whose location contains the location phrase.
// Matching is case-insensitive. An empty location matches every job.
type QueryFilter struct {
	terms    []string
	location string
}

// NewQueryFilter builds a filter from the raw query strings.
func NewQueryFilter(keywords, location string) *QueryFilter {
	return &QueryFilter{
		terms:    strings.Fields(strings.ToLower(keywords)),
		location: strings.ToLower(strings.Join(strings.Fields(location), " ")),
	}
}

// ForQuery is shorthand for NewQueryFilter(q.Keywords, q.Location).
func ForQuery(q model.Query) *QueryFilter {
	return NewQueryFilter(q.Keywords, q.Location)
}

// Match returns true if every keyword term appears in the title or
// description, and the location phrase appears in the location.
func (f *QueryFilter) Match(job model.RawJob) bool {
	haystack := strings.ToLower(job.Title + " " + job.Description)
	for _, term := range f.terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}

	if f.location != "" {
		loc := strings.ToLower(job.Location)
		if !strings.Contains(loc, f.location) {
			return false
		}
	}

	return true
}

// Apply returns the jobs that match f, preserving order.
func Apply(f model.RawJobFilter, jobs []model.RawJob) []model.RawJob {
	var matched []model.RawJob
	for _, j := range jobs {
		if f.Match(j) {
			matched = append(matched, j)
		}
	}
	return matched
}
