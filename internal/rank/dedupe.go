// Package rank collapses duplicate listings and orders them by completeness.
package rank

import (
	"strings"

	"github.com/amishk599/joblens/internal/model"
)

// DedupeKey is the lower-cased "{title}-{company}" pair used to detect the
// same posting across sources. Identical title and company at different
// locations collapse into one.
func DedupeKey(job model.Job) string {
	return strings.ToLower(job.Title + "-" + job.Company)
}

// Dedupe keeps the first job for each DedupeKey and drops later ones,
// preserving first-seen order.
func Dedupe(jobs []model.Job) []model.Job {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		key := DedupeKey(job)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out
}
