package search

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/amishk599/joblens/internal/model"
)

// TrendingKeywords is the keywords value reported for trending results.
const TrendingKeywords = "trending"

var trendingPhrases = []string{
	"software engineer",
	"frontend developer",
	"backend developer",
	"data scientist",
	"devops engineer",
}

var categoryPhrases = map[string][]string{
	"engineering": {"software engineer", "backend developer", "frontend developer", "full stack developer"},
	"data":        {"data scientist", "data engineer", "machine learning engineer", "data analyst"},
	"design":      {"product designer", "ux designer", "ui designer"},
	"devops":      {"devops engineer", "site reliability engineer", "platform engineer", "cloud engineer"},
	"product":     {"product manager", "technical product manager", "product owner"},
}

// Categories lists the category names accepted by Category, sorted.
func Categories() []string {
	names := make([]string, 0, len(categoryPhrases))
	for name := range categoryPhrases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Trending searches each trending phrase and merges the results.
func (o *Orchestrator) Trending(ctx context.Context) (model.SearchResult, error) {
	return o.merge(ctx, TrendingKeywords, trendingPhrases)
}

// Category merges the searches for a named category's phrases.
// Unknown names return model.ErrInvalidQuery.
func (o *Orchestrator) Category(ctx context.Context, name string) (model.SearchResult, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	phrases, ok := categoryPhrases[name]
	if !ok {
		return model.SearchResult{}, fmt.Errorf("%w: unknown category %q (valid: %s)",
			model.ErrInvalidQuery, name, strings.Join(Categories(), ", "))
	}
	return o.merge(ctx, name, phrases)
}

// merge runs one search per phrase, one after another so the per-phrase
// fan-outs don't multiply, then re-ranks the concatenation. The merged
// result is cached only through its per-phrase entries.
func (o *Orchestrator) merge(ctx context.Context, label string, phrases []string) (model.SearchResult, error) {
	var jobs []model.Job
	allCached := true
	for _, phrase := range phrases {
		res, err := o.Search(ctx, model.Query{Keywords: phrase})
		if err != nil {
			return model.SearchResult{}, fmt.Errorf("%s search %q: %w", label, phrase, err)
		}
		allCached = allCached && res.Cached
		jobs = append(jobs, res.Jobs...)
	}

	jobs = o.rank(jobs)
	return model.SearchResult{
		Jobs:      jobs,
		Count:     len(jobs),
		Keywords:  label,
		Sources:   o.sourceNames(),
		Timestamp: o.now().UTC(),
		Cached:    allCached,
	}, nil
}
