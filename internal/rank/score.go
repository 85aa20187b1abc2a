package rank

import (
	"sort"
	"unicode/utf8"

	"github.com/amishk599/joblens/internal/model"
	"github.com/amishk599/joblens/internal/normalize"
)

const (
	baseScore         = 50
	identityBonus     = 20
	salaryBonus       = 15
	descriptionBonus  = 10
	urlBonus          = 5
	maxScore          = 100
	minDescriptionLen = 50
)

// Score rates how complete a normalized job is, in [0,100].
func Score(job model.Job) int {
	score := baseScore
	if !normalize.IsPlaceholder(job.Title) && !normalize.IsPlaceholder(job.Company) {
		score += identityBonus
	}
	if job.Salary != "" {
		score += salaryBonus
	}
	if utf8.RuneCountInString(job.Description) > minDescriptionLen {
		score += descriptionBonus
	}
	if job.URL != "" {
		score += urlBonus
	}
	return min(max(score, 0), maxScore)
}

// ScoreAll sets RelevanceScore on every job in place.
func ScoreAll(jobs []model.Job) {
	for i := range jobs {
		jobs[i].RelevanceScore = Score(jobs[i])
	}
}

// SortByScore orders jobs by RelevanceScore, highest first. Equal scores keep
// their relative order.
func SortByScore(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].RelevanceScore > jobs[j].RelevanceScore
	})
}
