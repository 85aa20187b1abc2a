package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/joblens/internal/filter"
	"github.com/amishk599/joblens/internal/model"
)

const ashbyBaseURL = "https://api.ashbyhq.com/posting-api/job-board"

// ashbyJob represents a single job in the Ashby API response.
type ashbyJob struct {
	Title            string             `json:"title"`
	Location         string             `json:"location"`
	JobUrl           string             `json:"jobUrl"`
	PublishedAt      string             `json:"publishedAt"`
	IsListed         bool               `json:"isListed"`
	IsRemote         bool               `json:"isRemote"`
	EmploymentType   string             `json:"employmentType"`
	DescriptionPlain string             `json:"descriptionPlain"`
	DescriptionHTML  string             `json:"descriptionHtml"`
	Compensation     *ashbyCompensation `json:"compensation"`
}

type ashbyCompensation struct {
	Summary string `json:"compensationTierSummary"`
}

// ashbyResponse is the top-level Ashby job board API response.
type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

// AshbyAdapter searches one company's Ashby job board.
type AshbyAdapter struct {
	name        string
	boardToken  string
	companyName string
	client      *http.Client
}

var _ model.JobSource = (*AshbyAdapter)(nil)

// NewAshbyAdapter creates a new adapter for an Ashby job board.
func NewAshbyAdapter(name, boardToken, companyName string, client *http.Client) *AshbyAdapter {
	return &AshbyAdapter{
		name:        name,
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
	}
}

func (a *AshbyAdapter) Info() model.SourceInfo {
	return model.SourceInfo{Name: a.name, BaseURL: "https://jobs.ashbyhq.com"}
}

// Search fetches the listed postings and returns those matching q.
func (a *AshbyAdapter) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	url := fmt.Sprintf("%s/%s?includeCompensation=true", ashbyBaseURL, a.boardToken)

	resp, err := get(ctx, a.client, a.name, url, acceptJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ashbyResp ashbyResponse
	if err := json.NewDecoder(resp.Body).Decode(&ashbyResp); err != nil {
		return nil, fmt.Errorf("%s fetch for %s: %w", a.name, a.boardToken, err)
	}

	jobs := make([]model.RawJob, 0, len(ashbyResp.Jobs))
	for _, aj := range ashbyResp.Jobs {
		if !aj.IsListed {
			continue
		}

		desc := aj.DescriptionPlain
		if desc == "" {
			desc = extractText(aj.DescriptionHTML)
		}

		job := model.RawJob{
			Title:       aj.Title,
			Company:     a.companyName,
			Location:    markRemote(aj.Location, aj.IsRemote),
			Description: desc,
			URL:         aj.JobUrl,
			PostedDate:  aj.PublishedAt,
			Type:        aj.EmploymentType,
		}
		if aj.Compensation != nil {
			job.Salary = aj.Compensation.Summary
		}

		jobs = append(jobs, job)
	}

	return filter.Apply(filter.ForQuery(q), jobs), nil
}
