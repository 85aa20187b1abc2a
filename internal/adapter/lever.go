package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/amishk599/joblens/internal/filter"
	"github.com/amishk599/joblens/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever job.
type leverCategories struct {
	Team         string   `json:"team"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

type leverSalaryRange struct {
	Currency string `json:"currency"`
	Interval string `json:"interval"`
	Min      int64  `json:"min"`
	Max      int64  `json:"max"`
}

// leverJob represents a single job in the Lever API response.
type leverJob struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	Description      string            `json:"description"`
	DescriptionPlain string            `json:"descriptionPlain"`
	Categories       leverCategories   `json:"categories"`
	CreatedAt        int64             `json:"createdAt"`
	WorkplaceType    string            `json:"workplaceType"`
	HostedURL        string            `json:"hostedUrl"`
	ApplyURL         string            `json:"applyUrl"`
	SalaryRange      *leverSalaryRange `json:"salaryRange"`
}

// LeverAdapter searches one company's Lever postings.
type LeverAdapter struct {
	name        string
	companySlug string
	companyName string
	client      *http.Client
}

var _ model.JobSource = (*LeverAdapter)(nil)

// NewLeverAdapter creates a new adapter for a Lever board.
func NewLeverAdapter(name, companySlug, companyName string, client *http.Client) *LeverAdapter {
	return &LeverAdapter{
		name:        name,
		companySlug: companySlug,
		companyName: companyName,
		client:      client,
	}
}

func (a *LeverAdapter) Info() model.SourceInfo {
	return model.SourceInfo{Name: a.name, BaseURL: "https://jobs.lever.co"}
}

// Search fetches all postings and returns those matching q.
func (a *LeverAdapter) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	url := fmt.Sprintf("%s/%s?mode=json", leverBaseURL, a.companySlug)

	resp, err := get(ctx, a.client, a.name, url, acceptJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var leverJobs []leverJob
	if err := json.NewDecoder(resp.Body).Decode(&leverJobs); err != nil {
		return nil, fmt.Errorf("%s fetch for %s: %w", a.name, a.companySlug, err)
	}

	jobs := make([]model.RawJob, 0, len(leverJobs))
	for _, lj := range leverJobs {
		desc := lj.DescriptionPlain
		if desc == "" {
			desc = extractText(lj.Description)
		}

		location := lj.Categories.Location
		if len(lj.Categories.AllLocations) > 0 {
			location = strings.Join(lj.Categories.AllLocations, ", ")
		}

		job := model.RawJob{
			Title:       lj.Text,
			Company:     a.companyName,
			Location:    markRemote(location, lj.WorkplaceType == "remote"),
			Description: desc,
			URL:         lj.HostedURL,
			Type:        lj.Categories.Commitment,
		}
		if lj.CreatedAt > 0 {
			job.PostedDate = strconv.FormatInt(lj.CreatedAt, 10)
		}
		if sr := lj.SalaryRange; sr != nil {
			job.Salary = formatSalary(sr.Min, sr.Max, sr.Currency)
		}

		jobs = append(jobs, job)
	}

	return filter.Apply(filter.ForQuery(q), jobs), nil
}
