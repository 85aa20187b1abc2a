package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/amishk599/joblens/internal/model"
)

const (
	remotiveURL   = "https://remotive.com/api/remote-jobs"
	remotiveLimit = 50
)

type remotiveJob struct {
	URL                       string `json:"url"`
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	JobType                   string `json:"job_type"`
	PublicationDate           string `json:"publication_date"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	Salary                    string `json:"salary"`
	Description               string `json:"description"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// remotiveJobTypes maps Remotive's job_type codes to display text.
var remotiveJobTypes = map[string]string{
	"full_time":  "Full-time",
	"part_time":  "Part-time",
	"contract":   "Contract",
	"freelance":  "Freelance",
	"internship": "Internship",
}

// RemotiveAdapter searches Remotive, which filters by keyword server-side.
type RemotiveAdapter struct {
	client *http.Client
}

var _ model.JobSource = (*RemotiveAdapter)(nil)

func NewRemotiveAdapter(client *http.Client) *RemotiveAdapter {
	return &RemotiveAdapter{client: client}
}

func (a *RemotiveAdapter) Info() model.SourceInfo {
	return model.SourceInfo{Name: "remotive", RemoteOnly: true, BaseURL: "https://remotive.com"}
}

func (a *RemotiveAdapter) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	params := url.Values{}
	params.Set("search", q.Keywords)
	params.Set("limit", strconv.Itoa(remotiveLimit))

	resp, err := get(ctx, a.client, "remotive", remotiveURL+"?"+params.Encode(), acceptJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rr remotiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return nil, fmt.Errorf("remotive fetch: %w", err)
	}

	jobs := make([]model.RawJob, 0, len(rr.Jobs))
	for _, rj := range rr.Jobs {
		jobType := remotiveJobTypes[rj.JobType]
		if jobType == "" {
			jobType = rj.JobType
		}
		jobs = append(jobs, model.RawJob{
			Title:       rj.Title,
			Company:     rj.CompanyName,
			Location:    rj.CandidateRequiredLocation,
			Salary:      rj.Salary,
			Description: extractText(rj.Description),
			URL:         rj.URL,
			PostedDate:  rj.PublicationDate,
			Type:        jobType,
		})
	}

	return jobs, nil
}
