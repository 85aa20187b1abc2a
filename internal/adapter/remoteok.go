package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amishk599/joblens/internal/filter"
	"github.com/amishk599/joblens/internal/model"
)

const remoteOKURL = "https://remoteok.com/api"

// remoteOKJob is one element of the RemoteOK feed. The first element of the
// feed is a legal notice with no position, which is skipped.
type remoteOKJob struct {
	Legal       string   `json:"legal"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	SalaryMin   int64    `json:"salary_min"`
	SalaryMax   int64    `json:"salary_max"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

// RemoteOKAdapter searches the RemoteOK public feed. The feed is a single
// document of recent postings; keywords are matched locally against title,
// description and tags. Location is ignored since every posting is remote.
type RemoteOKAdapter struct {
	client *http.Client
}

var _ model.JobSource = (*RemoteOKAdapter)(nil)

func NewRemoteOKAdapter(client *http.Client) *RemoteOKAdapter {
	return &RemoteOKAdapter{client: client}
}

func (a *RemoteOKAdapter) Info() model.SourceInfo {
	return model.SourceInfo{Name: "remoteok", RemoteOnly: true, BaseURL: "https://remoteok.com"}
}

func (a *RemoteOKAdapter) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	resp, err := get(ctx, a.client, "remoteok", remoteOKURL, acceptJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var feed []remoteOKJob
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}

	match := filter.NewQueryFilter(q.Keywords, "")
	var jobs []model.RawJob
	for _, rj := range feed {
		if rj.Position == "" {
			continue
		}

		job := model.RawJob{
			Title:       rj.Position,
			Company:     rj.Company,
			Location:    rj.Location,
			Salary:      formatSalary(rj.SalaryMin, rj.SalaryMax, "USD"),
			Description: extractText(rj.Description),
			URL:         rj.URL,
			PostedDate:  rj.Date,
		}

		probe := job
		probe.Description += " " + strings.Join(rj.Tags, " ")
		if !match.Match(probe) {
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}
