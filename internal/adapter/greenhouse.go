package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/joblens/internal/filter"
	"github.com/amishk599/joblens/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
// With content=true the board endpoint inlines the HTML-encoded description.
type greenhouseJob struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Location       greenhouseLocation `json:"location"`
	AbsoluteURL    string             `json:"absolute_url"`
	FirstPublished string             `json:"first_published"`
	UpdatedAt      string             `json:"updated_at"`
	Content        string             `json:"content"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseAdapter searches one company's Greenhouse board. The board API has
// no search parameter, so the whole board is fetched and filtered locally.
type GreenhouseAdapter struct {
	name        string
	boardToken  string
	companyName string
	client      *http.Client
}

var _ model.JobSource = (*GreenhouseAdapter)(nil)

// NewGreenhouseAdapter creates a new adapter for a Greenhouse board.
func NewGreenhouseAdapter(name, boardToken, companyName string, client *http.Client) *GreenhouseAdapter {
	return &GreenhouseAdapter{
		name:        name,
		boardToken:  boardToken,
		companyName: companyName,
		client:      client,
	}
}

func (a *GreenhouseAdapter) Info() model.SourceInfo {
	return model.SourceInfo{Name: a.name, BaseURL: "https://boards.greenhouse.io"}
}

// Search fetches the board and returns the postings matching q.
func (a *GreenhouseAdapter) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", greenhouseBaseURL, a.boardToken)

	resp, err := get(ctx, a.client, a.name, url, acceptJSON)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("%s fetch for %s: %w", a.name, a.boardToken, err)
	}

	jobs := make([]model.RawJob, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		posted := gj.FirstPublished
		if posted == "" {
			posted = gj.UpdatedAt
		}
		jobs = append(jobs, model.RawJob{
			Title:       gj.Title,
			Company:     a.companyName,
			Location:    gj.Location.Name,
			Description: extractText(gj.Content),
			URL:         gj.AbsoluteURL,
			PostedDate:  posted,
		})
	}

	return filter.Apply(filter.ForQuery(q), jobs), nil
}
