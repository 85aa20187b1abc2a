package model

import (
	"context"
	"time"
)

// RawJob is what a source adapter hands back before normalization.
// Any field may be empty; empty Salary, PostedDate and Type mean "not provided".
type RawJob struct {
	Title       string
	Company     string
	Location    string
	Salary      string
	Description string
	URL         string // may be relative to the source's BaseURL
	PostedDate  string // raw date text in whatever format the source uses
	Type        string // employment type, e.g. "Full-time"
}

// SourceInfo describes an adapter to the normalizer.
type SourceInfo struct {
	Name       string `json:"name"`
	RemoteOnly bool   `json:"remoteOnly"`
	BaseURL    string `json:"baseUrl,omitempty"`
}

// Job is the canonical, source-agnostic representation of a listing.
type Job struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Salary         string   `json:"salary,omitempty"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Source         string   `json:"source"`
	PostedDate     string   `json:"postedDate"` // YYYY-MM-DD
	Type           string   `json:"type,omitempty"`
	Remote         bool     `json:"remote"`
	Skills         []string `json:"skills"`
	RelevanceScore int      `json:"relevanceScore"`
}

// summarySkills is how many skills the list view carries.
const summarySkills = 5

// JobSummary is the list-view projection of a Job.
type JobSummary struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Salary         string   `json:"salary,omitempty"`
	Remote         bool     `json:"remote"`
	Source         string   `json:"source"`
	PostedDate     string   `json:"postedDate"`
	Skills         []string `json:"skills"`
	RelevanceScore int      `json:"relevanceScore"`
}

// Summary projects the job into its list-view shape.
func (j Job) Summary() JobSummary {
	skills := j.Skills
	if len(skills) > summarySkills {
		skills = skills[:summarySkills]
	}
	if skills == nil {
		skills = []string{}
	}
	return JobSummary{
		ID:             j.ID,
		Title:          j.Title,
		Company:        j.Company,
		Location:       j.Location,
		Salary:         j.Salary,
		Remote:         j.Remote,
		Source:         j.Source,
		PostedDate:     j.PostedDate,
		Skills:         skills,
		RelevanceScore: j.RelevanceScore,
	}
}

// Query is a search request as seen by the orchestrator.
type Query struct {
	Keywords   string
	Location   string
	RemoteOnly bool
}

// SearchResult is the response of one search, and also what the result cache holds.
type SearchResult struct {
	Jobs      []Job     `json:"jobs"`
	Count     int       `json:"count"`
	Keywords  string    `json:"keywords"`
	Location  string    `json:"location"`
	Sources   []string  `json:"sources"`
	Timestamp time.Time `json:"timestamp"`
	Cached    bool      `json:"cached"`
}

// FetchOutcome is the typed result of calling one adapter during a search.
// Err is nil on success; a failed adapter contributes no jobs.
type FetchOutcome struct {
	Source  string
	Jobs    []RawJob
	Err     error
	Elapsed time.Duration
}

// JobSource fetches raw listings for a query from one external site.
type JobSource interface {
	Info() SourceInfo
	Search(ctx context.Context, q Query) ([]RawJob, error)
}

// JobStore keeps normalized jobs by id for later lookup.
type JobStore interface {
	Put(job Job) error
	Get(id string) (Job, error)
	Clear() error
	Size() (int, error)
}

// ResultCache holds search results for a bounded time window.
type ResultCache interface {
	Get(ctx context.Context, key string) (SearchResult, bool, error)
	Set(ctx context.Context, key string, result SearchResult, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// RawJobFilter decides whether a raw listing matches a query.
type RawJobFilter interface {
	Match(job RawJob) bool
}
