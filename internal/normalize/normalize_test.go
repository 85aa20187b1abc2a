package normalize

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/joblens/internal/model"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	n := 0
	return New(
		WithIDFunc(func() string {
			n++
			return fmt.Sprintf("id%d", n)
		}),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestNormalize_FullRecord(t *testing.T) {
	n := newTestNormalizer()
	raw := model.RawJob{
		Title:       "  Senior   Go Engineer\n",
		Company:     "Acme",
		Location:    "Berlin, Germany",
		Description: "Build Go services on Kubernetes. Pay: $80,000 - $95,000 per year.",
		URL:         "https://jobs.example.com/1",
		PostedDate:  "2026-03-01T09:30:00Z",
		Type:        " Full-time ",
	}

	job := n.Normalize(raw, model.SourceInfo{Name: "greenhouse"})

	assert.Equal(t, "greenhouse-id1", job.ID)
	assert.Equal(t, "Senior Go Engineer", job.Title)
	assert.Equal(t, "Acme", job.Company)
	assert.Equal(t, "Berlin, Germany", job.Location)
	assert.Equal(t, "$80,000 - $95,000", job.Salary)
	assert.Equal(t, "https://jobs.example.com/1", job.URL)
	assert.Equal(t, "greenhouse", job.Source)
	assert.Equal(t, "2026-03-01", job.PostedDate)
	assert.Equal(t, "Full-time", job.Type)
	assert.False(t, job.Remote)
	assert.Equal(t, []string{"Go", "Kubernetes"}, job.Skills)
}

func TestNormalize_EmptyRecordDegrades(t *testing.T) {
	n := newTestNormalizer()

	job := n.Normalize(model.RawJob{}, model.SourceInfo{Name: "indeed"})

	assert.Equal(t, Placeholder, job.Title)
	assert.Equal(t, Placeholder, job.Company)
	assert.Equal(t, Placeholder, job.Location)
	assert.Empty(t, job.Salary)
	assert.Empty(t, job.Description)
	assert.Empty(t, job.URL)
	assert.Equal(t, "2026-03-14", job.PostedDate)
	assert.False(t, job.Remote)
	assert.Empty(t, job.Skills)
}

func TestNormalize_RawSalaryPreferred(t *testing.T) {
	n := newTestNormalizer()
	job := n.Normalize(model.RawJob{
		Salary:      "€50k  - €60k",
		Description: "Also mentions $10 per hour somewhere",
	}, model.SourceInfo{Name: "remotive"})
	assert.Equal(t, "€50k - €60k", job.Salary)
}

func TestNormalize_Remote(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		location string
		info     model.SourceInfo
		want     bool
	}{
		{name: "remote-only source", location: "Worldwide", info: model.SourceInfo{Name: "remoteok", RemoteOnly: true}, want: true},
		{name: "location says remote", location: "REMOTE - US", info: model.SourceInfo{Name: "indeed"}, want: true},
		{name: "on-site", location: "Austin, TX", info: model.SourceInfo{Name: "indeed"}, want: false},
		{name: "no location", location: "", info: model.SourceInfo{Name: "indeed"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := n.Normalize(model.RawJob{Location: tt.location}, tt.info)
			assert.Equal(t, tt.want, job.Remote)
		})
	}
}

func TestNormalize_ResolvesRelativeURLs(t *testing.T) {
	n := newTestNormalizer()
	indeed := model.SourceInfo{Name: "indeed", BaseURL: "https://www.indeed.com"}

	tests := []struct {
		name string
		link string
		info model.SourceInfo
		want string
	}{
		{name: "relative path", link: "/viewjob?jk=abc123", info: indeed, want: "https://www.indeed.com/viewjob?jk=abc123"},
		{name: "absolute untouched", link: "https://example.com/job/1", info: indeed, want: "https://example.com/job/1"},
		{name: "protocol relative", link: "//cdn.example.com/x", info: indeed, want: "https://cdn.example.com/x"},
		{name: "relative without base", link: "/jobs/1", info: model.SourceInfo{Name: "x"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := n.Normalize(model.RawJob{URL: tt.link}, tt.info)
			assert.Equal(t, tt.want, job.URL)
		})
	}
}

func TestNormalize_FreshIDs(t *testing.T) {
	n := New()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		job := n.Normalize(model.RawJob{Title: "Same"}, model.SourceInfo{Name: "s"})
		require.False(t, seen[job.ID], "duplicate id %s", job.ID)
		seen[job.ID] = true
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := newTestNormalizer()
	info := model.SourceInfo{Name: "weworkremotely", RemoteOnly: true, BaseURL: "https://weworkremotely.com"}
	first := n.Normalize(model.RawJob{
		Title:       " Platform\tEngineer ",
		Company:     "Globex",
		Description: "Terraform and AWS. $120k - $150k.",
		URL:         "/remote-jobs/globex-platform-engineer",
		PostedDate:  "3 days ago",
	}, info)

	// Feed the canonical record back in as if an adapter had pre-normalized it.
	second := n.Normalize(model.RawJob{
		Title:       first.Title,
		Company:     first.Company,
		Location:    first.Location,
		Salary:      first.Salary,
		Description: first.Description,
		URL:         first.URL,
		PostedDate:  first.PostedDate,
		Type:        first.Type,
	}, info)

	second.ID = first.ID
	assert.Equal(t, first, second)
}

func TestPostedDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "2026-03-14"},
		{"2026-02-10T09:00:00Z", "2026-02-10"},
		{"2026-02-10T09:00:00", "2026-02-10"},
		{"2026-02-10", "2026-02-10"},
		{"Feb 10, 2026", "2026-02-10"},
		{"1770714000", "2026-02-10"},
		{"1770714000000", "2026-02-10"},
		{"Posted 3 days ago", "2026-03-11"},
		{"30+ days ago", "2026-02-12"},
		{"2 weeks ago", "2026-02-28"},
		{"yesterday", "2026-03-13"},
		{"Just posted", "2026-03-14"},
		{"Mar 10", "2026-03-10"},
		{"Dec 24", "2025-12-24"},
		{"sometime soon", "2026-03-14"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, postedDate(tt.input, fixedNow))
		})
	}
}
