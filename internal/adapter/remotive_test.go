package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amishk599/joblens/internal/model"
)

func TestRemotiveSearch_Success(t *testing.T) {
	payload := `{
		"job-count": 1,
		"jobs": [
			{
				"id": 2011,
				"url": "https://remotive.com/remote-jobs/software-dev/backend-engineer-2011",
				"title": "Backend Engineer",
				"company_name": "Hooli",
				"job_type": "full_time",
				"publication_date": "2026-03-10T14:22:51",
				"candidate_required_location": "USA Only",
				"salary": "$100k - $130k",
				"description": "<p>Go &amp; PostgreSQL</p>"
			}
		]
	}`
	var gotSearch, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewRemotiveAdapter(testClient(srv))

	jobs, err := a.Search(context.Background(), model.Query{Keywords: "backend engineer"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotSearch != "backend engineer" {
		t.Errorf("expected keywords forwarded, got %q", gotSearch)
	}
	if gotLimit != "50" {
		t.Errorf("expected limit 50, got %q", gotLimit)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Company != "Hooli" || j.Location != "USA Only" {
		t.Errorf("unexpected job %+v", j)
	}
	if j.Type != "Full-time" {
		t.Errorf("expected mapped job type, got %s", j.Type)
	}
	if j.Description != "Go & PostgreSQL" {
		t.Errorf("unexpected description %q", j.Description)
	}
	if j.PostedDate != "2026-03-10T14:22:51" {
		t.Errorf("unexpected date %s", j.PostedDate)
	}
}

func TestRemotiveSearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewRemotiveAdapter(testClient(srv)).Search(context.Background(), model.Query{Keywords: "go"}); err == nil {
		t.Fatal("expected error for HTTP 502, got nil")
	}
}
