package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/joblens/internal/model"
)

const weWorkRemotelyPage = `<html><body>
<section class="jobs">
  <ul>
    <li class="feature">
      <a href="/company/stark-industries">logo</a>
      <a href="/remote-jobs/stark-industries-senior-go-engineer">
        <span class="company">Stark Industries</span>
        <span class="title">Senior Go Engineer</span>
        <span class="company">Full-Time</span>
        <span class="region company">Anywhere in the World</span>
        <span class="date"><time datetime="2026-03-09T16:00:00Z">Mar 9</time></span>
      </a>
    </li>
    <li>
      <a href="/remote-jobs/acme-devops-lead">
        <span class="company">Acme</span>
        <span class="title">DevOps Lead</span>
        <span class="region company">USA Only</span>
        <span class="date">Mar 7</span>
      </a>
    </li>
    <li class="view-all"><a href="/categories/remote-programming-jobs">View all</a></li>
  </ul>
</section>
</body></html>`

func TestWeWorkRemotelySearch_ParsesListings(t *testing.T) {
	var gotTerm, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTerm = r.URL.Query().Get("term")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(weWorkRemotelyPage))
	}))
	defer srv.Close()

	a := NewWeWorkRemotelyAdapter(testClient(srv))

	jobs, err := a.Search(context.Background(), model.Query{Keywords: "go"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/remote-jobs/search" || gotTerm != "go" {
		t.Errorf("unexpected request path=%s term=%q", gotPath, gotTerm)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 listings (view-all skipped), got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Senior Go Engineer" || j.Company != "Stark Industries" {
		t.Errorf("unexpected job %+v", j)
	}
	if j.URL != "/remote-jobs/stark-industries-senior-go-engineer" {
		t.Errorf("expected relative link, got %q", j.URL)
	}
	if j.Location != "Anywhere in the World" {
		t.Errorf("unexpected region %q", j.Location)
	}
	if j.PostedDate != "2026-03-09T16:00:00Z" {
		t.Errorf("expected datetime attribute, got %q", j.PostedDate)
	}
	if jobs[1].PostedDate != "Mar 7" {
		t.Errorf("expected date text fallback, got %q", jobs[1].PostedDate)
	}
}

func TestWeWorkRemotelySearch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewWeWorkRemotelyAdapter(testClient(srv)).Search(context.Background(), model.Query{Keywords: "go"})
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", httpErr.StatusCode)
	}
}

func TestWeWorkRemotelySearch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := NewWeWorkRemotelyAdapter(testClient(srv)).Search(ctx, model.Query{Keywords: "go"}); err == nil {
		t.Fatal("expected error after context deadline, got nil")
	}
}
