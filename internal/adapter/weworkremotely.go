package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/amishk599/joblens/internal/model"
)

const weWorkRemotelyBaseURL = "https://weworkremotely.com"

// WeWorkRemotelyAdapter crawls the We Work Remotely search page with colly.
// Listing links are site-relative ("/remote-jobs/...").
type WeWorkRemotelyAdapter struct {
	client *http.Client
}

var _ model.JobSource = (*WeWorkRemotelyAdapter)(nil)

func NewWeWorkRemotelyAdapter(client *http.Client) *WeWorkRemotelyAdapter {
	return &WeWorkRemotelyAdapter{client: client}
}

func (a *WeWorkRemotelyAdapter) Info() model.SourceInfo {
	return model.SourceInfo{Name: "weworkremotely", RemoteOnly: true, BaseURL: weWorkRemotelyBaseURL}
}

func (a *WeWorkRemotelyAdapter) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.StdlibContext(ctx),
	)
	if a.client != nil {
		if a.client.Transport != nil {
			c.WithTransport(a.client.Transport)
		}
		if a.client.Timeout > 0 {
			c.SetRequestTimeout(a.client.Timeout)
		}
	}

	var jobs []model.RawJob
	c.OnHTML("section.jobs li", func(e *colly.HTMLElement) {
		href := e.ChildAttr("a[href^='/remote-jobs/']", "href")
		title := strings.TrimSpace(e.ChildText("span.title"))
		if href == "" || title == "" {
			return
		}

		posted := e.ChildAttr("time", "datetime")
		if posted == "" {
			posted = strings.TrimSpace(e.ChildText("span.date"))
		}

		company := ""
		e.ForEachWithBreak("span.company", func(_ int, el *colly.HTMLElement) bool {
			company = strings.TrimSpace(el.Text)
			return false
		})

		jobs = append(jobs, model.RawJob{
			Title:      title,
			Company:    company,
			Location:   strings.TrimSpace(e.ChildText("span.region")),
			URL:        href,
			PostedDate: posted,
		})
	})

	var statusErr *model.HTTPError
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 && r.StatusCode != http.StatusOK {
			statusErr = &model.HTTPError{
				StatusCode: r.StatusCode,
				Err:        fmt.Errorf("weworkremotely fetch: unexpected status %d", r.StatusCode),
			}
			if r.Headers != nil {
				statusErr.RetryAfter = parseRetryAfter(r.Headers.Get("Retry-After"))
			}
		}
	})

	params := url.Values{}
	params.Set("term", q.Keywords)
	if err := c.Visit(weWorkRemotelyBaseURL + "/remote-jobs/search?" + params.Encode()); err != nil {
		if statusErr != nil {
			return nil, statusErr
		}
		return nil, fmt.Errorf("weworkremotely fetch: %w", err)
	}
	c.Wait()

	return jobs, nil
}
