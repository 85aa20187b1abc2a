package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/joblens/internal/model"
)

const indeedBaseURL = "https://www.indeed.com"

// Selectors cover both the current card markup and the older SERP layout.
const (
	indeedCardSelector     = "div.job_seen_beacon, div.jobsearch-SerpJobCard"
	indeedTitleSelector    = "h2.jobTitle, h2.title"
	indeedLinkSelector     = "h2.jobTitle a, a.jcs-JobTitle, h2.title a"
	indeedCompanySelector  = "[data-testid='company-name'], span.companyName, span.company"
	indeedLocationSelector = "[data-testid='text-location'], div.companyLocation, .location"
	indeedSalarySelector   = "div.salary-snippet-container, span.salary-snippet, span.salaryText"
	indeedSnippetSelector  = "div.job-snippet, div.summary"
	indeedDateSelector     = "span.date, [data-testid='myJobsStateDate']"
)

// IndeedAdapter scrapes Indeed's search results page. Links are returned as
// found in the page, usually relative to the site root.
type IndeedAdapter struct {
	client *http.Client
}

var _ model.JobSource = (*IndeedAdapter)(nil)

func NewIndeedAdapter(client *http.Client) *IndeedAdapter {
	return &IndeedAdapter{client: client}
}

func (a *IndeedAdapter) Info() model.SourceInfo {
	return model.SourceInfo{Name: "indeed", BaseURL: indeedBaseURL}
}

func (a *IndeedAdapter) Search(ctx context.Context, q model.Query) ([]model.RawJob, error) {
	params := url.Values{}
	params.Set("q", q.Keywords)
	if q.Location != "" {
		params.Set("l", q.Location)
	}
	params.Set("sort", "date")

	resp, err := get(ctx, a.client, "indeed", indeedBaseURL+"/jobs?"+params.Encode(), acceptHTML)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("indeed parse: %w", err)
	}

	return parseIndeedCards(doc), nil
}

func parseIndeedCards(doc *goquery.Document) []model.RawJob {
	var jobs []model.RawJob
	doc.Find(indeedCardSelector).Each(func(_ int, card *goquery.Selection) {
		title := selectionText(card.Find(indeedTitleSelector).First())
		if title == "" {
			return
		}
		href, _ := card.Find(indeedLinkSelector).First().Attr("href")

		jobs = append(jobs, model.RawJob{
			Title:       title,
			Company:     selectionText(card.Find(indeedCompanySelector).First()),
			Location:    selectionText(card.Find(indeedLocationSelector).First()),
			Salary:      selectionText(card.Find(indeedSalarySelector).First()),
			Description: selectionText(card.Find(indeedSnippetSelector).First()),
			URL:         href,
			PostedDate:  selectionText(card.Find(indeedDateSelector).First()),
		})
	})
	return jobs
}
