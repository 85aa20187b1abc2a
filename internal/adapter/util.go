package adapter

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

// blockElements get a trailing space so adjacent blocks don't run together.
const blockElements = "br, p, li, div, tr, h1, h2, h3, h4, h5, h6"

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles Greenhouse's double-encoding;
// no-op on already-real HTML), drops tags, then collapses whitespace.
func extractText(content string) string {
	if content == "" {
		return ""
	}
	unescaped := html.UnescapeString(content)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(unescaped))
	if err != nil {
		return strings.Join(strings.Fields(unescaped), " ")
	}
	doc.Find("script, style").Remove()
	doc.Find(blockElements).AppendHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// selectionText returns the whitespace-collapsed text of s.
func selectionText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// markRemote prefixes location with "Remote" for listings a source flags as
// remote but whose location text doesn't say so.
func markRemote(location string, remote bool) string {
	if !remote || strings.Contains(strings.ToLower(location), "remote") {
		return location
	}
	if location == "" {
		return "Remote"
	}
	return "Remote, " + location
}

// formatSalary renders a numeric range like "$120,000 - $150,000".
// Non-USD currencies are written as a code prefix. Zero bounds are omitted.
func formatSalary(min, max int64, currency string) string {
	if min <= 0 && max <= 0 {
		return ""
	}
	symbol := "$"
	if currency != "" && !strings.EqualFold(currency, "USD") {
		symbol = strings.ToUpper(currency) + " "
	}
	switch {
	case min > 0 && max > 0 && min != max:
		return symbol + humanize.Comma(min) + " - " + symbol + humanize.Comma(max)
	case min > 0:
		return symbol + humanize.Comma(min)
	default:
		return symbol + humanize.Comma(max)
	}
}
