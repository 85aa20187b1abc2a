package normalize

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/joblens/internal/model"
)

// Placeholder replaces an empty title, company or location.
const Placeholder = "Not specified"

// Normalizer maps raw listings onto model.Job. It holds no state besides the
// id generator and the clock, so one instance can be shared across goroutines.
type Normalizer struct {
	newID func() string
	now   func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithIDFunc overrides id generation. The function must return process-unique ids.
func WithIDFunc(f func() string) Option {
	return func(n *Normalizer) { n.newID = f }
}

// WithClock overrides the clock used for the posted-date fallback.
func WithClock(f func() time.Time) Option {
	return func(n *Normalizer) { n.now = f }
}

// New returns a Normalizer that uses random UUIDs and the wall clock.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds the canonical job for raw as reported by src. It never
// fails: missing fields become placeholders or are left empty.
func (n *Normalizer) Normalize(raw model.RawJob, src model.SourceInfo) model.Job {
	description := CleanText(raw.Description)
	location := orPlaceholder(CleanText(raw.Location))

	salary := CleanText(raw.Salary)
	if salary == "" {
		salary = ExtractSalary(description)
	}

	id := n.newID()
	if src.Name != "" {
		id = src.Name + "-" + id
	}

	return model.Job{
		ID:          id,
		Title:       orPlaceholder(CleanText(raw.Title)),
		Company:     orPlaceholder(CleanText(raw.Company)),
		Location:    location,
		Salary:      salary,
		Description: description,
		URL:         resolveURL(CleanText(raw.URL), src.BaseURL),
		Source:      src.Name,
		PostedDate:  postedDate(raw.PostedDate, n.now()),
		Type:        CleanText(raw.Type),
		Remote:      src.RemoteOnly || strings.Contains(strings.ToLower(location), "remote"),
		Skills:      ExtractSkills(description),
	}
}

// IsPlaceholder reports whether s is empty or the placeholder text.
func IsPlaceholder(s string) bool {
	return s == "" || s == Placeholder
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// resolveURL returns an absolute URL or "". Relative links are resolved
// against base; protocol-relative links get https.
func resolveURL(link, base string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	if strings.HasPrefix(link, "//") {
		return "https:" + link
	}
	if base == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ""
	}
	return b.ResolveReference(u).String()
}
