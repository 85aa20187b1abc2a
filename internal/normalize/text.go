// Package normalize turns raw, per-source listings into canonical jobs.
package normalize

import (
	"regexp"
	"strings"
)

// maxSkills caps how many skills a single job carries.
const maxSkills = 10

// skillVocabulary is scanned in this order; ExtractSkills preserves it.
var skillVocabulary = []string{
	"JavaScript", "TypeScript", "Python", "Java", "Go", "Rust", "C++", "C#",
	"Ruby", "PHP", "Swift", "Kotlin", "Scala",
	"React", "Vue", "Angular", "Node.js", "Next.js", "Django", "Flask", "Spring", "Rails",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka",
	"GraphQL", "REST", "Git", "Linux", "CI/CD",
	"Machine Learning", "AI", "DevOps",
}

// Skill matching is a case-insensitive substring scan, so lower-case once.
var skillNeedles = func() []string {
	out := make([]string, len(skillVocabulary))
	for i, s := range skillVocabulary {
		out[i] = strings.ToLower(s)
	}
	return out
}()

// salaryPatterns are tried in order; the first match wins.
var salaryPatterns = []*regexp.Regexp{
	// $80,000 - $95,000, $120k–$150k
	regexp.MustCompile(`\$\d[\d,]*(?:\.\d+)?[kK]?\s*[-–—]\s*\$\d[\d,]*(?:\.\d+)?[kK]?`),
	// $80,000 to $95,000
	regexp.MustCompile(`(?i)\$\d[\d,]*(?:\.\d+)?[kK]?\s+to\s+\$\d[\d,]*(?:\.\d+)?[kK]?`),
	// 80k - 120k
	regexp.MustCompile(`\b\d{2,3}[kK]\s*[-–—]\s*\d{2,3}[kK]\b`),
	// $45 per hour, $90,000/yr, $6,000 a month
	regexp.MustCompile(`(?i)\$\d[\d,]*(?:\.\d+)?[kK]?\s*(?:per\s+|/\s*|an?\s+)(?:year|yr|annum|hour|hr|month|mo)\b`),
}

// CleanText collapses every whitespace run to a single space and trims the ends.
// CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}

// ExtractSalary returns the first salary-looking substring of text, or "".
// The match is returned verbatim; it is not parsed into bounds.
func ExtractSalary(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range salaryPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// ExtractSkills returns the vocabulary entries mentioned in text, in
// vocabulary order, capped at maxSkills.
func ExtractSkills(text string) []string {
	skills := []string{}
	if text == "" {
		return skills
	}
	lower := strings.ToLower(text)
	for i, needle := range skillNeedles {
		if strings.Contains(lower, needle) {
			skills = append(skills, skillVocabulary[i])
			if len(skills) == maxSkills {
				break
			}
		}
	}
	return skills
}

// Vocabulary returns a copy of the known skills in scan order.
func Vocabulary() []string {
	return append([]string(nil), skillVocabulary...)
}
