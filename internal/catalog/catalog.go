// Package catalog holds the fixed lists the simulated backend answers from:
// the tags a project may carry and the manager emails already registered.
package catalog

import (
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// allowedTags is the ordered allow-list of project tags.
var allowedTags = []string{
	"Front-end",
	"Back-end",
	"Full-stack",
	"Programação",
	"HTML",
	"CSS",
	"JavaScript",
	"TypeScript",
	"PHP",
	"Python",
	"Java",
	"Banco de dados",
	"MySQL",
	"PostgreSQL",
}

// registeredEmails simulates manager emails that are already taken.
var registeredEmails = []string{
	"diego@fake.io",
	"regina@fake.io",
	"julia@fake.io",
}

// AllowedTags returns a copy of the tag allow-list in its canonical order.
func AllowedTags() []string {
	return slices.Clone(allowedTags)
}

// IsAllowedTag reports whether tag is on the allow-list. Matching is exact
// and case-sensitive.
func IsAllowedTag(tag string) bool {
	return slices.Contains(allowedTags, tag)
}

// RegisteredEmails returns a copy of the registered email list.
func RegisteredEmails() []string {
	return slices.Clone(registeredEmails)
}

// IsRegisteredEmail reports whether email is already taken.
func IsRegisteredEmail(email string) bool {
	return slices.Contains(registeredEmails, email)
}

// SuggestTags returns up to limit allow-listed tags that fuzzy-match input,
// best match first. Blank input yields no suggestions.
func SuggestTags(input string, limit int) []string {
	input = strings.TrimSpace(input)
	if input == "" || limit <= 0 {
		return nil
	}
	matches := fuzzy.Find(input, allowedTags)
	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
