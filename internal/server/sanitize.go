package server

import (
	"html"
	"strings"
	"sync"

	"codeconnect/internal/form"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// sanitizeText strips all markup from raw and trims it. Entities escaped by
// the policy are turned back into plain text.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(trimmed)))
}

func sanitizeProject(p form.Project) form.Project {
	out := form.Project{
		Name:        sanitizeText(p.Name),
		Email:       strings.TrimSpace(p.Email),
		Description: sanitizeText(p.Description),
		Tags:        make([]string, 0, len(p.Tags)),
	}
	for _, t := range p.Tags {
		out.Tags = append(out.Tags, strings.TrimSpace(t))
	}
	return out
}
