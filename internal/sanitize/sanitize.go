// Package sanitize strips unsafe markup from rich text entered through the
// management panel and the public contact form.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy *bluemonday.Policy
	richOnce   sync.Once

	plainPolicy *bluemonday.Policy
	plainOnce   sync.Once
)

func rich() *bluemonday.Policy {
	richOnce.Do(func() {
		richPolicy = bluemonday.UGCPolicy()
		richPolicy.AllowAttrs("class").Globally()
		richPolicy.AllowElements("table", "thead", "tbody", "tr", "td", "th")
		richPolicy.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	})
	return richPolicy
}

func plain() *bluemonday.Policy {
	plainOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy
}

// HTML keeps safe formatting tags and removes scripts, event handlers and
// javascript: URLs.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(rich().Sanitize(input))
}

// Text removes every tag.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(plain().Sanitize(input))
}
