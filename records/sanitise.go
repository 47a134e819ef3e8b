package records

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// Sanitise strips any markup from a free text answer and trims surrounding
// whitespace. HTML entities produced by the policy are decoded back so that
// the worksheet holds the text the user actually typed.
func Sanitise(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	cleaned := textSanitiser().Sanitize(trimmed)

	return strings.TrimSpace(unescape.Replace(cleaned))
}

var unescape = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#34;", `"`,
	"&#39;", "'",
)

func textSanitiser() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})

	return textPolicy
}
