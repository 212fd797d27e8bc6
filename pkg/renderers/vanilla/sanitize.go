package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	adornmentPolicyOnce sync.Once
	adornmentPolicy     *bluemonday.Policy

	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// sanitizeAdornment keeps inline formatting (icons, emphasis) in a prepend
// adornment and strips everything else. An adornment that sanitizes to
// nothing still renders its wrapper.
func sanitizeAdornment(raw string) string {
	return adornmentSanitizer().Sanitize(raw)
}

// sanitizeDescription cleans section description HTML.
func sanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(descriptionSanitizer().Sanitize(trimmed))
}

func adornmentSanitizer() *bluemonday.Policy {
	adornmentPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "small", "code", "span", "abbr")
		policy.AllowAttrs("class", "aria-hidden").OnElements("span", "i")
		policy.AllowAttrs("title").OnElements("abbr")
		adornmentPolicy = policy
	})
	return adornmentPolicy
}

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		descriptionPolicy = bluemonday.UGCPolicy()
	})
	return descriptionPolicy
}
