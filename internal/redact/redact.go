// Package redact replaces secret-shaped substrings with labeled placeholders.
// Redaction is deterministic and one-way: the rule table below is fixed at
// compile time and applied top to bottom, and every matched span is replaced
// whole, never character-masked.
package redact

import "regexp"

// Rule matches one class of secret and names its placeholder.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Placeholder string
}

// Rules is the ordered redaction table. Order matters: earlier rules see the
// original text, later rules see prior placeholders; keep the most specific
// patterns first.
var Rules = []Rule{
	{"private_key", regexp.MustCompile(`-----BEGIN (?:RSA )?PRIVATE KEY-----`), "[PRIVATE_KEY_REDACTED]"},
	{"aws_access_key", regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "[AWS_ACCESS_KEY_REDACTED]"},
	{"aws_secret", regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key["']?\s*[:=]\s*["']?[a-zA-Z0-9/+=]{40}`), "[AWS_SECRET_REDACTED]"},
	{"stripe_secret_key", regexp.MustCompile(`sk_(?:test|live)_[a-zA-Z0-9]{24,}`), "[STRIPE_SECRET_KEY_REDACTED]"},
	{"stripe_publish_key", regexp.MustCompile(`pk_(?:test|live)_[a-zA-Z0-9]{24,}`), "[STRIPE_PUBLISH_KEY_REDACTED]"},
	{"github_token", regexp.MustCompile(`gh[ps]_[a-zA-Z0-9]{36,}`), "[GITHUB_TOKEN_REDACTED]"},
	{"jwt", regexp.MustCompile(`eyJ[a-zA-Z0-9_-]*\.eyJ[a-zA-Z0-9_-]*\.[a-zA-Z0-9_-]*`), "[JWT_REDACTED]"},
	{"bearer_token", regexp.MustCompile(`Bearer\s+[a-zA-Z0-9_\-.]{20,}`), "[BEARER_TOKEN_REDACTED]"},
	{"api_key", regexp.MustCompile(`(?i)api[_-]?key["']?\s*[:=]\s*["']?[a-zA-Z0-9_\-]{32,}`), "[API_KEY_REDACTED]"},
	{"secret", regexp.MustCompile(`(?i)secret["']?\s*[:=]\s*["']?[a-zA-Z0-9_\-]{16,}`), "[SECRET_REDACTED]"},
	{"password", regexp.MustCompile(`(?i)password["']?\s*[:=]\s*["']?[^\s'"]{8,}`), "[PASSWORD_REDACTED]"},
}

// Apply redacts text and returns the redacted copy with the number of spans
// replaced. Each distinct secret counts once. Empty input passes through.
func Apply(text string) (string, int) {
	if text == "" {
		return text, 0
	}
	redacted := text
	count := 0
	for _, rule := range Rules {
		matches := rule.Pattern.FindAllStringIndex(redacted, -1)
		if len(matches) == 0 {
			continue
		}
		count += len(matches)
		redacted = rule.Pattern.ReplaceAllString(redacted, rule.Placeholder)
	}
	return redacted, count
}
