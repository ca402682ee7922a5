package policy

import "regexp"

type pattern struct {
	re   *regexp.Regexp
	mask string
}

// Order matters: cards before phones so a card number is not half-matched as
// a phone number.
var patterns = []pattern{
	{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`\b(?:\d[ -]*?){13,19}\b`), "[REDACTED_CARD]"},
	{regexp.MustCompile(`\+?[0-9][0-9\-() ]{7,}[0-9]`), "[REDACTED_PHONE]"},
}

// RedactPII masks common high-risk PII patterns. Transcript text passes
// through here before it is persisted to durable chat history.
func RedactPII(input string) (redacted string, changed bool) {
	out := input
	for _, p := range patterns {
		next := p.re.ReplaceAllString(out, p.mask)
		changed = changed || next != out
		out = next
	}
	return out, changed
}
