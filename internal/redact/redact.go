// Package redact scrubs credentials and personal data out of strings before
// they reach a log sink. Bearer tokens, bcrypt hashes, database connection
// credentials, email addresses, and password-like key/value pairs are replaced
// with fixed placeholders.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactedJWT        = "[REDACTED_JWT]"
	RedactedHash       = "[REDACTED_HASH]"
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedEmail      = "[REDACTED_EMAIL]"
	RedactedSecret     = "[REDACTED_SECRET]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Rules run in order. Connection strings go before emails because
// "user:pass@host.tld" would otherwise be partly consumed as an address.
var rules = []rule{
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`),
		RedactedJWT,
	},
	{
		regexp.MustCompile(`\$2[abxy]?\$\d{2}\$[./A-Za-z0-9]{53}`),
		RedactedHash,
	},
	{
		regexp.MustCompile(`(?i)\b((?:postgres(?:ql)?|mongodb(?:\+srv)?|mysql|redis)://)[^@/\s]+@`),
		"${1}" + RedactedCredential + "@",
	},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|token)(\s*[=:]\s*)['"]?[^'"&\s,]+['"]?`),
		"${1}${2}" + RedactedSecret,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		RedactedEmail,
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.replacement)
	}
	return input
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
