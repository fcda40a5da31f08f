// Package redact strips credentials, tokens, password hashes, SQL text and
// email addresses from strings before they reach logs or error responses.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HashPlaceholder       = "[REDACTED_HASH]"
	SQLPlaceholder        = "[REDACTED_SQL]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
)

type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// Rules are applied in order; tokens and DSNs go first so that the looser
// patterns further down never see their fragments.
var rules = []rule{
	{regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`), JWTPlaceholder},
	{regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`), HashPlaceholder},
	{regexp.MustCompile(`(?i)(postgres|postgresql|pgx)://[^@\s]+@`), CredentialPlaceholder},
	{regexp.MustCompile(`(?i)(password|passwd|pwd|secret)\s*[=:]\s*['"]?[^'"&\s]+`), CredentialPlaceholder},
	{regexp.MustCompile(`\b(SELECT|INSERT INTO|UPDATE|DELETE FROM)\b[^;\n]*`), SQLPlaceholder},
	{regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`), EmailPlaceholder},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
