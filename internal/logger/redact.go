package logger

import "strings"

// RedactEmail masks an email address for safe logging.
//
//	"joao.silva@example.com" -> "jo***@example.com"
//	"ab@example.com"         -> "***@example.com"
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(local) > 2 {
		return local[:2] + "***@" + domain
	}
	return "***@" + domain
}
