package identity

import "strings"

// Alias points an alternative identifier (employee code, email local part) at a canonical user ID.
type Alias struct {
	UserID string `json:"userId"`
}

// NormalizeAlias lowercases and trims an identifier so lookups are case-insensitive.
func NormalizeAlias(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailLocalPart returns the part of an email address before "@", or "" when there is none.
func EmailLocalPart(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	return email[:at]
}

// TrustedLocalPart returns the email's local part when its domain is one of domains, or "".
// Domains are compared case-insensitively.
func TrustedLocalPart(email string, domains []string) string {
	local := EmailLocalPart(email)
	if local == "" {
		return ""
	}
	domain := NormalizeAlias(email[len(local)+1:])
	for _, d := range domains {
		if NormalizeAlias(d) == domain {
			return local
		}
	}
	return ""
}
