package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const emailLookupTimeout = 3 * time.Second

// EmailDomain returns the lower-cased part after the last "@", or "" when
// the address has none.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(email[at+1:], "."))
}

// IsEmailDomainValid reports whether the domain of email has an MX or an
// address record. Lookups are bounded by emailLookupTimeout.
func IsEmailDomainValid(ctx context.Context, email string) bool {
	domain := EmailDomain(email)
	if domain == "" || !strings.Contains(domain, ".") {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, emailLookupTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, domain)
	return err == nil && len(addrs) > 0
}
