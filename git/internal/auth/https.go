package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenProvider presents an access token as HTTPS basic auth.
type TokenProvider struct {
	auth *http.BasicAuth

	// hosts restricts which hosts receive the token. Empty means any
	// HTTPS host. Entries are exact host names or "*.domain" patterns.
	hosts []string
}

// NewTokenProvider creates a provider for token. GitHub, GitLab and
// Bitbucket all accept the token as the password with any username.
func NewTokenProvider(token string, hosts ...string) *TokenProvider {
	return &TokenProvider{
		auth:  &http.BasicAuth{Username: "token", Password: token},
		hosts: hosts,
	}
}

// Method returns the token for HTTPS URLs on an allowed host and nil
// for everything else.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *TokenProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// Credentials are only ever sent over TLS.
	if u.Scheme != "https" {
		return nil, nil
	}
	if len(p.hosts) > 0 && !p.allowed(strings.ToLower(u.Hostname())) {
		return nil, nil
	}
	return p.auth, nil
}

func (p *TokenProvider) allowed(host string) bool {
	for _, pattern := range p.hosts {
		if matchesPattern(host, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// matchesPattern matches host against an exact name or a "*.domain"
// pattern. The wildcard covers the domain itself and any subdomain.
func matchesPattern(host, pattern string) bool {
	if host == pattern {
		return true
	}
	domain, ok := strings.CutPrefix(pattern, "*.")
	if !ok || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
