package git

import "github.com/input-output-hk/catalyst-forge-deploy/git/internal/auth"

// NewTokenAuth returns an AuthProvider that presents token over HTTPS.
// When hosts are given, only matching hosts (exact or "*.example.com"
// patterns) receive the credentials; other URLs clone anonymously.
//
//nolint:ireturn // callers only need the AuthProvider contract.
func NewTokenAuth(token string, hosts ...string) AuthProvider {
	return auth.NewTokenProvider(token, hosts...)
}
