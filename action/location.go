package action

import (
	"net/url"
	"path"
	"strings"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

// RepoLocation identifies a repository by the parts of its URL that decide
// where it is stored.
type RepoLocation struct {
	Host string
	Org  string
	Name string
}

// String returns the org/name form of the location.
func (l RepoLocation) String() string {
	return l.Org + "/" + l.Name
}

// ParseRepoURL parses an http(s) repository URL of the form
// scheme://host/org/name[.git][/...]. Anything else is an input error.
func ParseRepoURL(raw string) (RepoLocation, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return RepoLocation{}, errors.Wrap(err, errors.CodeInvalidInput, "The GitHub repo url could not be parsed")
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return RepoLocation{}, errors.Newf(errors.CodeInvalidInput,
			"The GitHub repo url must begin with http or https, got %q", raw)
	}
	if u.Host == "" {
		return RepoLocation{}, errors.Newf(errors.CodeInvalidInput, "The GitHub repo url %q has no host", raw)
	}

	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return RepoLocation{}, errors.Newf(errors.CodeInvalidInput,
			"The GitHub repo url %q must name an organization and a repository", raw)
	}

	org := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	for _, s := range []string{org, name} {
		if !validSegment(s) {
			return RepoLocation{}, errors.Newf(errors.CodeInvalidInput,
				"The GitHub repo url %q contains an invalid path segment %q", raw, s)
		}
	}

	return RepoLocation{Host: u.Host, Org: org, Name: name}, nil
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}

// Layout holds the two roots a repository can live under.
type Layout struct {
	// PreinstalledRoot holds repositories shipped with the runtime image.
	PreinstalledRoot string
	// ScratchRoot receives fresh clones.
	ScratchRoot string
}

// CachePath returns <PreinstalledRoot>/<org>/<name>.
func (l Layout) CachePath(loc RepoLocation) string {
	return path.Join(l.PreinstalledRoot, loc.Org, loc.Name)
}

// TempPath returns <ScratchRoot>/<org>/<name>.
func (l Layout) TempPath(loc RepoLocation) string {
	return path.Join(l.ScratchRoot, loc.Org, loc.Name)
}
