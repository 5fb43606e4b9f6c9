package action

import (
	"context"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
	"github.com/input-output-hk/catalyst-forge-deploy/fs"
)

// Locator decides where a repository should be read from.
type Locator interface {
	// Locate returns the cache path and true when the repository is
	// pre-installed, otherwise the scratch path it should be fetched into
	// and false.
	Locate(ctx context.Context, loc RepoLocation) (dir string, hit bool, err error)
}

// FSLocator resolves locations against a filesystem.
type FSLocator struct {
	fs     fs.Filesystem
	layout Layout
}

var _ Locator = (*FSLocator)(nil)

// NewLocator returns a Locator that checks fsys for pre-installed repositories.
func NewLocator(fsys fs.Filesystem, layout Layout) *FSLocator {
	return &FSLocator{fs: fsys, layout: layout}
}

// Layout returns the roots the locator resolves against.
func (l *FSLocator) Layout() Layout {
	return l.layout
}

// Locate implements Locator. The only I/O is one existence check on the cache path.
func (l *FSLocator) Locate(ctx context.Context, loc RepoLocation) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	cachePath := l.layout.CachePath(loc)
	ok, err := l.fs.Exists(cachePath)
	if err != nil {
		return "", false, errors.Wrap(err, errors.CodeInternal, "There was a problem reading the repository cache")
	}
	if ok {
		return cachePath, true, nil
	}
	return l.layout.TempPath(loc), false, nil
}
