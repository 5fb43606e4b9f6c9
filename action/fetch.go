package action

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-deploy/fs"
	"github.com/input-output-hk/catalyst-forge-deploy/git"
	"github.com/input-output-hk/catalyst-forge-deploy/lock"
)

// CloneDepth is the history depth of every clone.
const CloneDepth = 1

// Release ends a caller's use of a fetched destination.
type Release func()

// Fetcher materializes a repository at a destination path.
//
// On success the destination stays as fetched until release is called;
// callers must call it once they stop reading dest. On error release is nil.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) (release Release, err error)
}

// CloneFunc clones url according to opts. git.Clone is the production value.
type CloneFunc func(ctx context.Context, url string, opts *git.Options) (*git.Repo, error)

// GitFetcher shallow clones repositories into a filesystem.
//
// Fetches for the same destination are serialized by a lock that is held
// until the caller releases the destination, so a later fetch never replaces
// a tree that is still in use. Each clone lands in a unique staging sibling
// of the destination and is renamed into place only after it succeeds.
type GitFetcher struct {
	fs     fs.Filesystem
	locker lock.Locker
	auth   git.AuthProvider
	clone  CloneFunc
	newID  func() string
	logger *slog.Logger
}

var _ Fetcher = (*GitFetcher)(nil)

// FetcherOption configures a GitFetcher.
type FetcherOption func(*GitFetcher)

// WithLocker sets the lock used to serialize fetches per destination.
// The default is an in-process lock.Keyed.
func WithLocker(l lock.Locker) FetcherOption {
	return func(f *GitFetcher) {
		if l != nil {
			f.locker = l
		}
	}
}

// WithAuth sets the credentials provider used for clones.
func WithAuth(a git.AuthProvider) FetcherOption {
	return func(f *GitFetcher) {
		f.auth = a
	}
}

// WithCloneFunc replaces the clone primitive.
func WithCloneFunc(fn CloneFunc) FetcherOption {
	return func(f *GitFetcher) {
		if fn != nil {
			f.clone = fn
		}
	}
}

// WithFetcherLogger sets the logger. A nil logger discards output.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *GitFetcher) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		f.logger = logger
	}
}

// NewGitFetcher returns a Fetcher that clones into fsys.
func NewGitFetcher(fsys fs.Filesystem, opts ...FetcherOption) *GitFetcher {
	f := &GitFetcher{
		fs:     fsys,
		locker: lock.NewKeyed(),
		clone:  git.Clone,
		newID:  uuid.NewString,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements Fetcher. A previous copy at dest is replaced on success and
// left untouched on failure. The clone is attempted once.
func (f *GitFetcher) Fetch(ctx context.Context, url, dest string) (Release, error) {
	unlock, err := f.locker.Lock(ctx, dest)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", dest, err)
	}
	release := func() {
		if uerr := unlock(); uerr != nil {
			f.logger.Warn("failed to release fetch lock", "dest", dest, "error", uerr)
		}
	}

	if err := f.replace(ctx, url, dest); err != nil {
		release()
		return nil, err
	}
	return release, nil
}

// replace clones url into a staging sibling of dest and moves it into place.
// The caller holds the lock for dest.
func (f *GitFetcher) replace(ctx context.Context, url, dest string) error {
	if err := f.fs.MkdirAll(path.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create parent of %s: %w", dest, err)
	}

	staging := fmt.Sprintf("%s.staging-%s", dest, f.newID())
	start := time.Now()

	repo, err := f.clone(ctx, url, &git.Options{
		FS:           f.fs,
		Workdir:      staging,
		Auth:         f.auth,
		ShallowDepth: CloneDepth,
	})
	if err != nil {
		f.discard(staging)
		return err
	}

	if head, herr := repo.Head(ctx); herr == nil {
		f.logger.Debug("cloned repository", "url", url, "head", head, "duration", time.Since(start))
	} else {
		f.logger.Debug("cloned repository without resolvable HEAD", "url", url, "error", herr)
	}

	if err := f.fs.RemoveAll(dest); err != nil {
		f.discard(staging)
		return fmt.Errorf("failed to remove previous clone at %s: %w", dest, err)
	}
	if err := f.fs.Rename(staging, dest); err != nil {
		f.discard(staging)
		return fmt.Errorf("failed to move clone into %s: %w", dest, err)
	}

	return nil
}

func (f *GitFetcher) discard(staging string) {
	if err := f.fs.RemoveAll(staging); err != nil {
		f.logger.Warn("failed to remove staging directory", "path", staging, "error", err)
	}
}
