package git

import (
	"context"
	"fmt"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/input-output-hk/catalyst-forge-deploy/fs"
	"github.com/input-output-hk/catalyst-forge-deploy/git/internal/fsbridge"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory name.
	DefaultWorkdir = "."

	// DefaultRemoteName is the default remote name used for operations.
	DefaultRemoteName = "origin"
)

// Options configures repository discovery/creation and performance.
type Options struct {
	// FS is the REQUIRED native filesystem root (OS or in-memory).
	// All repository state lives within this filesystem.
	FS fs.Filesystem

	// Workdir is the path within FS for the worktree root.
	// Defaults to "." (current directory in FS).
	Workdir string

	// StorerCacheSize sets the LRU objects cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth is an optional provider that resolves per-URL AuthMethod.
	// If nil, no authentication will be available.
	Auth AuthProvider

	// ShallowDepth sets the depth for shallow clones.
	// If > 0, only the given number of commits is fetched from a single branch
	// and tags are skipped. If 0, a full clone is performed.
	ShallowDepth int
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidOptions, "FS is required")
	}

	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidOptions, "StorerCacheSize cannot be negative")
	}

	if o.ShallowDepth < 0 {
		return WrapError(ErrInvalidOptions, "ShallowDepth cannot be negative")
	}

	return nil
}

// applyDefaults sets default values for any unset fields in Options.
func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}

	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}
}

// storageFor scopes the filesystem to the workdir and returns the object storage
// (in .git) plus the worktree filesystem.
//
//nolint:ireturn // billy.Filesystem is dictated by go-git.
func storageFor(opts *Options) (*filesystem.Storage, gobilly.Filesystem, error) {
	billyFS, err := fsbridge.ToBillyFilesystem(opts.FS)
	if err != nil {
		return nil, nil, fmt.Errorf("filesystem conversion failed: %w", err)
	}

	scopedFS, err := billyFS.Chroot(opts.Workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chroot to workdir %q: %w", opts.Workdir, err)
	}

	dotGitFS, err := scopedFS.Chroot(".git")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create .git directory: %w", err)
	}

	return fsbridge.NewStorage(dotGitFS, opts.StorerCacheSize), scopedFS, nil
}

// Init creates a new repository with a worktree at opts.Workdir.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	opts.applyDefaults()

	storage, worktreeFS, err := storageFor(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Init(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}

	return newRepo(repo, opts)
}

// Clone creates a new repository at opts.Workdir by cloning from a remote URL.
//
// The remoteURL should be a valid git URL (https://, http:// or file://).
// For shallow clones, set ShallowDepth > 0. Authentication is handled via the
// AuthProvider if credentials are required.
//
// Transport failures are classified so callers can use errors.Is with
// ErrRepositoryNotFound, ErrAuthRequired, ErrAuthFailed and ErrEmptyRepository.
// Context timeout/cancellation is honored during the clone operation and is the
// only bound on its duration.
func Clone(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidOptions, "remote URL cannot be empty")
	}

	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	opts.applyDefaults()

	storage, worktreeFS, err := storageFor(opts)
	if err != nil {
		return nil, err
	}

	cloneOpts := &git.CloneOptions{
		URL:          remoteURL,
		RemoteName:   DefaultRemoteName,
		Depth:        opts.ShallowDepth,
		SingleBranch: opts.ShallowDepth > 0,
	}
	if opts.ShallowDepth > 0 {
		cloneOpts.Tags = git.NoTags
	}

	if opts.Auth != nil {
		authMethod, authErr := opts.Auth.Method(remoteURL)
		if authErr != nil {
			return nil, WrapError(authErr, "failed to get authentication method")
		}
		cloneOpts.Auth = authMethod
	}

	repo, err := git.CloneContext(ctx, storage, worktreeFS, cloneOpts)
	if err != nil {
		return nil, WrapErrorf(classifyTransportError(err), "failed to clone %s", remoteURL)
	}

	return newRepo(repo, opts)
}

func newRepo(repo *git.Repository, opts *Options) (*Repo, error) {
	if _, err := repo.Worktree(); err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{repo: repo, workdir: opts.Workdir}, nil
}

// AuthProvider resolves authentication methods for git operations.
// Implementations should handle different URL schemes and credential sources.
type AuthProvider interface {
	// Method returns the appropriate transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	// Returns an error if authentication cannot be resolved for the URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Repo represents a cloned or initialized git repository.
type Repo struct {
	repo    *git.Repository
	workdir string
}

// Head returns the hash of the commit HEAD points to.
func (r *Repo) Head(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ref, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "failed to resolve HEAD")
	}
	return ref.Hash().String(), nil
}

// Workdir returns the worktree path within the repository filesystem.
func (r *Repo) Workdir() string {
	return r.workdir
}
