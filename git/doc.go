// Package git provides a small, idiomatic Go wrapper over go-git for fetching
// deployable repositories.
//
// All repository state lives in the project's native filesystem abstraction, so the
// same code clones onto disk in production and into memory in tests.
//
// # Cloning
//
// Shallow-clone a repository into a directory:
//
//	import (
//	    "context"
//	    billyfs "github.com/input-output-hk/catalyst-forge-deploy/fs/billy"
//	    "github.com/input-output-hk/catalyst-forge-deploy/git"
//	)
//
//	repo, err := git.Clone(ctx, "https://github.com/org1/repo1", &git.Options{
//	    FS:           billyfs.NewBaseOSFS(),
//	    Workdir:      "/var/cache/deployweb/tmp/org1/repo1",
//	    ShallowDepth: 1,
//	})
//	if err != nil {
//	    return err
//	}
//	head, _ := repo.Head(ctx)
//
// # Authentication
//
// Public repositories need no credentials. For private HTTPS repositories supply
// an AuthProvider; NewTokenAuth presents a token to matching hosts only, and never
// over plain http:
//
//	opts.Auth = git.NewTokenAuth(os.Getenv("GIT_TOKEN"), "github.com")
//
// # Error Handling
//
// Transport failures are mapped onto sentinel errors:
//
//	_, err := git.Clone(ctx, url, opts)
//	switch {
//	case errors.Is(err, git.ErrRepositoryNotFound):
//	    // wrong URL or private repository
//	case errors.Is(err, git.ErrAuthRequired), errors.Is(err, git.ErrAuthFailed):
//	    // credentials missing or rejected
//	}
//
// # Context Support
//
// Clone honors context cancellation and deadlines.
//
// # Thread Safety
//
// A Repo instance is NOT safe for concurrent writes. Concurrent clones into the
// same Workdir must be serialized by the caller.
package git
