package action

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

const (
	// MsgMissingGitURL is returned when a request has no gitUrl.
	MsgMissingGitURL = "Please enter the GitHub repo url in params"

	// MsgCloneFailed is returned for every clone failure. The transport
	// error is logged, never returned.
	MsgCloneFailed = "There was a problem cloning from github.  Does that github repo exist?  Does it begin with http?"

	// MsgPostOnly accompanies a method rejection.
	MsgPostOnly = "This action only processes POST requests"
)

// Action runs the deploy pipeline.
type Action struct {
	locator  Locator
	fetcher  Fetcher
	deployer Deployer
	logger   *slog.Logger
}

// Option configures an Action.
type Option func(*Action)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Action) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		a.logger = logger
	}
}

// New returns an Action over the given stages.
func New(locator Locator, fetcher Fetcher, deployer Deployer, opts ...Option) *Action {
	a := &Action{
		locator:  locator,
		fetcher:  fetcher,
		deployer: deployer,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handle runs one request to completion and always returns a Response.
//
// A request without gitUrl fails before any I/O. A non-POST method is
// rejected with 405. Every other failure is reported with status 400.
func (a *Action) Handle(ctx context.Context, env Environment, req Request) Response {
	start := time.Now()
	logger := a.logger.With("activation_id", env.ActivationID)

	result, err := a.run(ctx, env, req, logger)
	if err != nil {
		logger.Error("deploy failed",
			"url", req.GitURL,
			"code", errors.CodeOf(err),
			"error", err,
			"duration", time.Since(start),
		)
		return failure(err, env.ActivationID)
	}

	logger.Info("deploy succeeded", "url", req.GitURL, "duration", time.Since(start))
	return Success(result, env.ActivationID)
}

func (a *Action) run(ctx context.Context, env Environment, req Request, logger *slog.Logger) (any, error) {
	if req.GitURL == "" {
		return nil, errors.New(errors.CodeInvalidInput, MsgMissingGitURL)
	}
	if !req.isPost() {
		return nil, errors.Newf(errors.CodeMethodNotAllowed, "unsupported method %q", req.Method)
	}

	desc, release, err := a.resolve(ctx, env, req, logger)
	if err != nil {
		return nil, err
	}
	defer release()

	result, err := a.deployer.Deploy(ctx, desc)
	if err != nil {
		if errors.CodeOf(err) != errors.CodeUnknown {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeDeployFailed, errors.MessageOf(err))
	}
	return result, nil
}

// Resolve validates req and makes its repository available locally,
// returning the Descriptor the Deployer would receive.
func (a *Action) Resolve(ctx context.Context, env Environment, req Request) (Descriptor, error) {
	if req.GitURL == "" {
		return Descriptor{}, errors.New(errors.CodeInvalidInput, MsgMissingGitURL)
	}
	desc, release, err := a.resolve(ctx, env, req, a.logger.With("activation_id", env.ActivationID))
	if err != nil {
		return Descriptor{}, err
	}
	release()
	return desc, nil
}

// resolve locates or fetches the repository. The returned release must be
// called once the descriptor's RepoDir is no longer read.
func (a *Action) resolve(ctx context.Context, env Environment, req Request, logger *slog.Logger) (Descriptor, Release, error) {
	loc, err := ParseRepoURL(req.GitURL)
	if err != nil {
		return Descriptor{}, nil, err
	}

	dir, hit, err := a.locator.Locate(ctx, loc)
	if err != nil {
		return Descriptor{}, nil, err
	}

	release := Release(func() {})
	if !hit {
		release, err = a.fetcher.Fetch(ctx, req.GitURL, dir)
		if err != nil {
			logger.Warn("clone failed", "url", req.GitURL, "dest", dir, "error", err)
			return Descriptor{}, nil, errors.Wrap(err, errors.CodeFetchFailed, MsgCloneFailed)
		}
		if release == nil {
			release = func() {}
		}
	}

	logger.Info("resolved repository",
		"org", loc.Org,
		"name", loc.Name,
		"repo_dir", dir,
		"cache_hit", hit,
	)

	creds := ResolveCredentials(req, env)
	return Descriptor{
		RepoDir:          dir,
		UsingTemp:        !hit,
		ManifestPath:     req.manifestPath(),
		ManifestFileName: ManifestFileName,
		WskAuth:          creds.Auth,
		WskAPIHost:       creds.APIHost,
		EnvData:          req.EnvData,
	}, release, nil
}

func failure(err error, activationID string) Response {
	if errors.HasCode(err, errors.CodeMethodNotAllowed) {
		return Failure(http.StatusMethodNotAllowed, err, activationID, MsgPostOnly)
	}
	return Failure(http.StatusBadRequest, err, activationID, "")
}
