package action

import "context"

// ManifestFileName is the manifest file the deploy tool reads.
const ManifestFileName = "manifest.yaml"

// Descriptor is everything the deploy tool needs for one request.
type Descriptor struct {
	RepoDir string
	// UsingTemp is true when RepoDir is a fresh clone rather than a
	// pre-installed copy. It does not change how the deploy runs.
	UsingTemp        bool
	ManifestPath     string
	ManifestFileName string
	WskAuth          string
	WskAPIHost       string
	EnvData          map[string]any
}

// Deployer hands a resolved repository to the deploy tool.
type Deployer interface {
	// Deploy returns the tool's result, which is reported to the caller as is.
	Deploy(ctx context.Context, d Descriptor) (any, error)
}

// DeployerFunc adapts a function to the Deployer interface.
type DeployerFunc func(ctx context.Context, d Descriptor) (any, error)

// Deploy calls fn.
func (fn DeployerFunc) Deploy(ctx context.Context, d Descriptor) (any, error) {
	return fn(ctx, d)
}
