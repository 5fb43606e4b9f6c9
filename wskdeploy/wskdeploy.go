// Package wskdeploy runs the wskdeploy command line tool against a resolved
// repository.
package wskdeploy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-deploy/action"
	"github.com/input-output-hk/catalyst-forge-deploy/errors"
	"github.com/input-output-hk/catalyst-forge-deploy/executor"
)

// DefaultBinary is the program name looked up on PATH.
const DefaultBinary = "wskdeploy"

// AuthEnvVar carries the OpenWhisk API key to the tool. It is kept out of
// the argument list, which other processes on the host can read.
const AuthEnvVar = "__OW_API_KEY"

// Report is the success value of a deployment.
type Report struct {
	Manifest string `json:"manifest"`
	Project  string `json:"project"`
	Output   string `json:"output"`
}

// Deployer implements action.Deployer by shelling out to wskdeploy.
type Deployer struct {
	binary string
	exec   executor.ProgramExecutor
	output io.Writer
	logger *slog.Logger
}

var _ action.Deployer = (*Deployer)(nil)

// Option configures a Deployer.
type Option func(*Deployer)

// WithBinary sets the wskdeploy program name or path.
func WithBinary(bin string) Option {
	return func(d *Deployer) {
		if bin != "" {
			d.binary = bin
		}
	}
}

// WithExecutor replaces the process runner.
func WithExecutor(e executor.ProgramExecutor) Option {
	return func(d *Deployer) {
		d.exec = e
	}
}

// WithOutput streams the tool's stdout and stderr to w while it runs.
func WithOutput(w io.Writer) Option {
	return func(d *Deployer) {
		d.output = w
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deployer) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		d.logger = logger
	}
}

// New returns a Deployer.
func New(opts ...Option) *Deployer {
	d := &Deployer{
		binary: DefaultBinary,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.exec == nil {
		d.exec = executor.NewWrappedExecutor(d.binary, executor.WithLogger(d.logger))
	}
	return d
}

// Deploy implements action.Deployer.
//
// The tool runs in the repository directory with the manifest and project
// paths made absolute. On failure the error message is the tool's stderr.
func (d *Deployer) Deploy(ctx context.Context, desc action.Descriptor) (any, error) {
	args, err := Args(desc)
	if err != nil {
		return nil, err
	}
	env, err := Env(desc.EnvData)
	if err != nil {
		return nil, err
	}
	if desc.WskAuth != "" {
		env[AuthEnvVar] = desc.WskAuth
	}

	d.logger.Info("running wskdeploy",
		"repo_dir", desc.RepoDir,
		"manifest", args[1],
		"using_temp", desc.UsingTemp,
		"env_vars", len(env),
	)

	opts := []executor.Option{
		executor.WithWorkingDir(desc.RepoDir),
		executor.WithEnv(env),
		executor.WithCapture(true, true, false),
	}
	if d.output != nil {
		opts = append(opts, executor.WithStdoutWriter(d.output), executor.WithStderrWriter(d.output))
	}

	result, err := d.exec.Execute(ctx, args, opts...)
	if err != nil {
		return nil, failure(ctx, result, err)
	}

	return Report{
		Manifest: args[1],
		Project:  args[3],
		Output:   strings.TrimSpace(result.Stdout),
	}, nil
}

// Args returns the wskdeploy arguments for desc. The API host is added only
// when set so the tool can fall back to its own configuration. The API key is
// never part of the arguments; Deploy passes it as AuthEnvVar.
//
// A manifest path that resolves outside desc.RepoDir is rejected.
func Args(desc action.Descriptor) ([]string, error) {
	manifestFile := desc.ManifestFileName
	if manifestFile == "" {
		manifestFile = action.ManifestFileName
	}
	manifestPath := desc.ManifestPath
	if manifestPath == "" {
		manifestPath = action.DefaultManifestPath
	}

	project := filepath.Join(desc.RepoDir, manifestPath)
	rel, err := filepath.Rel(filepath.Clean(desc.RepoDir), project)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, errors.Newf(errors.CodeInvalidInput, "manifestPath %q is outside the repository", manifestPath)
	}

	args := []string{
		"-m", filepath.Join(project, manifestFile),
		"-p", project,
	}
	if desc.WskAPIHost != "" {
		args = append(args, "--apihost", desc.WskAPIHost)
	}
	return args, nil
}

// Env renders envData as environment variables. String values are used as
// they are; anything else is JSON encoded.
func Env(envData map[string]any) (map[string]string, error) {
	env := make(map[string]string, len(envData))
	for k, v := range envData {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			return nil, errors.Newf(errors.CodeInvalidInput, "envData key %q is not a valid variable name", k)
		}
		if s, ok := v.(string); ok {
			env[k] = s
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidInput, fmt.Sprintf("envData value for %q cannot be encoded", k))
		}
		env[k] = string(data)
	}
	return env, nil
}

func failure(ctx context.Context, result *executor.Result, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(err, errors.CodeTimeout, "wskdeploy interrupted: "+ctxErr.Error())
	}
	if result != nil {
		if msg := strings.TrimSpace(result.Stderr); msg != "" {
			return errors.Wrap(err, errors.CodeDeployFailed, msg)
		}
	}
	return errors.Wrap(err, errors.CodeDeployFailed, err.Error())
}
