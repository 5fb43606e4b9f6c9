package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-deploy/config"
)

// flagKeys maps persistent flags to the config keys they override.
var flagKeys = map[string]string{
	"preinstalled-root": config.KeyPreinstalledRoot,
	"scratch-root":      config.KeyScratchRoot,
	"wskdeploy-bin":     config.KeyWskdeployBin,
	"redis-addr":        config.KeyRedisAddr,
	"log-level":         config.KeyLogLevel,
	"log-format":        config.KeyLogFormat,
}

type rootOptions struct {
	configFile string
	envFiles   []string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "deployweb",
		Short: "Deploy OpenWhisk projects from a git repository",
		Long: `deployweb resolves a git repository to a local directory, reusing a
pre-installed copy when one exists and shallow cloning otherwise, then runs
wskdeploy against the manifest it contains.

Examples:
  deployweb serve                                   Serve the action runtime protocol
  deployweb run --params '{"gitUrl":"https://github.com/org/repo"}'
  echo '{}' | deployweb run --decode                Run one activation from stdin`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/deployweb/config.yaml)")
	flags.StringSliceVar(&opts.envFiles, "env-file", nil, ".env files to read (default is ./.env when present)")
	flags.String("preinstalled-root", "", "directory holding pre-installed repositories")
	flags.String("scratch-root", "", "directory receiving fresh clones")
	flags.String("wskdeploy-bin", "", "wskdeploy program name or path")
	flags.String("redis-addr", "", "redis address for cross-process fetch locks")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")

	cmd.AddCommand(newServeCmd(opts), newRunCmd(opts), newVersionCmd())
	return cmd
}

// load resolves the configuration and logger for cmd.
func (o *rootOptions) load(cmd *cobra.Command) error {
	overrides := make(map[string]any)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}

	var envFiles []string
	if f := cmd.Flags().Lookup("env-file"); f != nil && f.Changed {
		envFiles = o.envFiles
	}

	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigFile: o.configFile,
		EnvFiles:   envFiles,
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}
