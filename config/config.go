// Package config loads runtime settings for the deploy action.
//
// Values are resolved in this order, highest first:
//
//   - overrides passed by the caller (command line flags)
//   - process environment (DEPLOYWEB_* and the platform's __OW_* variables)
//   - .env files
//   - a config file (config.yaml, config.json or config.toml)
//   - defaults
//
// # Basic Usage
//
//	cfg, err := config.Load(ctx, config.LoadOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.ScratchRoot)
package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// AppName names the config and data directories.
const AppName = "deployweb"

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "DEPLOYWEB"

// Config keys.
const (
	KeyPreinstalledRoot = "preinstalled_root"
	KeyScratchRoot      = "scratch_root"
	KeyWskdeployBin     = "wskdeploy_bin"
	KeyListenAddr       = "listen_addr"
	KeyRedisAddr        = "redis_addr"
	KeyLockTTL          = "lock_ttl"
	KeyGitToken         = "git_token"
	KeyGitTokenHosts    = "git_token_hosts"
	KeyGitTokenSecret   = "git_token_secret"
	KeyAPIKeySecret     = "api_key_secret"
	KeyAWSRegion        = "aws_region"
	KeyAWSEndpoint      = "aws_endpoint"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyActivationID     = "activation_id"
	KeyAPIHost          = "api_host"
	KeyAPIKey           = "api_key"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the resolved settings.
type Config struct {
	// PreinstalledRoot holds repositories shipped with the runtime image.
	PreinstalledRoot string `mapstructure:"preinstalled_root"`
	// ScratchRoot receives fresh clones.
	ScratchRoot string `mapstructure:"scratch_root"`

	WskdeployBin string `mapstructure:"wskdeploy_bin"`
	ListenAddr   string `mapstructure:"listen_addr"`

	// RedisAddr enables cross-process fetch locks when set.
	RedisAddr string        `mapstructure:"redis_addr"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`

	// GitToken authenticates HTTPS clones of private repositories.
	GitToken string `mapstructure:"git_token"`
	// GitTokenHosts limits which hosts receive GitToken. Empty means any
	// HTTPS host.
	GitTokenHosts []string `mapstructure:"git_token_hosts"`

	// Secrets Manager references ("id" or "id#field") that replace
	// GitToken and APIKey at startup when set.
	GitTokenSecret string `mapstructure:"git_token_secret"`
	APIKeySecret   string `mapstructure:"api_key_secret"`
	AWSRegion      string `mapstructure:"aws_region"`
	AWSEndpoint    string `mapstructure:"aws_endpoint"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Ambient values normally provided by the platform.
	ActivationID string `mapstructure:"activation_id"`
	APIHost      string `mapstructure:"api_host"`
	APIKey       string `mapstructure:"api_key"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		PreinstalledRoot: filepath.Join(xdg.DataHome, AppName, "preInstalled"),
		ScratchRoot:      filepath.Join(xdg.CacheHome, AppName, "tmp"),
		WskdeployBin:     "wskdeploy",
		ListenAddr:       ":8080",
		LockTTL:          10 * time.Minute,
		LogLevel:         "info",
		LogFormat:        LogFormatText,
	}
}

// LoadOptions configures Load.
type LoadOptions struct {
	// ConfigFile is an explicit config file. It must exist when set.
	ConfigFile string

	// ConfigDir is searched for a config file when ConfigFile is empty.
	// Defaults to $XDG_CONFIG_HOME/deployweb.
	ConfigDir string

	// EnvFiles are .env files to read. A missing file is an error.
	// When nil, ./.env is read if it exists.
	EnvFiles []string

	// Overrides take precedence over every other source.
	Overrides map[string]any

	// SkipValidation returns the configuration without validating it.
	SkipValidation bool
}

// Load resolves the configuration from all sources and validates it.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, err := load(ctx, opts)
	if err != nil {
		return nil, err
	}
	if opts.SkipValidation {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
