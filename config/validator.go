package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/input-output-hk/catalyst-forge-deploy/errors"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every invalid setting in one error.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New(errors.CodeInvalidConfig, "configuration is nil")
	}

	var problems []string

	for key, root := range map[string]string{
		KeyPreinstalledRoot: c.PreinstalledRoot,
		KeyScratchRoot:      c.ScratchRoot,
	} {
		switch {
		case root == "":
			problems = append(problems, fmt.Sprintf("%s must be set", key))
		case !filepath.IsAbs(root):
			problems = append(problems, fmt.Sprintf("%s must be an absolute path, got %q", key, root))
		}
	}

	if c.PreinstalledRoot != "" && filepath.Clean(c.PreinstalledRoot) == filepath.Clean(c.ScratchRoot) {
		problems = append(problems, "preinstalled_root and scratch_root must differ")
	}

	if c.WskdeployBin == "" {
		problems = append(problems, "wskdeploy_bin must be set")
	}
	if c.ListenAddr == "" {
		problems = append(problems, "listen_addr must be set")
	}
	if c.LockTTL <= 0 {
		problems = append(problems, fmt.Sprintf("lock_ttl must be positive, got %s", c.LockTTL))
	}
	if !logLevels[strings.ToLower(c.LogLevel)] {
		problems = append(problems, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		problems = append(problems, fmt.Sprintf("log_format %q is not one of text, json", c.LogFormat))
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return errors.New(errors.CodeInvalidConfig,
			"configuration validation failed: "+strings.Join(problems, "; "))
	}
	return nil
}
