package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/input-output-hk/catalyst-forge-deploy/action"
	"github.com/input-output-hk/catalyst-forge-deploy/config"
	"github.com/input-output-hk/catalyst-forge-deploy/errors"
	billyfs "github.com/input-output-hk/catalyst-forge-deploy/fs/billy"
	"github.com/input-output-hk/catalyst-forge-deploy/git"
	"github.com/input-output-hk/catalyst-forge-deploy/lock"
	"github.com/input-output-hk/catalyst-forge-deploy/secrets"
	"github.com/input-output-hk/catalyst-forge-deploy/wskdeploy"
)

// app is the action wired from configuration.
type app struct {
	cfg    *config.Config
	action *action.Action
	closer func() error
}

// secretCacheTTL bounds how long a Secrets Manager value is reused while
// resolving several references to the same secret.
const secretCacheTTL = 5 * time.Minute

// secretSource resolves Secrets Manager references.
type secretSource interface {
	Value(ctx context.Context, ref string) (string, error)
}

// newApp wires the action. deployOpts are applied after the configured ones.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, deployOpts ...wskdeploy.Option) (*app, error) {
	if cfg.GitTokenSecret != "" || cfg.APIKeySecret != "" {
		client, err := secrets.NewClient(ctx,
			secrets.WithRegion(cfg.AWSRegion),
			secrets.WithEndpoint(cfg.AWSEndpoint),
			secrets.WithCache(secrets.NewInMemoryCache(secretCacheTTL, 0)),
			secrets.WithLogger(logger),
		)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create secrets client")
		}
		if cfg, err = resolveSecrets(ctx, cfg, client); err != nil {
			return nil, err
		}
	}

	fsys := billyfs.NewBaseOSFS()

	var (
		locker lock.Locker = lock.NewKeyed()
		closer             = func() error { return nil }
	)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		locker = lock.NewRedis(client, lock.WithTTL(cfg.LockTTL), lock.WithLogger(logger))
		closer = client.Close
		logger.Debug("using redis fetch locks", "addr", cfg.RedisAddr)
	}

	fetchOpts := []action.FetcherOption{
		action.WithLocker(locker),
		action.WithFetcherLogger(logger),
	}
	if cfg.GitToken != "" {
		fetchOpts = append(fetchOpts, action.WithAuth(git.NewTokenAuth(cfg.GitToken, cfg.GitTokenHosts...)))
	}

	layout := action.Layout{PreinstalledRoot: cfg.PreinstalledRoot, ScratchRoot: cfg.ScratchRoot}
	act := action.New(
		action.NewLocator(fsys, layout),
		action.NewGitFetcher(fsys, fetchOpts...),
		wskdeploy.New(append([]wskdeploy.Option{
			wskdeploy.WithBinary(cfg.WskdeployBin),
			wskdeploy.WithLogger(logger),
		}, deployOpts...)...),
		action.WithLogger(logger),
	)

	return &app{cfg: cfg, action: act, closer: closer}, nil
}

// resolveSecrets returns a copy of cfg with GitToken and APIKey replaced by
// the values their secret references point at.
func resolveSecrets(ctx context.Context, cfg *config.Config, src secretSource) (*config.Config, error) {
	resolved := *cfg
	targets := []struct {
		key string
		ref string
		dst *string
	}{
		{config.KeyGitTokenSecret, cfg.GitTokenSecret, &resolved.GitToken},
		{config.KeyAPIKeySecret, cfg.APIKeySecret, &resolved.APIKey},
	}
	for _, t := range targets {
		if t.ref == "" {
			continue
		}
		value, err := src.Value(ctx, t.ref)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to resolve "+t.key)
		}
		*t.dst = value
	}
	return &resolved, nil
}

// environment returns the ambient values from configuration.
func (a *app) environment() action.Environment {
	return action.Environment{
		ActivationID: a.cfg.ActivationID,
		APIHost:      a.cfg.APIHost,
		APIKey:       a.cfg.APIKey,
	}
}

func (a *app) Close() error {
	return a.closer()
}
