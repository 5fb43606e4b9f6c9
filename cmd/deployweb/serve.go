package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/catalyst-forge-deploy/proxy"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the action runtime protocol (POST /init, POST /run)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}
			if listenAddr == "" {
				listenAddr = opts.cfg.ListenAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := &http.Server{
				Addr: listenAddr,
				Handler: proxy.New(a.action,
					proxy.WithDefaults(a.environment()),
					proxy.WithLogger(opts.logger),
				),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, opts)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (default from config, :8080)")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, opts *rootOptions) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		opts.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		opts.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
