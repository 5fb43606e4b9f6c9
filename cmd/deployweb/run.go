package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/catalyst-forge-deploy/action"
	"github.com/input-output-hk/catalyst-forge-deploy/wskdeploy"
)

type decodedResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       map[string]any    `json:"body"`
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		params string
		decode bool
		stream bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one activation and print the response",
		Long: `Run one activation with JSON parameters taken from --params, or from
stdin when --params is empty or "-". The response is printed as JSON and the
command exits non-zero when the activation fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.load(cmd); err != nil {
				return err
			}

			data := []byte(params)
			if params == "" || params == "-" {
				var err error
				if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
					return fmt.Errorf("failed to read parameters: %w", err)
				}
			}

			req, err := action.DecodeParams(data)
			if err != nil {
				return err
			}

			var deployOpts []wskdeploy.Option
			if stream {
				deployOpts = append(deployOpts, wskdeploy.WithOutput(cmd.ErrOrStderr()))
			}

			a, err := newApp(cmd.Context(), opts.cfg, opts.logger, deployOpts...)
			if err != nil {
				return err
			}
			defer a.Close()

			resp := a.action.Handle(cmd.Context(), a.environment(), req)
			if err := printResponse(cmd.OutOrStdout(), resp, decode); err != nil {
				return err
			}

			if resp.StatusCode >= http.StatusBadRequest {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&params, "params", "p", "", `action parameters as JSON (default reads stdin)`)
	cmd.Flags().BoolVar(&decode, "decode", false, "print the body decoded instead of base64")
	cmd.Flags().BoolVar(&stream, "stream", false, "copy wskdeploy output to stderr while it runs")
	return cmd
}

func printResponse(w io.Writer, resp action.Response, decode bool) error {
	var out any = resp
	if decode {
		body, err := action.DecodeBody(resp)
		if err != nil {
			return err
		}
		out = decodedResponse{StatusCode: resp.StatusCode, Headers: resp.Headers, Body: body}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to print response: %w", err)
	}
	return nil
}
