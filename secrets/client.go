package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
)

// Client reads secret values from AWS Secrets Manager.
type Client struct {
	api    ManagerAPI
	logger *slog.Logger
	cache  Cache
}

// NewClient creates a Client from the default AWS credential chain.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	o := applyOptions(opts)

	var loadOpts []func(*awsconfig.LoadOptions) error
	if o.region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(o.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	api := secretsmanager.NewFromConfig(cfg, func(so *secretsmanager.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
		}
	})
	return &Client{api: api, logger: o.logger, cache: o.cache}, nil
}

// NewClientWithAPI creates a Client over an existing ManagerAPI.
func NewClientWithAPI(api ManagerAPI, opts ...Option) (*Client, error) {
	if api == nil {
		return nil, fmt.Errorf("api cannot be nil")
	}
	o := applyOptions(opts)
	return &Client{api: api, logger: o.logger, cache: o.cache}, nil
}

// GetSecret returns the value of the secret with the given id or ARN.
func (c *Client) GetSecret(ctx context.Context, secretID string) (string, error) {
	if secretID == "" {
		return "", fmt.Errorf("secret id cannot be empty")
	}

	if c.cache != nil {
		if value, ok := c.cache.Get(secretID); ok {
			c.logger.DebugContext(ctx, "secret served from cache", "secret_id", secretID)
			return value, nil
		}
	}

	c.logger.DebugContext(ctx, "retrieving secret", "secret_id", secretID)

	output, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		err = classify(err)
		c.logger.ErrorContext(ctx, "failed to retrieve secret", "secret_id", secretID, "error", err)
		return "", fmt.Errorf("get secret %s: %w", secretID, err)
	}

	var value string
	switch {
	case output.SecretString != nil:
		value = *output.SecretString
	case output.SecretBinary != nil:
		value = string(output.SecretBinary)
	}
	if value == "" {
		return "", fmt.Errorf("get secret %s: %w", secretID, ErrSecretEmpty)
	}

	if c.cache != nil {
		c.cache.Set(secretID, value, 0)
	}
	return value, nil
}

// Value resolves a reference of the form "id" or "id#field".
func (c *Client) Value(ctx context.Context, ref string) (string, error) {
	secretID, field, hasField := strings.Cut(ref, "#")

	value, err := c.GetSecret(ctx, secretID)
	if err != nil {
		return "", err
	}
	if !hasField {
		return value, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", fmt.Errorf("secret %s is not a JSON object: %w", secretID, ErrFieldNotFound)
	}
	s, ok := fields[field].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("secret %s field %q: %w", secretID, field, ErrFieldNotFound)
	}
	return s, nil
}

// classify maps AWS API errors onto the package errors.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.ErrorCode() {
	case ResourceNotFoundException:
		return ErrSecretNotFound
	case AccessDeniedException:
		return ErrAccessDenied
	}
	return fmt.Errorf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
}
