package secrets

import "log/slog"

type clientOptions struct {
	logger   *slog.Logger
	cache    Cache
	region   string
	endpoint string
}

// Option configures a Client.
type Option func(*clientOptions)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithCache enables caching of resolved values.
func WithCache(cache Cache) Option {
	return func(o *clientOptions) {
		o.cache = cache
	}
}

// WithRegion overrides the region from the default AWS configuration.
func WithRegion(region string) Option {
	return func(o *clientOptions) {
		o.region = region
	}
}

// WithEndpoint points the client at a custom endpoint such as LocalStack.
func WithEndpoint(url string) Option {
	return func(o *clientOptions) {
		o.endpoint = url
	}
}

func applyOptions(opts []Option) *clientOptions {
	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
