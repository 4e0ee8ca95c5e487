package emby

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 3
	baseRetryDelay    = 500 * time.Millisecond
)

// Identity is the fixed client identification sent to the server
type Identity struct {
	Client   string
	Device   string
	DeviceID string
	Version  string
	Language string
}

// DefaultIdentity returns the identification used when none is configured
func DefaultIdentity() Identity {
	return Identity{
		Client:   "iPlay",
		Device:   "CLI",
		DeviceID: "iplay-cli-client",
		Version:  "1.0.0",
		Language: "zh-cn",
	}
}

type options struct {
	identity   Identity
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Connector or Client
type Option func(*options)

// WithIdentity sets the client identification headers
func WithIdentity(id Identity) Option {
	return func(o *options) { o.identity = id }
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithMaxRetries sets how many times a 5xx response is retried
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithRetryDelay sets the base backoff delay between retries
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) { o.retryDelay = d }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		identity:   DefaultIdentity(),
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		retryDelay: baseRetryDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
