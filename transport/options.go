package transport

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/veloq/esgo"
)

const (
	defaultEndpoint   = "http://localhost:9200"
	defaultRetryDelay = 500 * time.Millisecond
)

type options struct {
	endpoints      []string
	client         *http.Client
	logger         *esgo.Logger
	username       string
	password       string
	apiKey         string
	secret         string
	userAgent      string
	gzip           bool
	opaqueIDs      bool
	maxRetries     int
	retryDelay     time.Duration
	limiter        *rate.Limiter
	healthInterval time.Duration
}

// Option configures transport constructor behavior.
type Option func(*options)

// WithEndpoints sets the engine endpoints, e.g. "http://es1:9200". Requests
// rotate over them round-robin.
func WithEndpoints(endpoints ...string) Option {
	return func(o *options) {
		o.endpoints = endpoints
	}
}

// WithBasicAuth sets basic-auth credentials.
func WithBasicAuth(username, password string) Option {
	return func(o *options) {
		o.username = username
		o.password = password
	}
}

// WithAPIKey sets an API key sent as "Authorization: ApiKey <key>".
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithSecret sets credentials from a single secret string, the format used
// in config files and env vars: "basic:user:pass" or "token:key".
func WithSecret(secret string) Option {
	return func(o *options) {
		o.secret = secret
	}
}

// WithHTTPClient replaces the underlying http.Client. Use this to plug in a
// custom RoundTripper, e.g. sigv4 signing.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithGzip enables gzip compression of request bodies.
func WithGzip() Option {
	return func(o *options) {
		o.gzip = true
	}
}

// WithMaxRetries enables retrying failed requests up to n times. Retried
// are network errors and 429/502/503 responses; other statuses come back
// as-is.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithRetryDelay sets the delay between retries.
func WithRetryDelay(delay time.Duration) Option {
	return func(o *options) {
		o.retryDelay = delay
	}
}

// WithRateLimit caps outbound requests per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *options) {
		o.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHealthCheckInterval enables periodic endpoint health checks. Dead
// endpoints are revived when they answer again. Zero disables checking.
func WithHealthCheckInterval(interval time.Duration) Option {
	return func(o *options) {
		o.healthInterval = interval
	}
}

// WithOpaqueIDs attaches a fresh X-Opaque-Id header to every request, for
// correlating engine-side task logs with client calls.
func WithOpaqueIDs() Option {
	return func(o *options) {
		o.opaqueIDs = true
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithLogger configures structured logging. Pass nil to disable.
func WithLogger(logger *esgo.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func parseSecret(secret string, o *options) error {
	switch {
	case strings.HasPrefix(secret, "basic:"):
		userpass := strings.SplitN(strings.TrimPrefix(secret, "basic:"), ":", 2)
		if len(userpass) != 2 {
			return fmt.Errorf("secret for basic auth should have format 'basic:user:pass'")
		}
		o.username, o.password = userpass[0], userpass[1]
		return nil
	case strings.HasPrefix(secret, "token:"):
		o.apiKey = strings.TrimPrefix(secret, "token:")
		return nil
	}
	return fmt.Errorf("secret should start with one of prefixes: basic:, token:")
}

func applyOptions(optFns []Option) (options, error) {
	o := options{
		endpoints:  []string{defaultEndpoint},
		client:     &http.Client{},
		logger:     esgo.NoopLogger(),
		retryDelay: defaultRetryDelay,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if len(o.endpoints) == 0 {
		o.endpoints = []string{defaultEndpoint}
	}
	if o.client == nil {
		o.client = &http.Client{}
	}
	if o.logger == nil {
		o.logger = esgo.NoopLogger()
	}
	if o.secret != "" {
		if err := parseSecret(o.secret, &o); err != nil {
			return options{}, err
		}
	}
	return o, nil
}
