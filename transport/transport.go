// Package transport provides the default net/http implementation of the
// esgo.Transport interface.
//
// The transport owns everything the document builders delegate: endpoint
// selection with failover, retries, authentication, compression and rate
// limiting. Multiple endpoints are used round-robin; an endpoint whose
// request fails at the network level is marked dead and skipped until a
// health check revives it.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/veloq/esgo"
)

const healthCheckTimeout = 5 * time.Second

type endpoint struct {
	url  string
	dead atomic.Bool
}

// HTTP is an esgo.Transport over net/http.
//
// Concurrent use is safe: endpoint state is atomic and the underlying
// http.Client is shared.
type HTTP struct {
	endpoints []*endpoint
	next      atomic.Uint32
	client    *http.Client
	logger    *esgo.Logger

	username  string
	password  string
	apiKey    string
	userAgent string
	gzip      bool
	opaqueIDs bool

	rptr    *repeater.Repeater
	limiter *rate.Limiter

	healthInterval time.Duration
	healthCancel   context.CancelFunc
}

// New creates an HTTP transport. Without options it targets a single local
// engine at http://localhost:9200.
func New(optFns ...Option) (*HTTP, error) {
	o, err := applyOptions(optFns)
	if err != nil {
		return nil, err
	}

	t := &HTTP{
		client:         o.client,
		logger:         o.logger,
		username:       o.username,
		password:       o.password,
		apiKey:         o.apiKey,
		userAgent:      o.userAgent,
		gzip:           o.gzip,
		opaqueIDs:      o.opaqueIDs,
		limiter:        o.limiter,
		healthInterval: o.healthInterval,
	}
	for _, e := range o.endpoints {
		t.endpoints = append(t.endpoints, &endpoint{url: strings.TrimRight(e, "/")})
	}
	if o.maxRetries > 0 {
		t.rptr = repeater.NewDefault(o.maxRetries+1, o.retryDelay)
	}

	if t.healthInterval > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		t.healthCancel = cancel
		go t.healthLoop(ctx)
	}

	return t, nil
}

// Close stops the background health checker. The transport remains usable
// for requests; dead endpoints just stop being revived automatically.
func (t *HTTP) Close() error {
	if t.healthCancel != nil {
		t.healthCancel()
	}
	return nil
}

// Get implements esgo.Transport.
func (t *HTTP) Get(ctx context.Context, u string, params url.Values) (*esgo.Response, error) {
	return t.do(ctx, http.MethodGet, u, params, nil)
}

// Post implements esgo.Transport.
func (t *HTTP) Post(ctx context.Context, u string, body []byte) (*esgo.Response, error) {
	return t.do(ctx, http.MethodPost, u, nil, body)
}

// Put implements esgo.Transport.
func (t *HTTP) Put(ctx context.Context, u string, body []byte) (*esgo.Response, error) {
	return t.do(ctx, http.MethodPut, u, nil, body)
}

// Delete implements esgo.Transport.
func (t *HTTP) Delete(ctx context.Context, u string, body []byte) (*esgo.Response, error) {
	return t.do(ctx, http.MethodDelete, u, nil, body)
}

// retryableStatus reports whether a status is worth retrying: throttling
// and gateway trouble, never other 4xx.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

func (t *HTTP) do(ctx context.Context, method, path string, params url.Values, body []byte) (*esgo.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var resp *esgo.Response
	op := func() error {
		ep := t.pickEndpoint()
		r, err := t.roundTrip(ctx, method, ep, path, params, body)
		if err != nil {
			ep.dead.Store(true)
			t.logger.WarnContext(ctx, "endpoint request failed",
				"endpoint", ep.url,
				"method", method,
				"error", err,
			)
			return err
		}
		resp = r
		if retryableStatus(r.StatusCode) {
			return esgo.NewStatusError(r.StatusCode, r.Body)
		}
		return nil
	}

	var err error
	if t.rptr != nil {
		err = t.rptr.Do(ctx, op)
	} else {
		err = op()
	}
	// A response, retryable status or not, beats an error once retries are
	// exhausted: the builder contract returns any HTTP response as-is.
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

// pickEndpoint selects the next live endpoint round-robin. With every
// endpoint marked dead, the round-robin pick is revived and gets to prove
// itself.
func (t *HTTP) pickEndpoint() *endpoint {
	n := len(t.endpoints)
	start := int(t.next.Add(1) % uint32(n))
	for i := 0; i < n; i++ {
		ep := t.endpoints[(start+i)%n]
		if !ep.dead.Load() {
			return ep
		}
	}
	ep := t.endpoints[start]
	ep.dead.Store(false)
	return ep
}

func (t *HTTP) roundTrip(ctx context.Context, method string, ep *endpoint, path string, params url.Values, body []byte) (*esgo.Response, error) {
	u := ep.url + path
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		u += sep + params.Encode()
	}

	var reader io.Reader
	compressed := false
	if len(body) > 0 {
		if t.gzip {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			if _, err := zw.Write(body); err != nil {
				return nil, err
			}
			if err := zw.Close(); err != nil {
				return nil, err
			}
			reader = &buf
			compressed = true
		} else {
			reader = bytes.NewReader(body)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if compressed {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if t.username != "" {
		req.SetBasicAuth(t.username, t.password)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+t.apiKey)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.opaqueIDs {
		req.Header.Set("X-Opaque-Id", uuid.NewString())
	}

	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var rd io.Reader = res.Body
	if strings.EqualFold(res.Header.Get("Content-Encoding"), "gzip") {
		zr, zerr := gzip.NewReader(res.Body)
		if zerr != nil {
			return nil, zerr
		}
		defer zr.Close()
		rd = zr
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	return &esgo.Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       b,
	}, nil
}

func (t *HTTP) healthLoop(ctx context.Context) {
	ticker := time.NewTicker(t.healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkEndpoints(ctx)
		}
	}
}

// checkEndpoints probes every endpoint concurrently and updates its
// liveness. A HEAD on the engine root is enough to tell dead from alive.
func (t *HTTP) checkEndpoints(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	for _, ep := range t.endpoints {
		ep := ep
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			defer cancel()

			req, err := http.NewRequestWithContext(cctx, http.MethodHead, ep.url+"/", nil)
			if err != nil {
				return nil
			}
			res, err := t.client.Do(req)
			if err != nil {
				ep.dead.Store(true)
				return nil
			}
			res.Body.Close()

			wasDead := ep.dead.Swap(res.StatusCode > 299)
			if wasDead && res.StatusCode <= 299 {
				t.logger.InfoContext(ctx, "endpoint revived", "endpoint", ep.url)
			}
			return nil
		})
	}
	_ = g.Wait()
}
