// Package doccache provides an LRU caching decorator for esgo.Transport.
//
// Fetch responses are cached by URL and query parameters; any write through
// the same transport invalidates cached entries for the touched path. The
// decorator is meant for read-heavy workloads where a bounded staleness
// window (the TTL) is acceptable.
package doccache

import (
	"context"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/veloq/esgo"
)

// DefaultSize is the default number of cached responses.
const DefaultSize = 1024

type entry struct {
	resp    *esgo.Response
	fetched time.Time
}

// Transport wraps an esgo.Transport with an LRU response cache for Get
// calls. Post, Put and Delete pass through and invalidate cached entries
// whose path they touch.
type Transport struct {
	next  esgo.Transport
	cache *lru.Cache[string, entry]
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a caching transport. size bounds the number of cached
// responses; ttl bounds their age. A non-positive size falls back to
// DefaultSize; a non-positive ttl disables expiry.
func New(next esgo.Transport, size int, ttl time.Duration) (*Transport, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Transport{
		next:  next,
		cache: cache,
		ttl:   ttl,
	}, nil
}

func cacheKey(u string, params url.Values) string {
	return u + "?" + params.Encode()
}

// basePath strips any query string already baked into a dispatch URL.
func basePath(u string) string {
	if i := strings.IndexByte(u, '?'); i >= 0 {
		return u[:i]
	}
	return u
}

// Get implements esgo.Transport. Successful responses are cached; error
// statuses are not.
func (t *Transport) Get(ctx context.Context, u string, params url.Values) (*esgo.Response, error) {
	key := cacheKey(u, params)
	if e, ok := t.cache.Get(key); ok {
		if t.ttl <= 0 || time.Since(e.fetched) < t.ttl {
			t.hits.Add(1)
			return e.resp, nil
		}
		t.cache.Remove(key)
	}
	t.misses.Add(1)

	resp, err := t.next.Get(ctx, u, params)
	if err != nil {
		return nil, err
	}
	if !resp.IsError() {
		t.cache.Add(key, entry{resp: resp, fetched: time.Now()})
	}
	return resp, nil
}

// Post implements esgo.Transport, invalidating cached entries under the
// touched path.
func (t *Transport) Post(ctx context.Context, u string, body []byte) (*esgo.Response, error) {
	t.invalidate(u)
	return t.next.Post(ctx, u, body)
}

// Put implements esgo.Transport, invalidating cached entries under the
// touched path.
func (t *Transport) Put(ctx context.Context, u string, body []byte) (*esgo.Response, error) {
	t.invalidate(u)
	return t.next.Put(ctx, u, body)
}

// Delete implements esgo.Transport, invalidating cached entries under the
// touched path.
func (t *Transport) Delete(ctx context.Context, u string, body []byte) (*esgo.Response, error) {
	t.invalidate(u)
	return t.next.Delete(ctx, u, body)
}

// invalidate drops every cached entry whose path the write touches. An
// update URL like /i/t/5/_update invalidates the cached fetch of /i/t/5.
func (t *Transport) invalidate(u string) {
	base := strings.TrimSuffix(basePath(u), "/_update")
	for _, key := range t.cache.Keys() {
		if strings.HasPrefix(key, base) {
			t.cache.Remove(key)
		}
	}
}

// Stats returns hit and miss counts since creation.
func (t *Transport) Stats() (hits, misses int64) {
	return t.hits.Load(), t.misses.Load()
}

// Purge drops every cached entry.
func (t *Transport) Purge() {
	t.cache.Purge()
}
