package doccache

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloq/esgo"
)

type countingTransport struct {
	gets int
	resp *esgo.Response
}

func (ct *countingTransport) Get(context.Context, string, url.Values) (*esgo.Response, error) {
	ct.gets++
	if ct.resp != nil {
		return ct.resp, nil
	}
	return &esgo.Response{StatusCode: http.StatusOK, Body: []byte(`{"found":true}`)}, nil
}

func (ct *countingTransport) Post(context.Context, string, []byte) (*esgo.Response, error) {
	return &esgo.Response{StatusCode: http.StatusOK}, nil
}

func (ct *countingTransport) Put(context.Context, string, []byte) (*esgo.Response, error) {
	return &esgo.Response{StatusCode: http.StatusOK}, nil
}

func (ct *countingTransport) Delete(context.Context, string, []byte) (*esgo.Response, error) {
	return &esgo.Response{StatusCode: http.StatusOK}, nil
}

func TestCacheHit(t *testing.T) {
	inner := &countingTransport{}
	tr, err := New(inner, 16, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = tr.Get(ctx, "/i/t/1", nil)
	require.NoError(t, err)
	_, err = tr.Get(ctx, "/i/t/1", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	hits, misses := tr.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestParamsAreCacheKey(t *testing.T) {
	inner := &countingTransport{}
	tr, err := New(inner, 16, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = tr.Get(ctx, "/i/t/1", url.Values{"routing": {"a"}})
	require.NoError(t, err)
	_, err = tr.Get(ctx, "/i/t/1", url.Values{"routing": {"b"}})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.gets)
}

func TestWriteInvalidates(t *testing.T) {
	tests := []struct {
		name  string
		write func(tr *Transport, ctx context.Context) error
	}{
		{"Put", func(tr *Transport, ctx context.Context) error {
			_, err := tr.Put(ctx, "/i/t/1", []byte(`{}`))
			return err
		}},
		{"Post", func(tr *Transport, ctx context.Context) error {
			_, err := tr.Post(ctx, "/i/t/1?refresh=true", []byte(`{}`))
			return err
		}},
		{"Update", func(tr *Transport, ctx context.Context) error {
			_, err := tr.Post(ctx, "/i/t/1/_update", []byte(`{}`))
			return err
		}},
		{"Delete", func(tr *Transport, ctx context.Context) error {
			_, err := tr.Delete(ctx, "/i/t/1", nil)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &countingTransport{}
			tr, err := New(inner, 16, time.Minute)
			require.NoError(t, err)
			ctx := context.Background()

			_, err = tr.Get(ctx, "/i/t/1", nil)
			require.NoError(t, err)
			require.NoError(t, tt.write(tr, ctx))

			_, err = tr.Get(ctx, "/i/t/1", nil)
			require.NoError(t, err)
			assert.Equal(t, 2, inner.gets)
		})
	}
}

func TestErrorResponsesNotCached(t *testing.T) {
	inner := &countingTransport{resp: &esgo.Response{StatusCode: http.StatusNotFound}}
	tr, err := New(inner, 16, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = tr.Get(ctx, "/i/t/404", nil)
	require.NoError(t, err)
	_, err = tr.Get(ctx, "/i/t/404", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.gets)
}

func TestTTLExpiry(t *testing.T) {
	inner := &countingTransport{}
	tr, err := New(inner, 16, time.Millisecond)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = tr.Get(ctx, "/i/t/1", nil)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = tr.Get(ctx, "/i/t/1", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.gets)
}
