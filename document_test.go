package esgo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingTransport captures the last dispatched request and returns a
// canned response.
type recordingTransport struct {
	method string
	url    string
	params url.Values
	body   []byte
	calls  int
	resp   *Response
	err    error
}

func (rt *recordingTransport) record(method, u string, params url.Values, body []byte) (*Response, error) {
	rt.method = method
	rt.url = u
	rt.params = params
	rt.body = body
	rt.calls++
	if rt.resp == nil && rt.err == nil {
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"ok":true}`)}, nil
	}
	return rt.resp, rt.err
}

func (rt *recordingTransport) Get(_ context.Context, u string, params url.Values) (*Response, error) {
	return rt.record(http.MethodGet, u, params, nil)
}

func (rt *recordingTransport) Post(_ context.Context, u string, body []byte) (*Response, error) {
	return rt.record(http.MethodPost, u, nil, body)
}

func (rt *recordingTransport) Put(_ context.Context, u string, body []byte) (*Response, error) {
	return rt.record(http.MethodPut, u, nil, body)
}

func (rt *recordingTransport) Delete(_ context.Context, u string, body []byte) (*Response, error) {
	return rt.record(http.MethodDelete, u, nil, body)
}

func TestDocumentOptions(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		doc := NewDocument().
			Routing("r1").
			Parent("p1").
			Timestamp("2009-11-15T14:12:12").
			TTL("1d").
			Timeout("5m").
			Refresh(true).
			Realtime(false).
			Version(7).
			RetryOnConflict(3).
			Percolate("*").
			VersionType(VersionTypeExternal).
			OpType(OpTypeCreate).
			Replication(ReplicationAsync).
			Consistency(ConsistencyQuorum).
			Fields("a", "b").
			Script("ctx._source.n += 1").
			Lang("groovy").
			Params(map[string]any{"x": 1}).
			Upsert(map[string]any{"n": 0}).
			Source(map[string]any{"f": 1})

		opts := doc.Options()
		assert.Equal(t, "r1", opts["routing"])
		assert.Equal(t, "p1", opts["parent"])
		assert.Equal(t, "2009-11-15T14:12:12", opts["timestamp"])
		assert.Equal(t, "1d", opts["ttl"])
		assert.Equal(t, "5m", opts["timeout"])
		assert.Equal(t, true, opts["refresh"])
		assert.Equal(t, false, opts["realtime"])
		assert.Equal(t, int64(7), opts["version"])
		assert.Equal(t, 3, opts["retry_on_conflict"])
		assert.Equal(t, "*", opts["percolate"])
		assert.Equal(t, "external", opts["version_type"])
		assert.Equal(t, "create", opts["op_type"])
		assert.Equal(t, "async", opts["replication"])
		assert.Equal(t, "quorum", opts["consistency"])
		assert.Equal(t, []string{"a", "b"}, opts["fields"])
		assert.Equal(t, "ctx._source.n += 1", opts["script"])
		assert.Equal(t, "groovy", opts["lang"])
		assert.Equal(t, map[string]any{"x": 1}, opts["params"])
		assert.Equal(t, map[string]any{"n": 0}, opts["upsert"])
		assert.Equal(t, map[string]any{"f": 1}, opts["source"])
	})

	t.Run("UnsetOptionsAbsent", func(t *testing.T) {
		opts := NewDocument().Routing("r1").Options()
		assert.Len(t, opts, 1)
		_, ok := opts["refresh"]
		assert.False(t, ok)
	})

	t.Run("IdentityNotInOptions", func(t *testing.T) {
		doc := NewDocument().Index("i").Type("t").ID("5")
		assert.Empty(t, doc.Options())
		assert.Equal(t, "i", doc.IndexName())
		assert.Equal(t, "t", doc.TypeName())
		assert.Equal(t, "5", doc.DocumentID())
	})
}

func TestDocumentEnumValidation(t *testing.T) {
	t.Run("LenientKeepsPriorValue", func(t *testing.T) {
		doc := NewDocument().Consistency(ConsistencyQuorum)
		ret := doc.Consistency("bogus")
		assert.Same(t, doc, ret)
		assert.Equal(t, "quorum", doc.Options()["consistency"])
		assert.NoError(t, doc.Err())
	})

	t.Run("LenientKeepsAbsence", func(t *testing.T) {
		doc := NewDocument().VersionType("bogus")
		_, ok := doc.Options()["version_type"]
		assert.False(t, ok)
		assert.NoError(t, doc.Err())
	})

	t.Run("StrictRecordsFirstError", func(t *testing.T) {
		doc := NewDocument().Strict().
			OpType("bogus").
			Replication("also-bogus")

		var ive *InvalidValueError
		require.ErrorAs(t, doc.Err(), &ive)
		assert.Equal(t, "op_type", ive.Option)
		assert.Equal(t, "bogus", ive.Value)
	})

	t.Run("StrictAbortsDispatch", func(t *testing.T) {
		rt := &recordingTransport{}
		doc := NewDocument().Transport(rt).Strict().
			Index("i").Type("t").ID("5").
			Replication("bogus")

		_, err := doc.Fetch(context.Background())
		var ive *InvalidValueError
		require.ErrorAs(t, err, &ive)
		assert.Zero(t, rt.calls)
	})
}

func TestDocumentFields(t *testing.T) {
	t.Run("SingleCallsAppend", func(t *testing.T) {
		doc := NewDocument().Field("a").Field("b")
		assert.Equal(t, []string{"a", "b"}, doc.FieldNames())
	})

	t.Run("SequenceCallReplaces", func(t *testing.T) {
		doc := NewDocument().Field("a").Field("b").Fields("x", "y")
		assert.Equal(t, []string{"x", "y"}, doc.FieldNames())
	})

	t.Run("ReadInitializesEmpty", func(t *testing.T) {
		doc := NewDocument()
		fields := doc.FieldNames()
		require.NotNil(t, fields)
		assert.Empty(t, fields)

		// Append after read behaves the same as append after set.
		doc.Field("a")
		assert.Equal(t, []string{"a"}, doc.FieldNames())
	})
}

func TestDocumentQueryString(t *testing.T) {
	t.Run("ExcludesBodyOnlyKeys", func(t *testing.T) {
		doc := NewDocument().
			Routing("r1").
			Script("s").
			Lang("groovy").
			Params(map[string]any{"x": 1}).
			Upsert(map[string]any{"n": 0}).
			Source(map[string]any{"f": 1})

		assert.Equal(t, "routing=r1", doc.queryString())
	})

	t.Run("JoinsSequencesWithComma", func(t *testing.T) {
		doc := NewDocument().Fields("a", "b")
		assert.Equal(t, "fields=a%2Cb", doc.queryString())
	})

	t.Run("URLEncodesValues", func(t *testing.T) {
		doc := NewDocument().Routing("a b&c")
		assert.Equal(t, "routing=a+b%26c", doc.queryString())
	})

	t.Run("EmptyWhenNothingSet", func(t *testing.T) {
		assert.Equal(t, "", NewDocument().queryString())
	})

	t.Run("SortedKeys", func(t *testing.T) {
		doc := NewDocument().Routing("r1").Consistency(ConsistencyOne).Refresh(true)
		assert.Equal(t, "consistency=one&refresh=true&routing=r1", doc.queryString())
	})
}

func TestDocumentString(t *testing.T) {
	doc := NewDocument().Index("i").Type("t").Routing("r1").Refresh(true)
	assert.JSONEq(t, `{"routing":"r1","refresh":true}`, doc.String())
}

func TestDocumentFetch(t *testing.T) {
	t.Run("GetWithStructuredParams", func(t *testing.T) {
		rt := &recordingTransport{}
		doc := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			Routing("r1").Realtime(true).Fields("a", "b")

		resp, err := doc.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, http.MethodGet, rt.method)
		assert.Equal(t, "/i/t/5", rt.url)
		assert.Equal(t, "r1", rt.params.Get("routing"))
		assert.Equal(t, "true", rt.params.Get("realtime"))
		assert.Equal(t, "a,b", rt.params.Get("fields"))
	})

	t.Run("MissingID", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).Index("i").Type("t").Fetch(context.Background())

		var mfe *MissingFieldError
		require.ErrorAs(t, err, &mfe)
		assert.Equal(t, "fetch", mfe.Op)
		assert.Equal(t, "id", mfe.Field)
		assert.Zero(t, rt.calls)
	})
}

func TestDocumentStore(t *testing.T) {
	t.Run("PostWithoutID", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").
			Source(map[string]any{"f": 1}).
			Store(context.Background())
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, rt.method)
		assert.Equal(t, "/i/t", rt.url)
		assert.JSONEq(t, `{"f":1}`, string(rt.body))
	})

	t.Run("PutWithID", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			Source(map[string]any{"f": 1}).
			Store(context.Background())
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, rt.method)
		assert.Equal(t, "/i/t/5", rt.url)
	})

	t.Run("AppendsQueryString", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			OpType(OpTypeCreate).Refresh(true).
			Source(map[string]any{"f": 1}).
			Store(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/i/t/5?op_type=create&refresh=true", rt.url)
	})

	t.Run("MissingSource", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).Index("i").Type("t").Store(context.Background())
		require.ErrorIs(t, err, ErrMissingSource)
		assert.Zero(t, rt.calls)
	})
}

func TestDocumentUpdate(t *testing.T) {
	t.Run("ScriptOnlyBody", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			Script("ctx._source.f += 1").
			Update(context.Background())
		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, rt.method)
		assert.Equal(t, "/i/t/5/_update", rt.url)
		assert.JSONEq(t, `{"script":"ctx._source.f += 1"}`, string(rt.body))
	})

	t.Run("DocAliasedFromSource", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			Source(map[string]any{"f": 2}).
			Upsert(map[string]any{"f": 0}).
			Update(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"doc":{"f":2},"upsert":{"f":0}}`, string(rt.body))
	})

	t.Run("AppendsQueryString", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			RetryOnConflict(3).
			Script("s").
			Update(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "/i/t/5/_update?retry_on_conflict=3", rt.url)
	})

	t.Run("MissingScriptAndSource", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			Update(context.Background())
		require.ErrorIs(t, err, ErrMissingScriptOrSource)
		assert.Zero(t, rt.calls)
	})

	t.Run("MissingID", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").
			Script("s").
			Update(context.Background())
		var mfe *MissingFieldError
		require.ErrorAs(t, err, &mfe)
		assert.Zero(t, rt.calls)
	})
}

func TestDocumentDelete(t *testing.T) {
	t.Run("DeleteWithEmptyBody", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).
			Index("i").Type("t").ID("5").
			Delete(context.Background())
		require.NoError(t, err)
		assert.Equal(t, http.MethodDelete, rt.method)
		assert.Equal(t, "/i/t/5", rt.url)
		assert.Empty(t, rt.body)
	})

	t.Run("MissingID", func(t *testing.T) {
		rt := &recordingTransport{}
		_, err := NewDocument().Transport(rt).Index("i").Type("t").Delete(context.Background())
		var mfe *MissingFieldError
		require.ErrorAs(t, err, &mfe)
		assert.Zero(t, rt.calls)
	})
}

func TestDocumentNoTransport(t *testing.T) {
	doc := NewDocument().Index("i").Type("t").ID("5").Source(map[string]any{"f": 1})
	ctx := context.Background()

	for name, op := range map[string]func(context.Context) (*Response, error){
		"fetch":  doc.Fetch,
		"store":  doc.Store,
		"update": doc.Update,
		"delete": doc.Delete,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := op(ctx)
			require.ErrorIs(t, err, ErrNoTransport)

			var mfe *MissingFieldError
			assert.False(t, errors.As(err, &mfe))
		})
	}
}

func TestDocumentTransportError(t *testing.T) {
	wantErr := errors.New("boom")
	rt := &recordingTransport{err: wantErr}
	resp, err := NewDocument().Transport(rt).
		Index("i").Type("t").ID("5").
		Fetch(context.Background())
	require.ErrorIs(t, err, wantErr)
	assert.Nil(t, resp)
}
