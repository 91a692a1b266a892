package esgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("DocumentInheritsTransport", func(t *testing.T) {
		rt := &recordingTransport{}
		client := New(WithTransport(rt))

		_, err := client.Document().
			Index("i").Type("t").ID("5").
			Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, rt.calls)
	})

	t.Run("NoTransportSurfacesAtDispatch", func(t *testing.T) {
		client := New()
		assert.Nil(t, client.Transport())

		_, err := client.Document().Index("i").Type("t").ID("5").Fetch(context.Background())
		require.ErrorIs(t, err, ErrNoTransport)
	})

	t.Run("StrictValidationPropagates", func(t *testing.T) {
		client := New(WithTransport(&recordingTransport{}), WithStrictValidation())
		doc := client.Document().Consistency("bogus")

		var ive *InvalidValueError
		require.ErrorAs(t, doc.Err(), &ive)
	})

	t.Run("NilOptionValuesFallBackToNoop", func(t *testing.T) {
		client := New(WithLogger(nil), WithMetricsCollector(nil))
		require.NotNil(t, client.logger)
		require.NotNil(t, client.metrics)
	})
}

func TestClientMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	rt := &recordingTransport{}
	client := New(WithTransport(rt), WithMetricsCollector(metrics))
	ctx := context.Background()

	_, err := client.Document().Index("i").Type("t").ID("1").Fetch(ctx)
	require.NoError(t, err)

	_, err = client.Document().Index("i").Type("t").Source(map[string]any{"f": 1}).Store(ctx)
	require.NoError(t, err)

	_, err = client.Bulk().
		Add(NewDocument().Index("i").Type("t").Source(map[string]any{"f": 1})).
		Add(NewDocument().Index("i").Type("t").Source(map[string]any{"f": 2})).
		Do(ctx)
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.FetchCount)
	assert.Equal(t, int64(1), stats.StoreCount)
	assert.Equal(t, int64(1), stats.BulkCount)
	assert.Equal(t, int64(2), stats.BulkActions)
	assert.Zero(t, stats.FetchErrors)
}
