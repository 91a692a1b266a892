package esgo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// MultiGet composes document builders into a single _mget request. Each
// added document contributes an entry with its identity plus routing,
// fields and source selection.
type MultiGet struct {
	transport Transport
	logger    *Logger
	metrics   MetricsCollector

	docs []*Document
}

// NewMultiGet creates a free-standing multi-get builder with no transport.
func NewMultiGet() *MultiGet {
	return &MultiGet{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
}

// Transport sets the transport used for dispatch.
func (m *MultiGet) Transport(t Transport) *MultiGet {
	m.transport = t
	return m
}

// Add queues documents for retrieval.
func (m *MultiGet) Add(docs ...*Document) *MultiGet {
	m.docs = append(m.docs, docs...)
	return m
}

// Len returns the number of queued documents.
func (m *MultiGet) Len() int {
	return len(m.docs)
}

func (m *MultiGet) validate() error {
	var merr *multierror.Error
	for i, doc := range m.docs {
		if doc == nil {
			merr = multierror.Append(merr, fmt.Errorf("doc %d: nil document", i))
			continue
		}
		if doc.IndexName() == "" {
			merr = multierror.Append(merr, fmt.Errorf("doc %d: %w", i, &MissingFieldError{Op: "multi-get", Field: "index"}))
		}
		if doc.DocumentID() == "" {
			merr = multierror.Append(merr, fmt.Errorf("doc %d: %w", i, &MissingFieldError{Op: "multi-get", Field: "id"}))
		}
	}
	return merr.ErrorOrNil()
}

// Body renders the _mget request body: {"docs":[...]}.
func (m *MultiGet) Body() ([]byte, error) {
	entries := make([]map[string]any, 0, len(m.docs))
	for _, doc := range m.docs {
		entry := map[string]any{
			"_index": doc.IndexName(),
			"_id":    doc.DocumentID(),
		}
		if typ := doc.TypeName(); typ != "" {
			entry["_type"] = typ
		}
		opts := doc.Options()
		if v, ok := opts["routing"]; ok {
			entry["routing"] = v
		}
		if v, ok := opts["fields"]; ok {
			entry["fields"] = v
		}
		if v, ok := opts["source"]; ok {
			entry["_source"] = v
		}
		entries = append(entries, entry)
	}
	return json.Marshal(map[string]any{"docs": entries})
}

// Do validates every queued document, accumulating all failures into one
// error, then issues a single POST to /_mget.
func (m *MultiGet) Do(ctx context.Context) (*Response, error) {
	if m.transport == nil {
		return nil, ErrNoTransport
	}
	if len(m.docs) == 0 {
		return nil, ErrEmptyMultiGet
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	body, err := m.Body()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := m.transport.Post(ctx, "/_mget", body)
	m.metrics.RecordMultiGet(len(m.docs), time.Since(start), err)
	m.logger.LogMultiGet(ctx, len(m.docs), statusOf(resp), err)
	return resp, err
}
