// Package esgo provides a document-level client for Elasticsearch-compatible
// search engines.
//
// This file implements the bulk builder, which composes document builders
// into a single newline-delimited request.
package esgo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/go-multierror"
)

const (
	bulkActionIndex  = "index"
	bulkActionCreate = "create"
	bulkActionUpdate = "update"
	bulkActionDelete = "delete"
)

// actionMetaOptions are the document options that travel on a bulk action
// line, prefixed with an underscore.
var actionMetaOptions = []string{
	"routing", "parent", "timestamp", "ttl", "version",
	"version_type", "percolate", "retry_on_conflict",
}

type bulkAction struct {
	kind string
	doc  *Document
}

// Bulk accumulates document builders into one bulk request. Each added
// document contributes an action line derived from its identity and option
// map, plus a payload line for index, create and update actions.
//
// Like Document, a Bulk is built single-threaded and consumed by one Do
// call.
type Bulk struct {
	transport Transport
	logger    *Logger
	metrics   MetricsCollector

	index       string
	typ         string
	refresh     *bool
	consistency Consistency
	replication Replication
	timeout     *string

	actions []bulkAction
}

// NewBulk creates a free-standing bulk builder with no transport.
func NewBulk() *Bulk {
	return &Bulk{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
}

// Transport sets the transport used for dispatch.
func (b *Bulk) Transport(t Transport) *Bulk {
	b.transport = t
	return b
}

// IndexName sets the default index for actions whose document has none.
// With a default set, the request goes to /index/_bulk and action lines
// omit _index where it matches.
func (b *Bulk) IndexName(index string) *Bulk {
	b.index = index
	return b
}

// TypeName sets the default document type for actions whose document has
// none.
func (b *Bulk) TypeName(typ string) *Bulk {
	b.typ = typ
	return b
}

// Refresh forces an index refresh after the bulk completes.
func (b *Bulk) Refresh(refresh bool) *Bulk {
	b.refresh = &refresh
	return b
}

// Consistency sets the write consistency level for the whole request.
// Out-of-set values are dropped.
func (b *Bulk) Consistency(c Consistency) *Bulk {
	if c.IsValid() {
		b.consistency = c
	}
	return b
}

// Replication sets the shard replication mode for the whole request.
// Out-of-set values are dropped.
func (b *Bulk) Replication(r Replication) *Bulk {
	if r.IsValid() {
		b.replication = r
	}
	return b
}

// Timeout sets the engine-side timeout for the whole request, e.g. "1m".
func (b *Bulk) Timeout(timeout string) *Bulk {
	b.timeout = &timeout
	return b
}

// Add queues documents as index actions: store, replacing any existing
// document with the same id.
func (b *Bulk) Add(docs ...*Document) *Bulk {
	for _, doc := range docs {
		b.actions = append(b.actions, bulkAction{kind: bulkActionIndex, doc: doc})
	}
	return b
}

// Create queues the document as a create action: store only if no document
// with the same id exists.
func (b *Bulk) Create(doc *Document) *Bulk {
	b.actions = append(b.actions, bulkAction{kind: bulkActionCreate, doc: doc})
	return b
}

// Update queues the document as a partial-update action. The payload line
// is the document's update body (script, params, upsert, doc).
func (b *Bulk) Update(doc *Document) *Bulk {
	b.actions = append(b.actions, bulkAction{kind: bulkActionUpdate, doc: doc})
	return b
}

// Delete queues the document as a delete action. Only the identity and
// routing metadata are used; the document needs no source.
func (b *Bulk) Delete(doc *Document) *Bulk {
	b.actions = append(b.actions, bulkAction{kind: bulkActionDelete, doc: doc})
	return b
}

// Len returns the number of queued actions.
func (b *Bulk) Len() int {
	return len(b.actions)
}

func (b *Bulk) validate() error {
	var merr *multierror.Error
	for i, a := range b.actions {
		if a.doc == nil {
			merr = multierror.Append(merr, fmt.Errorf("action %d: nil document", i))
			continue
		}
		if a.doc.IndexName() == "" && b.index == "" {
			merr = multierror.Append(merr, fmt.Errorf("action %d: %w", i, &MissingFieldError{Op: a.kind, Field: "index"}))
		}
		if a.doc.TypeName() == "" && b.typ == "" {
			merr = multierror.Append(merr, fmt.Errorf("action %d: %w", i, &MissingFieldError{Op: a.kind, Field: "type"}))
		}
		switch a.kind {
		case bulkActionIndex, bulkActionCreate:
			if !a.doc.hasSource {
				merr = multierror.Append(merr, fmt.Errorf("action %d: %w", i, ErrMissingSource))
			}
		case bulkActionUpdate:
			if a.doc.DocumentID() == "" {
				merr = multierror.Append(merr, fmt.Errorf("action %d: %w", i, &MissingFieldError{Op: a.kind, Field: "id"}))
			}
			if a.doc.script == nil && !a.doc.hasSource {
				merr = multierror.Append(merr, fmt.Errorf("action %d: %w", i, ErrMissingScriptOrSource))
			}
		case bulkActionDelete:
			if a.doc.DocumentID() == "" {
				merr = multierror.Append(merr, fmt.Errorf("action %d: %w", i, &MissingFieldError{Op: a.kind, Field: "id"}))
			}
		}
	}
	return merr.ErrorOrNil()
}

func (a bulkAction) meta(defaultIndex, defaultType string) map[string]any {
	meta := make(map[string]any)
	if idx := a.doc.IndexName(); idx != "" && idx != defaultIndex {
		meta["_index"] = idx
	}
	if typ := a.doc.TypeName(); typ != "" && typ != defaultType {
		meta["_type"] = typ
	}
	if id := a.doc.DocumentID(); id != "" {
		meta["_id"] = id
	}
	opts := a.doc.Options()
	for _, k := range actionMetaOptions {
		if v, ok := opts[k]; ok {
			meta["_"+k] = v
		}
	}
	return meta
}

// Body renders the request as newline-delimited JSON: one action line per
// queued document, followed by a payload line for index, create and update
// actions, with a trailing newline.
func (b *Bulk) Body() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, a := range b.actions {
		if err := enc.Encode(map[string]map[string]any{a.kind: a.meta(b.index, b.typ)}); err != nil {
			return nil, fmt.Errorf("encode action %d: %w", i, err)
		}
		switch a.kind {
		case bulkActionIndex, bulkActionCreate:
			if err := enc.Encode(a.doc.source); err != nil {
				return nil, fmt.Errorf("encode action %d source: %w", i, err)
			}
		case bulkActionUpdate:
			if err := enc.Encode(a.doc.updateBody()); err != nil {
				return nil, fmt.Errorf("encode action %d update body: %w", i, err)
			}
		}
	}
	return buf.Bytes(), nil
}

func (b *Bulk) path() string {
	switch {
	case b.index == "":
		return "/_bulk"
	case b.typ == "":
		return "/" + b.index + "/_bulk"
	default:
		return "/" + b.index + "/" + b.typ + "/_bulk"
	}
}

func (b *Bulk) queryString() string {
	vals := url.Values{}
	if b.refresh != nil {
		vals.Set("refresh", optionString(*b.refresh))
	}
	if b.consistency != "" {
		vals.Set("consistency", string(b.consistency))
	}
	if b.replication != "" {
		vals.Set("replication", string(b.replication))
	}
	if b.timeout != nil {
		vals.Set("timeout", *b.timeout)
	}
	return vals.Encode()
}

// Do validates every queued action, accumulating all failures into one
// error, then issues a single POST. No partial dispatch: one bad action
// aborts the whole request before any network call.
func (b *Bulk) Do(ctx context.Context) (*Response, error) {
	if b.transport == nil {
		return nil, ErrNoTransport
	}
	if len(b.actions) == 0 {
		return nil, ErrEmptyBulk
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	body, err := b.Body()
	if err != nil {
		return nil, err
	}
	u := b.path()
	if qs := b.queryString(); qs != "" {
		u += "?" + qs
	}
	start := time.Now()
	resp, err := b.transport.Post(ctx, u, body)
	b.metrics.RecordBulk(len(b.actions), time.Since(start), err)
	b.logger.LogBulk(ctx, len(b.actions), statusOf(resp), err)
	return resp, err
}
