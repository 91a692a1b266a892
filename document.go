// Package esgo provides a document-level client for Elasticsearch-compatible
// search engines.
//
// This file implements the fluent document builder for single-document
// operations.
package esgo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// bodyOnlyOptions never appear in a query string; they belong in the
// request body of a store or update.
var bodyOnlyOptions = map[string]bool{
	"source": true,
	"script": true,
	"lang":   true,
	"params": true,
	"upsert": true,
}

// Document is a fluent builder for a single document operation. Setters
// return the builder for chaining; one of the four dispatch methods (Fetch,
// Store, Update, Delete) consumes it.
//
// A Document is not safe for concurrent mutation. Use one builder per
// logical operation, or serialize access.
type Document struct {
	transport Transport
	logger    *Logger
	metrics   MetricsCollector
	strict    bool
	err       error // first recorded validation error (strict mode)

	index string
	typ   string
	id    string

	routing         *string
	parent          *string
	timestamp       *string
	ttl             *string
	timeout         *string
	refresh         *bool
	realtime        *bool
	version         *int64
	retryOnConflict *int
	percolate       *string
	versionType     VersionType
	opType          OpType
	replication     Replication
	consistency     Consistency
	fields          []string
	script          *string
	lang            *string
	params          map[string]any
	upsert          map[string]any
	source          any
	hasSource       bool
}

// NewDocument creates a free-standing document builder with no transport.
// Dispatching it fails with ErrNoTransport; use Client.Document for a
// builder that is wired up, or set a transport with Transport.
func NewDocument() *Document {
	return &Document{
		logger:  NoopLogger(),
		metrics: NoopMetricsCollector{},
	}
}

// Transport sets the transport used for dispatch.
func (d *Document) Transport(t Transport) *Document {
	d.transport = t
	return d
}

// Strict makes this builder record invalid enumerated values as errors
// instead of silently dropping them. See WithStrictValidation.
func (d *Document) Strict() *Document {
	d.strict = true
	return d
}

// Index sets the index name.
func (d *Document) Index(index string) *Document {
	d.index = index
	return d
}

// IndexName returns the index name.
func (d *Document) IndexName() string { return d.index }

// Type sets the document type.
func (d *Document) Type(typ string) *Document {
	d.typ = typ
	return d
}

// TypeName returns the document type.
func (d *Document) TypeName() string { return d.typ }

// ID sets the document id. Leave it unset on Store to let the engine
// assign one.
func (d *Document) ID(id string) *Document {
	d.id = id
	return d
}

// DocumentID returns the document id, or "" when unset.
func (d *Document) DocumentID() string { return d.id }

// Routing sets the shard routing value, overriding default hash-of-id
// placement.
func (d *Document) Routing(routing string) *Document {
	d.routing = &routing
	return d
}

// Parent sets the parent document id. Implies routing by the parent.
func (d *Document) Parent(parent string) *Document {
	d.parent = &parent
	return d
}

// Timestamp sets an explicit document timestamp.
func (d *Document) Timestamp(timestamp string) *Document {
	d.timestamp = &timestamp
	return d
}

// TTL sets the document time-to-live, e.g. "1d".
func (d *Document) TTL(ttl string) *Document {
	d.ttl = &ttl
	return d
}

// Timeout sets the operation timeout on the engine side, e.g. "5m".
// Client-side timeouts belong to the transport and the context.
func (d *Document) Timeout(timeout string) *Document {
	d.timeout = &timeout
	return d
}

// Refresh forces an index refresh after the operation.
func (d *Document) Refresh(refresh bool) *Document {
	d.refresh = &refresh
	return d
}

// Realtime controls whether a fetch sees not-yet-refreshed documents.
func (d *Document) Realtime(realtime bool) *Document {
	d.realtime = &realtime
	return d
}

// Version sets the expected document version for optimistic concurrency.
func (d *Document) Version(version int64) *Document {
	d.version = &version
	return d
}

// RetryOnConflict sets how many times an update is retried on version
// conflict.
func (d *Document) RetryOnConflict(retries int) *Document {
	d.retryOnConflict = &retries
	return d
}

// Percolate registers the document against percolator queries matching the
// given pattern.
func (d *Document) Percolate(pattern string) *Document {
	d.percolate = &pattern
	return d
}

// VersionType sets how the engine compares versions. Out-of-set values are
// dropped in lenient mode and recorded as errors in strict mode.
func (d *Document) VersionType(v VersionType) *Document {
	if !v.IsValid() {
		d.recordInvalid("version_type", string(v), versionTypeValues)
		return d
	}
	d.versionType = v
	return d
}

// OpType sets whether a store must create a new document. Out-of-set values
// are dropped in lenient mode and recorded as errors in strict mode.
func (d *Document) OpType(o OpType) *Document {
	if !o.IsValid() {
		d.recordInvalid("op_type", string(o), opTypeValues)
		return d
	}
	d.opType = o
	return d
}

// Replication sets the shard replication mode. Out-of-set values are
// dropped in lenient mode and recorded as errors in strict mode.
func (d *Document) Replication(r Replication) *Document {
	if !r.IsValid() {
		d.recordInvalid("replication", string(r), replicationValues)
		return d
	}
	d.replication = r
	return d
}

// Consistency sets the write consistency level. Out-of-set values are
// dropped in lenient mode and recorded as errors in strict mode.
func (d *Document) Consistency(c Consistency) *Document {
	if !c.IsValid() {
		d.recordInvalid("consistency", string(c), consistencyValues)
		return d
	}
	d.consistency = c
	return d
}

// Field appends a single field name to the stored-fields list.
func (d *Document) Field(field string) *Document {
	if d.fields == nil {
		d.fields = []string{}
	}
	d.fields = append(d.fields, field)
	return d
}

// Fields replaces the stored-fields list.
func (d *Document) Fields(fields ...string) *Document {
	d.fields = append([]string{}, fields...)
	return d
}

// FieldNames returns the stored-fields list, initializing it to an empty
// non-nil slice so read and append semantics agree.
func (d *Document) FieldNames() []string {
	if d.fields == nil {
		d.fields = []string{}
	}
	return d.fields
}

// Script sets the update script source.
func (d *Document) Script(script string) *Document {
	d.script = &script
	return d
}

// Lang sets the script language.
func (d *Document) Lang(lang string) *Document {
	d.lang = &lang
	return d
}

// Params sets the script parameters.
func (d *Document) Params(params map[string]any) *Document {
	d.params = params
	return d
}

// Upsert sets the document used when a partial-update target does not
// exist yet.
func (d *Document) Upsert(upsert map[string]any) *Document {
	d.upsert = upsert
	return d
}

// Source sets the document body. Any JSON-marshalable value works: a map,
// a struct, or pre-encoded json.RawMessage.
func (d *Document) Source(source any) *Document {
	d.source = source
	d.hasSource = true
	return d
}

// Err returns the first validation error recorded in strict mode, or nil.
func (d *Document) Err() error { return d.err }

func (d *Document) recordInvalid(option, value string, allowed []string) {
	if d.strict && d.err == nil {
		d.err = &InvalidValueError{Option: option, Value: value, Allowed: allowed}
	}
}

// Options returns the option map rebuilt from the set options only. Unset
// options are absent; no explicit nulls. Identity fields (index, type, id)
// are not options and never appear. Bulk and MultiGet compose over this.
func (d *Document) Options() map[string]any {
	opts := make(map[string]any)
	if d.routing != nil {
		opts["routing"] = *d.routing
	}
	if d.parent != nil {
		opts["parent"] = *d.parent
	}
	if d.timestamp != nil {
		opts["timestamp"] = *d.timestamp
	}
	if d.ttl != nil {
		opts["ttl"] = *d.ttl
	}
	if d.timeout != nil {
		opts["timeout"] = *d.timeout
	}
	if d.refresh != nil {
		opts["refresh"] = *d.refresh
	}
	if d.realtime != nil {
		opts["realtime"] = *d.realtime
	}
	if d.version != nil {
		opts["version"] = *d.version
	}
	if d.retryOnConflict != nil {
		opts["retry_on_conflict"] = *d.retryOnConflict
	}
	if d.percolate != nil {
		opts["percolate"] = *d.percolate
	}
	if d.versionType != "" {
		opts["version_type"] = string(d.versionType)
	}
	if d.opType != "" {
		opts["op_type"] = string(d.opType)
	}
	if d.replication != "" {
		opts["replication"] = string(d.replication)
	}
	if d.consistency != "" {
		opts["consistency"] = string(d.consistency)
	}
	if d.fields != nil {
		opts["fields"] = d.fields
	}
	if d.script != nil {
		opts["script"] = *d.script
	}
	if d.lang != nil {
		opts["lang"] = *d.lang
	}
	if d.params != nil {
		opts["params"] = d.params
	}
	if d.upsert != nil {
		opts["upsert"] = d.upsert
	}
	if d.hasSource {
		opts["source"] = d.source
	}
	return opts
}

// String returns the JSON encoding of the option map, for debugging or
// persistence elsewhere. Identity fields are not included.
func (d *Document) String() string {
	b, err := json.Marshal(d.Options())
	if err != nil {
		return "{}"
	}
	return string(b)
}

// queryParams renders the full option map as structured query parameters
// for a fetch.
func (d *Document) queryParams() url.Values {
	vals := url.Values{}
	for k, v := range d.Options() {
		vals.Set(k, optionString(v))
	}
	return vals
}

// queryString renders the set options, minus body-only keys, as a
// URL-encoded query string. Keys come out sorted; an empty string means
// nothing eligible was set.
func (d *Document) queryString() string {
	vals := url.Values{}
	for k, v := range d.Options() {
		if bodyOnlyOptions[k] {
			continue
		}
		vals.Set(k, optionString(v))
	}
	return vals.Encode()
}

// updateBody renders the partial-update request body. The source document,
// when set, appears under the engine's "doc" key.
func (d *Document) updateBody() map[string]any {
	body := make(map[string]any)
	if d.script != nil {
		body["script"] = *d.script
	}
	if d.lang != nil {
		body["lang"] = *d.lang
	}
	if d.params != nil {
		body["params"] = d.params
	}
	if d.upsert != nil {
		body["upsert"] = d.upsert
	}
	if d.hasSource {
		body["doc"] = d.source
	}
	return body
}

// optionString flattens an option value for a query parameter: sequences
// are comma-joined, everything non-scalar falls back to JSON.
func optionString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []string:
		return strings.Join(t, ",")
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func (d *Document) path() string {
	p := "/" + d.index + "/" + d.typ
	if d.id != "" {
		p += "/" + d.id
	}
	return p
}

// precheck validates dispatch preconditions: transport first (a distinct
// wiring error), then any strict-mode validation error, then identity
// fields. No side effects on failure.
func (d *Document) precheck(op string, needID bool) error {
	if d.transport == nil {
		return ErrNoTransport
	}
	if d.err != nil {
		return d.err
	}
	if d.index == "" {
		return &MissingFieldError{Op: op, Field: "index"}
	}
	if d.typ == "" {
		return &MissingFieldError{Op: op, Field: "type"}
	}
	if needID && d.id == "" {
		return &MissingFieldError{Op: op, Field: "id"}
	}
	return nil
}

// Fetch retrieves the document. The option map travels as structured query
// parameters.
func (d *Document) Fetch(ctx context.Context) (*Response, error) {
	if err := d.precheck("fetch", true); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := d.transport.Get(ctx, d.path(), d.queryParams())
	d.metrics.RecordFetch(time.Since(start), err)
	d.logger.LogFetch(ctx, d.index, d.typ, d.id, statusOf(resp), err)
	return resp, err
}

// Store indexes the document. Without an id the engine assigns one (POST);
// with an id the document is stored at that id (PUT).
func (d *Document) Store(ctx context.Context) (*Response, error) {
	if err := d.precheck("store", false); err != nil {
		return nil, err
	}
	if !d.hasSource {
		return nil, ErrMissingSource
	}
	body, err := json.Marshal(d.source)
	if err != nil {
		return nil, fmt.Errorf("encode source: %w", err)
	}
	u := d.path()
	if qs := d.queryString(); qs != "" {
		u += "?" + qs
	}
	start := time.Now()
	var resp *Response
	if d.id == "" {
		resp, err = d.transport.Post(ctx, u, body)
	} else {
		resp, err = d.transport.Put(ctx, u, body)
	}
	d.metrics.RecordStore(time.Since(start), err)
	d.logger.LogStore(ctx, d.index, d.typ, d.id, statusOf(resp), err)
	return resp, err
}

// Update applies a partial update: a script, a partial source document, or
// both, optionally with an upsert document.
func (d *Document) Update(ctx context.Context) (*Response, error) {
	if err := d.precheck("update", true); err != nil {
		return nil, err
	}
	if d.script == nil && !d.hasSource {
		return nil, ErrMissingScriptOrSource
	}
	body, err := json.Marshal(d.updateBody())
	if err != nil {
		return nil, fmt.Errorf("encode update body: %w", err)
	}
	u := d.path() + "/_update"
	if qs := d.queryString(); qs != "" {
		u += "?" + qs
	}
	start := time.Now()
	resp, err := d.transport.Post(ctx, u, body)
	d.metrics.RecordUpdate(time.Since(start), err)
	d.logger.LogUpdate(ctx, d.index, d.typ, d.id, statusOf(resp), err)
	return resp, err
}

// Delete removes the document.
func (d *Document) Delete(ctx context.Context) (*Response, error) {
	if err := d.precheck("delete", true); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := d.transport.Delete(ctx, d.path(), nil)
	d.metrics.RecordDelete(time.Since(start), err)
	d.logger.LogDelete(ctx, d.index, d.typ, d.id, statusOf(resp), err)
	return resp, err
}

func statusOf(r *Response) int {
	if r == nil {
		return 0
	}
	return r.StatusCode
}
