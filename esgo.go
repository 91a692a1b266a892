// Package esgo provides a document-level client for Elasticsearch-compatible
// search engines.
//
// esgo is boundary glue over a REST API: it builds the URLs, query strings
// and JSON bodies for document operations and hands them to a pluggable
// transport. It supports:
//
//   - Fluent document builders: routing, versioning, consistency, scripts, ...
//   - Four single-document operations: Fetch, Store, Update, Delete
//   - Bulk indexing with newline-delimited JSON and per-action validation
//   - Multi-get composition over document builders
//   - A default net/http transport with endpoint failover, retries, gzip,
//     rate limiting and health checks (transport subpackage)
//   - AWS SigV4 request signing for managed domains (transport/sigv4)
//   - LRU response caching for fetches (doccache subpackage)
//
// # Quick Start
//
// Create a client with the default transport:
//
//	tr, err := transport.New(transport.WithEndpoints("http://localhost:9200"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tr.Close()
//
//	client := esgo.New(esgo.WithTransport(tr))
//
// Store a document:
//
//	resp, err := client.Document().
//	    Index("tweets").
//	    Type("tweet").
//	    ID("1").
//	    Routing("kimchy").
//	    Source(map[string]any{"user": "kimchy", "message": "hello"}).
//	    Store(ctx)
//
// Fetch it back:
//
//	resp, err := client.Document().
//	    Index("tweets").
//	    Type("tweet").
//	    ID("1").
//	    Realtime(true).
//	    Fetch(ctx)
//
// Partial update with a script:
//
//	resp, err := client.Document().
//	    Index("tweets").
//	    Type("tweet").
//	    ID("1").
//	    Script("ctx._source.retweets += 1").
//	    RetryOnConflict(3).
//	    Update(ctx)
//
// Bulk indexing:
//
//	resp, err := client.Bulk().
//	    IndexName("tweets").
//	    TypeName("tweet").
//	    Add(doc1).
//	    Add(doc2).
//	    Delete(doc3).
//	    Do(ctx)
//
// # Response Handling
//
// esgo never parses engine responses. Every dispatch returns a *Response
// with the raw status code, headers and body; interpreting the body is the
// caller's business. A transport-level failure (network error, exhausted
// endpoints) is the only case that returns a non-nil error together with a
// nil response.
//
// # Validation Model
//
// The engine's document API constrains four options (version_type, op_type,
// replication, consistency) to fixed value sets. By default out-of-set
// values are silently dropped, matching the engine's historical client
// behavior. WithStrictValidation switches to recording the first invalid
// value as an error that aborts dispatch. See Option docs for details.
package esgo

// Client dispatches document operations through a shared transport, logger
// and metrics collector. A zero-option client is usable for building and
// serializing documents; dispatch requires a transport.
type Client struct {
	transport Transport
	logger    *Logger
	metrics   MetricsCollector
	strict    bool
}

// New creates a new Client.
func New(optFns ...Option) *Client {
	o := applyOptions(optFns)
	return &Client{
		transport: o.transport,
		logger:    o.logger,
		metrics:   o.metricsCollector,
		strict:    o.strict,
	}
}

// Transport returns the configured transport, or nil when none is set.
func (c *Client) Transport() Transport {
	return c.transport
}

// Document creates a new document builder bound to the client's transport,
// logger and metrics collector.
func (c *Client) Document() *Document {
	d := NewDocument()
	d.transport = c.transport
	d.logger = c.logger
	d.metrics = c.metrics
	d.strict = c.strict
	return d
}

// Bulk creates a new bulk builder bound to the client.
func (c *Client) Bulk() *Bulk {
	b := NewBulk()
	b.transport = c.transport
	b.logger = c.logger
	b.metrics = c.metrics
	return b
}

// MultiGet creates a new multi-get builder bound to the client.
func (c *Client) MultiGet() *MultiGet {
	m := NewMultiGet()
	m.transport = c.transport
	m.logger = c.logger
	m.metrics = c.metrics
	return m
}
