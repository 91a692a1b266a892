// Package sigv4 provides an http.RoundTripper that signs requests with AWS
// Signature Version 4, for managed OpenSearch and Elasticsearch domains.
//
// Plug it into the default transport via WithHTTPClient:
//
//	rt, err := sigv4.New(ctx, "us-east-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tr, err := transport.New(
//	    transport.WithEndpoints("https://my-domain.us-east-1.es.amazonaws.com"),
//	    transport.WithHTTPClient(&http.Client{Transport: rt}),
//	)
package sigv4

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
)

// emptyPayloadHash is the SHA-256 of an empty body.
const emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// RoundTripper signs each request before handing it to the wrapped
// transport.
type RoundTripper struct {
	next    http.RoundTripper
	signer  *v4.Signer
	creds   aws.CredentialsProvider
	service string
	region  string
}

type roundTripperOptions struct {
	next    http.RoundTripper
	service string
	creds   aws.CredentialsProvider
}

// Option configures RoundTripper constructor behavior.
type Option func(*roundTripperOptions)

// WithTransport sets the wrapped transport. Defaults to
// http.DefaultTransport.
func WithTransport(next http.RoundTripper) Option {
	return func(o *roundTripperOptions) {
		o.next = next
	}
}

// WithService overrides the signing service name. Defaults to "es"; use
// "aoss" for OpenSearch Serverless.
func WithService(service string) Option {
	return func(o *roundTripperOptions) {
		o.service = service
	}
}

// WithCredentialsProvider replaces the credentials resolved from the
// default AWS config chain.
func WithCredentialsProvider(creds aws.CredentialsProvider) Option {
	return func(o *roundTripperOptions) {
		o.creds = creds
	}
}

// New creates a signing RoundTripper for the given region. Credentials come
// from the default AWS config chain (env, shared config, instance role)
// unless overridden.
func New(ctx context.Context, region string, optFns ...Option) (*RoundTripper, error) {
	o := roundTripperOptions{
		next:    http.DefaultTransport,
		service: "es",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}

	creds := o.creds
	if creds == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		creds = cfg.Credentials
	}

	return &RoundTripper{
		next:    o.next,
		signer:  v4.NewSigner(),
		creds:   creds,
		service: o.service,
		region:  region,
	}, nil
}

// RoundTrip implements http.RoundTripper.
func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	payloadHash := emptyPayloadHash
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))

		sum := sha256.Sum256(body)
		payloadHash = hex.EncodeToString(sum[:])
	}

	creds, err := rt.creds.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve aws credentials: %w", err)
	}

	if err := rt.signer.SignHTTP(ctx, creds, req, payloadHash, rt.service, rt.region, time.Now()); err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	return rt.next.RoundTrip(req)
}
