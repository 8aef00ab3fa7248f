// Package jsonrpc implements the client side of the JSON-RPC 2.0 dialect
// spoken by remote profile services.
//
// Each Call is a single blocking HTTP POST: no retries, no backoff. The
// outcome is either the remote "result" value or an *Error that says which
// of three things went wrong:
//   - FailureTransport: the exchange never completed (refused, DNS, timeout, I/O)
//   - FailureMalformed: the body is not a JSON-RPC response object
//   - FailureRemote:    the service answered with an "error" member
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/gridbridge/profilegw/pkg/wire"
)

const (
	// Version is the protocol version sent in every envelope.
	Version = "2.0"

	// ContentType identifies the RPC dialect to the remote service.
	ContentType = "application/json-rpc"

	// transportTimeout bounds a whole exchange. It is a property of the
	// transport, not a per-call knob.
	transportTimeout = 30 * time.Second

	maxResponseBytes = 8 << 20
)

// Caller is the contract profile features depend on.
type Caller interface {
	Call(ctx context.Context, uri, method string, params wire.FieldMap) (wire.Value, error)
}

// Client sends JSON-RPC calls over HTTP. It keeps no per-call state and is
// safe for concurrent use.
type Client struct {
	http   *http.Client
	tracer trace.Tracer
	newID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a client with the default transport.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: transportTimeout,
		},
		tracer: otel.Tracer("profilegw/jsonrpc"),
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request is the call envelope. Field order is the wire order.
type request struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  wire.FieldMap `json:"params"`
}

// Call invokes method at uri with params and returns the "result" member.
// params is only read. Every call carries a fresh random correlation id.
func (c *Client) Call(ctx context.Context, uri, method string, params wire.FieldMap) (wire.Value, error) {
	id := c.newID()

	ctx, span := c.tracer.Start(ctx, "jsonrpc "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", method),
			attribute.String("rpc.jsonrpc.version", Version),
			attribute.String("rpc.jsonrpc.request_id", id),
			attribute.String("url.full", uri),
		),
	)
	defer span.End()

	result, err := c.call(ctx, uri, method, id, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		var rerr *Error
		if errors.As(err, &rerr) {
			span.SetAttributes(attribute.String("rpc.failure", rerr.Failure.String()))
		}
	}
	return result, err
}

func (c *Client) call(ctx context.Context, uri, method, id string, params wire.FieldMap) (wire.Value, error) {
	fail := func(kind Failure, err error) (wire.Value, error) {
		return wire.Value{}, &Error{Failure: kind, Method: method, URI: uri, Err: err}
	}

	if uri == "" {
		log.Warn().Str("method", method).Msg("Profile RPC skipped: no endpoint")
		return fail(FailureTransport, errNoEndpoint)
	}

	body, err := json.Marshal(request{Jsonrpc: Version, ID: id, Method: method, Params: params})
	if err != nil {
		log.Warn().Err(err).Str("method", method).Msg("Profile RPC request could not be encoded")
		return fail(FailureTransport, fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("uri", uri).Msg("Profile RPC request could not be built")
		return fail(FailureTransport, fmt.Errorf("create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", ContentType)
	httpReq.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("uri", uri).Msg("Profile RPC transport failure")
		return fail(FailureTransport, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("uri", uri).Msg("Profile RPC transport failure")
		return fail(FailureTransport, fmt.Errorf("read response: %w", err))
	}

	doc, err := wire.Decode(respBody)
	if err == nil && doc.Kind() != wire.KindMap {
		err = fmt.Errorf("response is a JSON %s, not an object", doc.Kind())
	}
	if err != nil {
		// Expected when the remote grid still runs legacy profiles.
		log.Debug().Err(err).
			Str("method", method).
			Str("uri", uri).
			Int("status", resp.StatusCode).
			Msg("Profile RPC response not understood, remote user with legacy profiles?")
		return fail(FailureMalformed, err)
	}
	envelope, _ := doc.AsMap()

	if echoed, ok := envelope.Get("id"); ok {
		if s, _ := echoed.AsString(); s != id {
			log.Debug().Str("method", method).Str("sent", id).Str("echoed", echoed.String()).Msg("Profile RPC id mismatch")
		}
	}

	// An error member wins even when a result is also present.
	if payload, ok := envelope.Get("error"); ok {
		rerr := &Error{Failure: FailureRemote, Method: method, URI: uri, Payload: payload}
		log.Debug().Str("method", method).Str("uri", uri).Str("error", payload.String()).Msg("Profile RPC returned error")
		return wire.Value{}, rerr
	}
	if result, ok := envelope.Get("result"); ok {
		return result, nil
	}

	log.Debug().Str("method", method).Str("uri", uri).Msg("Profile RPC response has neither result nor error")
	return fail(FailureMalformed, errNoResult)
}
