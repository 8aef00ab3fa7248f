package jsonrpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/internal/jsonrpc"
	"github.com/gridbridge/profilegw/pkg/wire"
)

// fixedServer answers every request with body and records what it saw.
type fixedServer struct {
	mu       sync.Mutex
	body     string
	requests []map[string]any
	types    []string
}

func (s *fixedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var env map[string]any
	_ = json.Unmarshal(raw, &env)

	s.mu.Lock()
	s.requests = append(s.requests, env)
	s.types = append(s.types, r.Header.Get("Content-Type"))
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, s.body)
}

func (s *fixedServer) seen() ([]map[string]any, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.requests...), append([]string(nil), s.types...)
}

func newServer(t *testing.T, body string) (*fixedServer, string) {
	t.Helper()
	fs := &fixedServer{body: body}
	srv := httptest.NewServer(fs)
	t.Cleanup(srv.Close)
	return fs, srv.URL
}

func params() wire.FieldMap {
	return wire.Fields(wire.Field{Name: "creatorId", Value: wire.UUID(uuid.New())})
}

func TestCall_Success(t *testing.T) {
	fs, url := newServer(t, `{"jsonrpc":"2.0","id":"x","result":{"name":"X"}}`)
	c := jsonrpc.NewClient()

	in := params()
	before := in.Clone()
	got, err := c.Call(context.Background(), url, "avatarpicksrequest", in)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	m, ok := got.AsMap()
	if !ok {
		t.Fatalf("Call() result kind = %s, want map", got.Kind())
	}
	if name, _ := m.Get("name"); !name.Equal(wire.String("X")) {
		t.Errorf("result.name = %v, want \"X\"", name)
	}
	if !in.Equal(before) {
		t.Error("Call() mutated its params")
	}

	requests, types := fs.seen()
	env := requests[0]
	if env["jsonrpc"] != "2.0" || env["method"] != "avatarpicksrequest" {
		t.Errorf("envelope = %v", env)
	}
	if _, err := uuid.Parse(env["id"].(string)); err != nil {
		t.Errorf("correlation id %v is not a UUID", env["id"])
	}
	if _, ok := env["params"].(map[string]any)["creatorId"]; !ok {
		t.Errorf("params not sent: %v", env["params"])
	}
	if types[0] != jsonrpc.ContentType {
		t.Errorf("Content-Type = %q, want %q", types[0], jsonrpc.ContentType)
	}
}

func TestCall_FreshIDPerCall(t *testing.T) {
	fs, url := newServer(t, `{"result":{}}`)
	c := jsonrpc.NewClient()
	for i := 0; i < 3; i++ {
		if _, err := c.Call(context.Background(), url, "picks_delete", params()); err != nil {
			t.Fatalf("Call() error = %v", err)
		}
	}
	requests, _ := fs.seen()
	seen := map[any]bool{}
	for _, env := range requests {
		if seen[env["id"]] {
			t.Errorf("correlation id %v reused", env["id"])
		}
		seen[env["id"]] = true
	}
}

func TestCall_ListResult(t *testing.T) {
	_, url := newServer(t, `{"result":[{"pickuuid":"`+uuid.NewString()+`","name":"Beach"}]}`)
	got, err := jsonrpc.NewClient().Call(context.Background(), url, "avatarpicksrequest", params())
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if items, ok := got.AsList(); !ok || len(items) != 1 {
		t.Errorf("Call() = %v, want one-item list", got)
	}
}

func TestCall_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
		want jsonrpc.Failure
	}{
		{"remote error", `{"error":{"code":-32601,"message":"no such method"}}`, jsonrpc.FailureRemote},
		{"error wins over result", `{"result":{"a":1},"error":{"code":1,"message":"nope"}}`, jsonrpc.FailureRemote},
		{"not json", `<html>legacy</html>`, jsonrpc.FailureMalformed},
		{"json array", `[1,2,3]`, jsonrpc.FailureMalformed},
		{"neither member", `{"jsonrpc":"2.0","id":"1"}`, jsonrpc.FailureMalformed},
		{"empty body", ``, jsonrpc.FailureMalformed},
		{"runaway nesting", `{"result":` + strings.Repeat("[", 1<<20), jsonrpc.FailureMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, url := newServer(t, tt.body)
			got, err := jsonrpc.NewClient().Call(context.Background(), url, "classified_delete", params())
			if err == nil {
				t.Fatalf("Call() = %v, want error", got)
			}
			if f := jsonrpc.FailureOf(err); f != tt.want {
				t.Errorf("FailureOf() = %s, want %s (err %v)", f, tt.want, err)
			}
		})
	}
}

func TestCall_RemoteErrorPayload(t *testing.T) {
	_, url := newServer(t, `{"error":{"code":-32602,"message":"bad params"}}`)
	_, err := jsonrpc.NewClient().Call(context.Background(), url, "picks_update", params())

	var rerr *jsonrpc.Error
	if !errors.As(err, &rerr) {
		t.Fatalf("error %v is not *jsonrpc.Error", err)
	}
	if code, ok := rerr.Code(); !ok || code != -32602 {
		t.Errorf("Code() = %d, %v", code, ok)
	}
	if rerr.Message() != "bad params" {
		t.Errorf("Message() = %q", rerr.Message())
	}
	if m, ok := rerr.Payload.AsMap(); !ok || m.Len() != 2 {
		t.Errorf("Payload = %v, want the error object", rerr.Payload)
	}
}

func TestCall_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	in := params()
	before := in.Clone()
	_, err := jsonrpc.NewClient().Call(context.Background(), url, "avatarnotesrequest", in)
	if jsonrpc.FailureOf(err) != jsonrpc.FailureTransport {
		t.Fatalf("Call() error = %v, want transport failure", err)
	}
	if !in.Equal(before) {
		t.Error("params changed after transport failure")
	}
}

func TestCall_EmptyURI(t *testing.T) {
	_, err := jsonrpc.NewClient().Call(context.Background(), "", "avatarnotesrequest", params())
	if jsonrpc.FailureOf(err) != jsonrpc.FailureTransport {
		t.Errorf("Call(\"\") error = %v, want transport failure", err)
	}
}

func TestCall_Concurrent(t *testing.T) {
	_, url := newServer(t, `{"result":{"ok":true}}`)
	c := jsonrpc.NewClient()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Call(context.Background(), url, "user_preferences_request", params()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Call() error = %v", err)
	}
}
