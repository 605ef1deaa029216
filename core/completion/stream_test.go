package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// recordingSink collects pushed chunks.
type recordingSink struct {
	chunks []string
	err    error
}

func (s *recordingSink) Push(_ context.Context, chunk string) error {
	if s.err != nil {
		return s.err
	}
	s.chunks = append(s.chunks, chunk)
	return nil
}

func streamDeltaLine(content string) string {
	return fmt.Sprintf(`data: {"id":"cmpl-1","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`+"\n\n", content)
}

func TestCallStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"id":"cmpl-1","choices":[{"index":0,"delta":{"role":"assistant","content":""},"finish_reason":null}]}` + "\n\n"))
		w.Write([]byte(streamDeltaLine("Try ")))
		w.Write([]byte(streamDeltaLine("restarting ")))
		w.Write([]byte(streamDeltaLine("the app.")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)
	sink := &recordingSink{}

	full, err := client.CallStreaming(context.Background(), "q", sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "Try restarting the app." {
		t.Errorf("accumulated = %q", full)
	}

	// Empty deltas are skipped; non-empty deltas arrive in order.
	want := []string{"Try ", "restarting ", "the app."}
	if len(sink.chunks) != len(want) {
		t.Fatalf("chunks = %v, want %v", sink.chunks, want)
	}
	for i := range want {
		if sink.chunks[i] != want[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, sink.chunks[i], want[i])
		}
	}
}

func TestCallStreamingRequestsStreamMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("Accept = %q", accept)
		}
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	if _, err := client.CallStreaming(context.Background(), "q", &recordingSink{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCallStreamingHTTPFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.CallStreaming(context.Background(), "q", &recordingSink{})
	var compErr *Error
	if !errors.As(err, &compErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if compErr.Kind != KindStreaming {
		t.Errorf("Kind = %v, want KindStreaming", compErr.Kind)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (streaming is single attempt)", attempts)
	}
	if len(sleeps) != 0 {
		t.Errorf("expected no backoff sleeps, got %v", sleeps)
	}
}

func TestCallStreamingSinkErrorAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(streamDeltaLine("chunk")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)
	sink := &recordingSink{err: errors.New("consumer gone")}

	partial, err := client.CallStreaming(context.Background(), "q", sink)
	var compErr *Error
	if !errors.As(err, &compErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if compErr.Kind != KindStreaming {
		t.Errorf("Kind = %v, want KindStreaming", compErr.Kind)
	}
	// The delta was accumulated before the push failed.
	if partial != "chunk" {
		t.Errorf("partial = %q, want %q", partial, "chunk")
	}
}

func TestCallStreamingMalformedChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {not json\n\n"))
	}))
	defer server.Close()

	var sleeps []time.Duration
	client := newTestClient(server.URL, &sleeps)

	_, err := client.CallStreaming(context.Background(), "q", &recordingSink{})
	var compErr *Error
	if !errors.As(err, &compErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	if compErr.Kind != KindStreaming {
		t.Errorf("Kind = %v, want KindStreaming", compErr.Kind)
	}
}
