package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetDecodesAggregation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aggregation" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"series": [{"jobGroup": "live", "page": "home", "measurand": "DOC_COMPLETE_TIME", "value": 1200}], "aggregationValue": "avg"}`))
	}))
	defer server.Close()

	m := New(server.Client(), time.Second)
	resp, err := m.Aggregation(context.Background(), server.URL+"/aggregation")
	if err != nil {
		t.Fatalf("Aggregation: %v", err)
	}
	if len(resp.Series) != 1 || resp.Series[0].Page != "home" || resp.AggregationValue != "avg" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if m.Pending() != 0 {
		t.Fatalf("pending=%d after completion", m.Pending())
	}
}

func TestGetStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.Client(), 0).Get(context.Background(), server.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusBadGateway {
		t.Fatalf("expected StatusError 502, got %v", err)
	}
}

func TestNewerRequestSupersedesOlder(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	done := make(chan struct{})
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(started)
			select {
			case <-r.Context().Done():
			case <-done:
			}
			return
		}
		_, _ = w.Write([]byte(`{"series": {}}`))
	}))
	defer server.Close()
	defer close(done)

	m := New(server.Client(), 0)
	first := make(chan error, 1)
	go func() {
		_, err := m.Get(context.Background(), server.URL)
		first <- err
	}()

	<-started
	if _, err := m.TimeSeries(context.Background(), server.URL); err != nil {
		t.Fatalf("second request: %v", err)
	}
	select {
	case err := <-first:
		if !errors.Is(err, ErrStale) {
			t.Fatalf("first request err=%v, want ErrStale", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first request was not cancelled")
	}
}

func TestCancelAll(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-done:
		}
	}))
	defer server.Close()
	defer close(done)

	m := New(server.Client(), 0)
	result := make(chan error, 1)
	go func() {
		_, err := m.Get(context.Background(), server.URL)
		result <- err
	}()
	<-started
	m.CancelAll()

	select {
	case err := <-result:
		if !errors.Is(err, ErrStale) {
			t.Fatalf("err=%v, want ErrStale", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("request survived CancelAll")
	}
}
