// internal/fetch/fetch.go
// Package fetch loads chart payloads over HTTP. A newer request for a URL
// supersedes any request for the same URL that is still in flight.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/logging"
)

// ErrStale reports a response that was superseded by a newer request for the
// same URL. Callers drop it without surfacing anything.
var ErrStale = errors.New("stale response")

// StatusError is returned for non-200 responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
}

type inflight struct {
	cancel context.CancelFunc
}

// Manager issues GET requests and tracks the latest request per URL.
type Manager struct {
	client  *http.Client
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]*inflight
}

// New returns a Manager. A zero timeout leaves requests bounded only by the
// caller's context; a nil client uses http.DefaultClient.
func New(client *http.Client, timeout time.Duration) *Manager {
	if client == nil {
		client = http.DefaultClient
	}
	return &Manager{client: client, timeout: timeout, pending: map[string]*inflight{}}
}

func (m *Manager) register(url string, cancel context.CancelFunc) *inflight {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.pending[url]; ok {
		prev.cancel()
	}
	req := &inflight{cancel: cancel}
	m.pending[url] = req
	return req
}

func (m *Manager) release(url string, req *inflight) {
	m.mu.Lock()
	if m.pending[url] == req {
		delete(m.pending, url)
	}
	m.mu.Unlock()
	req.cancel()
}

func (m *Manager) superseded(url string, req *inflight) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[url] != req
}

// Pending reports how many URLs have a request in flight.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// CancelAll aborts every request in flight. The aborted calls return ErrStale.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for url, req := range m.pending {
		req.cancel()
		delete(m.pending, url)
	}
}

// Get fetches url and returns the body. If another Get for the same url
// starts before this one completes, this one returns ErrStale.
func (m *Manager) Get(ctx context.Context, url string) ([]byte, error) {
	var cancel context.CancelFunc
	if m.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	req := m.register(url, cancel)
	defer m.release(url, req)

	logging.LogFetch("request", url, 0, nil)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		if m.superseded(url, req) {
			return nil, ErrStale
		}
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if m.superseded(url, req) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	logging.LogFetch("response", url, resp.StatusCode, fmt.Sprintf("%d bytes", len(body)))
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}
	return body, nil
}

// TimeSeries fetches and decodes a time series load.
func (m *Manager) TimeSeries(ctx context.Context, url string) (dto.EventResultData, error) {
	body, err := m.Get(ctx, url)
	if err != nil {
		return dto.EventResultData{}, err
	}
	return dto.DecodeTimeSeries(body)
}

// Aggregation fetches and decodes one aggregation response.
func (m *Manager) Aggregation(ctx context.Context, url string) (dto.AggregationResponse, error) {
	body, err := m.Get(ctx, url)
	if err != nil {
		return dto.AggregationResponse{}, err
	}
	return dto.DecodeAggregation(body)
}
