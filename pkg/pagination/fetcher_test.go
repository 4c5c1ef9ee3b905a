package pagination

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/profilefetch/profilefetch/pkg/client"
)

// stubTransport serves canned pages keyed by URL and counts calls.
type stubTransport struct {
	pages map[string]*client.Response
	errs  map[string]error
	calls int
}

func (s *stubTransport) Get(ctx context.Context, url string) (*client.Response, error) {
	s.calls++
	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	resp, ok := s.pages[url]
	if !ok {
		return nil, client.ErrNotFound
	}
	return resp, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func newFetcherOver(t *stubTransport) *Fetcher {
	return NewFetcher(t, DefaultConfig(), testLogger())
}

func TestFetchAll_ThreePagesInOrder(t *testing.T) {
	transport := &stubTransport{pages: map[string]*client.Response{
		"/repos":  {Body: []byte(`[{"id":1},{"id":2}]`), NextURL: "/repos?page=2"},
		"/repos?page=2": {Body: []byte(`[{"id":3},{"id":4}]`), NextURL: "/repos?page=3"},
		"/repos?page=3": {Body: []byte(`[{"id":5},{"id":6}]`)},
	}}

	items, err := newFetcherOver(transport).FetchAll(context.Background(), "/repos")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(items) != 6 {
		t.Fatalf("items = %d, want 6", len(items))
	}
	if transport.calls != 3 {
		t.Errorf("transport calls = %d, want 3", transport.calls)
	}
	for i, want := range []string{`{"id":1}`, `{"id":2}`, `{"id":3}`, `{"id":4}`, `{"id":5}`, `{"id":6}`} {
		if string(items[i]) != want {
			t.Errorf("items[%d] = %s, want %s (page order must be preserved)", i, items[i], want)
		}
	}
}

func TestFetchAll_SinglePage(t *testing.T) {
	transport := &stubTransport{pages: map[string]*client.Response{
		"/events": {Body: []byte(`[{"type":"PushEvent"}]`)},
	}}

	items, err := newFetcherOver(transport).FetchAll(context.Background(), "/events")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(items) != 1 || transport.calls != 1 {
		t.Errorf("items = %d calls = %d, want 1 and 1", len(items), transport.calls)
	}
}

func TestFetchAll_EmptyPageStops(t *testing.T) {
	transport := &stubTransport{pages: map[string]*client.Response{
		"/repos":        {Body: []byte(`[{"id":1}]`), NextURL: "/repos?page=2"},
		"/repos?page=2": {Body: []byte(`[]`), NextURL: "/repos?page=3"},
		"/repos?page=3": {Body: []byte(`[{"id":99}]`)},
	}}

	items, err := newFetcherOver(transport).FetchAll(context.Background(), "/repos")
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %d, want 1 (empty page terminates the walk)", len(items))
	}
	if transport.calls != 2 {
		t.Errorf("calls = %d, want 2", transport.calls)
	}
}

func TestFetchAll_CycleGuard(t *testing.T) {
	transport := &stubTransport{pages: map[string]*client.Response{
		"/repos":        {Body: []byte(`[{"id":1}]`), NextURL: "/repos?page=2"},
		"/repos?page=2": {Body: []byte(`[{"id":2}]`), NextURL: "/repos"},
	}}

	_, err := newFetcherOver(transport).FetchAll(context.Background(), "/repos")
	if !errors.Is(err, ErrCycle) {
		t.Errorf("FetchAll() error = %v, want ErrCycle", err)
	}
}

func TestFetchAll_PageCap(t *testing.T) {
	// Endless chain of distinct URLs: the hard cap must stop it.
	transport := &stubTransport{pages: map[string]*client.Response{}}
	for i := 0; i < 20; i++ {
		transport.pages[fmt.Sprintf("/p%d", i)] = &client.Response{
			Body:    []byte(`[{"n":1}]`),
			NextURL: fmt.Sprintf("/p%d", i+1),
		}
	}

	f := NewFetcher(transport, Config{MaxPages: 10}, testLogger())
	_, err := f.FetchAll(context.Background(), "/p0")
	if !errors.Is(err, ErrTooManyPages) {
		t.Errorf("FetchAll() error = %v, want ErrTooManyPages", err)
	}
}

func TestFetchAll_InnerFailureDiscardsPartialResults(t *testing.T) {
	transport := &stubTransport{
		pages: map[string]*client.Response{
			"/repos": {Body: []byte(`[{"id":1},{"id":2}]`), NextURL: "/repos?page=2"},
		},
		errs: map[string]error{
			"/repos?page=2": client.ErrNotFound,
		},
	}

	items, err := newFetcherOver(transport).FetchAll(context.Background(), "/repos")
	if !errors.Is(err, client.ErrNotFound) {
		t.Errorf("FetchAll() error = %v, want the inner page's error", err)
	}
	if items != nil {
		t.Errorf("items = %v, want nil (no partial-success contract)", items)
	}
}

func TestFetchAll_NonListBodyIsFatal(t *testing.T) {
	transport := &stubTransport{pages: map[string]*client.Response{
		"/user": {Body: []byte(`{"login":"octocat"}`)},
	}}

	if _, err := newFetcherOver(transport).FetchAll(context.Background(), "/user"); err == nil {
		t.Error("FetchAll() = nil error for a non-list body")
	}
}
