// Package pagination assembles complete list results from paginated
// endpoints by following Link rel="next" continuation pointers.
//
// The fetcher is sequential: each continuation URL is only known once the
// previous page has been fetched. Termination is guarded twice — a
// visited-URL set catches continuation cycles, and a hard page cap
// catches non-repeating infinite chains.
package pagination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilefetch/profilefetch/pkg/client"
)

// Errors returned by the fetcher.
var (
	// ErrCycle is returned when a continuation pointer repeats within one
	// fetch.
	ErrCycle = errors.New("pagination cycle detected")

	// ErrTooManyPages is returned when the page cap is exceeded.
	ErrTooManyPages = errors.New("pagination page cap exceeded")
)

// Transport fetches a single logical page.
type Transport interface {
	Get(ctx context.Context, url string) (*client.Response, error)
}

// Config holds fetcher configuration.
type Config struct {
	// MaxPages caps the number of pages followed in one fetch.
	MaxPages int
}

// DefaultConfig returns safe defaults.
func DefaultConfig() Config {
	return Config{
		MaxPages: 100,
	}
}

// Fetcher follows continuation pointers and concatenates page items.
type Fetcher struct {
	transport Transport
	config    Config
	logger    zerolog.Logger
}

// NewFetcher creates a fetcher over the given transport.
func NewFetcher(transport Transport, cfg Config, logger zerolog.Logger) *Fetcher {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 100
	}
	return &Fetcher{
		transport: transport,
		config:    cfg,
		logger:    logger,
	}
}

// FetchAll fetches every page starting from url and returns the items in
// page order. It stops at the last page or an empty page. Any failure on
// an inner page aborts the whole fetch; partial results are discarded.
func (f *Fetcher) FetchAll(ctx context.Context, url string) ([]json.RawMessage, error) {
	start := time.Now()
	visited := make(map[string]struct{})

	var items []json.RawMessage
	pages := 0

	for url != "" {
		if _, seen := visited[url]; seen {
			f.logger.Error().
				Str("url", url).
				Int("pages", pages).
				Msg("Continuation pointer repeated")
			return nil, fmt.Errorf("%w: %s", ErrCycle, url)
		}
		visited[url] = struct{}{}

		if pages >= f.config.MaxPages {
			return nil, fmt.Errorf("%w: followed %d pages", ErrTooManyPages, pages)
		}

		resp, err := f.transport.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		pages++

		var page []json.RawMessage
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, fmt.Errorf("page %d is not a JSON list: %w", pages, err)
		}

		if len(page) == 0 {
			break
		}
		items = append(items, page...)

		url = resp.NextURL
	}

	f.logger.Debug().
		Int("pages", pages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Paginated fetch complete")

	return items, nil
}
