package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/profilefetch/profilefetch/pkg/cache"
	"github.com/profilefetch/profilefetch/pkg/client"
	"github.com/profilefetch/profilefetch/pkg/pagination"
)

// ErrNoReadme is returned when no candidate README file could be read.
var ErrNoReadme = errors.New("no readable readme")

// DefaultEventMonths is the activity window used by Lookup.
const DefaultEventMonths = 6

// Report is the result of a full profile lookup: everything the caller
// needs for display.
type Report struct {
	User     *User
	Repos    []Repo
	BestRepo *Repo

	// Readme is the cleaned README text; empty when HasReadme is false.
	Readme    string
	HasReadme bool

	// Summary is nil when the user has no recent events.
	Summary *Summary
}

// Service orchestrates profile lookups: every fetch goes through the
// read-through cache, list endpoints through the paginating fetcher.
// Instances are safe for concurrent use.
type Service struct {
	transport pagination.Transport
	pages     *pagination.Fetcher
	cache     *cache.Cache
	scorer    *Scorer
	logger    zerolog.Logger

	eventMonths int
	now         func() time.Time
}

// NewService wires a service over the given transport and cache.
func NewService(transport pagination.Transport, memo *cache.Cache, logger zerolog.Logger) *Service {
	return &Service{
		transport:   transport,
		pages:       pagination.NewFetcher(transport, pagination.DefaultConfig(), logger),
		cache:       memo,
		scorer:      NewScorer(),
		logger:      logger,
		eventMonths: DefaultEventMonths,
		now:         time.Now,
	}
}

// SetEventMonths overrides the activity window used by Lookup. Values
// below one are ignored.
func (s *Service) SetEventMonths(months int) {
	if months > 0 {
		s.eventMonths = months
	}
}

// User fetches a user record. Returns client.ErrNotFound for unknown
// usernames.
func (s *Service) User(ctx context.Context, username string) (*User, error) {
	key := cache.Key{Kind: "user", Subject: username}

	body, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		resp, err := s.transport.Get(ctx, "/users/"+url.PathEscape(username))
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Repos fetches all of a user's public repositories across pages, most
// recently pushed first.
func (s *Service) Repos(ctx context.Context, username string) ([]Repo, error) {
	key := cache.Key{Kind: "repos", Subject: username}

	body, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		listURL := fmt.Sprintf("/users/%s/repos?sort=updated&direction=desc&per_page=100",
			url.PathEscape(username))
		items, err := s.pages.FetchAll(ctx, listURL)
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, err
	}

	var repos []Repo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("decode repos: %w", err)
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].PushedAt > repos[j].PushedAt
	})
	return repos, nil
}

// Events fetches the user's public events for the last months months.
func (s *Service) Events(ctx context.Context, username string, months int) ([]Event, error) {
	if months <= 0 {
		months = s.eventMonths
	}
	key := cache.Key{
		Kind:    "events",
		Subject: username,
		Params:  map[string]string{"months": strconv.Itoa(months)},
	}

	body, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		since := s.now().AddDate(0, -months, 0).UTC().Format(time.RFC3339)
		listURL := fmt.Sprintf("/users/%s/events?per_page=100&since=%s",
			url.PathEscape(username), url.QueryEscape(since))
		items, err := s.pages.FetchAll(ctx, listURL)
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

// Readme fetches and decodes a repository's README, trying each
// candidate filename in order. An unreadable candidate (missing, bad
// base64, non-UTF-8) moves on to the next; ErrNoReadme means none
// worked.
func (s *Service) Readme(ctx context.Context, username, repo string) (string, error) {
	key := cache.Key{Kind: "readme", Subject: username + "/" + repo}

	body, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]byte, error) {
		for _, candidate := range readmeCandidates {
			contentURL := fmt.Sprintf("/repos/%s/%s/contents/%s",
				url.PathEscape(username), url.PathEscape(repo), url.PathEscape(candidate))

			resp, err := s.transport.Get(ctx, contentURL)
			if errors.Is(err, client.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}

			text, err := decodeContent(resp.Body)
			if err != nil {
				s.logger.Debug().
					Err(err).
					Str("candidate", candidate).
					Msg("Readme candidate unreadable")
				continue
			}
			return []byte(CleanMarkdown(text)), nil
		}
		return nil, nil
	})
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", ErrNoReadme
	}
	return string(body), nil
}

// Lookup assembles a full profile report for a username. An unknown
// username returns client.ErrNotFound. A missing README or an empty
// event stream degrade the report rather than failing it.
func (s *Service) Lookup(ctx context.Context, username string) (*Report, error) {
	user, err := s.User(ctx, username)
	if err != nil {
		return nil, err
	}

	report := &Report{User: user}

	repos, err := s.Repos(ctx, username)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return report, nil
		}
		return nil, err
	}
	report.Repos = repos

	report.BestRepo = s.scorer.SelectBest(repos, username)
	if report.BestRepo == nil {
		return report, nil
	}

	readme, err := s.Readme(ctx, username, report.BestRepo.Name)
	switch {
	case err == nil:
		report.Readme = readme
		report.HasReadme = true
	case errors.Is(err, ErrNoReadme):
		// Leave the absence marker to the caller.
	default:
		s.logger.Warn().Err(err).Str("repo", report.BestRepo.Name).Msg("Readme fetch failed")
	}

	events, err := s.Events(ctx, username, s.eventMonths)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", username).Msg("Events fetch failed")
		return report, nil
	}
	if len(events) > 0 {
		summary := Summarize(events)
		report.Summary = &summary
	}

	return report, nil
}

// Forget removes every cached entry about a username.
func (s *Service) Forget(ctx context.Context, username string) error {
	_, err := s.cache.Invalidate(ctx, cache.SubjectMatcher(username))
	return err
}

// ClearCache empties the cache entirely.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
