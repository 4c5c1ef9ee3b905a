// Package profile implements the GitHub profile domain: typed models,
// repository relevance scoring, activity aggregation, README retrieval,
// and the service that orchestrates them over the cached transport.
package profile

import (
	"time"
)

// User is a GitHub user record. Absent fields decode to zero values.
type User struct {
	Login           string `json:"login"`
	Name            string `json:"name"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
	Company         string `json:"company"`
	Blog            string `json:"blog"`
	TwitterUsername string `json:"twitter_username"`
	HTMLURL         string `json:"html_url"`
	ReposURL        string `json:"repos_url"`
	Followers       int    `json:"followers"`
	Following       int    `json:"following"`
	PublicRepos     int    `json:"public_repos"`
	CreatedAt       string `json:"created_at"`
}

// DisplayName returns the user's name, falling back to the login.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// Repo is a repository record with the attributes relevant to scoring.
// Numeric and boolean fields default to zero/false when absent; scoring
// never fails on missing fields.
type Repo struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	PushedAt        string `json:"pushed_at"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Size            int    `json:"size"`
	HasWiki         bool   `json:"has_wiki"`
	HasReadme       bool   `json:"has_readme"`
}

// Event is one entry of a user's public activity stream.
type Event struct {
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
}

// Summary is the calendar-bucketed view of an event stream. It is
// recomputed wholesale on each call, never incrementally mutated.
type Summary struct {
	// TotalEvents counts the events that parsed successfully.
	TotalEvents int

	// MonthlyCounts buckets events by "YYYY-MM".
	MonthlyCounts map[string]int

	// TypeCounts buckets events by their type string.
	TypeCounts map[string]int

	// SourceCounts buckets events by repository name, with "unknown"
	// for events carrying none.
	SourceCounts map[string]int

	// FirstSeen and LastSeen are the extreme event timestamps; zero when
	// no event parsed.
	FirstSeen time.Time
	LastSeen  time.Time

	// ActivePeriodDays spans FirstSeen..LastSeen inclusive; 0 when unset.
	ActivePeriodDays int

	// AveragePerDay is TotalEvents over the active period; 0 when the
	// period is empty.
	AveragePerDay float64
}

// timeLayouts are the accepted timestamp formats, from most to least
// specific.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// parseTime parses a timestamp string tolerantly.
func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
