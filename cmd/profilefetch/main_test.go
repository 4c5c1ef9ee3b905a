package main

import (
	"strings"
	"testing"
	"time"
)

func TestValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"octocat", true},
		{"0ctoc4t", true},
		{"octo-cat", true},
		{"a", true},
		{"", false},
		{"-octocat", false},
		{"octocat-", false},
		{"octo--cat", false},
		{"octo cat", false},
		{"octo.cat", false},
		{strings.Repeat("a", 39), true},
		{strings.Repeat("a", 40), false},
	}

	for _, tt := range tests {
		if got := validUsername(tt.username); got != tt.want {
			t.Errorf("validUsername(%q) = %v, want %v", tt.username, got, tt.want)
		}
	}
}

func TestReadableEventType(t *testing.T) {
	tests := []struct {
		eventType string
		want      string
	}{
		{"PushEvent", "Pushes"},
		{"WatchEvent", "Stars"},
		{"GollumEvent", "Wiki edits"},
		{"SponsorshipEvent", "Sponsorship"},
		{"Weird", "Weird"},
	}

	for _, tt := range tests {
		if got := readableEventType(tt.eventType); got != tt.want {
			t.Errorf("readableEventType(%q) = %q, want %q", tt.eventType, got, tt.want)
		}
	}
}

func TestRelativeDate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"today", now.Format(time.RFC3339), "today"},
		{"yesterday", now.Add(-36 * time.Hour).Format(time.RFC3339), "yesterday"},
		{"days", now.Add(-3 * 24 * time.Hour).Format(time.RFC3339), "3 days ago"},
		{"weeks", now.Add(-15 * 24 * time.Hour).Format(time.RFC3339), "2 weeks ago"},
		{"months", now.Add(-70 * 24 * time.Hour).Format(time.RFC3339), "2 months ago"},
		{"years", now.Add(-800 * 24 * time.Hour).Format(time.RFC3339), "2 years ago"},
		{"garbage", "not-a-date", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeDate(tt.value); got != tt.want {
				t.Errorf("relativeDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
