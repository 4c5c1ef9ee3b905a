package profile

import (
	"strings"
	"time"
)

// Scoring weights. Each repository's total is the sum of the terms that
// apply; selection takes the strictly highest total with ties broken by
// input order.
const (
	scoreNameMatch   = 100
	scoreHasReadme   = 50
	scoreDescription = 30

	recencyWindow = 30 * 24 * time.Hour
	recencyBase   = 40

	starsWeight = 2
	starsCap    = 50
	forksCap    = 25
	sizeDivisor = 1000
	sizeCap     = 20
)

// Scorer ranks repositories for a subject. It is deterministic and does
// no I/O; the clock is injectable so the recency term is testable.
type Scorer struct {
	now func() time.Time
}

// NewScorer creates a scorer using the wall clock.
func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// SelectBest returns the repository with the strictly highest relevance
// score, or nil for an empty input. Ties go to the earliest item.
func (s *Scorer) SelectBest(repos []Repo, subject string) *Repo {
	if len(repos) == 0 {
		return nil
	}

	bestIdx := 0
	bestScore := s.Score(repos[0], subject)
	for i := 1; i < len(repos); i++ {
		if score := s.Score(repos[i], subject); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	return &repos[bestIdx]
}

// Score computes the relevance score of one repository.
func (s *Scorer) Score(repo Repo, subject string) int {
	score := 0

	// A repository named after its owner is the profile repository.
	if strings.EqualFold(repo.Name, subject) {
		score += scoreNameMatch
	}

	if repo.HasReadme || repo.HasWiki {
		score += scoreHasReadme
	}

	if repo.Description != "" {
		score += scoreDescription
	}

	// Recent pushes score up to recencyBase, fading to zero over the
	// window. A timestamp ahead of our clock (skew) counts as just
	// pushed; unparseable or missing timestamps contribute nothing.
	if pushed, ok := parseTime(repo.PushedAt); ok {
		since := s.now().Sub(pushed)
		if since < 0 {
			since = 0
		}
		if since < recencyWindow {
			days := int(since.Hours() / 24)
			if term := recencyBase - days; term > 0 {
				score += term
			}
		}
	}

	score += capped(repo.StargazersCount*starsWeight, starsCap)
	score += capped(repo.ForksCount, forksCap)
	score += capped(repo.Size/sizeDivisor, sizeCap)

	return score
}

func capped(v, cap int) int {
	if v > cap {
		return cap
	}
	return v
}
