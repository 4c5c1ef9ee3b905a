package profile

// unknownSource buckets events that carry no repository reference.
const unknownSource = "unknown"

// Summarize turns an event stream into calendar-bucketed statistics.
// Events with a missing type or unparseable timestamp are skipped and do
// not affect any count. Empty input yields a zero summary, never an
// error.
func Summarize(events []Event) Summary {
	summary := Summary{
		MonthlyCounts: make(map[string]int),
		TypeCounts:    make(map[string]int),
		SourceCounts:  make(map[string]int),
	}

	for _, event := range events {
		if event.Type == "" {
			continue
		}
		createdAt, ok := parseTime(event.CreatedAt)
		if !ok {
			continue
		}

		summary.TotalEvents++
		summary.MonthlyCounts[createdAt.Format("2006-01")]++
		summary.TypeCounts[event.Type]++

		source := event.Repo.Name
		if source == "" {
			source = unknownSource
		}
		summary.SourceCounts[source]++

		if summary.FirstSeen.IsZero() || createdAt.Before(summary.FirstSeen) {
			summary.FirstSeen = createdAt
		}
		if summary.LastSeen.IsZero() || createdAt.After(summary.LastSeen) {
			summary.LastSeen = createdAt
		}
	}

	if !summary.FirstSeen.IsZero() && !summary.LastSeen.IsZero() {
		summary.ActivePeriodDays = int(summary.LastSeen.Sub(summary.FirstSeen).Hours()/24) + 1
	}
	if summary.ActivePeriodDays > 0 {
		summary.AveragePerDay = float64(summary.TotalEvents) / float64(summary.ActivePeriodDays)
	}

	return summary
}
