// Command profilefetch is an interactive GitHub profile explorer. It
// reads usernames from stdin, fetches the profile through the cached,
// rate-limited transport and prints a formatted report.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/profilefetch/profilefetch/internal/config"
	"github.com/profilefetch/profilefetch/pkg/cache"
	"github.com/profilefetch/profilefetch/pkg/client"
	"github.com/profilefetch/profilefetch/pkg/logging"
	"github.com/profilefetch/profilefetch/pkg/profile"
	"github.com/profilefetch/profilefetch/pkg/ratelimit"
)

// usernamePattern matches valid GitHub usernames: alphanumerics and
// single interior hyphens. Length is checked separately.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:-?[a-zA-Z0-9])*$`)

const maxUsernameLength = 39

func validUsername(username string) bool {
	if username == "" || len(username) > maxUsernameLength {
		return false
	}
	return usernamePattern.MatchString(username)
}

// eventTypeNames maps GitHub event types to readable labels.
var eventTypeNames = map[string]string{
	"PushEvent":              "Pushes",
	"CreateEvent":            "Repository/branch creation",
	"WatchEvent":             "Stars",
	"ForkEvent":              "Forks",
	"PullRequestEvent":       "Pull requests",
	"PullRequestReviewEvent": "PR reviews",
	"IssuesEvent":            "Issues",
	"IssueCommentEvent":      "Issue comments",
	"CommitCommentEvent":     "Commit comments",
	"DeleteEvent":            "Deletions",
	"ReleaseEvent":           "Releases",
	"GollumEvent":            "Wiki edits",
	"MemberEvent":            "Collaborator changes",
	"PublicEvent":            "Repositories made public",
}

func readableEventType(eventType string) string {
	if name, ok := eventTypeNames[eventType]; ok {
		return name
	}
	return strings.TrimSuffix(eventType, "Event")
}

// relativeDate renders a timestamp as a rough distance from now.
func relativeDate(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "unknown"
	}
	days := int(time.Since(t).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	default:
		return fmt.Sprintf("%d years ago", days/365)
	}
}

const readmePreviewLength = 400

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize cache store")
	}

	limiter := ratelimit.NewLimiter(logging.NewLogger("ratelimit"))

	clientCfg := client.DefaultConfig()
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.Token = cfg.Token
	clientCfg.UserAgent = cfg.UserAgent
	clientCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	clientCfg.Retry.MaxAttempts = cfg.RetryMaxAttempts

	transport, err := client.New(clientCfg, limiter, logging.NewLogger("client"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create API client")
	}

	svc := profile.NewService(transport, cache.New(store, logging.NewLogger("cache")), logging.NewLogger("profile"))
	svc.SetEventMonths(cfg.EventMonths)

	runLoop(ctx, svc, logger)
}

// newStore selects the cache backend from the configuration.
func newStore(ctx context.Context, cfg *config.Config) (cache.Store, error) {
	if cfg.CacheBackend != "redis" {
		return cache.NewMemoryStore(), nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return cache.NewRedisStore(redisClient, 0), nil
}

// runLoop reads usernames until exit/quit or EOF.
func runLoop(ctx context.Context, svc *profile.Service, logger zerolog.Logger) {
	fmt.Println("GitHub profile explorer")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Type a username, 'clear' to reset the cache, 'exit' to quit")
	fmt.Println(strings.Repeat("=", 60))

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\nusername> ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return
		case "clear":
			if err := svc.ClearCache(ctx); err != nil {
				fmt.Printf("Failed to clear the cache: %v\n", err)
			} else {
				fmt.Println("Cache cleared.")
			}
			continue
		case "":
			fmt.Println("Username must not be empty.")
			continue
		}

		if !validUsername(input) {
			fmt.Printf("%q is not a valid GitHub username.\n", input)
			continue
		}

		// A repeat lookup drops the cached entries first so the user
		// sees fresh data.
		if seen[strings.ToLower(input)] {
			fmt.Println("Already looked up this session, refreshing.")
			if err := svc.Forget(ctx, input); err != nil {
				logger.Warn().Err(err).Str("username", input).Msg("Cache invalidation failed")
			}
		}
		seen[strings.ToLower(input)] = true

		start := time.Now()
		report, err := svc.Lookup(ctx, input)
		switch {
		case errors.Is(err, client.ErrNotFound):
			fmt.Printf("User %q not found.\n", input)
			continue
		case err != nil:
			fmt.Printf("Lookup failed: %v\n", err)
			continue
		}

		printReport(report)
		fmt.Printf("\nProcessed in %.2fs\n", time.Since(start).Seconds())
	}
}

func printReport(report *profile.Report) {
	user := report.User

	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Welcome, %s!\n", user.DisplayName())
	if user.Bio != "" {
		fmt.Printf("Bio:          %s\n", user.Bio)
	}
	if user.Location != "" {
		fmt.Printf("Location:     %s\n", user.Location)
	}
	if user.Company != "" {
		fmt.Printf("Company:      %s\n", user.Company)
	}
	if user.Blog != "" {
		fmt.Printf("Blog:         %s\n", user.Blog)
	}
	fmt.Printf("Joined:       %s\n", relativeDate(user.CreatedAt))
	fmt.Printf("Followers:    %d\n", user.Followers)
	fmt.Printf("Following:    %d\n", user.Following)
	fmt.Printf("Public repos: %d\n", user.PublicRepos)
	if user.HTMLURL != "" {
		fmt.Printf("Profile:      %s\n", user.HTMLURL)
	}
	if report.BestRepo != nil {
		fmt.Printf("Top repo:     %s\n", report.BestRepo.Name)
	}

	if report.Summary != nil {
		printSummary(report.Summary)
	} else {
		fmt.Println("\nNo recent public activity.")
	}

	if report.HasReadme {
		fmt.Println("\nREADME preview:")
		fmt.Println(strings.Repeat("-", 40))
		fmt.Println(profile.TruncateAtSentence(report.Readme, readmePreviewLength))
	}

	fmt.Println(strings.Repeat("=", 70))
}

func printSummary(summary *profile.Summary) {
	fmt.Printf("\nActivity: %d events", summary.TotalEvents)
	if summary.ActivePeriodDays > 0 {
		fmt.Printf(" over %d days (%.1f/day)", summary.ActivePeriodDays, summary.AveragePerDay)
	}
	fmt.Println()

	if len(summary.MonthlyCounts) > 0 {
		fmt.Println("\nBy month:")
		months := make([]string, 0, len(summary.MonthlyCounts))
		for month := range summary.MonthlyCounts {
			months = append(months, month)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(months)))
		for i, month := range months {
			if i == 6 {
				break
			}
			fmt.Printf("  %s: %d events\n", month, summary.MonthlyCounts[month])
		}
	}

	if len(summary.TypeCounts) > 0 {
		fmt.Println("\nBy type:")
		types := make([]string, 0, len(summary.TypeCounts))
		for eventType := range summary.TypeCounts {
			types = append(types, eventType)
		}
		sort.Slice(types, func(i, j int) bool {
			if summary.TypeCounts[types[i]] != summary.TypeCounts[types[j]] {
				return summary.TypeCounts[types[i]] > summary.TypeCounts[types[j]]
			}
			return types[i] < types[j]
		})
		for i, eventType := range types {
			if i == 5 {
				break
			}
			fmt.Printf("  %s: %d\n", readableEventType(eventType), summary.TypeCounts[eventType])
		}
	}

	if !summary.FirstSeen.IsZero() {
		fmt.Printf("\nFirst activity: %s\n", summary.FirstSeen.Format("2006-01-02"))
		fmt.Printf("Last activity:  %s\n", summary.LastSeen.Format("2006-01-02 15:04"))
	}
}
