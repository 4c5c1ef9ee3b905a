package cache

import (
	"fmt"
	"sort"
	"strings"
)

// Key identifies a logical resource plus its parameters. Keys are
// immutable once minted; String produces the store key.
type Key struct {
	// Kind is the resource category, e.g. "user", "repos", "events".
	Kind string

	// Subject is the identity the resource belongs to, e.g. a username
	// or "username/repo".
	Subject string

	// Params are additional parameters, e.g. {"months": "6"}.
	Params map[string]string
}

// String generates a deterministic key string.
// Format: kind:subject:param1=val1:param2=val2
//
// Example:
//
//	events:octocat:months=6
func (k Key) String() string {
	parts := []string{k.Kind, strings.ToLower(k.Subject)}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, k.Params[name]))
		}
	}

	return strings.Join(parts, ":")
}

// SubjectMatcher returns a predicate matching every key minted for the
// given subject, regardless of kind and parameters. Used to forget one
// identity wholesale.
func SubjectMatcher(subject string) func(string) bool {
	needle := ":" + strings.ToLower(subject)
	return func(key string) bool {
		rest := key
		if i := strings.Index(key, ":"); i >= 0 {
			rest = key[i:]
		}
		return rest == needle || strings.HasPrefix(rest, needle+":") || strings.HasPrefix(rest, needle+"/")
	}
}
