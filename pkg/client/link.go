package client

import (
	"net/http"
	"strings"
)

// nextLink extracts the rel="next" continuation URL from a Link header.
// Returns "" when no next page is advertised.
//
// Link: <https://api.github.com/user/1/repos?page=2>; rel="next",
//       <https://api.github.com/user/1/repos?page=5>; rel="last"
func nextLink(headers http.Header) string {
	link := headers.Get("Link")
	if link == "" {
		return ""
	}

	for _, part := range strings.Split(link, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}

		urlPart := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(urlPart, "<") || !strings.HasSuffix(urlPart, ">") {
			continue
		}

		for _, attr := range segments[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				return strings.Trim(urlPart, "<>")
			}
		}
	}
	return ""
}
