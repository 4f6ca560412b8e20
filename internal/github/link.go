package github

import "strings"

// nextLink extracts the rel="next" URL from a Link response header, e.g.
//
//	<https://api.github.com/...&page=2>; rel="next", <...&page=5>; rel="last"
//
// Returns "" when the header declares no next page. The rel name match is
// case-sensitive, as served by the GitHub API.
func nextLink(header string) string {
	for _, seg := range strings.Split(header, ",") {
		parts := strings.Split(seg, ";")
		if len(parts) < 2 {
			continue
		}
		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range parts[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return strings.Trim(target, "<>")
			}
		}
	}
	return ""
}
