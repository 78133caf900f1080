// Package gitutil parses change URLs given on the command line.
package gitutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	prURLRegex = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)/pull/(\d+)$`)
	mrURLRegex = regexp.MustCompile(`^(?:https?://)?([^/]+)/(.+?)/-/merge_requests/(\d+)$`)
)

// ParsePullRequestURL parses a GitHub Pull Request URL and extracts the owner, repo, and PR number.
// Supported format: https://github.com/{owner}/{repo}/pull/{number}
func ParsePullRequestURL(url string) (owner, repo string, prNumber int, err error) {
	url = strings.TrimSuffix(url, "/")

	matches := prURLRegex.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid pull request URL format: %s", url)
	}

	prNumber, err = strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid PR number '%s': %w", matches[3], err)
	}

	return matches[1], matches[2], prNumber, nil
}

// ParseMergeRequestURL parses a GitLab merge request URL and extracts the host,
// the project path with namespace, and the MR IID.
// Supported format: https://{host}/{namespace}/{project}/-/merge_requests/{iid}
func ParseMergeRequestURL(url string) (host, projectPath string, iid int, err error) {
	url = strings.TrimSuffix(url, "/")

	matches := mrURLRegex.FindStringSubmatch(url)
	if len(matches) != 4 {
		return "", "", 0, fmt.Errorf("invalid merge request URL format: %s", url)
	}

	iid, err = strconv.Atoi(matches[3])
	if err != nil {
		return "", "", 0, fmt.Errorf("invalid MR IID '%s': %w", matches[3], err)
	}

	return matches[1], matches[2], iid, nil
}

// IsMergeRequestURL reports whether url looks like a GitLab merge request link.
func IsMergeRequestURL(url string) bool {
	return strings.Contains(url, "/-/merge_requests/")
}
