package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ReleasesURL is the GitHub endpoint for the newest release.
const ReleasesURL = "https://api.github.com/repos/matheuskafuri/feedview/releases/latest"

const checkTimeout = 5 * time.Second

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type release struct {
	TagName string `json:"tag_name"`
}

// Check asks endpoint whether a release newer than currentVersion exists.
// It returns nil when up to date, for development builds, and on any error;
// errors are only logged.
func Check(ctx context.Context, endpoint, currentVersion string) *Result {
	current := strings.TrimPrefix(currentVersion, "v")
	if current == "" || current == "dev" {
		return nil
	}

	tag, err := latestTag(ctx, endpoint)
	if err != nil {
		slog.Debug("update check failed", "endpoint", endpoint, "err", err)
		return nil
	}
	latest := strings.TrimPrefix(tag, "v")
	if latest == "" || !newer(latest, current) {
		return nil
	}
	return &Result{LatestVersion: latest}
}

func latestTag(ctx context.Context, endpoint string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	var r release
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&r); err != nil {
		return "", fmt.Errorf("decoding release: %w", err)
	}
	return r.TagName, nil
}

// newer reports whether latest is a higher version than current. Dotted
// numeric versions compare field by field; a pre-release suffix is ignored.
// Anything else counts as newer when the strings differ.
func newer(latest, current string) bool {
	l, lok := parseVersion(latest)
	c, cok := parseVersion(current)
	if !lok || !cok {
		return latest != current
	}
	for i := range l {
		if l[i] != c[i] {
			return l[i] > c[i]
		}
	}
	return false
}

func parseVersion(s string) ([3]int, bool) {
	var v [3]int
	if i := strings.IndexAny(s, "-+"); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, ".")
	if len(parts) == 0 || len(parts) > 3 {
		return v, false
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return v, false
		}
		v[i] = n
	}
	return v, true
}
