// Package changeset selects which changed files are sent for review.
package changeset

import (
	"strings"

	"github.com/aezell/reviewgate/internal/config"
)

// Select filters paths by the config's file-type allow-list and
// exclude-path deny-list.
//
// A path is kept when its suffix matches any FileTypes entry (every path is
// kept when FileTypes is empty), then dropped when it contains any
// ExcludePaths entry. Matching is case-sensitive. Order is preserved and
// duplicates keep their first position, so Select(Select(p)) == Select(p).
func Select(paths []string, cfg config.ReviewConfig) []string {
	out := []string{}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		if !matchesType(p, cfg.FileTypes) || excluded(p, cfg.ExcludePaths) {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func matchesType(path string, fileTypes []string) bool {
	if len(fileTypes) == 0 {
		return true
	}
	for _, ext := range fileTypes {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func excluded(path string, excludePaths []string) bool {
	for _, frag := range excludePaths {
		if strings.Contains(path, frag) {
			return true
		}
	}
	return false
}
