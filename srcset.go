package optixflow

import (
	"strings"

	"github.com/optixflow/optixflow-go/cdn"
)

func splitSrcSet(srcset string) []string {
	if srcset == "" {
		return nil
	}

	return strings.Split(srcset, ", ")
}

func joinSrcSet(entries []string) string {
	return strings.Join(entries, ", ")
}

// optimizeEntry rewrites the URL part of a "<url> <width>w" source set entry.
func optimizeEntry(entry string, opt cdn.Optimization) string {
	url, qualifier, ok := strings.Cut(entry, " ")
	if !ok {
		return cdn.OptimizeURL(entry, opt)
	}

	return cdn.OptimizeURL(url, opt) + " " + qualifier
}
