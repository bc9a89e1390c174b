// Package cdn derives Optix Flow CDN URLs. All functions are pure.
package cdn

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/optixflow/optixflow-go/descriptor"
)

// DefaultHost is the well-known Optix Flow CDN origin.
const DefaultHost = "https://cdn.optixflow.com"

// NormalizeHost strips the trailing slash and falls back to DefaultHost
// for blank values.
func NormalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" {
		return DefaultHost
	}

	return strings.TrimRight(host, "/")
}

// PrimaryURL returns the primary descriptor endpoint for an image ID.
func PrimaryURL(host string, id descriptor.ID) string {
	return NormalizeHost(host) + "/assets/images/" + id.String()
}

// LegacyURL returns the legacy-format descriptor endpoint for an image ID.
func LegacyURL(host string, id descriptor.ID) string {
	return NormalizeHost(host) + "/i/r/" + id.String()
}

// ThumbnailURL returns the low-resolution placeholder URL for an image ID.
// It is never fetched by the client, only used directly as an element source.
func ThumbnailURL(host string, id descriptor.ID) string {
	return NormalizeHost(host) + "/assets/low_res_thumb/" + id.String()
}

// Normalize converts a possibly-relative URL to absolute form against host.
// Blank input yields "" which callers must treat as "no candidate", never as
// an error. Absolute and data: URLs pass through unchanged.
func Normalize(host, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(value, "data:"):
		return value
	case strings.Contains(value, "://"):
		return value
	case strings.HasPrefix(value, "//"):
		return "https:" + value
	case strings.HasPrefix(value, "/"):
		return NormalizeHost(host) + value
	default:
		return NormalizeHost(host) + "/" + value
	}
}

// Optimization carries CDN transformation parameters applied to rendition
// URLs when the Optix configuration is active.
type Optimization struct {
	APIKey           string
	CompressionLevel int
	OutputFormat     string
}

// OptimizeURL appends transformation query parameters to an absolute URL.
// URLs that cannot be parsed and data: URLs are returned unchanged.
func OptimizeURL(value string, opt Optimization) string {
	if opt.APIKey == "" || strings.HasPrefix(value, "data:") {
		return value
	}

	u, err := url.Parse(value)
	if err != nil {
		return value
	}

	query := u.Query()
	query.Set("key", opt.APIKey)
	query.Set("q", strconv.Itoa(opt.CompressionLevel))
	if opt.OutputFormat != "" {
		query.Set("fm", opt.OutputFormat)
	}

	u.RawQuery = query.Encode()
	return u.String()
}
