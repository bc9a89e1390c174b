package cdn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optixflow/optixflow-go/cdn"
)

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, cdn.DefaultHost, cdn.NormalizeHost(""))
	assert.Equal(t, cdn.DefaultHost, cdn.NormalizeHost("  "))
	assert.Equal(t, "https://img.example.com", cdn.NormalizeHost("https://img.example.com/"))
	assert.Equal(t, "https://img.example.com", cdn.NormalizeHost("https://img.example.com"))
}

func TestEndpoints(t *testing.T) {
	assert.Equal(t, cdn.DefaultHost+"/assets/images/123", cdn.PrimaryURL("", 123))
	assert.Equal(t, cdn.DefaultHost+"/i/r/123", cdn.LegacyURL("", 123))
	assert.Equal(t, cdn.DefaultHost+"/assets/low_res_thumb/123", cdn.ThumbnailURL("", 123))
	assert.Equal(t, "https://img.example.com/assets/low_res_thumb/7", cdn.ThumbnailURL("https://img.example.com/", 7))
}

func TestNormalize_Blank(t *testing.T) {
	for _, value := range []string{"", " ", "\t", "\n  "} {
		assert.Empty(t, cdn.Normalize("https://img.example.com", value))
	}
}

func TestNormalize(t *testing.T) {
	host := "https://img.example.com"
	assert.Equal(t, "https://img.example.com/img/1.jpg", cdn.Normalize(host, "/img/1.jpg"))
	assert.Equal(t, "https://other.example.com/a.webp", cdn.Normalize(host, "//other.example.com/a.webp"))
	assert.Equal(t, "https://img.example.com/rel/a.webp", cdn.Normalize(host, "rel/a.webp"))
	assert.Equal(t, "http://abs.example.com/b.png", cdn.Normalize(host, "http://abs.example.com/b.png"))
	assert.Equal(t, "data:image/gif;base64,R0lGOD", cdn.Normalize(host, "data:image/gif;base64,R0lGOD"))
}

func TestOptimizeURL(t *testing.T) {
	opt := cdn.Optimization{APIKey: "k1", CompressionLevel: 60, OutputFormat: "webp"}
	assert.Equal(t,
		"https://img.example.com/a.jpg?fm=webp&key=k1&q=60",
		cdn.OptimizeURL("https://img.example.com/a.jpg", opt))

	// inactive without a key
	assert.Equal(t,
		"https://img.example.com/a.jpg",
		cdn.OptimizeURL("https://img.example.com/a.jpg", cdn.Optimization{CompressionLevel: 60}))

	// data URLs pass through
	assert.Equal(t, "data:image/gif;base64,R0lGOD", cdn.OptimizeURL("data:image/gif;base64,R0lGOD", opt))
}
