// Package optixflow resolves responsive image sources from the Optix Flow
// CDN and renders them as element trees.
package optixflow

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/syncf"

	"github.com/optixflow/optixflow-go/cdn"
)

// OutputFormat is the target format requested from the optimization CDN.
type OutputFormat string

const (
	OutputAVIF OutputFormat = "avif"
	OutputWEBP OutputFormat = "webp"
	OutputJPEG OutputFormat = "jpeg"
	OutputPNG  OutputFormat = "png"
)

// DefaultCompressionLevel is used when a Config does not set one.
const DefaultCompressionLevel = 75

// Config activates URL optimization. Without an APIKey the feature stays
// inactive. Configs are resolved whole: no merging of partial values across
// resolution levels.
type Config struct {
	APIKey           string       `json:"apiKey" yaml:"apiKey" doc:"Optimization service API key. Required to activate URL optimization."`
	CompressionLevel int          `json:"compressionLevel,omitempty" yaml:"compressionLevel,omitempty" doc:"Compression quality, 0-100." default:"75"`
	OutputFormat     OutputFormat `json:"outputFormat,omitempty" yaml:"outputFormat,omitempty" doc:"Target output format." enum:"avif,webp,jpeg,png" default:"avif"`
}

// Normalized clamps the compression level into 0-100 (defaulting to
// DefaultCompressionLevel when unset) and defaults the output format.
func (c Config) Normalized() Config {
	switch {
	case c.CompressionLevel == 0:
		c.CompressionLevel = DefaultCompressionLevel
	case c.CompressionLevel < 0:
		c.CompressionLevel = 0
	case c.CompressionLevel > 100:
		c.CompressionLevel = 100
	}

	if c.OutputFormat == "" {
		c.OutputFormat = OutputAVIF
	}

	return c
}

// Optimization converts the Config into CDN URL parameters.
func (c Config) Optimization() cdn.Optimization {
	c = c.Normalized()
	return cdn.Optimization{
		APIKey:           c.APIKey,
		CompressionLevel: c.CompressionLevel,
		OutputFormat:     string(c.OutputFormat),
	}
}

// Provider supplies a Config, or nil when it has none.
type Provider func() *Config

var (
	processConfig   *Config
	processConfigMu syncf.RWMutex
)

// SetProcessConfig sets the process-level default Config for the remainder
// of the process. Passing nil clears it.
func SetProcessConfig(config *Config) {
	_, cancel := processConfigMu.Lock(nil)
	defer cancel()
	processConfig = config
}

// ProcessConfig reads the process-level default Config.
func ProcessConfig() *Config {
	_, cancel := processConfigMu.RLock(nil)
	defer cancel()
	return processConfig
}

// envConfigNames are the host environment variables read for the
// lowest-priority Config source, checked in this order. The alternative
// names exist for backward compatibility.
var envConfigNames = []string{"OPTIXFLOW_CONFIG", "OPTIX_FLOW_CONFIG", "OPTIX_CONFIG"}

// EnvConfig reads the Config from the host environment (JSON payload).
// Malformed payloads are logged and skipped rather than failing the caller.
func EnvConfig() *Config {
	for _, name := range envConfigNames {
		value, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}

		var config Config
		if err := json.Unmarshal([]byte(value), &config); err != nil {
			logf.Get("optix.config").Warnf(context.Background(), "skipping %s: %v", name, err)
			continue
		}

		return &config
	}

	return nil
}

// ResolveConfig returns the first defined Config from the ordered provider
// list: exactly one winner, no merging. Callers pass the per-call override
// first and the instance config second; the process-level holder and the
// host environment are always consulted last. A nil result means the
// optimization feature is inactive.
func ResolveConfig(providers ...Provider) *Config {
	providers = append(providers, ProcessConfig, EnvConfig)
	for _, provider := range providers {
		if provider == nil {
			continue
		}

		if config := provider(); config != nil {
			normalized := config.Normalized()
			return &normalized
		}
	}

	return nil
}

// Static wraps a Config value into a Provider.
func Static(config *Config) Provider {
	return func() *Config { return config }
}
