// Package descriptor contains the image descriptor model shared by the
// fetcher, the resolver and the renderer.
package descriptor

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	null "gopkg.in/guregu/null.v3"
)

// ID is a numeric image handle used for legacy lookups.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses an image ID from a string.
func ParseID(value string) (ID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse image id [%s]", value)
	}

	return ID(id), nil
}

// IDFromFloat converts a numeric value to an ID.
// NaN and infinities are rejected.
func IDFromFloat(value float64) (ID, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Errorf("image id is not a finite number: %f", value)
	}

	return ID(int64(value)), nil
}

// Format is an image encoding tag.
type Format string

const (
	AVIF Format = "avif"
	WEBP Format = "webp"
	JPEG Format = "jpeg"
)

// Formats are all known formats ordered by encoding efficiency, best first.
// JPEG goes last as the universally supported denominator.
var Formats = []Format{AVIF, WEBP, JPEG}

func (f Format) String() string {
	return string(f)
}

// MIME returns the media type for this Format.
func (f Format) MIME() string {
	return "image/" + string(f)
}

// Breakpoint is a named responsive width tier.
type Breakpoint string

const (
	Small  Breakpoint = "sm"
	Medium Breakpoint = "md"
	Large  Breakpoint = "lg"
	Full   Breakpoint = "full"
)

// Breakpoints are all breakpoints ordered by width, narrowest first.
var Breakpoints = []Breakpoint{Small, Medium, Large, Full}

// SizeSet maps breakpoints to rendition URLs for a single format.
// Any subset of slots may be empty. Width values are optional CDN-side
// metadata describing the actual pixel width of each rendition.
type SizeSet struct {
	Small  string `json:"sm,omitempty"`
	Medium string `json:"md,omitempty"`
	Large  string `json:"lg,omitempty"`
	Full   string `json:"full,omitempty"`

	SmallWidth  null.Int `json:"sm_width,omitempty"`
	MediumWidth null.Int `json:"md_width,omitempty"`
	LargeWidth  null.Int `json:"lg_width,omitempty"`
	FullWidth   null.Int `json:"full_width,omitempty"`
}

// URL returns the rendition URL for a breakpoint, which may be blank.
func (s SizeSet) URL(bp Breakpoint) string {
	switch bp {
	case Small:
		return s.Small
	case Medium:
		return s.Medium
	case Large:
		return s.Large
	case Full:
		return s.Full
	default:
		return ""
	}
}

// Width returns the declared rendition width for a breakpoint, if any.
func (s SizeSet) Width(bp Breakpoint) (int64, bool) {
	var value null.Int
	switch bp {
	case Small:
		value = s.SmallWidth
	case Medium:
		value = s.MediumWidth
	case Large:
		value = s.LargeWidth
	case Full:
		value = s.FullWidth
	}

	return value.Int64, value.Valid
}

// HasWidths reports whether any breakpoint carries declared width metadata.
func (s SizeSet) HasWidths() bool {
	for _, bp := range Breakpoints {
		if _, ok := s.Width(bp); ok {
			return true
		}
	}

	return false
}

// StatusFailed marks a descriptor whose CDN-side processing failed for good.
// It suppresses refresh polling.
const StatusFailed = "failed"

// Descriptor describes one image's available renditions.
// Values are immutable after construction: a refresh fetch yields a new
// Descriptor, it never mutates the old one.
type Descriptor struct {
	ID ID `json:"id,omitempty"`

	// Historically named direct URL fields, in priority order.
	ImgURL   string `json:"img_url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	URL      string `json:"url,omitempty"`
	Src      string `json:"src,omitempty"`

	Variants    map[Format]SizeSet `json:"variants,omitempty"`
	FallbackURL string             `json:"fallback_url,omitempty"`

	Width  null.Int `json:"width,omitempty"`
	Height null.Int `json:"height,omitempty"`

	Status   null.String `json:"status,omitempty"`
	Filename string      `json:"filename,omitempty"`
}

// DirectCandidates returns the direct URL fields in priority order,
// including blank ones.
func (d *Descriptor) DirectCandidates() []string {
	return []string{d.ImgURL, d.ImageURL, d.URL, d.Src}
}

// Variant returns the size set for a format, if present.
func (d *Descriptor) Variant(format Format) (SizeSet, bool) {
	set, ok := d.Variants[format]
	return set, ok
}

// Failed reports whether CDN-side processing failed permanently.
func (d *Descriptor) Failed() bool {
	return d.Status.Valid && strings.EqualFold(d.Status.String, StatusFailed)
}

func (d *Descriptor) String() string {
	if d == nil {
		return "<nil>"
	}

	return "image." + d.ID.String()
}
