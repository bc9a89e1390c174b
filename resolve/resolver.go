// Package resolve derives renderable source sets from image descriptors.
package resolve

import (
	"path"
	"strconv"
	"strings"

	null "gopkg.in/guregu/null.v3"

	"github.com/optixflow/optixflow-go/cdn"
	"github.com/optixflow/optixflow-go/descriptor"
)

// Widths is the per-breakpoint width table used for source set qualifiers.
type Widths struct {
	Small, Medium, Large, Full int64
}

// DefaultWidths is used when neither variant metadata nor hints declare
// breakpoint widths.
var DefaultWidths = Widths{Small: 640, Medium: 1024, Large: 1536, Full: 2560}

// Width returns the table value for a breakpoint.
func (w Widths) Width(bp descriptor.Breakpoint) int64 {
	switch bp {
	case descriptor.Small:
		return w.Small
	case descriptor.Medium:
		return w.Medium
	case descriptor.Large:
		return w.Large
	case descriptor.Full:
		return w.Full
	default:
		return 0
	}
}

// Hints carries presentation hints supplied by the caller.
// Width and Height are parsed permissively: numeric values and numeric
// strings are honored, anything else is ignored.
type Hints struct {
	Width  any
	Height any

	// WidthTable overrides DefaultWidths when variant metadata is absent.
	WidthTable *Widths
}

// SourceSet is a width-qualified source set for one format.
type SourceSet struct {
	Format descriptor.Format
	SrcSet string
}

// Resolution is the final renderable source set for one descriptor.
type Resolution struct {
	// Fallback is the single URL used as the plain element source.
	// Blank means no renderable source exists.
	Fallback string

	// Sources holds per-format source sets ordered most-efficient first.
	// Formats without any contributing breakpoint are omitted.
	Sources []SourceSet

	Width  null.Int
	Height null.Int

	// Filename is the derived display filename, set only when the
	// descriptor carries an explicit base filename.
	Filename string
}

// Renderable reports whether any source was found.
func (r Resolution) Renderable() bool {
	return r.Fallback != ""
}

// fallbackFormats is the preference order for the single fallback URL.
// WEBP decodes everywhere modern, JPEG is the safe denominator, AVIF last
// since legacy browsers reject it as a plain src.
var fallbackFormats = []descriptor.Format{descriptor.WEBP, descriptor.JPEG, descriptor.AVIF}

// bestBreakpoints is the slot preference when picking one representative URL
// out of a size set. It covers every slot, so one pass per format suffices.
var bestBreakpoints = []descriptor.Breakpoint{
	descriptor.Medium,
	descriptor.Large,
	descriptor.Small,
	descriptor.Full,
}

// Resolve computes the Resolution for a descriptor against a CDN host.
func Resolve(host string, d *descriptor.Descriptor, hints Hints) Resolution {
	host = cdn.NormalizeHost(host)
	r := Resolution{
		Fallback: fallbackURL(host, d),
		Sources:  sourceSets(host, d, widthTable(d, hints)),
	}

	r.Width, r.Height = dimensions(d, hints)
	if d != nil && d.Filename != "" && r.Fallback != "" {
		r.Filename = displayFilename(d.Filename, r.Fallback)
	}

	return r
}

func fallbackURL(host string, d *descriptor.Descriptor) string {
	if d == nil {
		return ""
	}

	for _, format := range fallbackFormats {
		if set, ok := d.Variant(format); ok {
			for _, bp := range bestBreakpoints {
				if url := cdn.Normalize(host, set.URL(bp)); url != "" {
					return url
				}
			}
		}
	}

	for _, candidate := range d.DirectCandidates() {
		if url := cdn.Normalize(host, candidate); url != "" {
			return url
		}
	}

	return cdn.Normalize(host, d.FallbackURL)
}

// widthTable reads per-breakpoint widths from variant metadata, webp first,
// then jpeg, falling back to the hint override or DefaultWidths.
func widthTable(d *descriptor.Descriptor, hints Hints) Widths {
	if d != nil {
		for _, format := range []descriptor.Format{descriptor.WEBP, descriptor.JPEG} {
			set, ok := d.Variant(format)
			if !ok || !set.HasWidths() {
				continue
			}

			table := DefaultWidths
			if hints.WidthTable != nil {
				table = *hints.WidthTable
			}

			apply := func(bp descriptor.Breakpoint, slot *int64) {
				if width, ok := set.Width(bp); ok {
					*slot = width
				}
			}

			apply(descriptor.Small, &table.Small)
			apply(descriptor.Medium, &table.Medium)
			apply(descriptor.Large, &table.Large)
			apply(descriptor.Full, &table.Full)
			return table
		}
	}

	if hints.WidthTable != nil {
		return *hints.WidthTable
	}

	return DefaultWidths
}

func sourceSets(host string, d *descriptor.Descriptor, widths Widths) []SourceSet {
	if d == nil {
		return nil
	}

	sources := make([]SourceSet, 0, len(descriptor.Formats))
	for _, format := range descriptor.Formats {
		set, ok := d.Variant(format)
		if !ok {
			continue
		}

		entries := make([]string, 0, len(descriptor.Breakpoints))
		for _, bp := range descriptor.Breakpoints {
			url := cdn.Normalize(host, set.URL(bp))
			if url == "" {
				continue
			}

			entries = append(entries, url+" "+strconv.FormatInt(widths.Width(bp), 10)+"w")
		}

		if len(entries) == 0 {
			continue
		}

		sources = append(sources, SourceSet{
			Format: format,
			SrcSet: strings.Join(entries, ", "),
		})
	}

	return sources
}

func dimensions(d *descriptor.Descriptor, hints Hints) (width, height null.Int) {
	width = descriptor.ParseDimension(hints.Width)
	height = descriptor.ParseDimension(hints.Height)
	if d == nil {
		return
	}

	if !width.Valid {
		width = d.Width
	}

	if !height.Valid {
		height = d.Height
	}

	return
}

// displayFilename derives "base.ext" from an explicit base name and the
// chosen fallback URL, defaulting the extension to jpg.
func displayFilename(base, fallback string) string {
	ext := strings.TrimPrefix(path.Ext(strings.SplitN(fallback, "?", 2)[0]), ".")
	if ext == "" {
		ext = "jpg"
	}

	return base + "." + ext
}
