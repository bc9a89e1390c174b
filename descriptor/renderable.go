package descriptor

import "strings"

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Renderable reports whether any breakpoint slot contains a usable URL.
func (s SizeSet) Renderable() bool {
	for _, bp := range Breakpoints {
		if !blank(s.URL(bp)) {
			return true
		}
	}

	return false
}

// RenderableVariants reports whether any format in the map has at least one
// usable rendition URL.
func RenderableVariants(variants map[Format]SizeSet) bool {
	for _, format := range Formats {
		if set, ok := variants[format]; ok && set.Renderable() {
			return true
		}
	}

	return false
}

// Renderable reports whether the descriptor contains at least one usable URL.
// The same check applies to freshly fetched and caller-supplied descriptors.
func (d *Descriptor) Renderable() bool {
	if d == nil {
		return false
	}

	if RenderableVariants(d.Variants) {
		return true
	}

	for _, candidate := range d.DirectCandidates() {
		if !blank(candidate) {
			return true
		}
	}

	return !blank(d.FallbackURL)
}
