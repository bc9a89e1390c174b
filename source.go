package optixflow

import (
	"github.com/optixflow/optixflow-go/descriptor"
)

// Source is the tagged image source variant, chosen once at entry and
// dispatched to the matching resolution path.
type Source interface {
	source()
}

// LegacyLookup references an image by its numeric handle; the descriptor is
// fetched from the CDN. This path is deprecated and warns once per distinct
// identifier.
type LegacyLookup struct {
	ID descriptor.ID
}

func (LegacyLookup) source() {}

// DirectSource supplies the descriptor (or a bare URL) without any lookup.
type DirectSource struct {
	Descriptor *descriptor.Descriptor
	URL        string
}

func (DirectSource) source() {}

// effective returns the descriptor for a direct source, wrapping a bare URL
// when none was supplied.
func (s DirectSource) effective() *descriptor.Descriptor {
	if s.Descriptor != nil {
		return s.Descriptor
	}

	return &descriptor.Descriptor{ImgURL: s.URL}
}
