package resolve_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	null "gopkg.in/guregu/null.v3"

	"github.com/optixflow/optixflow-go/descriptor"
	"github.com/optixflow/optixflow-go/resolve"
)

const host = "https://img.example.com"

func TestResolve_DirectField(t *testing.T) {
	d := &descriptor.Descriptor{ImgURL: "/img/1.jpg"}
	assert.True(t, d.Renderable())

	r := resolve.Resolve(host, d, resolve.Hints{})
	assert.True(t, r.Renderable())
	assert.Equal(t, host+"/img/1.jpg", r.Fallback)
	assert.Empty(t, r.Sources)
}

func TestResolve_EmptyVariants(t *testing.T) {
	d := &descriptor.Descriptor{
		Variants: map[descriptor.Format]descriptor.SizeSet{
			descriptor.WEBP: {Small: "", Medium: "", Large: "", Full: ""},
		},
	}
	assert.False(t, d.Renderable())

	r := resolve.Resolve(host, d, resolve.Hints{})
	assert.False(t, r.Renderable())
	assert.Empty(t, r.Sources)
}

func TestResolve_SingleVariantSlot(t *testing.T) {
	d := &descriptor.Descriptor{
		Variants: map[descriptor.Format]descriptor.SizeSet{
			descriptor.WEBP: {Small: "/a.webp"},
		},
	}
	assert.True(t, d.Renderable())

	r := resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, host+"/a.webp", r.Fallback)
	assert.Equal(t, []resolve.SourceSet{{
		Format: descriptor.WEBP,
		SrcSet: host + "/a.webp 640w",
	}}, r.Sources)
}

func TestResolve_FallbackPreference(t *testing.T) {
	// webp medium beats everything else
	d := &descriptor.Descriptor{
		Variants: map[descriptor.Format]descriptor.SizeSet{
			descriptor.AVIF: {Medium: "/m.avif"},
			descriptor.WEBP: {Medium: "/m.webp", Large: "/l.webp"},
			descriptor.JPEG: {Medium: "/m.jpg"},
		},
		ImgURL: "/direct.jpg",
	}
	r := resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, host+"/m.webp", r.Fallback)

	// without webp medium, webp large is still preferred over jpeg
	d.Variants[descriptor.WEBP] = descriptor.SizeSet{Large: "/l.webp"}
	r = resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, host+"/l.webp", r.Fallback)

	// without webp at all, jpeg medium wins over avif
	delete(d.Variants, descriptor.WEBP)
	r = resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, host+"/m.jpg", r.Fallback)

	// a lone full-size slot in the least preferred format is still found
	d.Variants = map[descriptor.Format]descriptor.SizeSet{
		descriptor.AVIF: {Full: "/f.avif"},
	}
	r = resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, host+"/f.avif", r.Fallback)

	// direct fields win only when no variant has a slot
	d.Variants = nil
	r = resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, host+"/direct.jpg", r.Fallback)

	// the single fallback candidate is last
	d.ImgURL = ""
	d.FallbackURL = "/last.jpg"
	r = resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, host+"/last.jpg", r.Fallback)
}

func TestResolve_SourceSetOrderAndOmission(t *testing.T) {
	d := &descriptor.Descriptor{
		Variants: map[descriptor.Format]descriptor.SizeSet{
			descriptor.AVIF: {Small: "/s.avif", Full: "/f.avif"},
			descriptor.WEBP: {},
			descriptor.JPEG: {Medium: "/m.jpg"},
		},
	}

	r := resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, []resolve.SourceSet{
		{Format: descriptor.AVIF, SrcSet: host + "/s.avif 640w, " + host + "/f.avif 2560w"},
		{Format: descriptor.JPEG, SrcSet: host + "/m.jpg 1024w"},
	}, r.Sources)
}

func TestResolve_WidthTableFromVariantMeta(t *testing.T) {
	d := &descriptor.Descriptor{
		Variants: map[descriptor.Format]descriptor.SizeSet{
			descriptor.WEBP: {
				Small:      "/s.webp",
				Medium:     "/m.webp",
				SmallWidth: null.IntFrom(320),
			},
		},
	}

	r := resolve.Resolve(host, d, resolve.Hints{})
	// declared width for sm, default for md
	assert.Equal(t, host+"/s.webp 320w, "+host+"/m.webp 1024w", r.Sources[0].SrcSet)
}

func TestResolve_Dimensions(t *testing.T) {
	d := &descriptor.Descriptor{
		ImgURL: "/img/1.jpg",
		Width:  null.IntFrom(800),
		Height: null.IntFrom(600),
	}

	r := resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, null.IntFrom(800), r.Width)
	assert.Equal(t, null.IntFrom(600), r.Height)

	// explicit hints take precedence, parsed permissively
	r = resolve.Resolve(host, d, resolve.Hints{Width: "400", Height: 300})
	assert.Equal(t, null.IntFrom(400), r.Width)
	assert.Equal(t, null.IntFrom(300), r.Height)

	// garbage hints are ignored, not errors
	r = resolve.Resolve(host, d, resolve.Hints{Width: "40em"})
	assert.Equal(t, null.IntFrom(800), r.Width)

	// nothing declared anywhere: stays unset
	r = resolve.Resolve(host, &descriptor.Descriptor{ImgURL: "/img/1.jpg"}, resolve.Hints{})
	assert.False(t, r.Width.Valid)
	assert.False(t, r.Height.Valid)
}

func TestResolve_Filename(t *testing.T) {
	d := &descriptor.Descriptor{ImgURL: "/img/photo-1.webp", Filename: "photo"}
	r := resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, "photo.webp", r.Filename)

	// extension defaults to jpg when undetermined
	d = &descriptor.Descriptor{ImgURL: "/img/photo-1", Filename: "photo"}
	r = resolve.Resolve(host, d, resolve.Hints{})
	assert.Equal(t, "photo.jpg", r.Filename)

	// no explicit base filename, no derived filename
	d = &descriptor.Descriptor{ImgURL: "/img/photo-1.webp"}
	r = resolve.Resolve(host, d, resolve.Hints{})
	assert.Empty(t, r.Filename)
}

func TestResolve_NilDescriptor(t *testing.T) {
	r := resolve.Resolve(host, nil, resolve.Hints{})
	assert.False(t, r.Renderable())
}
