package view

import (
	"strconv"
	"strings"

	null "gopkg.in/guregu/null.v3"

	"golang.org/x/exp/slices"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/optixflow/optixflow-go/cdn"
	"github.com/optixflow/optixflow-go/descriptor"
	"github.com/optixflow/optixflow-go/resolve"
)

// State is everything the renderer needs for one mount.
type State struct {
	Resolution resolve.Resolution
	Phase      Phase

	// ID is used for the placeholder thumbnail URL.
	ID descriptor.ID

	Alt   string
	Class string
}

// Renderer maps resolutions and visibility state into element trees.
type Renderer struct {
	Host     string
	Loading  LoadMode // rendered as the loading attribute, default Lazy
	Decoding string   // default "async"
}

// Render builds the element tree for a mount.
//
// Before the mount is in view only the low-resolution placeholder is
// rendered. In view, a plain img is used when the resolution carries no
// source sets, and a picture element otherwise, ordered most-efficient
// format first with the img itself carrying the universally decodable
// sources.
func (r Renderer) Render(state State) *html.Node {
	if state.Phase != InView {
		return r.img(state, cdn.ThumbnailURL(r.Host, state.ID), "")
	}

	res := state.Resolution
	if len(res.Sources) == 0 {
		return r.img(state, res.Fallback, "")
	}

	picture := element(atom.Picture)
	for _, source := range res.Sources {
		if source.Format == descriptor.JPEG {
			// JPEG rides on the img tag itself so that browsers which
			// do not understand source elements still load something.
			continue
		}

		node := element(atom.Source)
		setAttr(node, "type", source.Format.MIME())
		setAttr(node, "srcset", source.SrcSet)
		picture.AppendChild(node)
	}

	var inline string
	if i := slices.IndexFunc(res.Sources, func(s resolve.SourceSet) bool {
		return s.Format == descriptor.JPEG
	}); i >= 0 {
		inline = res.Sources[i].SrcSet
	}

	picture.AppendChild(r.img(state, res.Fallback, inline))
	return picture
}

// RenderHTML renders the element tree to markup.
func (r Renderer) RenderHTML(state State) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, r.Render(state)); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (r Renderer) img(state State, src, srcset string) *html.Node {
	img := element(atom.Img)
	// A descriptor without any usable candidate yields a blank fallback;
	// an attribute-less img is preferable to src="" which browsers treat
	// as a self-request.
	if src != "" {
		setAttr(img, "src", src)
	}

	if srcset != "" {
		setAttr(img, "srcset", srcset)
	}

	if state.Alt != "" {
		setAttr(img, "alt", state.Alt)
	}

	if state.Class != "" {
		setAttr(img, "class", state.Class)
	}

	setDimension(img, "width", state.Resolution.Width)
	setDimension(img, "height", state.Resolution.Height)

	loading := r.Loading
	if loading == "" {
		loading = Lazy
	}

	setAttr(img, "loading", string(loading))

	decoding := r.Decoding
	if decoding == "" {
		decoding = "async"
	}

	setAttr(img, "decoding", decoding)

	if state.Resolution.Filename != "" {
		setAttr(img, "data-filename", state.Resolution.Filename)
	}

	return img
}

func element(a atom.Atom) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
	}
}

func setAttr(node *html.Node, key, value string) {
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

func setDimension(node *html.Node, key string, value null.Int) {
	if value.Valid {
		setAttr(node, key, strconv.FormatInt(value.Int64, 10))
	}
}
