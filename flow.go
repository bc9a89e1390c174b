package optixflow

import (
	"context"
	"net/http"
	"time"

	"github.com/jfk9w-go/flu/logf"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	null "gopkg.in/guregu/null.v3"

	"github.com/optixflow/optixflow-go/cdn"
	"github.com/optixflow/optixflow-go/descriptor"
	"github.com/optixflow/optixflow-go/fetch"
	"github.com/optixflow/optixflow-go/resolve"
	"github.com/optixflow/optixflow-go/view"
)

// Fetcher is the descriptor lookup capability used for legacy sources.
type Fetcher interface {
	Descriptor(ctx context.Context, id descriptor.ID, opts ...fetch.Option) (*descriptor.Descriptor, error)
	Host() string
}

// Options adjusts a single Resolve or Render call.
type Options struct {
	Hints  resolve.Hints
	Config *Config // per-call optimization override
	Alt    string
	Class  string

	// Controller supplies the mount's visibility state. The caller owns
	// its lifecycle (Mount on attach, Unmount on teardown). When nil the
	// image renders as in view.
	Controller *view.Controller

	// ProbeDimensions fetches the chosen fallback rendition and decodes
	// its intrinsic dimensions when neither the hints nor the descriptor
	// declare any. Probe failures are logged and leave dimensions unset.
	ProbeDimensions bool

	// Refresh enables the bounded refresh poller when the fetched
	// descriptor is not yet renderable. OnUpdate receives re-fetched
	// descriptors; the returned cancel from Resolve must be called on
	// teardown. Attempts and delay default to the resolve package
	// constants. Refresh applies to Resolve only: Render is one-shot and
	// ignores it.
	Refresh         bool
	RefreshAttempts int
	RefreshDelay    time.Duration
	OnUpdate        func(*descriptor.Descriptor)
}

// Flow ties the fetcher, the resolver, the visibility controller and the
// renderer together. The zero value is not usable; construct with NewFlow.
type Flow struct {
	client       Fetcher
	config       *Config
	renderer     view.Renderer
	watcher      view.Watcher
	deprecations view.Deprecations
	poller       resolve.Poller
	prober       resolve.Prober
}

// NewFlow creates a Flow around a descriptor client. config may be nil, in
// which case the process-level and host-environment sources still apply.
// watcher may be nil: lazy mounts then load eagerly (fail open).
func NewFlow(client Fetcher, config *Config, watcher view.Watcher) *Flow {
	return &Flow{
		client:   client,
		config:   config,
		renderer: view.Renderer{Host: client.Host()},
		watcher:  watcher,
		poller:   resolve.Poller{Fetcher: client},
		prober:   resolve.Prober{Client: http.DefaultClient},
	}
}

func (f *Flow) String() string {
	return "optix.flow"
}

// Resolve derives the Resolution for a source. For legacy sources the
// descriptor is fetched (with the one-time deprecation warning); fetch
// failures degrade to an empty Resolution rather than an error, so callers
// can still render a placeholder. The returned cancel stops the refresh
// poller when one was started and is never nil.
func (f *Flow) Resolve(ctx context.Context, source Source, opts Options) (resolve.Resolution, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})

	var d *descriptor.Descriptor
	switch source := source.(type) {
	case LegacyLookup:
		f.deprecations.WarnLegacyLookup(ctx, source.ID)
		fetched, err := f.client.Descriptor(ctx, source.ID)
		switch {
		case errors.Is(err, fetch.ErrInvalidID):
			return resolve.Resolution{}, cancel, err
		case err != nil:
			if ctx.Err() != nil {
				return resolve.Resolution{}, cancel, ctx.Err()
			}

			logf.Get(f).Warnf(ctx, "resolve %s: %v", source.ID, err)
			return resolve.Resolution{}, cancel, nil
		}

		d = fetched
		if opts.Refresh && f.poller.Needed(d) {
			poller := f.poller
			poller.Attempts = opts.RefreshAttempts
			poller.Delay = opts.RefreshDelay
			poller.OnUpdate = opts.OnUpdate
			cancel = poller.Start(ctx, source.ID)
		}

	case DirectSource:
		d = source.effective()

	default:
		return resolve.Resolution{}, cancel, errors.Errorf("unsupported source %T", source)
	}

	resolution := resolve.Resolve(f.client.Host(), d, opts.Hints)
	if opts.ProbeDimensions && resolution.Renderable() && !resolution.Width.Valid && !resolution.Height.Valid {
		if width, height, err := f.prober.Probe(ctx, resolution.Fallback); err != nil {
			logf.Get(f).Warnf(ctx, "probe %s: %v", resolution.Fallback, err)
		} else {
			resolution.Width = null.IntFrom(width)
			resolution.Height = null.IntFrom(height)
		}
	}

	if config := ResolveConfig(Static(opts.Config), Static(f.config)); config != nil {
		f.optimize(&resolution, config)
	}

	return resolution, cancel, nil
}

// NewController creates a lazy visibility controller bound to this Flow's
// watcher. Callers Mount it on attach, pass it via Options.Controller on each
// Render, and Unmount it on teardown.
func (f *Flow) NewController() *view.Controller {
	return &view.Controller{Mode: view.Lazy, Watcher: f.watcher}
}

// Render resolves a source and renders its element tree in one shot.
// Lazy loading applies only to legacy sources carrying an identifier: the
// placeholder needs one for the thumbnail URL. Data problems never fail the
// render path; the worst case is a placeholder element.
func (f *Flow) Render(ctx context.Context, source Source, opts Options) (*html.Node, error) {
	// A refresh poller cannot outlive a one-shot render: callers who need
	// updates use Resolve, which hands them the cancel.
	opts.Refresh = false
	opts.OnUpdate = nil

	resolution, cancel, err := f.Resolve(ctx, source, opts)
	defer cancel()
	if err != nil {
		return nil, err
	}

	state := view.State{
		Resolution: resolution,
		Phase:      view.InView,
		Alt:        opts.Alt,
		Class:      opts.Class,
	}

	if legacy, ok := source.(LegacyLookup); ok {
		state.ID = legacy.ID
		if opts.Controller != nil {
			state.Phase = opts.Controller.Phase()
		}

		if !resolution.Renderable() {
			// No usable source yet: show the thumbnail until a refresh
			// brings a renderable descriptor.
			state.Phase = view.Pending
		}
	}

	return f.renderer.Render(state), nil
}

func (f *Flow) optimize(resolution *resolve.Resolution, config *Config) {
	opt := config.Optimization()
	resolution.Fallback = cdn.OptimizeURL(resolution.Fallback, opt)
	for i, source := range resolution.Sources {
		entries := splitSrcSet(source.SrcSet)
		for j, entry := range entries {
			entries[j] = optimizeEntry(entry, opt)
		}

		resolution.Sources[i].SrcSet = joinSrcSet(entries)
	}
}
