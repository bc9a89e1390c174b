package resolve

import (
	"context"
	"time"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/backoff"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/syncf"
	"github.com/pkg/errors"

	"github.com/optixflow/optixflow-go/descriptor"
	"github.com/optixflow/optixflow-go/fetch"
)

// DefaultAttempts is the refresh attempt ceiling per mount.
const DefaultAttempts = 5

// DefaultDelay is the spacing between refresh attempts.
const DefaultDelay = 3 * time.Second

var errNotReady = errors.New("not renderable yet")

// Fetcher re-fetches descriptors with cache bypass.
type Fetcher interface {
	Descriptor(ctx context.Context, id descriptor.ID, opts ...fetch.Option) (*descriptor.Descriptor, error)
}

// Poller models CDN-side asynchronous transcoding which may complete after
// the initial lookup: while a descriptor is neither failed nor renderable it
// re-fetches with cache bypass, at most Attempts times, Delay apart. A failed
// status or the ceiling stops polling permanently for this mount.
type Poller struct {
	Fetcher  Fetcher
	Attempts int           // default DefaultAttempts
	Delay    time.Duration // default DefaultDelay

	// OnUpdate receives every fetched descriptor, including non-renderable
	// ones. It is never called after cancellation.
	OnUpdate func(*descriptor.Descriptor)
}

func (p *Poller) String() string {
	return "optix.poller"
}

// Needed reports whether polling should start for a descriptor at all.
func (p *Poller) Needed(d *descriptor.Descriptor) bool {
	return d != nil && !d.Failed() && !d.Renderable()
}

// Start launches the refresh loop in a goroutine. The returned cancel
// function stops the loop and waits for it to exit; it must be called on
// teardown or whenever the identifier changes, so that a stale response
// cannot be delivered into a detached state.
func (p *Poller) Start(ctx context.Context, id descriptor.ID, opts ...fetch.Option) context.CancelFunc {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	delay := p.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	opts = append(opts, fetch.BypassCache())
	return syncf.GoSync(ctx, func(ctx context.Context) {
		retry := backoff.Retry{
			Retries: attempts - 1,
			Backoff: backoff.Const(0),
			Body: func(ctx context.Context) error {
				if err := flu.Sleep(ctx, delay); err != nil {
					return err
				}

				return p.refresh(ctx, id, opts)
			},
		}

		err := retry.Do(ctx)
		if err != nil && !syncf.IsContextRelated(err) {
			logf.Get(p).Warnf(ctx, "refresh %s gave up: %v", id, err)
		}
	})
}

func (p *Poller) refresh(ctx context.Context, id descriptor.ID, opts []fetch.Option) error {
	d, err := p.Fetcher.Descriptor(ctx, id, opts...)
	if err != nil {
		if syncf.IsContextRelated(err) {
			return err
		}

		logf.Get(p).Warnf(ctx, "refresh %s: %v", id, err)
		return errNotReady
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if p.OnUpdate != nil {
		p.OnUpdate(d)
	}

	if d.Failed() || d.Renderable() {
		return nil
	}

	return errNotReady
}
