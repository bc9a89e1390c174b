// Package view contains the load-visibility state machine and the element
// tree renderer.
package view

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/jfk9w-go/flu/logf"
)

// Phase is the visibility state of one mounted image.
// Transitions are monotonic: a phase never moves backwards.
type Phase int

const (
	// Unobserved means no viewport check has been attached yet.
	Unobserved Phase = iota
	// Pending means a viewport check is attached and has not fired.
	Pending
	// InView means loading should begin.
	InView
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case InView:
		return "in-view"
	default:
		return "unobserved"
	}
}

// LoadMode selects eager or lazy loading.
type LoadMode string

const (
	Eager LoadMode = "eager"
	Lazy  LoadMode = "lazy"
)

// DefaultMargin is the proximity margin around the element in pixels.
const DefaultMargin = 200

// Watcher is the viewport-intersection capability provided by the execution
// environment. fn must be invoked on the first qualifying intersection; the
// returned cancel detaches the watch.
type Watcher interface {
	Watch(ctx context.Context, marginPx int, fn func()) (context.CancelFunc, error)
}

// Controller owns the visibility state of a single mount.
type Controller struct {
	Mode    LoadMode
	Watcher Watcher
	Margin  int // default DefaultMargin

	id     string
	idOnce sync.Once
	mu     sync.Mutex
	phase  Phase
	cancel context.CancelFunc
}

func (c *Controller) String() string {
	c.idOnce.Do(func() { c.id = uuid.Must(uuid.NewV4()).String()[:8] })
	return "optix.view." + c.id
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Mount attaches the viewport check. Eager mode or a missing Watcher
// capability advances straight to InView: an image must never be stuck
// unloaded because intersection detection is unavailable.
func (c *Controller) Mount(ctx context.Context) {
	if c.Mode != Lazy || c.Watcher == nil {
		c.advance(ctx, InView)
		return
	}

	c.advance(ctx, Pending)
	margin := c.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}

	cancel, err := c.Watcher.Watch(ctx, margin, func() {
		c.advance(ctx, InView)
		c.Unmount()
	})
	if err != nil {
		logf.Get(c).Warnf(ctx, "watch failed, loading eagerly: %v", err)
		c.advance(ctx, InView)
		return
	}

	c.mu.Lock()
	c.cancel = cancel
	already := c.phase == InView
	c.mu.Unlock()

	// The watcher may have fired synchronously before cancel was recorded.
	if already {
		cancel()
	}
}

// Unmount detaches the viewport check. The phase is retained.
func (c *Controller) Unmount() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (c *Controller) advance(ctx context.Context, next Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if next <= c.phase {
		return
	}

	logf.Get(c).Debugf(ctx, "%s -> %s", c.phase, next)
	c.phase = next
}
