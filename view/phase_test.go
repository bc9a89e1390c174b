package view_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/optixflow/optixflow-go/view"
)

type manualWatcher struct {
	margin   int
	fire     func()
	detached bool
	err      error
}

func (w *manualWatcher) Watch(ctx context.Context, marginPx int, fn func()) (context.CancelFunc, error) {
	if w.err != nil {
		return nil, w.err
	}

	w.margin = marginPx
	w.fire = fn
	return func() { w.detached = true }, nil
}

func TestController_Eager(t *testing.T) {
	c := &view.Controller{Mode: view.Eager, Watcher: new(manualWatcher)}
	assert.Equal(t, view.Unobserved, c.Phase())
	c.Mount(context.Background())
	assert.Equal(t, view.InView, c.Phase())
}

func TestController_LazyWithoutWatcherFailsOpen(t *testing.T) {
	c := &view.Controller{Mode: view.Lazy}
	c.Mount(context.Background())
	assert.Equal(t, view.InView, c.Phase())
}

func TestController_LazyWatchErrorFailsOpen(t *testing.T) {
	c := &view.Controller{Mode: view.Lazy, Watcher: &manualWatcher{err: errors.New("unsupported")}}
	c.Mount(context.Background())
	assert.Equal(t, view.InView, c.Phase())
}

func TestController_LazyOneShot(t *testing.T) {
	watcher := new(manualWatcher)
	c := &view.Controller{Mode: view.Lazy, Watcher: watcher}
	c.Mount(context.Background())
	assert.Equal(t, view.Pending, c.Phase())
	assert.Equal(t, view.DefaultMargin, watcher.margin)

	watcher.fire()
	assert.Equal(t, view.InView, c.Phase())
	assert.True(t, watcher.detached)

	// monotonic: never reverts
	watcher.fire()
	assert.Equal(t, view.InView, c.Phase())
}

func TestController_UnmountKeepsPhase(t *testing.T) {
	watcher := new(manualWatcher)
	c := &view.Controller{Mode: view.Lazy, Watcher: watcher, Margin: 50}
	c.Mount(context.Background())
	assert.Equal(t, 50, watcher.margin)

	c.Unmount()
	assert.True(t, watcher.detached)
	assert.Equal(t, view.Pending, c.Phase())
}
