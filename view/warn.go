package view

import (
	"context"

	"github.com/jfk9w-go/flu/colf"
	"github.com/jfk9w-go/flu/logf"
	"github.com/jfk9w-go/flu/syncf"

	"github.com/optixflow/optixflow-go/descriptor"
)

// Deprecations tracks which legacy identifiers have already produced a
// warning, so that each distinct identifier warns exactly once per registry
// lifetime.
type Deprecations struct {
	mu   syncf.RWMutex
	seen colf.Set[descriptor.ID]
}

func (d *Deprecations) String() string {
	return "optix.deprecations"
}

// WarnLegacyLookup logs a one-time deprecation warning for a legacy numeric
// identifier lookup.
func (d *Deprecations) WarnLegacyLookup(ctx context.Context, id descriptor.ID) {
	if !d.mark(ctx, id) {
		return
	}

	logf.Get(d).Warnf(ctx, "image %s is referenced by numeric id; numeric lookups are deprecated, pass a descriptor instead", id)
}

func (d *Deprecations) mark(ctx context.Context, id descriptor.ID) bool {
	ctx, cancel := d.mu.Lock(ctx)
	defer cancel()
	if ctx.Err() != nil {
		return false
	}

	if d.seen[id] {
		return false
	}

	d.seen.Add(id)
	return true
}
