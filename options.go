package voxels

import "runtime"

// GridOptions configures grid construction. A nil *GridOptions anywhere one
// is accepted means DefaultGridOptions().
type GridOptions struct {
	// MaxExtent bounds the largest of width/depth/height a grid may have.
	// 0 means unlimited. Mirrors the original library's GRID_LIMIT guard.
	MaxExtent int
}

// DefaultGridOptions returns the zero-value defaults: no size limit.
func DefaultGridOptions() *GridOptions {
	return &GridOptions{MaxExtent: 0}
}

func (o *GridOptions) orDefault() *GridOptions {
	if o == nil {
		return DefaultGridOptions()
	}
	return o
}

// RunOptions configures a polygonization run.
type RunOptions struct {
	// Workers is the number of goroutines dispatching blocks within a
	// level. 0 means runtime.NumCPU().
	Workers int
}

// DefaultRunOptions returns Workers: runtime.NumCPU().
func DefaultRunOptions() *RunOptions {
	return &RunOptions{Workers: runtime.NumCPU()}
}

func (o *RunOptions) orDefault() *RunOptions {
	if o == nil {
		return DefaultRunOptions()
	}
	if o.Workers <= 0 {
		return &RunOptions{Workers: runtime.NumCPU()}
	}
	return o
}
