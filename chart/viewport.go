package chart

import "context"

// Viewport holds the width of the host surface and the scene computed for
// it. It is not safe for concurrent use; the owner is expected to confine
// it to the goroutine that receives layout notifications.
type Viewport struct {
	dataset Dataset
	width   float64
	opts    []Option
	scene   Scene
}

// NewViewport returns a viewport of zero width, the state before the first
// layout measurement.
func NewViewport(d Dataset, opts ...Option) *Viewport {
	v := &Viewport{dataset: d, opts: opts}
	v.recompute()
	return v
}

func (v *Viewport) recompute() {
	v.scene = Render(v.dataset, v.width, v.opts...)
}

// Width returns the last measured width.
func (v *Viewport) Width() float64 {
	return v.width
}

// Scene returns the scene for the current dataset and width.
func (v *Viewport) Scene() Scene {
	return v.scene
}

// Resize stores a new width and recomputes the whole scene. changed reports
// whether the width differs from the previous one.
func (v *Viewport) Resize(width float64) (sc Scene, changed bool) {
	width = max(width, 0)
	changed = width != v.width
	v.width = width
	v.recompute()
	return v.scene, changed
}

// SetDataset replaces the dataset and recomputes the scene.
func (v *Viewport) SetDataset(d Dataset) Scene {
	v.dataset = d
	v.recompute()
	return v.scene
}

// SetOptions replaces the render options and recomputes the scene.
func (v *Viewport) SetOptions(opts ...Option) Scene {
	v.opts = opts
	v.recompute()
	return v.scene
}

// Observe resizes the viewport for every width received on widths and
// passes the new scene to fn. It returns when ctx is done or widths is
// closed, and fn is never invoked after Observe returns.
func (v *Viewport) Observe(ctx context.Context, widths <-chan float64, fn func(Scene)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case w, ok := <-widths:
			if !ok {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sc, _ := v.Resize(w)
			fn(sc)
		}
	}
}
