package layer

import (
	"github.com/jinzhu/copier"
)

// State is the copyable model state of a layer.
type State struct {
	Scale  float64
	Width  int
	Height int
}

// Presentation is the per-tick snapshot of a layer while it is animating: the model state with the
// animated property values overlaid. It references the origin layer's renderer without owning it.
type Presentation struct {
	Scale  float64
	Width  int
	Height int

	renderer Renderer
	model    ScaleLayer
}

// newPresentation snapshots the model state of l with the animated values of its properties overlaid.
func newPresentation(l *scaleLayer) (*Presentation, error) {
	overlaid := l.state
	for _, prop := range l.AnimatableProperties() {
		if v, ok := prop.Presentation(); ok && prop.KeyPath() == KeyScale {
			overlaid.Scale = v
		}
	}

	p := &Presentation{
		renderer: l.renderer,
		model:    l,
	}
	if err := copier.Copy(p, &overlaid); err != nil {
		return nil, err
	}
	return p, nil
}

// Renderer returns the origin layer's renderer. Releasing it is the origin layer's job.
func (p *Presentation) Renderer() Renderer {
	return p.renderer
}

// ModelLayer returns the layer this snapshot was taken from.
func (p *Presentation) ModelLayer() ScaleLayer {
	return p.model
}
