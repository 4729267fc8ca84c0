package compositor

import (
	"time"
)

// PropertyState tags whether a property is showing its model value or an animated one.
type PropertyState int

const (
	// PropertyIdle means no animation is attached and the model value is displayed.
	PropertyIdle PropertyState = iota

	// PropertyAnimating means at least one animation is attached.
	PropertyAnimating
)

func (s PropertyState) String() string {
	if s == PropertyAnimating {
		return "animating"
	}
	return "idle"
}

// animationEntry is one attached animation.
type animationEntry struct {
	key  string
	anim Animation

	// ready is set once every explicit transaction the animation was added in has committed.
	ready   bool
	started bool
	begin   time.Duration
	done    bool

	release func(finished bool)
}

func (e *animationEntry) stop(finished bool) {
	if e.release != nil {
		r := e.release
		e.release = nil
		r(finished)
	}
}

// Property is an animatable float value with a model value and, while animations are attached, a
// presentation value. The most recently attached animation determines the presentation value.
type Property struct {
	keyPath  string
	model    float64
	entries  []*animationEntry
	onChange func(keyPath string)

	presentation    float64
	hasPresentation bool
}

// NewProperty creates an idle property.
//
// Parameters:
//   - keyPath: the name animations target, e.g. "scale"
//   - initial: the initial model value
//   - onChange: called whenever the displayed value may have changed; may be nil
//
// Returns:
//   - *Property: the property
func NewProperty(keyPath string, initial float64, onChange func(keyPath string)) *Property {
	return &Property{
		keyPath:  keyPath,
		model:    initial,
		onChange: onChange,
	}
}

// KeyPath returns the property name.
func (p *Property) KeyPath() string {
	return p.keyPath
}

// Model returns the last value written with SetModel.
func (p *Property) Model() float64 {
	return p.model
}

// SetModel writes the model value. It never attaches an animation on its own.
func (p *Property) SetModel(v float64) {
	if p.model == v {
		return
	}
	p.model = v
	p.notify()
}

// Presentation returns the animated value computed at the last tick.
//
// Returns:
//   - float64: the animated value
//   - bool: false if no animation has produced a value yet
func (p *Property) Presentation() (float64, bool) {
	return p.presentation, p.hasPresentation
}

// Value returns the displayed value: the presentation value while animating, else the model.
func (p *Property) Value() float64 {
	if p.hasPresentation {
		return p.presentation
	}
	return p.model
}

// DisplayedValue returns the value on screen, or the value the next tick will show when the most
// recently attached animation has not started yet.
func (p *Property) DisplayedValue() float64 {
	if n := len(p.entries); n > 0 {
		if e := p.entries[n-1]; !e.started {
			return e.anim.Evaluate(0)
		}
	}
	return p.Value()
}

// State reports whether any animation is attached.
func (p *Property) State() PropertyState {
	if len(p.entries) > 0 {
		return PropertyAnimating
	}
	return PropertyIdle
}

// AnimationKeys returns the keys of the attached animations in attachment order.
func (p *Property) AnimationKeys() []string {
	keys := make([]string, 0, len(p.entries))
	for _, e := range p.entries {
		keys = append(keys, e.key)
	}
	return keys
}

// Animation returns the attached animation for key, resolved with its transaction's duration and timing.
func (p *Property) Animation(key string) (Animation, bool) {
	for _, e := range p.entries {
		if e.key == key {
			return e.anim, true
		}
	}
	return nil, false
}

// RemoveAnimation detaches the animation under key. Its stop delegate runs with finished=false.
//
// Parameters:
//   - key: the animation key
//
// Returns:
//   - bool: true if an animation was removed
func (p *Property) RemoveAnimation(key string) bool {
	for i, e := range p.entries {
		if e.key != key {
			continue
		}
		p.entries = append(p.entries[:i], p.entries[i+1:]...)
		p.detached()
		e.stop(false)
		return true
	}
	return false
}

// RemoveAll detaches every animation, reverting to the model value.
func (p *Property) RemoveAll() {
	removed := p.entries
	p.entries = nil
	p.detached()
	for _, e := range removed {
		e.stop(false)
	}
}

// attach adds an entry, replacing any entry with the same key.
func (p *Property) attach(e *animationEntry) {
	var replaced *animationEntry
	for i, old := range p.entries {
		if old.key == e.key {
			replaced = old
			p.entries = append(p.entries[:i], p.entries[i+1:]...)
			break
		}
	}
	p.entries = append(p.entries, e)
	if replaced != nil {
		replaced.stop(false)
	}
}

// advance evaluates the attached animations at now and returns the entries that finished. Finished
// entries that are removed on completion are detached before returning.
func (p *Property) advance(now time.Duration) []*animationEntry {
	if len(p.entries) == 0 {
		p.settle()
		return nil
	}

	var (
		finished []*animationEntry
		value    float64
		shown    bool
	)
	for _, e := range p.entries {
		if !e.ready {
			continue
		}
		if !e.started {
			e.started = true
			e.begin = now
		}

		fraction := 1.0
		if d := e.anim.AnimationDuration(); d > 0 {
			fraction = min(float64(now-e.begin)/float64(d), 1)
		}
		if fraction >= 1 && !e.done {
			e.done = true
			finished = append(finished, e)
		}

		if e.done {
			value = e.anim.FinalValue()
		} else {
			value = e.anim.Evaluate(fraction)
		}
		shown = true
	}

	kept := p.entries[:0]
	for _, e := range p.entries {
		if !e.done || !e.anim.IsRemovedOnCompletion() {
			kept = append(kept, e)
		}
	}
	clear(p.entries[len(kept):])
	p.entries = kept

	if len(p.entries) == 0 || !shown {
		p.settle()
		return finished
	}
	if !p.hasPresentation || p.presentation != value {
		p.presentation = value
		p.hasPresentation = true
		p.notify()
	}
	return finished
}

// detached requests a redraw after an entry is removed outside a tick.
func (p *Property) detached() {
	if len(p.entries) > 0 {
		p.notify()
		return
	}
	p.settle()
}

// settle drops the presentation value once nothing is attached.
func (p *Property) settle() {
	if len(p.entries) > 0 || !p.hasPresentation {
		return
	}
	changed := p.presentation != p.model
	p.hasPresentation = false
	p.presentation = 0
	if changed {
		p.notify()
	}
}

func (p *Property) notify() {
	if p.onChange != nil {
		p.onChange(p.keyPath)
	}
}
