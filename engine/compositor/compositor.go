package compositor

import (
	"fmt"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-scale/common"
)

// DefaultAnimationDuration is the duration of implicit animations when none is configured.
const DefaultAnimationDuration = 250 * time.Millisecond

// Layer is a compositor-driven layer. The compositor advances its properties every tick, tells it
// whether a presentation copy is needed and asks it to draw when it needs display.
type Layer interface {
	// AnimatableProperties returns the properties the compositor advances.
	AnimatableProperties() []*Property

	// UpdatePresentation is called after the properties are advanced. animating is true while any
	// property has an animated value.
	UpdatePresentation(animating bool)

	// NeedsDisplay reports whether Display should be called this tick.
	NeedsDisplay() bool

	// Display draws the layer.
	Display()
}

// Compositor owns the transaction stack and the frame tick. It is not safe for concurrent use; every
// call must come from the thread running the frame loop.
type Compositor interface {
	// Now returns the compositor clock time.
	//
	// Returns:
	//   - time.Duration: the current clock time
	Now() time.Duration

	// AddLayer registers a layer to be ticked. Adding a layer twice has no effect.
	//
	// Parameters:
	//   - l: the layer
	AddLayer(l Layer)

	// RemoveLayer stops ticking a layer.
	//
	// Parameters:
	//   - l: the layer
	RemoveLayer(l Layer)

	// Begin opens an explicit transaction. Transactions nest.
	Begin()

	// Commit closes the innermost transaction. Animations added while explicit transactions were open
	// start at the first tick after the outermost one commits.
	//
	// Returns:
	//   - error: ErrNoTransaction if no transaction is open
	Commit() error

	// SetAnimationDuration sets the duration for animations added in the current transaction.
	//
	// Parameters:
	//   - d: the duration
	SetAnimationDuration(d time.Duration)

	// AnimationDuration returns the duration of the innermost transaction that sets one, else the default.
	//
	// Returns:
	//   - time.Duration: the duration
	AnimationDuration() time.Duration

	// SetTimingFunction sets the timing function for animations added in the current transaction.
	//
	// Parameters:
	//   - tf: the timing function
	SetTimingFunction(tf TimingFunction)

	// TimingFunction returns the timing function of the innermost transaction that sets one, else the default.
	//
	// Returns:
	//   - TimingFunction: the timing function
	TimingFunction() TimingFunction

	// SetCompletion sets the callback run once the current transaction has committed and every
	// animation added during it has stopped.
	//
	// Parameters:
	//   - fn: the callback, or nil to clear it
	SetCompletion(fn func())

	// SetDisableActions suppresses implicit actions for property changes in the current transaction.
	//
	// Parameters:
	//   - disable: true to suppress actions
	SetDisableActions(disable bool)

	// DisableActions reports whether implicit actions are suppressed.
	//
	// Returns:
	//   - bool: true if the innermost transaction that sets it disables actions
	DisableActions() bool

	// AddAnimation attaches an animation to a property in the current transaction, opening the implicit
	// transaction if none is open. An existing animation under key is replaced.
	//
	// Parameters:
	//   - p: the property to animate
	//   - anim: the animation, whose key path must match the property
	//   - key: the animation key
	//
	// Returns:
	//   - error: ErrInvalidAnimation if the animation fails validation or targets another property
	AddAnimation(p *Property, anim Animation, key string) error

	// Tick runs one display frame: commits the implicit transaction, advances every layer to Now,
	// displays the layers that need it and then fires stop delegates and transaction completions.
	Tick()
}

var _ Compositor = &compositor{}

type compositor struct {
	clock           Clock
	defaultDuration time.Duration
	defaultTiming   TimingFunction

	layers []Layer
	stack  []*transaction
}

// NewCompositor creates a compositor with no layers and no open transaction.
//
// Parameters:
//   - opts: functional options for the clock and transaction defaults
//
// Returns:
//   - Compositor: the compositor
func NewCompositor(opts ...CompositorBuilderOption) Compositor {
	c := &compositor{
		defaultDuration: DefaultAnimationDuration,
		defaultTiming:   Linear,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = NewSystemClock()
	}
	return c
}

func (c *compositor) Now() time.Duration {
	return c.clock.Now()
}

func (c *compositor) AddLayer(l Layer) {
	if l == nil || slices.Contains(c.layers, l) {
		return
	}
	c.layers = append(c.layers, l)
}

func (c *compositor) RemoveLayer(l Layer) {
	c.layers = slices.DeleteFunc(c.layers, func(x Layer) bool {
		return x == l
	})
}

func (c *compositor) Begin() {
	c.stack = append(c.stack, newTransaction(false))
}

func (c *compositor) Commit() error {
	if len(c.stack) == 0 {
		common.Logger().Warn("commit without open transaction")
		return ErrNoTransaction
	}
	tx := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]

	if c.explicitDepth() == 0 {
		for _, e := range tx.uncommitted {
			e.ready = true
		}
	} else {
		outer := c.stack[len(c.stack)-1]
		outer.uncommitted = append(outer.uncommitted, tx.uncommitted...)
	}
	tx.uncommitted = nil
	tx.group.commit()
	return nil
}

func (c *compositor) SetAnimationDuration(d time.Duration) {
	c.current().duration = &d
}

func (c *compositor) AnimationDuration() time.Duration {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if d := c.stack[i].duration; d != nil {
			return *d
		}
	}
	return c.defaultDuration
}

func (c *compositor) SetTimingFunction(tf TimingFunction) {
	c.current().timing = &tf
}

func (c *compositor) TimingFunction() TimingFunction {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if tf := c.stack[i].timing; tf != nil {
			return *tf
		}
	}
	return c.defaultTiming
}

func (c *compositor) SetCompletion(fn func()) {
	c.current().group.completion = fn
}

func (c *compositor) SetDisableActions(disable bool) {
	c.current().noActions = &disable
}

func (c *compositor) DisableActions() bool {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if b := c.stack[i].noActions; b != nil {
			return *b
		}
	}
	return false
}

func (c *compositor) AddAnimation(p *Property, anim Animation, key string) error {
	if p == nil || anim == nil {
		return fmt.Errorf("%w: nil property or animation", ErrInvalidAnimation)
	}
	if err := anim.Validate(); err != nil {
		return err
	}
	if anim.TargetKeyPath() != p.KeyPath() {
		return fmt.Errorf("%w: animation targets %q, property is %q", ErrInvalidAnimation, anim.TargetKeyPath(), p.KeyPath())
	}

	tx := c.current()
	resolved := anim.resolve(c.AnimationDuration(), c.TimingFunction())
	groups := make([]*completionGroup, 0, len(c.stack))
	for _, t := range c.stack {
		t.group.add()
		groups = append(groups, t.group)
	}

	e := &animationEntry{
		key:   key,
		anim:  resolved,
		ready: c.explicitDepth() == 0,
	}
	e.release = func(finished bool) {
		common.Logger().Info("animation stopped", "key", key, "keyPath", p.KeyPath(), "finished", finished)
		resolved.stopped(finished)
		for _, g := range slices.Backward(groups) {
			g.done()
		}
	}
	if !e.ready {
		tx.uncommitted = append(tx.uncommitted, e)
	}

	common.Logger().Info("animation added",
		"key", key,
		"keyPath", p.KeyPath(),
		"duration", resolved.AnimationDuration(),
		"implicit", tx.implicit,
	)
	p.attach(e)
	return nil
}

func (c *compositor) Tick() {
	if len(c.stack) == 1 && c.stack[0].implicit {
		_ = c.Commit()
	} else if len(c.stack) > 0 {
		common.Logger().Debug("tick with open transaction", "depth", len(c.stack))
	}

	now := c.clock.Now()
	layers := slices.Clone(c.layers)
	var finished []*animationEntry
	for _, l := range layers {
		animating := false
		for _, p := range l.AnimatableProperties() {
			finished = append(finished, p.advance(now)...)
			if _, ok := p.Presentation(); ok {
				animating = true
			}
		}
		l.UpdatePresentation(animating)
		if l.NeedsDisplay() {
			l.Display()
		}
	}

	for _, e := range finished {
		e.stop(true)
	}
}

// current returns the innermost transaction, opening the implicit one when none is open.
func (c *compositor) current() *transaction {
	if len(c.stack) == 0 {
		c.stack = append(c.stack, newTransaction(true))
	}
	return c.stack[len(c.stack)-1]
}

func (c *compositor) explicitDepth() int {
	n := 0
	for _, t := range c.stack {
		if !t.implicit {
			n++
		}
	}
	return n
}
