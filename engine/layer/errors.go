package layer

import "errors"

// ErrDetached is returned when an animation is added to a layer that no compositor drives.
var ErrDetached = errors.New("layer: not attached to a compositor")
