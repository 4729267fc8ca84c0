package renderer

import "errors"

var (
	// ErrInitialization wraps every failure while creating the device, pipeline or buffers.
	// A renderer that fails to initialize cannot draw and the application should exit.
	ErrInitialization = errors.New("renderer: initialization failed")

	// ErrFrameSkipped wraps every per-frame failure. The frame is dropped and the next
	// display tick tries again.
	ErrFrameSkipped = errors.New("renderer: frame skipped")

	// ErrDrawableUnavailable is returned when no drawable could be acquired within the retry bound.
	ErrDrawableUnavailable = errors.New("renderer: drawable unavailable")

	// ErrCommandEncoding is returned when a command encoder or command buffer could not be created.
	ErrCommandEncoding = errors.New("renderer: command encoding failed")
)
