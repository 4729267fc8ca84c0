package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyE   = 69  // E key (ASCII), triggers the transaction toggle
	KeyK   = 75  // K key (ASCII), triggers the keyframe animation
	KeyEsc = 256 // Escape key (GLFW)
)
