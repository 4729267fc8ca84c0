// Command oxy-scale draws a triangle whose scale is animated by a compositor. Press E (Expand!) to
// toggle the scale in a transaction or K (Keyframes!) to run the keyframe animation.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
