//go:build headless

package main

import (
	"fmt"

	"goba/internal/emulator"
)

// runWindowed is unavailable in a `headless`-tagged build: that build
// exists precisely to drop the ebiten/GL dependency, so there is no window
// backend left to open. Pass --headless to use the terminal/PNG host
// instead.
func runWindowed(system *emulator.System, scale int, romPath string, noVsync bool) error {
	return fmt.Errorf("this binary was built with the headless tag and has no window backend; pass --headless")
}
