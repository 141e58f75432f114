//go:build !headless

package main

import (
	"goba/internal/emulator"
	"goba/internal/host"
	"goba/rom"
)

// runWindowed opens the resizable ebiten window and drives system inside
// it. Only built when the ebiten/GL backend is available; the `headless`
// build tag swaps in a stub that reports the window backend was compiled
// out.
func runWindowed(system *emulator.System, scale int, romPath string, noVsync bool) error {
	h := host.NewEbitenHost(system, scale, func(path string) ([]byte, error) {
		r, err := rom.Load(path)
		if err != nil {
			return nil, err
		}
		return r.Data, nil
	})
	return h.Run("goba - "+romPath, !noVsync)
}
