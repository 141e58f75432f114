// Package host adapts an internal/emulator.System to a display surface:
// either a resizable ebiten window (ebiten_host.go, default build) or a
// terminal-driven headless runner for CI and scripted captures.
package host

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/term"

	"goba/internal/emulator"
	"goba/util/dbg"
)

// HeadlessHost runs the frame pump with no window, saving the first
// completed frame to disk and watching stdin for a quit keypress when
// stdin is a real terminal. It exists for CI and for reproducing the
// "save first frame" capture original_source/ used as its smoke test.
type HeadlessHost struct {
	system     *emulator.System
	scale      int
	outputPath string
}

// NewHeadlessHost wraps system for a windowless run. outputPath is where
// the first rendered frame is saved as a PNG, upscaled by scale.
func NewHeadlessHost(system *emulator.System, scale int, outputPath string) *HeadlessHost {
	if scale < 1 {
		scale = 1
	}
	return &HeadlessHost{system: system, scale: scale, outputPath: outputPath}
}

// Run drives frames until a quit is requested: a single 'q' keypress on a
// real terminal, or immediately after the first frame when stdin is not a
// TTY (so the emulator can run unattended in a test harness or CI).
func (h *HeadlessHost) Run() error {
	fd := int(os.Stdin.Fd())
	interactive := term.IsTerminal(fd)

	var oldState *term.State
	if interactive {
		var err error
		oldState, err = term.MakeRaw(fd)
		if err != nil {
			dbg.Logf("host", "could not enter raw mode, running non-interactively: %v", err)
			interactive = false
		} else {
			defer term.Restore(fd, oldState)
		}
	}

	quit := make(chan struct{})
	if interactive {
		go h.watchForQuit(fd, quit)
	}

	saved := false
	for {
		h.system.RunFrame()
		if !saved {
			if err := h.saveFrame(); err != nil {
				return err
			}
			saved = true
			if !interactive {
				return nil
			}
		}
		select {
		case <-quit:
			return nil
		default:
		}
	}
}

// watchForQuit reads single bytes from the raw terminal and signals quit
// on 'q' or Ctrl+C, matching the reference terminal host's one-byte-at-a-
// time read loop.
func (h *HeadlessHost) watchForQuit(fd int, quit chan<- struct{}) {
	in := os.NewFile(uintptr(fd), "/dev/stdin")
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 && (buf[0] == 'q' || buf[0] == 0x03) {
			close(quit)
			return
		}
		if err != nil {
			close(quit)
			return
		}
	}
}

// saveFrame upscales the PPU's current framebuffer by scale and writes it
// to outputPath as a PNG, reproducing the original main loop's
// save-first-frame behaviour with the added --scale support.
func (h *HeadlessHost) saveFrame() error {
	src := framebufferToImage(h.system.Frame())

	dst := src
	if h.scale > 1 {
		bounds := image.Rect(0, 0, src.Bounds().Dx()*h.scale, src.Bounds().Dy()*h.scale)
		scaled := image.NewRGBA(bounds)
		draw.NearestNeighbor.Scale(scaled, bounds, src, src.Bounds(), draw.Over, nil)
		dst = scaled
	}

	file, err := os.Create(h.outputPath)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", h.outputPath, err)
	}
	defer file.Close()

	if err := png.Encode(file, dst); err != nil {
		return fmt.Errorf("could not encode %s: %w", h.outputPath, err)
	}
	dbg.Logf("host", "saved frame to %s", h.outputPath)
	return nil
}

// framebufferToImage repacks the PPU's packed 0xAARRGGBB pixels into a
// standard image.RGBA for PNG encoding and scaling.
func framebufferToImage(frame []uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 240, 160))
	for i, px := range frame {
		img.Set(i%240, i/240, color.RGBA{
			R: byte(px >> 16), G: byte(px >> 8), B: byte(px), A: byte(px >> 24),
		})
	}
	return img
}
