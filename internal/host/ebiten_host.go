//go:build !headless

package host

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"goba/internal/emulator"
	"goba/util/dbg"
)

// keyBinding pairs one ebiten key with the joypad button it latches.
type keyBinding struct {
	key    ebiten.Key
	button uint16
}

// defaultBindings mirrors a standard GBA pad onto a keyboard: arrows for
// the d-pad, Z/X for B/A, Enter/Backspace for Start/Select, A/S for L/R.
var defaultBindings = []keyBinding{
	{ebiten.KeyArrowUp, bitUp}, {ebiten.KeyArrowDown, bitDown},
	{ebiten.KeyArrowLeft, bitLeft}, {ebiten.KeyArrowRight, bitRight},
	{ebiten.KeyX, bitA}, {ebiten.KeyZ, bitB},
	{ebiten.KeyEnter, bitStart}, {ebiten.KeyBackspace, bitSelect},
	{ebiten.KeyA, bitL}, {ebiten.KeyS, bitR},
}

// Bit layout matching joypad.Button* without importing the package just
// for constants used nowhere else in this file.
const (
	bitA = 1 << iota
	bitB
	bitSelect
	bitStart
	bitRight
	bitLeft
	bitUp
	bitDown
	bitR
	bitL
)

// EbitenHost runs a System inside an ebiten.Game window, scaling the
// 240x160 framebuffer to the configured window size and latching keyboard
// state into the joypad once per Update.
type EbitenHost struct {
	system *emulator.System
	scale  int

	mu     sync.Mutex
	window *ebiten.Image

	clipboardOnce sync.Once
	clipboardOK   bool

	romPath string
	onSwap  func(path string) ([]byte, error)
}

// NewEbitenHost wraps system for windowed display at the given integer
// scale factor. onSwap is called when the user pastes a path via
// Ctrl+Shift+V; it is expected to load and return the new ROM's bytes.
func NewEbitenHost(system *emulator.System, scale int, onSwap func(path string) ([]byte, error)) *EbitenHost {
	if scale < 1 {
		scale = 1
	}
	return &EbitenHost{system: system, scale: scale, onSwap: onSwap}
}

// Run sizes and titles the window, then blocks for the lifetime of the
// process running the ebiten game loop.
func (h *EbitenHost) Run(title string, vsync bool) error {
	const width, height = 240, 160
	ebiten.SetWindowSize(width*h.scale, height*h.scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(vsync)
	return ebiten.RunGame(h)
}

// Update advances exactly one emulated frame and latches the host's
// current keyboard state into the joypad, per spec's "input state is
// latched between frames" contract.
func (h *EbitenHost) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	h.handleClipboardPaste()

	var pressed uint16
	for _, b := range defaultBindings {
		if ebiten.IsKeyPressed(b.key) {
			pressed |= b.button
		}
	}
	h.system.SetKeys(pressed)
	h.system.RunFrame()
	return nil
}

// Draw blits the PPU's packed ARGB8888 framebuffer into an ebiten image,
// lazily allocating it on first use exactly as the reference backend does.
func (h *EbitenHost) Draw(screen *ebiten.Image) {
	h.mu.Lock()
	if h.window == nil {
		h.window = ebiten.NewImage(240, 160)
	}
	pixels := argbToRGBA(h.system.Frame())
	h.window.WritePixels(pixels)
	h.mu.Unlock()
	screen.DrawImage(h.window, nil)
}

// Layout keeps the logical screen fixed at the GBA's native resolution;
// ebiten handles window-to-screen scaling itself.
func (h *EbitenHost) Layout(_, _ int) (int, int) {
	return 240, 160
}

// handleClipboardPaste lets the user hot-swap the running ROM by copying
// its path and pressing Ctrl+Shift+V, mirroring the reference backend's
// clipboard-paste binding.
func (h *EbitenHost) handleClipboardPaste() {
	if h.onSwap == nil {
		return
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if !ctrl || !shift || !ebiten.IsKeyPressed(ebiten.KeyV) {
		return
	}
	h.clipboardOnce.Do(func() {
		h.clipboardOK = clipboard.Init() == nil
	})
	if !h.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	path := string(data)
	romData, err := h.onSwap(path)
	if err != nil {
		dbg.Logf("host", "clipboard ROM swap failed: %v", err)
		return
	}
	h.system.Reset(romData)
	h.romPath = path
}

// argbToRGBA repacks the PPU's 0xAARRGGBB pixels into the byte-order
// ebiten.Image.WritePixels expects (R,G,B,A per pixel).
func argbToRGBA(frame []uint32) []byte {
	out := make([]byte, len(frame)*4)
	for i, px := range frame {
		o := i * 4
		out[o+0] = byte(px >> 16)
		out[o+1] = byte(px >> 8)
		out[o+2] = byte(px)
		out[o+3] = byte(px >> 24)
	}
	return out
}
