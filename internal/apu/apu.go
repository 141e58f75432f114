// Package apu is a structural stand-in for the GBA's two PSG channels and
// two direct-sound FIFO channels. Audio synthesis is an explicit non-goal
// of this emulator (see SPEC_FULL.md §1); the type exists purely so the
// frame pump can tick every peripheral the hardware actually has, the way
// the component table in SPEC_FULL.md §2 describes, without a special case
// for "the one we skipped".
package apu

// APU is a no-op placeholder. A future milestone that does take on audio
// can give it FIFO buffers and channel state without touching the pump's
// call site in internal/emulator.
type APU struct{}

// New returns a disabled APU.
func New() *APU {
	return &APU{}
}

// Advance is called once per step with the elapsed cycle count; it
// currently does nothing.
func (a *APU) Advance(cycles uint64) {}
