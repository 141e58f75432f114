package joypad

import "testing"

func TestNewHasNothingPressed(t *testing.T) {
	j := New()
	if got := j.KEYINPUT(); got != allReleased {
		t.Errorf("KEYINPUT() = %#04x, want %#04x", got, allReleased)
	}
}

func TestSetKeysInvertsActiveLow(t *testing.T) {
	j := New()
	j.SetKeys(ButtonA)
	if got := j.KEYINPUT(); got != allReleased&^ButtonA {
		t.Errorf("KEYINPUT() = %#04x, want %#04x", got, allReleased&^ButtonA)
	}
}

func TestSetKeysMultipleButtons(t *testing.T) {
	j := New()
	j.SetKeys(ButtonSelect | ButtonStart)
	want := uint16(allReleased &^ (ButtonSelect | ButtonStart))
	if got := j.KEYINPUT(); got != want {
		t.Errorf("KEYINPUT() = %#04x, want %#04x", got, want)
	}
}

func TestSetKeysReleaseRestoresBit(t *testing.T) {
	j := New()
	j.SetKeys(ButtonL)
	j.SetKeys(0)
	if got := j.KEYINPUT(); got != allReleased {
		t.Errorf("KEYINPUT() after release = %#04x, want %#04x", got, allReleased)
	}
}
