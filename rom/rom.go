// Package rom loads a GBA cartridge image from disk, distinguishing the
// setup-time failures spec.md 7 requires abort-with-exit-1 handling (file
// not found, empty, larger than the cartridge address space can map) from
// everything else.
package rom

import (
	"os"

	"goba/internal/xerrors"
)

// maxSize is the size of the 0x08000000-0x09FFFFFF cartridge ROM window;
// a larger image can never be addressed in full.
const maxSize = 0x09FFFFFF - 0x08000000 + 1

// ROM is a loaded cartridge image.
type ROM struct {
	Data []byte
}

// Load reads path and validates it as a GBA cartridge image.
func Load(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf(xerrors.PatternROMNotFound, err)
	}
	if len(data) == 0 {
		return nil, xerrors.Errorf(xerrors.PatternROMEmpty)
	}
	if len(data) > maxSize {
		return nil, xerrors.Errorf(xerrors.PatternROMTooLarge, len(data))
	}
	return &ROM{Data: data}, nil
}
