// Package xerrors provides curated, pattern-matchable errors for the two
// setup-time failure kinds spec.md 7 calls out (ROM not found/too large,
// out of memory): callers can both print a human message and test which
// kind of failure occurred without parsing strings. Runtime errors
// (unknown instruction, invalid memory access) are deliberately NOT
// modeled here — spec.md 7 requires they never surface as a Go error at
// all, only as a logged diagnostic or an open-bus value.
//
// Grounded on JetSetIlly-Gopher2600/curated/errors.go: a pattern string
// plus captured values, formatted lazily in Error(), with Is/Has letting
// callers test for a specific pattern without string matching.
package xerrors

import (
	"fmt"
	"strings"
)

// Pattern strings usable with Is/Has. Declared as the format string the
// error will be rendered with, matching curated's convention of using the
// pattern itself as the match key.
const (
	PatternROMNotFound = "could not open ROM file: %w"
	PatternROMTooLarge = "ROM file exceeds the 32MB cartridge address space (%d bytes)"
	PatternROMEmpty    = "ROM file is empty"
)

type curated struct {
	pattern string
	values  []interface{}
}

// Errorf builds a curated error. The pattern is stored, not immediately
// formatted with fmt.Sprintf — Error() does the formatting, and Is/Has
// match against the pattern itself.
func Errorf(pattern string, values ...interface{}) error {
	return curated{pattern: pattern, values: values}
}

func (e curated) Error() string {
	s := fmt.Errorf(e.pattern, e.values...).Error()
	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

func (e curated) Unwrap() error {
	for _, v := range e.values {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}

// Is reports whether err is a curated error built from exactly pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	e, ok := err.(curated)
	return ok && e.pattern == pattern
}

// Has reports whether err is a curated error built from pattern, or wraps
// one (directly or transitively) among its captured values.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}
	e, ok := err.(curated)
	if !ok {
		return false
	}
	if e.pattern == pattern {
		return true
	}
	for _, v := range e.values {
		if inner, ok := v.(curated); ok && Has(inner, pattern) {
			return true
		}
	}
	return false
}
