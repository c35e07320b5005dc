// Package kicad reads and writes the subset of the KiCad footprint
// s-expression format that footwork emits: a module header, SMD
// rectangular pads and the closing paren.
package kicad

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layer is the copper layer footprints are placed on.
const Layer = "F.Cu"

// PadLayers are the layers an SMD pad occupies.
var PadLayers = []string{"F.Cu", "F.Paste", "F.Mask"}

// numberResolution rounds emitted numbers, in display units.
const numberResolution = 1e6

// FormatNumber renders v in the shortest decimal form after rounding to
// six decimal places. Negative zero prints as 0.
func FormatNumber(v float64) string {
	r := math.Round(v*numberResolution) / numberResolution
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Quote returns s unchanged when it is a bare atom, otherwise a quoted
// string.
func Quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"()\\") {
		return strconv.Quote(s)
	}
	return s
}

// FormatTimestamp renders t as the eight hex digit tedit value.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%08X", uint32(t.Unix()))
}

// ParseTimestamp reads a tedit value.
func ParseTimestamp(s string) (time.Time, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return time.Time{}, fmt.Errorf("kicad: tedit %q: %w", s, err)
	}
	return time.Unix(int64(v), 0).UTC(), nil
}

// Header opens a module.
func Header(name string, tedit time.Time) string {
	return fmt.Sprintf("(module %s (layer %s) (tedit %s)", Quote(name), Layer, FormatTimestamp(tedit))
}

// Footer closes a module.
const Footer = ")"

// Pad is one rectangular SMD pad in display units.
type Pad struct {
	Pin    string  `json:"pin" yaml:"pin"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// String renders the pad record.
func (p Pad) String() string {
	return fmt.Sprintf("(pad %s smd rect (at %s %s) (size %s %s) (layers %s))",
		Quote(p.Pin),
		FormatNumber(p.X), FormatNumber(p.Y),
		FormatNumber(p.Width), FormatNumber(p.Height),
		strings.Join(PadLayers, " "))
}
