// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pptx

import (
	"fmt"
	"math"
	"strconv"
)

// EMU is an English Metric Unit, the DrawingML length unit.
type EMU int64

const (
	EMUPerInch  EMU = 914400
	EMUPerPoint EMU = 12700
)

// Inches converts a length in inches to EMU.
func Inches(v float64) EMU {
	return EMU(math.Round(v * float64(EMUPerInch)))
}

// Points converts a length in points to EMU.
func Points(v float64) EMU {
	return EMU(math.Round(v * float64(EMUPerPoint)))
}

// Inches reports the length in inches.
func (e EMU) Inches() float64 {
	return float64(e) / float64(EMUPerInch)
}

func (e EMU) attr() string {
	return strconv.FormatInt(int64(e), 10)
}

// Rect is a shape position and size.
type Rect struct {
	X, Y, W, H EMU
}

// In builds a Rect from inch values.
func In(x, y, w, h float64) Rect {
	return Rect{X: Inches(x), Y: Inches(y), W: Inches(w), H: Inches(h)}
}

// RGB is a 24-bit colour.
type RGB struct {
	R, G, B uint8
}

// Hex parses "0D4F4F" or "#0D4F4F".
func Hex(s string) (RGB, error) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is Hex for package-level palette constants.
func MustHex(s string) RGB {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the srgbClr value form, e.g. "0D4F4F".
func (c RGB) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}
