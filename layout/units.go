package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by chart files and the conversions
// needed at the rendering boundary (pt for font faces, px for raster output).

// Unit represents the original unit of a length value as written in a chart file.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as mm for lengths
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm  = 0.352777
	MmToPt  = 1.0 / PtToMm
	MmPerIn = 25.4
)

// DefaultDPI 是光栅预览的默认分辨率。
const DefaultDPI = 300.0

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts the length to millimeters. Unit-less values are taken as mm.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * MmPerIn
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

func (l Length) ToPT() float64 { return l.ToMM() * MmToPt }

// ParseRawLengthStr parses a length such as "12pt" or "2.5mm" preserving its unit.
// ok is false when the numeric part cannot be parsed.
func ParseRawLengthStr(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// MmToPx 返回给定 DPI 下每毫米的像素数。
func MmToPx(dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return dpi / MmPerIn
}

// PxToMm 是 MmToPx 的倒数。
func PxToMm(dpi float64) float64 { return 1 / MmToPx(dpi) }
