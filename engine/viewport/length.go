package viewport

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// This file defines SVG length values and their conversion to pixels.

// Unit is the unit suffix of an SVG length.
type Unit int

const (
	UnitNone    Unit = iota // unit-less user units, same as px
	UnitPX                  // pixels
	UnitPT                  // points
	UnitPC                  // picas
	UnitMM                  // millimeters
	UnitCM                  // centimeters
	UnitIN                  // inches
	UnitEM                  // font size
	UnitEX                  // x-height
	UnitPercent             // percentage of the viewport
)

// DefaultFontSize is the font size, in pixels, em and ex lengths resolve against.
const DefaultFontSize = 12.0

// DefaultDPI replaces non-positive dpi values.
const DefaultDPI = 96.0

var unitNames = map[string]Unit{
	"":   UnitNone,
	"px": UnitPX,
	"pt": UnitPT,
	"pc": UnitPC,
	"mm": UnitMM,
	"cm": UnitCM,
	"in": UnitIN,
	"em": UnitEM,
	"ex": UnitEX,
	"%":  UnitPercent,
}

// ParseUnit maps a unit suffix to a Unit.
func ParseUnit(s string) (Unit, bool) {
	u, ok := unitNames[strings.TrimSpace(s)]
	return u, ok
}

var (
	lengthLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Unit", Pattern: `px|pt|pc|mm|cm|in|em|ex|%`},
		{Name: "Comma", Pattern: `,`},
	})

	lengthParser = participle.MustBuild[lengthExpr](
		participle.Lexer(lengthLexer),
		participle.Elide("Whitespace"),
	)
	numberListParser = participle.MustBuild[numberList](
		participle.Lexer(lengthLexer),
		participle.Elide("Whitespace"),
	)
)

// lengthExpr is a single `<number><unit>?` value such as `12.5mm`.
type lengthExpr struct {
	Value float64 `parser:"@Number"`
	Unit  string  `parser:"@Unit?"`
}

// numberList is a comma and/or whitespace separated list, as used by viewBox.
type numberList struct {
	Values []float64 `parser:"( @Number Comma? )*"`
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLength parses an SVG length attribute value.
func ParseLength(s string) (Length, error) {
	expr, err := lengthParser.ParseString("", s)
	if err != nil {
		return Length{}, fmt.Errorf("viewport: 无法解析长度 %q: %w", s, err)
	}
	u, ok := ParseUnit(expr.Unit)
	if !ok {
		return Length{}, fmt.Errorf("viewport: 未知长度单位 %q", expr.Unit)
	}
	return Length{Value: expr.Value, Unit: u}, nil
}

// ParseNumbers parses a number list such as `0 0 256 256` or `0,0,256,256`.
func ParseNumbers(s string) ([]float64, error) {
	list, err := numberListParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("viewport: 无法解析数值列表 %q: %w", s, err)
	}
	return list.Values, nil
}

// PixelsPer returns how many pixels one u is worth at dpi. Percent yields
// 0.01 so that a pixel size divided by it reads as a percentage.
func PixelsPer(u Unit, dpi float64) float64 {
	if !(dpi > 0) {
		dpi = DefaultDPI
	}
	switch u {
	case UnitPT:
		return dpi / 72
	case UnitPC:
		return dpi / 6
	case UnitMM:
		return dpi / 25.4
	case UnitCM:
		return dpi / 2.54
	case UnitIN:
		return dpi
	case UnitEM:
		return DefaultFontSize
	case UnitEX:
		return DefaultFontSize * 0.52
	case UnitPercent:
		return 0.01
	default:
		return 1
	}
}

// Pixels converts l to pixels. Percentages have no absolute size and report false.
func (l Length) Pixels(dpi float64) (float64, bool) {
	if l.Unit == UnitPercent {
		return 0, false
	}
	return l.Value * PixelsPer(l.Unit, dpi), true
}
