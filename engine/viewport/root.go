// Package viewport resolves the canvas size of an SVG document the way the
// engine reports it: root width/height converted to pixels with the caller's
// dpi, falling back to the viewBox, then expressed in the requested unit.
package viewport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"

	"github.com/ByLCY/svgbridge/ffi"
)

// ErrNoRoot is returned when the input contains no <svg> element.
var ErrNoRoot = errors.New("viewport: 缺少 <svg> 根元素")

// ViewBox is the user coordinate system declared on the root element.
type ViewBox struct {
	X, Y, W, H float64
}

// Root holds the sizing attributes of the root <svg> element.
type Root struct {
	Width      Length
	Height     Length
	ViewBox    ViewBox
	HasWidth   bool
	HasHeight  bool
	HasViewBox bool
}

// ScanRoot reads the attributes of the first <svg> element of input. Input
// may carry a terminating zero byte; anything after it is ignored.
// Attribute values that fail to parse are treated as absent.
func ScanRoot(input []byte) (Root, error) {
	// the lexer rewrites whitespace inside attribute values in place
	buf := bytes.Clone(ffi.GoBytes(input))
	l := xml.NewLexer(parse.NewInputBytes(buf))

	var root Root
	inRoot := false
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return Root{}, fmt.Errorf("viewport: 读取根元素失败: %w", err)
			}
			return Root{}, ErrNoRoot
		case xml.StartTagToken:
			if localName(l.Text()) == "svg" {
				inRoot = true
			}
		case xml.AttributeToken:
			if inRoot {
				root.apply(localName(l.Text()), unquote(l.AttrVal()))
			}
		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if inRoot {
				return root, nil
			}
		}
	}
}

func (r *Root) apply(name, value string) {
	switch name {
	case "width":
		if l, err := ParseLength(value); err == nil {
			r.Width, r.HasWidth = l, true
		}
	case "height":
		if l, err := ParseLength(value); err == nil {
			r.Height, r.HasHeight = l, true
		}
	case "viewBox":
		if nums, err := ParseNumbers(value); err == nil && len(nums) == 4 {
			r.ViewBox = ViewBox{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
			r.HasViewBox = true
		}
	}
}

// PixelSize returns the canvas size in pixels. Each axis uses its absolute
// width/height when positive, otherwise the viewBox extent; ok is false when
// an axis has neither.
func (r Root) PixelSize(dpi float64) (w, h float64, ok bool) {
	w, okW := r.axis(r.Width, r.HasWidth, r.ViewBox.W, dpi)
	h, okH := r.axis(r.Height, r.HasHeight, r.ViewBox.H, dpi)
	return w, h, okW && okH
}

func (r Root) axis(l Length, has bool, viewExtent, dpi float64) (float64, bool) {
	if has {
		if px, ok := l.Pixels(dpi); ok && px > 0 {
			return px, true
		}
	}
	if r.HasViewBox && viewExtent > 0 {
		return viewExtent, true
	}
	return 0, false
}

// Bounds supplies a fallback canvas size in pixels, typically the extent of
// the drawing as measured by an engine backend.
type Bounds func() (w, h float64)

// Resolve returns the canvas size of input in the unit named by token (which
// may be NUL-terminated). An axis with neither absolute size nor viewBox
// falls back to bounds, or zero when bounds is nil.
func Resolve(input []byte, token string, dpi float64, bounds Bounds) (w, h float64, err error) {
	name := ffi.TrimString(token)
	unit, ok := ParseUnit(name)
	if !ok || unit == UnitNone {
		return 0, 0, fmt.Errorf("viewport: 未知输出单位 %q", name)
	}
	root, err := ScanRoot(input)
	if err != nil {
		return 0, 0, err
	}
	w, h, ok = root.PixelSize(dpi)
	if !ok && bounds != nil {
		bw, bh := bounds()
		if w <= 0 {
			w = bw
		}
		if h <= 0 {
			h = bh
		}
	}
	per := PixelsPer(unit, dpi)
	return w / per, h / per, nil
}

func localName(name []byte) string {
	s := string(name)
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func unquote(v []byte) string {
	s := strings.TrimSpace(string(v))
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
