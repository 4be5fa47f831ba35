// Package oksvgengine implements the engine primitives on top of
// github.com/srwiley/oksvg and github.com/srwiley/rasterx.
package oksvgengine

import (
	"bytes"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/ByLCY/svgbridge/engine"
	"github.com/ByLCY/svgbridge/engine/viewport"
	"github.com/ByLCY/svgbridge/ffi"
)

type Engine struct {
	docs  engine.Table[document]
	rasts engine.Table[scratch]
	log   atomic.Pointer[slog.Logger]
}

var (
	_ engine.Engine       = (*Engine)(nil)
	_ engine.LoggerSetter = (*Engine)(nil)
)

type document struct {
	mu            sync.Mutex // Draw temporarily rewrites path matrices
	icon          *oksvg.SvgIcon
	pxW, pxH      float64 // pixel size at parse dpi
	width, height float32 // in the unit requested at parse time
}

// scratch keeps the scanner between draws of the same size.
type scratch struct {
	w, h    int
	draws   int
	scanner *rasterx.ScannerGV
	dasher  *rasterx.Dasher
}

func New() *Engine {
	e := &Engine{}
	e.SetLogger(nil)
	return e
}

// SetLogger sets the logger for handle diagnostics. nil disables logging.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	e.log.Store(l)
}

func (e *Engine) logger() *slog.Logger { return e.log.Load() }

func (e *Engine) Parse(input []byte, unit string, dpi float32) engine.Document {
	content := ffi.GoBytes(input)
	icon, err := oksvg.ReadIconStream(bytes.NewReader(content), oksvg.IgnoreErrorMode)
	if err != nil {
		e.logger().Debug("oksvgengine: 解析 SVG 失败", "err", err)
		return engine.Null
	}
	pxW, pxH, err := viewport.Resolve(content, "px", float64(dpi), func() (float64, float64) {
		return icon.ViewBox.W, icon.ViewBox.H
	})
	if err != nil {
		e.logger().Debug("oksvgengine: 计算画布尺寸失败", "err", err)
		return engine.Null
	}
	w, h, err := viewport.Resolve(content, unit, float64(dpi), func() (float64, float64) {
		return icon.ViewBox.W, icon.ViewBox.H
	})
	if err != nil {
		e.logger().Debug("oksvgengine: 计算画布尺寸失败", "err", err)
		return engine.Null
	}
	handle := e.docs.Add(&document{icon: icon, pxW: pxW, pxH: pxH, width: float32(w), height: float32(h)})
	e.logger().Debug("oksvgengine: document created", "handle", handle, "width", w, "height", h)
	return engine.Document(handle)
}

func (e *Engine) Size(doc engine.Document) (float32, float32) {
	d, ok := e.docs.Get(uintptr(doc))
	if !ok {
		e.logger().Warn("oksvgengine: size of unknown document", "handle", uintptr(doc))
		return 0, 0
	}
	return d.width, d.height
}

func (e *Engine) NewRasterizer() engine.Rasterizer {
	handle := e.rasts.Add(&scratch{})
	e.logger().Debug("oksvgengine: rasterizer created", "handle", handle)
	return engine.Rasterizer(handle)
}

// Rasterize 将文档绘制到 dst（非预乘 RGBA）。绘制前先清空 w×h 区域。
func (e *Engine) Rasterize(r engine.Rasterizer, doc engine.Document, tx, ty, scale float32, dst []byte, w, h, stride int) {
	if w <= 0 || h <= 0 {
		return
	}
	s, ok := e.rasts.Get(uintptr(r))
	if !ok {
		e.logger().Warn("oksvgengine: rasterize with unknown rasterizer", "handle", uintptr(r))
		return
	}
	d, ok := e.docs.Get(uintptr(doc))
	if !ok {
		e.logger().Warn("oksvgengine: rasterize of unknown document", "handle", uintptr(doc))
		return
	}
	if stride < w*4 || len(dst) < stride*(h-1)+w*4 {
		e.logger().Warn("oksvgengine: destination too small", "len", len(dst), "w", w, "h", h, "stride", stride)
		return
	}
	for y := 0; y < h; y++ {
		clear(dst[y*stride : y*stride+w*4])
	}

	target := &image.RGBA{Pix: dst, Stride: stride, Rect: image.Rect(0, 0, w, h)}
	s.bind(target, w, h)
	s.draws++

	d.mu.Lock()
	defer d.mu.Unlock()
	// SetTarget mutates the icon transform; draw from a copy
	icon := *d.icon
	if icon.ViewBox.W == 0 || icon.ViewBox.H == 0 {
		icon.ViewBox.W, icon.ViewBox.H = d.pxW, d.pxH
	}
	// the destination is sized in the parse unit, not in pixels
	sc := float64(scale)
	icon.SetTarget(float64(tx), float64(ty), float64(d.width)*sc, float64(d.height)*sc)
	icon.Draw(s.dasher, 1)

	unpremultiply(dst, w, h, stride)
}

// bind points the scanner at img, rebuilding the dasher when the size changes.
func (s *scratch) bind(img *image.RGBA, w, h int) {
	if s.dasher == nil || s.w != w || s.h != h {
		s.scanner = rasterx.NewScannerGV(w, h, img, img.Bounds())
		s.dasher = rasterx.NewDasher(w, h, s.scanner)
		s.w, s.h = w, h
	} else {
		s.scanner.Dest, s.scanner.Targ = img, img.Bounds()
	}
}

// unpremultiply converts premultiplied RGBA pixels to straight alpha in place.
func unpremultiply(pix []byte, w, h, stride int) {
	for y := 0; y < h; y++ {
		row := pix[y*stride : y*stride+w*4]
		for i := 0; i < len(row); i += 4 {
			a := uint32(row[i+3])
			switch a {
			case 0xFF:
			case 0:
				row[i], row[i+1], row[i+2] = 0, 0, 0
			default:
				row[i] = uint8(uint32(row[i]) * 0xFF / a)
				row[i+1] = uint8(uint32(row[i+1]) * 0xFF / a)
				row[i+2] = uint8(uint32(row[i+2]) * 0xFF / a)
			}
		}
	}
}

func (e *Engine) DeleteDocument(doc engine.Document) {
	if _, ok := e.docs.Delete(uintptr(doc)); !ok {
		e.logger().Warn("oksvgengine: delete of unknown document", "handle", uintptr(doc))
	}
}

func (e *Engine) DeleteRasterizer(r engine.Rasterizer) {
	s, ok := e.rasts.Delete(uintptr(r))
	if !ok {
		e.logger().Warn("oksvgengine: delete of unknown rasterizer", "handle", uintptr(r))
		return
	}
	e.logger().Debug("oksvgengine: rasterizer deleted", "handle", uintptr(r), "draws", s.draws)
}

// Live returns the number of documents and rasterizers not yet deleted.
func (e *Engine) Live() (docs, rasterizers int) {
	return e.docs.Len(), e.rasts.Len()
}
