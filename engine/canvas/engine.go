package canvasengine

import (
	"bytes"
	"image"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/draw"

	"github.com/ByLCY/svgbridge/engine"
	"github.com/ByLCY/svgbridge/engine/viewport"
	"github.com/ByLCY/svgbridge/ffi"
)

// mmToPx converts canvas millimeters to CSS pixels (96 per inch).
const mmToPx = 96.0 / 25.4

// Engine parses and rasterizes SVG documents via github.com/tdewolff/canvas.
type Engine struct {
	docs  engine.Table[document]
	rasts engine.Table[rasterizerState]
	log   atomic.Pointer[slog.Logger]
}

var (
	_ engine.Engine       = (*Engine)(nil)
	_ engine.LoggerSetter = (*Engine)(nil)
)

type document struct {
	c             *canvas.Canvas
	width, height float32 // in the unit requested at parse time
}

type rasterizerState struct {
	draws int
}

// New creates an engine with no live handles.
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

// Parse 解析以零字节结尾的 SVG 文本。文档无法解析、缺少 <svg> 根元素或单位未知时返回 Null。
func (e *Engine) Parse(input []byte, unit string, dpi float32) engine.Document {
	content := ffi.GoBytes(input)
	c, err := canvas.ParseSVG(bytes.NewReader(content))
	if err != nil {
		e.logger().Debug("canvasengine: 解析 SVG 失败", "err", err)
		return engine.Null
	}
	w, h, err := viewport.Resolve(content, unit, float64(dpi), func() (float64, float64) {
		return c.W * mmToPx, c.H * mmToPx
	})
	if err != nil {
		e.logger().Debug("canvasengine: 计算画布尺寸失败", "err", err)
		return engine.Null
	}
	handle := e.docs.Add(&document{c: c, width: float32(w), height: float32(h)})
	e.logger().Debug("canvasengine: document created", "handle", handle, "width", w, "height", h)
	return engine.Document(handle)
}

// Size reports the canvas size of doc; unknown handles report zero.
func (e *Engine) Size(doc engine.Document) (float32, float32) {
	d, ok := e.docs.Get(uintptr(doc))
	if !ok {
		e.logger().Warn("canvasengine: size of unknown document", "handle", uintptr(doc))
		return 0, 0
	}
	return d.width, d.height
}

func (e *Engine) NewRasterizer() engine.Rasterizer {
	handle := e.rasts.Add(&rasterizerState{})
	e.logger().Debug("canvasengine: rasterizer created", "handle", handle)
	return engine.Rasterizer(handle)
}

// Rasterize draws doc into dst. The w×h area of dst is cleared to transparent
// black first, so every byte the caller handed over is written.
func (e *Engine) Rasterize(r engine.Rasterizer, doc engine.Document, tx, ty, scale float32, dst []byte, w, h, stride int) {
	if w <= 0 || h <= 0 {
		return
	}
	rs, ok := e.rasts.Get(uintptr(r))
	if !ok {
		e.logger().Warn("canvasengine: rasterize with unknown rasterizer", "handle", uintptr(r))
		return
	}
	d, ok := e.docs.Get(uintptr(doc))
	if !ok {
		e.logger().Warn("canvasengine: rasterize of unknown document", "handle", uintptr(doc))
		return
	}
	if stride < w*4 || len(dst) < stride*(h-1)+w*4 {
		e.logger().Warn("canvasengine: destination too small", "len", len(dst), "w", w, "h", h, "stride", stride)
		return
	}
	rs.draws++

	target := &image.NRGBA{Pix: dst, Stride: stride, Rect: image.Rect(0, 0, w, h)}
	for y := 0; y < h; y++ {
		clear(dst[y*stride : y*stride+w*4])
	}

	res := resolution(d, scale)
	if res <= 0 {
		return
	}
	// rasterizer output is premultiplied; drawing onto NRGBA with Src stores straight alpha
	src := rasterizer.Draw(d.c, canvas.DPMM(res), canvas.DefaultColorSpace)
	offset := image.Pt(-int(math.Round(float64(tx))), -int(math.Round(float64(ty))))
	draw.Draw(target, target.Bounds(), src, offset, draw.Src)
}

// resolution returns dots per canvas millimeter such that the document width
// in its parse unit, times scale, spans the same number of pixels.
func resolution(d *document, scale float32) float64 {
	switch {
	case d.c.W > 0:
		return float64(d.width) * float64(scale) / d.c.W
	case d.c.H > 0:
		return float64(d.height) * float64(scale) / d.c.H
	default:
		return 0
	}
}

func (e *Engine) DeleteDocument(doc engine.Document) {
	if _, ok := e.docs.Delete(uintptr(doc)); !ok {
		e.logger().Warn("canvasengine: delete of unknown document", "handle", uintptr(doc))
		return
	}
	e.logger().Debug("canvasengine: document deleted", "handle", uintptr(doc))
}

func (e *Engine) DeleteRasterizer(r engine.Rasterizer) {
	rs, ok := e.rasts.Delete(uintptr(r))
	if !ok {
		e.logger().Warn("canvasengine: delete of unknown rasterizer", "handle", uintptr(r))
		return
	}
	e.logger().Debug("canvasengine: rasterizer deleted", "handle", uintptr(r), "draws", rs.draws)
}

// Live returns the number of documents and rasterizers not yet deleted.
func (e *Engine) Live() (docs, rasterizers int) {
	return e.docs.Len(), e.rasts.Len()
}
