package svg

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/ByLCY/svgbridge/engine"
)

var (
	errNoRasterizer   = errors.New("engine returned no rasterizer")
	errNilDocument    = errors.New("nil document")
	errEngineMismatch = errors.New("document and rasterizer belong to different engines")
)

// Rasterizer holds engine scratch state that can render any number of
// documents one after another. Calls on one Rasterizer are serialized.
type Rasterizer struct {
	loader *Loader

	mu      sync.Mutex
	handle  engine.Rasterizer
	cleanup runtime.Cleanup
}

type rastRelease struct {
	eng    engine.Engine
	handle engine.Rasterizer
	log    *slog.Logger
}

func releaseRasterizer(r rastRelease) {
	r.log.Warn("svg: rasterizer released without Close", "handle", uintptr(r.handle))
	r.eng.DeleteRasterizer(r.handle)
}

// NewRasterizer creates a rasterizer on the default engine.
func NewRasterizer() (*Rasterizer, error) {
	return defaultLoader().NewRasterizer()
}

// NewRasterizer 创建光栅化上下文；引擎无法分配时返回 KindAllocation 错误。
func (l *Loader) NewRasterizer() (*Rasterizer, error) {
	h := l.eng.NewRasterizer()
	if h == engine.Null {
		return nil, newError(KindAllocation, "new rasterizer", "", errNoRasterizer)
	}
	r := &Rasterizer{loader: l, handle: h}
	r.cleanup = runtime.AddCleanup(r, releaseRasterizer, rastRelease{eng: l.eng, handle: h, log: l.logger()})
	l.logger().Debug("svg: rasterizer created", "handle", uintptr(h))
	return r, nil
}

// Rasterize renders doc at scale into a new Image of
// floor(doc.Width()*scale) × floor(doc.Height()*scale) pixels.
func (r *Rasterizer) Rasterize(doc *Document, scale float32) (*Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle == engine.Null {
		return nil, newError(KindRasterize, "rasterize", "", ErrReleased)
	}
	if doc == nil {
		return nil, newError(KindRasterize, "rasterize", "", errNilDocument)
	}

	doc.mu.RLock()
	defer doc.mu.RUnlock()
	if doc.handle == engine.Null {
		return nil, newError(KindRasterize, "rasterize", "", ErrReleased)
	}
	if doc.loader.eng != r.loader.eng {
		return nil, newError(KindRasterize, "rasterize", "", errEngineMismatch)
	}

	geo, err := computeGeometry(doc.width, doc.height, scale, r.loader.maxPixels)
	if err != nil {
		return nil, newError(KindRasterize, "rasterize", "", err)
	}
	buf := allocate(geo)
	r.loader.logger().Debug("svg: rasterize",
		"document", uintptr(doc.handle), "scale", scale,
		"width", geo.Width, "height", geo.Height, "bytes", geo.Capacity)

	r.loader.eng.Rasterize(r.handle, doc.handle, 0, 0, scale, buf.region(), geo.Width, geo.Height, geo.Stride)
	buf.commit()

	img, err := buf.image()
	if err != nil {
		return nil, newError(KindRasterize, "rasterize", "", err)
	}
	return img, nil
}

// Close releases the engine rasterizer. Calling Close again does nothing.
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle == engine.Null {
		return nil
	}
	h := r.handle
	r.handle = engine.Null
	r.cleanup.Stop()
	r.loader.eng.DeleteRasterizer(h)
	r.loader.logger().Debug("svg: rasterizer closed", "handle", uintptr(h))
	return nil
}
