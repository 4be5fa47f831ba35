package svg

import (
	"errors"
	"fmt"
	"math"
)

// maxAxis bounds either output dimension so that stride always fits in 32 bits.
const maxAxis = math.MaxInt32 / 4

// Geometry 描述一次光栅化输出的像素尺寸与缓冲区布局，各字段总是一起计算。
type Geometry struct {
	Width    int // floor(document width * scale)
	Height   int // floor(document height * scale)
	Stride   int // Width * 4
	Capacity int // Stride * Height
}

// computeGeometry derives the output geometry for a document of w×h units at
// the given scale. Non-positive and NaN products become 0. maxPixels of 0
// means no limit beyond integer overflow.
func computeGeometry(w, h, scale float32, maxPixels int) (Geometry, error) {
	pw, err := axisPixels(w * scale)
	if err != nil {
		return Geometry{}, fmt.Errorf("width: %w", err)
	}
	ph, err := axisPixels(h * scale)
	if err != nil {
		return Geometry{}, fmt.Errorf("height: %w", err)
	}
	stride := pw * 4
	if ph > 0 && stride > math.MaxInt/ph {
		return Geometry{}, fmt.Errorf("输出缓冲区 %dx%d 超出可寻址范围", pw, ph)
	}
	if maxPixels > 0 && pw*ph > maxPixels {
		return Geometry{}, fmt.Errorf("输出尺寸 %dx%d 超过上限 %d 像素", pw, ph, maxPixels)
	}
	return Geometry{Width: pw, Height: ph, Stride: stride, Capacity: stride * ph}, nil
}

func axisPixels(v float32) (int, error) {
	f := math.Floor(float64(v))
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0, nil
	case f > maxAxis:
		return 0, fmt.Errorf("%g 像素超过上限 %d", f, maxAxis)
	}
	return int(f), nil
}

var (
	errUncommitted = errors.New("output buffer read before the engine wrote it")
	errBufferSize  = errors.New("output buffer does not match the image geometry")
)

// outputBuffer separates allocation from initialization: the engine writes
// into region(), and the bytes only become visible once commit() has run.
type outputBuffer struct {
	geo       Geometry
	mem       []byte
	committed bool
}

// allocate reserves geo.Capacity bytes with a logical length of zero.
func allocate(geo Geometry) *outputBuffer {
	return &outputBuffer{geo: geo, mem: make([]byte, 0, geo.Capacity)}
}

// region is the destination handed to the engine.
func (b *outputBuffer) region() []byte {
	return b.mem[:b.geo.Capacity:b.geo.Capacity]
}

// commit marks the full capacity as written. Call only after the engine returned.
func (b *outputBuffer) commit() {
	b.mem = b.mem[:b.geo.Capacity]
	b.committed = true
}

// image reinterprets the committed buffer as an Image of the buffer's geometry.
func (b *outputBuffer) image() (*Image, error) {
	if !b.committed {
		return nil, errUncommitted
	}
	g := b.geo
	if g.Stride != g.Width*4 || len(b.mem) != g.Stride*g.Height {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", errBufferSize, len(b.mem), g.Width, g.Height)
	}
	return &Image{Width: g.Width, Height: g.Height, Stride: g.Stride, Pix: b.mem}, nil
}
