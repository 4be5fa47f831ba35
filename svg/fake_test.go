package svg

import (
	"bytes"
	"log/slog"
	"sync"

	"github.com/ByLCY/svgbridge/engine"
)

// fakeEngine is an in-memory engine that records every call.
type fakeEngine struct {
	mu sync.Mutex

	width, height float32
	fill          byte
	nullParse     bool
	nullRast      bool

	next        uintptr
	parses      int
	rasterizes  int
	lastInput   []byte
	lastUnit    string
	lastDPI     float32
	lastDst     int
	lastW       int
	lastH       int
	lastStride  int
	docs        map[engine.Document]int // delete count per handle
	rasts       map[engine.Rasterizer]int
	logger      *slog.Logger
	rasterDocs  []engine.Document
	rasterScale []float32
}

func newFake(w, h float32) *fakeEngine {
	return &fakeEngine{
		width:  w,
		height: h,
		fill:   0x7F,
		docs:   map[engine.Document]int{},
		rasts:  map[engine.Rasterizer]int{},
	}
}

func (f *fakeEngine) Parse(input []byte, unit string, dpi float32) engine.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parses++
	f.lastInput = bytes.Clone(input)
	f.lastUnit = unit
	f.lastDPI = dpi
	if f.nullParse {
		return engine.Null
	}
	f.next++
	h := engine.Document(f.next)
	f.docs[h] = 0
	return h
}

func (f *fakeEngine) Size(engine.Document) (float32, float32) {
	return f.width, f.height
}

func (f *fakeEngine) NewRasterizer() engine.Rasterizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nullRast {
		return engine.Null
	}
	f.next++
	h := engine.Rasterizer(f.next)
	f.rasts[h] = 0
	return h
}

func (f *fakeEngine) Rasterize(r engine.Rasterizer, doc engine.Document, tx, ty, scale float32, dst []byte, w, h, stride int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rasterizes++
	f.lastDst, f.lastW, f.lastH, f.lastStride = len(dst), w, h, stride
	f.rasterDocs = append(f.rasterDocs, doc)
	f.rasterScale = append(f.rasterScale, scale)
	for i := range dst[:stride*h] {
		dst[i] = f.fill
	}
}

func (f *fakeEngine) DeleteDocument(doc engine.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[doc]++
}

func (f *fakeEngine) DeleteRasterizer(r engine.Rasterizer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rasts[r]++
}

func (f *fakeEngine) SetLogger(l *slog.Logger) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logger = l
}

// deletes returns how many times each created handle was released.
func (f *fakeEngine) deletes() (docs, rasts []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.docs {
		docs = append(docs, n)
	}
	for _, n := range f.rasts {
		rasts = append(rasts, n)
	}
	return docs, rasts
}

func (f *fakeEngine) docDeletes(h engine.Document) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[h]
}

func (f *fakeEngine) rastDeletes(h engine.Rasterizer) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rasts[h]
}

func (f *fakeEngine) calls() (parses, rasterizes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.parses, f.rasterizes
}
