// Package svg parses SVG documents and rasterizes them to RGBA pixels through
// an unmanaged vector engine.
//
// A Document or Rasterizer owns exactly one engine handle. Close releases it;
// a value dropped without Close is released by the runtime once unreachable.
// Every failure is reported as an *Error whose Kind names the failing stage:
//
//	doc, err := svg.ParseFile("icon.svg", units.Pixel, 96)
//	if err != nil {
//		return err
//	}
//	defer doc.Close()
//	img, err := doc.Rasterize(2)
package svg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/ByLCY/svgbridge/engine"
	"github.com/ByLCY/svgbridge/ffi"
	"github.com/ByLCY/svgbridge/units"
)

var errNoDocument = errors.New("engine returned no document")

// Document is a parsed SVG document.
//
// Width and Height may be called concurrently with anything, including Close.
// Rasterizing one Document from several goroutines is safe; the engine only
// reads it.
type Document struct {
	loader *Loader

	mu     sync.RWMutex
	handle engine.Document

	width, height float32
	unit          units.Unit
	cleanup       runtime.Cleanup
}

// docRelease is what the runtime cleanup needs; it must not refer to the Document.
type docRelease struct {
	eng    engine.Engine
	handle engine.Document
	log    *slog.Logger
}

func releaseDocument(r docRelease) {
	r.log.Warn("svg: document released without Close", "handle", uintptr(r.handle))
	r.eng.DeleteDocument(r.handle)
}

// ParseFile reads and parses the SVG file at path using the default engine.
func ParseFile(path string, unit units.Unit, dpi float32) (*Document, error) {
	return defaultLoader().ParseFile(path, unit, dpi)
}

// Parse parses SVG content using the default engine.
func Parse(content []byte, unit units.Unit, dpi float32) (*Document, error) {
	return defaultLoader().Parse(content, unit, dpi)
}

// ParseString is Parse for string content.
func ParseString(content string, unit units.Unit, dpi float32) (*Document, error) {
	return defaultLoader().ParseString(content, unit, dpi)
}

// ParseFile 读取并解析 path 处的 SVG 文件。
// 路径含零字节时返回 KindEncoding 错误且不会访问文件系统；读取失败返回 KindIO 错误。
func (l *Loader) ParseFile(path string, unit units.Unit, dpi float32) (*Document, error) {
	name, err := ffi.New(path)
	if err != nil {
		return nil, newError(KindEncoding, "parse", path, err)
	}
	data, err := os.ReadFile(name.String())
	if err != nil {
		return nil, newError(KindIO, "parse", path, err)
	}
	return l.parse(data, unit, dpi, path)
}

// Parse parses content, which must not contain zero bytes. A leading UTF-8
// byte order mark is ignored.
func (l *Loader) Parse(content []byte, unit units.Unit, dpi float32) (*Document, error) {
	return l.parse(content, unit, dpi, "")
}

func (l *Loader) ParseString(content string, unit units.Unit, dpi float32) (*Document, error) {
	return l.parse([]byte(content), unit, dpi, "")
}

func (l *Loader) parse(content []byte, unit units.Unit, dpi float32, path string) (*Document, error) {
	if !unit.Valid() {
		return nil, newError(KindEncoding, "parse", path, fmt.Errorf("无效单位 %v", unit))
	}
	input, err := ffi.FromDocument(content)
	if err != nil {
		return nil, newError(KindEncoding, "parse", path, err)
	}

	h := l.eng.Parse(input.Bytes(), unit.Token(), dpi)
	if h == engine.Null {
		return nil, newError(KindParse, "parse", path, errNoDocument)
	}
	w, ht := l.eng.Size(h)

	d := &Document{loader: l, handle: h, width: w, height: ht, unit: unit}
	d.cleanup = runtime.AddCleanup(d, releaseDocument, docRelease{eng: l.eng, handle: h, log: l.logger()})
	l.logger().Debug("svg: document parsed",
		"handle", uintptr(h), "width", w, "height", ht, "unit", unit.String(), "dpi", dpi)
	return d, nil
}

// Width returns the document width in the unit it was parsed with.
func (d *Document) Width() float32 { return d.width }

// Height returns the document height in the unit it was parsed with.
func (d *Document) Height() float32 { return d.height }

// Unit returns the unit Width and Height are expressed in.
func (d *Document) Unit() units.Unit { return d.unit }

// Rasterize renders the document at scale using a rasterizer created for this
// call and released before returning.
func (d *Document) Rasterize(scale float32) (*Image, error) {
	r, err := d.loader.NewRasterizer()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Rasterize(d, scale)
}

// Close releases the engine document. Calling Close again does nothing.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.handle == engine.Null {
		return nil
	}
	h := d.handle
	d.handle = engine.Null
	d.cleanup.Stop()
	d.loader.eng.DeleteDocument(h)
	d.loader.logger().Debug("svg: document closed", "handle", uintptr(h))
	return nil
}
