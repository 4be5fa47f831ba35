// Package engine describes the unmanaged vector engine the svg package drives.
//
// Handles are opaque integers. Null (zero) is the failure signal for the two
// constructors; the engine reports nothing beyond null or non-null. Strings
// cross the boundary NUL-terminated, and Rasterize writes into memory owned
// by the caller.
package engine

import "log/slog"

// Document identifies a parsed document inside an engine.
type Document uintptr

// Rasterizer identifies rasterization scratch state inside an engine.
type Rasterizer uintptr

// Null is the zero handle returned on failure.
const Null = 0

// Engine 是外部矢量引擎暴露的原语集合。
//
// 同一句柄上的调用不保证并发安全；不同句柄之间互不共享状态。
type Engine interface {
	// Parse 解析以零字节结尾的文档内容；unit 为以零字节结尾的单位标记。
	// 失败时返回 Null。
	Parse(input []byte, unit string, dpi float32) Document
	// Size 返回文档在解析单位下的宽高。
	Size(doc Document) (width, height float32)
	// NewRasterizer 创建光栅化上下文，无法分配时返回 Null。
	NewRasterizer() Rasterizer
	// Rasterize 以 (tx, ty) 偏移和 scale 缩放把文档绘制到 dst，
	// 写入非预乘的 RGBA 像素，每行 stride 字节，最多写入 stride*h 字节。
	Rasterize(r Rasterizer, doc Document, tx, ty, scale float32, dst []byte, w, h, stride int)
	DeleteDocument(doc Document)
	DeleteRasterizer(r Rasterizer)
}

// LoggerSetter is implemented by engines that accept a logger.
type LoggerSetter interface {
	SetLogger(*slog.Logger)
}
