// Package ffi converts host text into the NUL-terminated form the engine reads.
//
// The engine finds the end of every string by scanning for a zero byte, so a
// zero byte inside the text would silently truncate it. Conversion therefore
// rejects such input instead of passing it through.
package ffi

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// NulError reports a zero byte found inside text meant for the engine.
type NulError struct {
	Pos int // byte offset of the first zero byte
	Len int // length of the rejected input
}

func (e *NulError) Error() string {
	return fmt.Sprintf("ffi: 在第 %d 字节处发现内嵌零字节（共 %d 字节）", e.Pos, e.Len)
}

// CString is an immutable byte string terminated by exactly one zero byte.
// The zero value is the empty string.
type CString struct {
	b []byte
}

// New copies s into a CString.
func New(s string) (CString, error) {
	if i := indexNul([]byte(s)); i >= 0 {
		return CString{}, &NulError{Pos: i, Len: len(s)}
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return CString{b: b}, nil
}

// FromBytes copies b into a CString.
func FromBytes(b []byte) (CString, error) {
	if i := indexNul(b); i >= 0 {
		return CString{}, &NulError{Pos: i, Len: len(b)}
	}
	out := make([]byte, len(b)+1)
	copy(out, b)
	return CString{b: out}, nil
}

// FromDocument 与 FromBytes 相同，但额外处理以 UTF-8 BOM 开头的文档：
// 去掉 BOM，并把其中不合法的 UTF-8 序列替换为 U+FFFD。
// 零字节检查在原始输入上进行，错误中的位置对应调用方传入的字节。
func FromDocument(b []byte) (CString, error) {
	if i := indexNul(b); i >= 0 {
		return CString{}, &NulError{Pos: i, Len: len(b)}
	}
	if !bytes.HasPrefix(b, utf8BOM) {
		return FromBytes(b)
	}
	clean, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), b)
	if err != nil {
		return CString{}, fmt.Errorf("ffi: 规范化 UTF-8 文本失败: %w", err)
	}
	return FromBytes(clean)
}

// Bytes returns the string including its terminator. The result aliases the
// CString and must not be modified.
func (c CString) Bytes() []byte {
	if c.b == nil {
		return []byte{0}
	}
	return c.b[:len(c.b):len(c.b)]
}

// Len returns the length without the terminator.
func (c CString) Len() int {
	if c.b == nil {
		return 0
	}
	return len(c.b) - 1
}

func (c CString) String() string {
	if c.b == nil {
		return ""
	}
	return string(c.b[:len(c.b)-1])
}

// GoBytes returns p up to, not including, its first zero byte. Engines use it
// to read strings handed across the boundary; p without a terminator is
// returned whole.
func GoBytes(p []byte) []byte {
	if i := indexNul(p); i >= 0 {
		return p[:i]
	}
	return p
}

// TrimString returns s up to its first zero byte.
func TrimString(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

func indexNul(b []byte) int { return bytes.IndexByte(b, 0) }
