package units

import (
	"fmt"
	"strings"
)

// This file defines the closed set of output units understood by the engine.

// Unit selects the unit the engine reports document geometry in.
type Unit int

const (
	Pixel      Unit = iota // px
	Point                  // pt
	Percent                // pc
	Millimeter             // mm
	Centimeter             // cm
	Inch                   // in
)

// Token 返回引擎所需的以单个零字节结尾的单位标记。
// 返回值均为字符串常量，调用期间不会分配内存；非法单位返回空字符串。
func (u Unit) Token() string {
	switch u {
	case Pixel:
		return "px\x00"
	case Point:
		return "pt\x00"
	case Percent:
		return "pc\x00"
	case Millimeter:
		return "mm\x00"
	case Centimeter:
		return "cm\x00"
	case Inch:
		return "in\x00"
	default:
		return ""
	}
}

// String returns the token without its terminator.
func (u Unit) String() string {
	tok := u.Token()
	if tok == "" {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return tok[:len(tok)-1]
}

func (u Unit) Valid() bool { return u.Token() != "" }

// All lists every valid unit in declaration order.
func All() []Unit {
	return []Unit{Pixel, Point, Percent, Millimeter, Centimeter, Inch}
}

// Parse 将配置中的单位名称（px/pt/pc/mm/cm/in，忽略大小写与首尾空白）转换为 Unit。
func Parse(name string) (Unit, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, u := range All() {
		if u.String() == lower {
			return u, nil
		}
	}
	return 0, fmt.Errorf("未知单位 %q", name)
}
