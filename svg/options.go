package svg

import (
	"log/slog"
	"sync"

	"github.com/ByLCY/svgbridge/engine"
	canvasengine "github.com/ByLCY/svgbridge/engine/canvas"
)

// Options 配置 Loader 所需的依赖，例如底层矢量引擎。
type Options struct {
	Engine    engine.Engine // 为空时使用基于 tdewolff/canvas 的默认引擎
	Logger    *slog.Logger  // 为空时使用包级 Logger()
	MaxPixels int           // 单次光栅化允许的最大像素数，0 表示只受 int 溢出限制
}

// Loader parses documents and creates rasterizers on one engine.
type Loader struct {
	eng       engine.Engine
	log       *slog.Logger
	maxPixels int
}

// New returns a Loader for opts. A logger given here is also handed to the
// engine if it accepts one.
func New(opts Options) *Loader {
	eng := opts.Engine
	if eng == nil {
		eng = canvasengine.New()
	}
	if opts.Logger != nil {
		if s, ok := eng.(engine.LoggerSetter); ok {
			s.SetLogger(opts.Logger)
		}
	}
	maxPixels := opts.MaxPixels
	if maxPixels < 0 {
		maxPixels = 0
	}
	return &Loader{eng: eng, log: opts.Logger, maxPixels: maxPixels}
}

func (l *Loader) logger() *slog.Logger {
	if l.log != nil {
		return l.log
	}
	return Logger()
}

// Engine returns the engine the loader drives.
func (l *Loader) Engine() engine.Engine {
	return l.eng
}

var defaultLoader = sync.OnceValue(func() *Loader {
	return New(Options{})
})
