package main

import (
	"fmt"
	"strings"

	"forward-renderer/renderer"
)

// DebugOverlay collects per-frame statistics and renders them as a single
// line for the window title, refreshed every period seconds.
type DebugOverlay struct {
	lines   []string
	period  float32
	elapsed float32
	frames  int
}

func NewDebugOverlay(period float32) *DebugOverlay {
	return &DebugOverlay{period: period}
}

func (do *DebugOverlay) AddLine(format string, args ...interface{}) {
	do.lines = append(do.lines, fmt.Sprintf(format, args...))
}

func (do *DebugOverlay) Clear() {
	do.lines = do.lines[:0]
}

func (do *DebugOverlay) Text() string {
	return strings.Join(do.lines, " | ")
}

// Tick accounts one frame. When a period has elapsed it rebuilds the lines
// from stats and returns the new text with true.
func (do *DebugOverlay) Tick(dt float32, stats renderer.FrameStats) (string, bool) {
	do.elapsed += dt
	do.frames++
	if do.elapsed < do.period {
		return "", false
	}

	fps := float32(do.frames) / do.elapsed
	do.elapsed, do.frames = 0, 0

	do.Clear()
	do.AddLine("%.0f fps", fps)
	do.AddLine("%d draws", stats.Draws())
	do.AddLine("shadow %d", stats.PassDraws(renderer.ShadowPassName))
	do.AddLine("lit %d", stats.PassDraws(renderer.LitPassName))
	if stats.Culled > 0 {
		do.AddLine("culled %d", stats.Culled)
	}
	do.AddLine("%.2f ms", float64(stats.FrameTime.Microseconds())/1000)
	return do.Text(), true
}
