package renderer

import "time"

type PassStats struct {
	Name  string
	Draws int
}

// FrameStats describes the most recent Draw call.
type FrameStats struct {
	Frame     uint64
	Passes    []PassStats
	Entities  int
	Culled    int
	FrameTime time.Duration
}

// Draws returns the total draw count across all passes.
func (s FrameStats) Draws() int {
	n := 0
	for _, p := range s.Passes {
		n += p.Draws
	}
	return n
}

// PassDraws returns the draw count of the named pass, or 0 if it did not
// run.
func (s FrameStats) PassDraws(name string) int {
	for _, p := range s.Passes {
		if p.Name == name {
			return p.Draws
		}
	}
	return 0
}
