package core

// Key identifies a keyboard key independently of the windowing backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyX
	KeySpace
	KeyShift
	KeyControl
	KeyPlus
	KeyMinus
	KeyEscape
	KeyC

	KeyCount
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle

	MouseButtonCount
)

// InputState is the per-tick view of keyboard and mouse state consumed by
// Camera.Update. MouseDelta is the cursor movement since the previous poll.
type InputState interface {
	KeyDown(k Key) bool
	MouseButtonDown(b MouseButton) bool
	MouseDelta() (dx, dy float32)
}

// InputSnapshot is a plain-value InputState. Window backends fill one per
// frame; tests build them directly.
type InputSnapshot struct {
	Keys    [KeyCount]bool
	Buttons [MouseButtonCount]bool
	DeltaX  float32
	DeltaY  float32
}

func (s *InputSnapshot) KeyDown(k Key) bool {
	if k <= KeyUnknown || k >= KeyCount {
		return false
	}
	return s.Keys[k]
}

func (s *InputSnapshot) MouseButtonDown(b MouseButton) bool {
	if b < 0 || b >= MouseButtonCount {
		return false
	}
	return s.Buttons[b]
}

func (s *InputSnapshot) MouseDelta() (float32, float32) {
	return s.DeltaX, s.DeltaY
}

// Press marks keys as held and returns the snapshot for chaining.
func (s *InputSnapshot) Press(keys ...Key) *InputSnapshot {
	for _, k := range keys {
		if k > KeyUnknown && k < KeyCount {
			s.Keys[k] = true
		}
	}
	return s
}
