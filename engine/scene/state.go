package scene

import "github.com/Carmen-Shannon/sunwave/engine/frame_driver"

// state is the implementation of the State interface.
type state struct {
	cursor [2]float32
	slot   frame_driver.ActiveSlot
}

// State is the ambient data shared by the pointer handler, the frame driver and the running scene:
// the cursor in normalized device coordinates and the slot holding the active per-frame callback.
//
// State is owned by the main loop goroutine and is not safe for concurrent use.
type State interface {
	// Cursor returns the last cursor position, each axis in [-1, 1]. (0, 0) until the first move.
	Cursor() [2]float32

	// SetCursor stores an already-normalized cursor position.
	SetCursor(x, y float32)

	// MoveCursor normalizes a pointer offset within a surface of the given size and stores it.
	// Moves over a zero sized surface are ignored.
	//
	// Parameters:
	//   - x: horizontal offset in pixels from the left edge
	//   - y: vertical offset in pixels from the top edge
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	MoveCursor(x, y float64, width, height int)

	// Slot returns the active callback slot. Clearing it stops the frame loop at its next tick.
	Slot() frame_driver.ActiveSlot
}

var _ State = &state{}

// NewState creates a State with the cursor at the origin and an empty slot.
//
// Returns:
//   - State: the new state
func NewState() State {
	return &state{slot: frame_driver.NewActiveSlot()}
}

func (s *state) Cursor() [2]float32 {
	return s.cursor
}

func (s *state) SetCursor(x, y float32) {
	s.cursor = [2]float32{x, y}
}

func (s *state) MoveCursor(x, y float64, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	nx, ny := NormalizeCursor(x, y, width, height)
	s.cursor = [2]float32{nx, ny}
}

func (s *state) Slot() frame_driver.ActiveSlot {
	return s.slot
}

// NormalizeCursor maps a pixel offset within a width x height surface to normalized device
// coordinates with y pointing up. Offsets outside the surface map outside [-1, 1].
//
// Parameters:
//   - x: horizontal offset in pixels from the left edge
//   - y: vertical offset in pixels from the top edge
//   - width: surface width in pixels, must be positive
//   - height: surface height in pixels, must be positive
//
// Returns:
//   - float32: x in NDC
//   - float32: y in NDC
func NormalizeCursor(x, y float64, width, height int) (float32, float32) {
	nx := x/float64(width)*2 - 1
	ny := y/float64(height)*-2 + 1
	return float32(nx), float32(ny)
}
