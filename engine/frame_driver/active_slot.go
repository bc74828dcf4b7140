package frame_driver

// Advancer is the per-frame work installed in an ActiveSlot.
type Advancer interface {
	// Advance renders or updates one frame.
	//
	// Parameters:
	//   - timestamp: the frame time in milliseconds, non-decreasing across calls
	Advance(timestamp float64)
}

// AdvancerFunc adapts a plain function to the Advancer interface.
type AdvancerFunc func(timestamp float64)

// Advance calls f(timestamp).
func (f AdvancerFunc) Advance(timestamp float64) {
	f(timestamp)
}

// ActiveSlot holds the currently installed Advancer. An empty slot is the only
// signal that stops a Driver: the next tick that finds it empty ends the frame chain.
type ActiveSlot interface {
	// Active returns the installed Advancer, or nil when the slot is empty.
	Active() Advancer

	// SetActive installs a, replacing any previous Advancer. Passing nil empties the slot.
	SetActive(a Advancer)

	// Clear empties the slot.
	Clear()
}

// activeSlot is the implementation of the ActiveSlot interface.
type activeSlot struct {
	active Advancer
}

var _ ActiveSlot = &activeSlot{}

// NewActiveSlot creates an empty ActiveSlot.
//
// Returns:
//   - ActiveSlot: a slot with no Advancer installed
func NewActiveSlot() ActiveSlot {
	return &activeSlot{}
}

func (s *activeSlot) Active() Advancer {
	return s.active
}

func (s *activeSlot) SetActive(a Advancer) {
	s.active = a
}

func (s *activeSlot) Clear() {
	s.active = nil
}
