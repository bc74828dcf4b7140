package frame_driver

import "go.uber.org/zap"

// driver is the implementation of the Driver interface.
// A driver owns at most one live frame chain: a callback registered with the scheduler that
// re-registers itself after every tick until it finds the slot empty.
type driver struct {
	slot      ActiveSlot
	scheduler Scheduler
	logger    *zap.Logger

	chainAlive bool
	ticks      uint64
	chains     uint64
}

// Driver runs the Advancer held in an ActiveSlot once per frame until the slot is emptied.
//
// A Driver is not safe for concurrent use. Start, the scheduler's callbacks and any code that
// clears the slot must all run on the same goroutine as the frame loop.
type Driver interface {
	// Start installs a as the active Advancer and makes sure a frame chain is running.
	// If a chain is already alive, only the slot changes: a takes over from the next tick and
	// no second chain is created. If the previous chain has terminated, a new one is started.
	// Passing nil empties the slot, which stops the chain at its next tick.
	//
	// Parameters:
	//   - a: the Advancer to run every frame
	Start(a Advancer)

	// Running reports whether a frame chain is alive, meaning a tick is scheduled.
	Running() bool

	// Slot returns the ActiveSlot the driver reads on every tick.
	Slot() ActiveSlot

	// Ticks returns the number of ticks that invoked an Advancer.
	Ticks() uint64

	// Chains returns the number of frame chains started over the driver's lifetime.
	Chains() uint64
}

var _ Driver = &driver{}

// NewDriver creates a Driver reading the given slot and scheduling through the given scheduler.
// Nothing is scheduled until Start is called.
//
// Parameters:
//   - slot: the ActiveSlot holding the Advancer to run; the caller owns it and may clear it at any time
//   - scheduler: the Scheduler used to request each next frame
//   - options: functional options applied to the driver
//
// Returns:
//   - Driver: the new driver
func NewDriver(slot ActiveSlot, scheduler Scheduler, options ...DriverBuilderOption) Driver {
	d := &driver{
		slot:      slot,
		scheduler: scheduler,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		opt(d)
	}
	if d.slot == nil {
		d.slot = NewActiveSlot()
	}
	return d
}

func (d *driver) Start(a Advancer) {
	d.slot.SetActive(a)
	if a == nil || d.chainAlive {
		return
	}
	d.chainAlive = true
	d.chains++
	d.logger.Debug("frame chain started", zap.Uint64("chain", d.chains))
	d.scheduler.RequestFrame(d.tick)
}

func (d *driver) Running() bool {
	return d.chainAlive
}

func (d *driver) Slot() ActiveSlot {
	return d.slot
}

func (d *driver) Ticks() uint64 {
	return d.ticks
}

func (d *driver) Chains() uint64 {
	return d.chains
}

// tick is the body of the frame chain. The slot is read once at the top: an empty slot ends the
// chain without scheduling again, otherwise the Advancer runs and exactly one further frame is requested.
func (d *driver) tick(timestamp float64) {
	a := d.slot.Active()
	if a == nil {
		d.chainAlive = false
		d.logger.Debug("frame chain stopped", zap.Uint64("chain", d.chains), zap.Uint64("ticks", d.ticks))
		return
	}
	d.ticks++
	a.Advance(timestamp)
	d.scheduler.RequestFrame(d.tick)
}
