package frame_driver

// FrameCallback receives the timestamp of the frame it was scheduled for, in milliseconds
// since the scheduler's time origin.
type FrameCallback func(timestamp float64)

// Scheduler requests a single callback on the next display refresh. Each request fires at most once.
type Scheduler interface {
	// RequestFrame schedules callback to run on the next frame.
	//
	// Parameters:
	//   - callback: the function to invoke with the next frame's timestamp
	RequestFrame(callback FrameCallback)
}

// FrameQueue is a Scheduler driven by an external loop. Callbacks requested while the queue
// is being flushed are deferred to the next Flush, so a callback that re-requests itself runs
// exactly once per Flush.
type FrameQueue interface {
	Scheduler

	// Flush runs every callback that was pending when Flush was entered, in request order.
	// Timestamps passed to callbacks never decrease: a timestamp lower than the previous
	// flush is raised to the previous value.
	//
	// Parameters:
	//   - timestamp: the current frame time in milliseconds
	//
	// Returns:
	//   - int: the number of callbacks that ran
	Flush(timestamp float64) int

	// Pending returns the number of callbacks waiting for the next Flush.
	Pending() int
}

// frameQueue is the implementation of the FrameQueue interface.
type frameQueue struct {
	pending []FrameCallback
	running []FrameCallback
	last    float64
}

var _ FrameQueue = &frameQueue{}

// NewFrameQueue creates an empty FrameQueue.
//
// Returns:
//   - FrameQueue: a queue with no pending callbacks
func NewFrameQueue() FrameQueue {
	return &frameQueue{
		pending: make([]FrameCallback, 0, 4),
		running: make([]FrameCallback, 0, 4),
	}
}

func (q *frameQueue) RequestFrame(callback FrameCallback) {
	if callback == nil {
		return
	}
	q.pending = append(q.pending, callback)
}

func (q *frameQueue) Flush(timestamp float64) int {
	if timestamp < q.last {
		timestamp = q.last
	}
	q.last = timestamp

	// swap buffers so callbacks requested from inside a callback land in the next batch
	q.running, q.pending = q.pending, q.running[:0]
	for i, cb := range q.running {
		cb(timestamp)
		q.running[i] = nil
	}
	n := len(q.running)
	q.running = q.running[:0]
	return n
}

func (q *frameQueue) Pending() int {
	return len(q.pending)
}
