package frame_driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrameQueueDefersRequestsMadeDuringFlush(t *testing.T) {
	q := NewFrameQueue()
	var seen []float64

	var cb FrameCallback
	cb = func(ts float64) {
		seen = append(seen, ts)
		q.RequestFrame(cb)
	}
	q.RequestFrame(cb)

	assert.Equal(t, 1, q.Flush(10))
	assert.Equal(t, 1, q.Pending())
	assert.Equal(t, 1, q.Flush(20))
	assert.Equal(t, []float64{10, 20}, seen)
}

func TestFrameQueueTimestampsNeverDecrease(t *testing.T) {
	q := NewFrameQueue()
	var seen []float64

	for _, ts := range []float64{5, 3, 8} {
		q.RequestFrame(func(got float64) { seen = append(seen, got) })
		q.Flush(ts)
	}

	assert.Equal(t, []float64{5, 5, 8}, seen)
}

func TestFrameQueueIgnoresNil(t *testing.T) {
	q := NewFrameQueue()
	q.RequestFrame(nil)

	assert.Equal(t, 0, q.Pending())
	assert.Equal(t, 0, q.Flush(1))
}

func TestFrameQueueRunsInRequestOrder(t *testing.T) {
	q := NewFrameQueue()
	var order []int
	for i := range 3 {
		q.RequestFrame(func(float64) { order = append(order, i) })
	}

	assert.Equal(t, 3, q.Flush(0))
	assert.Equal(t, []int{0, 1, 2}, order)
}
