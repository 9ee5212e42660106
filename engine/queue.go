package engine

import (
	"sync/atomic"

	"github.com/lixenwraith/vumeter/parameter"
)

// DriveUpdate carries the force computed from one audio block for one channel
type DriveUpdate struct {
	Channel int
	Force   float64
}

// DriveQueue is a lock-free MPSC ring buffer of drive updates
// Thread-Safety:
//   - Push: lock-free CAS, audio producers
//   - ConsumeInto: single consumer (the scheduler tick)
//   - Sequence stamps prevent reading partial or stale writes
//
// Overflow: oldest updates are overwritten; only the latest force per channel matters downstream
type DriveQueue struct {
	updates   [parameter.DriveQueueSize]DriveUpdate
	published [parameter.DriveQueueSize]atomic.Uint64 // Write index + 1 of the update in the slot
	head      atomic.Uint64                           // Read index
	tail      atomic.Uint64                           // Write index

	overwritten atomic.Uint64
}

// beforeHeadCommit runs between collecting updates and committing head; tests only
var beforeHeadCommit func()

// NewDriveQueue creates an empty queue
func NewDriveQueue() *DriveQueue {
	return &DriveQueue{}
}

// Push appends an update, O(1) amortized
func (q *DriveQueue) Push(u DriveUpdate) {
	for {
		currentTail := q.tail.Load()
		nextTail := currentTail + 1

		if q.tail.CompareAndSwap(currentTail, nextTail) {
			idx := currentTail & parameter.DriveQueueMask

			q.updates[idx] = u
			q.published[idx].Store(currentTail + 1) // MUST be after write

			// Advance head if overwriting unread updates
			currentHead := q.head.Load()
			if nextTail-currentHead > parameter.DriveQueueSize {
				if q.head.CompareAndSwap(currentHead, nextTail-parameter.DriveQueueSize) {
					q.overwritten.Add(nextTail - parameter.DriveQueueSize - currentHead)
				}
			}
			return
		}
	}
}

// ConsumeInto appends all pending updates to dst in FIFO order and advances head
func (q *DriveQueue) ConsumeInto(dst []DriveUpdate) []DriveUpdate {
	for {
		loadedHead := q.head.Load()
		currentTail := q.tail.Load()

		if currentTail == loadedHead {
			return dst
		}

		currentHead := loadedHead

		available := currentTail - currentHead
		if available > parameter.DriveQueueSize {
			available = parameter.DriveQueueSize
			currentHead = currentTail - parameter.DriveQueueSize
		}

		start := len(dst)
		for i := uint64(0); i < available; i++ {
			seq := currentHead + i
			idx := seq & parameter.DriveQueueMask

			if q.published[idx].Load() != seq+1 {
				break // Writer incomplete, picked up next tick
			}

			dst = append(dst, q.updates[idx])
		}

		if beforeHeadCommit != nil {
			beforeHeadCommit()
		}

		// Slots are never cleared: a failed commit rereads them, a stale stamp never matches
		newHead := currentHead + uint64(len(dst)-start)
		if q.head.CompareAndSwap(loadedHead, newHead) {
			return dst
		}
		dst = dst[:start]
	}
}

// Len returns the number of unread updates
func (q *DriveQueue) Len() int {
	n := q.tail.Load() - q.head.Load()
	if n > parameter.DriveQueueSize {
		n = parameter.DriveQueueSize
	}
	return int(n)
}

// Overwritten returns how many unread updates were dropped by overflow
func (q *DriveQueue) Overwritten() uint64 {
	return q.overwritten.Load()
}
