package engine

import (
	"sync"
	"testing"

	"github.com/lixenwraith/vumeter/parameter"
)

// TestDriveQueueFIFO verifies updates come out in push order
func TestDriveQueueFIFO(t *testing.T) {
	q := NewDriveQueue()
	for i := 0; i < 5; i++ {
		q.Push(DriveUpdate{Channel: i % 2, Force: float64(i)})
	}

	if q.Len() != 5 {
		t.Errorf("Expected 5 pending, got %d", q.Len())
	}

	got := q.ConsumeInto(nil)
	if len(got) != 5 {
		t.Fatalf("Expected 5 updates, got %d", len(got))
	}
	for i, u := range got {
		if u.Force != float64(i) || u.Channel != i%2 {
			t.Errorf("Update %d: expected {%d %d}, got %+v", i, i%2, i, u)
		}
	}

	if again := q.ConsumeInto(nil); len(again) != 0 {
		t.Errorf("Expected empty queue after consume, got %d", len(again))
	}
}

// TestDriveQueueOverflow verifies the oldest updates are dropped and counted
func TestDriveQueueOverflow(t *testing.T) {
	q := NewDriveQueue()
	total := parameter.DriveQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(DriveUpdate{Force: float64(i)})
	}

	got := q.ConsumeInto(make([]DriveUpdate, 0, total))
	if len(got) != parameter.DriveQueueSize {
		t.Fatalf("Expected %d updates, got %d", parameter.DriveQueueSize, len(got))
	}
	if got[0].Force != 10 {
		t.Errorf("Expected oldest surviving update 10, got %f", got[0].Force)
	}
	if last := got[len(got)-1].Force; last != float64(total-1) {
		t.Errorf("Expected newest update %d, got %f", total-1, last)
	}
	if q.Overwritten() != 10 {
		t.Errorf("Expected 10 overwritten, got %d", q.Overwritten())
	}
}

// TestDriveQueueConsumeAppends verifies ConsumeInto keeps existing dst contents
func TestDriveQueueConsumeAppends(t *testing.T) {
	q := NewDriveQueue()
	q.Push(DriveUpdate{Channel: 1, Force: 0.5})

	dst := []DriveUpdate{{Channel: 0, Force: 0.1}}
	dst = q.ConsumeInto(dst)
	if len(dst) != 2 || dst[1].Force != 0.5 {
		t.Errorf("Expected appended update, got %+v", dst)
	}
}

// TestDriveQueueConcurrentProducers verifies no update is lost below capacity
func TestDriveQueueConcurrentProducers(t *testing.T) {
	q := NewDriveQueue()
	const producers = 4
	const each = parameter.DriveQueueSize / producers

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(ch int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(DriveUpdate{Channel: ch, Force: float64(i)})
			}
		}(p)
	}
	wg.Wait()

	got := q.ConsumeInto(nil)
	if len(got) != producers*each {
		t.Fatalf("Expected %d updates, got %d", producers*each, len(got))
	}

	// Per-producer order is preserved
	next := make([]float64, producers)
	for _, u := range got {
		if u.Force != next[u.Channel] {
			t.Fatalf("Channel %d: expected force %f, got %f", u.Channel, next[u.Channel], u.Force)
		}
		next[u.Channel]++
	}
}

// TestDriveQueueOverflowDuringConsume verifies a head advance racing the consumer's commit
// does not hide the surviving updates from the retry
func TestDriveQueueOverflowDuringConsume(t *testing.T) {
	q := NewDriveQueue()
	for i := 0; i < parameter.DriveQueueSize; i++ {
		q.Push(DriveUpdate{Force: float64(i)})
	}

	t.Cleanup(func() { beforeHeadCommit = nil })
	beforeHeadCommit = func() {
		beforeHeadCommit = nil
		for j := 0; j < 4; j++ {
			q.Push(DriveUpdate{Force: float64(1000 + j)})
		}
	}

	got := q.ConsumeInto(nil)
	if len(got) != parameter.DriveQueueSize {
		t.Fatalf("Expected %d updates after retry, got %d", parameter.DriveQueueSize, len(got))
	}
	if got[0].Force != 4 {
		t.Errorf("Expected oldest surviving update 4, got %f", got[0].Force)
	}
	if last := got[len(got)-1].Force; last != 1003 {
		t.Errorf("Expected newest update 1003, got %f", last)
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
}

// TestDriveQueueLaggingHead verifies consumption when head trails tail by more than capacity
func TestDriveQueueLaggingHead(t *testing.T) {
	q := NewDriveQueue()
	total := parameter.DriveQueueSize + 3
	for i := 0; i < total; i++ {
		q.Push(DriveUpdate{Force: float64(i)})
	}
	// A producer whose head CAS lost leaves head one behind its clamp
	q.head.Store(2)

	got := q.ConsumeInto(nil)
	if len(got) != parameter.DriveQueueSize {
		t.Fatalf("Expected %d updates, got %d", parameter.DriveQueueSize, len(got))
	}
	if got[0].Force != 3 {
		t.Errorf("Expected oldest surviving update 3, got %f", got[0].Force)
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
}
