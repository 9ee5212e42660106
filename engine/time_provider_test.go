package engine

import (
	"sync"
	"testing"
	"time"
)

// TestTimeProviderMonotonic verifies the wall clock moves forward across a sleep
func TestTimeProviderMonotonic(t *testing.T) {
	provider := NewTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

// TestMockTimeProvider verifies SetTime and Advance
func TestMockTimeProvider(t *testing.T) {
	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(startTime)

	if now := mock.Now(); !now.Equal(startTime) {
		t.Errorf("Expected initial time %v, got %v", startTime, now)
	}

	// Backwards jumps are allowed; the meter must cope with them
	earlier := startTime.Add(-time.Second)
	mock.SetTime(earlier)
	if now := mock.Now(); !now.Equal(earlier) {
		t.Errorf("Expected %v after SetTime, got %v", earlier, now)
	}

	got := mock.Advance(12 * time.Millisecond)
	if want := earlier.Add(12 * time.Millisecond); !got.Equal(want) || !mock.Now().Equal(want) {
		t.Errorf("Expected %v after Advance, got %v", want, got)
	}
}

// TestMockTimeProviderConcurrency verifies concurrent readers and writers
func TestMockTimeProviderConcurrency(t *testing.T) {
	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(startTime)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = mock.Now()
			}
		}()
	}
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				mock.Advance(time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if now, want := mock.Now(), startTime.Add(250*time.Millisecond); !now.Equal(want) {
		t.Errorf("Expected %v after concurrent advances, got %v", want, now)
	}
}

// TestClockImplementations verifies both providers satisfy Clock
func TestClockImplementations(t *testing.T) {
	var _ Clock = &TimeProvider{}
	var _ Clock = &MockTimeProvider{}
}
