package engine

import (
	"testing"
	"time"
)

func TestSystemClock(t *testing.T) {
	clock := NewSystemClock()

	t1 := clock.Now()
	clock.Sleep(10 * time.Millisecond)
	t2 := clock.Now()

	if !t2.After(t1) {
		t.Errorf("Expected t2 to be after t1, but got t1=%v, t2=%v", t1, t2)
	}

	// time.Now() carries a monotonic reading, Sub uses it
	diff := t2.Sub(t1)
	if diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestSystemClockSleepNonPositive(t *testing.T) {
	clock := NewSystemClock()

	start := time.Now()
	clock.Sleep(0)
	clock.Sleep(-time.Second)
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("Expected non-positive sleep to return immediately, took %v", time.Since(start))
	}
}

func TestMockClock(t *testing.T) {
	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockClock(startTime)

	if now := mock.Now(); !now.Equal(startTime) {
		t.Errorf("Expected initial time to be %v, got %v", startTime, now)
	}

	newTime := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	mock.SetTime(newTime)
	if now := mock.Now(); !now.Equal(newTime) {
		t.Errorf("Expected time to be %v after SetTime, got %v", newTime, now)
	}

	mock.Advance(1 * time.Hour)
	expected := newTime.Add(1 * time.Hour)
	if now := mock.Now(); !now.Equal(expected) {
		t.Errorf("Expected time to be %v after Advance, got %v", expected, now)
	}
}

func TestMockClockSleepAdvances(t *testing.T) {
	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockClock(startTime)

	mock.Sleep(30 * time.Millisecond)
	mock.Sleep(0)
	mock.Sleep(20 * time.Millisecond)

	expected := startTime.Add(50 * time.Millisecond)
	if now := mock.Now(); !now.Equal(expected) {
		t.Errorf("Expected time to be %v after sleeps, got %v", expected, now)
	}

	slept := mock.Slept()
	if len(slept) != 3 {
		t.Fatalf("Expected 3 recorded sleeps, got %d", len(slept))
	}
	if slept[0] != 30*time.Millisecond || slept[1] != 0 || slept[2] != 20*time.Millisecond {
		t.Errorf("Unexpected recorded sleeps: %v", slept)
	}
}

func TestMockClockConcurrency(t *testing.T) {
	startTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockClock(startTime)

	done := make(chan bool)

	// Multiple readers
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mock.Now()
			}
			done <- true
		}()
	}

	// Multiple writers
	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 50; j++ {
				mock.Advance(1 * time.Millisecond)
			}
			done <- true
		}()
	}

	for i := 0; i < 15; i++ {
		<-done
	}

	// 5 * 50 * 1ms = 250ms
	expected := startTime.Add(250 * time.Millisecond)
	if now := mock.Now(); !now.Equal(expected) {
		t.Errorf("Expected time to be %v after concurrent operations, got %v", expected, now)
	}
}

func TestClockInterface(t *testing.T) {
	var _ Clock = &SystemClock{}
	var _ Clock = &MockClock{}
}
