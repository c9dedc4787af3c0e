package meter_reader

import (
	"testing"
	"time"
)

// instantWriter returns immediately, like a kernel-buffered serial write.
type instantWriter struct{}

func (instantWriter) Write(p []byte) (int, error) { return len(p), nil }

// slowWriter consumes real time on every write.
type slowWriter struct {
	delay time.Duration
}

func (w slowWriter) Write(p []byte) (int, error) {
	time.Sleep(w.delay)
	return len(p), nil
}

func TestExpectedDuration(t *testing.T) {
	// 5 bytes of 10 bits each at 300 baud: 50/300 seconds.
	got := ExpectedDuration(5, 300, 7)
	seconds := float64(50) / 300
	want := time.Duration(seconds * float64(time.Second))
	if got != want {
		t.Errorf("ExpectedDuration(5, 300, 7) = %v, want %v", got, want)
	}
	if got < 166*time.Millisecond || got > 167*time.Millisecond {
		t.Errorf("ExpectedDuration(5, 300, 7) = %v, want ~166.7ms", got)
	}
}

func TestWriteDetectsNonBlockingChannel(t *testing.T) {
	controller := NewTimingController()
	var slept []time.Duration
	controller.sleep = func(d time.Duration) { slept = append(slept, d) }

	data := []byte("/?!\r\n")
	if err := controller.Write(instantWriter{}, data, 300, 7); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if controller.Blocking() {
		t.Error("Blocking() = true after instant write, want false")
	}
	if len(slept) != 1 {
		t.Fatalf("slept %d times, want 1", len(slept))
	}
	if slept[0] < 160*time.Millisecond {
		t.Errorf("slept %v, want close to the 166.7ms wire time", slept[0])
	}

	// The flag persists: every later write on the session sleeps the
	// residual wire time too.
	if err := controller.Write(instantWriter{}, data, 300, 7); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
	if len(slept) != 2 {
		t.Errorf("slept %d times after second write, want 2", len(slept))
	}
}

func TestWriteLeavesBlockingChannelAlone(t *testing.T) {
	controller := NewTimingController()
	var slept []time.Duration
	controller.sleep = func(d time.Duration) { slept = append(slept, d) }

	// One byte at 19200 baud is ~520µs of wire time; a 5ms write is
	// clearly a blocking channel.
	if err := controller.Write(slowWriter{delay: 5 * time.Millisecond}, []byte{0x06}, 19200, 7); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !controller.Blocking() {
		t.Error("Blocking() = false after slow write, want true")
	}
	if len(slept) != 0 {
		t.Errorf("slept %d times on blocking channel, want 0", len(slept))
	}
}
