package meter_reader

import (
	"io"
	"time"

	log "github.com/sirupsen/logrus"
)

// minReactionTime is the protocol's minimum reaction time between messages.
const minReactionTime = 200 * time.Millisecond

// DefaultReadTimeout is the channel read timeout, twice the minimum
// reaction time.
const DefaultReadTimeout = 2 * minReactionTime

// TimingController paces writes so the engine never runs ahead of the
// physical transmission. Some serial stacks buffer writes in the kernel and
// return immediately; the first write of a session detects that, and every
// later write on such a channel sleeps the residual wire time.
type TimingController struct {
	blocking   bool
	calibrated bool
	sleep      func(time.Duration)
}

func NewTimingController() *TimingController {
	return &TimingController{
		blocking: true,
		sleep:    time.Sleep,
	}
}

// ExpectedDuration is the wire time of a buffer: each byte is framed with a
// start bit, a parity bit and a stop bit on top of its data bits.
func ExpectedDuration(byteCount, baudrate, dataBits int) time.Duration {
	bitsPerFrame := dataBits + 3
	return time.Duration(float64(byteCount*bitsPerFrame) / float64(baudrate) * float64(time.Second))
}

// Write sends the buffer and waits out the remaining transmission time when
// the channel returned before the bytes can have left the wire.
func (t *TimingController) Write(ch io.Writer, data []byte, baudrate, dataBits int) error {
	expected := ExpectedDuration(len(data), baudrate, dataBits)

	start := time.Now()
	if _, err := ch.Write(data); err != nil {
		return err
	}
	elapsed := time.Since(start)

	if !t.calibrated {
		t.calibrated = true
		if elapsed < expected {
			t.blocking = false
			log.Infof("Non blocking serial writes, expected %v, actual %v", expected, elapsed)
		}
	}

	if !t.blocking && elapsed < expected {
		t.sleep(expected - elapsed)
	}
	return nil
}

// Blocking reports whether the channel consumed real wire time on the
// calibration write.
func (t *TimingController) Blocking() bool {
	return t.blocking
}
