package sensor

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"
)

const (
	// line held high before the start signal so the sensor sees a clean edge
	RELEASE_DELAY = 20 * time.Millisecond
	// long enough for response (160us) and 40 bits (<= 120us each)
	CAPTURE_WINDOW = 8 * time.Millisecond
)

// Bus drives the single-wire DHT protocol on a GPIO pin.
type Bus interface {
	// Exchange pulls the line low for startSignal, releases it and returns
	// the widths of the high pulses driven by the sensor, in order.
	Exchange(pin uint8, startSignal time.Duration) ([]time.Duration, error)
}

var ErrBusClosed = errors.New("gpio bus closed")

// RPIOBus is a Bus backed by /dev/gpiomem. Once closed, the mapped memory
// is gone and every Exchange fails with ErrBusClosed.
type RPIOBus struct {
	mu     sync.Mutex
	closed bool
	unmap  func() error
}

func OpenRPIOBus() (*RPIOBus, error) {
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "failed to open gpio memory range")
	}
	return &RPIOBus{unmap: rpio.Close}, nil
}

func (b *RPIOBus) Exchange(pin uint8, startSignal time.Duration) ([]time.Duration, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	p := rpio.Pin(pin)
	p.Output()
	p.High()
	time.Sleep(RELEASE_DELAY)
	p.Low()
	time.Sleep(startSignal)

	p.Input()
	p.PullUp()

	return capture(func() bool {
		return p.Read() == rpio.High
	}, time.Now, CAPTURE_WINDOW), nil
}

// Close waits for an exchange in progress and unmaps the GPIO memory.
func (b *RPIOBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.unmap()
}

// capture busy-samples the line for window and returns the width of every
// complete high period.
func capture(level func() bool, now func() time.Time, window time.Duration) []time.Duration {
	pulses := make([]time.Duration, 0, FRAME_BITS+2)

	start := now()
	deadline := start.Add(window)
	last := level()
	lastChange := start

	for t := now(); t.Before(deadline); t = now() {
		current := level()
		if current == last {
			continue
		}
		if last {
			pulses = append(pulses, t.Sub(lastChange))
		}
		last = current
		lastChange = t
	}
	return pulses
}
