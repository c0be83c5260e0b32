// waitstrategy.go: Pluggable consumer wait strategies
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import (
	"runtime"
	"sync"
	"time"

	"github.com/gflogger/gflogger/gferrors"
)

// WaitStrategy is the pluggable blocking discipline by which a consumer
// waits for the next published sequence, and by which a producer waits
// for backpressure to clear. Every strategy must observe halt on each
// loop iteration and fail with gferrors.ErrCodeShutdown rather than
// spinning forever once it is set.
//
// WaitFor's second argument is a cursor accessor rather than a
// Sequencer directly: the same strategy backs both a consumer waiting
// for publishCursor to advance (§4.5) and a producer's claim() waiting
// for consumerCursor to advance past the ring's wrap point (§4.3's
// backpressure hook) -- the two differ only in which cursor they poll.
type WaitStrategy interface {
	// WaitFor blocks until cursor() >= seq, or halt is set. The
	// returned value may be higher than seq, since publications (or
	// releases) may have advanced further while waiting.
	WaitFor(seq int64, cursor func() int64, halt *HaltFlag) (int64, error)

	// SignalAllWhenBlocking wakes any goroutine parked in WaitFor.
	// Strategies that only spin implement this as a no-op.
	SignalAllWhenBlocking()
}

// BusySpinWaitStrategy tightly spins on the sequencer's cursor. Lowest
// latency; intended for a dedicated core where burning CPU is acceptable.
type BusySpinWaitStrategy struct{}

func NewBusySpinWaitStrategy() *BusySpinWaitStrategy { return &BusySpinWaitStrategy{} }

func (w *BusySpinWaitStrategy) WaitFor(seq int64, cursor func() int64, halt *HaltFlag) (int64, error) {
	for {
		if available := cursor(); available >= seq {
			return available, nil
		}
		if halt.IsSet() {
			return -1, gferrors.New(gferrors.ErrCodeShutdown, "wait strategy halted")
		}
	}
}

func (w *BusySpinWaitStrategy) SignalAllWhenBlocking() {}

// YieldingWaitStrategy spins for a bounded number of iterations, then
// yields the scheduler. Good latency while sharing a core with other work.
type YieldingWaitStrategy struct {
	spinTries int
}

func NewYieldingWaitStrategy() *YieldingWaitStrategy {
	return &YieldingWaitStrategy{spinTries: 100}
}

func (w *YieldingWaitStrategy) WaitFor(seq int64, cursor func() int64, halt *HaltFlag) (int64, error) {
	counter := w.spinTries
	for {
		if available := cursor(); available >= seq {
			return available, nil
		}
		if halt.IsSet() {
			return -1, gferrors.New(gferrors.ErrCodeShutdown, "wait strategy halted")
		}
		if counter == 0 {
			runtime.Gosched()
		} else {
			counter--
		}
	}
}

func (w *YieldingWaitStrategy) SignalAllWhenBlocking() {}

// SleepingWaitStrategy spins, then yields, then sleeps in exponentially
// increasing intervals up to a cap. Balanced CPU/latency trade-off.
type SleepingWaitStrategy struct {
	spinTries  int
	yieldTries int
	maxSleep   time.Duration
}

func NewSleepingWaitStrategy() *SleepingWaitStrategy {
	return &SleepingWaitStrategy{spinTries: 100, yieldTries: 100, maxSleep: time.Millisecond}
}

func (w *SleepingWaitStrategy) WaitFor(seq int64, cursor func() int64, halt *HaltFlag) (int64, error) {
	spins, yields := w.spinTries, w.yieldTries
	sleep := time.Microsecond
	for {
		if available := cursor(); available >= seq {
			return available, nil
		}
		if halt.IsSet() {
			return -1, gferrors.New(gferrors.ErrCodeShutdown, "wait strategy halted")
		}
		switch {
		case spins > 0:
			spins--
		case yields > 0:
			yields--
			runtime.Gosched()
		default:
			time.Sleep(sleep)
			if sleep < w.maxSleep {
				sleep *= 2
				if sleep > w.maxSleep {
					sleep = w.maxSleep
				}
			}
		}
	}
}

func (w *SleepingWaitStrategy) SignalAllWhenBlocking() {}

// BlockingWaitStrategy parks on a condition variable signalled at
// publish. Lowest CPU usage at low throughput, at the cost of wake-up
// latency.
type BlockingWaitStrategy struct {
	mu   sync.Mutex
	cond *sync.Cond
}

func NewBlockingWaitStrategy() *BlockingWaitStrategy {
	w := &BlockingWaitStrategy{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

func (w *BlockingWaitStrategy) WaitFor(seq int64, cursor func() int64, halt *HaltFlag) (int64, error) {
	if available := cursor(); available >= seq {
		return available, nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for {
		if available := cursor(); available >= seq {
			return available, nil
		}
		if halt.IsSet() {
			return -1, gferrors.New(gferrors.ErrCodeShutdown, "wait strategy halted")
		}
		w.cond.Wait()
	}
}

func (w *BlockingWaitStrategy) SignalAllWhenBlocking() {
	w.mu.Lock()
	w.cond.Broadcast()
	w.mu.Unlock()
}

// NewWaitStrategy builds a WaitStrategy from the configuration name
// recognized by the gflogger.wait.strategy-style key: "busy-spin",
// "yielding", "sleeping" or "blocking".
func NewWaitStrategy(name string) (WaitStrategy, error) {
	switch name {
	case "", "busy-spin":
		return NewBusySpinWaitStrategy(), nil
	case "yielding":
		return NewYieldingWaitStrategy(), nil
	case "sleeping":
		return NewSleepingWaitStrategy(), nil
	case "blocking":
		return NewBlockingWaitStrategy(), nil
	default:
		return nil, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "unknown wait strategy", "name", name)
	}
}
