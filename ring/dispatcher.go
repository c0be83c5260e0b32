// dispatcher.go: Consumer-loop owner draining a ring into a Consumer
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import "github.com/gflogger/gflogger/gferrors"

// Consumer drains one batch of published slots. Dispatch is called once
// per sequence in ascending order; EndBatch is called once after every
// sequence in a wait-strategy wakeup has been dispatched, before the
// dispatcher advances the consumer cursor and releases those slots back
// to producers (§4.5, §4.6's batching/flush hook).
type Consumer interface {
	Dispatch(seq int64, slot *Slot) error
	EndBatch() error
}

// Dispatcher binds a fixed slot array to a Sequencer and WaitStrategy and
// pumps claimed -> published -> consumed -> released slots on a single
// dedicated goroutine (§4.5). Producers call Claim/Publish directly
// against Sequencer; Dispatcher owns only the consumer side plus the
// shared halt flag producers must observe.
type Dispatcher struct {
	slots []*Slot
	mask  int64

	sequencer Sequencer
	wait      WaitStrategy
	halt      HaltFlag

	consumer Consumer

	nextToProcess int64
	done          chan struct{}
}

// NewDispatcher builds a Dispatcher over a freshly allocated slot array of
// the given capacity (must be a power of two, matching sequencer's).
func NewDispatcher(capacity int, multibyte bool, slotBytes int, sequencer Sequencer, wait WaitStrategy, consumer Consumer) (*Dispatcher, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "dispatcher ring capacity must be a power of two", "capacity", itoa(int64(capacity)))
	}
	slots := make([]*Slot, capacity)
	for i := range slots {
		slots[i] = NewSlot(slotBytes, multibyte)
	}
	return &Dispatcher{
		slots:         slots,
		mask:          int64(capacity - 1),
		sequencer:     sequencer,
		wait:          wait,
		consumer:      consumer,
		nextToProcess: 0,
		done:          make(chan struct{}),
	}, nil
}

// Slot returns the ring cell addressed by seq, per the §3 addressing rule.
func (d *Dispatcher) Slot(seq int64) *Slot { return d.slots[seq&d.mask] }

// Sequencer exposes the dispatcher's claim/publish coordinator so a
// producer façade can claim slots against the same ring.
func (d *Dispatcher) Sequencer() Sequencer { return d.sequencer }

// Halt returns the shared shutdown flag producers must observe in Claim.
func (d *Dispatcher) Halt() *HaltFlag { return &d.halt }

// Wait returns the WaitStrategy producers back off with on Claim and
// Publish, the same instance the consumer loop waits on.
func (d *Dispatcher) Wait() WaitStrategy { return d.wait }

// Run is the dispatcher's consumer loop; callers start it on its own
// goroutine. It returns once the halt flag is set and the final drain up
// to the publish cursor at halt time completes.
func (d *Dispatcher) Run() {
	defer close(d.done)
	for {
		available, err := d.wait.WaitFor(d.nextToProcess, d.sequencer.Cursor, &d.halt)
		if err != nil {
			// Shutdown signalled: drain whatever was already published
			// before halt, then exit (§4.5, §5 cancellation).
			d.drainTo(d.sequencer.Cursor())
			return
		}
		d.drainTo(available)
	}
}

func (d *Dispatcher) drainTo(available int64) {
	if available < d.nextToProcess {
		return
	}
	for seq := d.nextToProcess; seq <= available; seq++ {
		if !d.sequencer.Available(seq) {
			panic("ring: sequencer reported seq as the cursor frontier but its availability marker disagrees")
		}
		slot := d.Slot(seq)
		_ = d.consumer.Dispatch(seq, slot)
	}
	_ = d.consumer.EndBatch()
	d.sequencer.Release(available)
	// A producer can be parked in Claim's backpressure WaitFor on this
	// same WaitStrategy, waiting for the consumer cursor Release just
	// advanced. Under BlockingWaitStrategy that parked goroutine only
	// wakes on an explicit signal, and Publish only signals its own
	// waiters -- without this call a producer blocked on a full ring
	// would never be woken once the consumer frees space.
	d.wait.SignalAllWhenBlocking()
	d.nextToProcess = available + 1
}

// Stop raises the halt flag, wakes the consumer goroutine, and blocks
// until Run has finished its final drain.
func (d *Dispatcher) Stop() {
	d.halt.Set()
	d.wait.SignalAllWhenBlocking()
	<-d.done
}
