// sequencer.go: Single- and multi-producer claim/publish sequencers
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package ring

import (
	"sync/atomic"

	"github.com/gflogger/gflogger/gferrors"
)

// Sequencer is the monotonic claim/publish coordinator for a power-of-two
// slot array. It supports single- or multi-producer modes (§4.3).
//
// Invariant maintained by every implementation: consumerCursor <=
// publishCursor <= claimCursor, and claimCursor - consumerCursor <=
// ringSize at all times.
type Sequencer interface {
	// Claim reserves the next n sequence numbers, blocking on w's
	// backpressure hook until the ring has room. Returns the highest
	// sequence in the reserved batch (sequences hi-n+1..hi).
	Claim(n int64, w WaitStrategy, halt *HaltFlag) (hi int64, err error)

	// TryClaim is Claim's non-blocking counterpart: it returns
	// ok=false instead of waiting when the ring is currently full.
	TryClaim(n int64) (hi int64, ok bool)

	// Publish makes sequences [hi-n+1, hi] visible to the consumer and
	// wakes anything parked in a blocking wait strategy.
	Publish(hi, n int64, w WaitStrategy)

	// Available reports whether seq is safe for the consumer to read.
	Available(seq int64) bool

	// Cursor returns the highest sequence currently safe for the
	// consumer to read -- the gap-free frontier in multi-producer mode.
	Cursor() int64

	// Release advances the consumer gate once slots up to seq have been
	// fully drained, freeing them for producers.
	Release(seq int64)

	// Capacity returns the ring size (always a power of two).
	Capacity() int64
}

func indexMask(capacity int64) int64 { return capacity - 1 }

// singleProducerSequencer assumes a single caller thread for Claim and
// Publish; no CAS is needed on the claim path.
type singleProducerSequencer struct {
	capacity int64
	mask     int64

	claim    paddedInt64
	publish  paddedInt64
	consumer paddedInt64
}

// NewSingleProducerSequencer builds a Sequencer for exactly one producer
// goroutine. capacity must be a power of two.
func NewSingleProducerSequencer(capacity int64) (Sequencer, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "ring capacity must be a power of two", "capacity", itoa(capacity))
	}
	s := &singleProducerSequencer{capacity: capacity, mask: indexMask(capacity)}
	s.claim.Store(-1)
	s.publish.Store(-1)
	s.consumer.Store(-1)
	return s, nil
}

func (s *singleProducerSequencer) Claim(n int64, w WaitStrategy, halt *HaltFlag) (int64, error) {
	hi := s.claim.Load() + n
	wrapPoint := hi - s.capacity
	for wrapPoint > s.consumer.Load() {
		if halt.IsSet() {
			return -1, gferrors.New(gferrors.ErrCodeShutdown, "claim halted")
		}
		// Backpressure: reuse the wait strategy's own spin/yield/
		// sleep/block discipline to wait for the consumer to reach
		// wrapPoint, instead of duplicating it here.
		if _, err := w.WaitFor(wrapPoint, s.consumer.Load, halt); err != nil {
			return -1, err
		}
	}
	s.claim.Store(hi)
	return hi, nil
}

func (s *singleProducerSequencer) TryClaim(n int64) (int64, bool) {
	hi := s.claim.Load() + n
	wrapPoint := hi - s.capacity
	if wrapPoint > s.consumer.Load() {
		return -1, false
	}
	s.claim.Store(hi)
	return hi, true
}

func (s *singleProducerSequencer) Publish(hi, _ int64, w WaitStrategy) {
	s.publish.Store(hi)
	w.SignalAllWhenBlocking()
}

func (s *singleProducerSequencer) Available(seq int64) bool {
	return s.publish.Load() >= seq
}

func (s *singleProducerSequencer) Cursor() int64 { return s.publish.Load() }

func (s *singleProducerSequencer) Release(seq int64) { s.consumer.Store(seq) }

func (s *singleProducerSequencer) Capacity() int64 { return s.capacity }

// multiProducerSequencer arbitrates multiple producer goroutines with
// CAS-advanced claims and a per-cell availability array, so the consumer
// can detect which claimed sequences have actually finished publishing
// and stop at the first gap (§4.3).
type multiProducerSequencer struct {
	capacity int64
	mask     int64

	claim    paddedInt64
	consumer paddedInt64

	available []atomic.Int64 // per-cell: sequence number last published into that cell, or -1
}

// NewMultiProducerSequencer builds a Sequencer safe for concurrent
// callers of Claim/Publish. capacity must be a power of two.
func NewMultiProducerSequencer(capacity int64) (Sequencer, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, gferrors.WithField(gferrors.ErrCodeInvalidConfig, "ring capacity must be a power of two", "capacity", itoa(capacity))
	}
	s := &multiProducerSequencer{
		capacity:  capacity,
		mask:      indexMask(capacity),
		available: make([]atomic.Int64, capacity),
	}
	s.claim.Store(-1)
	s.consumer.Store(-1)
	for i := range s.available {
		s.available[i].Store(-1)
	}
	return s, nil
}

func (s *multiProducerSequencer) Claim(n int64, w WaitStrategy, halt *HaltFlag) (int64, error) {
	for {
		current := s.claim.Load()
		hi := current + n
		wrapPoint := hi - s.capacity
		if wrapPoint > s.consumer.Load() {
			if halt.IsSet() {
				return -1, gferrors.New(gferrors.ErrCodeShutdown, "claim halted")
			}
			if _, err := w.WaitFor(wrapPoint, s.consumer.Load, halt); err != nil {
				return -1, err
			}
			continue
		}
		if s.claim.CAS(current, hi) {
			return hi, nil
		}
		// Lost the race; retry with the now-current claim cursor.
	}
}

func (s *multiProducerSequencer) TryClaim(n int64) (int64, bool) {
	for {
		current := s.claim.Load()
		hi := current + n
		wrapPoint := hi - s.capacity
		if wrapPoint > s.consumer.Load() {
			return -1, false
		}
		if s.claim.CAS(current, hi) {
			return hi, true
		}
	}
}

func (s *multiProducerSequencer) Publish(hi, n int64, w WaitStrategy) {
	lo := hi - n + 1
	for seq := lo; seq <= hi; seq++ {
		s.available[seq&s.mask].Store(seq)
	}
	w.SignalAllWhenBlocking()
}

func (s *multiProducerSequencer) Available(seq int64) bool {
	return s.available[seq&s.mask].Load() == seq
}

// Cursor scans forward from the last known consumer position across
// contiguous available cells, hiding multi-producer publish gaps from
// the caller: a consumer only ever sees a sequence once every sequence
// before it is also visible.
func (s *multiProducerSequencer) Cursor() int64 {
	claimHi := s.claim.Load()
	seq := s.consumer.Load() + 1
	highest := s.consumer.Load()
	for seq <= claimHi {
		if s.available[seq&s.mask].Load() != seq {
			break
		}
		highest = seq
		seq++
	}
	return highest
}

func (s *multiProducerSequencer) Release(seq int64) { s.consumer.Store(seq) }

func (s *multiProducerSequencer) Capacity() int64 { return s.capacity }

func itoa(v int64) string {
	buf := make([]byte, 0, 20)
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	if v == 0 {
		return "0"
	}
	start := len(buf)
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
