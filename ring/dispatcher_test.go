package ring

import (
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gflogger/gflogger/format"
)

// lineConsumer renders each slot's payload plus a trailing newline into a
// strings.Builder, the minimal Consumer needed to assert on dispatcher
// output without pulling in the appender package (ring must not depend
// on it).
type lineConsumer struct {
	mu  sync.Mutex
	out strings.Builder
}

func (c *lineConsumer) Dispatch(seq int64, slot *Slot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.Write(slot.ByteBuf.Bytes())
	c.out.WriteByte('\n')
	return nil
}

func (c *lineConsumer) EndBatch() error { return nil }

func (c *lineConsumer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

func writeMsg(t *testing.T, slot *Slot, prefix string, i int) {
	t.Helper()
	for j := 0; j < len(prefix); j++ {
		if err := slot.ByteBuf.WriteByte(prefix[j]); err != nil {
			t.Fatal(err)
		}
	}
	if err := format.AppendLong(slot.ByteBuf, int64(i)); err != nil {
		t.Fatal(err)
	}
}

func TestDispatcherSingleProducerSequentialOutput(t *testing.T) {
	seq, err := NewSingleProducerSequencer(4)
	if err != nil {
		t.Fatal(err)
	}
	wait := NewBusySpinWaitStrategy()
	consumer := &lineConsumer{}
	d, err := NewDispatcher(4, false, 32, seq, wait, consumer)
	if err != nil {
		t.Fatal(err)
	}
	go d.Run()

	for i := 0; i < 10; i++ {
		hi, err := d.Sequencer().Claim(1, wait, d.Halt())
		if err != nil {
			t.Fatal(err)
		}
		slot := d.Slot(hi)
		slot.Reset()
		writeMsg(t, slot, "msg-", i)
		d.Sequencer().Publish(hi, 1, wait)
	}

	deadline := time.Now().Add(2 * time.Second)
	want := buildWant(10)
	for consumer.String() != want && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	d.Stop()

	if got := consumer.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func buildWant(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("msg-")
		b.WriteString(strconv.Itoa(i))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestDispatcherBlocksProducerUnderBackpressure(t *testing.T) {
	seq, err := NewSingleProducerSequencer(2)
	if err != nil {
		t.Fatal(err)
	}
	wait := NewSleepingWaitStrategy()
	consumer := &lineConsumer{}
	d, err := NewDispatcher(2, false, 32, seq, wait, consumer)
	if err != nil {
		t.Fatal(err)
	}
	go d.Run()
	defer d.Stop()

	claim := func(i int) {
		hi, err := d.Sequencer().Claim(1, wait, d.Halt())
		if err != nil {
			t.Fatal(err)
		}
		slot := d.Slot(hi)
		slot.Reset()
		writeMsg(t, slot, "msg-", i)
		d.Sequencer().Publish(hi, 1, wait)
	}
	claim(0)
	claim(1)

	// The ring is now full (capacity 2, nothing consumed/released yet
	// from the producer's point of view the instant after publish); a
	// third claim must eventually succeed once the consumer drains and
	// releases, not block forever.
	done := make(chan struct{})
	go func() {
		claim(2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("third claim did not unblock after consumer drained")
	}
}

func TestDispatcherMultiProducerNoDuplicatesOrLoss(t *testing.T) {
	const producers = 4
	const perProducer = 1000
	seq, err := NewMultiProducerSequencer(16)
	if err != nil {
		t.Fatal(err)
	}
	wait := NewSleepingWaitStrategy()
	consumer := &lineConsumer{}
	d, err := NewDispatcher(16, false, 32, seq, wait, consumer)
	if err != nil {
		t.Fatal(err)
	}
	go d.Run()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				hi, err := d.Sequencer().Claim(1, wait, d.Halt())
				if err != nil {
					return
				}
				slot := d.Slot(hi)
				slot.Reset()
				writeMsg(t, slot, "p"+strconv.Itoa(p)+"-", i)
				d.Sequencer().Publish(hi, 1, wait)
			}
		}(p)
	}
	wg.Wait()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Count(consumer.String(), "\n") >= producers*perProducer {
			break
		}
		time.Sleep(time.Millisecond)
	}
	d.Stop()

	lines := strings.Split(strings.TrimRight(consumer.String(), "\n"), "\n")
	if len(lines) != producers*perProducer {
		t.Fatalf("got %d lines, want %d", len(lines), producers*perProducer)
	}

	seen := make(map[string]bool, len(lines))
	perProducerCounter := make(map[int]int)
	for _, line := range lines {
		if seen[line] {
			t.Fatalf("duplicate line %q", line)
		}
		seen[line] = true
		var p, i int
		if _, err := fscanMsg(line, &p, &i); err == nil {
			if i != perProducerCounter[p] {
				t.Fatalf("producer %d out of order: got %d, want %d", p, i, perProducerCounter[p])
			}
			perProducerCounter[p]++
		}
	}
}

// fscanMsg parses a "p<producer>-<i>" line without pulling in fmt.Sscanf's
// reflection-based overhead in this hot test loop.
func fscanMsg(line string, p, i *int) (int, error) {
	var err error
	rest := line[1:] // drop leading 'p'
	dash := strings.IndexByte(rest, '-')
	*p, err = strconv.Atoi(rest[:dash])
	if err != nil {
		return 0, err
	}
	*i, err = strconv.Atoi(rest[dash+1:])
	return 0, err
}
