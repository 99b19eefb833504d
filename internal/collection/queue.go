package collection

import (
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/program"
	"github.com/kasuga-db/kasuga/internal/serial"
	"github.com/kasuga-db/kasuga/internal/value"
)

var (
	queuePuts  = metrics.GetOrCreateCounter("kasuga_queue_puts_total")
	queueGets  = metrics.GetOrCreateCounter("kasuga_queue_gets_total")
	queueWaits = metrics.GetOrCreateCounter("kasuga_queue_waits_total")
)

// queueBuffer is the bounded FIFO shared by both queue flavors. A max
// size of -1 means unbounded.
type queueBuffer struct {
	maxSize int
	rows    []*value.ArrayData
}

func (b *queueBuffer) isFull() bool {
	return b.maxSize >= 0 && len(b.rows) >= b.maxSize
}

// add copies d into the buffer; single data wraps into a one-column row.
// The return asks the caller to drain once the buffer reached max.
func (b *queueBuffer) add(d value.Data) bool {
	b.rows = append(b.rows, copyAsRow(d))
	queuePuts.Inc()
	return b.isFull()
}

// take pops the front row into d; a nil destination discards the row.
func (b *queueBuffer) take(d value.Data) (bool, error) {
	if len(b.rows) == 0 {
		return false, nil
	}
	front := b.rows[0]
	b.rows = b.rows[1:]
	if d == nil {
		return true, nil
	}
	if err := assignRow(d, front); err != nil {
		return false, err
	}
	queueGets.Inc()
	return true, nil
}

func (b *queueBuffer) clear() { b.rows = nil }

// Queue is the single-threaded FIFO conduit.
type Queue struct {
	buf queueBuffer
	put queuePut
	get queueGet
}

// NewQueue creates a queue bounded to maxSize rows; -1 is unbounded.
func NewQueue(maxSize int) *Queue {
	q := &Queue{buf: queueBuffer{maxSize: maxSize}}
	q.put.outer = q
	q.get.outer = q
	return q
}

func (q *Queue) Explain(p *program.Program, e *program.Explain) { e.Put("queue") }

func (q *Queue) Initialize(p *program.Program) error { return nil }
func (q *Queue) Terminate(p *program.Program)        { q.Clear() }
func (q *Queue) Clear()                              { q.buf.clear() }
func (q *Queue) IsEmpty() bool                       { return len(q.buf.rows) == 0 }
func (q *Queue) IsEmptyGrouping() bool               { return false }
func (q *Queue) PutInterface() Put                   { return &q.put }
func (q *Queue) GetInterface() Get                   { return &q.get }

func (q *Queue) ClassID() int32 { return ClassQueue }

func (q *Queue) Serialize(a *serial.Archive) error {
	a.Int(&q.buf.maxSize)
	return a.Err()
}

type queuePut struct {
	putBase
	outer *Queue
}

func (pt *queuePut) PutData(p *program.Program, d value.Data) (bool, error) {
	return pt.outer.buf.add(d), nil
}

type queueGet struct {
	getBase
	outer *Queue
}

func (g *queueGet) GetData(p *program.Program, d value.Data) (bool, error) {
	return g.outer.buf.take(d)
}

func (g *queueGet) Reset() { g.outer.buf.clear() }

// event is a one-slot pulse used for queue back-pressure.
type event struct {
	ch chan struct{}
}

func newEvent() event { return event{ch: make(chan struct{}, 1)} }

func (e *event) set() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

func (e *event) wait(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-e.ch:
	case <-t.C:
	}
}

// SafeQueue is the multi-producer conduit. A mutex guards the buffer;
// the read and write events provide back-pressure with a poll interval.
// Every participating task initializes and terminates the collection
// itself; the counters decide when end-of-input is visible.
type SafeQueue struct {
	buf queueBuffer
	put safeQueuePut
	get safeQueueGet

	mu         sync.Mutex
	readEvent  event
	writeEvent event

	initialized int
	finished    int
	terminated  int
	last        bool
}

// NewSafeQueue creates a cooperative-safe queue bounded to maxSize
// rows; -1 is unbounded.
func NewSafeQueue(maxSize int) *SafeQueue {
	q := &SafeQueue{
		buf:        queueBuffer{maxSize: maxSize},
		readEvent:  newEvent(),
		writeEvent: newEvent(),
	}
	q.put.outer = q
	q.get.outer = q
	return q
}

func (q *SafeQueue) Explain(p *program.Program, e *program.Explain) { e.Put("safe queue") }

func (q *SafeQueue) Initialize(p *program.Program) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.initialized++
	return nil
}

func (q *SafeQueue) Terminate(p *program.Program) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.last {
		q.last = true
	}
	q.terminated++
	if q.terminated == q.initialized {
		q.buf.clear()
	}
}

func (q *SafeQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf.clear()
}

func (q *SafeQueue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf.rows) == 0
}

func (q *SafeQueue) IsEmptyGrouping() bool { return false }
func (q *SafeQueue) PutInterface() Put     { return &q.put }
func (q *SafeQueue) GetInterface() Get     { return &q.get }

func (q *SafeQueue) ClassID() int32 { return ClassQueueSafe }

func (q *SafeQueue) Serialize(a *serial.Archive) error {
	a.Int(&q.buf.maxSize)
	return a.Err()
}

// SetWasLast latches cancellation; subsequent producer puts fail with
// Cancelled.
func (q *SafeQueue) SetWasLast() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.last = true
}

func (q *SafeQueue) isLastLocked() bool { return q.last }

type safeQueuePut struct {
	putBase
	outer *SafeQueue
}

// Finish signals end-of-input from one producer. When every initialized
// participant but the consumer has finished or terminated, the write
// event is pulsed one final time so the consumer can observe the end.
func (pt *safeQueuePut) Finish(p *program.Program) error {
	q := pt.outer
	q.mu.Lock()
	defer q.mu.Unlock()
	q.finished++
	if q.finished+q.terminated+1 == q.initialized {
		q.writeEvent.set()
	}
	return nil
}

func (pt *safeQueuePut) PutData(p *program.Program, d value.Data) (bool, error) {
	q := pt.outer
	interval := p.Config().QueueWaitInterval
	for {
		q.mu.Lock()
		if q.isLastLocked() {
			q.mu.Unlock()
			return false, errors.New(errors.Cancelled)
		}
		if q.buf.isFull() {
			// queue is full; wait for the reader
			q.mu.Unlock()
			queueWaits.Inc()
			q.readEvent.wait(interval)
			continue
		}
		q.buf.add(d)
		q.mu.Unlock()
		q.writeEvent.set()
		return false, nil
	}
}

type safeQueueGet struct {
	getBase
	outer *SafeQueue
}

// Finish cancels pending producers, drains residual rows and clears the
// finished-producer counter so a reset queue starts clean.
func (g *safeQueueGet) Finish(p *program.Program) error {
	q := g.outer
	q.mu.Lock()
	defer q.mu.Unlock()
	q.last = true
	for {
		ok, _ := q.buf.take(nil)
		if !ok {
			break
		}
	}
	q.finished = 0
	q.readEvent.set()
	return nil
}

func (g *safeQueueGet) GetData(p *program.Program, d value.Data) (bool, error) {
	q := g.outer
	interval := p.Config().QueueWaitInterval
	for {
		q.mu.Lock()
		ok, err := q.buf.take(d)
		if err != nil {
			q.mu.Unlock()
			return false, err
		}
		if ok {
			q.mu.Unlock()
			q.readEvent.set()
			return true, nil
		}
		if q.finished+q.terminated == 0 ||
			q.initialized > q.finished+q.terminated+1 {
			// some producer might still put data
			q.mu.Unlock()
			q.writeEvent.wait(interval)
			continue
		}
		q.mu.Unlock()
		return false, nil
	}
}

func (g *safeQueueGet) Reset() {
	q := g.outer
	q.mu.Lock()
	defer q.mu.Unlock()
	q.last = false
}

func init() {
	serial.Register(ClassQueue, func() serial.Externalizable { return NewQueue(-1) })
	serial.Register(ClassQueueSafe, func() serial.Externalizable { return NewSafeQueue(-1) })
}
