package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidDelay  = errors.New("scheduler: invalid delay")
	ErrInvalidHandle = errors.New("scheduler: invalid handle")
	ErrStopped       = errors.New("scheduler: engine stopped")
)

// Handle names one logical timer. Scheduling a handle again replaces
// whatever was pending under it.
type Handle string

const (
	// HandleClock refreshes the current-time marker.
	HandleClock Handle = "clock"
	// HandleIdle recenters the schedule after a quiet period.
	HandleIdle Handle = "idle"
	// HandleAutosave is the debounced save after an edit.
	HandleAutosave Handle = "autosave"
	// HandleSettle flips the save status to saved.
	HandleSettle Handle = "settle"
)

// Fired is delivered on C when a handle's deadline passes.
type Fired struct {
	Handle Handle
	At     time.Time
}

type queueItem struct {
	handle Handle
	due    time.Time
	period time.Duration
	gen    uint64
}

type timerQueue []queueItem

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].gen < q[j].gen
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *timerQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Engine runs any number of named timers on one goroutine. Entries are
// never removed from the heap on cancel; a generation check discards stale
// ones when they surface.
type Engine struct {
	mu      sync.Mutex
	queue   timerQueue
	live    map[Handle]uint64
	gen     uint64
	now     func() time.Time
	out     chan Fired
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(timerQueue, 0),
		live:   make(map[Handle]uint64),
		now:    time.Now,
		out:    make(chan Fired, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan Fired {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started || e.stopped {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

// Stop cancels every pending timer and closes C. It is safe to call more
// than once and before Start.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.live = make(map[Handle]uint64)
	e.queue = e.queue[:0]
	started := e.started
	close(e.stopCh)
	e.mu.Unlock()
	if started {
		<-e.doneCh
		return
	}
	close(e.out)
}

// After arms h to fire once after delay, superseding any pending schedule
// for the same handle.
func (e *Engine) After(h Handle, delay time.Duration) error {
	return e.schedule(h, delay, 0)
}

// Every arms h to fire repeatedly. The first firing is one period from now.
func (e *Engine) Every(h Handle, period time.Duration) error {
	if period <= 0 {
		return ErrInvalidDelay
	}
	return e.schedule(h, period, period)
}

// Cancel discards the pending schedule for h. Unknown handles are a no-op.
func (e *Engine) Cancel(h Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.live[h]; !ok {
		return
	}
	delete(e.live, h)
	e.signalWakeup()
}

// Pending reports whether h is armed.
func (e *Engine) Pending(h Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.live[h]
	return ok
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) schedule(h Handle, delay, period time.Duration) error {
	if h == "" {
		return ErrInvalidHandle
	}
	if delay < 0 {
		return ErrInvalidDelay
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	e.gen++
	e.live[h] = e.gen
	heap.Push(&e.queue, queueItem{handle: h, due: e.now().Add(delay), period: period, gen: e.gen})
	e.signalWakeup()
	return nil
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := next.Sub(e.now())
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			for _, ev := range e.popDue(e.now()) {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			stopTimer(timer)
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

// peek returns the earliest live deadline, discarding stale entries.
func (e *Engine) peek() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.queue) > 0 {
		head := e.queue[0]
		if e.live[head.handle] == head.gen {
			return head.due, true
		}
		heap.Pop(&e.queue)
	}
	return time.Time{}, false
}

func (e *Engine) popDue(now time.Time) []Fired {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Fired, 0)
	for len(e.queue) > 0 {
		head := e.queue[0]
		if head.due.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		if e.live[item.handle] != item.gen {
			continue
		}
		out = append(out, Fired{Handle: item.handle, At: now.UTC()})
		if item.period <= 0 {
			delete(e.live, item.handle)
			continue
		}
		// a late tick re-arms from now instead of bursting to catch up
		due := item.due.Add(item.period)
		if due.Before(now) {
			due = now.Add(item.period)
		}
		e.gen++
		e.live[item.handle] = e.gen
		heap.Push(&e.queue, queueItem{handle: item.handle, due: due, period: item.period, gen: e.gen})
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
