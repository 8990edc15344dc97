package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"blockday/internal/model"
)

var ErrInvalidScheduledTime = errors.New("scheduler: invalid scheduled time")

type queueItem struct {
	intent model.NotificationIntent
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].intent.ScheduledAt.Before(pq[j].intent.ScheduledAt)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine is a local timer queue for notification intents. Intents are
// held in a heap ordered by scheduled time and emitted on C when due;
// nothing polls while the earliest deadline is in the future. Emission
// is non-blocking: if the consumer lags, due intents are dropped and
// counted rather than stalling the loop.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	out     chan model.NotificationIntent
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
		queue:  make(priorityQueue, 0),
		out:    make(chan model.NotificationIntent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// C is the channel of due intents.
func (e *Engine) C() <-chan model.NotificationIntent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

// Schedule queues one intent for emission at its scheduled time.
func (e *Engine) Schedule(intent model.NotificationIntent) error {
	if intent.ScheduledAt.IsZero() {
		return ErrInvalidScheduledTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("scheduler: engine stopped")
	}

	heap.Push(&e.queue, queueItem{intent: intent})
	e.signalWakeup()
	return nil
}

// Clear drops every queued intent. Clearing an empty queue is fine.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.queue = e.queue[:0]
	e.mu.Unlock()
	e.signalWakeup()
}

// Pending returns the number of queued intents.
func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
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

		wait := time.Until(next.ScheduledAt)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, intent := range due {
				select {
				case e.out <- intent:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
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

func (e *Engine) peek() (model.NotificationIntent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return model.NotificationIntent{}, false
	}
	return e.queue[0].intent, true
}

func (e *Engine) popDue(now time.Time) []model.NotificationIntent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]model.NotificationIntent, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].intent
		if next.ScheduledAt.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.intent)
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
