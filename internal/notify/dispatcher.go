package notify

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const taskTimeout = 30 * time.Second

// Task is a unit of background notification work.
type Task func(ctx context.Context)

type queued struct {
	task Task
	// timeout bounds the whole task. Zero leaves deadlines to the task itself.
	timeout time.Duration
}

// Dispatcher runs notification tasks on a fixed pool of workers fed by a
// bounded queue, so request handlers never wait on delivery.
type Dispatcher struct {
	svc     *Service
	queue   chan queued
	workers int

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewDispatcher(svc *Service, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	return &Dispatcher{
		svc:     svc,
		queue:   make(chan queued, queueSize),
		workers: workers,
	}
}

// Start launches the workers. Calling it more than once has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}

	log.Printf("Notification dispatcher started with %d workers", d.workers)
}

// Stop refuses new tasks, runs everything already queued, and waits for the workers.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		for q := range d.queue {
			d.run(q)
		}
		return
	}

	d.wg.Wait()
	log.Println("Notification dispatcher stopped")
}

// Publish queues task without blocking. It reports false when the task was dropped.
func (d *Dispatcher) Publish(task Task) bool {
	return d.publish(queued{task: task, timeout: taskTimeout})
}

func (d *Dispatcher) publish(q queued) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		log.Warn("Notification dispatcher is stopped, dropping task")
		return false
	}

	select {
	case d.queue <- q:
		return true
	default:
		log.Warn("Notification queue is full, dropping task")
		return false
	}
}

// NotifyUser queues a notification for one recipient.
func (d *Dispatcher) NotifyUser(recipientID uint, p Payload) {
	d.Publish(func(ctx context.Context) {
		if _, err := d.svc.NotifyUser(ctx, recipientID, p); err != nil {
			log.Printf("Failed to notify user %d (%s): %v", recipientID, p.Type, err)
		}
	})
}

// NotifyRole queues a notification for every active user of role. The
// broadcast has no overall deadline; each recipient gets its own.
func (d *Dispatcher) NotifyRole(role string, p Payload, exclude ...uint) {
	d.publish(queued{task: func(ctx context.Context) {
		n, err := d.svc.NotifyRole(ctx, role, p, exclude...)
		if err != nil {
			log.Printf("Failed to notify role %s (%s): %v", role, p.Type, err)
			return
		}
		log.Printf("Sent %s to %d %s users", p.Type, n, role)
	}})
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for q := range d.queue {
		d.run(q)
	}
}

func (d *Dispatcher) run(q queued) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Notification task panicked: %v\n%s", r, debug.Stack())
		}
	}()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if q.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), q.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	q.task(ctx)
}
