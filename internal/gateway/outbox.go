package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	applog "gymsite/internal/log"
	"gymsite/internal/remote"
)

const maxFailures = 50

// Task is one remote write.
type Task struct {
	Op    string // upsert | delete
	Table string
	ID    string
	Run   func(ctx context.Context) error
}

// Failure is a remote write that did not land. The local write it mirrors
// is kept.
type Failure struct {
	Op     string    `json:"op"`
	Table  string    `json:"table"`
	ID     string    `json:"id"`
	Err    string    `json:"error"`
	Denied bool      `json:"denied"`
	At     time.Time `json:"at"`
}

func (t Task) key() string { return t.Table + "/" + t.ID }

// Outbox runs remote writes on a bounded worker pool. Each task runs once;
// failures are logged and remembered, never retried. Writes to the same
// record run one at a time in submission order; different records run
// concurrently. Submit waits only when every worker is busy.
type Outbox struct {
	pool    *ants.Pool
	timeout time.Duration
	wg      sync.WaitGroup

	// queues holds the writes waiting behind the running one, per record.
	// A key is present while a worker is draining it.
	qmu    sync.Mutex
	queues map[string][]Task

	mu       sync.Mutex
	failures []Failure
}

func NewOutbox(workers int, timeout time.Duration) (*Outbox, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p any) {
		applog.Error(nil, "outbox.task.panic", nil, map[string]any{"panic": p})
	}))
	if err != nil {
		return nil, err
	}
	return &Outbox{pool: pool, timeout: timeout, queues: map[string][]Task{}}, nil
}

func (o *Outbox) Submit(t Task) {
	o.wg.Add(1)
	key := t.key()
	o.qmu.Lock()
	if q, busy := o.queues[key]; busy {
		o.queues[key] = append(q, t)
		o.qmu.Unlock()
		return
	}
	o.queues[key] = nil
	o.qmu.Unlock()

	if err := o.pool.Submit(func() { o.drain(key, t) }); err != nil {
		for ok := true; ok; t, ok = o.next(key) {
			o.fail(t, err)
			o.wg.Done()
		}
	}
}

// drain runs t and then every write queued behind it for the same key.
func (o *Outbox) drain(key string, t Task) {
	for ok := true; ok; t, ok = o.next(key) {
		o.run(t)
		o.wg.Done()
	}
}

// next pops the following write for key, releasing the key when none is left.
func (o *Outbox) next(key string) (Task, bool) {
	o.qmu.Lock()
	defer o.qmu.Unlock()
	q := o.queues[key]
	if len(q) == 0 {
		delete(o.queues, key)
		return Task{}, false
	}
	o.queues[key] = q[1:]
	return q[0], true
}

// Pending reports how many records have writes queued or running.
func (o *Outbox) Pending() int {
	o.qmu.Lock()
	defer o.qmu.Unlock()
	return len(o.queues)
}

func (o *Outbox) run(t Task) {
	defer func() {
		if p := recover(); p != nil {
			applog.Error(nil, "outbox.task.panic", nil, map[string]any{"panic": p, "table": t.Table, "id": t.ID})
			o.fail(t, fmt.Errorf("panic: %v", p))
		}
	}()
	ctx := context.Background()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	if err := t.Run(ctx); err != nil {
		o.fail(t, err)
		return
	}
	applog.Info(nil, "outbox.write.ok", map[string]any{"op": t.Op, "table": t.Table, "id": t.ID})
}

func (o *Outbox) fail(t Task, err error) {
	f := Failure{Op: t.Op, Table: t.Table, ID: t.ID, Err: err.Error(), At: time.Now().UTC()}
	var se *remote.StatusError
	if errors.As(err, &se) {
		f.Denied = se.Denied()
	}
	applog.Error(nil, "outbox.write.fail", err, map[string]any{"op": t.Op, "table": t.Table, "id": t.ID, "denied": f.Denied})
	o.mu.Lock()
	o.failures = append(o.failures, f)
	if len(o.failures) > maxFailures {
		o.failures = o.failures[len(o.failures)-maxFailures:]
	}
	o.mu.Unlock()
}

// Failures returns the most recent failed writes, oldest first.
func (o *Outbox) Failures() []Failure {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Failure(nil), o.failures...)
}

// Flush waits until every submitted task has finished.
func (o *Outbox) Flush() { o.wg.Wait() }

// Close flushes and stops the workers.
func (o *Outbox) Close() {
	o.Flush()
	o.pool.Release()
}
