// Package genqueue implements the incremental chunk generation queue
// (spec.md's C4): a cooperative, frame-budgeted scheduler that produces
// chunks without blocking the render loop.
//
// GenerationQueue has no internal locking. Spec.md section 5 mandates a
// single control thread owning all core mutable state; Enqueue and
// ProcessOneFrame are only ever called from that one goroutine (engine.Tick
// in this module), so a mutex here would misrepresent a single-writer
// design as a lock-contention problem it is not.
package genqueue

import (
	"time"

	"github.com/google/uuid"

	"hexworld/hexmath"
	"hexworld/worldmap"
)

// Status is a GenerationTask's lifecycle state.
type Status int

const (
	Pending Status = iota
	Generating
	Completed
	Failed
)

// step identifies where a task's step pipeline currently stands. Order
// is strictly Grid < Neighbors < Index < done, per spec.md section 4.4's
// ordering guarantee.
type step int

const (
	stepGrid step = iota
	stepNeighbors
	stepIndex
	stepDone
)

// Result is delivered to a task's waiter on completion or failure.
type Result struct {
	Chunk *worldmap.Chunk
	Err   error
}

// Task is a GenerationTask: one chunk's journey through the step
// pipeline, plus the priority and waiter spec.md's Enqueue contract
// needs.
type Task struct {
	ID       uuid.UUID
	Center   hexmath.Axial
	Priority int
	Status   Status

	chunk  *worldmap.Chunk
	cur    step
	waiter chan Result
}

// Clock abstracts the time source a frame budget is measured against, so
// tests can drive ProcessOneFrame deterministically instead of racing a
// real clock (spec.md's C9, "abstract time source").
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Logger is the minimal structured-logging sink GenerationQueue is
// constructed with (spec.md's C9). A nil Logger is valid and silences
// logging entirely.
type Logger interface {
	Debug(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// GenerationQueue is the cooperative, frame-budgeted scheduler described
// in spec.md section 4.4.
type GenerationQueue struct {
	budget time.Duration
	clock  Clock
	log    Logger

	tasks map[hexmath.Axial]*Task
	order []hexmath.Axial // insertion order, for stable priority ties
}

// Option configures a GenerationQueue at construction.
type Option func(*GenerationQueue)

// WithClock overrides the time source (tests use this with a fake
// clock).
func WithClock(c Clock) Option {
	return func(q *GenerationQueue) { q.clock = c }
}

// WithLogger overrides the logging sink.
func WithLogger(l Logger) Option {
	return func(q *GenerationQueue) { q.log = l }
}

// New constructs a GenerationQueue with the given per-frame budget
// (queue_frame_budget_ms in spec.md section 6).
func New(budget time.Duration, opts ...Option) *GenerationQueue {
	q := &GenerationQueue{
		budget: budget,
		clock:  realClock{},
		log:    nopLogger{},
		tasks:  make(map[hexmath.Axial]*Task),
	}
	for _, opt := range opts {
		opt(q)
	}
	if q.log == nil {
		q.log = nopLogger{}
	}
	return q
}

// Enqueue implements spec.md section 4.4's enqueue contract.
func (q *GenerationQueue) Enqueue(center hexmath.Axial, radius int, hexSize float64, priority int, wm *worldmap.WorldMap) <-chan Result {
	if task, exists := q.tasks[center]; exists {
		if priority > task.Priority {
			task.Priority = priority
		}
		return task.waiter
	}

	existing := wm.Get(center)
	if existing != nil && existing.Initialized {
		ready := make(chan Result, 1)
		ready <- Result{Chunk: existing}
		return ready
	}

	chunk := existing
	if chunk == nil {
		chunk = worldmap.NewPlaceholder(center, radius, hexSize)
		wm.AddPlaceholder(chunk)
	}

	task := &Task{
		ID:       uuid.New(),
		Center:   center,
		Priority: priority,
		Status:   Pending,
		chunk:    chunk,
		waiter:   make(chan Result, 1),
	}
	q.tasks[center] = task
	q.order = append(q.order, center)

	q.log.Debug("task enqueued", "task_id", task.ID.String(), "center", center, "priority", priority)

	return task.waiter
}

// Len reports the number of tasks currently tracked (any non-terminal
// status; terminal tasks are removed immediately).
func (q *GenerationQueue) Len() int {
	return len(q.tasks)
}

// selectTask picks the highest-priority task, preferring Pending over
// Generating within equal priority, per spec.md section 4.4 step 2.
func (q *GenerationQueue) selectTask() (hexmath.Axial, *Task, bool) {
	var bestCenter hexmath.Axial
	var best *Task

	for _, center := range q.order {
		task, ok := q.tasks[center]
		if !ok {
			continue
		}
		if best == nil {
			best, bestCenter = task, center
			continue
		}
		if task.Priority > best.Priority {
			best, bestCenter = task, center
			continue
		}
		if task.Priority == best.Priority && task.Status == Pending && best.Status != Pending {
			best, bestCenter = task, center
		}
	}

	if best == nil {
		return hexmath.Axial{}, nil, false
	}
	return bestCenter, best, true
}

func (q *GenerationQueue) removeTask(center hexmath.Axial) {
	delete(q.tasks, center)
	for i, c := range q.order {
		if c == center {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

// ProcessOneFrame implements spec.md section 4.4's process_one_frame
// contract: drive the highest-priority task's step pipeline until it
// either completes or the frame budget is exhausted. It returns a
// FrameOutcome: Idle when no task is left queued after the frame, and
// MorePending otherwise.
type FrameOutcome int

const (
	Idle FrameOutcome = iota
	MorePending
)

func (o FrameOutcome) String() string {
	if o == Idle {
		return "idle"
	}
	return "more pending"
}

func (q *GenerationQueue) ProcessOneFrame(wm *worldmap.WorldMap) FrameOutcome {
	center, task, ok := q.selectTask()
	if !ok {
		return Idle
	}

	if task.Status == Pending {
		if task.chunk == nil || wm.Get(center) == nil {
			q.fail(task, center, worldmapPlaceholderMissing())
			return q.outcomeAfterRemoval()
		}
		task.Status = Generating
	}

	deadline := q.clock.Now().Add(q.budget)

	for {
		completed, err := q.driveStep(task, wm)
		if err != nil {
			q.fail(task, center, err)
			return q.outcomeAfterRemoval()
		}
		if completed {
			task.Status = Completed
			task.waiter <- Result{Chunk: task.chunk}
			q.removeTask(center)
			q.log.Debug("task completed", "task_id", task.ID.String(), "center", center)
			return q.outcomeAfterRemoval()
		}
		if q.clock.Now().After(deadline) {
			return MorePending
		}
	}
}

func (q *GenerationQueue) outcomeAfterRemoval() FrameOutcome {
	if len(q.tasks) > 0 {
		return MorePending
	}
	return Idle
}

// driveStep advances task by exactly one internal batch/step, returning
// true once the whole Grid->Neighbors->Index pipeline has finished for
// this task's chunk.
func (q *GenerationQueue) driveStep(task *Task, wm *worldmap.WorldMap) (completed bool, err error) {
	switch task.cur {
	case stepGrid:
		if task.chunk.StepGrid() {
			task.cur = stepNeighbors
		}
		return false, nil
	case stepNeighbors:
		task.chunk.StepNeighbors()
		task.cur = stepIndex
		return false, nil
	case stepIndex:
		if task.chunk.StepIndex(wm) {
			task.cur = stepDone
			return true, nil
		}
		return false, nil
	default:
		return true, nil
	}
}

func (q *GenerationQueue) fail(task *Task, center hexmath.Axial, err error) {
	task.Status = Failed
	task.waiter <- Result{Err: err}
	q.removeTask(center)
	q.log.Error("task failed", "task_id", task.ID.String(), "center", center, "error", err)
}

func worldmapPlaceholderMissing() error {
	return ErrPlaceholderMissing
}

// Clear rejects every non-terminal task's waiter with ErrQueueCleared
// and removes them; terminal tasks (already resolved) are untouched
// because they have already been removed from q.tasks by the time they
// reach a terminal state.
func (q *GenerationQueue) Clear() {
	for _, center := range q.order {
		task, ok := q.tasks[center]
		if !ok {
			continue
		}
		task.waiter <- Result{Err: ErrQueueCleared}
	}
	q.tasks = make(map[hexmath.Axial]*Task)
	q.order = nil
	q.log.Debug("queue cleared")
}
