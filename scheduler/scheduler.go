// Package scheduler runs delayed and periodic tasks on simulation time. Tasks
// fire from Advance, on the simulation goroutine, so they observe the same
// single-threaded tick ordering as everything else.
package scheduler

import (
	"sort"

	"go.uber.org/zap"
)

// TaskFn is the function signature for scheduled tasks.
type TaskFn func()

type task struct {
	name     string
	due      float32
	interval float32 // 0 for one-shot delays
	seq      uint64
	fn       TaskFn
}

// Scheduler manages periodic and delayed tasks keyed by name.
type Scheduler struct {
	now    float32
	seq    uint64
	tasks  map[string]*task
	logger *zap.Logger
}

// New creates a new Scheduler at time 0.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		tasks:  make(map[string]*task),
		logger: logger,
	}
}

// Now returns the time of the last Advance.
func (s *Scheduler) Now() float32 { return s.now }

// AddTicker registers a task to run every interval seconds.
// If a task with the same name exists, it is replaced.
func (s *Scheduler) AddTicker(name string, interval float32, fn TaskFn) {
	if interval <= 0 {
		s.logger.Warn("scheduler ticker ignored: non-positive interval",
			zap.String("name", name), zap.Float32("interval", interval))
		return
	}
	s.put(&task{name: name, due: s.now + interval, interval: interval, fn: fn})
	s.logger.Debug("scheduler task registered", zap.String("name", name), zap.Float32("interval", interval))
}

// AddDelay runs fn once, delay seconds after the current time.
// If a task with the same name exists, it is replaced.
func (s *Scheduler) AddDelay(name string, delay float32, fn func()) {
	if delay < 0 {
		delay = 0
	}
	s.put(&task{name: name, due: s.now + delay, fn: fn})
}

func (s *Scheduler) put(t *task) {
	s.seq++
	t.seq = s.seq
	s.tasks[t.name] = t
}

// Remove stops and removes a ticker or delay task by name.
func (s *Scheduler) Remove(name string) {
	delete(s.tasks, name)
}

// Advance moves scheduler time to now and runs every task that has come due,
// earliest first, ties in registration order. A ticker that fell several
// intervals behind fires once per missed interval.
func (s *Scheduler) Advance(now float32) int {
	if now > s.now {
		s.now = now
	}
	ran := 0
	for {
		due := s.dueTasks()
		if len(due) == 0 {
			return ran
		}
		for _, t := range due {
			// A previous task in this batch may have removed or replaced it.
			if cur, ok := s.tasks[t.name]; !ok || cur != t {
				continue
			}
			if t.interval > 0 {
				t.due += t.interval
			} else {
				delete(s.tasks, t.name)
			}
			s.run(t)
			ran++
		}
	}
}

func (s *Scheduler) dueTasks() []*task {
	var due []*task
	for _, t := range s.tasks {
		if t.due <= s.now {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due
}

func (s *Scheduler) run(t *task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler task panicked",
				zap.String("task", t.name),
				zap.Any("recover", r))
		}
	}()
	t.fn()
}

// Pending returns the number of registered tasks.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// ListTickers returns the names of all registered ticker tasks.
func (s *Scheduler) ListTickers() []string {
	names := make([]string, 0, len(s.tasks))
	for name, t := range s.tasks {
		if t.interval > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clear drops every task.
func (s *Scheduler) Clear() {
	s.tasks = make(map[string]*task)
}
