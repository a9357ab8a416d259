package modhost

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

// TaskRunner executes the periodic tasks of Schedulable modules on one
// shared cron scheduler. Tasks are keyed by module name so a module's tasks
// can be withdrawn together when it is disabled.
type TaskRunner struct {
	cron    *cron.Cron
	mu      sync.Mutex
	entries map[string][]cron.EntryID
	started bool
	logger  Logger
}

// NewTaskRunner creates a stopped runner.
func NewTaskRunner(logger Logger) *TaskRunner {
	return &TaskRunner{
		cron:    cron.New(),
		entries: make(map[string][]cron.EntryID),
		logger:  logger,
	}
}

// Start begins executing scheduled tasks. Idempotent.
func (t *TaskRunner) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.cron.Start()
	t.started = true
}

// Stop halts the scheduler. Running tasks finish; no new ones fire.
func (t *TaskRunner) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return
	}
	t.cron.Stop()
	t.started = false
}

// AddModuleTasks schedules every task of a module. A task with an invalid
// cron spec is skipped with an error return naming it; valid tasks before it
// remain scheduled.
func (t *TaskRunner) AddModuleTasks(moduleName string, tasks []ScheduledTask) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, task := range tasks {
		id, err := t.cron.AddFunc(task.Spec, task.Run)
		if err != nil {
			return fmt.Errorf("schedule task %q for module %s: %w", task.Spec, moduleName, err)
		}
		t.entries[moduleName] = append(t.entries[moduleName], id)
	}
	return nil
}

// RemoveModuleTasks withdraws all tasks of a module. Unknown names are a
// no-op.
func (t *TaskRunner) RemoveModuleTasks(moduleName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.entries[moduleName] {
		t.cron.Remove(id)
	}
	delete(t.entries, moduleName)
}
