package modhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRunnerAddAndRemove(t *testing.T) {
	runner := NewTaskRunner(&testLogger{})

	err := runner.AddModuleTasks("clock", []ScheduledTask{
		{Spec: "@every 1h", Run: func() {}},
		{Spec: "@hourly", Run: func() {}},
	})
	require.NoError(t, err)

	runner.mu.Lock()
	count := len(runner.entries["clock"])
	runner.mu.Unlock()
	assert.Equal(t, 2, count)

	runner.RemoveModuleTasks("clock")
	runner.mu.Lock()
	_, exists := runner.entries["clock"]
	runner.mu.Unlock()
	assert.False(t, exists)
}

func TestTaskRunnerRejectsInvalidSpec(t *testing.T) {
	runner := NewTaskRunner(&testLogger{})

	err := runner.AddModuleTasks("broken", []ScheduledTask{
		{Spec: "@every 1h", Run: func() {}},
		{Spec: "not a cron spec", Run: func() {}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	// The valid task scheduled before the failure stays.
	runner.mu.Lock()
	count := len(runner.entries["broken"])
	runner.mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestTaskRunnerRemoveUnknownModule(t *testing.T) {
	runner := NewTaskRunner(&testLogger{})
	assert.NotPanics(t, func() { runner.RemoveModuleTasks("ghost") })
}

func TestTaskRunnerStartStopIdempotent(t *testing.T) {
	runner := NewTaskRunner(&testLogger{})

	runner.Start()
	runner.Start()
	runner.Stop()
	runner.Stop()
}
