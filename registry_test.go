package modhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *testLogger) {
	t.Helper()
	logger := &testLogger{}
	cfg := DefaultHostConfig()
	cfg.PackagesDir = t.TempDir()
	cfg.DataDir = t.TempDir()
	return NewRegistry(cfg, logger), logger
}

func registeredInstance(rec *hookRecorder, name string) *ModuleInstance {
	instance := newModuleInstance(&recordingModule{id: name, rec: rec})
	instance.populateRequired(name, name+" module", "1.0.0", []string{"tester"})
	return instance
}

func TestRegistryAddAndGet(t *testing.T) {
	registry, _ := newTestRegistry(t)
	rec := &hookRecorder{}

	require.NoError(t, registry.Add(registeredInstance(rec, "alpha")))
	require.NoError(t, registry.Add(registeredInstance(rec, "beta")))

	assert.Equal(t, "alpha", registry.Get("alpha").Name())
	assert.Nil(t, registry.Get("missing"))
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	registry, _ := newTestRegistry(t)
	rec := &hookRecorder{}

	first := registeredInstance(rec, "alpha")
	require.NoError(t, registry.Add(first))

	err := registry.Add(registeredInstance(rec, "alpha"))
	assert.ErrorIs(t, err, ErrDuplicateModule)
	assert.Same(t, first, registry.Get("alpha"), "the first instance must be retained")
	assert.Len(t, registry.List(), 1)
}

func TestRegistryListPreservesInsertionOrder(t *testing.T) {
	registry, _ := newTestRegistry(t)
	rec := &hookRecorder{}

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Add(registeredInstance(rec, name)))
	}

	var names []string
	for _, instance := range registry.List() {
		names = append(names, instance.Name())
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestRegistryRemoveDisablesExactlyOnce(t *testing.T) {
	registry, _ := newTestRegistry(t)
	rec := &hookRecorder{}

	require.NoError(t, registry.Add(registeredInstance(rec, "alpha")))

	registry.Remove("alpha")
	assert.Nil(t, registry.Get("alpha"))
	assert.Equal(t, []string{"alpha:disable"}, rec.recorded())

	// Removing again, or disabling through another path, must not re-run
	// the hook.
	registry.Remove("alpha")
	registry.DisableAll()
	assert.Equal(t, []string{"alpha:disable"}, rec.recorded())
}

// selfCheckingModule looks itself up in the registry from its disable hook.
type selfCheckingModule struct {
	recordingModule
	registry *Registry
	visible  bool
}

func (m *selfCheckingModule) OnDisable() {
	m.visible = m.registry.Get(m.id) != nil
	m.rec.record(m.id + ":disable")
}

func TestRegistryRemoveKeepsModuleRetrievableDuringDisable(t *testing.T) {
	registry, _ := newTestRegistry(t)
	rec := &hookRecorder{}

	mod := &selfCheckingModule{
		recordingModule: recordingModule{id: "alpha", rec: rec},
		registry:        registry,
	}
	instance := newModuleInstance(mod)
	instance.populateRequired("alpha", "alpha module", "1.0.0", []string{"tester"})
	require.NoError(t, registry.Add(instance))

	var visibleToHandler bool
	registry.EventBus().Subscribe(EventTypeModuleDisable, func(e *Event) {
		visibleToHandler = registry.Get(e.GetString("module")) != nil
	})

	registry.Remove("alpha")

	assert.True(t, mod.visible, "the disable hook must still see the module through Get")
	assert.True(t, visibleToHandler, "disable event handlers must still see the module through Get")
	assert.Nil(t, registry.Get("alpha"), "the module is gone once Remove returns")
	assert.Equal(t, []string{"alpha:disable"}, rec.recorded())
}

func TestRegistryRemoveUnknownIsNoOp(t *testing.T) {
	registry, _ := newTestRegistry(t)
	assert.NotPanics(t, func() { registry.Remove("ghost") })
}

func TestRegistryRemovePublishesDisableEvent(t *testing.T) {
	registry, _ := newTestRegistry(t)
	rec := &hookRecorder{}

	var disabled []string
	registry.EventBus().Subscribe(EventTypeModuleDisable, func(e *Event) {
		disabled = append(disabled, e.GetString("module"))
	})

	require.NoError(t, registry.Add(registeredInstance(rec, "alpha")))
	registry.Remove("alpha")
	assert.Equal(t, []string{"alpha"}, disabled)
}

func TestRegistryDisableAllRunsInReverseOrder(t *testing.T) {
	registry, _ := newTestRegistry(t)
	rec := &hookRecorder{}

	for _, name := range []string{"first", "second", "third"} {
		require.NoError(t, registry.Add(registeredInstance(rec, name)))
	}

	registry.DisableAll()
	assert.Equal(t, []string{"third:disable", "second:disable", "first:disable"}, rec.recorded())
}
