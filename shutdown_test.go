package modhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownRunsCallbacksInReverseOrder(t *testing.T) {
	m := NewShutdownManager(&testLogger{})

	var order []string
	m.Register(func() { order = append(order, "first") })
	m.Register(func() { order = append(order, "second") })
	m.Register(func() { order = append(order, "third") })

	m.Trigger()
	assert.Equal(t, []string{"third", "second", "first"}, order)
}

func TestShutdownTriggersOnlyOnce(t *testing.T) {
	m := NewShutdownManager(&testLogger{})

	count := 0
	m.Register(func() { count++ })

	m.Trigger()
	m.Trigger()
	assert.Equal(t, 1, count)
}
