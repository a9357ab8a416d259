package modhost

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ShutdownManager runs registered callbacks exactly once at process
// shutdown, whether the host exits normally (the main function calls
// Trigger) or receives SIGINT/SIGTERM. Callbacks run in reverse registration
// order, mirroring reverse load order for module disable hooks.
type ShutdownManager struct {
	mu     sync.Mutex
	once   sync.Once
	funcs  []func()
	logger Logger
}

// NewShutdownManager creates a manager. Call ListenForSignals to arm the
// signal path.
func NewShutdownManager(logger Logger) *ShutdownManager {
	return &ShutdownManager{logger: logger}
}

// Register adds a callback to run at shutdown.
func (s *ShutdownManager) Register(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.funcs = append(s.funcs, fn)
}

// ListenForSignals triggers shutdown when SIGINT or SIGTERM arrives. The
// returned channel closes after the callbacks ran, so main can block on it.
func (s *ShutdownManager) ListenForSignals() <-chan struct{} {
	done := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		s.logger.Info("Received shutdown signal", "signal", sig.String())
		s.Trigger()
		close(done)
	}()
	return done
}

// Trigger runs all registered callbacks, reverse registration order, exactly
// once across all shutdown paths.
func (s *ShutdownManager) Trigger() {
	s.once.Do(func() {
		s.mu.Lock()
		funcs := make([]func(), len(s.funcs))
		copy(funcs, s.funcs)
		s.mu.Unlock()
		for i := len(funcs) - 1; i >= 0; i-- {
			funcs[i]()
		}
	})
}
