package modhost

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// testLogger records log lines for assertions.
type testLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *testLogger) log(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf("%s: %s %v", level, msg, args))
}

func (l *testLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *testLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *testLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *testLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }

func (l *testLogger) lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// hookRecorder collects lifecycle hook invocations across test modules.
type hookRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *hookRecorder) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *hookRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// recordingModule is a Module that reports every hook to the recorder.
type recordingModule struct {
	id  string
	rec *hookRecorder
}

func (m *recordingModule) OnLoad()    { m.rec.record(m.id + ":load") }
func (m *recordingModule) OnEnable()  { m.rec.record(m.id + ":enable") }
func (m *recordingModule) OnDisable() { m.rec.record(m.id + ":disable") }

// writeZip creates a zip archive at path with the given entries.
func writeZip(path string, entries map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		if err != nil {
			return err
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			return err
		}
	}
	return w.Close()
}

// writeModulePackage creates a zip archive in dir with the given entries.
func writeModulePackage(t *testing.T, dir, fileName string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, fileName)
	require.NoError(t, writeZip(path, entries))
	return path
}

// manifestJSON renders a minimal valid manifest for tests.
func manifestJSON(name, mainClass, deps string) string {
	return fmt.Sprintf(`{
		"moduleName": %q,
		"description": "test module %s",
		"version": "1.0.0",
		"authors": ["tester"],
		"mainClass": %q,
		"dependencies": [%s]
	}`, name, name, mainClass, deps)
}
