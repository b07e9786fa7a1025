// Package telemetry appends structured events to <artifacts>/events.jsonl.
//
// Events carry sizes, counts and durations only; message text and tool
// payloads are never written.
package telemetry

import (
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

const eventsFile = "events.jsonl"

var (
	mu      sync.Mutex
	enabled bool
	dir     = ".agent"
	errLog  logrus.FieldLogger = logrus.StandardLogger()
)

// Configure sets the artifacts directory and turns emission on or off.
// An empty dir keeps the current one.
func Configure(artifactsDir string, on bool) {
	mu.Lock()
	defer mu.Unlock()
	if artifactsDir != "" {
		dir = artifactsDir
	}
	enabled = on
}

// SetErrorLogger routes emission failures to l.
func SetErrorLogger(l logrus.FieldLogger) {
	mu.Lock()
	defer mu.Unlock()
	errLog = l
}

// Enabled reports whether events are being written.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Emit writes a single JSON line when emission is enabled.
// It augments fields with RFC3339Nano time and the event name.
func Emit(name string, fields map[string]any) {
	mu.Lock()
	defer mu.Unlock()
	if !enabled {
		return
	}

	// Shallow copy so callers' maps aren't mutated.
	m := make(map[string]any, len(fields)+2)
	maps.Copy(m, fields)
	m["time"] = time.Now().UTC().Format(time.RFC3339Nano)
	m["event"] = name

	b, err := json.Marshal(m)
	if err != nil {
		errLog.WithError(err).WithField("event", name).Warn("telemetry: marshal")
		return
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		errLog.WithError(err).WithField("dir", dir).Warn("telemetry: mkdir")
		return
	}

	path := filepath.Join(dir, eventsFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		errLog.WithError(err).WithField("path", path).Warn("telemetry: open")
		return
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		errLog.WithError(err).WithField("path", path).Warn("telemetry: write")
	}
}
