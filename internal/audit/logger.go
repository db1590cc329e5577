// Package audit writes one JSON line per control-plane action so operator
// activity against the radio can be reconstructed after the fact.
package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ctxKey is the context key type for request-scoped audit metadata.
type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID attaches a request identifier to ctx. Actions logged under
// ctx carry the identifier, letting one HTTP request be correlated with the
// radio operations it triggered.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the identifier attached by WithRequestID, or a fresh
// one when ctx carries none.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// Entry is a single audit record.
type Entry struct {
	Timestamp string `json:"ts"`
	RequestID string `json:"requestId"`
	Action    string `json:"action"`
	Outcome   string `json:"outcome"`
	LatencyMS int64  `json:"latencyMs"`
}

// Logger appends JSONL entries to a size-rotated file.
type Logger struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

// Options controls the audit file location and rotation.
type Options struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger creates an audit logger writing to opts.Path. The file is
// created lazily on first write.
func NewLogger(opts Options) *Logger {
	return &Logger{
		out: &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		},
	}
}

// LogAction records one completed action. Write failures are swallowed:
// audit loss must never fail the radio operation that triggered it.
func (l *Logger) LogAction(ctx context.Context, action, outcome string, latency time.Duration) {
	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		RequestID: RequestID(ctx),
		Action:    action,
		Outcome:   outcome,
		LatencyMS: latency.Milliseconds(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(data)
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Close()
}
