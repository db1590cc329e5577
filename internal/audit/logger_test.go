package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActionWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger := NewLogger(Options{Path: path, MaxSizeMB: 1})
	defer logger.Close()

	ctx := WithRequestID(context.Background(), "req-123")
	logger.LogAction(ctx, "Connect", "SUCCESS", 42*time.Millisecond)
	logger.LogAction(ctx, "Scan", "TIMEOUT", 5*time.Second)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, entries, 2)

	assert.Equal(t, "Connect", entries[0].Action)
	assert.Equal(t, "SUCCESS", entries[0].Outcome)
	assert.Equal(t, "req-123", entries[0].RequestID)
	assert.Equal(t, int64(42), entries[0].LatencyMS)

	assert.Equal(t, "Scan", entries[1].Action)
	assert.Equal(t, "TIMEOUT", entries[1].Outcome)
	assert.Equal(t, int64(5000), entries[1].LatencyMS)
}

func TestRequestIDFallback(t *testing.T) {
	// Without WithRequestID a fresh identifier is generated.
	id := RequestID(context.Background())
	assert.NotEmpty(t, id)

	ctx := WithRequestID(context.Background(), "fixed")
	assert.Equal(t, "fixed", RequestID(ctx))
}
