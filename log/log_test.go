package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines  []string
	closed bool
}

func (r *recordingLogger) Log(level int, msg string) { r.lines = append(r.lines, msg) }
func (r *recordingLogger) Close()                    { r.closed = true }

func TestDebugVisible(t *testing.T) {
	old := DebugVisible()
	defer SetDebugVisible(old)

	SetDebugVisible(3)
	assert.Equal(t, 3, DebugVisible())
}

func TestLvlDiscardsAboveDebugVisible(t *testing.T) {
	old := DebugVisible()
	defer SetDebugVisible(old)
	SetDebugVisible(2)

	r := &recordingLogger{}
	key := RegisterLogger(r)
	defer UnregisterLogger(key)

	Lvl3("should be discarded")
	Lvl1("should be kept")

	require.Len(t, r.lines, 1)
	assert.Contains(t, r.lines[0], "should be kept")
}

func TestRegisterUnregisterLogger(t *testing.T) {
	r := &recordingLogger{}
	key := RegisterLogger(r)

	Info("hello")
	require.Len(t, r.lines, 1)
	assert.Contains(t, r.lines[0], "hello")

	UnregisterLogger(key)
	assert.True(t, r.closed)

	Info("after unregister")
	assert.Len(t, r.lines, 1)
}

func TestErrorfFormatsMessage(t *testing.T) {
	r := &recordingLogger{}
	key := RegisterLogger(r)
	defer UnregisterLogger(key)

	Errorf("failed: %d", 42)
	require.Len(t, r.lines, 1)
	assert.Contains(t, r.lines[0], "failed: 42")
}
