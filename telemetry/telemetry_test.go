package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// With an empty WriteKey, beeline and libhoney fall back to writing
// events to stdout instead of dialing the Honeycomb API, so Start/stop
// is safe to exercise without a real key.
func TestStartRegistersAndTearsDownLogger(t *testing.T) {
	teardown := Start(Config{ServiceName: "meshnode-test"})
	assert.NotPanics(t, func() { teardown() })
}

func TestTakeHostSample(t *testing.T) {
	s, err := TakeHostSample()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, s.CPUPercent, 0.0)
	assert.Greater(t, s.MemTotalBytes, uint64(0))
}

func TestSampleHostResourcesStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		SampleHostResources(ctx, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SampleHostResources did not return after ctx cancellation")
	}
}
