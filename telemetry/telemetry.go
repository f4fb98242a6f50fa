// Package telemetry bridges the mesh's own log package to Honeycomb, in
// the style of onet's tracing package (a Logger implementation that
// forwards every log line as a Honeycomb event) plus a periodic host-resource
// sample via gopsutil.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycombio/beeline-go"
	"github.com/honeycombio/libhoney-go"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"go.dedis.ch/mesh/log"
)

// Config holds the Honeycomb destination for a process's telemetry.
type Config struct {
	WriteKey    string
	Dataset     string
	ServiceName string
}

// Start initializes beeline with cfg and registers a Logger sink that
// forwards every mesh/log line as a Honeycomb event. The returned func
// flushes and tears both down.
func Start(cfg Config) func() {
	beeline.Init(beeline.Config{
		WriteKey:    cfg.WriteKey,
		Dataset:     cfg.Dataset,
		ServiceName: cfg.ServiceName,
	})
	key := log.RegisterLogger(&honeycombSink{})
	return func() {
		log.UnregisterLogger(key)
		beeline.Close()
	}
}

type honeycombSink struct{}

func (honeycombSink) Log(level int, msg string) {
	ev := libhoney.NewEvent()
	defer ev.Send()
	ev.AddField("level", level)
	ev.AddField("message", msg)
}

func (honeycombSink) Close() {}

// HostSample is one gopsutil-derived reading of the local machine's load.
type HostSample struct {
	CPUPercent    float64
	MemUsedBytes  uint64
	MemTotalBytes uint64
}

// TakeHostSample reads one HostSample. It blocks for up to a second while
// gopsutil measures CPU usage over that interval.
func TakeHostSample() (HostSample, error) {
	percents, err := cpu.Percent(time.Second, false)
	if err != nil {
		return HostSample{}, fmt.Errorf("telemetry: cpu sample: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return HostSample{}, fmt.Errorf("telemetry: memory sample: %w", err)
	}
	cpuPct := 0.0
	if len(percents) > 0 {
		cpuPct = percents[0]
	}
	return HostSample{CPUPercent: cpuPct, MemUsedBytes: vm.Used, MemTotalBytes: vm.Total}, nil
}

// SampleHostResources emits one gopsutil-derived host event every
// interval until ctx is done, for long-running node processes that have
// telemetry.Start's Honeycomb sink registered.
func SampleHostResources(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emitHostSample()
		}
	}
}

func emitHostSample() {
	s, err := TakeHostSample()
	if err != nil {
		log.Errorf("telemetry: %v", err)
		return
	}
	ev := libhoney.NewEvent()
	defer ev.Send()
	ev.AddField("cpu_percent", s.CPUPercent)
	ev.AddField("mem_used_bytes", s.MemUsedBytes)
	ev.AddField("mem_total_bytes", s.MemTotalBytes)
}
