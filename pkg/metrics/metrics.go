// Package metrics keeps gauge and counter series in an embedded tstorage
// database under the application workdir. Readers get the latest values
// through Snapshot; history stays queryable through the tstorage files.
package metrics

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
)

var (
	mu       sync.RWMutex
	storage  tstorage.Storage
	latest   = make(map[string]int64)
	counters = make(map[string]int64)
)

// InitMetrics opens the metrics storage under workdir/metrics.
func InitMetrics(workdir string) error {
	dataPath := filepath.Join(workdir, "metrics")
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return err
	}
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(dataPath),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

func insert(name string, value int64) {
	mu.Lock()
	defer mu.Unlock()
	latest[name] = value
	if storage == nil {
		return
	}
	_ = storage.InsertRows([]tstorage.Row{
		{
			Metric: name,
			DataPoint: tstorage.DataPoint{
				Timestamp: time.Now().Unix(),
				Value:     float64(value),
			},
		},
	})
}

// SetGauge records the current value of a gauge series.
func SetGauge(name string, value int64) {
	insert(name, value)
}

// IncrCounter adds delta to a monotonic counter series.
func IncrCounter(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	total := counters[name]
	mu.Unlock()
	insert(name, total)
}

// Snapshot returns the latest value of every known series.
func Snapshot() map[string]int64 {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]int64, len(latest))
	for k, v := range latest {
		out[k] = v
	}
	return out
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}
