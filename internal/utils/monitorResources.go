package utils

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// MonitorResources logs resource usage (goroutines and memory) periodically.
// Useful during long parameter sweeps with high parallelism.
func MonitorResources(interval time.Duration, log *logrus.Entry) {
	go func() {
		var memStats runtime.MemStats
		for {
			runtime.ReadMemStats(&memStats)
			log.WithFields(logrus.Fields{
				"goroutines":   runtime.NumGoroutine(),
				"heap_kb":      float64(memStats.HeapAlloc) / 1024,
				"heap_objects": memStats.HeapObjects,
			}).Debug("resource monitor")
			time.Sleep(interval)
		}
	}()
}
