package daemon

import (
	"context"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

const statsInterval = 30 * time.Second

// monitorRuntime logs periodic memory/goroutine stats for the life of
// ctx, so an unattended multi-hour sweep leaves a trail an operator can
// check without attaching a profiler.
func monitorRuntime(ctx context.Context, log *logrus.Entry) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	var m runtime.MemStats
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runtime.ReadMemStats(&m)
			log.WithField("sysMemKb", m.Sys/1024).WithField("routines", runtime.NumGoroutine()).Info("daemon runtime stats")
		}
	}
}
