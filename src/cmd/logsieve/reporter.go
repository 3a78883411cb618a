package main

import (
	"context"
	"time"

	"logsieve/src/internal/service"

	"github.com/lixenwraith/log"
)

// statusReporter periodically logs per-appender counters until ctx is done
func statusReporter(ctx context.Context, svc *service.Service, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reportStatus(svc, logger)
		}
	}
}

func reportStatus(svc *service.Service, logger *log.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("msg", "Panic in status reporter",
				"component", "status_reporter",
				"panic", r)
		}
	}()

	stats := svc.GetStats()
	logger.Debug("msg", "Status report",
		"component", "status_reporter",
		"total_entries", stats["total_entries"],
		"appenders", stats["total_appenders"])

	for _, a := range svc.Appenders() {
		appenderStats := a.GetStats()
		logger.Debug("msg", "Appender status",
			"component", "status_reporter",
			"appender", a.Name(),
			"processed", appenderStats["total_processed"],
			"accepted", appenderStats["total_accepted"],
			"neutral", appenderStats["total_neutral"],
			"rejected", appenderStats["total_rejected"],
			"filters", appenderStats["filter_count"])
	}
}
