// Package status serves service statistics and Prometheus metrics over HTTP.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"runtime"
	"strconv"
	"sync"
	"time"

	"logsieve/src/internal/config"
	"logsieve/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// StatsFunc returns a snapshot of service statistics
type StatsFunc func() map[string]any

// Server is the status HTTP endpoint
type Server struct {
	config  config.StatusConfig
	stats   StatsFunc
	metrics fasthttp.RequestHandler
	server  *fasthttp.Server
	logger  *log.Logger

	startTime time.Time
	addr      net.Addr
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

func New(cfg config.StatusConfig, stats StatsFunc, gatherer prometheus.Gatherer, logger *log.Logger) *Server {
	s := &Server{
		config:    cfg,
		stats:     stats,
		logger:    logger,
		startTime: time.Now(),
		metrics: fasthttpadaptor.NewFastHTTPHandler(
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		),
	}

	s.server = &fasthttp.Server{
		Name:             fmt.Sprintf("%s/%s", version.Name, version.Short()),
		Handler:          s.requestHandler,
		DisableKeepalive: false,
		CloseOnShutdown:  true,
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     5 * time.Second,
		Logger:           compat.NewFastHTTPAdapter(logger),
	}
	return s
}

// Start listens on the configured address and serves in the background until
// ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, strconv.FormatInt(s.config.Port, 10))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("status server listen on %s: %w", addr, err)
	}
	s.addr = ln.Addr()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.Serve(ln); err != nil {
			s.logger.Error("msg", "Status server failed",
				"component", "status_server",
				"error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("msg", "Status server started",
		"component", "status_server",
		"address", ln.Addr().String(),
		"status_path", s.config.StatusPath,
		"metrics_path", s.config.MetricsPath)
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	return s.addr
}

func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.server.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Warn("msg", "Status server shutdown error",
				"component", "status_server",
				"error", err)
		}
		s.wg.Wait()
	})
}

func (s *Server) requestHandler(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		return
	}

	switch string(ctx.Path()) {
	case s.config.StatusPath:
		s.handleStatus(ctx)
	case s.config.MetricsPath:
		s.metrics(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		ctx.SetContentType("application/json")
		json.NewEncoder(ctx).Encode(map[string]any{
			"error": "Not Found",
			"endpoints": []string{
				s.config.StatusPath,
				s.config.MetricsPath,
			},
		})
	}
}

func (s *Server) handleStatus(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("application/json")

	status := map[string]any{
		"service":        version.Name,
		"version":        version.Info(),
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
		"stats":          s.stats(),
		"system":         systemStats(),
	}

	if err := json.NewEncoder(ctx).Encode(status); err != nil {
		s.logger.Error("msg", "Failed to encode status",
			"component", "status_server",
			"error", err)
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
	}
}

// systemStats reports host memory and CPU usage. Values that cannot be read
// on this platform are omitted.
func systemStats() map[string]any {
	stats := map[string]any{
		"goroutines": runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats["memory_total_bytes"] = vm.Total
		stats["memory_used_percent"] = vm.UsedPercent
	}
	// Interval 0 compares against the previous call
	if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
		stats["cpu_percent"] = pct[0]
	}
	return stats
}
