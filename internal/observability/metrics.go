package observability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	types "github.com/yungbote/botbridge-backend/internal/domain"
	"github.com/yungbote/botbridge-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter
	apiReqGood  *Counter

	sentenceEvents *CounterVec
	sentenceCount  *GaugeVec

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	sloLatencyThreshold float64
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	v := strings.TrimSpace(os.Getenv("METRICS_SCRAPE_INTERVAL_SECONDS"))
	if v == "" {
		return 10 * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n) * time.Second
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		latencyThreshold := 0.5
		if v := strings.TrimSpace(os.Getenv("SLO_API_LATENCY_THRESHOLD_SECONDS")); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				latencyThreshold = f
			}
		}
		instance = &Metrics{
			apiRequests: NewCounterVec("bb_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
			apiLatency: NewHistogramVec(
				"bb_api_request_duration_seconds",
				"API request latency in seconds by method/route/status.",
				[]string{"method", "route", "status"},
				[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			),
			apiInflight: NewGauge("bb_api_inflight_requests", "In-flight API requests."),
			apiReqTotal: NewCounter("bb_api_requests_total_all", "Total API requests (all)."),
			apiReqError: NewCounter("bb_api_requests_error_total", "Total API requests with 5xx status."),
			apiReqGood:  NewCounter("bb_api_requests_good_latency_total", "Total API requests under SLO latency threshold."),
			sentenceEvents: NewCounterVec(
				"bb_sentence_events_total",
				"Sentence change events published by event type.",
				[]string{"event"},
			),
			sentenceCount:       NewGaugeVec("bb_sentences", "Stored sentences by workflow status.", []string{"status"}),
			pgStats:             NewGaugeVec("bb_postgres_stats", "Postgres connection stats.", []string{"metric"}),
			redisUp:             NewGauge("bb_redis_up", "Redis connectivity (1=up, 0=down)."),
			redisPing:           NewGauge("bb_redis_ping_seconds", "Redis ping latency in seconds."),
			sloLatencyThreshold: latencyThreshold,
		}
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	if err := m.apiRequests.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.apiLatency.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.apiInflight.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.apiReqTotal.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.apiReqError.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.apiReqGood.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.sentenceEvents.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.sentenceCount.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.pgStats.WritePrometheus(w); err != nil {
		return err
	}
	if err := m.redisUp.WritePrometheus(w); err != nil {
		return err
	}
	return m.redisPing.WritePrometheus(w)
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
	if m.sloLatencyThreshold > 0 && dur.Seconds() <= m.sloLatencyThreshold {
		m.apiReqGood.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// IncSentenceEvent counts one published sentence change event.
func (m *Metrics) IncSentenceEvent(event string) {
	if m == nil {
		return
	}
	if event == "" {
		event = "unknown"
	}
	m.sentenceEvents.Inc(event)
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
				m.pgStats.Set(float64(stats.InUse), "in_use")
				m.pgStats.Set(float64(stats.Idle), "idle")
				m.pgStats.Set(float64(stats.WaitCount), "wait_count")
				m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.pgStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	interval := scrapeInterval()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

// StartSentenceStatsCollector samples the per-status sentence counts so the
// validation backlog is visible without querying the admin API.
func (m *Metrics) StartSentenceStatsCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	statuses := []types.SentenceStatus{
		types.StatusInbox, types.StatusValidated, types.StatusModel, types.StatusDeleted,
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, s := range statuses {
					m.sentenceCount.Set(0, string(s))
				}
				var rows []struct {
					Status string
					Count  int64
				}
				if err := db.WithContext(ctx).
					Model(&types.ClassifiedSentence{}).
					Select("status, count(*) as count").
					Group("status").
					Scan(&rows).Error; err != nil {
					if log != nil {
						log.Warn("metrics: sentence stats query failed", "error", err)
					}
					continue
				}
				for _, row := range rows {
					status := strings.TrimSpace(row.Status)
					if status == "" {
						status = "unknown"
					}
					m.sentenceCount.Set(float64(row.Count), status)
				}
			}
		}
	}()
}

// ---- lightweight metric primitives (Prometheus exposition) ----

type CounterVec struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]float64
}

func NewCounterVec(name, help string, labels []string) *CounterVec {
	return &CounterVec{name: name, help: help, labelNames: labels, values: map[string]float64{}}
}

func (c *CounterVec) Inc(values ...string) {
	if c == nil {
		return
	}
	lbl := labelString(c.labelNames, values)
	c.mu.Lock()
	c.values[lbl]++
	c.mu.Unlock()
}

func (c *CounterVec) Add(v float64, values ...string) {
	if c == nil {
		return
	}
	lbl := labelString(c.labelNames, values)
	c.mu.Lock()
	c.values[lbl] += v
	c.mu.Unlock()
}

func (c *CounterVec) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s counter\n", c.name); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.values {
		if _, err := fmt.Fprintf(w, "%s%s %f\n", c.name, k, v); err != nil {
			return err
		}
	}
	return nil
}

type Counter struct {
	name string
	help string
	mu   sync.RWMutex
	val  float64
}

func NewCounter(name, help string) *Counter {
	return &Counter{name: name, help: help}
}

func (c *Counter) Inc() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.val++
	c.mu.Unlock()
}

func (c *Counter) Value() float64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.val
}

func (c *Counter) WritePrometheus(w io.Writer) error {
	if c == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s counter\n", c.name); err != nil {
		return err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, err := fmt.Fprintf(w, "%s %f\n", c.name, c.val)
	return err
}

type Gauge struct {
	name string
	help string
	mu   sync.RWMutex
	val  float64
}

func NewGauge(name, help string) *Gauge {
	return &Gauge{name: name, help: help}
}

func (g *Gauge) Set(v float64) {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.val = v
	g.mu.Unlock()
}

func (g *Gauge) Inc() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.val++
	g.mu.Unlock()
}

func (g *Gauge) Dec() {
	if g == nil {
		return
	}
	g.mu.Lock()
	g.val--
	g.mu.Unlock()
}

func (g *Gauge) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", g.name, g.help); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s gauge\n", g.name); err != nil {
		return err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, err := fmt.Fprintf(w, "%s %f\n", g.name, g.val)
	return err
}

type GaugeVec struct {
	name       string
	help       string
	labelNames []string
	mu         sync.RWMutex
	values     map[string]float64
}

func NewGaugeVec(name, help string, labels []string) *GaugeVec {
	return &GaugeVec{name: name, help: help, labelNames: labels, values: map[string]float64{}}
}

func (g *GaugeVec) Set(v float64, values ...string) {
	if g == nil {
		return
	}
	lbl := labelString(g.labelNames, values)
	g.mu.Lock()
	g.values[lbl] = v
	g.mu.Unlock()
}

func (g *GaugeVec) WritePrometheus(w io.Writer) error {
	if g == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", g.name, g.help); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s gauge\n", g.name); err != nil {
		return err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for k, v := range g.values {
		if _, err := fmt.Fprintf(w, "%s%s %f\n", g.name, k, v); err != nil {
			return err
		}
	}
	return nil
}

type HistogramVec struct {
	name       string
	help       string
	labelNames []string
	buckets    []float64
	mu         sync.RWMutex
	values     map[string]*histogram
}

type histogram struct {
	buckets []float64
	counts  []uint64
	sum     float64
	total   uint64
}

func NewHistogramVec(name, help string, labels []string, buckets []float64) *HistogramVec {
	if len(buckets) == 0 {
		buckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}
	}
	return &HistogramVec{name: name, help: help, labelNames: labels, buckets: buckets, values: map[string]*histogram{}}
}

func (h *HistogramVec) Observe(v float64, values ...string) {
	if h == nil {
		return
	}
	lbl := labelString(h.labelNames, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	hist, ok := h.values[lbl]
	if !ok {
		hist = &histogram{
			buckets: h.buckets,
			counts:  make([]uint64, len(h.buckets)+1),
		}
		h.values[lbl] = hist
	}
	hist.sum += v
	hist.total++
	for i, b := range hist.buckets {
		if v <= b {
			hist.counts[i]++
		}
	}
	hist.counts[len(hist.counts)-1]++
}

func (h *HistogramVec) WritePrometheus(w io.Writer) error {
	if h == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "# HELP %s %s\n", h.name, h.help); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "# TYPE %s histogram\n", h.name); err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for k, v := range h.values {
		for i, b := range v.buckets {
			if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, fmt.Sprintf("%g", b)), v.counts[i]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s_bucket%s %d\n", h.name, withLe(k, "+Inf"), v.counts[len(v.counts)-1]); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s_sum%s %f\n", h.name, k, v.sum); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s_count%s %d\n", h.name, k, v.total); err != nil {
			return err
		}
	}
	return nil
}

func labelString(names []string, values []string) string {
	if len(names) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("{")
	for i, name := range names {
		if i > 0 {
			b.WriteString(",")
		}
		val := "unknown"
		if i < len(values) {
			val = values[i]
		}
		b.WriteString(name)
		b.WriteString("=\"")
		b.WriteString(escapeLabel(val))
		b.WriteString("\"")
	}
	b.WriteString("}")
	return b.String()
}

func escapeLabel(v string) string {
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "\\", "\\\\")
	v = strings.ReplaceAll(v, "\"", "\\\"")
	v = strings.ReplaceAll(v, "\n", "\\n")
	return v
}

func withLe(labels string, le string) string {
	le = escapeLabel(le)
	if labels == "" || labels == "{}" {
		return "{le=\"" + le + "\"}"
	}
	if strings.HasSuffix(labels, "}") {
		return strings.TrimSuffix(labels, "}") + ",le=\"" + le + "\"}"
	}
	return "{le=\"" + le + "\"}"
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}
