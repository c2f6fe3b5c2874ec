package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// Metrics is nil when disabled; every method is safe on a nil receiver.
type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *Gauge
	quizAttempts  *CounterVec
	completions   *CounterVec
	notifications *CounterVec
	checkouts     *CounterVec
	dbStats       *GaugeVec
	redisUp       *Gauge
	redisPing     *Gauge
}

func NewMetrics(enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	return &Metrics{
		apiRequests: NewCounterVec("coursehub_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"coursehub_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight:   NewGauge("coursehub_api_inflight_requests", "In-flight API requests."),
		quizAttempts:  NewCounterVec("coursehub_quiz_attempts_total", "Graded quiz attempts by outcome.", []string{"outcome"}),
		completions:   NewCounterVec("coursehub_lesson_completion_writes_total", "Lesson completion writes by final toggle state.", []string{"state"}),
		notifications: NewCounterVec("coursehub_payment_notifications_total", "Payment notifications by resulting order status.", []string{"status", "applied"}),
		checkouts:     NewCounterVec("coursehub_checkouts_total", "Checkouts started by item type and kind.", []string{"item_type", "kind"}),
		dbStats:       NewGaugeVec("coursehub_db_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:       NewGauge("coursehub_redis_up", "1 when the last redis ping succeeded."),
		redisPing:     NewGauge("coursehub_redis_ping_seconds", "Latency of the last redis ping."),
	}
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
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
	for _, f := range []family{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.quizAttempts, m.completions, m.notifications, m.checkouts,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := f.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
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
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) InflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) InflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncQuizAttempt(passed bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if passed {
		outcome = "passed"
	}
	m.quizAttempts.Inc(outcome)
}

func (m *Metrics) IncCompletionWrite(state string) {
	if m == nil {
		return
	}
	m.completions.Inc(state)
}

func (m *Metrics) IncPaymentNotification(status string, applied bool) {
	if m == nil {
		return
	}
	a := "false"
	if applied {
		a = "true"
	}
	m.notifications.Inc(strings.ToLower(status), a)
}

func (m *Metrics) IncCheckout(itemType string, free bool) {
	if m == nil {
		return
	}
	kind := "paid"
	if free {
		kind = "free"
	}
	m.checkouts.Inc(itemType, kind)
}

// StartCollectors samples pool and redis health every interval until ctx ends.
// rdb may be nil.
func (m *Metrics) StartCollectors(ctx context.Context, log *logger.Logger, db *gorm.DB, rdb goredis.UniversalClient, interval time.Duration) {
	if m == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sampleDB(log, db)
				m.sampleRedis(ctx, log, rdb)
			}
		}
	}()
}

func (m *Metrics) sampleDB(log *logger.Logger, db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	stats := sqlDB.Stats()
	m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
	m.dbStats.Set(float64(stats.InUse), "in_use")
	m.dbStats.Set(float64(stats.Idle), "idle")
	m.dbStats.Set(float64(stats.WaitCount), "wait_count")
	m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
}

func (m *Metrics) sampleRedis(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if rdb == nil {
		return
	}
	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		m.redisUp.Set(0)
		if log != nil {
			log.Warn("metrics: redis ping failed", "error", err)
		}
		return
	}
	m.redisUp.Set(1)
	m.redisPing.Set(time.Since(start).Seconds())
}
