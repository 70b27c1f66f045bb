package metrics

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Collector keeps request counters for the whole server and per route.
type Collector struct {
	totalRequests   atomic.Int64
	failedRequests  atomic.Int64
	totalLatencyMic atomic.Int64
	startedAt       time.Time

	mu     sync.Mutex
	routes map[string]int64
}

type Snapshot struct {
	RequestsTotal    int64            `json:"requests_total"`
	RequestsFailed   int64            `json:"requests_failed"`
	AvgLatencyMicros int64            `json:"avg_latency_micros"`
	UptimeSeconds    int64            `json:"uptime_seconds"`
	Routes           map[string]int64 `json:"routes"`
	Timestamp        time.Time        `json:"timestamp"`
}

func New() *Collector {
	return &Collector{
		startedAt: time.Now(),
		routes:    make(map[string]int64),
	}
}

// GinMiddleware records request count, server failures and latency. Routes are keyed by
// their pattern so that path parameters do not explode the map.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {

		start := time.Now()
		ctx.Next()

		c.totalRequests.Add(1)
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			c.failedRequests.Add(1)
		}
		c.totalLatencyMic.Add(time.Since(start).Microseconds())

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		c.mu.Lock()
		c.routes[ctx.Request.Method+" "+route]++
		c.mu.Unlock()
	}
}

func (c *Collector) Snapshot() Snapshot {

	reqs := c.totalRequests.Load()

	var avgMicros int64
	if reqs > 0 {
		avgMicros = c.totalLatencyMic.Load() / reqs
	}

	c.mu.Lock()
	routes := make(map[string]int64, len(c.routes))
	for route, n := range c.routes {
		routes[route] = n
	}
	c.mu.Unlock()

	return Snapshot{
		RequestsTotal:    reqs,
		RequestsFailed:   c.failedRequests.Load(),
		AvgLatencyMicros: avgMicros,
		UptimeSeconds:    int64(time.Since(c.startedAt).Seconds()),
		Routes:           routes,
		Timestamp:        time.Now().UTC(),
	}
}

func (c *Collector) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, c.Snapshot())
	}
}
