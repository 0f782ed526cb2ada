package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ScoreSubmissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "contestcore", Name: "score_submissions_total", Help: "Judge score submissions",
	})
	FeeQuotes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "contestcore", Name: "fee_quotes_total", Help: "Fee breakdown calculations",
	})
	RankingRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "contestcore", Name: "ranking_requests_total", Help: "Ranking computations",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "contestcore", Name: "handler_errors_total", Help: "API handler errors",
	})
	ScoredPerformances = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "contestcore", Name: "scored_performances", Help: "Performances with at least one score",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "contestcore", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(ScoreSubmissions, FeeQuotes, RankingRequests,
		HandlerErrors, ScoredPerformances, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
