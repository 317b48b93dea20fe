package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// イベント変更操作の総数（operation: create/update/delete, status: success/denied/not_found/invalid/storage_error/lock_failed/error）
	EventMutationsTotal *prometheus.CounterVec

	// いいねの総数
	EventLikesTotal prometheus.Counter

	// 画像アップロードの所要時間
	ImageUploadDuration prometheus.Histogram
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		EventMutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_mutations_total",
				Help: "Total number of event mutation attempts",
			},
			[]string{"operation", "status"},
		),
		EventLikesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "event_likes_total",
				Help: "Total number of event likes",
			},
		),
		ImageUploadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "image_upload_duration_seconds",
				Help:    "Time spent uploading event images to object storage",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.EventMutationsTotal,
		m.EventLikesTotal,
		m.ImageUploadDuration,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
