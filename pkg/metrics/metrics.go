// Package metrics 基于Prometheus的指标收集
//
// 指标分三组:
//
//   - HTTP: 请求总数、耗时分布、处理中的请求数
//   - 借阅: 各操作的次数(按结果分类)与耗时,最近一次逾期查询的结果数
//   - 消息队列: 借阅事件的发布与消费
//
// 使用示例:
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	l, err := engine.Issue(ctx, readerID, bookID)
//	metrics.ObserveLendingOperation("issue", start, err)
//
// 命名规范: Counter以_total结尾,Histogram以单位结尾(_seconds)。
// 标签只使用有限取值(method、operation、result),不要使用图书ID、读者ID。
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	initOnce sync.Once

	// HTTPRequestsTotal HTTP请求总数
	// 标签:method、path(路由模板,如/api/v1/books/:id)、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// LendingOperationsTotal 借阅操作总数
	// 标签:operation(issue/return/update/delete)、result(success或错误类别)
	LendingOperationsTotal *prometheus.CounterVec

	// LendingOperationDuration 借阅操作耗时(含事务)
	LendingOperationDuration *prometheus.HistogramVec

	// OverdueLendings 最近一次逾期查询返回的记录数
	OverdueLendings prometheus.Gauge

	// MessagesPublishedTotal 消息发布总数
	// 标签:exchange、routing_key、result(success/failure)
	MessagesPublishedTotal *prometheus.CounterVec

	// MessagesConsumedTotal 消息消费总数
	// 标签:queue、result(success/failure)
	MessagesConsumedTotal *prometheus.CounterVec

	// MessageProcessingDuration 消息处理耗时
	MessageProcessingDuration prometheus.Histogram
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry,重复调用安全
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时(秒)",
			// 1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	LendingOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_lending_operations_total",
			Help: "借阅操作总数",
		},
		[]string{"operation", "result"},
	)

	LendingOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "library_lending_operation_duration_seconds",
			Help:    "借阅操作耗时(秒)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	OverdueLendings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_overdue_lendings",
			Help: "最近一次逾期查询返回的借阅数",
		},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)

	MessagesConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)

	MessageProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "message_processing_duration_seconds",
			Help:    "消息处理耗时(秒)",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5},
		},
	)
}

// ObserveLendingOperation 记录一次借阅操作的结果和耗时
// 未调用InitMetrics时不记录
func ObserveLendingOperation(operation string, start time.Time, err error) {
	if LendingOperationsTotal == nil {
		return
	}
	LendingOperationsTotal.With(prometheus.Labels{
		"operation": operation,
		"result":    ResultOf(err),
	}).Inc()
	LendingOperationDuration.With(prometheus.Labels{"operation": operation}).
		Observe(time.Since(start).Seconds())
}

// ResultOf 操作结果标签:成功为success,失败为错误类别
func ResultOf(err error) string {
	if err == nil {
		return "success"
	}
	return string(apperrors.KindOf(err))
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// IncCounterVec 递增CounterVec(带标签)
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值(带标签)
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
