package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics() // 重复调用不应panic(重复注册)

	if HTTPRequestsTotal == nil || HTTPRequestDuration == nil || HTTPRequestsInProgress == nil {
		t.Fatal("HTTP指标未初始化")
	}
	if LendingOperationsTotal == nil || LendingOperationDuration == nil || OverdueLendings == nil {
		t.Fatal("借阅指标未初始化")
	}
}

// TestObserveLendingOperation 按结果分类计数
func TestObserveLendingOperation(t *testing.T) {
	InitMetrics()

	conflict := apperrors.New(apperrors.ErrCodeBookAlreadyLent, "图书已借出")
	start := time.Now()
	ObserveLendingOperation("issue", start, nil)
	ObserveLendingOperation("issue", start, nil)
	ObserveLendingOperation("issue", start, conflict)

	if got := getCounterVecValue(t, LendingOperationsTotal, map[string]string{"operation": "issue", "result": "success"}); got != 2 {
		t.Errorf("成功次数错误: expected=2, got=%f", got)
	}
	if got := getCounterVecValue(t, LendingOperationsTotal, map[string]string{"operation": "issue", "result": "conflict"}); got != 1 {
		t.Errorf("冲突次数错误: expected=1, got=%f", got)
	}
	if got := getHistogramVecCount(t, LendingOperationDuration, map[string]string{"operation": "issue"}); got != 3 {
		t.Errorf("耗时观测次数错误: expected=3, got=%d", got)
	}
}

// TestResultOf 结果标签
func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"成功", nil, "success"},
		{"不存在", apperrors.New(apperrors.ErrCodeReaderNotFound, "x"), "not_found"},
		{"结构性规则", apperrors.New(apperrors.ErrCodeActiveLoanDeletion, "x"), "invariant"},
		{"普通错误", errors.New("boom"), "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultOf(tt.err); got != tt.want {
				t.Errorf("expected=%s, got=%s", tt.want, got)
			}
		})
	}
}

// TestGauge 测试Gauge指标
func TestGauge(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)
	if got := getGaugeValue(t, HTTPRequestsInProgress); got != 1 {
		t.Errorf("Gauge值错误: expected=1, got=%f", got)
	}

	SetGauge(OverdueLendings, 4)
	if got := getGaugeValue(t, OverdueLendings); got != 4 {
		t.Errorf("逾期数错误: expected=4, got=%f", got)
	}
}

// TestHTTPScenario 模拟HTTP请求处理
func TestHTTPScenario(t *testing.T) {
	InitMetrics()
	labels := map[string]string{"method": "POST", "path": "/api/v1/lendings/issue"}

	for i := 0; i < 5; i++ {
		IncGauge(HTTPRequestsInProgress)
		ObserveHistogramVec(HTTPRequestDuration, labels, 0.01)
		IncCounterVec(HTTPRequestsTotal, map[string]string{
			"method": "POST",
			"path":   "/api/v1/lendings/issue",
			"status": "201",
		})
		DecGauge(HTTPRequestsInProgress)
	}

	if got := getHistogramVecCount(t, HTTPRequestDuration, labels); got != 5 {
		t.Errorf("观测次数错误: expected=5, got=%d", got)
	}
}

// 辅助函数:获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	if err := counterVec.With(labels).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数:获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数:获取HistogramVec观测次数
func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	var metric dto.Metric
	histogram := histogramVec.With(labels)
	if err := histogram.(prometheus.Histogram).Write(&metric); err != nil {
		t.Fatalf("读取HistogramVec值失败: %v", err)
	}
	return metric.Histogram.GetSampleCount()
}
