package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"katydid-common-param/pkg/validator/interceptor"
)

const subsystem = "param_validation"

// Collector 把拦截器统计导出为 Prometheus 计数器
// 每次采集时读取原子计数，不持有额外状态
type Collector struct {
	stats   *interceptor.Stats
	calls   *prometheus.Desc
	passed  *prometheus.Desc
	failed  *prometheus.Desc
	foreign *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector 创建采集器，namespace 可以为空
func NewCollector(namespace string, stats *interceptor.Stats) *Collector {
	return &Collector{
		stats: stats,
		calls: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "calls_total"),
			"Number of intercepted calls that were validated.",
			nil, nil,
		),
		passed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "passed_total"),
			"Number of calls whose parameters passed validation.",
			nil, nil,
		),
		failed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "failures_total"),
			"Number of calls rejected with a parameter error, by check kind.",
			[]string{"kind"}, nil,
		),
		foreign: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "foreign_errors_total"),
			"Number of validators that returned a non-parameter error.",
			nil, nil,
		),
	}
}

// Describe 实现 prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.passed
	ch <- c.failed
	ch <- c.foreign
}

// Collect 实现 prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.Calls.Load()))
	ch <- prometheus.MustNewConstMetric(c.passed, prometheus.CounterValue, float64(s.Passed.Load()))
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(s.RequiredFailures.Load()), "required")
	ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(s.CustomFailures.Load()), "custom")
	ch <- prometheus.MustNewConstMetric(c.foreign, prometheus.CounterValue, float64(s.ForeignErrors.Load()))
}

// Register 创建采集器并注册到 registerer
func Register(registerer prometheus.Registerer, namespace string, stats *interceptor.Stats) (*Collector, error) {
	c := NewCollector(namespace, stats)
	if err := registerer.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
