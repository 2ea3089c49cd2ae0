package metricmgr

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

type MetricMgr interface {
	// Increment metric
	IncrementMetric(metric Metric, value int32) error
	// Retreive Metric
	GetMetric(metric Metric) (int32, bool)
	// Non-zero metrics as "name=value" pairs, sorted by name
	String() string
	// set metric
	setMetric(metric Metric, ptr *int32) error
}

type _MetricMgr struct {
	metrics map[Metric]*int32
}

// Init returns a MetricMgr with every metric in AllMetrics set to 0.
func Init() MetricMgr {
	metricMgr := NewMetricMgr()
	for _, metric := range AllMetrics {
		value := int32(0)
		metricMgr.setMetric(metric, &value)
	}
	return metricMgr
}

func NewMetricMgr() MetricMgr {
	return &_MetricMgr{
		metrics: make(map[Metric]*int32),
	}
}

func (m *_MetricMgr) IncrementMetric(metric Metric, value int32) error {
	ptr, ok := m.metrics[metric]
	if !ok {
		return errors.New("metric " + string(metric) + " not found")
	}
	atomic.AddInt32(ptr, value)
	return nil
}

func (m *_MetricMgr) GetMetric(metric Metric) (int32, bool) {
	ptr, ok := m.metrics[metric]
	if !ok {
		return int32(0), false
	}
	return atomic.LoadInt32(ptr), true
}

func (m *_MetricMgr) String() string {
	pairs := []string{}
	for metric := range m.metrics {
		value, _ := m.GetMetric(metric)
		if value == 0 {
			continue
		}
		pairs = append(pairs, string(metric)+"="+strconv.Itoa(int(value)))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

func (m *_MetricMgr) setMetric(metric Metric, ptr *int32) error {
	if _, ok := m.metrics[metric]; ok {
		return errors.New("metric " + string(metric) + " already exists")
	}
	m.metrics[metric] = ptr
	return nil
}
