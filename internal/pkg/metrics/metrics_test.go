package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.HoldsTotal)
	assert.NotNil(t, m.HoldsExpiredTotal)
	assert.NotNil(t, m.DistributedLockDuration)
	assert.NotNil(t, m.ActiveHolds)
	assert.NotNil(t, m.OrdersTotal)
}

func gatherNames(t *testing.T, reg *prometheus.Registry) map[string]int {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]int, len(families))
	for _, f := range families {
		names[f.GetName()] = len(f.GetMetric())
	}
	return names
}

func TestHoldsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HoldsTotal.WithLabelValues("success").Inc()
	m.HoldsTotal.WithLabelValues("success").Inc()
	m.HoldsTotal.WithLabelValues("conflict").Inc()
	m.HoldsTotal.WithLabelValues("lock_failed").Inc()

	names := gatherNames(t, reg)
	assert.Equal(t, 3, names["seat_holds_total"])
}

func TestHoldsExpiredTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HoldsExpiredTotal.Add(5)

	names := gatherNames(t, reg)
	assert.Contains(t, names, "seat_holds_expired_total")
}

func TestHTTPRequestsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/flights", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/holds", "201").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/holds", "409").Inc()

	names := gatherNames(t, reg)
	assert.Equal(t, 3, names["http_requests_total"])
}

func TestActiveHolds(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ActiveHolds.WithLabelValues("active").Inc()
	m.ActiveHolds.WithLabelValues("active").Inc()
	m.ActiveHolds.WithLabelValues("confirmed").Inc()
	m.ActiveHolds.WithLabelValues("active").Dec()

	names := gatherNames(t, reg)
	assert.Equal(t, 2, names["active_seat_holds"])
}

func TestDistributedLockDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.DistributedLockDuration.WithLabelValues("acquire", "success").Observe(0.015)
	m.DistributedLockDuration.WithLabelValues("release", "success").Observe(0.002)

	names := gatherNames(t, reg)
	assert.Contains(t, names, "distributed_lock_duration_seconds")
}

func TestOrdersTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.OrdersTotal.WithLabelValues("created").Inc()
	m.OrdersTotal.WithLabelValues("paid").Inc()
	m.OrdersTotal.WithLabelValues("cancelled").Inc()

	names := gatherNames(t, reg)
	assert.Equal(t, 3, names["orders_total"])
}

func TestInit_CreatesDefaultMetrics(t *testing.T) {
	// 既存のdefaultMetricsをバックアップ
	oldMetrics := defaultMetrics
	defer func() { defaultMetrics = oldMetrics }()

	// Initを呼ぶとデフォルトレジストリに登録するため、テストでは直接セット
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	defaultMetrics = m

	got := Get()
	assert.Equal(t, m, got)
}
