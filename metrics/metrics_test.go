package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qntx/avlstore/metrics"
)

func TestCollectorRegistersAndRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg, "test-tree")

	c.Observe("insert", "ok", time.Now())
	c.SetSize(5)
	c.ObserveCacheSize(3)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}

	assert.True(t, names["avlstore_tree_operations_total"])
	assert.True(t, names["avlstore_tree_operation_duration_seconds"])
	assert.True(t, names["avlstore_tree_size"])
	assert.True(t, names["avlstore_tree_write_cache_entries"])
}

func TestCollectorNilReceiverIsSafe(t *testing.T) {
	var c *metrics.Collector

	assert.NotPanics(t, func() {
		c.Observe("insert", "ok", time.Now())
		c.SetSize(1)
		c.ObserveCacheSize(1)
	})
}
