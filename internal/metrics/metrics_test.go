package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg)

	m.PutTotal.WithLabelValues("accepted").Inc()
	m.GetTotal.Inc()
	m.DiffTotal.Inc()
	m.SummaryTotal.Inc()
	m.SeriesTotal.Inc()
	m.RepropagationLength.Observe(3)
	m.MappedFileGrowths.WithLabelValues("_.d").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	require.Len(t, families, 7)
}
