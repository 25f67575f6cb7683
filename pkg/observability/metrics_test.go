package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codecbench/pkg/observability"
)

func initProviders(t *testing.T) observability.Providers {
	t.Helper()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	return providers
}

// family returns the first gathered family whose name starts with prefix.
func family(t *testing.T, providers observability.Providers, prefix string) *dto.MetricFamily {
	t.Helper()

	families, err := providers.Registry.Gather()
	require.NoError(t, err)

	for _, fam := range families {
		if strings.HasPrefix(fam.GetName(), prefix) {
			return fam
		}
	}

	require.Failf(t, "metric family not found", "prefix %q", prefix)

	return nil
}

func counterSum(fam *dto.MetricFamily) float64 {
	var sum float64

	for _, m := range fam.GetMetric() {
		sum += m.GetCounter().GetValue()
	}

	return sum
}

func TestBenchMetrics_Records(t *testing.T) {
	t.Parallel()

	providers := initProviders(t)

	bm, err := observability.NewBenchMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordImage(ctx, 100, 400)
	bm.RecordImage(ctx, 50, 150)
	bm.RecordEncode(ctx, "png", 2*time.Millisecond, 120)
	bm.RecordDecode(ctx, "png", time.Millisecond)
	bm.RecordFailure(ctx, "decode")

	assert.InDelta(t, 2, counterSum(family(t, providers, "codecbench_images")), 1e-9)
	assert.InDelta(t, 150, counterSum(family(t, providers, "codecbench_pixels")), 1e-9)
	assert.InDelta(t, 550, counterSum(family(t, providers, "codecbench_raw_size")), 1e-9)
	assert.InDelta(t, 120, counterSum(family(t, providers, "codecbench_encoded_size")), 1e-9)
	assert.InDelta(t, 1, counterSum(family(t, providers, "codecbench_failures")), 1e-9)

	trials := family(t, providers, "codecbench_trial_duration")
	require.Len(t, trials.GetMetric(), 2, "one series per codec and op")

	for _, m := range trials.GetMetric() {
		assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	}
}

func TestBenchMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var bm *observability.BenchMetrics

	ctx := context.Background()

	assert.NotPanics(t, func() {
		bm.RecordImage(ctx, 1, 4)
		bm.RecordEncode(ctx, "lz4", time.Second, 4)
		bm.RecordDecode(ctx, "lz4", time.Second)
		bm.RecordFailure(ctx, "load")
	})
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	providers := initProviders(t)

	bm, err := observability.NewBenchMetrics(providers.Meter)
	require.NoError(t, err)

	bm.RecordImage(context.Background(), 10, 40)

	path := filepath.Join(t.TempDir(), "codecbench.prom")
	require.NoError(t, observability.WriteTextfile(path, providers.Registry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "codecbench_images")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	t.Parallel()

	providers := initProviders(t)

	err := observability.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), providers.Registry)
	require.Error(t, err)
}
