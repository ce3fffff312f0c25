package quantity_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/skillcoder/specctl/internal/logic/quantity"
)

type parseCase struct {
	name    string
	give    any
	want    float64
	wantErr bool
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []parseCase{
		{name: "millicores", give: "500m", want: 0.5},
		{name: "whole cores string", give: "2", want: 2},
		{name: "fractional cores string", give: "0.25", want: 0.25},
		{name: "binary memory", give: "128Mi", want: 128 * 1024 * 1024},
		{name: "decimal memory", give: "1G", want: 1e9},
		{name: "int", give: 3, want: 3},
		{name: "float", give: 1.5, want: 1.5},
		{name: "quantity value", give: resource.MustParse("250m"), want: 0.25},
		{name: "surrounding spaces", give: " 1Gi ", want: 1 << 30},
		{name: "garbage", give: "lots", wantErr: true},
		{name: "unsupported type", give: []string{"1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := quantity.Parse(tt.give)
			if tt.wantErr {
				require.ErrorIs(t, err, quantity.ErrInvalidQuantity)

				return
			}

			require.NoError(t, err)
			require.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSchedulerUnits(t *testing.T) {
	t.Parallel()

	cores, err := quantity.Parse("500m")
	require.NoError(t, err)
	require.Equal(t, int64(512), quantity.CPUToSchedulerUnits(cores))

	bytes, err := quantity.Parse("128Mi")
	require.NoError(t, err)
	require.Equal(t, int64(128), quantity.MemToSchedulerUnits(bytes))

	cpu, err := quantity.CPUUnits("1")
	require.NoError(t, err)
	require.Equal(t, int64(1024), cpu)

	mem, err := quantity.MemUnits("1Gi")
	require.NoError(t, err)
	require.Equal(t, int64(1024), mem)

	_, err = quantity.CPUUnits("x")
	require.Error(t, err)
}

type fitCase struct {
	name    string
	giveCPU int64
	giveMem int64
	want    quantity.Capacity
	wantErr bool
}

func TestTable_Fit(t *testing.T) {
	t.Parallel()

	table := quantity.DefaultTable()

	tests := []fitCase{
		{name: "below floor", giveCPU: 100, giveMem: 400, want: quantity.Capacity{CPU: 256, Memory: 512}},
		{name: "exact floor", giveCPU: 256, giveMem: 512, want: quantity.Capacity{CPU: 256, Memory: 512}},
		{name: "rounds up both", giveCPU: 300, giveMem: 600, want: quantity.Capacity{CPU: 512, Memory: 1024}},
		{name: "memory step within tier", giveCPU: 256, giveMem: 1500, want: quantity.Capacity{CPU: 256, Memory: 2048}},
		{name: "memory forces bigger cpu", giveCPU: 256, giveMem: 5000, want: quantity.Capacity{CPU: 1024, Memory: 5120}},
		{name: "exact ladder value", giveCPU: 4096, giveMem: 8192, want: quantity.Capacity{CPU: 4096, Memory: 8192}},
		{name: "coarse increment", giveCPU: 8192, giveMem: 17000, want: quantity.Capacity{CPU: 8192, Memory: 20480}},
		{name: "cpu too large", giveCPU: 20000, giveMem: 1024, wantErr: true},
		{name: "memory too large", giveCPU: 256, giveMem: 200000, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := table.Fit(tt.giveCPU, tt.giveMem)
			if tt.wantErr {
				require.ErrorIs(t, err, quantity.ErrCapacityInfeasible)
				require.True(t, got.IsZero())

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTable_FitUnsortedTiers(t *testing.T) {
	t.Parallel()

	table := quantity.DefaultTable()
	table.Tiers[0], table.Tiers[3] = table.Tiers[3], table.Tiers[0]

	got, err := table.Fit(300, 600)
	require.NoError(t, err)
	require.Equal(t, quantity.Capacity{CPU: 512, Memory: 1024}, got)
}
