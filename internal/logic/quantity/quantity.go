package quantity

import (
	"fmt"
	"math"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"
)

const (
	// cpuUnitsPerCore is the number of scheduler cpu units in one core.
	cpuUnitsPerCore = 1024

	// bytesPerMiB converts bytes to the scheduler memory unit.
	bytesPerMiB = 1024 * 1024
)

// Parse converts a raw quantity into base units (cores for cpu, bytes for memory).
// Accepted inputs are suffixed strings ("500m", "128Mi", "1G"), bare numbers and
// resource.Quantity values.
func Parse(raw any) (float64, error) {
	switch v := raw.(type) {
	case string:
		q, err := resource.ParseQuantity(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %w", ErrInvalidQuantity, v, err)
		}

		return q.AsApproximateFloat64(), nil
	case resource.Quantity:
		return v.AsApproximateFloat64(), nil
	case *resource.Quantity:
		if v == nil {
			return 0, fmt.Errorf("%w: nil quantity", ErrInvalidQuantity)
		}

		return v.AsApproximateFloat64(), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float32:
		return float64(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidQuantity, v)
		}

		return v, nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidQuantity, raw)
	}
}

// CPUToSchedulerUnits converts cores into scheduler cpu units (1 core = 1024).
func CPUToSchedulerUnits(cores float64) int64 {
	return int64(math.Round(cores * cpuUnitsPerCore))
}

// MemToSchedulerUnits converts bytes into MiB.
func MemToSchedulerUnits(bytes float64) int64 {
	return int64(math.Round(bytes / bytesPerMiB))
}

// CPUUnits parses a cpu quantity straight into scheduler units.
func CPUUnits(raw any) (int64, error) {
	cores, err := Parse(raw)
	if err != nil {
		return 0, err
	}

	return CPUToSchedulerUnits(cores), nil
}

// MemUnits parses a memory quantity straight into MiB.
func MemUnits(raw any) (int64, error) {
	bytes, err := Parse(raw)
	if err != nil {
		return 0, err
	}

	return MemToSchedulerUnits(bytes), nil
}
