package quantity

import (
	"cmp"
	"fmt"
	"slices"
)

// Capacity is a (cpu, memory) allocation in scheduler units.
type Capacity struct {
	CPU    int64 `json:"cpu"`
	Memory int64 `json:"memory"`
}

// IsZero reports whether no capacity was assigned.
func (c Capacity) IsZero() bool {
	return c.CPU == 0 && c.Memory == 0
}

func (c Capacity) String() string {
	return fmt.Sprintf("%d/%d", c.CPU, c.Memory)
}

// MemoryLadder lists the memory values a cpu tier accepts: Min + k*Increment up to Max.
type MemoryLadder struct {
	Min       int64 `json:"min"`
	Max       int64 `json:"max"`
	Increment int64 `json:"increment"`
}

// Tier is one cpu step of the capacity lattice.
type Tier struct {
	CPU    int64        `json:"cpu"`
	Memory MemoryLadder `json:"memory"`
}

// Table is the discrete set of capacities the scheduler accepts.
type Table struct {
	// Floor is returned unchanged for requests at or below it in both dimensions.
	Floor Capacity `json:"floor"`
	Tiers []Tier   `json:"tiers"`
}

// DefaultTable returns the Fargate task size table.
func DefaultTable() Table {
	return Table{
		Floor: Capacity{CPU: 256, Memory: 512},
		Tiers: []Tier{
			{CPU: 256, Memory: MemoryLadder{Min: 1024, Max: 2048, Increment: 1024}},
			{CPU: 512, Memory: MemoryLadder{Min: 1024, Max: 4096, Increment: 1024}},
			{CPU: 1024, Memory: MemoryLadder{Min: 2048, Max: 8192, Increment: 1024}},
			{CPU: 2048, Memory: MemoryLadder{Min: 4096, Max: 16384, Increment: 1024}},
			{CPU: 4096, Memory: MemoryLadder{Min: 8192, Max: 30720, Increment: 1024}},
			{CPU: 8192, Memory: MemoryLadder{Min: 16384, Max: 61440, Increment: 4096}},
			{CPU: 16384, Memory: MemoryLadder{Min: 32768, Max: 122880, Increment: 8192}},
		},
	}
}

// Fit rounds a (cpu, memory) request up to the smallest tier that dominates it.
// Returns ErrCapacityInfeasible when no tier can hold the request.
func (t Table) Fit(cpu, mem int64) (Capacity, error) {
	if cpu <= t.Floor.CPU && mem <= t.Floor.Memory {
		return t.Floor, nil
	}

	tiers := slices.Clone(t.Tiers)
	slices.SortFunc(tiers, func(a, b Tier) int {
		return cmp.Compare(a.CPU, b.CPU)
	})

	for _, tier := range tiers {
		if tier.CPU < cpu {
			continue
		}

		m, ok := tier.Memory.smallestAtLeast(mem)
		if !ok {
			continue
		}

		return Capacity{CPU: tier.CPU, Memory: m}, nil
	}

	return Capacity{}, fmt.Errorf("%w: cpu=%d memory=%d", ErrCapacityInfeasible, cpu, mem)
}

func (l MemoryLadder) smallestAtLeast(mem int64) (int64, bool) {
	diff := max(mem-l.Min, 0)

	steps := int64(0)
	if l.Increment > 0 {
		steps = (diff + l.Increment - 1) / l.Increment
	} else if diff > 0 {
		return 0, false
	}

	m := l.Min + steps*l.Increment
	if m > l.Max {
		return 0, false
	}

	return m, true
}
