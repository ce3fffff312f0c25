package model

import "fmt"

// Category classifies a recoverable problem found during translation.
type Category string

const (
	CategoryLookupMiss         Category = "lookup_miss"
	CategoryShapeViolation     Category = "shape_violation"
	CategoryUnsupported        Category = "unsupported"
	CategoryCapacityInfeasible Category = "capacity_infeasible"
)

// Categories lists every diagnostic category.
func Categories() []Category {
	return []Category{
		CategoryLookupMiss,
		CategoryShapeViolation,
		CategoryUnsupported,
		CategoryCapacityInfeasible,
	}
}

// ObjectRef names the object a diagnostic is about.
type ObjectRef struct {
	Kind      string `json:"kind"`
	Namespace string `json:"namespace,omitempty"`
	Name      string `json:"name"`
}

func (r ObjectRef) String() string {
	if r.Namespace == "" {
		return fmt.Sprintf("%s/%s", r.Kind, r.Name)
	}

	return fmt.Sprintf("%s/%s/%s", r.Kind, r.Namespace, r.Name)
}

// Diagnostic is a skipped or degraded input element.
type Diagnostic struct {
	Category Category  `json:"category"`
	Object   ObjectRef `json:"object"`
	Message  string    `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Category, d.Object, d.Message)
}
