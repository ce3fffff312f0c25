// Package model holds the normalized deployment model produced by the engine:
// workloads, the services fronting them, parameters and the routing topology.
//
// Services reference workloads by index into Model.Workloads. The arena layout
// keeps ownership one-directional and makes the owner lookup a slice access.
package model

import (
	"fmt"
	"slices"
)

// Model is the output of one translation run.
type Model struct {
	Workloads   []Workload   `json:"workloads"`
	Services    []Service    `json:"services"`
	Parameters  []Parameter  `json:"parameters"`
	Topology    Topology     `json:"topology"`
	Namespaces  []string     `json:"namespaces"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// WorkloadOf returns the workload owned by a service, or nil.
func (m *Model) WorkloadOf(s *Service) *Workload {
	if s.Workload < 0 || s.Workload >= len(m.Workloads) {
		return nil
	}

	return &m.Workloads[s.Workload]
}

// ServicesOf returns the services in namespace ns that own a workload.
func (m *Model) ServicesOf(ns string) []*Service {
	var out []*Service

	for i := range m.Services {
		s := &m.Services[i]
		if s.Namespace == ns && s.Owned() {
			out = append(out, s)
		}
	}

	return out
}

// FindService looks a service up by namespace and name.
func (m *Model) FindService(ns, name string) (*Service, bool) {
	for i := range m.Services {
		s := &m.Services[i]
		if s.Namespace == ns && s.Name == name {
			return s, true
		}
	}

	return nil, false
}

// AddNamespace records ns once, keeping the list sorted.
func (m *Model) AddNamespace(ns string) {
	if ns == "" {
		return
	}

	i, found := slices.BinarySearch(m.Namespaces, ns)
	if found {
		return
	}

	m.Namespaces = slices.Insert(m.Namespaces, i, ns)
}

// ConfigParameters returns parameters that come from plain config objects.
func (m *Model) ConfigParameters() []Parameter {
	return m.filterParameters(false)
}

// SecretParameters returns parameters that come from secret objects.
func (m *Model) SecretParameters() []Parameter {
	return m.filterParameters(true)
}

func (m *Model) filterParameters(secret bool) []Parameter {
	out := make([]Parameter, 0, len(m.Parameters))

	for _, p := range m.Parameters {
		if p.Secret == secret {
			out = append(out, p)
		}
	}

	return out
}

// Parameter is one key of a config or secret object, stored under /<name>/<key>.
type Parameter struct {
	Path   string `json:"path"`
	Value  string `json:"value"`
	Secret bool   `json:"secret"`
}

// ParameterPath builds the store path of key in object name.
func ParameterPath(name, key string) string {
	return fmt.Sprintf("/%s/%s", name, key)
}

// ParamSet is the key set of one config or secret object, kept so bulk
// environment imports can be expanded after every object is read.
type ParamSet struct {
	Name      string
	Namespace string
	Source    ParamSource
	Keys      []string
	Values    map[string]string
}

// Identity is a service account with its optional role binding.
type Identity struct {
	Name      string
	Namespace string
	Labels    map[string]string
	RoleARN   string
}

// NetworkPolicy binds security group ids to pods or identities by label.
// A nil selector is absent; an empty one matches everything in the namespace.
type NetworkPolicy struct {
	Name             string
	Namespace        string
	PodSelector      map[string]string
	IdentitySelector map[string]string
	GroupIDs         []string
}
