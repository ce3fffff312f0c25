package model

import (
	"slices"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// NoWorkload marks a service that owns no workload.
const NoWorkload = -1

// ServiceKind is the exposure of a service.
type ServiceKind string

const (
	ServiceKindClusterIP    ServiceKind = "ClusterIP"
	ServiceKindLoadBalancer ServiceKind = "LoadBalancer"
)

// ServicePort is a listener port of a service and, once resolved, the container
// port it forwards to.
type ServicePort struct {
	Name       string             `json:"name,omitempty"`
	Port       int32              `json:"port"`
	TargetPort intstr.IntOrString `json:"targetPort"`
	Protocol   string             `json:"protocol"`

	ContainerPort int32  `json:"containerPort,omitempty"`
	ContainerName string `json:"containerName,omitempty"`
	Resolved      bool   `json:"resolved"`
}

// Service is a network front for exactly one workload after association.
type Service struct {
	Name      string            `json:"name"`
	Namespace string            `json:"namespace"`
	Selector  map[string]string `json:"selector,omitempty"`
	Labels    map[string]string `json:"labels,omitempty"`
	Kind      ServiceKind       `json:"kind"`
	Ports     []ServicePort     `json:"ports,omitempty"`

	// Synthetic services wrap a workload nothing selected.
	Synthetic bool     `json:"synthetic,omitempty"`
	Aliases   []string `json:"aliases,omitempty"`

	// Workload is an index into Model.Workloads or NoWorkload.
	Workload int `json:"workload"`

	HealthCheckPath        string `json:"healthCheckPath,omitempty"`
	HealthCheckGracePeriod int32  `json:"healthCheckGracePeriodSeconds,omitempty"`

	TargetGroups []string `json:"targetGroups,omitempty"`
}

// Ref identifies the service in diagnostics.
func (s *Service) Ref() ObjectRef {
	return ObjectRef{Kind: "Service", Namespace: s.Namespace, Name: s.Name}
}

// Owned reports whether the service owns a workload.
func (s *Service) Owned() bool {
	return s.Workload != NoWorkload
}

// AddTargetGroup records a target group name once.
func (s *Service) AddTargetGroup(name string) {
	if slices.Contains(s.TargetGroups, name) {
		return
	}

	s.TargetGroups = append(s.TargetGroups, name)
}

// LoadBalanced returns the first resolved port, the one a load balancer targets.
func (s *Service) LoadBalanced() (ServicePort, bool) {
	for _, p := range s.Ports {
		if p.Resolved {
			return p, true
		}
	}

	return ServicePort{}, false
}
