// Package settings holds every default the translation engine relies on.
// Normalizers, association stages and the routing resolver read from one
// Settings value instead of embedding literals.
package settings

import (
	"time"

	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/quantity"
)

// Settings is passed into the engine for each run.
type Settings struct {
	Tiers    quantity.Table
	Workload WorkloadDefaults
	Identity IdentityDefaults
	Health   HealthDefaults
	Routing  RoutingDefaults
}

// WorkloadDefaults covers replica and rollout defaults.
type WorkloadDefaults struct {
	Replicas int32

	// Scheduler defaults used when no percentage can be derived.
	MinHealthyPercent int
	MaxPercent        int

	// Cluster-native defaults applied when rollingUpdate omits a field.
	MaxUnavailable string
	MaxSurge       string

	InitContainerCondition string
	Protocol               string
}

// IdentityDefaults covers identity binding.
type IdentityDefaults struct {
	RoleARNAnnotation string
}

// HealthDefaults covers health checks derived from liveness probes.
type HealthDefaults struct {
	Path        string
	GracePeriod time.Duration

	// Paths under any of these prefixes collapse to the bare prefix.
	CanonicalPrefixes []string
}

// RoutingDefaults covers routing annotations on ingress objects.
type RoutingDefaults struct {
	AnnotationPrefix string
	Scheme           string
	HTTPListenPorts  string
	HTTPSListenPorts string
	SSLPolicy        string
	HealthCheck      model.HealthCheck
}

// Default returns the settings the engine uses when nothing is overridden.
func Default() Settings {
	return Settings{
		Tiers: quantity.DefaultTable(),
		Workload: WorkloadDefaults{
			Replicas:               1,
			MinHealthyPercent:      100,
			MaxPercent:             200,
			MaxUnavailable:         "25%",
			MaxSurge:               "25%",
			InitContainerCondition: "SUCCESS",
			Protocol:               "TCP",
		},
		Identity: IdentityDefaults{
			RoleARNAnnotation: "eks.amazonaws.com/role-arn",
		},
		Health: HealthDefaults{
			Path:              "/",
			GracePeriod:       45 * time.Second,
			CanonicalPrefixes: []string{"/actuator/health"},
		},
		Routing: RoutingDefaults{
			AnnotationPrefix: "alb.ingress.kubernetes.io/",
			Scheme:           "internet-facing",
			HTTPListenPorts:  `[{"HTTP":80}]`,
			HTTPSListenPorts: `[{"HTTPS":443}]`,
			SSLPolicy:        "ELBSecurityPolicy-TLS-1-1-2017-01",
			HealthCheck: model.HealthCheck{
				Path:               "/",
				Protocol:           "HTTP",
				Matcher:            "200-299",
				IntervalSeconds:    45,
				TimeoutSeconds:     10,
				HealthyThreshold:   3,
				UnhealthyThreshold: 3,
			},
		},
	}
}
