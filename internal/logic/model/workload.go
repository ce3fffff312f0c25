package model

import "github.com/skillcoder/specctl/internal/logic/quantity"

// Source kinds a Workload can be built from.
const (
	WorkloadKindDeployment = "Deployment"
	WorkloadKindPod        = "Pod"
)

// Workload is one scheduled unit (a task definition plus its service settings).
type Workload struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
	Replicas  int32  `json:"replicas"`

	MinHealthyPercent int `json:"minHealthyPercent"`
	MaxPercent        int `json:"maxPercent"`

	ServiceAccount string `json:"serviceAccount,omitempty"`
	TaskRoleARN    string `json:"taskRoleArn,omitempty"`
	CreateTaskRole bool   `json:"createTaskRole"`

	SecurityGroupIDs    []string `json:"securityGroupIds,omitempty"`
	CreateSecurityGroup bool     `json:"createSecurityGroup"`

	Containers []Container       `json:"containers"`
	Labels     map[string]string `json:"labels,omitempty"`
	PodLabels  map[string]string `json:"podLabels,omitempty"`
	Capacity   quantity.Capacity `json:"capacity"`
	Feasible   bool              `json:"capacityFeasible"`
}

// Ref identifies the workload in diagnostics.
func (w *Workload) Ref() ObjectRef {
	return ObjectRef{Kind: w.Kind, Namespace: w.Namespace, Name: w.Name}
}

// Container is one container of a workload, in scheduler units.
type Container struct {
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Essential bool     `json:"essential"`
	Command   []string `json:"command,omitempty"`
	Args      []string `json:"args,omitempty"`

	Ports []PortMapping `json:"portMappings,omitempty"`

	// Environment holds literal values only; indirect values live in Secrets.
	Environment []EnvVar    `json:"environment,omitempty"`
	Secrets     []SecretRef `json:"secrets,omitempty"`
	EnvImports  []EnvImport `json:"-"`

	CPU               int64 `json:"cpu,omitempty"`
	MemoryReservation int64 `json:"memoryReservation,omitempty"`
	Memory            int64 `json:"memory,omitempty"`

	DependsOn     []Dependency `json:"dependsOn,omitempty"`
	LivenessProbe *HTTPProbe   `json:"-"`
}

// PortMapping is a port declared by a container.
type PortMapping struct {
	Name          string `json:"name,omitempty"`
	ContainerPort int32  `json:"containerPort"`
	HostPort      int32  `json:"hostPort,omitempty"`
	Protocol      string `json:"protocol"`
}

// EnvVar is a literal environment entry.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SecretRef is an environment entry read from a parameter path at start-up.
type SecretRef struct {
	Name      string `json:"name"`
	ValueFrom string `json:"valueFrom"`
}

// ParamSource tells which kind of object a parameter or import comes from.
type ParamSource string

const (
	ParamSourceConfig ParamSource = "ConfigMap"
	ParamSourceSecret ParamSource = "Secret"
)

// EnvImport is a deferred bulk import of every key of a config or secret object.
type EnvImport struct {
	Source   ParamSource
	Name     string
	Prefix   string
	Optional bool
}

// Dependency orders container start-up.
type Dependency struct {
	ContainerName string `json:"containerName"`
	Condition     string `json:"condition"`
}

// HTTPProbe is the part of an HTTP liveness probe used for load-balancer checks.
type HTTPProbe struct {
	Path                string
	InitialDelaySeconds int32
}
