package ecsjson

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/skillcoder/specctl/internal/logic/model"
)

const (
	networkMode       = "awsvpc"
	launchType        = "FARGATE"
	platformVersion   = "LATEST"
	schedulingReplica = "REPLICA"
	propagateService  = "SERVICE"
)

// TaskDefinition is the register-task-definition input for one workload.
type TaskDefinition struct {
	Family                  string                `json:"family"`
	NetworkMode             string                `json:"networkMode"`
	RequiresCompatibilities []string              `json:"requiresCompatibilities"`
	CPU                     string                `json:"cpu,omitempty"`
	Memory                  string                `json:"memory,omitempty"`
	TaskRoleARN             string                `json:"taskRoleArn,omitempty"`
	ContainerDefinitions    []ContainerDefinition `json:"containerDefinitions"`
	Tags                    []Tag                 `json:"tags"`
}

type ContainerDefinition struct {
	Name              string             `json:"name"`
	Image             string             `json:"image"`
	Essential         bool               `json:"essential"`
	EntryPoint        []string           `json:"entryPoint,omitempty"`
	Command           []string           `json:"command,omitempty"`
	PortMappings      []PortMapping      `json:"portMappings,omitempty"`
	Environment       []KeyValue         `json:"environment,omitempty"`
	Secrets           []Secret           `json:"secrets,omitempty"`
	CPU               int64              `json:"cpu,omitempty"`
	MemoryReservation int64              `json:"memoryReservation,omitempty"`
	Memory            int64              `json:"memory,omitempty"`
	DependsOn         []ContainerDepends `json:"dependsOn,omitempty"`
}

type PortMapping struct {
	Name          string `json:"name,omitempty"`
	ContainerPort int32  `json:"containerPort"`
	HostPort      int32  `json:"hostPort"`
	Protocol      string `json:"protocol"`
}

type KeyValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Secret struct {
	Name      string `json:"name"`
	ValueFrom string `json:"valueFrom"`
}

type ContainerDepends struct {
	ContainerName string `json:"containerName"`
	Condition     string `json:"condition"`
}

type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ServiceDefinition is the create-service input for one service.
type ServiceDefinition struct {
	ServiceName                   string                  `json:"serviceName"`
	DesiredCount                  int32                   `json:"desiredCount"`
	LaunchType                    string                  `json:"launchType"`
	PlatformVersion               string                  `json:"platformVersion"`
	TaskDefinition                string                  `json:"taskDefinition"`
	DeploymentConfiguration       DeploymentConfiguration `json:"deploymentConfiguration"`
	SchedulingStrategy            string                  `json:"schedulingStrategy"`
	EnableECSManagedTags          bool                    `json:"enableECSManagedTags"`
	PropagateTags                 string                  `json:"propagateTags"`
	EnableExecuteCommand          bool                    `json:"enableExecuteCommand"`
	HealthCheckGracePeriodSeconds int32                   `json:"healthCheckGracePeriodSeconds,omitempty"`
	Tags                          []Tag                   `json:"tags"`
}

type DeploymentConfiguration struct {
	MaximumPercent        int `json:"maximumPercent"`
	MinimumHealthyPercent int `json:"minimumHealthyPercent"`
}

// NewTaskDefinition builds the task definition of w. Task size is only set
// when a capacity tier fits every container.
func NewTaskDefinition(w *model.Workload) TaskDefinition {
	td := TaskDefinition{
		Family:                  w.Name,
		NetworkMode:             networkMode,
		RequiresCompatibilities: []string{launchType},
		TaskRoleARN:             w.TaskRoleARN,
		ContainerDefinitions:    make([]ContainerDefinition, 0, len(w.Containers)),
		Tags:                    tags(w.PodLabels),
	}

	if w.Feasible && !w.Capacity.IsZero() {
		td.CPU = strconv.FormatInt(w.Capacity.CPU, 10)
		td.Memory = strconv.FormatInt(w.Capacity.Memory, 10)
	}

	for i := range w.Containers {
		td.ContainerDefinitions = append(td.ContainerDefinitions, newContainerDefinition(&w.Containers[i]))
	}

	return td
}

func newContainerDefinition(c *model.Container) ContainerDefinition {
	cd := ContainerDefinition{
		Name:              c.Name,
		Image:             c.Image,
		Essential:         c.Essential,
		EntryPoint:        slices.Clone(c.Command),
		Command:           slices.Clone(c.Args),
		CPU:               c.CPU,
		MemoryReservation: c.MemoryReservation,
		Memory:            c.Memory,
	}

	for _, p := range c.Ports {
		host := p.HostPort
		if host == 0 {
			host = p.ContainerPort
		}

		cd.PortMappings = append(cd.PortMappings, PortMapping{
			Name:          p.Name,
			ContainerPort: p.ContainerPort,
			HostPort:      host,
			Protocol:      strings.ToLower(p.Protocol),
		})
	}

	for _, e := range c.Environment {
		cd.Environment = append(cd.Environment, KeyValue(e))
	}

	for _, s := range c.Secrets {
		cd.Secrets = append(cd.Secrets, Secret(s))
	}

	for _, d := range c.DependsOn {
		cd.DependsOn = append(cd.DependsOn, ContainerDepends(d))
	}

	return cd
}

// NewServiceDefinition builds the service definition of svc backed by w.
// Tags come from the workload labels first, then from the selector; a key
// already taken is not repeated.
func NewServiceDefinition(svc *model.Service, w *model.Workload) ServiceDefinition {
	sd := ServiceDefinition{
		ServiceName:     svc.Name,
		DesiredCount:    w.Replicas,
		LaunchType:      launchType,
		PlatformVersion: platformVersion,
		TaskDefinition:  w.Name,
		DeploymentConfiguration: DeploymentConfiguration{
			MaximumPercent:        w.MaxPercent,
			MinimumHealthyPercent: w.MinHealthyPercent,
		},
		SchedulingStrategy:   schedulingReplica,
		EnableECSManagedTags: true,
		PropagateTags:        propagateService,
		EnableExecuteCommand: true,
		Tags:                 tags(w.Labels),
	}

	if sd.ServiceName == "" {
		sd.ServiceName = w.Name
	}

	seen := make(map[string]struct{}, len(sd.Tags))
	for _, t := range sd.Tags {
		seen[t.Key] = struct{}{}
	}

	for _, t := range tags(svc.Selector) {
		if _, ok := seen[t.Key]; ok {
			continue
		}

		sd.Tags = append(sd.Tags, t)
	}

	if len(svc.TargetGroups) > 0 {
		sd.HealthCheckGracePeriodSeconds = svc.HealthCheckGracePeriod
	}

	return sd
}

func tags(labels map[string]string) []Tag {
	out := make([]Tag, 0, len(labels))

	for _, k := range slices.Sorted(maps.Keys(labels)) {
		out = append(out, Tag{Key: k, Value: labels[k]})
	}

	return out
}
