package model

// HealthCheck is a target-group health check.
type HealthCheck struct {
	Path               string `json:"path"`
	Protocol           string `json:"protocol"`
	Matcher            string `json:"matcher"`
	IntervalSeconds    int    `json:"interval"`
	TimeoutSeconds     int    `json:"timeout"`
	HealthyThreshold   int    `json:"healthyThreshold"`
	UnhealthyThreshold int    `json:"unhealthyThreshold"`
}

// BalancerGroup is one shared load balancer.
type BalancerGroup struct {
	Name          string  `json:"name"`
	Scheme        string  `json:"scheme"`
	ListenerPorts []int32 `json:"listenerPorts"`
}

// Listener is a protocol/port pair on a balancer group.
type Listener struct {
	Name           string `json:"name"`
	Group          string `json:"group"`
	Port           int32  `json:"port"`
	Protocol       string `json:"protocol"`
	CertificateARN string `json:"certificateArn,omitempty"`
	SSLPolicy      string `json:"sslPolicy,omitempty"`
}

// Backend names the service and port a rule forwards to.
type Backend struct {
	Service    string `json:"service"`
	PortNumber int32  `json:"portNumber,omitempty"`
	PortName   string `json:"portName,omitempty"`
}

// Rule is a path/host match on a listener.
type Rule struct {
	Name        string  `json:"name"`
	Listener    string  `json:"listener"`
	Group       string  `json:"group"`
	Namespace   string  `json:"namespace"`
	Protocol    string  `json:"protocol"`
	PathPattern string  `json:"pathPattern"`
	HostHeader  string  `json:"hostHeader,omitempty"`
	Backend     Backend `json:"backend"`

	TargetGroupKey string      `json:"targetGroupKey,omitempty"`
	HealthCheck    HealthCheck `json:"-"`
}

// SameMatch reports whether two rules route the same traffic to the same backend.
func (r Rule) SameMatch(o Rule) bool {
	return r.Listener == o.Listener &&
		r.Namespace == o.Namespace &&
		r.PathPattern == o.PathPattern &&
		r.HostHeader == o.HostHeader &&
		r.Backend == o.Backend
}

// TargetGroup is the backend pool of a bound rule.
type TargetGroup struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Port        int32             `json:"port"`
	Protocol    string            `json:"protocol"`
	HealthCheck HealthCheck       `json:"healthCheck"`
	Tags        map[string]string `json:"tags"`
}

// RoutingRecord is the routing fragment parsed from one routing object.
type RoutingRecord struct {
	Name        string
	Namespace   string
	Group       BalancerGroup
	Listeners   []Listener
	Rules       []Rule
	HealthCheck HealthCheck
}

// Topology is the merged routing graph of every routing record.
type Topology struct {
	Groups       map[string]BalancerGroup `json:"groups"`
	Listeners    map[string]Listener      `json:"listeners"`
	Rules        []Rule                   `json:"rules"`
	TargetGroups map[string]TargetGroup   `json:"targetGroups"`
}

// NewTopology returns an empty topology.
func NewTopology() Topology {
	return Topology{
		Groups:       map[string]BalancerGroup{},
		Listeners:    map[string]Listener{},
		TargetGroups: map[string]TargetGroup{},
	}
}

// Empty reports whether the topology has no balancer groups.
func (t *Topology) Empty() bool {
	return len(t.Groups) == 0 && len(t.Rules) == 0
}
