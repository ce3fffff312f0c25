// Package routing builds the load-balancer topology from ingress objects:
// records are parsed one object at a time, merged by balancer group and then
// bound to concrete services.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	networkingv1 "k8s.io/api/networking/v1"

	"github.com/skillcoder/specctl/internal/logic/model"
	"github.com/skillcoder/specctl/internal/logic/report"
	"github.com/skillcoder/specctl/internal/logic/settings"
)

const (
	ProtocolHTTP  = "HTTP"
	ProtocolHTTPS = "HTTPS"
)

// Annotation keys, relative to the routing annotation prefix.
const (
	annScheme             = "scheme"
	annGroupName          = "group.name"
	annListenPorts        = "listen-ports"
	annHealthPath         = "healthcheck-path"
	annHealthProtocol     = "healthcheck-protocol"
	annHealthInterval     = "healthcheck-interval-seconds"
	annHealthTimeout      = "healthcheck-timeout-seconds"
	annHealthyThreshold   = "healthy-threshold-count"
	annUnhealthyThreshold = "unhealthy-threshold-count"
	annSuccessCodes       = "success-codes"
	annCertificateARN     = "certificate-arn"
	annSSLPolicy          = "ssl-policy"
)

type annotations struct {
	values   map[string]string
	prefix   string
	ref      model.ObjectRef
	reporter *report.Reporter
}

func (a annotations) str(key, def string) string {
	if v, ok := a.values[a.prefix+key]; ok && v != "" {
		return v
	}

	return def
}

func (a annotations) number(ctx context.Context, key string, def int) int {
	v, ok := a.values[a.prefix+key]
	if !ok || v == "" {
		return def
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		a.reporter.Add(ctx, model.CategoryShapeViolation, a.ref,
			"annotation %s%s=%q is not a number, using %d", a.prefix, key, v, def)

		return def
	}

	return n
}

// path is one ingress path shared by every listener of the record.
type path struct {
	host    string
	pattern string
	backend model.Backend
}

// Record parses one ingress object. It returns false when no usable listener
// remains.
func Record(
	ctx context.Context,
	ing *networkingv1.Ingress,
	namespace string,
	defaults settings.RoutingDefaults,
	reporter *report.Reporter,
) (model.RoutingRecord, bool) {
	ref := model.ObjectRef{Kind: "Ingress", Namespace: namespace, Name: ing.Name}
	ann := annotations{
		values:   ing.Annotations,
		prefix:   defaults.AnnotationPrefix,
		ref:      ref,
		reporter: reporter,
	}

	hc := defaults.HealthCheck
	hc.Path = ann.str(annHealthPath, hc.Path)
	hc.Protocol = ann.str(annHealthProtocol, hc.Protocol)
	hc.Matcher = ann.str(annSuccessCodes, hc.Matcher)
	hc.IntervalSeconds = ann.number(ctx, annHealthInterval, hc.IntervalSeconds)
	hc.TimeoutSeconds = ann.number(ctx, annHealthTimeout, hc.TimeoutSeconds)
	hc.HealthyThreshold = ann.number(ctx, annHealthyThreshold, hc.HealthyThreshold)
	hc.UnhealthyThreshold = ann.number(ctx, annUnhealthyThreshold, hc.UnhealthyThreshold)

	group := ann.str(annGroupName, fmt.Sprintf("%s-%s", ing.Name, namespace))
	cert := ann.str(annCertificateARN, "")

	listenDefault := defaults.HTTPListenPorts
	if cert != "" {
		listenDefault = defaults.HTTPSListenPorts
	}

	ports, err := parseListenPorts(ann.str(annListenPorts, listenDefault))
	if err != nil {
		reporter.Add(ctx, model.CategoryShapeViolation, ref, "%s%s: %s", ann.prefix, annListenPorts, err)

		return model.RoutingRecord{}, false
	}

	if ing.Spec.DefaultBackend != nil {
		reporter.Add(ctx, model.CategoryUnsupported, ref, "default backend is not routed")
	}

	rec := model.RoutingRecord{
		Name:        ing.Name,
		Namespace:   namespace,
		Group:       model.BalancerGroup{Name: group, Scheme: ann.str(annScheme, defaults.Scheme)},
		HealthCheck: hc,
	}

	paths := rulePaths(ctx, ing, ref, reporter)

	for _, lp := range ports {
		if lp.protocol != ProtocolHTTP && lp.protocol != ProtocolHTTPS {
			reporter.Add(ctx, model.CategoryUnsupported, ref,
				"listener %s:%d: only HTTP and HTTPS listeners are supported", lp.protocol, lp.port)

			continue
		}

		l := model.Listener{
			Name:     ListenerName(group, lp.protocol, lp.port),
			Group:    group,
			Port:     lp.port,
			Protocol: lp.protocol,
		}

		if lp.protocol == ProtocolHTTPS {
			l.CertificateARN = cert
			l.SSLPolicy = ann.str(annSSLPolicy, defaults.SSLPolicy)
		}

		rec.Listeners = append(rec.Listeners, l)
		rec.Group.ListenerPorts = append(rec.Group.ListenerPorts, lp.port)

		for i, p := range paths {
			rec.Rules = append(rec.Rules, model.Rule{
				Name:        RuleName(l.Name, i),
				Listener:    l.Name,
				Group:       group,
				Namespace:   namespace,
				Protocol:    lp.protocol,
				PathPattern: p.pattern,
				HostHeader:  p.host,
				Backend:     p.backend,
				HealthCheck: hc,
			})
		}
	}

	if len(rec.Listeners) == 0 {
		reporter.Add(ctx, model.CategoryShapeViolation, ref, "no usable listener, ingress skipped")

		return model.RoutingRecord{}, false
	}

	slices.Sort(rec.Group.ListenerPorts)
	rec.Group.ListenerPorts = slices.Compact(rec.Group.ListenerPorts)

	return rec, true
}

// ListenerName is <group>-<PROTOCOL>-<port>.
func ListenerName(group, protocol string, port int32) string {
	return fmt.Sprintf("%s-%s-%d", group, protocol, port)
}

// RuleName is <listener>-rule-<n>.
func RuleName(listener string, n int) string {
	return fmt.Sprintf("%s-rule-%d", listener, n)
}

type listenPort struct {
	protocol string
	port     int32
}

// parseListenPorts decodes the JSON list form, e.g. [{"HTTP":80},{"HTTPS":443}].
func parseListenPorts(raw string) ([]listenPort, error) {
	var entries []map[string]int32
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("decode %q: %w", raw, err)
	}

	var out []listenPort

	for _, e := range entries {
		for _, proto := range slices.Sorted(maps.Keys(e)) {
			out = append(out, listenPort{protocol: strings.ToUpper(proto), port: e[proto]})
		}
	}

	return out, nil
}

func rulePaths(ctx context.Context, ing *networkingv1.Ingress, ref model.ObjectRef, reporter *report.Reporter) []path {
	var out []path

	for _, r := range ing.Spec.Rules {
		if r.HTTP == nil {
			continue
		}

		for _, p := range r.HTTP.Paths {
			pattern, ok := pathPattern(ctx, p, ref, reporter)
			if !ok {
				continue
			}

			if p.Backend.Service == nil {
				reporter.Add(ctx, model.CategoryUnsupported, ref, "path %q: resource backends are not routed", p.Path)

				continue
			}

			out = append(out, path{
				host:    r.Host,
				pattern: pattern,
				backend: model.Backend{
					Service:    p.Backend.Service.Name,
					PortNumber: p.Backend.Service.Port.Number,
					PortName:   p.Backend.Service.Port.Name,
				},
			})
		}
	}

	return out
}

func pathPattern(ctx context.Context, p networkingv1.HTTPIngressPath, ref model.ObjectRef, reporter *report.Reporter) (string, bool) {
	if p.PathType == nil {
		reporter.Add(ctx, model.CategoryShapeViolation, ref, "path %q has no path type, rule dropped", p.Path)

		return "", false
	}

	switch *p.PathType {
	case networkingv1.PathTypePrefix:
		trimmed := strings.TrimSuffix(p.Path, "/")
		if trimmed == "" {
			return "/*", true
		}

		return trimmed + "/*", true
	case networkingv1.PathTypeExact:
		return p.Path, true
	default:
		reporter.Add(ctx, model.CategoryUnsupported, ref, "path %q: path type %s, rule dropped", p.Path, *p.PathType)

		return "", false
	}
}
