package tfvars

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/skillcoder/specctl/internal/logic/model"
)

func str(s string) cty.Value {
	return cty.StringVal(s)
}

func num[T ~int | ~int32 | ~int64](n T) cty.Value {
	return cty.NumberIntVal(int64(n))
}

func strs(ss []string) cty.Value {
	vals := make([]cty.Value, 0, len(ss))
	for _, s := range ss {
		vals = append(vals, cty.StringVal(s))
	}

	return cty.TupleVal(vals)
}

func labels(m map[string]string) cty.Value {
	attrs := make(map[string]cty.Value, len(m))
	for k, v := range m {
		attrs[k] = cty.StringVal(v)
	}

	return cty.ObjectVal(attrs)
}

func parameters(params []model.Parameter) cty.Value {
	vals := make([]cty.Value, 0, len(params))
	for _, p := range params {
		vals = append(vals, cty.ObjectVal(map[string]cty.Value{
			"name":  str(p.Path),
			"value": str(p.Value),
		}))
	}

	return cty.TupleVal(vals)
}

func healthCheck(hc model.HealthCheck) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"path":                str(hc.Path),
		"protocol":            str(hc.Protocol),
		"matcher":             str(hc.Matcher),
		"interval":            num(hc.IntervalSeconds),
		"timeout":             num(hc.TimeoutSeconds),
		"healthy_threshold":   num(hc.HealthyThreshold),
		"unhealthy_threshold": num(hc.UnhealthyThreshold),
	})
}

func loadBalancers(groups map[string]model.BalancerGroup) cty.Value {
	attrs := make(map[string]cty.Value, len(groups))

	for name, g := range groups {
		ports := make([]cty.Value, 0, len(g.ListenerPorts))
		for _, p := range g.ListenerPorts {
			ports = append(ports, num(p))
		}

		attrs[name] = cty.ObjectVal(map[string]cty.Value{
			"name":           str(g.Name),
			"scheme":         str(g.Scheme),
			"listener_ports": cty.TupleVal(ports),
		})
	}

	return cty.ObjectVal(attrs)
}

func listeners(ls map[string]model.Listener) cty.Value {
	attrs := make(map[string]cty.Value, len(ls))

	for name, l := range ls {
		obj := map[string]cty.Value{
			"name":     str(l.Name),
			"group":    str(l.Group),
			"port":     num(l.Port),
			"protocol": str(l.Protocol),
		}

		if l.CertificateARN != "" {
			obj["certificate_arn"] = str(l.CertificateARN)
		}

		if l.SSLPolicy != "" {
			obj["ssl_policy"] = str(l.SSLPolicy)
		}

		attrs[name] = cty.ObjectVal(obj)
	}

	return cty.ObjectVal(attrs)
}

func rules(rs []model.Rule) cty.Value {
	attrs := make(map[string]cty.Value, len(rs))

	for _, r := range rs {
		attrs[r.Name] = cty.ObjectVal(map[string]cty.Value{
			"listener":     str(r.Listener),
			"group":        str(r.Group),
			"namespace":    str(r.Namespace),
			"protocol":     str(r.Protocol),
			"path_pattern": str(r.PathPattern),
			"host_header":  str(r.HostHeader),
			"service":      str(r.Backend.Service),
			"target_group": str(r.TargetGroupKey),
		})
	}

	return cty.ObjectVal(attrs)
}

func targetGroups(tgs map[string]model.TargetGroup) cty.Value {
	attrs := make(map[string]cty.Value, len(tgs))

	for key, tg := range tgs {
		attrs[key] = cty.ObjectVal(map[string]cty.Value{
			"name":         str(tg.Name),
			"port":         num(tg.Port),
			"protocol":     str(tg.Protocol),
			"health_check": healthCheck(tg.HealthCheck),
			"tags":         labels(tg.Tags),
		})
	}

	return cty.ObjectVal(attrs)
}

// containers is keyed by container name.
func containers(cs []model.Container) cty.Value {
	attrs := make(map[string]cty.Value, len(cs))

	for i := range cs {
		c := &cs[i]

		ports := make([]cty.Value, 0, len(c.Ports))
		for _, p := range c.Ports {
			ports = append(ports, cty.ObjectVal(map[string]cty.Value{
				"name":           str(p.Name),
				"container_port": num(p.ContainerPort),
				"protocol":       str(p.Protocol),
			}))
		}

		env := make([]cty.Value, 0, len(c.Environment))
		for _, e := range c.Environment {
			env = append(env, cty.ObjectVal(map[string]cty.Value{"name": str(e.Name), "value": str(e.Value)}))
		}

		secrets := make([]cty.Value, 0, len(c.Secrets))
		for _, s := range c.Secrets {
			secrets = append(secrets, cty.ObjectVal(map[string]cty.Value{"name": str(s.Name), "valueFrom": str(s.ValueFrom)}))
		}

		deps := make(map[string]cty.Value, len(c.DependsOn))
		for _, d := range c.DependsOn {
			deps[d.ContainerName] = str(d.Condition)
		}

		attrs[c.Name] = cty.ObjectVal(map[string]cty.Value{
			"name":               str(c.Name),
			"image":              str(c.Image),
			"essential":          cty.BoolVal(c.Essential),
			"command":            strs(c.Command),
			"args":               strs(c.Args),
			"port_mappings":      cty.TupleVal(ports),
			"environment":        cty.TupleVal(env),
			"secrets":            cty.TupleVal(secrets),
			"cpu":                num(c.CPU),
			"memory_reservation": num(c.MemoryReservation),
			"memory":             num(c.Memory),
			"depends_on":         cty.ObjectVal(deps),
		})
	}

	return cty.ObjectVal(attrs)
}
