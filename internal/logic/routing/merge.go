package routing

import (
	"maps"
	"slices"

	"github.com/skillcoder/specctl/internal/logic/model"
)

// Merge folds routing records into one topology. Balancer groups merge by
// name with the union of their listener ports; listeners are first write wins;
// rules are regrouped per listener, deduplicated and renumbered. Merging a
// record twice yields the same topology as merging it once.
func Merge(records []model.RoutingRecord) model.Topology {
	topo := model.NewTopology()
	byListener := map[string][]model.Rule{}

	for _, rec := range records {
		g, ok := topo.Groups[rec.Group.Name]
		if !ok {
			g = model.BalancerGroup{Name: rec.Group.Name, Scheme: rec.Group.Scheme}
		}

		g.ListenerPorts = unionPorts(g.ListenerPorts, rec.Group.ListenerPorts)
		topo.Groups[g.Name] = g

		for _, l := range rec.Listeners {
			if _, exists := topo.Listeners[l.Name]; !exists {
				topo.Listeners[l.Name] = l
			}
		}

		for _, r := range rec.Rules {
			existing := byListener[r.Listener]
			if slices.ContainsFunc(existing, r.SameMatch) {
				continue
			}

			byListener[r.Listener] = append(existing, r)
		}
	}

	for _, listener := range slices.Sorted(maps.Keys(byListener)) {
		for i, r := range byListener[listener] {
			r.Name = RuleName(listener, i)
			topo.Rules = append(topo.Rules, r)
		}
	}

	return topo
}

func unionPorts(a, b []int32) []int32 {
	out := make([]int32, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	slices.Sort(out)

	return slices.Compact(out)
}
