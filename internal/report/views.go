package report

import (
	"math"
	"sort"
)

// The view functions below are pure and deterministic over their row slice.
// Groups are produced in ascending key order; where a view sorts by count the
// sort is stable, so ties keep that key order. "First value in group" always
// means the first row in the slice's current order.

func technicianSummaries(rows []Row) []TechnicianSummary {
	type group struct {
		tickets map[string]struct{}
		minutes float64
	}
	groups := make(map[string]*group)
	for _, r := range rows {
		g, ok := groups[r.Technician]
		if !ok {
			g = &group{tickets: make(map[string]struct{})}
			groups[r.Technician] = g
		}
		g.tickets[r.Ticket] = struct{}{}
		g.minutes += r.DurationMin
	}

	out := make([]TechnicianSummary, 0, len(groups))
	for _, name := range sortedKeys(groups) {
		g := groups[name]
		out = append(out, TechnicianSummary{
			Technician: name,
			Requests:   len(g.tickets),
			TotalTime:  formatDuration(g.minutes),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Requests > out[j].Requests
	})
	return out
}

func clientSummaries(rows []Row) []ClientSummary {
	type group struct {
		tickets map[string]struct{}
		cost    float64
	}
	groups := make(map[string]*group)
	for _, r := range rows {
		g, ok := groups[r.Client]
		if !ok {
			g = &group{tickets: make(map[string]struct{})}
			groups[r.Client] = g
		}
		g.tickets[r.Ticket] = struct{}{}
		g.cost += r.Amount
	}

	out := make([]ClientSummary, 0, len(groups))
	for _, name := range sortedKeys(groups) {
		g := groups[name]
		out = append(out, ClientSummary{
			Client:        name,
			TotalRequests: len(g.tickets),
			TotalCost:     roundAmount(g.cost),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalRequests > out[j].TotalRequests
	})
	return out
}

func technicianClientDetails(rows []Row) []TechnicianClientDetail {
	type key struct{ technician, client string }
	type group struct {
		first   Row
		minutes float64
		amount  float64
	}
	groups := make(map[key]*group)
	for _, r := range rows {
		k := key{r.Technician, r.Client}
		g, ok := groups[k]
		if !ok {
			g = &group{first: r}
			groups[k] = g
		}
		g.minutes += r.DurationMin
		g.amount += r.Amount
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].technician != keys[j].technician {
			return keys[i].technician < keys[j].technician
		}
		return keys[i].client < keys[j].client
	})

	out := make([]TechnicianClientDetail, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		out = append(out, TechnicianClientDetail{
			Technician:   k.technician,
			Client:       k.client,
			Commune:      g.first.Commune,
			BusinessArea: g.first.BusinessArea,
			Period:       g.first.Period,
			ServiceTime:  formatDuration(g.minutes),
			Amount:       roundAmount(g.amount),
		})
	}
	return out
}

// statusCounts groups by status and count-distincts the identifier chosen by
// id: the standalone view counts replica ids, the combined engine primary ids.
func statusCounts(rows []Row, id func(Row) string) []StatusCount {
	groups := make(map[string]map[string]struct{})
	for _, r := range rows {
		g, ok := groups[r.Status]
		if !ok {
			g = make(map[string]struct{})
			groups[r.Status] = g
		}
		g[id(r)] = struct{}{}
	}

	out := make([]StatusCount, 0, len(groups))
	for _, status := range sortedKeys(groups) {
		out = append(out, StatusCount{Status: status, Total: len(groups[status])})
	}
	return out
}

func globalMetrics(rows []Row) GlobalMetrics {
	tickets := make(map[string]struct{})
	var minutes, amount float64
	for _, r := range rows {
		tickets[r.Ticket] = struct{}{}
		minutes += r.DurationMin
		amount += r.Amount
	}
	return GlobalMetrics{
		TotalValue:    roundAmount(amount),
		TotalRequests: len(tickets),
		TotalHours:    formatDuration(math.Round(minutes)),
	}
}

func roundAmount(v float64) int64 {
	return int64(math.Round(v))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
