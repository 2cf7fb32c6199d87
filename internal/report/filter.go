package report

import "strings"

// allSentinel is the caller-facing "no filter" value.
const allSentinel = "Todos"

// Filter is one dimension of a selection. The zero value is inactive and
// matches every row.
type Filter struct {
	value  string
	active bool
}

// NewFilter builds a filter from a caller-supplied free-text value. The value
// is normalized so comparisons against stored data are normalization
// invariant; empty input and the "Todos" sentinel deactivate the filter.
func NewFilter(value string) Filter {
	n := Normalize(value)
	if n == "" || n == allSentinel {
		return Filter{}
	}
	return Filter{value: n, active: true}
}

// NewPeriodFilter builds a filter on the "YYYY-MM" period bucket. Period
// values are not free text and are never normalized.
func NewPeriodFilter(value string) Filter {
	value = strings.TrimSpace(value)
	if value == "" || value == allSentinel {
		return Filter{}
	}
	return Filter{value: value, active: true}
}

// Match reports whether a row value passes the filter.
func (f Filter) Match(value string) bool {
	return !f.active || f.value == value
}

// String renders the concrete value, or the all sentinel when inactive.
func (f Filter) String() string {
	if !f.active {
		return allSentinel
	}
	return f.value
}

// Selection is the four-dimensional filter shared by the dynamic filter
// resolver and the combined engine.
type Selection struct {
	Client     Filter
	Status     Filter
	Technician Filter
	Period     Filter
}

func (s Selection) matches(r Row) bool {
	return s.Client.Match(r.Client) &&
		s.Status.Match(r.Status) &&
		s.Technician.Match(r.Technician) &&
		s.Period.Match(r.Period)
}

// filterRows applies the selection as one conjunctive predicate.
func filterRows(rows []Row, sel Selection) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if sel.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// DetailSelection is the row-level listing filter. Every dimension is
// optional; an absent value is no constraint.
type DetailSelection struct {
	Technician Filter
	Client     Filter
	Commune    Filter
	Area       Filter
	Period     Filter
}

func (s DetailSelection) matches(r Row) bool {
	return s.Technician.Match(r.Technician) &&
		s.Client.Match(r.Client) &&
		s.Commune.Match(r.Commune) &&
		s.Area.Match(r.BusinessArea) &&
		s.Period.Match(r.Period)
}
