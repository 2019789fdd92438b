// Package pipeline implements filter -> group -> aggregate -> order -> limit
// over in-memory rows. Every report in the catalog is a configuration of Run.
package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
)

// Order selects the final ordering of groups.
type Order int

const (
	// ByKey sorts groups by key ascending. It is the default so that reports
	// without a ranking still produce reproducible output.
	ByKey Order = iota
	ByValueAsc
	ByValueDesc
)

func (o Order) String() string {
	switch o {
	case ByValueAsc:
		return "value_asc"
	case ByValueDesc:
		return "value_desc"
	default:
		return "key"
	}
}

// Spec configures one pipeline run.
type Spec[R any, K comparable] struct {
	// Filter keeps rows for which it returns true. Nil keeps everything.
	Filter    func(R) bool
	Key       func(R) K
	Aggregate Aggregator[R]
	Order     Order
	// Compare orders keys. It is the primary order for ByKey and the
	// tie-break for equal values under ByValueAsc/ByValueDesc.
	Compare func(a, b K) int
	// Limit keeps the first Limit groups after ordering; 0 keeps all.
	Limit int
}

// Group is one partition of the filtered rows.
type Group[R any, K comparable] struct {
	Key   K
	Value decimal.Decimal
	Count int
	// Sample is the first row of the group in input order.
	Sample R
}

// Run executes spec over rows. An empty input (or one filtered to nothing)
// yields zero groups and no error.
func Run[R any, K comparable](rows []R, spec Spec[R, K]) ([]Group[R, K], error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	index := make(map[K]int)
	groups := make([]Group[R, K], 0)
	for _, row := range rows {
		if spec.Filter != nil && !spec.Filter(row) {
			continue
		}
		key := spec.Key(row)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[R, K]{Key: key, Value: decimal.Zero, Sample: row})
		}
		groups[i].Value = groups[i].Value.Add(spec.Aggregate.contribution(row))
		groups[i].Count++
	}

	sortGroups(groups, spec.Order, spec.Compare)

	if spec.Limit > 0 && len(groups) > spec.Limit {
		groups = groups[:spec.Limit]
	}
	return groups, nil
}

// Total folds every filtered row into a single value, ignoring the key.
func Total[R any](rows []R, filter func(R) bool, agg Aggregator[R]) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if filter != nil && !filter(row) {
			continue
		}
		total = total.Add(agg.contribution(row))
	}
	return total
}

func sortGroups[R any, K comparable](groups []Group[R, K], order Order, compare func(a, b K) int) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch order {
		case ByValueAsc:
			if c := a.Value.Cmp(b.Value); c != 0 {
				return c < 0
			}
		case ByValueDesc:
			if c := a.Value.Cmp(b.Value); c != 0 {
				return c > 0
			}
		}
		return compare(a.Key, b.Key) < 0
	})
}

func (s Spec[R, K]) validate() error {
	switch {
	case s.Key == nil:
		return analytics.InvalidParameter("pipeline.run", "group key function is required")
	case s.Compare == nil:
		return analytics.InvalidParameter("pipeline.run", "key comparison is required")
	case s.Limit < 0:
		return analytics.InvalidParameter("pipeline.run", "limit must not be negative, got %d", s.Limit)
	case s.Order < ByKey || s.Order > ByValueDesc:
		return analytics.InvalidParameter("pipeline.run", "unknown order %d", int(s.Order))
	}
	return nil
}
