package pipeline

import "github.com/shopspring/decimal"

// Aggregator folds the rows of one group into a value. Implementations are
// associative so partial groups can be merged in any order.
type Aggregator[R any] struct {
	Name string
	// Measure maps a row to its contribution; Count ignores it.
	Measure func(R) decimal.Decimal
}

// Sum adds up measure over the group.
func Sum[R any](measure func(R) decimal.Decimal) Aggregator[R] {
	return Aggregator[R]{Name: "sum", Measure: measure}
}

// Count counts the rows of the group.
func Count[R any]() Aggregator[R] {
	return Aggregator[R]{Name: "count", Measure: func(R) decimal.Decimal { return one }}
}

var one = decimal.NewFromInt(1)

func (a Aggregator[R]) contribution(row R) decimal.Decimal {
	if a.Measure == nil {
		return one
	}
	return a.Measure(row)
}

// IntMeasure adapts an integer field (units, quantities) to a decimal measure.
func IntMeasure[R any](field func(R) int) func(R) decimal.Decimal {
	return func(row R) decimal.Decimal { return decimal.NewFromInt(int64(field(row))) }
}
