package reports

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
)

// Param names a report parameter as it appears on the wire.
type Param string

const (
	ParamCustomerID Param = "customerId"
	ParamYear       Param = "year"
	ParamMonth      Param = "month"
	ParamQuarter    Param = "quarter"
	ParamMinPrice   Param = "minPrice"
	ParamMaxPrice   Param = "maxPrice"
	ParamMonths     Param = "months"
)

// DefaultLookbackMonths is the quiet-customer window when months is not given.
const DefaultLookbackMonths = 3

var paramOrder = []Param{
	ParamCustomerID, ParamYear, ParamMonth, ParamQuarter,
	ParamMinPrice, ParamMaxPrice, ParamMonths,
}

// Params is the union of every report's inputs. Zero values and nil pointers
// mean "not given".
type Params struct {
	CustomerID uuid.UUID        `json:"customerId,omitempty"`
	Year       int              `json:"year,omitempty"`
	Month      int              `json:"month,omitempty"`
	Quarter    int              `json:"quarter,omitempty"`
	MinPrice   *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice   *decimal.Decimal `json:"maxPrice,omitempty"`
	// Months is nil when not given; an explicit 0 is rejected.
	Months     *int             `json:"months,omitempty"`
}

// ParseParams reads every known parameter through get (a query-string lookup,
// typically). Unknown or empty values are left unset.
func ParseParams(get func(string) string) (Params, error) {
	const op = "reports.parse_params"
	var p Params
	var err error

	if raw := strings.TrimSpace(get(string(ParamCustomerID))); raw != "" {
		if p.CustomerID, err = uuid.Parse(raw); err != nil {
			return Params{}, analytics.InvalidParameter(op, "%s must be a uuid, got %q", ParamCustomerID, raw)
		}
	}
	ints := []struct {
		name Param
		dst  *int
	}{
		{ParamYear, &p.Year},
		{ParamMonth, &p.Month},
		{ParamQuarter, &p.Quarter},
	}
	for _, f := range ints {
		raw := strings.TrimSpace(get(string(f.name)))
		if raw == "" {
			continue
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return Params{}, analytics.InvalidParameter(op, "%s must be an integer, got %q", f.name, raw)
		}
		*f.dst = n
	}
	if raw := strings.TrimSpace(get(string(ParamMonths))); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return Params{}, analytics.InvalidParameter(op, "%s must be an integer, got %q", ParamMonths, raw)
		}
		p.Months = &n
	}
	if p.MinPrice, err = parsePrice(op, ParamMinPrice, get(string(ParamMinPrice))); err != nil {
		return Params{}, err
	}
	if p.MaxPrice, err = parsePrice(op, ParamMaxPrice, get(string(ParamMaxPrice))); err != nil {
		return Params{}, err
	}
	return p, nil
}

func parsePrice(op string, name Param, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, analytics.InvalidParameter(op, "%s must be a finite decimal, got %q", name, raw)
	}
	return &d, nil
}

func (p Params) has(name Param) bool {
	switch name {
	case ParamCustomerID:
		return p.CustomerID != uuid.Nil
	case ParamYear:
		return p.Year != 0
	case ParamMonth:
		return p.Month != 0
	case ParamQuarter:
		return p.Quarter != 0
	case ParamMinPrice:
		return p.MinPrice != nil
	case ParamMaxPrice:
		return p.MaxPrice != nil
	case ParamMonths:
		return p.Months != nil
	}
	return false
}

func (p Params) value(name Param) string {
	switch name {
	case ParamCustomerID:
		return p.CustomerID.String()
	case ParamYear:
		return strconv.Itoa(p.Year)
	case ParamMonth:
		return strconv.Itoa(p.Month)
	case ParamQuarter:
		return strconv.Itoa(p.Quarter)
	case ParamMinPrice:
		return p.MinPrice.String()
	case ParamMaxPrice:
		return p.MaxPrice.String()
	case ParamMonths:
		return strconv.Itoa(*p.Months)
	}
	return ""
}

// normalize keeps only the parameters def declares, fills defaults and
// validates what is left. Window-level checks (month, quarter, year ranges)
// happen when the window is resolved.
func (p Params) normalize(def *Definition) (Params, error) {
	op := "reports." + string(def.Name)
	var out Params
	for _, name := range def.params() {
		if !p.has(name) {
			continue
		}
		switch name {
		case ParamCustomerID:
			out.CustomerID = p.CustomerID
		case ParamYear:
			out.Year = p.Year
		case ParamMonth:
			out.Month = p.Month
		case ParamQuarter:
			out.Quarter = p.Quarter
		case ParamMinPrice:
			v := *p.MinPrice
			out.MinPrice = &v
		case ParamMaxPrice:
			v := *p.MaxPrice
			out.MaxPrice = &v
		case ParamMonths:
			v := *p.Months
			out.Months = &v
		}
	}
	for _, name := range def.Required {
		if !out.has(name) {
			return Params{}, analytics.InvalidParameter(op, "missing required parameter %s", name)
		}
	}
	if def.declares(ParamMonths) {
		switch {
		case out.Months == nil:
			v := DefaultLookbackMonths
			out.Months = &v
		case *out.Months <= 0:
			return Params{}, analytics.InvalidParameter(op, "%s must be positive, got %d", ParamMonths, *out.Months)
		}
	}
	if out.MinPrice != nil && out.MinPrice.IsNegative() {
		return Params{}, analytics.InvalidParameter(op, "%s must not be negative", ParamMinPrice)
	}
	if out.MinPrice != nil && out.MaxPrice != nil && out.MinPrice.GreaterThan(*out.MaxPrice) {
		return Params{}, analytics.InvalidParameter(op, "%s %s is greater than %s %s",
			ParamMinPrice, out.MinPrice, ParamMaxPrice, out.MaxPrice)
	}
	return out, nil
}

// cacheKey is stable for equal normalised parameters.
func (p Params) cacheKey(name Name) string {
	var b strings.Builder
	b.WriteString(string(name))
	sep := "?"
	for _, param := range paramOrder {
		if !p.has(param) {
			continue
		}
		fmt.Fprintf(&b, "%s%s=%s", sep, param, p.value(param))
		sep = "&"
	}
	return b.String()
}
