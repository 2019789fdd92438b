package reports

import (
	"net/url"
	"testing"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
)

func TestParseParams(t *testing.T) {
	q := url.Values{}
	q.Set("customerId", "11111111-1111-4111-8111-111111111111")
	q.Set("year", "2024")
	q.Set("month", " 2 ")
	q.Set("minPrice", "10.00")
	q.Set("maxPrice", "20")

	p, err := ParseParams(q.Get)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.CustomerID.String() != "11111111-1111-4111-8111-111111111111" || p.Year != 2024 || p.Month != 2 {
		t.Fatalf("unexpected params %+v", p)
	}
	if p.MinPrice == nil || p.MinPrice.String() != "10" || p.MaxPrice == nil || p.MaxPrice.String() != "20" {
		t.Fatalf("unexpected prices %v %v", p.MinPrice, p.MaxPrice)
	}
	if p.Quarter != 0 || p.Months != nil {
		t.Fatalf("unset params should stay zero: %+v", p)
	}
}

func TestParseParamsRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"customerId": "not-a-uuid",
		"year":       "twenty",
		"quarter":    "1.5",
		"minPrice":   "NaN",
		"maxPrice":   "Infinity",
	}
	for key, raw := range cases {
		q := url.Values{}
		q.Set(key, raw)
		_, err := ParseParams(q.Get)
		if !analytics.IsCode(err, analytics.CodeInvalidParameter) {
			t.Fatalf("%s=%q: want=%q got=%q (%v)", key, raw, analytics.CodeInvalidParameter, analytics.CodeOf(err), err)
		}
	}
}

func TestExplicitZeroLookbackIsRejected(t *testing.T) {
	q := url.Values{}
	q.Set("months", "0")
	p, err := ParseParams(q.Get)
	if err != nil {
		t.Fatalf("ParseParams: %v", err)
	}
	if p.Months == nil || *p.Months != 0 {
		t.Fatalf("explicit months=0 should be kept as given: %+v", p.Months)
	}
	def := newTestEngine(nil).byName[CustomersWithNoRecentOrders]
	if _, err := p.normalize(def); !analytics.IsCode(err, analytics.CodeInvalidParameter) {
		t.Fatalf("want=%q got=%q (%v)", analytics.CodeInvalidParameter, analytics.CodeOf(err), err)
	}

	// Absent still means the default lookback.
	got, err := Params{}.normalize(def)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.Months == nil || *got.Months != DefaultLookbackMonths {
		t.Fatalf("want=%d got=%v", DefaultLookbackMonths, got.Months)
	}
}

func TestCacheKeyIsNormalised(t *testing.T) {
	e := newTestEngine(nil)
	def := e.byName[UnitsSoldInPriceRange]
	a, err := Params{MinPrice: moneyPtr("10.00"), MaxPrice: moneyPtr("20.0"), Year: 2020}.normalize(def)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	b, err := Params{MaxPrice: moneyPtr("20"), MinPrice: moneyPtr("10")}.normalize(def)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if a.cacheKey(def.Name) != b.cacheKey(def.Name) {
		t.Fatalf("want equal keys got=%q and %q", a.cacheKey(def.Name), b.cacheKey(def.Name))
	}
	if want := "units-sold-in-price-range?minPrice=10&maxPrice=20"; a.cacheKey(def.Name) != want {
		t.Fatalf("want=%q got=%q", want, a.cacheKey(def.Name))
	}
}
