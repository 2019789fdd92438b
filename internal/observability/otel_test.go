package observability

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" api-key = abc , broken, =x, team=reports ")
	want := map[string]string{"api-key": "abc", "team": "reports"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
	if parseHeaders("  ") != nil {
		t.Fatalf("blank headers should be nil")
	}
}

func TestClampRatio(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0.25: 0.25, 3: 1}
	for in, want := range cases {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v): want=%v got=%v", in, want, got)
		}
	}
}
