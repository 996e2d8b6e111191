package runtime

import (
	"encoding/json"
	"testing"
)

func TestValueDecodeProbesInPriorityOrder(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
	}{
		{`"cat"`, KindString},
		{`42`, KindInt},
		{`-7`, KindInt},
		{`42.0`, KindDouble},
		{`3.14`, KindDouble},
		{`1e3`, KindDouble},
		{`[1, 2.5, 3]`, KindFloatVector},
		{`{"cat": 0.9, "dog": 0.1}`, KindFloatMap},
	}

	for _, tc := range cases {
		var v Value
		if err := json.Unmarshal([]byte(tc.in), &v); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tc.in, err)
		}
		if v.Kind() != tc.kind {
			t.Errorf("Unmarshal(%s) kind = %v, want %v", tc.in, v.Kind(), tc.kind)
		}
	}
}

func TestValueIntDoubleLexicalRule(t *testing.T) {
	// The lexical form decides: no fraction or exponent means integer,
	// even when the numeric value is whole.
	var v Value
	if err := json.Unmarshal([]byte(`5`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindInt || v.Int() != 5 {
		t.Errorf("5 decoded as %v (%s)", v.Kind(), v)
	}

	if err := json.Unmarshal([]byte(`5.0`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindDouble || v.Double() != 5.0 {
		t.Errorf("5.0 decoded as %v (%s)", v.Kind(), v)
	}

	// Out of int64 range falls back to double.
	if err := json.Unmarshal([]byte(`92233720368547758080`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindDouble {
		t.Errorf("huge literal decoded as %v, want double", v.Kind())
	}
}

func TestValueRoundTripPreservesKind(t *testing.T) {
	for _, orig := range []Value{
		StringValue("label"),
		IntValue(3),
		DoubleValue(2.0),
		VectorValue([]float64{0.1, 0.9}),
		MapValue(map[string]float64{"a": 1}),
	} {
		data, err := json.Marshal(orig)
		if err != nil {
			t.Fatalf("Marshal(%s) error = %v", orig, err)
		}
		var back Value
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", data, err)
		}
		if back.Kind() != orig.Kind() {
			t.Errorf("round trip of %v changed kind to %v (json %s)", orig.Kind(), back.Kind(), data)
		}
	}
}

func TestValueDecodeRejectsMixedShapes(t *testing.T) {
	for _, in := range []string{
		`["a", 1]`,
		`{"x": "y"}`,
		`true`,
	} {
		var v Value
		if err := json.Unmarshal([]byte(in), &v); err == nil {
			t.Errorf("Unmarshal(%s) = %v, want error", in, v)
		}
	}
}
