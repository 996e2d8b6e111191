package runtime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variants an engine output value can take.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDouble
	KindFloatVector
	KindFloatMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindFloatVector:
		return "float_vector"
	case KindFloatMap:
		return "float_map"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a tagged variant over the shapes the engine daemon returns:
// string, integer, double, vector of floats, or string-keyed map of
// floats. Decoding probes candidate shapes in that fixed order.
type Value struct {
	kind Kind
	str  string
	i    int64
	d    float64
	vec  []float64
	m    map[string]float64
}

func StringValue(s string) Value { return Value{kind: KindString, str: s} }

func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

func DoubleValue(d float64) Value { return Value{kind: KindDouble, d: d} }

func VectorValue(v []float64) Value { return Value{kind: KindFloatVector, vec: v} }

func MapValue(m map[string]float64) Value { return Value{kind: KindFloatMap, m: m} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) Str() string { return v.str }

func (v Value) Int() int64 { return v.i }

func (v Value) Double() float64 { return v.d }

func (v Value) Vector() []float64 { return v.vec }

func (v Value) Map() map[string]float64 { return v.m }

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case KindFloatVector:
		return fmt.Sprintf("[%d floats]", len(v.vec))
	case KindFloatMap:
		return fmt.Sprintf("{%d entries}", len(v.m))
	}
	return ""
}

// MarshalJSON renders the underlying variant directly, so round-trips
// through UnmarshalJSON preserve the kind.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt:
		return json.Marshal(v.i)
	case KindDouble:
		// Keep a fractional form so the value re-decodes as a double.
		if v.d == float64(int64(v.d)) {
			return []byte(strconv.FormatFloat(v.d, 'f', 1, 64)), nil
		}
		return json.Marshal(v.d)
	case KindFloatVector:
		if v.vec == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.vec)
	case KindFloatMap:
		if v.m == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.m)
	}
	return nil, fmt.Errorf("unknown value kind %d", int(v.kind))
}

// UnmarshalJSON probes candidate shapes in priority order:
// string, integer, floating-point, array of floats, map of floats.
// A number whose lexical form carries no fraction or exponent decodes
// as an integer; anything else numeric decodes as a double.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil

	case '[':
		var vec []float64
		if err := json.Unmarshal(trimmed, &vec); err != nil {
			return fmt.Errorf("array value must contain only floats: %w", err)
		}
		*v = VectorValue(vec)
		return nil

	case '{':
		var m map[string]float64
		if err := json.Unmarshal(trimmed, &m); err != nil {
			return fmt.Errorf("map value must contain only float fields: %w", err)
		}
		*v = MapValue(m)
		return nil
	}

	lit := string(trimmed)
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			*v = IntValue(i)
			return nil
		}
	}
	d, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("unsupported value %q", lit)
	}
	*v = DoubleValue(d)
	return nil
}
