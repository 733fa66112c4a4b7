package modbusrtu

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cast"
	"math"
	"strconv"
	"strings"
)

// Coercion turns loosely typed request values (JSON numbers arrive as
// json.Number so 64-bit integers keep every digit, strings may carry numbers)
// into the exact width of a write primitive.

func toUnsigned(value interface{}, bits int) (uint64, error) {
	max := uint64(math.MaxUint64) >> (64 - bits)
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("value is missing")
	case float64:
		if v != math.Trunc(v) || v < 0 || v >= math.Ldexp(1, bits) {
			return 0, fmt.Errorf("%v is not a uint%d", v, bits)
		}
		return uint64(v), nil
	case float32:
		return toUnsigned(float64(v), bits)
	case json.Number:
		if n, err := toUnsigned(v.String(), bits); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s is not a uint%d", v, bits)
		}
		return toUnsigned(f, bits)
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(v), 0, bits)
		if err != nil {
			return 0, fmt.Errorf("%q is not a uint%d", v, bits)
		}
		return n, nil
	case uint64:
		if v > max {
			return 0, fmt.Errorf("%d overflows uint%d", v, bits)
		}
		return v, nil
	case bool:
		return 0, fmt.Errorf("%v is not a uint%d", v, bits)
	}

	n, err := cast.ToUint64E(value)
	if err != nil {
		return 0, fmt.Errorf("%v is not a uint%d: %v", value, bits, err)
	}
	if n > max {
		return 0, fmt.Errorf("%d overflows uint%d", n, bits)
	}
	return n, nil
}

func toSigned(value interface{}, bits int) (int64, error) {
	min := int64(math.MinInt64) >> (64 - bits)
	max := int64(math.MaxInt64) >> (64 - bits)
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("value is missing")
	case float64:
		if v != math.Trunc(v) || v < math.Ldexp(-1, bits-1) || v >= math.Ldexp(1, bits-1) {
			return 0, fmt.Errorf("%v is not an int%d", v, bits)
		}
		return int64(v), nil
	case float32:
		return toSigned(float64(v), bits)
	case json.Number:
		if n, err := toSigned(v.String(), bits); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("%s is not an int%d", v, bits)
		}
		return toSigned(f, bits)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 0, bits)
		if err != nil {
			return 0, fmt.Errorf("%q is not an int%d", v, bits)
		}
		return n, nil
	case uint64:
		if v > uint64(max) {
			return 0, fmt.Errorf("%d overflows int%d", v, bits)
		}
		return int64(v), nil
	case bool:
		return 0, fmt.Errorf("%v is not an int%d", v, bits)
	}

	n, err := cast.ToInt64E(value)
	if err != nil {
		return 0, fmt.Errorf("%v is not an int%d: %v", value, bits, err)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%d overflows int%d", n, bits)
	}
	return n, nil
}

func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("value is missing")
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return f, nil
	case json.Number:
		return toFloat64(v.String())
	case bool:
		return 0, fmt.Errorf("%v is not a number", v)
	}

	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("%v is not a number: %v", value, err)
	}
	return f, nil
}

func toFloat32(value interface{}) (float32, error) {
	f, err := toFloat64(value)
	if err != nil {
		return 0, err
	}
	if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
		return 0, fmt.Errorf("%v overflows float32", f)
	}
	return float32(f), nil
}

// toBool accepts true/false and the coil states 0 and 1. Anything else, such
// as 2 or "yes", is refused rather than truthy.
func toBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case nil:
		return false, fmt.Errorf("value is missing")
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, fmt.Errorf("%q is not a bool", v)
	case json.Number:
		return toBool(v.String())
	}

	n, err := cast.ToFloat64E(value)
	if err != nil || (n != 0 && n != 1) {
		return false, fmt.Errorf("%v is not a bool", value)
	}
	return n == 1, nil
}

func toText(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", fmt.Errorf("value is missing")
	case json.Number:
		return v.String(), nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", fmt.Errorf("%v is not a string", value)
	}
	return s, nil
}

func each[T any](values []interface{}, conv func(interface{}) (T, error)) ([]T, error) {
	out := make([]T, len(values))
	for i, v := range values {
		c, err := conv(v)
		if err != nil {
			return nil, fmt.Errorf("values[%d]: %v", i, err)
		}
		out[i] = c
	}
	return out, nil
}
