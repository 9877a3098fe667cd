package document

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Equal compares two values the way the store does. Numbers compare by value
// regardless of their Go type, maps and slices compare element wise.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ai, bi, ok := bothIntegers(a, b); ok {
		return ai == bi
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}

	switch av := a.(type) {
	case string:
		bs, ok := toText(b)
		return ok && av == bs
	case uuid.UUID:
		bs, ok := toText(b)
		return ok && av.String() == bs
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}

	if am, ok := AsMap(a); ok {
		bm, ok := AsMap(b)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, v := range am {
			w, ok := bm[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}

	if as, ok := AsSlice(a); ok {
		bs, ok := AsSlice(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !Equal(as[i], bs[i]) {
				return false
			}
		}
		return true
	}

	return false
}

// Compare orders two values of comparable kinds (numbers, strings, times).
// The second return value is false when the values can not be ordered.
func Compare(a, b any) (int, bool) {
	if ai, bi, ok := bothIntegers(a, b); ok {
		switch {
		case ai < bi:
			return -1, true
		case ai > bi:
			return 1, true
		}
		return 0, true
	}

	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	if as, ok := toText(a); ok {
		bs, ok := toText(b)
		if !ok {
			return 0, false
		}
		switch {
		case as < bs:
			return -1, true
		case as > bs:
			return 1, true
		}
		return 0, true
	}

	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}

	return 0, false
}

// Key returns a string that is identical for values that are Equal scalars.
// It is used to index documents by identifier.
func Key(v any) string {
	if i, ok := toInteger(v); ok {
		return strconv.FormatInt(i, 10)
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if s, ok := toText(v); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case uuid.UUID:
		return t.String(), true
	}
	return "", false
}

func toInteger(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n), true
		}
	case float32:
		f := float64(n)
		if f == math.Trunc(f) && math.Abs(f) < 1<<24 {
			return int64(f), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}

	if i, ok := toInteger(v); ok {
		return float64(i), true
	}

	return 0, false
}

func bothIntegers(a, b any) (int64, int64, bool) {
	ai, ok := toInteger(a)
	if !ok {
		return 0, 0, false
	}
	bi, ok := toInteger(b)
	if !ok {
		return 0, 0, false
	}
	return ai, bi, true
}
