package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"time"
)

// Merge recursively folds a fragment into a base document and returns a
// new tree; neither input is modified. Per key:
//
//   - mapping into mapping: recurse
//   - list into list: base order kept, fragment members appended unless
//     a structurally equal member already exists
//   - anything else: fragment replaces base
//
// There is no removal syntax. Both trees must be normalized (see
// Normalize) or list dedup will miss equal numbers decoded by different
// codecs.
func Merge(base, fragment map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(fragment))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range fragment {
		bv, exists := out[k]
		if exists {
			if bm, ok := bv.(map[string]any); ok {
				if fm, ok := v.(map[string]any); ok {
					out[k] = Merge(bm, fm)
					continue
				}
			}
			if bl, ok := bv.([]any); ok {
				if fl, ok := v.([]any); ok {
					out[k] = mergeLists(bl, fl)
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}

func mergeLists(base, fragment []any) []any {
	out := make([]any, len(base), len(base)+len(fragment))
	copy(out, base)
	for _, v := range fragment {
		if !containsDeep(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func containsDeep(list []any, v any) bool {
	for _, member := range list {
		if reflect.DeepEqual(member, v) {
			return true
		}
	}
	return false
}

// Normalize rewrites a decoded generic tree into one numeric and key
// representation: integral numbers become int64 whichever decoder
// produced them (yaml.v3 yields int, encoding/json float64 or
// json.Number), non-integral become float64, and timestamps yaml parsed
// eagerly go back to RFC 3339 strings. Mapping keys must be strings.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string:
		return val, nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case uint:
		return normalizeUint(uint64(val)), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint64:
		return normalizeUint(val), nil
	case float32:
		return normalizeFloat(float64(val)), nil
	case float64:
		return normalizeFloat(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %v out of range", val)
		}
		return normalizeFloat(f), nil
	case time.Time:
		return val.UTC().Format(time.RFC3339), nil
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			n, err := Normalize(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		return nil, fmt.Errorf("mapping keys must be strings")
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// NormalizeMap is Normalize for a document root. nil maps normalize to
// an empty document.
func NormalizeMap(m map[string]any) (map[string]any, error) {
	if m == nil {
		return map[string]any{}, nil
	}
	n, err := Normalize(m)
	if err != nil {
		return nil, err
	}
	return n.(map[string]any), nil
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return int64(f)
	}
	return f
}
