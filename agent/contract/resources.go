package contract

import (
	"fmt"
	"math"
	"sort"
)

// ResourceMap maps a resource name to a non-negative quantity.
type ResourceMap map[string]int

func (m ResourceMap) Validate() error {
	for name, qty := range m {
		if qty < 0 {
			return fmt.Errorf("%w: resource=%q has negative quantity %d", ErrValidation, name, qty)
		}
	}
	return nil
}

func (m ResourceMap) Total() int {
	total := 0
	for _, qty := range m {
		total += qty
	}
	return total
}

// Covers reports whether m holds at least the quantity of every resource in other.
func (m ResourceMap) Covers(other ResourceMap) bool {
	for name, qty := range other {
		if qty > 0 && m[name] < qty {
			return false
		}
	}
	return true
}

// Wants reports whether name is still required (quantity above zero).
func (m ResourceMap) Wants(name string) bool {
	return m[name] > 0
}

func (m ResourceMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m ResourceMap) Clone() ResourceMap {
	if m == nil {
		return nil
	}
	out := make(ResourceMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ResourceMapFromAny converts a decoded JSON object into a ResourceMap.
// Quantities must be whole, non-negative numbers.
func ResourceMapFromAny(v any) (ResourceMap, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object of quantities, got %T", ErrSchemaViolation, v)
	}

	out := make(ResourceMap, len(obj))
	for name, raw := range obj {
		qty, err := quantityFromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: resource=%q: %v", ErrSchemaViolation, name, err)
		}
		out[name] = qty
	}
	return out, nil
}

func quantityFromAny(v any) (int, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, fmt.Errorf("quantity must be a number, got %T", v)
	}
	if f < 0 {
		return 0, fmt.Errorf("quantity %v is negative", f)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("quantity %v is not a whole number", f)
	}
	if f > math.MaxInt32 {
		return 0, fmt.Errorf("quantity %v is out of range", f)
	}
	return int(f), nil
}
