package collection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SierraSoftworks/connor"
)

// A query spec can be given in two equivalent forms: a function, or a plain
// data structure that is normalized into one. The parsers below produce the
// canonical callable form; they are only invoked lazily, on the first pull
// that needs them, so an invalid spec surfaces as an error on Next and never
// at chain construction time.

var (
	ErrInvalidCondition  = errors.New("invalid condition")
	ErrInvalidProjection = errors.New("invalid projection")
	ErrInvalidSort       = errors.New("invalid sort")

	// ErrNoChain is returned when pulling from a cursor that was never
	// given a source.
	ErrNoChain = errors.New("cursor has no chain")
)

// Predicate decides whether an item belongs to the result.
type Predicate func(item Item) bool

// Mapping transforms an item into the item actually returned.
type Mapping func(item Item) Item

// Comparator reports the order of a relative to b: negative, zero or
// positive.
type Comparator func(a, b Item) int

// SortField is one key of a multi-key sort spec. Direction 1 is ascending,
// -1 descending. Field order establishes tie-break precedence, which is why
// the object form is an ordered slice and not a map.
type SortField struct {
	Field     string
	Direction int
}

type predicateFunc func(item Item) (bool, error)

func parseCondition(spec interface{}) (predicateFunc, error) {
	switch s := spec.(type) {
	case nil:
		return nil, nil
	case Predicate:
		return func(item Item) (bool, error) { return s(item), nil }, nil
	case func(Item) bool:
		return func(item Item) (bool, error) { return s(item), nil }, nil
	case map[string]interface{}:
		if len(s) == 0 {
			return nil, nil
		}
		return func(item Item) (bool, error) {
			match, err := connor.Match(s, item)
			if err != nil {
				return false, fmt.Errorf("%w: %s", ErrInvalidCondition, err.Error())
			}
			return match, nil
		}, nil
	}

	return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidCondition, spec)
}

func parseProjection(spec interface{}) (Mapping, error) {
	switch s := spec.(type) {
	case nil:
		return nil, nil
	case Mapping:
		return s, nil
	case func(Item) Item:
		return s, nil
	case map[string]interface{}:
		if len(s) == 0 {
			return nil, nil
		}
		fields := []string{}
		for field, include := range s {
			if truthy(include) {
				fields = append(fields, field)
			}
		}
		return func(item Item) Item {
			result := Item{}
			for _, field := range fields {
				if value, exist := item[field]; exist {
					result[field] = cloneValue(value)
				}
			}
			return result
		}, nil
	}

	return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidProjection, spec)
}

func parseSort(spec interface{}) (Comparator, error) {
	switch s := spec.(type) {
	case Comparator:
		return s, nil
	case func(a, b Item) int:
		return s, nil
	case SortField:
		return fieldComparator([]SortField{s}), nil
	case []SortField:
		if len(s) == 0 {
			return nil, fmt.Errorf("%w: empty sort spec", ErrInvalidSort)
		}
		return fieldComparator(s), nil
	case map[string]interface{}:
		// A map is only unambiguous with a single key; multi-key specs
		// must use the ordered slice form.
		if len(s) != 1 {
			return nil, fmt.Errorf("%w: field map must have exactly one key, use []SortField for multi-key sorts", ErrInvalidSort)
		}
		for field, direction := range s {
			d, ok := toInt(direction)
			if !ok || (d != 1 && d != -1) {
				return nil, fmt.Errorf("%w: direction of '%s' must be 1 or -1", ErrInvalidSort, field)
			}
			return fieldComparator([]SortField{{Field: field, Direction: d}}), nil
		}
	case []interface{}:
		// Wire form: a JSON array of "field"/"-field" strings or
		// single-key {"field": direction} objects, in precedence order.
		fields := make([]SortField, 0, len(s))
		for _, element := range s {
			field, err := parseSortElement(element)
			if err != nil {
				return nil, err
			}
			fields = append(fields, field)
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: empty sort spec", ErrInvalidSort)
		}
		return fieldComparator(fields), nil
	case []string:
		fields := make([]SortField, 0, len(s))
		for _, name := range s {
			fields = append(fields, sortFieldFromString(name))
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: empty sort spec", ErrInvalidSort)
		}
		return fieldComparator(fields), nil
	case string:
		return fieldComparator([]SortField{sortFieldFromString(s)}), nil
	}

	return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidSort, spec)
}

func parseSortElement(element interface{}) (SortField, error) {
	switch e := element.(type) {
	case string:
		return sortFieldFromString(e), nil
	case map[string]interface{}:
		if len(e) != 1 {
			return SortField{}, fmt.Errorf("%w: sort object must have exactly one key", ErrInvalidSort)
		}
		for field, direction := range e {
			d, ok := toInt(direction)
			if !ok || (d != 1 && d != -1) {
				return SortField{}, fmt.Errorf("%w: direction of '%s' must be 1 or -1", ErrInvalidSort, field)
			}
			return SortField{Field: field, Direction: d}, nil
		}
	}

	return SortField{}, fmt.Errorf("%w: unsupported element type %T", ErrInvalidSort, element)
}

func sortFieldFromString(name string) SortField {
	if strings.HasPrefix(name, "-") {
		return SortField{Field: strings.TrimPrefix(name, "-"), Direction: -1}
	}
	return SortField{Field: name, Direction: 1}
}

// fieldComparator compares by each key in declared order, moving to the next
// key only on ties. Descending inverts the comparison result (not the final
// item order), so later keys still break ties correctly.
func fieldComparator(fields []SortField) Comparator {
	return func(a, b Item) int {
		for _, f := range fields {
			c := compareValues(a[f.Field], b[f.Field])
			if f.Direction < 0 {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	}
}

// compareValues orders two field values naturally: numbers numerically,
// strings lexicographically. Missing values sort first, mismatched types
// order by a fixed type rank so the result is still deterministic.
func compareValues(a, b interface{}) int {
	an, aIsNumber := toFloat(a)
	bn, bIsNumber := toFloat(b)
	if aIsNumber && bIsNumber {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}

	as, aIsString := a.(string)
	bs, bIsString := b.(string)
	if aIsString && bIsString {
		return strings.Compare(as, bs)
	}

	ab, aIsBool := a.(bool)
	bb, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		switch {
		case !ab && bb:
			return -1
		case ab && !bb:
			return 1
		}
		return 0
	}

	return typeRank(a) - typeRank(b)
}

func typeRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return 2
	case string:
		return 3
	}
	return 4
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func toInt(v interface{}) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case nil:
		return false
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return true
}
