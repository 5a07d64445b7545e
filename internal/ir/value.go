package ir

import (
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"
)

// IRValue is a sealed interface representing the column values the engine
// understands. Only IRNull, IRBool, IRInt and IRString implement it.
// NO IRFloat - numbers are int64 so comparison and fingerprints stay exact.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRNull represents SQL NULL.
// Using an explicit type ensures all IRValues satisfy the sealed interface.
type IRNull struct{}

func (IRNull) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRInt represents an integer value.
// Always int64, never float64.
type IRInt int64

func (IRInt) irValue() {}

// IRString represents a string value.
type IRString string

func (IRString) irValue() {}

// TypeName returns the SQL type name of a value, used as the declared type
// hint on literals.
func TypeName(v IRValue) string {
	switch v.(type) {
	case IRNull:
		return "NULL"
	case IRBool:
		return "BOOLEAN"
	case IRInt:
		return "INTEGER"
	case IRString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// IsNull reports whether v is SQL NULL. A nil interface counts as NULL.
func IsNull(v IRValue) bool {
	if v == nil {
		return true
	}
	_, ok := v.(IRNull)
	return ok
}

// Format renders a value as a SQL literal.
func Format(v IRValue) string {
	switch val := v.(type) {
	case nil, IRNull:
		return "NULL"
	case IRBool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case IRInt:
		return strconv.FormatInt(int64(val), 10)
	case IRString:
		return quoteSQLString(string(val))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func quoteSQLString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	return string(append(out, '\''))
}

// kindRank orders value kinds for Compare: NULL < BOOLEAN < INTEGER < STRING.
func kindRank(v IRValue) int {
	switch v.(type) {
	case nil, IRNull:
		return 0
	case IRBool:
		return 1
	case IRInt:
		return 2
	case IRString:
		return 3
	default:
		return 4
	}
}

// Compare imposes a total order over IR values. Values of different kinds
// are ordered by kind; values of the same kind by their natural order.
// Strings compare by UTF-16 code units, matching SortedKeys.
func Compare(a, b IRValue) int {
	ra, rb := kindRank(a), kindRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case IRBool:
		bv := b.(IRBool)
		switch {
		case av == bv:
			return 0
		case !bool(av):
			return -1
		default:
			return 1
		}
	case IRInt:
		bv := b.(IRInt)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		default:
			return 0
		}
	case IRString:
		return compareKeysRFC8785(string(av), string(b.(IRString)))
	default:
		return 0
	}
}

// Equal reports whether two values are the same kind and value.
func Equal(a, b IRValue) bool {
	return kindRank(a) == kindRank(b) && Compare(a, b) == 0
}

// Record maps column names to values. It is the unit rows are built from.
// Use SortedKeys() for deterministic iteration.
type Record map[string]IRValue

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// Clone returns a copy of the record. Values are immutable so the copy is
// independent of the original.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether two records hold the same columns and values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the record as canonical JSON.
func (r Record) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(r)
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
// CRITICAL: Must use unicode/utf16.Encode for correct surrogate handling.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// If all compared units are equal, shorter string comes first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// FromGo converts a Go value (as produced by YAML, JSON or database/sql
// decoding) to an IRValue. Floats are rejected unless they are integral.
func FromGo(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case bool:
		return IRBool(val), nil
	case string:
		return IRString(val), nil
	case []byte:
		return IRString(string(val)), nil
	case int:
		return IRInt(val), nil
	case int32:
		return IRInt(val), nil
	case int64:
		return IRInt(val), nil
	case uint64:
		if val > 1<<63-1 {
			return nil, fmt.Errorf("integer out of int64 range: %d", val)
		}
		return IRInt(int64(val)), nil
	case float64:
		if val != float64(int64(val)) {
			return nil, fmt.Errorf("floats are not supported: %v", val)
		}
		return IRInt(int64(val)), nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ToGo converts an IRValue to the Go value used as a database/sql parameter.
func ToGo(v IRValue) (any, error) {
	switch val := v.(type) {
	case nil, IRNull:
		return nil, nil
	case IRBool:
		return bool(val), nil
	case IRInt:
		return int64(val), nil
	case IRString:
		return string(val), nil
	default:
		return nil, fmt.Errorf("unsupported IRValue type for SQL parameter: %T", v)
	}
}
