package wintype

import (
	"github.com/wippyai/etwgen/errors"
)

// Heuristic widths for variable-length types, used only when estimating.
const (
	AnsiStringEstimate    = 32
	UnicodeStringEstimate = 64
	StructEstimate        = 32
	PointerEstimate       = 8
)

// Bounds applied to template size estimates.
const (
	MinEstimate = 32
	MaxEstimate = 1024
)

// fixedSize returns the exact width of t, or false for types whose width is
// not known statically.
func fixedSize(t Type) (int, bool) {
	switch t {
	case Int8, UInt8, Binary:
		return 1, true
	case Int16, UInt16:
		return 2, true
	case Int32, UInt32, ULong, Boolean:
		return 4, true
	case Int64, UInt64, Double:
		return 8, true
	case GUID:
		return 16, true
	default:
		return 0, false
	}
}

// Estimate sums the worst-case byte cost of a parameter type sequence.
// Pointers count as PointerEstimate bytes and variable-length types use the
// heuristic widths. The result is not clamped; see Clamp.
func Estimate(types []Type) (int, error) {
	total := 0
	for _, t := range types {
		if n, ok := fixedSize(t); ok {
			total += n
			continue
		}
		switch t {
		case Pointer:
			total += PointerEstimate
		case AnsiString:
			total += AnsiStringEstimate
		case UnicodeString:
			total += UnicodeStringEstimate
		case Struct:
			total += StructEstimate
		case Null:
		default:
			return 0, errors.UnknownType(errors.PhaseEstimate, nil, t.String())
		}
	}
	return total, nil
}

// Exact sums the fixed widths of a type sequence and counts pointers
// separately, so callers can add the pointer width of the target. The JSON
// dump uses it for struct element sizes. Variable-length types have no exact
// size and fail.
func Exact(types []Type) (total, pointers int, err error) {
	for _, t := range types {
		if n, ok := fixedSize(t); ok {
			total += n
			continue
		}
		if t == Pointer {
			pointers++
			continue
		}
		return 0, 0, errors.UnknownType(errors.PhaseEstimate, nil, t.String())
	}
	return total, pointers, nil
}

// Clamp bounds n to [MinEstimate, MaxEstimate].
func Clamp(n int) int {
	if n < MinEstimate {
		return MinEstimate
	}
	if n > MaxEstimate {
		return MaxEstimate
	}
	return n
}
