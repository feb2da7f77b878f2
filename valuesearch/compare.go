package valuesearch

import (
	"math"

	"github.com/newhook/memsearch/counter"
)

// Evaluate implements spec.md §4.D's "Compare-to-value" / "Compare-to-
// nothing" semantics and the Equal/Greater/Less/NotEqual family. It is
// exported so pointersearch can apply the identical predicate to a resolved
// pointer chain's terminal value instead of duplicating the comparison
// logic.
//
// Increased/Decreased always measure change relative to the previous
// snapshot: with no qualifier, "unqualified delta" (strict change); with a
// qualifier, "qualified delta" (current == previous ± qualifier, wrapping
// at the integer width, or the floor-based float rule from
// original_source/cl_search.c's compare_to_value_float).
//
// Equal/Greater/Less/NotEqual compare current against whatever Source
// selects: an immediate value (the step's argument), the previous
// snapshot, or (degenerate) current memory again.
func Evaluate(current, previous counter.Counter, cmp Comparison, source Source, arg *counter.Counter) bool {
	switch cmp {
	case Increased:
		return delta(current, previous, arg, true)
	case Decreased:
		return delta(current, previous, arg, false)
	case AboveAddress, BelowAddress:
		// Address-relative comparisons are evaluated by the caller, which
		// has access to the element's guest address; treated as "no match"
		// here so a misrouted call fails closed rather than silently
		// passing everything.
		return false
	}

	var right counter.Counter
	switch source {
	case ImmediateInt, ImmediateFloat:
		if arg == nil {
			return false
		}
		right = *arg
	case PreviousSnapshot:
		right = previous
	case CurrentRam:
		right = current
	}

	switch cmp {
	case Equal:
		return current.Equal(right)
	case NotEqual:
		return current.NotEqual(right)
	case Greater:
		return current.Greater(right)
	case Less:
		return current.Less(right)
	}
	return false
}

func delta(current, previous counter.Counter, arg *counter.Counter, increased bool) bool {
	if arg == nil {
		if increased {
			return current.Greater(previous)
		}
		return current.Less(previous)
	}

	if current.Kind == counter.Float {
		return floatDelta(current, previous, *arg, increased)
	}

	v := arg.Uint()
	var want counter.Counter
	if increased {
		want = previous.WithUint(previous.Uint() + v)
	} else {
		want = previous.WithUint(previous.Uint() - v)
	}
	return current.Equal(want)
}

func floatDelta(current, previous, arg counter.Counter, increased bool) bool {
	fc, fp, fv := current.Float(), previous.Float(), arg.Float()
	if math.IsNaN(fc) {
		return false
	}
	hasDecimal := math.Floor(fv) != fv
	if increased {
		if hasDecimal {
			return fc == fp+fv
		}
		return math.Floor(fc) == math.Floor(fp)+fv
	}
	if hasDecimal {
		return fc+fv == fp
	}
	return math.Floor(fc)+fv == math.Floor(fp)
}
