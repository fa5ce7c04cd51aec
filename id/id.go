// Package id implements the arbitrary-precision non-negative node index used
// to address octree nodes and chunks. Depth grows the index by `dimensions`
// bits per level, so a deep tree's index can exceed a machine word well before
// any single chunk needs to reason about more than a word's worth of range —
// hence the exact-arithmetic representation with a narrowing escape hatch.
package id

import (
	"errors"
	"math/big"
)

// ErrNegative is returned by operations that would produce a negative value.
var ErrNegative = errors.New("id: operation would produce a negative value")

// ErrOverflow is returned by Simple when the value does not fit a machine word.
var ErrOverflow = errors.New("id: value does not fit a machine word")

// Id is an arbitrary-precision non-negative integer.
type Id struct {
	v big.Int
}

// Zero returns the zero Id.
func Zero() Id {
	return Id{}
}

// FromUint64 constructs an Id from a native unsigned value.
func FromUint64(v uint64) Id {
	var out Id
	out.v.SetUint64(v)
	return out
}

// Lsh returns id << n, i.e. id * 2^n.
func (id Id) Lsh(n uint) Id {
	var out Id
	out.v.Lsh(&id.v, n)
	return out
}

// Rsh returns id >> n, i.e. id / 2^n truncated toward zero.
func (id Id) Rsh(n uint) Id {
	var out Id
	out.v.Rsh(&id.v, n)
	return out
}

// Add returns id + other.
func (id Id) Add(other Id) Id {
	var out Id
	out.v.Add(&id.v, &other.v)
	return out
}

// AddUint64 returns id + v.
func (id Id) AddUint64(v uint64) Id {
	var delta big.Int
	delta.SetUint64(v)
	var out Id
	out.v.Add(&id.v, &delta)
	return out
}

// Sub returns id - other. Panics via ErrNegative-carrying behavior is not
// used; instead the caller must guarantee id >= other, per spec.md's
// invariant that Sub is only ever called on ordered operands. A violation
// returns the zero Id and false.
func (id Id) Sub(other Id) (Id, bool) {
	if id.v.Cmp(&other.v) < 0 {
		return Id{}, false
	}
	var out Id
	out.v.Sub(&id.v, &other.v)
	return out, true
}

// MustSub is Sub but panics on a negative result; used at call sites that
// have already established id >= other as a precondition.
func (id Id) MustSub(other Id) Id {
	out, ok := id.Sub(other)
	if !ok {
		panic(ErrNegative)
	}
	return out
}

// Cmp returns -1, 0, or 1 as id is less than, equal to, or greater than other.
func (id Id) Cmp(other Id) int {
	return id.v.Cmp(&other.v)
}

// Less reports whether id < other.
func (id Id) Less(other Id) bool { return id.Cmp(other) < 0 }

// GreaterOrEqual reports whether id >= other.
func (id Id) GreaterOrEqual(other Id) bool { return id.Cmp(other) >= 0 }

// DivUint64 returns id / v using integer division. v must be nonzero.
func (id Id) DivUint64(v uint64) Id {
	var divisor big.Int
	divisor.SetUint64(v)
	var out Id
	out.v.Div(&id.v, &divisor)
	return out
}

// MulUint64 returns id * v.
func (id Id) MulUint64(v uint64) Id {
	var factor big.Int
	factor.SetUint64(v)
	var out Id
	out.v.Mul(&id.v, &factor)
	return out
}

// Simple narrows id to a uint64. It is only legal when the value fits a
// machine word; callers that violate this have a chunk/climber whose
// id-range math has gone wrong.
func (id Id) Simple() (uint64, error) {
	if !id.v.IsUint64() {
		return 0, ErrOverflow
	}
	return id.v.Uint64(), nil
}

// MustSimple is Simple but panics on overflow.
func (id Id) MustSimple() uint64 {
	v, err := id.Simple()
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the decimal representation, used verbatim as the endpoint
// path for a chunk (spec.md §6).
func (id Id) String() string {
	return id.v.String()
}
