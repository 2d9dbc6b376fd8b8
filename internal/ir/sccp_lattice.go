package ir

import (
	"fmt"
	"math/big"
)

// This file implements the SCCP value domain: a flat three-level lattice
// Top | Const(c) | Bottom, with a monotone meet. Top means "no evidence
// yet" (optimistic); Bottom means "proven non-constant"; Const(c) carries
// a backend-defined constant token. See the SCCPPass doc comment in
// optimizations.go for how this complements the existing ConstantFolding
// pass.

// LatticeKind tags which of the three SCCP lattice levels a Lattice value
// occupies.
type LatticeKind int

const (
	LatticeTop LatticeKind = iota
	LatticeConst
	LatticeBottom
)

func (k LatticeKind) String() string {
	switch k {
	case LatticeTop:
		return "Top"
	case LatticeConst:
		return "Const"
	case LatticeBottom:
		return "Bottom"
	default:
		return "Unknown"
	}
}

// ConstKind selects which field of a ConstValue is meaningful.
type ConstKind int

const (
	ConstInt ConstKind = iota
	ConstBool
	ConstString
)

// ConstValue is the constant token carried by a Const lattice value. Kanso
// constants are either U256 integers (modeled with math/big, the same way
// internal/semantic already parses integer literals), booleans, or
// addr/string literals.
type ConstValue struct {
	Kind ConstKind
	Int  *big.Int
	Bool bool
	Str  string
}

// IntConst builds an integer constant token.
func IntConst(v *big.Int) ConstValue { return ConstValue{Kind: ConstInt, Int: v} }

// BoolConst builds a boolean constant token.
func BoolConst(v bool) ConstValue { return ConstValue{Kind: ConstBool, Bool: v} }

// StringConst builds a string/address constant token.
func StringConst(v string) ConstValue { return ConstValue{Kind: ConstString, Str: v} }

// Equal reports whether two constant tokens represent the same value.
func (c ConstValue) Equal(o ConstValue) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case ConstInt:
		if c.Int == nil || o.Int == nil {
			return c.Int == o.Int
		}
		return c.Int.Cmp(o.Int) == 0
	case ConstBool:
		return c.Bool == o.Bool
	case ConstString:
		return c.Str == o.Str
	default:
		return false
	}
}

func (c ConstValue) String() string {
	switch c.Kind {
	case ConstInt:
		if c.Int == nil {
			return "<nil>"
		}
		return c.Int.String()
	case ConstBool:
		return fmt.Sprintf("%t", c.Bool)
	case ConstString:
		return c.Str
	default:
		return "<unknown>"
	}
}

// Lattice is an SCCP value: Top, Bottom, or Const(c).
type Lattice struct {
	Kind  LatticeKind
	Const ConstValue
}

// Top is the optimistic "no evidence yet" lattice value.
var Top = Lattice{Kind: LatticeTop}

// Bottom is the "proven non-constant" lattice value.
var Bottom = Lattice{Kind: LatticeBottom}

// Const wraps a constant token as a lattice value.
func Const(c ConstValue) Lattice {
	return Lattice{Kind: LatticeConst, Const: c}
}

func (l Lattice) IsTop() bool    { return l.Kind == LatticeTop }
func (l Lattice) IsBottom() bool { return l.Kind == LatticeBottom }
func (l Lattice) IsConst() bool  { return l.Kind == LatticeConst }

// AsConst extracts the constant token, if this value is Const.
func (l Lattice) AsConst() (ConstValue, bool) {
	if l.Kind == LatticeConst {
		return l.Const, true
	}
	return ConstValue{}, false
}

func (l Lattice) String() string {
	switch l.Kind {
	case LatticeTop:
		return "Top"
	case LatticeBottom:
		return "Bottom"
	case LatticeConst:
		return "Const(" + l.Const.String() + ")"
	default:
		return "?"
	}
}

// latticeEqual reports whether two lattice values are the same point in
// the domain (used by Environment.update to detect no-op updates).
func latticeEqual(a, b Lattice) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == LatticeConst {
		return a.Const.Equal(b.Const)
	}
	return true
}

// rank orders the lattice Top > Const > Bottom, used only to detect an
// attempted upward move (invariant I1).
func rank(l Lattice) int {
	switch l.Kind {
	case LatticeTop:
		return 2
	case LatticeConst:
		return 1
	default:
		return 0
	}
}

// above reports whether a is strictly above b in lattice order.
func above(a, b Lattice) bool {
	return rank(a) > rank(b)
}

// meet is the lattice's greatest-lower-bound operator:
//
//	meet(x, Top) = x
//	meet(Bottom, _) = Bottom
//	meet(Const a, Const b) = a if a == b else Bottom
//
// meet is commutative, associative, idempotent, and monotone descending
// toward Bottom.
func meet(a, b Lattice) Lattice {
	if a.IsTop() {
		return b
	}
	if b.IsTop() {
		return a
	}
	if a.IsBottom() || b.IsBottom() {
		return Bottom
	}
	if a.Const.Equal(b.Const) {
		return a
	}
	return Bottom
}
