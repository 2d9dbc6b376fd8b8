package ir

import "math/big"

// This file implements irCodeBackend's abstract transfer function (Visit)
// and the final constant-folding rewrite (Rewrite): the target-specific
// semantics spec.md leaves to the CodeBackend collaborator.

var u256Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Visit is the abstract transfer function: given an instruction and the
// current lattice, it decides which successors are statically reachable
// and what its destination value(s) become.
func (irCodeBackend) Visit(inst Instruction, lookup func(*Value) Lattice) ([]Label, []Update) {
	switch i := inst.(type) {
	case *ConstantInstruction:
		if cv, ok := normalizeConst(i.Value, i.Type); ok {
			return nil, []Update{{Vars: []*Value{i.Result}, Value: Const(cv)}}
		}
		return nil, []Update{{Vars: []*Value{i.Result}, Value: Bottom}}

	case *BinaryInstruction:
		l, r := lookup(i.Left), lookup(i.Right)
		if l.IsBottom() || r.IsBottom() {
			return nil, []Update{{Vars: []*Value{i.Result}, Value: Bottom}}
		}
		if l.IsTop() || r.IsTop() {
			return nil, nil // not enough evidence yet, stay optimistic
		}
		lc, _ := l.AsConst()
		rc, _ := r.AsConst()
		if cv, ok := evalBinary(i.Op, lc, rc); ok {
			return nil, []Update{{Vars: []*Value{i.Result}, Value: Const(cv)}}
		}
		return nil, []Update{{Vars: []*Value{i.Result}, Value: Bottom}}

	case *CheckedArithInstruction:
		l, r := lookup(i.Left), lookup(i.Right)
		dests := []*Value{i.ResultVal, i.ResultOk}
		if l.IsBottom() || r.IsBottom() {
			return nil, []Update{{Vars: dests, Value: Bottom}}
		}
		if l.IsTop() || r.IsTop() {
			return nil, nil
		}
		lc, _ := l.AsConst()
		rc, _ := r.AsConst()
		if lc.Kind != ConstInt || rc.Kind != ConstInt {
			return nil, []Update{{Vars: dests, Value: Bottom}}
		}
		result, ok := evalChecked(i.Op, lc.Int, rc.Int)
		return nil, []Update{
			{Vars: []*Value{i.ResultVal}, Value: Const(IntConst(result))},
			{Vars: []*Value{i.ResultOk}, Value: Const(BoolConst(ok))},
		}

	case *PhiInstruction:
		// Phis are evaluated by the engine directly (evalPhi); Visit is
		// never called with one in practice, but returns inertly if it is.
		return nil, nil

	case *JumpTerminator:
		if i.Target == nil {
			return nil, nil
		}
		return []Label{i.Target}, nil

	case *BranchTerminator:
		cond := lookup(i.Condition)
		switch {
		case cond.IsBottom():
			return []Label{i.TrueBlock, i.FalseBlock}, nil
		case cond.IsConst():
			cv, _ := cond.AsConst()
			if cv.Kind == ConstBool {
				if cv.Bool {
					return []Label{i.TrueBlock}, nil
				}
				return []Label{i.FalseBlock}, nil
			}
			// Non-boolean constant condition shouldn't occur; be safe.
			return []Label{i.TrueBlock, i.FalseBlock}, nil
		default: // Top: no evidence yet, stay optimistic
			return nil, nil
		}

	case *ReturnTerminator:
		return nil, nil

	case *RevertInstruction:
		return nil, nil

	default:
		// Any other result-producing instruction (loads, calls, sender(),
		// storage/ABI addressing, event signatures, ...) depends on
		// runtime or environment state SCCP has no model for: its result
		// is immediately Bottom. Instructions with no result and no flow
		// effect (stores, emit, require, assume, log) need no update.
		if res := inst.GetResult(); res != nil {
			return nil, []Update{{Vars: []*Value{res}, Value: Bottom}}
		}
		return nil, nil
	}
}

// Rewrite concretizes an instruction under the final lattice: binary and
// checked-arithmetic instructions whose results turned out constant are
// replaced with ConstantInstructions, and a branch whose condition is a
// known boolean constant is folded into an unconditional jump.
func (irCodeBackend) Rewrite(inst Instruction, lookup func(*Value) Lattice) []Instruction {
	switch i := inst.(type) {
	case *BinaryInstruction:
		if cv, ok := lookup(i.Result).AsConst(); ok {
			return []Instruction{&ConstantInstruction{
				ID: i.ID, Result: i.Result, Block: i.Block,
				Value: constToRaw(cv), Type: i.Result.Type,
			}}
		}

	case *CheckedArithInstruction:
		cv, ok1 := lookup(i.ResultVal).AsConst()
		okv, ok2 := lookup(i.ResultOk).AsConst()
		if ok1 && ok2 {
			return []Instruction{
				&ConstantInstruction{ID: i.ID, Result: i.ResultVal, Block: i.Block, Value: constToRaw(cv), Type: i.ResultVal.Type},
				&ConstantInstruction{ID: i.ID, Result: i.ResultOk, Block: i.Block, Value: constToRaw(okv), Type: i.ResultOk.Type},
			}
		}

	case *BranchTerminator:
		cv, ok := lookup(i.Condition).AsConst()
		if ok && cv.Kind == ConstBool {
			target := i.FalseBlock
			if cv.Bool {
				target = i.TrueBlock
			}
			return []Instruction{&JumpTerminator{ID: i.ID, Block: i.Block, Target: target}}
		}
	}

	return []Instruction{inst}
}

// normalizeConst converts a ConstantInstruction's raw Value payload (as
// produced by Builder — bool, or a numeric/address/string literal string)
// into a lattice ConstValue.
func normalizeConst(raw interface{}, typ Type) (ConstValue, bool) {
	switch v := raw.(type) {
	case bool:
		return BoolConst(v), true
	case uint64:
		return IntConst(new(big.Int).SetUint64(v)), true
	case int64:
		return IntConst(big.NewInt(v)), true
	case *big.Int:
		return IntConst(new(big.Int).Set(v)), true
	case string:
		if _, isInt := typ.(*IntType); isInt {
			s := v
			base := 10
			if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
				base = 16
				s = s[2:]
			}
			n, ok := new(big.Int).SetString(s, base)
			if !ok {
				return ConstValue{}, false
			}
			return IntConst(n), true
		}
		return StringConst(v), true
	default:
		return ConstValue{}, false
	}
}

// constToRaw is the inverse of normalizeConst, producing the same kind of
// payload Builder itself stores on a ConstantInstruction.Value.
func constToRaw(cv ConstValue) interface{} {
	switch cv.Kind {
	case ConstInt:
		if cv.Int == nil {
			return "0"
		}
		return cv.Int.String()
	case ConstBool:
		return cv.Bool
	case ConstString:
		return cv.Str
	default:
		return nil
	}
}

// evalBinary computes a BinaryInstruction's result given two constant
// operands, mirroring ConstantFolding.computeBinaryOp but over the SCCP
// lattice's ConstValue (full-width math/big integers, not uint64). Integer
// ops assume U256 semantics: "+"/"*" bail to non-constant past u256Max the
// same way "-" already bails on underflow, rather than folding a value the
// real runtime would instead wrap.
func evalBinary(op string, l, r ConstValue) (ConstValue, bool) {
	if l.Kind == ConstInt && r.Kind == ConstInt {
		a, b := l.Int, r.Int
		switch op {
		case "+":
			sum := new(big.Int).Add(a, b)
			if sum.Cmp(u256Max) > 0 {
				return ConstValue{}, false
			}
			return IntConst(sum), true
		case "-":
			if a.Cmp(b) < 0 {
				return ConstValue{}, false
			}
			return IntConst(new(big.Int).Sub(a, b)), true
		case "*":
			prod := new(big.Int).Mul(a, b)
			if prod.Cmp(u256Max) > 0 {
				return ConstValue{}, false
			}
			return IntConst(prod), true
		case "/":
			if b.Sign() == 0 {
				return ConstValue{}, false
			}
			return IntConst(new(big.Int).Div(a, b)), true
		case "%":
			if b.Sign() == 0 {
				return ConstValue{}, false
			}
			return IntConst(new(big.Int).Mod(a, b)), true
		case "==":
			return BoolConst(a.Cmp(b) == 0), true
		case "!=":
			return BoolConst(a.Cmp(b) != 0), true
		case "<":
			return BoolConst(a.Cmp(b) < 0), true
		case "<=":
			return BoolConst(a.Cmp(b) <= 0), true
		case ">":
			return BoolConst(a.Cmp(b) > 0), true
		case ">=":
			return BoolConst(a.Cmp(b) >= 0), true
		}
		return ConstValue{}, false
	}

	if l.Kind == ConstBool && r.Kind == ConstBool {
		switch op {
		case "&&":
			return BoolConst(l.Bool && r.Bool), true
		case "||":
			return BoolConst(l.Bool || r.Bool), true
		case "==":
			return BoolConst(l.Bool == r.Bool), true
		case "!=":
			return BoolConst(l.Bool != r.Bool), true
		}
		return ConstValue{}, false
	}

	if l.Kind == ConstString && r.Kind == ConstString {
		switch op {
		case "==":
			return BoolConst(l.Str == r.Str), true
		case "!=":
			return BoolConst(l.Str != r.Str), true
		}
	}

	return ConstValue{}, false
}

// evalChecked computes a checked arithmetic op's result and its overflow/
// underflow-free flag, assuming EVM U256 semantics (the checked ops this
// IR models are all EVM-targeted: ADD_CHK/SUB_CHK/MUL_CHK/DIV_CHK).
func evalChecked(op string, a, b *big.Int) (result *big.Int, ok bool) {
	switch op {
	case "ADD_CHK":
		r := new(big.Int).Add(a, b)
		return r, r.Cmp(u256Max) <= 0
	case "SUB_CHK":
		if a.Cmp(b) < 0 {
			return new(big.Int), false
		}
		return new(big.Int).Sub(a, b), true
	case "MUL_CHK":
		r := new(big.Int).Mul(a, b)
		return r, r.Cmp(u256Max) <= 0
	case "DIV_CHK":
		if b.Sign() == 0 {
			return new(big.Int), false
		}
		return new(big.Int).Div(a, b), true
	default:
		return new(big.Int), false
	}
}
