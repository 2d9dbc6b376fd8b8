package ir

import "testing"

// buildDiamond builds entry -> {left, right} -> join, each edge carrying a
// real terminator, with no Predecessors/Successors bookkeeping populated on
// the blocks themselves — functionCfgBackend must derive predecessors from
// the terminators alone.
func buildDiamond() (entry, left, right, join *BasicBlock, fn *Function) {
	cond := &Value{Name: "cond", Type: &BoolType{}}

	entry = &BasicBlock{Label: "entry"}
	left = &BasicBlock{Label: "left"}
	right = &BasicBlock{Label: "right"}
	join = &BasicBlock{Label: "join"}

	entry.Terminator = &BranchTerminator{
		ID: 1, Block: entry, Condition: cond, TrueBlock: left, FalseBlock: right,
	}
	left.Terminator = &JumpTerminator{ID: 2, Block: left, Target: join}
	right.Terminator = &JumpTerminator{ID: 3, Block: right, Target: join}
	join.Terminator = &ReturnTerminator{ID: 4, Block: join}

	fn = &Function{
		Name:   "diamond",
		Blocks: []*BasicBlock{entry, left, right, join},
		Params: []*Parameter{{Name: "cond", Type: &BoolType{}, Value: cond}},
	}
	return
}

func TestFunctionCfgBackendDerivesPredecessorsFromTerminators(t *testing.T) {
	entry, left, right, join, fn := buildDiamond()
	cfg := newFunctionCfgBackend(fn)

	predsOf := func(l Label) map[Label]bool {
		m := make(map[Label]bool)
		for _, p := range cfg.Pred(l) {
			m[p] = true
		}
		return m
	}

	if !predsOf(left)[entry] {
		t.Errorf("expected entry to be a predecessor of left")
	}
	if !predsOf(right)[entry] {
		t.Errorf("expected entry to be a predecessor of right")
	}
	joinPreds := predsOf(join)
	if !joinPreds[left] || !joinPreds[right] {
		t.Errorf("expected join's predecessors to be {left, right}, got %v", cfg.Pred(join))
	}
	if len(cfg.Pred(entry)) != 0 {
		t.Errorf("entry should have no predecessors, got %v", cfg.Pred(entry))
	}
}

func TestFunctionCfgBackendStartLabelAndParams(t *testing.T) {
	entry, _, _, _, fn := buildDiamond()
	cfg := newFunctionCfgBackend(fn)

	if cfg.StartLabel() != entry {
		t.Errorf("StartLabel() = %v, want entry", cfg.StartLabel())
	}
	params := cfg.Params()
	if len(params) != 1 || params[0].Name != "cond" {
		t.Errorf("Params() = %v, want [cond]", params)
	}
}

func TestFunctionCfgBackendRemoveUnreachableCode(t *testing.T) {
	entry, left, right, join, fn := buildDiamond()
	cfg := newFunctionCfgBackend(fn)

	reachable := map[Label]bool{entry: true, left: true, join: true}
	cfg.RemoveUnreachableCode(reachable)

	if len(fn.Blocks) != 3 {
		t.Fatalf("expected 3 surviving blocks, got %d", len(fn.Blocks))
	}
	for _, b := range fn.Blocks {
		if b == right {
			t.Errorf("right should have been pruned as unreachable")
		}
	}
}

func TestFunctionCfgBackendBlockNilLabel(t *testing.T) {
	_, _, _, _, fn := buildDiamond()
	cfg := newFunctionCfgBackend(fn)

	instructions, term, ok := cfg.Block(nil)
	if ok || instructions != nil || term != nil {
		t.Errorf("Block(nil) should report not-ok with no instructions or terminator")
	}
}

func TestIrCodeBackendPhiAdapters(t *testing.T) {
	pred1 := &BasicBlock{Label: "pred1"}
	pred2 := &BasicBlock{Label: "pred2"}
	v1 := &Value{Name: "a"}
	v2 := &Value{Name: "b"}
	dst := &Value{Name: "joined"}

	phi := &PhiInstruction{
		ID:     1,
		Result: dst,
		Inputs: map[*BasicBlock]*Value{pred1: v1, pred2: v2},
	}

	code := irCodeBackend{}
	if !code.IsPhi(phi) {
		t.Errorf("expected PhiInstruction to be recognized as a phi")
	}
	if code.PhiDst(phi) != dst {
		t.Errorf("PhiDst() = %v, want %v", code.PhiDst(phi), dst)
	}

	args := code.PhiArgList(phi)
	if len(args) != 2 {
		t.Fatalf("expected 2 phi args, got %d", len(args))
	}
	seen := make(map[*Value]Label)
	for _, a := range args {
		seen[a.Var] = a.Pred
	}
	if seen[v1] != pred1 || seen[v2] != pred2 {
		t.Errorf("PhiArgList() = %v, want {%v:%v, %v:%v}", args, v1, pred1, v2, pred2)
	}

	bin := &BinaryInstruction{ID: 2, Result: dst, Op: "+", Left: v1, Right: v2}
	if code.IsPhi(bin) {
		t.Errorf("BinaryInstruction must not be recognized as a phi")
	}
}

func TestPutPhisFirstReordersPhisToHead(t *testing.T) {
	code := irCodeBackend{}

	nonPhi := &BinaryInstruction{ID: 1, Result: &Value{Name: "x"}, Op: "+"}
	phi := &PhiInstruction{ID: 2, Result: &Value{Name: "y"}}
	nonPhi2 := &BinaryInstruction{ID: 3, Result: &Value{Name: "z"}, Op: "-"}

	out := putPhisFirst([]Instruction{nonPhi, phi, nonPhi2}, code)

	if len(out) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(out))
	}
	if out[0] != Instruction(phi) {
		t.Errorf("expected the phi to be moved to the front, got %v first", out[0])
	}
	if out[1] == Instruction(phi) || out[2] == Instruction(phi) {
		t.Errorf("expected exactly one phi at the front")
	}
}
