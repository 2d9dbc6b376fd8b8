package ir

import "fmt"

// This file is the SCCP fixpoint engine ("scc" in spec.md §4.4): the two
// interleaved worklists, the phi evaluator that ignores not-yet-executable
// predecessors, and the ordinary-instruction visit step. It is strictly
// single-threaded and sequential — it rewrites the given *Function in
// place and runs to completion before returning (spec.md §5).

// PropagationResult summarizes what one Propagate call accomplished, for
// callers (the optimization pipeline, tests) that want to know whether
// anything changed without diffing the function themselves.
type PropagationResult struct {
	ConstantsFound    int
	BlocksUnreachable int
	Changed           bool
}

// Propagate runs Sparse Conditional Constant Propagation over fn in place:
// it folds constant values and prunes control-flow edges and blocks proven
// statically unreachable.
func Propagate(fn *Function) *PropagationResult {
	result := &PropagationResult{}
	if fn == nil || len(fn.Blocks) == 0 {
		return result
	}

	cfg := newFunctionCfgBackend(fn)
	code := irCodeBackend{}
	env := newSccpEnv(cfg, code)

	entry := cfg.StartLabel()
	flowWork := []FlowEdge{{Src: entry, Dst: entry}}
	var ssaWork []ssaEdge

	// FlowWork is drained before SSAWork on each iteration; the two
	// orderings converge to the same fixpoint (spec.md §4.4), this one is
	// just the one implemented and documented here (spec.md §9).
	for len(flowWork) > 0 || len(ssaWork) > 0 {
		if len(flowWork) > 0 {
			edge := flowWork[0]
			flowWork = flowWork[1:]
			newFlow, newSSA := stepFlow(env, cfg, code, edge)
			flowWork = append(flowWork, newFlow...)
			ssaWork = append(ssaWork, newSSA...)
			continue
		}
		edge := ssaWork[0]
		ssaWork = ssaWork[1:]
		newFlow, newSSA := stepSSA(env, code, edge)
		flowWork = append(flowWork, newFlow...)
		ssaWork = append(ssaWork, newSSA...)
	}

	before := len(fn.Blocks)
	seen := make(map[Instruction]bool)
	for _, b := range fn.Blocks {
		for _, inst := range append([]Instruction{b.Terminator}, b.Instructions...) {
			seen[inst] = true
		}
	}
	rewriteCFG(env, cfg, code)
	result.BlocksUnreachable = before - len(fn.Blocks)

	for _, l := range env.values {
		if l.IsConst() {
			result.ConstantsFound++
		}
	}
	result.Changed = result.BlocksUnreachable > 0
	for _, b := range fn.Blocks {
		for _, inst := range append([]Instruction{b.Terminator}, b.Instructions...) {
			if !seen[inst] {
				result.Changed = true
			}
		}
	}

	return result
}

// stepFlow processes one FlowWork item: marking an edge executable,
// unconditionally re-evaluating the destination block's phis, and — the
// first time the block is reached — visiting its non-phi instructions
// (spec.md §4.4 "FlowWork step").
func stepFlow(env *sccpEnv, cfg CfgBackend, code CodeBackend, edge FlowEdge) ([]FlowEdge, []ssaEdge) {
	if env.isExecutable(edge) {
		return nil, nil
	}
	env.markExecutable(edge)

	dst := edge.Dst
	instructions, term, ok := cfg.Block(dst)
	if !ok {
		return nil, nil
	}
	if len(instructions) == 0 && term == nil {
		panicEmptyBlock(dst)
	}

	var ssaWork []ssaEdge
	for _, inst := range instructions {
		if code.IsPhi(inst) {
			ssaWork = append(ssaWork, evalPhi(env, code, dst, inst)...)
		}
	}

	if env.isHandled(dst) {
		return nil, ssaWork
	}
	env.markHandled(dst)

	var flowWork []FlowEdge
	for _, inst := range nonPhiSequence(instructions, term, code) {
		dests, updates := code.Visit(inst, env.lookup)
		for _, d := range dests {
			if d != nil {
				flowWork = append(flowWork, FlowEdge{Src: dst, Dst: d})
			}
		}
		for _, u := range updates {
			ssaWork = append(ssaWork, env.update(u.Vars, u.Value)...)
		}
	}

	return flowWork, ssaWork
}

// stepSSA processes one SSAWork item: re-evaluating a single use-site,
// skipping it entirely if its block has not (yet) been proven reachable
// (spec.md §4.4 "SSAWork step").
func stepSSA(env *sccpEnv, code CodeBackend, edge ssaEdge) ([]FlowEdge, []ssaEdge) {
	if !env.reachable(edge.Block) {
		return nil, nil
	}
	if code.IsPhi(edge.Inst) {
		return nil, evalPhi(env, code, edge.Block, edge.Inst)
	}

	dests, updates := code.Visit(edge.Inst, env.lookup)
	var flowWork []FlowEdge
	for _, d := range dests {
		if d != nil {
			flowWork = append(flowWork, FlowEdge{Src: edge.Block, Dst: d})
		}
	}
	var ssaWork []ssaEdge
	for _, u := range updates {
		ssaWork = append(ssaWork, env.update(u.Vars, u.Value)...)
	}
	return flowWork, ssaWork
}

// evalPhi computes a phi's meet over only those predecessor edges already
// proven executable (spec.md I5 / §4.4 "Phi evaluation"): operands from
// not-yet-executable edges are ignored, not treated as Bottom.
func evalPhi(env *sccpEnv, code CodeBackend, block Label, inst Instruction) []ssaEdge {
	dst := code.PhiDst(inst)
	acc := Top
	for _, arg := range code.PhiArgList(inst) {
		if !env.isExecutable(FlowEdge{Src: arg.Pred, Dst: block}) {
			continue
		}
		acc = meet(acc, env.lookup(arg.Var))
		if acc.IsBottom() {
			break
		}
	}
	return env.update([]*Value{dst}, acc)
}

// nonPhiSequence orders a block's non-phi instructions followed by its
// terminator, which is what actually decides the block's flow destinations
// and is visited as the block's final "instruction" (spec.md §4.4).
func nonPhiSequence(instructions []Instruction, term Terminator, code CodeBackend) []Instruction {
	seq := make([]Instruction, 0, len(instructions)+1)
	for _, inst := range instructions {
		if code.IsPhi(inst) {
			continue
		}
		seq = append(seq, inst)
	}
	if term != nil {
		seq = append(seq, term)
	}
	return seq
}

// panicEmptyBlock implements spec.md §7's fatal "Empty block passed to phi
// scan" condition: a block claimed to exist but with no code at all is a
// backend inconsistency, not a recoverable situation.
func panicEmptyBlock(label Label) {
	name := "<unknown>"
	if label != nil {
		name = label.Label
	}
	panic(fmt.Errorf("kanso ir: sccp: block %q has no instructions and no terminator — inconsistent CfgBackend", name))
}
