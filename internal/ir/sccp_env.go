package ir

import "fmt"

// sccpEnv is the single mutable state threaded through the SCCP fixpoint
// (spec.md §3's "Environment"): the executable-edge set, the handled-block
// set, the variable→lattice map, and the precomputed SSA def-use index. It
// is owned exclusively by the engine in sccp.go and read by the rewriter
// in sccp_rewrite.go.
type sccpEnv struct {
	cfg  CfgBackend
	code CodeBackend

	executable map[FlowEdge]bool
	handled    map[Label]bool
	values     map[*Value]Lattice
	ssaEdges   map[*Value][]ssaEdge
}

// ssaEdge names a use-site: the block and instruction where a variable is
// read.
type ssaEdge struct {
	Block Label
	Inst  Instruction
}

// newSccpEnv builds the Environment for a single propagate() call: function
// parameters seed Bottom (unknown from the caller), everything else is
// absent (semantically Top), and the SSA-edge index is computed once up
// front from every instruction's (and terminator's) operands.
func newSccpEnv(cfg CfgBackend, code CodeBackend) *sccpEnv {
	env := &sccpEnv{
		cfg:        cfg,
		code:       code,
		executable: make(map[FlowEdge]bool),
		handled:    make(map[Label]bool),
		values:     make(map[*Value]Lattice),
		ssaEdges:   make(map[*Value][]ssaEdge),
	}

	for _, p := range cfg.Params() {
		env.values[p] = Bottom
	}

	for _, label := range cfg.Labels() {
		instructions, term, ok := cfg.Block(label)
		if !ok {
			continue
		}
		for _, inst := range instructions {
			env.indexUses(label, inst)
		}
		if term != nil {
			env.indexUses(label, term)
		}
	}

	return env
}

func (e *sccpEnv) indexUses(block Label, inst Instruction) {
	for _, v := range e.code.Uses(inst) {
		if v == nil {
			continue
		}
		e.ssaEdges[v] = append(e.ssaEdges[v], ssaEdge{Block: block, Inst: inst})
	}
}

func (e *sccpEnv) markExecutable(edge FlowEdge) { e.executable[edge] = true }
func (e *sccpEnv) isExecutable(edge FlowEdge) bool { return e.executable[edge] }

func (e *sccpEnv) markHandled(l Label)    { e.handled[l] = true }
func (e *sccpEnv) isHandled(l Label) bool { return e.handled[l] }

// reachable reports whether any predecessor edge into block has been
// proven executable. The entry block is reachable via its own executable
// self-edge seed (spec.md I4).
func (e *sccpEnv) reachable(block Label) bool {
	if e.isExecutable(FlowEdge{Src: block, Dst: block}) {
		return true
	}
	for _, pred := range e.cfg.Pred(block) {
		if e.isExecutable(FlowEdge{Src: pred, Dst: block}) {
			return true
		}
	}
	return false
}

// lookup returns a variable's current lattice value; a variable absent
// from values is semantically Top (spec.md's "missing key = Top").
func (e *sccpEnv) lookup(v *Value) Lattice {
	if v == nil {
		return Top
	}
	if l, ok := e.values[v]; ok {
		return l
	}
	return Top
}

// update moves one or more destinations to v, returning the SSA worklist
// items that change wakes up. The engine never calls update with a value
// strictly above what is already stored (invariant I1); updateOne panics
// on such a move in every build rather than silently accepting it.
func (e *sccpEnv) update(vars []*Value, v Lattice) []ssaEdge {
	var work []ssaEdge
	for _, dest := range vars {
		if dest == nil {
			continue
		}
		work = append(work, e.updateOne(dest, v)...)
	}
	return work
}

func (e *sccpEnv) updateOne(v *Value, newVal Lattice) []ssaEdge {
	old, present := e.values[v]
	if !present {
		e.values[v] = newVal
		return e.ssaEdges[v]
	}
	if above(newVal, old) {
		panic(fmt.Sprintf("kanso ir: sccp: lattice monotonicity violated for %q: %s -> %s", v.Name, old, newVal))
	}
	if latticeEqual(old, newVal) {
		return nil
	}
	e.values[v] = newVal
	return e.ssaEdges[v]
}

func (e *sccpEnv) lookupSSAEdges(v *Value) []ssaEdge {
	if v == nil {
		return nil
	}
	return e.ssaEdges[v]
}
