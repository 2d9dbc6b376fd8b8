package ir

// rewriteCFG implements spec.md §4.5: concretize every reachable block's
// code under the final lattice, move any phi instructions back to the
// block head, store the new code, then ask the CfgBackend to prune
// whatever is left unreachable.
func rewriteCFG(env *sccpEnv, cfg CfgBackend, code CodeBackend) {
	labels := cfg.Labels()

	reachableSet := make(map[Label]bool, len(labels))
	for _, label := range labels {
		if env.reachable(label) {
			reachableSet[label] = true
		}
	}

	for _, label := range labels {
		if !reachableSet[label] {
			continue
		}
		instructions, term, ok := cfg.Block(label)
		if !ok {
			continue
		}

		rewritten := make([]Instruction, 0, len(instructions))
		for _, inst := range instructions {
			rewritten = append(rewritten, code.Rewrite(inst, env.lookup)...)
		}
		rewritten = putPhisFirst(rewritten, code)

		newTerm := term
		if term != nil {
			if out := code.Rewrite(term, env.lookup); len(out) == 1 {
				if t, ok := out[0].(Terminator); ok {
					newTerm = t
				}
			}
		}

		cfg.ReplaceCode(label, rewritten, newTerm)
	}

	cfg.RemoveUnreachableCode(reachableSet)
}

// putPhisFirst reorders a block's instructions so every phi precedes every
// non-phi — a defensive measure since Rewrite is, in principle, free to
// emit phis anywhere (spec.md §9's open question on this, resolved "yes").
func putPhisFirst(instructions []Instruction, code CodeBackend) []Instruction {
	phis := make([]Instruction, 0, len(instructions))
	rest := make([]Instruction, 0, len(instructions))
	for _, inst := range instructions {
		if code.IsPhi(inst) {
			phis = append(phis, inst)
		} else {
			rest = append(rest, inst)
		}
	}
	return append(phis, rest...)
}
