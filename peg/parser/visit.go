package parser

import (
	"github.com/npillmayer/peggo/peg"
)

// === The visiter ===========================================================

// The engine is a depth-first traversal with ordered choice. visit descends
// into a node, visitNext ascends after a child has matched. Backtracking is
// driven by tryChances: bump the version epoch, pop the most recent chance,
// restore scanner and node state, and re-enter the graph there. Sequence and
// choice nodes reset themselves lazily when entered with a stale version, so
// only the spine a new attempt actually traverses pays for reset.

// visitOpts configures one traversal. The main parse and the next-match
// probes share the same engine and differ only in these hooks.
type visitOpts struct {
	firstSet  bool // prune named rules against resolved FIRST sets
	buildAST  bool // collect reduced values and call reducers
	onMatch   func(n *termNode, s *store, o *visitOpts)
	onSuccess func(s *store, ast interface{})
	onFail    func(s *store)
}

// budgetExceeded is the panic payload of the call-budget guard; recovered at
// the public entry points.
type budgetExceeded struct{ calls int }

// tick counts visiter entries and visit-next calls against the call budget,
// the only watchdog against runaway grammars (e.g. unrewritten direct left
// recursion).
func (s *store) tick() {
	*s.calls++
	if *s.calls > s.p.maxCalls {
		panic(budgetExceeded{calls: *s.calls})
	}
}

// visit descends into a node, dispatched on the node variant.
func (s *store) visit(n node, o *visitOpts) {
	s.tick()
	switch node := n.(type) {
	case *seqNode:
		if node.version != s.version {
			node.reset(s.version)
		}
		if node.ruleName != "" && node.headInx == 0 && o.firstSet {
			if set, ok := s.p.first.First(node.ruleName); ok && !s.anyFirstMatch(set) {
				tracer().Debugf("FIRST(%s) prunes at token %d", node.ruleName, s.cur.Index())
				node.headInx = len(node.children) // exhausted without trying
				s.tryChances(o)
				return
			}
		}
		if node.headInx < len(node.children) {
			child := node.children[node.headInx]
			node.headInx++
			s.visit(child, o)
			return
		}
		var ast interface{}
		if o.buildAST {
			ast = node.solveAST()
		}
		s.visitNext(node, o, ast)
	case *choiceNode:
		if node.version != s.version {
			node.reset(s.version)
		}
		if node.headInx >= len(node.children) {
			s.tryChances(o)
			return
		}
		if node.headInx < len(node.children)-1 {
			s.pushChance(node, node.headInx+1)
		}
		child := node.children[node.headInx]
		node.headInx++
		s.visit(child, o)
	case *termNode:
		o.onMatch(node, s, o)
	case *refNode:
		seq, err := s.p.expandRule(node.ruleName)
		if err != nil {
			panic(err) // unrecognized rule shape; recovered at the entry point
		}
		seq.plusMode = node.plus
		seq.version = s.version
		replaceChild(node.Parent(), node.ParentInx(), seq)
		s.visit(seq, o)
	}
}

// visitNext ascends after node has matched, carrying the node's reduced
// value. At the root, a match only counts as an accept when the scanner is
// at its end; a prefix match backtracks instead.
func (s *store) visitNext(n node, o *visitOpts, ast interface{}) {
	s.tick()
	parent := n.Parent()
	if parent == nil {
		if s.cur.IsEnd() {
			o.onSuccess(s, ast)
		} else {
			s.tryChances(o)
		}
		return
	}
	switch par := parent.(type) {
	case *seqNode:
		if o.buildAST {
			par.setAST(n.ParentInx(), ast)
		}
		par.headInx = n.ParentInx() + 1
		par.version = s.version // keep the realigned state safe from lazy reset
		if par.plusMode && par.headInx == len(par.children) {
			s.pushChance(par, 0)
			par.plusHeadInx++
		}
		s.visit(par, o)
	case *choiceNode:
		s.visitNext(par, o, ast) // the choice as a whole has succeeded
	}
}

// tryChances resumes the most recently opened alternative, or reports
// overall failure when none are left.
func (s *store) tryChances(o *visitOpts) {
	s.version = s.p.newVersion()
	n, ok := s.popChance()
	if !ok {
		o.onFail(s)
		return
	}
	s.visit(n, o)
}

// anyFirstMatch probes a resolved FIRST set against the scanner in no-cost
// mode. If no entry matches, the rule cannot start here.
func (s *store) anyFirstMatch(set []peg.TermEntry) bool {
	for _, entry := range set {
		if _, ok := entry.Match(s.cur, false); ok {
			return true
		}
	}
	return false
}

// matchTerm is the main parse's terminal handler: run the matcher in
// consuming mode, track best progress and cursor-prev candidates, and hand
// the matched token up as the terminal's reduced value.
func matchTerm(n *termNode, s *store, o *visitOpts) {
	tok, ok := n.match(s.cur, true)
	if !ok {
		s.tryChances(o)
		return
	}
	if n.matching.Kind != peg.MatchLoose {
		rest := s.cur.RestCount()
		if s.best == nil || rest < s.best.rest {
			s.best = &progress{node: n, token: tok, rest: rest}
		}
		if s.cursorPrevToken != nil && tok != nil && sameToken(tok, s.cursorPrevToken) {
			s.cursorPrevNodes = append(s.cursorPrevNodes, n)
		}
	}
	var ast interface{}
	if tok != nil {
		ast = tok
	}
	s.visitNext(n, o, ast)
}
