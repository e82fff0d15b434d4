package parser

import (
	"fmt"

	"github.com/npillmayer/peggo/peg"
)

// === The grammar graph =====================================================

// The parser operates on a graph of typed nodes, expanded on demand from the
// grammar's rules. Four variants exist: a sequence requires all children in
// order, a choice exactly one (tried in order), a terminal consumes (or
// declines) one token, and a rule reference is an unexpanded placeholder
// which, on first visit, is replaced in its parent's child list by a fresh
// expansion of the named rule. Expansions persist for the lifetime of the
// parser and are shared by all subsequent parses.
//
// Every non-root node carries a back-reference into its parent's child list,
// so the engine can ascend after a match. The invariant is
// parent.children[parentInx] == self.

type node interface {
	Parent() node
	ParentInx() int
	setParent(p node, inx int)
}

// nodebase holds the parent back-reference shared by all variants.
type nodebase struct {
	parent    node
	parentInx int
}

func (b *nodebase) Parent() node   { return b.parent }
func (b *nodebase) ParentInx() int { return b.parentInx }

func (b *nodebase) setParent(p node, inx int) {
	b.parent = p
	b.parentInx = inx
}

// --- Sequence --------------------------------------------------------------

// seqNode requires all of its children to match in order. A sequence created
// from a named rule carries the rule's name and reducer; one created for a
// repeating reference runs in plus mode.
type seqNode struct {
	nodebase
	children    []node
	headInx     int           // next child to visit
	astResults  []interface{} // per-child reduced values
	solve       peg.Reducer
	ruleName    string // set when this sequence is a named rule
	version     uint64
	plusMode    bool // repeat one-or-more times
	plusHeadInx int  // repetition counter, indexes AST rows in plus mode
}

// reset clears per-attempt state; called lazily when the node is entered
// with a stale version stamp.
func (n *seqNode) reset(version uint64) {
	n.headInx = 0
	n.plusHeadInx = 0
	n.astResults = nil
	n.version = version
}

// setAST stores a child's reduced value. In plus mode results are laid out
// row-wise, one row per repetition.
func (n *seqNode) setAST(childInx int, v interface{}) {
	flat := n.plusHeadInx*len(n.children) + childInx
	for len(n.astResults) <= flat {
		n.astResults = append(n.astResults, nil)
	}
	n.astResults[flat] = v
}

// solveAST reduces the collected child values. A plus-mode sequence presents
// them as a list of per-repetition rows, each row indexed by child position.
func (n *seqNode) solveAST() interface{} {
	if n.plusMode {
		width := len(n.children)
		var rows []interface{}
		for r := 0; r*width < len(n.astResults); r++ {
			row := make([]interface{}, width)
			copy(row, n.astResults[r*width:])
			rows = append(rows, row)
		}
		return n.solve(rows)
	}
	results := make([]interface{}, len(n.children))
	copy(results, n.astResults)
	return n.solve(results)
}

func (n *seqNode) String() string {
	if n.ruleName != "" {
		return fmt.Sprintf("seq(%s)[%d/%d]", n.ruleName, n.headInx, len(n.children))
	}
	return fmt.Sprintf("seq[%d/%d]", n.headInx, len(n.children))
}

// --- Choice ----------------------------------------------------------------

// choiceNode holds ordered alternatives; exactly one must match.
type choiceNode struct {
	nodebase
	children []node
	headInx  int // next alternative to try
	version  uint64
}

func (n *choiceNode) reset(version uint64) {
	n.headInx = 0
	n.version = version
}

func (n *choiceNode) String() string {
	return fmt.Sprintf("choice[%d/%d]", n.headInx, len(n.children))
}

// --- Terminal --------------------------------------------------------------

// termNode wraps a terminal matcher plus its matching descriptor.
type termNode struct {
	nodebase
	matching peg.Matching
	match    peg.MatchFn
}

func (n *termNode) String() string {
	return n.matching.String()
}

// --- Rule reference --------------------------------------------------------

// refNode is an unexpanded reference to a named rule.
type refNode struct {
	nodebase
	ruleName string
	plus     bool
}

func (n *refNode) String() string {
	if n.plus {
		return fmt.Sprintf("ref(%s+)", n.ruleName)
	}
	return fmt.Sprintf("ref(%s)", n.ruleName)
}

// === Expansion =============================================================

// expandRule creates a fresh sequence node for a named rule. Called for the
// root rule on the parser's first parse, and for every rule reference on its
// first visit. The rule's FIRST set computation is kicked off alongside.
func (p *Parser) expandRule(name string) (*seqNode, error) {
	rule := p.grammar.Rule(name)
	if rule == nil {
		return nil, fmt.Errorf("grammar %q has no rule %q", p.grammar.Name, name)
	}
	seq := &seqNode{ruleName: name, solve: rule.Solve}
	seq.children = make([]node, len(rule.Elements))
	for i, e := range rule.Elements {
		child, err := buildElement(e)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %v", name, err)
		}
		child.setParent(seq, i)
		seq.children[i] = child
	}
	p.first.Ensure(name)
	return seq, nil
}

// buildElement turns one rule element into a graph node.
func buildElement(e peg.Element) (node, error) {
	if e.IsTerminal() {
		m, fn := e.Terminal()
		return &termNode{matching: m, match: fn}, nil
	}
	switch e.Kind {
	case peg.ElemChoice:
		ch := &choiceNode{}
		ch.children = make([]node, len(e.Alts))
		for i, alt := range e.Alts {
			child, err := buildElement(alt)
			if err != nil {
				return nil, err
			}
			child.setParent(ch, i)
			ch.children[i] = child
		}
		return ch, nil
	case peg.ElemRef:
		return &refNode{ruleName: e.Ref, plus: e.Plus}, nil
	}
	return nil, fmt.Errorf("element of unrecognized shape: %v", e)
}

// replaceChild splices a fresh expansion into a parent's child list, at the
// position the rule reference occupied.
func replaceChild(parent node, inx int, child node) {
	switch p := parent.(type) {
	case *seqNode:
		p.children[inx] = child
	case *choiceNode:
		p.children[inx] = child
	default:
		panic(fmt.Sprintf("cannot replace child of %T", parent))
	}
	child.setParent(parent, inx)
}

// stampSpine stamps a node and all of its ancestors with a version, keeping
// their state alive across the lazy-reset protocol.
func stampSpine(n node, version uint64) {
	for ; n != nil; n = n.Parent() {
		switch x := n.(type) {
		case *seqNode:
			x.version = version
		case *choiceNode:
			x.version = version
		}
	}
}
