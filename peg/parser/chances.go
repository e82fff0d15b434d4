package parser

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/npillmayer/peggo"
	"github.com/npillmayer/peggo/peg/scanner"
)

// === Chances and per-parse state ===========================================

// A chance is a saved backtracking point: "if the current attempt fails,
// rewind the scanner to tokenInx and resume at node with headInx". Chances
// are pushed at the only two points where the engine has a choice: entering
// a choice alternative with untried siblings, and completing an iteration of
// a plus-mode sequence. They are popped LIFO, which yields chronological
// backtracking.
type chance struct {
	node     node // a choice node, or a plus-mode sequence
	headInx  int
	tokenInx int
}

// store bundles the per-parse resources: the token cursor, the chance stack,
// the current version epoch and the diagnostic trackers. Probes run on their
// own store (with an empty cursor), sharing only the parser's version counter
// and the call budget of the enclosing parse.
type store struct {
	p       *Parser
	cur     *scanner.Cursor
	chances *arraystack.Stack
	version uint64
	calls   *int // shared call budget: visiter entries + visit-next calls

	// main-parse trackers, unused by probes
	cursorPrevToken peggo.Token
	cursorPrevNodes []*termNode
	best            *progress
}

// progress remembers the non-loose terminal match that left the fewest
// remaining tokens; on failure it anchors the error diagnostic.
type progress struct {
	node  *termNode
	token peggo.Token
	rest  int
}

func (p *Parser) newStore(cur *scanner.Cursor, calls *int) *store {
	return &store{
		p:       p,
		cur:     cur,
		chances: arraystack.New(),
		version: p.newVersion(),
		calls:   calls,
	}
}

func (s *store) pushChance(n node, headInx int) {
	s.chances.Push(chance{node: n, headInx: headInx, tokenInx: s.cur.Index()})
}

// popChance restores scanner and node state from the most recent chance.
// It returns false when no chances are left.
func (s *store) popChance() (node, bool) {
	v, ok := s.chances.Pop()
	if !ok {
		return nil, false
	}
	ch := v.(chance)
	s.cur.SetIndex(ch.tokenInx)
	switch n := ch.node.(type) {
	case *choiceNode:
		n.headInx = ch.headInx
	case *seqNode:
		n.headInx = ch.headInx
	}
	stampSpine(ch.node, s.version)
	return ch.node, true
}
