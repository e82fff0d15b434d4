package parser

import (
	"github.com/npillmayer/peggo"
	"github.com/npillmayer/peggo/peg"
	"github.com/npillmayer/peggo/peg/scanner"
)

// === Next-match probes =====================================================

// The next-match probe re-uses the visiter to answer: given a node of the
// graph, which terminals could the grammar offer next? It runs on a fresh
// store with an empty cursor, reductions and FIRST-set pruning disabled, and
// a terminal handler that never consumes: every terminal reached is recorded
// and then treated as a failed match, so backtracking walks on to every
// alternative the grammar holds at that position. loose(true) sentinels are
// stepped over, loose(false) ones abandoned; neither is ever offered.

// probeFrom enumerates the terminals that may follow a node. Probing from
// the root (no parent) enumerates the terminals the grammar can start with.
func (p *Parser) probeFrom(n node, calls *int) []*termNode {
	s := p.newStore(scanner.NewCursor(nil), calls)
	var found []*termNode
	o := &visitOpts{}
	o.onMatch = func(t *termNode, s *store, o *visitOpts) {
		if t.matching.Kind == peg.MatchLoose {
			if ok, _ := t.matching.Value.(bool); ok {
				s.visitNext(t, o, nil)
			} else {
				s.tryChances(o)
			}
			return
		}
		found = append(found, t)
		s.tryChances(o) // pretend the match failed, to surface the alternatives
	}
	o.onSuccess = func(s *store, _ interface{}) { s.tryChances(o) }
	o.onFail = func(*store) {}
	if n.Parent() == nil {
		s.visit(n, o)
		return found
	}
	stampSpine(n, s.version)
	s.visitNext(n, o, nil)
	return found
}

// nextMatchings computes the terminals legal at the cursor position. Every
// terminal that consumed the cursor-preceding token during the main visit is
// probed for its successors; with no token before the cursor the root itself
// is probed. If a token sits immediately after the cursor, only candidates
// whose matcher accepts that token survive.
func (p *Parser) nextMatchings(s *store, cursor uint64) []peg.Matching {
	var nodes []*termNode
	if s.cursorPrevToken == nil {
		nodes = p.probeFrom(p.root, s.calls)
	} else {
		visited := make(map[*termNode]bool)
		for _, n := range s.cursorPrevNodes {
			if visited[n] {
				continue
			}
			visited[n] = true
			nodes = append(nodes, p.probeFrom(n, s.calls)...)
		}
	}
	nodes = uniqueNodes(nodes)
	if nextTok, ok := s.cur.NextTokenFromChar(cursor); ok {
		keep := nodes[:0]
		for _, n := range nodes {
			if matchesToken(n, nextTok) {
				keep = append(keep, n)
			}
		}
		nodes = keep
	}
	return toMatchings(nodes)
}

// diagnose builds the error value for a failed parse. Suggestions are the
// successors of the best-progress terminal (or the grammar's opening
// terminals when nothing matched). A token following the best-progress one
// is the wrong token; with no such token the input ended too early.
func (p *Parser) diagnose(s *store) *Diag {
	var nodes []*termNode
	if s.best != nil {
		nodes = p.probeFrom(s.best.node, s.calls)
	} else {
		nodes = p.probeFrom(p.root, s.calls)
	}
	d := &Diag{Suggestions: toMatchings(uniqueNodes(nodes))}
	var follow peggo.Token
	var has bool
	if s.best != nil {
		follow, has = s.cur.NextAfter(s.best.token)
	} else if toks := s.cur.Tokens(); len(toks) > 0 {
		follow, has = toks[0], true
	}
	if has {
		d.Token = follow
		d.Reason = ReasonWrong
	} else {
		if s.best != nil {
			d.Token = s.best.token
		}
		d.Reason = ReasonIncomplete
	}
	return d
}

// --- Helpers ---------------------------------------------------------------

// uniqueNodes de-duplicates terminal nodes by their (kind, value) matching,
// preserving first-seen order.
func uniqueNodes(nodes []*termNode) []*termNode {
	seen := make(map[string]bool)
	out := nodes[:0]
	for _, n := range nodes {
		key := n.matching.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

func toMatchings(nodes []*termNode) []peg.Matching {
	matchings := make([]peg.Matching, len(nodes))
	for i, n := range nodes {
		matchings[i] = n.matching
	}
	return matchings
}

// matchesToken runs a terminal's matcher against a single token, at no cost.
func matchesToken(n *termNode, tok peggo.Token) bool {
	c := scanner.NewCursor([]peggo.Token{tok})
	_, ok := n.match(c, false)
	return ok
}

func sameToken(a, b peggo.Token) bool {
	return a.Span() == b.Span() && a.Lexeme() == b.Lexeme()
}
