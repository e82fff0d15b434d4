package peg

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/hashset"
)

// === FIRST-set analysis ====================================================

// For every named rule, the engine computes the set of terminals that can
// appear as the first consumed token of any successful derivation. The parser
// uses a resolved FIRST set to prune a rule before descending into it.
//
// Resolution is demand-driven and monotonic: candidates are collected when a
// rule is first expanded, name placeholders are replaced by already-resolved
// sets, and once a set contains only terminals it is published and never
// recomputed. A rule blocked by a reference cycle, or whose first position
// holds a loose sentinel, simply stays unresolved; the parser will not prune
// against it.

// TermEntry is one entry of a FIRST set: a terminal descriptor together with
// its matcher, so the parser can probe it against the input at no cost.
type TermEntry struct {
	Matching Matching
	Match    MatchFn
}

// firstCandidate is either a terminal entry or an unresolved rule name.
type firstCandidate struct {
	name  string
	entry *TermEntry
}

// FirstAnalysis computes and caches FIRST sets for the rules of a grammar.
type FirstAnalysis struct {
	g        *Grammar
	resolved map[string][]TermEntry     // published FIRST sets
	pending  map[string]*arraylist.List // candidate lists, possibly with name placeholders
	blocked  map[string]bool            // rules whose FIRST contains a loose sentinel
	relates  map[string]*hashset.Set    // rule name → names of rules waiting on it
}

// Analysis creates a FIRST-set analysis for a grammar. Sets are computed
// lazily, per rule, on the first call to Ensure for that rule.
func Analysis(g *Grammar) *FirstAnalysis {
	return &FirstAnalysis{
		g:        g,
		resolved: make(map[string][]TermEntry),
		pending:  make(map[string]*arraylist.List),
		blocked:  make(map[string]bool),
		relates:  make(map[string]*hashset.Set),
	}
}

// Grammar returns the grammar under analysis.
func (fa *FirstAnalysis) Grammar() *Grammar {
	return fa.g
}

// First returns the published FIRST set for a rule. The second return value
// is false as long as resolution is incomplete, in which case the parser must
// not prune against the rule.
func (fa *FirstAnalysis) First(name string) ([]TermEntry, bool) {
	set, ok := fa.resolved[name]
	return set, ok
}

// Ensure collects and resolves the FIRST set for a rule, if that has not
// happened yet. Referenced rules are ensured recursively.
func (fa *FirstAnalysis) Ensure(name string) {
	if _, ok := fa.resolved[name]; ok {
		return
	}
	if _, ok := fa.pending[name]; ok {
		return
	}
	if fa.blocked[name] {
		return
	}
	rule := fa.g.Rule(name)
	if rule == nil {
		return
	}
	cands := arraylist.New()
	fa.pending[name] = cands // registered before walking, so cycles terminate
	fa.collect(name, rule.Elements[0], cands)
	tracer().Debugf("FIRST candidates of %q: %d entries", name, cands.Size())
	fa.resolve(name)
}

// collect gathers FIRST candidates from the element at a rule's first
// position: a choice contributes the union of its alternatives, a terminal
// contributes itself, a rule reference contributes a name placeholder plus an
// inverse relates-edge for later propagation.
func (fa *FirstAnalysis) collect(owner string, e Element, cands *arraylist.List) {
	switch e.Kind {
	case ElemLiteral, ElemMatcher:
		m, fn := e.Terminal()
		cands.Add(firstCandidate{entry: &TermEntry{Matching: m, Match: fn}})
	case ElemLoose:
		// a loose sentinel contributes no usable FIRST entry; pruning must
		// stay disabled for the whole rule
		fa.blocked[owner] = true
	case ElemChoice:
		for _, alt := range e.Alts {
			fa.collect(owner, alt, cands)
		}
	case ElemRef:
		cands.Add(firstCandidate{name: e.Ref})
		deps, ok := fa.relates[e.Ref]
		if !ok {
			deps = hashset.New()
			fa.relates[e.Ref] = deps
		}
		deps.Add(owner)
		fa.Ensure(e.Ref)
	}
}

// resolve publishes a rule's FIRST set once every candidate is a terminal,
// and then re-resolves every rule waiting on this one.
func (fa *FirstAnalysis) resolve(name string) {
	if _, ok := fa.resolved[name]; ok {
		return
	}
	if fa.blocked[name] {
		return
	}
	cands, ok := fa.pending[name]
	if !ok {
		return
	}
	var set []TermEntry
	seen := make(map[string]bool)
	complete := true
	it := cands.Iterator()
	for it.Next() {
		cand := it.Value().(firstCandidate)
		if cand.entry != nil {
			if key := cand.entry.Matching.Key(); !seen[key] {
				seen[key] = true
				set = append(set, *cand.entry)
			}
			continue
		}
		sub, ok := fa.resolved[cand.name]
		if !ok {
			complete = false
			continue
		}
		for _, entry := range sub {
			if key := entry.Matching.Key(); !seen[key] {
				seen[key] = true
				set = append(set, entry)
			}
		}
	}
	if !complete {
		return // stays pending; a later publish of a referenced rule retries
	}
	delete(fa.pending, name)
	fa.resolved[name] = set
	tracer().Debugf("FIRST(%s) published with %d terminals", name, len(set))
	if deps, ok := fa.relates[name]; ok {
		for _, dep := range deps.Values() {
			fa.resolve(dep.(string))
		}
	}
}
