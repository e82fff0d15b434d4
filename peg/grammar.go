/*
Package peg holds the grammar model for the peggo parse engine.

A grammar is a collection of named rules. Each rule body is an ordered list
of elements; an element is a literal, a loose sentinel, a named terminal
matcher, an ordered choice of elements, or a (possibly repeating) reference
to another rule. Grammars are assembled with a GrammarBuilder and consumed
by package peg/parser, which expands rules into a node graph on demand.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package peg

import (
	"fmt"

	"github.com/cnf/structhash"
	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/peggo"
	"github.com/npillmayer/peggo/peg/scanner"
)

// tracer traces with key 'peggo.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("peggo.grammar")
}

// --- Matchings and matchers ------------------------------------------------

// MatchKind classifies what a terminal stands for.
type MatchKind int8

// Terminal kinds. A literal matches a fixed token text. A loose terminal is a
// zero-cost sentinel which always succeeds or always fails without consuming
// a token. A special terminal delegates to a user-named matcher.
const (
	MatchLiteral MatchKind = iota
	MatchLoose
	MatchSpecial
)

func (k MatchKind) String() string {
	switch k {
	case MatchLiteral:
		return "literal"
	case MatchLoose:
		return "loose"
	case MatchSpecial:
		return "special"
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Matching describes a terminal for the outside world: suggestions, error
// diagnostics and next-match enumeration all speak in matchings.
// Value is a string for literal and special kinds, a bool for loose ones.
type Matching struct {
	Kind  MatchKind
	Value interface{}
}

func (m Matching) String() string {
	return fmt.Sprintf("%s[%v]", m.Kind, m.Value)
}

// Key returns a hash usable for de-duplicating matchings by (kind, value).
func (m Matching) Key() string {
	h, err := structhash.Hash(m, 1)
	if err != nil {
		panic(err) // no reason for this to happen, but API demands it
	}
	return h
}

// MatchFn is the contract for terminal matchers. With cost=true a successful
// match advances the cursor; with cost=false it only peeks. The returned token
// is absent for loose terminals.
type MatchFn func(cur *scanner.Cursor, cost bool) (peggo.Token, bool)

// Matcher is a user-named terminal matcher, e.g. for an identifier class.
// Name is advertised in suggestions.
type Matcher struct {
	Name  string
	Match MatchFn
}

// LiteralMatch builds a matcher function for a fixed token text.
func LiteralMatch(lit string) MatchFn {
	return func(cur *scanner.Cursor, cost bool) (peggo.Token, bool) {
		tok, ok := cur.Peek()
		if !ok || tok.Lexeme() != lit {
			return nil, false
		}
		if cost {
			cur.Advance()
		}
		return tok, true
	}
}

// LooseMatch builds a sentinel matcher which always reports ok without
// consuming a token.
func LooseMatch(ok bool) MatchFn {
	return func(cur *scanner.Cursor, cost bool) (peggo.Token, bool) {
		return nil, ok
	}
}

// --- Rule elements ---------------------------------------------------------

// ElemKind is the variant tag for rule elements.
type ElemKind int8

// Element variants.
const (
	ElemLiteral ElemKind = iota
	ElemLoose
	ElemMatcher
	ElemChoice
	ElemRef
)

// Element is one entry in a rule body. Exactly the fields for its kind are
// set; clients use the constructor functions below rather than literals.
type Element struct {
	Kind    ElemKind
	Literal string    // for ElemLiteral
	True    bool      // for ElemLoose
	Matcher *Matcher  // for ElemMatcher
	Alts    []Element // for ElemChoice, the ordered alternatives
	Ref     string    // for ElemRef
	Plus    bool      // for ElemRef: repeat one-or-more times
}

// Lit creates a literal element.
func Lit(text string) Element {
	return Element{Kind: ElemLiteral, Literal: text}
}

// Loose creates a zero-cost sentinel element: Loose(true) always matches
// without consuming, Loose(false) never matches.
func Loose(ok bool) Element {
	return Element{Kind: ElemLoose, True: ok}
}

// M creates an element for a user-named terminal matcher.
func M(m *Matcher) Element {
	return Element{Kind: ElemMatcher, Matcher: m}
}

// OneOf creates an ordered choice over the given alternatives.
func OneOf(alts ...Element) Element {
	return Element{Kind: ElemChoice, Alts: alts}
}

// N creates a reference to the named rule.
func N(name string) Element {
	return Element{Kind: ElemRef, Ref: name}
}

// Plus creates a reference to the named rule which repeats one or more times.
func Plus(name string) Element {
	return Element{Kind: ElemRef, Ref: name, Plus: true}
}

// Terminal returns the matching descriptor and matcher function for a
// terminal element, i.e. one of kind literal, loose or matcher.
func (e Element) Terminal() (Matching, MatchFn) {
	switch e.Kind {
	case ElemLiteral:
		return Matching{Kind: MatchLiteral, Value: e.Literal}, LiteralMatch(e.Literal)
	case ElemLoose:
		return Matching{Kind: MatchLoose, Value: e.True}, LooseMatch(e.True)
	case ElemMatcher:
		return Matching{Kind: MatchSpecial, Value: e.Matcher.Name}, e.Matcher.Match
	}
	panic(fmt.Sprintf("element of kind %d is not a terminal", e.Kind))
}

// IsTerminal returns true for literal, loose and matcher elements.
func (e Element) IsTerminal() bool {
	return e.Kind == ElemLiteral || e.Kind == ElemLoose || e.Kind == ElemMatcher
}

func (e Element) String() string {
	switch e.Kind {
	case ElemLiteral:
		return fmt.Sprintf("%q", e.Literal)
	case ElemLoose:
		return fmt.Sprintf("loose(%v)", e.True)
	case ElemMatcher:
		return fmt.Sprintf("<%s>", e.Matcher.Name)
	case ElemChoice:
		s := "("
		for i, a := range e.Alts {
			if i > 0 {
				s += " | "
			}
			s += a.String()
		}
		return s + ")"
	case ElemRef:
		if e.Plus {
			return fmt.Sprintf("[%s]+", e.Ref)
		}
		return fmt.Sprintf("[%s]", e.Ref)
	}
	return "<malformed element>"
}

// --- Rules and grammars ----------------------------------------------------

// Reducer is called once per successful completion of a rule instance in the
// chosen derivation, receiving the reduced values of the rule's elements in
// order. The default reducer is the identity.
type Reducer func(asts []interface{}) interface{}

// IdentityReducer returns its argument list unchanged.
func IdentityReducer(asts []interface{}) interface{} {
	return asts
}

// Rule is a named rule with its body and reducer.
type Rule struct {
	Name     string
	Elements []Element
	Solve    Reducer
}

// Grammar is an immutable collection of named rules, created by a
// GrammarBuilder.
type Grammar struct {
	Name  string
	rules map[string]*Rule
}

// Rule returns the named rule, or nil.
func (g *Grammar) Rule(name string) *Rule {
	return g.rules[name]
}

// EachRule calls f for every rule of the grammar (in no particular order).
func (g *Grammar) EachRule(f func(*Rule)) {
	for _, r := range g.rules {
		f(r)
	}
}

// Dump is a debugging helper, listing all rules of the grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("Grammar %q:", g.Name)
	for _, r := range g.rules {
		body := ""
		for i, e := range r.Elements {
			if i > 0 {
				body += " "
			}
			body += e.String()
		}
		tracer().Debugf("%s ::= %s", r.Name, body)
	}
}
