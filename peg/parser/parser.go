/*
Package parser implements the peggo parse engine: a backtracking top-down
recognizer which, in one pass over a token stream, decides whether the input
is accepted by a grammar, builds an abstract syntax tree by applying rule
reducers, and reports, for use inside interactive editors, the terminals
that could legally appear at a given cursor position.

A parser is bound to a grammar, a root rule and a lexer:

    g, _ := …                                // a *peg.Grammar
    p := parser.NewParser(g, "expr", scanner.SimpleLexer{})
    result, err := p.ParseAt("a + b", 5)

The engine is single-threaded and strictly synchronous; one parse at a time
per parser. Callers wanting parallelism build independent parsers.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"fmt"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"github.com/npillmayer/peggo"
	"github.com/npillmayer/peggo/peg"
	"github.com/npillmayer/peggo/peg/scanner"
)

// tracer traces with key 'peggo.parser'.
func tracer() tracing.Trace {
	return tracing.Select("peggo.parser")
}

// DefaultMaxCalls bounds visiter entries plus visit-next calls per parse.
// Above it the parse fails with an internal error; this is the only watchdog
// against pathological grammars.
const DefaultMaxCalls = 10_000_000

// Parser binds a grammar, a root rule and a lexer. The node graph for the
// root is expanded on first use and kept, together with the FIRST-set cache,
// across parses; scanner, chance stack and diagnostic trackers are per-parse.
type Parser struct {
	grammar  *peg.Grammar
	first    *peg.FirstAnalysis
	lexer    scanner.Lexer
	rootRule string
	root     *seqNode
	version  uint64
	maxCalls int
	pruning  bool
	buildAST bool
}

// NewParser creates a parser for a root rule of a grammar.
func NewParser(g *peg.Grammar, rootRule string, lexer scanner.Lexer, opts ...Option) *Parser {
	p := &Parser{
		grammar:  g,
		first:    peg.Analysis(g),
		lexer:    lexer,
		rootRule: rootRule,
		maxCalls: DefaultMaxCalls,
		pruning:  true,
		buildAST: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// newVersion returns a fresh version epoch. Versions grow monotonically over
// the parser's lifetime; nodes stamped with an older version reset lazily.
func (p *Parser) newVersion() uint64 {
	p.version++
	return p.version
}

// --- Option handling --------------------------------------------------

// Option configures a parser.
type Option func(p *Parser)

// MaxCalls overrides the call budget, DefaultMaxCalls by default.
func MaxCalls(n int) Option {
	return func(p *Parser) {
		p.maxCalls = n
	}
}

// FirstSetPruning configures whether named rules are pruned against their
// resolved FIRST sets before descending. Defaults to true.
func FirstSetPruning(b bool) Option {
	return func(p *Parser) {
		p.pruning = b
	}
}

// GenerateAST configures whether reducers run during the parse. Defaults to
// true; recognition-only callers may switch it off.
func GenerateAST(b bool) Option {
	return func(p *Parser) {
		p.buildAST = b
	}
}

// --- Results ---------------------------------------------------------------

// Reason classifies a parse mismatch.
type Reason int8

// A wrong token sits where the grammar expected something else; incomplete
// input ended before the grammar was satisfied.
const (
	ReasonWrong Reason = iota
	ReasonIncomplete
)

func (r Reason) String() string {
	if r == ReasonWrong {
		return "wrong"
	}
	return "incomplete"
}

// Diag describes a parse mismatch. It is a result value, not a Go error:
// the engine never recovers mid-parse, it reports the best-progress
// diagnostic instead.
type Diag struct {
	Token       peggo.Token // offending token, absent for empty input
	Reason      Reason
	Suggestions []peg.Matching // terminals that would have recovered the parse
}

// Costs reports elapsed wall-clock time per phase.
type Costs struct {
	Lexer  time.Duration
	Parser time.Duration
}

// Result is the outcome of one parse call.
type Result struct {
	Accepted      bool
	AST           interface{}
	NextMatchings []peg.Matching // terminals legal at the cursor position
	Error         *Diag          // set iff !Accepted
	Tokens        []peggo.Token
	CallCount     int
	Costs         Costs
}

// --- Parsing ---------------------------------------------------------------

// Parse parses the input with the cursor at offset 0.
func (p *Parser) Parse(input string) (*Result, error) {
	return p.ParseAt(input, 0)
}

// ParseAt lexes the input and runs the visiter over the root rule's graph.
// cursor is a character offset into the input; it steers NextMatchings and
// has no influence on acceptance. Grammar-build and budget errors are
// returned as error, a plain mismatch is reported in Result.Error.
func (p *Parser) ParseAt(input string, cursor uint64) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch x := r.(type) {
			case budgetExceeded:
				err = fmt.Errorf("parse aborted: call budget of %d exceeded", p.maxCalls)
			case error:
				err = x
			default:
				panic(r)
			}
			result = nil
		}
	}()
	t0 := time.Now()
	tokens, err := p.lexer.Lex(input)
	if err != nil {
		return nil, err
	}
	lexCost := time.Since(t0)
	t1 := time.Now()
	if p.root == nil {
		root, err := p.expandRule(p.rootRule)
		if err != nil {
			return nil, err
		}
		p.root = root
	}
	calls := 0
	s := p.newStore(scanner.NewCursor(tokens), &calls)
	s.cursorPrevToken, _ = s.cur.PrevTokenFromChar(cursor)
	result = &Result{Tokens: tokens}
	o := &visitOpts{
		firstSet: p.pruning,
		buildAST: p.buildAST,
		onMatch:  matchTerm,
		onSuccess: func(_ *store, ast interface{}) {
			result.Accepted = true
			result.AST = ast
		},
		onFail: func(*store) {},
	}
	s.visit(p.root, o)
	result.NextMatchings = p.nextMatchings(s, cursor)
	if !result.Accepted {
		result.Error = p.diagnose(s)
	}
	result.CallCount = calls
	result.Costs = Costs{Lexer: lexCost, Parser: time.Since(t1)}
	tracer().Debugf("parse done: accepted=%v, %d calls, costs=%v",
		result.Accepted, result.CallCount, result.Costs)
	return result, nil
}

// --- Registry --------------------------------------------------------------

// Registry hands out parsers for the rules of one grammar, memoized per root
// rule. It replaces any process-global parser table; a registry is owned by
// its caller.
type Registry struct {
	grammar *peg.Grammar
	lexer   scanner.Lexer
	opts    []Option
	parsers map[string]*Parser
}

// NewRegistry creates a parser registry for a grammar. The options are
// applied to every parser the registry creates.
func NewRegistry(g *peg.Grammar, lexer scanner.Lexer, opts ...Option) *Registry {
	return &Registry{
		grammar: g,
		lexer:   lexer,
		opts:    opts,
		parsers: make(map[string]*Parser),
	}
}

// Parser returns the memoized parser for a root rule, creating it on first
// use.
func (r *Registry) Parser(rootRule string) *Parser {
	if p, ok := r.parsers[rootRule]; ok {
		return p
	}
	p := NewParser(r.grammar, rootRule, r.lexer, r.opts...)
	r.parsers[rootRule] = p
	return p
}
