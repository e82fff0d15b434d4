/*
Package exprlang provides a small arithmetic expression language as a worked
example for the peggo parse engine. It is primarily a showcase for cursor
completion: Complete reports which terminals may follow the caret, the way
an editor would ask.

The grammar is right-recursive (the engine does not rewrite left recursion):

   expr   ::=  term tail?
   tail   ::=  ( '+' | '-' | '*' | '/' ) expr
   term   ::=  number  |  paren
   paren  ::=  '(' expr ')'

Reducers evaluate on the fly, so a successful parse carries the float64
value of the expression as its AST.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package exprlang

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"

	"github.com/npillmayer/peggo"
	"github.com/npillmayer/peggo/peg"
	"github.com/npillmayer/peggo/peg/parser"
	"github.com/npillmayer/peggo/peg/scanner"
	"github.com/npillmayer/peggo/peg/scanner/lexmach"
)

// tracer traces with key 'peggo.parser'.
func tracer() tracing.Trace {
	return tracing.Select("peggo.parser")
}

// The tokens representing literal one-char lexemes
var literals = []string{"+", "-", "*", "/", "(", ")"}

const tokNum = -3 // token id for numbers

// Lang bundles lexer, grammar and parser registry for the expression
// language. Create one with NewLang; nothing is process-global.
type Lang struct {
	lexer    *lexmach.LMAdapter
	grammar  *peg.Grammar
	registry *parser.Registry
}

// NewLang builds the lexer and grammar. It returns an error if the lexer DFA
// fails to compile or the grammar does not validate.
func NewLang() (*Lang, error) {
	lex, err := Lexer()
	if err != nil {
		return nil, err
	}
	g, err := Grammar()
	if err != nil {
		return nil, err
	}
	return &Lang{
		lexer:    lex,
		grammar:  g,
		registry: parser.NewRegistry(g, lex),
	}, nil
}

// Lexer creates the lexmachine-backed lexer for the expression language.
func Lexer() (*lexmach.LMAdapter, error) {
	tokenIds := map[string]int{"NUM": tokNum}
	for _, lit := range literals {
		tokenIds[lit] = int(lit[0])
	}
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`[0-9]+(\.[0-9]+)?`), lexmach.MakeToken("NUM", tokNum))
		lexer.Add([]byte(`( |\t|\n|\r)+`), lexmach.Skip)
	}
	return lexmach.NewLMAdapter(init, literals, nil, tokenIds)
}

// Grammar builds the expression grammar with evaluating reducers.
func Grammar() (*peg.Grammar, error) {
	b := peg.NewGrammarBuilder("Expressions")
	b.Rule("expr").N("term").OneOf(peg.N("tail"), peg.Loose(true)).Solve(solveExpr).End()
	b.Rule("tail").OneOf(peg.Lit("+"), peg.Lit("-"), peg.Lit("*"), peg.Lit("/")).
		N("expr").Solve(solveTail).End()
	b.Rule("term").OneOf(peg.M(numMatcher()), peg.N("paren")).Solve(solveTerm).End()
	b.Rule("paren").T("(").N("expr").T(")").Solve(solveParen).End()
	return b.Grammar()
}

// Parse evaluates an expression. On acceptance the result's AST holds the
// float64 value.
func (l *Lang) Parse(input string) (*parser.Result, error) {
	return l.registry.Parser("expr").Parse(input)
}

// Complete reports the terminals that may legally appear at the given
// character offset, the way an editor asks at every keystroke.
func (l *Lang) Complete(input string, cursor uint64) ([]peg.Matching, error) {
	result, err := l.registry.Parser("expr").ParseAt(input, cursor)
	if err != nil {
		return nil, err
	}
	return result.NextMatchings, nil
}

// Eval is a convenience wrapper around Parse, returning the value or an
// error carrying the mismatch diagnostic.
func (l *Lang) Eval(input string) (float64, error) {
	result, err := l.Parse(input)
	if err != nil {
		return 0, err
	}
	if !result.Accepted {
		return 0, fmt.Errorf("not a valid expression: %v", diagString(result.Error))
	}
	return result.AST.(float64), nil
}

func diagString(d *parser.Diag) string {
	if d == nil {
		return "unknown"
	}
	if d.Token != nil {
		return fmt.Sprintf("%s token %q, expected one of %v", d.Reason, d.Token.Lexeme(), d.Suggestions)
	}
	return fmt.Sprintf("%s input, expected one of %v", d.Reason, d.Suggestions)
}

// --- Matchers and reducers -------------------------------------------------

// numMatcher matches tokens the lexer classified as numbers.
func numMatcher() *peg.Matcher {
	return &peg.Matcher{
		Name: "number",
		Match: func(cur *scanner.Cursor, cost bool) (peggo.Token, bool) {
			tok, ok := cur.Peek()
			if !ok || tok.TokType() != tokNum {
				return nil, false
			}
			if cost {
				cur.Advance()
			}
			return tok, true
		},
	}
}

// pending is a partially applied operator: "<op> <rhs>" waiting for its
// left-hand side.
type pending struct {
	op  string
	rhs float64
}

func solveExpr(asts []interface{}) interface{} {
	lhs := asts[0].(float64)
	if asts[1] == nil { // the tail was loose
		return lhs
	}
	tail := asts[1].(pending)
	switch tail.op {
	case "+":
		return lhs + tail.rhs
	case "-":
		return lhs - tail.rhs
	case "*":
		return lhs * tail.rhs
	case "/":
		return lhs / tail.rhs
	}
	tracer().Errorf("unknown operator %q", tail.op)
	return lhs
}

func solveTail(asts []interface{}) interface{} {
	op := asts[0].(peggo.Token)
	return pending{op: op.Lexeme(), rhs: asts[1].(float64)}
}

func solveTerm(asts []interface{}) interface{} {
	switch v := asts[0].(type) {
	case float64: // a parenthesized sub-expression
		return v
	case peggo.Token:
		f, err := strconv.ParseFloat(v.Lexeme(), 64)
		if err != nil {
			tracer().Errorf("number token %q: %v", v.Lexeme(), err)
		}
		return f
	}
	return 0.0
}

func solveParen(asts []interface{}) interface{} {
	return asts[1]
}
