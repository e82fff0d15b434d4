/*
Package scanner provides the token cursor used by the peggo parse engine,
together with the lexer contract for producing token sequences.

A default lexer implementation is provided: a simple whitespace splitter.
An adapter for lexmachine lives in sub-package `lexmach`.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"unicode"

	"github.com/npillmayer/peggo"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'peggo.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("peggo.scanner")
}

// Word is the token type produced by the SimpleLexer for every
// non-whitespace run.
const Word peggo.TokType = -2

// Lexer is the contract for turning source text into a finite token
// sequence. A lexer is pure and called once per parse. Token spans are
// character offsets into the input.
type Lexer interface {
	Lex(input string) ([]peggo.Token, error)
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, used by the SimpleLexer
// as well as the lexmachine adapter.
type DefaultToken struct {
	kind   peggo.TokType
	lexeme string
	span   peggo.Span
}

func MakeDefaultToken(typ peggo.TokType, lexeme string, span peggo.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() peggo.TokType {
	return t.kind
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() peggo.Span {
	return t.span
}

// --- Simple lexer ----------------------------------------------------------

// SimpleLexer splits input on whitespace. Every maximal non-space run becomes
// one token of type Word. It is the engine's test workhorse and good enough
// for blank-separated toy languages.
type SimpleLexer struct{}

var _ Lexer = SimpleLexer{}

// Lex is part of the Lexer interface.
func (SimpleLexer) Lex(input string) ([]peggo.Token, error) {
	var tokens []peggo.Token
	start := -1
	for i, r := range input {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, MakeDefaultToken(Word, input[start:i],
					peggo.Span{uint64(start), uint64(i)}))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, MakeDefaultToken(Word, input[start:],
			peggo.Span{uint64(start), uint64(len(input))}))
	}
	tracer().Debugf("SimpleLexer produced %d tokens", len(tokens))
	return tokens, nil
}

// --- Cursor ----------------------------------------------------------------

// Cursor is a cursor over a finite token sequence. The parse engine advances
// it during terminal matches and rewinds it during backtracking; positional
// queries locate tokens relative to a character offset for cursor probes.
type Cursor struct {
	tokens []peggo.Token
	index  int
}

// NewCursor creates a cursor positioned at the first token. A nil or empty
// token slice yields a cursor that is immediately at its end.
func NewCursor(tokens []peggo.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Tokens returns the underlying token sequence.
func (c *Cursor) Tokens() []peggo.Token {
	return c.tokens
}

// Index returns the current cursor position, for later restore.
func (c *Cursor) Index() int {
	return c.index
}

// SetIndex rewinds (or forwards) the cursor to a saved position.
func (c *Cursor) SetIndex(i int) {
	c.index = i
}

// Peek returns the token at the cursor without advancing.
func (c *Cursor) Peek() (peggo.Token, bool) {
	if c.index >= len(c.tokens) {
		return nil, false
	}
	return c.tokens[c.index], true
}

// Advance consumes and returns the token at the cursor.
func (c *Cursor) Advance() (peggo.Token, bool) {
	if c.index >= len(c.tokens) {
		return nil, false
	}
	tok := c.tokens[c.index]
	c.index++
	return tok, true
}

// IsEnd returns true if the cursor is past the last token.
func (c *Cursor) IsEnd() bool {
	return c.index >= len(c.tokens)
}

// RestCount returns the number of tokens remaining at the cursor.
func (c *Cursor) RestCount() int {
	if c.index >= len(c.tokens) {
		return 0
	}
	return len(c.tokens) - c.index
}

// PrevTokenFromChar returns the last token whose span ends at or before the
// given character offset.
func (c *Cursor) PrevTokenFromChar(offset uint64) (peggo.Token, bool) {
	for i := len(c.tokens) - 1; i >= 0; i-- {
		if c.tokens[i].Span().To() <= offset {
			return c.tokens[i], true
		}
	}
	return nil, false
}

// NextTokenFromChar returns the first token whose span starts at or after the
// given character offset.
func (c *Cursor) NextTokenFromChar(offset uint64) (peggo.Token, bool) {
	for _, tok := range c.tokens {
		if tok.Span().From() >= offset {
			return tok, true
		}
	}
	return nil, false
}

// NextAfter returns the token immediately following the given token.
func (c *Cursor) NextAfter(tok peggo.Token) (peggo.Token, bool) {
	for i, t := range c.tokens {
		if t.Span() == tok.Span() && t.Lexeme() == tok.Lexeme() {
			if i+1 < len(c.tokens) {
				return c.tokens[i+1], true
			}
			return nil, false
		}
	}
	return nil, false
}
