package peggo

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to lexers to define them.
type TokType int

// Tokens represent input tokens. They are produced by a lexer and consumed by
// the parse engine, which treats them as opaque except for positional queries.
//
// An example would be a token for an identifier:
//
//    TokType = Ident       // identifier for this kind of tokens (lexer specific)
//    Lexeme  = "counter"   // lexeme how it appeared in the input stream
//    Span    = 14…21       // occured from character position 14 in the input
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input covered by a token.
// A span denotes a start position and the position just behind the end,
// both as character offsets into the source text.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
