package lexmach

import (
	"strings"

	"github.com/npillmayer/peggo"
	"github.com/npillmayer/peggo/peg/scanner"
	"github.com/npillmayer/schuko/tracing"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexmachine adapter

// tracer traces with key 'peggo.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("peggo.scanner")
}

// LMAdapter wraps a lexmachine DFA as a peggo lexer.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
	Error func(error)
}

var _ scanner.Lexer = (*LMAdapter)(nil)

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("if", "for", …) and a
// map for translating token strings to their values.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string, tokenIds map[string]int) (*LMAdapter, error) {
	adapter := &LMAdapter{Error: logError}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// SetErrorHandler sets an error handler for the lexer.
func (lm *LMAdapter) SetErrorHandler(h func(error)) {
	if h == nil {
		lm.Error = logError
		return
	}
	lm.Error = h
}

// Default error reporting function for lexmachine-based lexers
func logError(e error) {
	tracer().Errorf("lexer error: " + e.Error())
}

// Lex is part of the Lexer interface. It drains the lexmachine scanner into
// a token slice; spans are derived from the machine's text counter.
func (lm *LMAdapter) Lex(input string) ([]peggo.Token, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return nil, err
	}
	var tokens []peggo.Token
	tok, err, eof := s.Next()
	for !eof {
		for err != nil {
			lm.Error(err)
			if ui, is := err.(*machines.UnconsumedInput); is {
				s.TC = ui.FailTC
			}
			tok, err, eof = s.Next()
			if eof {
				return tokens, nil
			}
		}
		if tok != nil {
			token := tok.(*lexmachine.Token)
			tracer().Debugf("tok is %T | %v", tok, tok)
			tokens = append(tokens, scanner.MakeDefaultToken(
				peggo.TokType(token.Type),
				string(token.Lexeme),
				peggo.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
			))
		}
		tok, err, eof = s.Next()
	}
	return tokens, nil
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, string(m.Bytes), m), nil
	}
}
