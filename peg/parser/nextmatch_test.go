package parser

import (
	"reflect"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/npillmayer/peggo"
	"github.com/npillmayer/peggo/peg"
	"github.com/npillmayer/peggo/peg/scanner"
)

func TestCursorBeforeAllTokens(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.parser")
	defer teardown()
	//
	p := makeTestParser(t)
	result, err := p.ParseAt("a + b", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Accepted {
		t.Fatal("valid input not accepted")
	}
	// with the cursor before every token, the probe starts at the root and
	// reports the grammar's opening terminals, but the token right after the
	// cursor ('a') narrows them
	if !reflect.DeepEqual(values(result.NextMatchings), []string{"a"}) {
		t.Errorf("expected next matchings [a], got %v", values(result.NextMatchings))
	}
}

func TestNextMatchingsDeduplicated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.parser")
	defer teardown()
	//
	b := peg.NewGrammarBuilder("Dup")
	b.Rule("t").OneOf(peg.Lit("a"), peg.Lit("a"), peg.Lit("b")).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(g, "t", scanner.SimpleLexer{})
	result, err := p.ParseAt("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(values(result.NextMatchings), []string{"a", "b"}) {
		t.Errorf("expected deduplicated matchings [a b], got %v",
			values(result.NextMatchings))
	}
}

func TestSpecialMatcherInMatchings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.parser")
	defer teardown()
	//
	ident := &peg.Matcher{
		Name: "identifier",
		Match: func(cur *scanner.Cursor, cost bool) (peggo.Token, bool) {
			tok, ok := cur.Peek()
			if !ok || tok.Lexeme() == "" || !isLetter(tok.Lexeme()[0]) {
				return nil, false
			}
			if cost {
				cur.Advance()
			}
			return tok, true
		},
	}
	b := peg.NewGrammarBuilder("Idents")
	b.Rule("decl").T("let").M(ident).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(g, "decl", scanner.SimpleLexer{})
	result, err := p.ParseAt("let ", 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.NextMatchings) != 1 {
		t.Fatalf("expected 1 next matching, got %v", result.NextMatchings)
	}
	m := result.NextMatchings[0]
	if m.Kind != peg.MatchSpecial || m.Value != "identifier" {
		t.Errorf("expected the matcher's display name, got %v", m)
	}
	// and the named matcher actually accepts
	result, err = p.Parse("let counter")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Accepted {
		t.Error("declaration with identifier not accepted")
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func TestSuggestionsDeduplicated(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.parser")
	defer teardown()
	//
	b := peg.NewGrammarBuilder("Dup")
	b.Rule("e").T("x").OneOf(peg.N("t"), peg.N("t")).End()
	b.Rule("t").T("y").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(g, "e", scanner.SimpleLexer{})
	result, err := p.Parse("x")
	if err != nil {
		t.Fatal(err)
	}
	if result.Accepted {
		t.Fatal("incomplete input accepted")
	}
	if !reflect.DeepEqual(values(result.Error.Suggestions), []string{"y"}) {
		t.Errorf("expected deduplicated suggestions [y], got %v",
			values(result.Error.Suggestions))
	}
}
