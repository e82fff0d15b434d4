package scanner

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSimpleLexerSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.scanner")
	defer teardown()
	//
	tokens, err := SimpleLexer{}.Lex("a + b")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	lexemes := []string{"a", "+", "b"}
	spans := [][2]uint64{{0, 1}, {2, 3}, {4, 5}}
	for i, tok := range tokens {
		if tok.Lexeme() != lexemes[i] {
			t.Errorf("token %d is %q, expected %q", i, tok.Lexeme(), lexemes[i])
		}
		if tok.Span().From() != spans[i][0] || tok.Span().To() != spans[i][1] {
			t.Errorf("token %d has span %v, expected %v", i, tok.Span(), spans[i])
		}
	}
}

func TestSimpleLexerEdges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.scanner")
	defer teardown()
	//
	if tokens, _ := (SimpleLexer{}).Lex(""); len(tokens) != 0 {
		t.Errorf("expected no tokens for empty input, got %d", len(tokens))
	}
	if tokens, _ := (SimpleLexer{}).Lex("  \t "); len(tokens) != 0 {
		t.Errorf("expected no tokens for blank input, got %d", len(tokens))
	}
	tokens, _ := SimpleLexer{}.Lex("  xy")
	if len(tokens) != 1 || tokens[0].Span().From() != 2 || tokens[0].Span().To() != 4 {
		t.Errorf("unexpected tokens for padded input: %v", tokens)
	}
}

func TestCursorSaveRestore(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.scanner")
	defer teardown()
	//
	tokens, _ := SimpleLexer{}.Lex("a b c")
	cur := NewCursor(tokens)
	if cur.IsEnd() || cur.RestCount() != 3 {
		t.Fatalf("fresh cursor state is off: end=%v rest=%d", cur.IsEnd(), cur.RestCount())
	}
	if tok, ok := cur.Peek(); !ok || tok.Lexeme() != "a" {
		t.Errorf("peek returned %v", tok)
	}
	if cur.Index() != 0 {
		t.Error("peek moved the cursor")
	}
	cur.Advance()
	saved := cur.Index()
	cur.Advance()
	cur.Advance()
	if !cur.IsEnd() {
		t.Error("cursor should be at end after consuming all tokens")
	}
	if _, ok := cur.Advance(); ok {
		t.Error("advance past the end should fail")
	}
	cur.SetIndex(saved)
	if tok, _ := cur.Peek(); tok.Lexeme() != "b" {
		t.Errorf("restore did not rewind to 'b', got %q", tok.Lexeme())
	}
	if cur.RestCount() != 2 {
		t.Errorf("expected 2 remaining tokens, got %d", cur.RestCount())
	}
}

func TestCursorCharOffsetQueries(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.scanner")
	defer teardown()
	//
	tokens, _ := SimpleLexer{}.Lex("a + b") // spans (0…1) (2…3) (4…5)
	cur := NewCursor(tokens)
	if tok, ok := cur.PrevTokenFromChar(0); ok {
		t.Errorf("no token ends at or before 0, got %q", tok.Lexeme())
	}
	if tok, ok := cur.PrevTokenFromChar(2); !ok || tok.Lexeme() != "a" {
		t.Errorf("expected 'a' before offset 2, got %v", tok)
	}
	if tok, ok := cur.PrevTokenFromChar(5); !ok || tok.Lexeme() != "b" {
		t.Errorf("expected 'b' before offset 5, got %v", tok)
	}
	if tok, ok := cur.NextTokenFromChar(2); !ok || tok.Lexeme() != "+" {
		t.Errorf("expected '+' at or after offset 2, got %v", tok)
	}
	if tok, ok := cur.NextTokenFromChar(5); ok {
		t.Errorf("no token starts at or after 5, got %q", tok.Lexeme())
	}
}

func TestCursorNextAfter(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.scanner")
	defer teardown()
	//
	tokens, _ := SimpleLexer{}.Lex("a + b")
	cur := NewCursor(tokens)
	if tok, ok := cur.NextAfter(tokens[0]); !ok || tok.Lexeme() != "+" {
		t.Errorf("expected '+' after 'a', got %v", tok)
	}
	if _, ok := cur.NextAfter(tokens[2]); ok {
		t.Error("expected no token after the last one")
	}
	if cur.Index() != 0 {
		t.Error("positional queries must not move the cursor")
	}
}

func TestEmptyCursor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.scanner")
	defer teardown()
	//
	cur := NewCursor(nil)
	if !cur.IsEnd() || cur.RestCount() != 0 {
		t.Error("empty cursor must be at its end")
	}
	if _, ok := cur.Peek(); ok {
		t.Error("peek on empty cursor should fail")
	}
}
