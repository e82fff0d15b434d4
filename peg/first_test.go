package peg

import (
	"fmt"
	"sort"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func firstValues(t *testing.T, fa *FirstAnalysis, rule string) []string {
	set, ok := fa.First(rule)
	if !ok {
		t.Fatalf("FIRST(%s) is unresolved", rule)
	}
	vals := make([]string, len(set))
	for i, entry := range set {
		vals[i] = fmt.Sprintf("%v", entry.Matching.Value)
	}
	sort.Strings(vals)
	return vals
}

func TestFirstOfTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.Rule("t").OneOf(Lit("a"), Lit("b")).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	fa := Analysis(g)
	fa.Ensure("t")
	vals := firstValues(t, fa, "t")
	if len(vals) != 2 || vals[0] != "a" || vals[1] != "b" {
		t.Errorf("expected FIRST(t) = [a b], got %v", vals)
	}
}

func TestFirstPropagatesThroughReferences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.Rule("a").N("b").T("x").End()
	b.Rule("b").N("c").T("y").End()
	b.Rule("c").OneOf(Lit("p"), Lit("q")).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	fa := Analysis(g)
	fa.Ensure("a") // pulls in b and c and propagates back up the chain
	for _, rule := range []string{"a", "b", "c"} {
		vals := firstValues(t, fa, rule)
		if len(vals) != 2 || vals[0] != "p" || vals[1] != "q" {
			t.Errorf("expected FIRST(%s) = [p q], got %v", rule, vals)
		}
	}
}

func TestFirstDependentResolvedLater(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.grammar")
	defer teardown()
	//
	// 'a' is ensured first and has to wait for 'b'; publishing FIRST(b) must
	// re-resolve the dependent rule
	b := NewGrammarBuilder("G")
	b.Rule("a").N("b").End()
	b.Rule("b").T("z").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	fa := Analysis(g)
	fa.Ensure("a")
	vals := firstValues(t, fa, "a")
	if len(vals) != 1 || vals[0] != "z" {
		t.Errorf("expected FIRST(a) = [z], got %v", vals)
	}
}

func TestFirstCycleStaysUnresolved(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.Rule("a").N("b").T("x").End()
	b.Rule("b").N("a").T("y").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	fa := Analysis(g)
	fa.Ensure("a")
	if _, ok := fa.First("a"); ok {
		t.Error("FIRST of a cyclic rule must stay unresolved")
	}
	if _, ok := fa.First("b"); ok {
		t.Error("FIRST of a cyclic rule must stay unresolved")
	}
}

func TestFirstLooseBlocksResolution(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.Rule("opt").OneOf(Lit("x"), Loose(true)).T("y").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	fa := Analysis(g)
	fa.Ensure("opt")
	if _, ok := fa.First("opt"); ok {
		t.Error("a loose sentinel in first position must block resolution")
	}
}

func TestFirstDeduplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.Rule("t").OneOf(Lit("a"), Lit("a"), Lit("b")).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	fa := Analysis(g)
	fa.Ensure("t")
	vals := firstValues(t, fa, "t")
	if len(vals) != 2 {
		t.Errorf("expected 2 distinct FIRST entries, got %v", vals)
	}
}

func TestFirstIsMonotonic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "peggo.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.Rule("t").T("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	fa := Analysis(g)
	fa.Ensure("t")
	set1, _ := fa.First("t")
	fa.Ensure("t") // a second Ensure must not recompute
	set2, _ := fa.First("t")
	if &set1[0] != &set2[0] {
		t.Error("published FIRST set was recomputed")
	}
}
