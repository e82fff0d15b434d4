package peg

import "fmt"

// GrammarBuilder is an object to incrementally construct grammars.
// Clients add one rule per name, consisting of rule elements, in the
// following manner:
//
//    b := peg.NewGrammarBuilder("Expr")
//    b.Rule("expr").N("term").OneOf(peg.Lit("+"), peg.Lit("-")).N("term").End()
//    b.Rule("term").OneOf(peg.Lit("a"), peg.Lit("b")).End()
//    g, err := b.Grammar()
//
// A reducer may be attached to a rule with Solve(…) before End().
type GrammarBuilder struct {
	name  string
	rules map[string]*Rule
	err   error
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar
// to build.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name:  name,
		rules: make(map[string]*Rule),
	}
}

// Rule starts a new rule with the given name. The rule is not registered
// until End() is called on the returned RuleBuilder.
func (gb *GrammarBuilder) Rule(name string) *RuleBuilder {
	if _, ok := gb.rules[name]; ok && gb.err == nil {
		gb.err = fmt.Errorf("duplicate rule %q in grammar %q", name, gb.name)
	}
	return &RuleBuilder{
		gb:   gb,
		rule: &Rule{Name: name, Solve: IdentityReducer},
	}
}

// Grammar returns the fully constructed grammar. It checks that every rule
// reference resolves to a known rule and that no rule body is empty.
//
// TODO rewrite direct left recursion  A → A b | c  into  c b*  before
// handing rules to the parser; a directly left-recursive rule currently
// loops until the parser's call budget fires.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if gb.err != nil {
		return nil, gb.err
	}
	if len(gb.rules) == 0 {
		return nil, fmt.Errorf("grammar %q has no rules", gb.name)
	}
	for _, r := range gb.rules {
		if err := gb.checkElements(r.Name, r.Elements); err != nil {
			return nil, err
		}
	}
	return &Grammar{Name: gb.name, rules: gb.rules}, nil
}

func (gb *GrammarBuilder) checkElements(rule string, elems []Element) error {
	if len(elems) == 0 {
		return fmt.Errorf("rule %q has an empty body", rule)
	}
	for _, e := range elems {
		switch e.Kind {
		case ElemLiteral, ElemLoose:
			// nothing to check
		case ElemMatcher:
			if e.Matcher == nil || e.Matcher.Match == nil {
				return fmt.Errorf("rule %q carries a matcher element without a matcher", rule)
			}
		case ElemChoice:
			if err := gb.checkElements(rule, e.Alts); err != nil {
				return err
			}
		case ElemRef:
			if _, ok := gb.rules[e.Ref]; !ok {
				return fmt.Errorf("rule %q references unknown rule %q", rule, e.Ref)
			}
		default:
			return fmt.Errorf("rule %q contains an element of unrecognized shape", rule)
		}
	}
	return nil
}

// RuleBuilder is a builder type for rules. Add elements with the chainable
// methods, then close the rule with End().
type RuleBuilder struct {
	gb   *GrammarBuilder
	rule *Rule
}

// T appends a literal terminal to the rule body.
func (rb *RuleBuilder) T(text string) *RuleBuilder {
	rb.rule.Elements = append(rb.rule.Elements, Lit(text))
	return rb
}

// Loose appends a zero-cost sentinel to the rule body.
func (rb *RuleBuilder) Loose(ok bool) *RuleBuilder {
	rb.rule.Elements = append(rb.rule.Elements, Loose(ok))
	return rb
}

// M appends a user-named terminal matcher to the rule body.
func (rb *RuleBuilder) M(m *Matcher) *RuleBuilder {
	rb.rule.Elements = append(rb.rule.Elements, M(m))
	return rb
}

// OneOf appends an ordered choice over the given alternatives.
func (rb *RuleBuilder) OneOf(alts ...Element) *RuleBuilder {
	rb.rule.Elements = append(rb.rule.Elements, OneOf(alts...))
	return rb
}

// N appends a reference to the named rule.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rule.Elements = append(rb.rule.Elements, N(name))
	return rb
}

// NPlus appends a reference to the named rule, repeating one or more times.
func (rb *RuleBuilder) NPlus(name string) *RuleBuilder {
	rb.rule.Elements = append(rb.rule.Elements, Plus(name))
	return rb
}

// Add appends pre-built elements to the rule body.
func (rb *RuleBuilder) Add(elems ...Element) *RuleBuilder {
	rb.rule.Elements = append(rb.rule.Elements, elems...)
	return rb
}

// Solve attaches a reducer to the rule.
func (rb *RuleBuilder) Solve(fn Reducer) *RuleBuilder {
	rb.rule.Solve = fn
	return rb
}

// End closes the rule and registers it with the grammar builder.
func (rb *RuleBuilder) End() {
	rb.gb.rules[rb.rule.Name] = rb.rule
}
