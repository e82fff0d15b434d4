package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/npillmayer/peggo/peg"
	"github.com/npillmayer/peggo/peg/exprlang"
)

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

func tracer() tracing.Trace {
	return tracing.Select("peggo.parser")
}

// main() starts an interactive CLI, where users may enter arithmetic
// expressions. Valid input is evaluated and printed; invalid input gets the
// parser's diagnostic together with the terminals that would have recovered
// the parse. Entering a line ending in '?' shows the completions at that
// position instead, the way an editor would ask the engine.
func main() {
	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(traceLevel(*tlevel))
	pterm.Info.Println("Welcome to the peggo expression REPL")
	//
	lang, err := exprlang.NewLang()
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}
	repl, err := readline.New("expr> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	pterm.Info.Println("Quit with <ctrl>D, append '?' for completions")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			if err != io.EOF {
				tracer().Errorf(err.Error())
			}
			break
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.HasSuffix(input, "?") {
			complete(lang, strings.TrimSuffix(input, "?"))
			continue
		}
		eval(lang, input)
	}
}

// eval parses one input line and prints either its value or the parser's
// diagnostic.
func eval(lang *exprlang.Lang, input string) {
	result, err := lang.Parse(input)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if result.Accepted {
		pterm.Success.Println(fmt.Sprintf("= %v   (%d visits, %v)", result.AST,
			result.CallCount, result.Costs.Parser))
		return
	}
	diag := result.Error
	if diag.Token != nil {
		pterm.Error.Println(fmt.Sprintf("%s token %q at %v", diag.Reason,
			diag.Token.Lexeme(), diag.Token.Span()))
	} else {
		pterm.Error.Println(fmt.Sprintf("%s input", diag.Reason))
	}
	if len(diag.Suggestions) > 0 {
		pterm.Info.Println("expected one of: " + matchingList(diag.Suggestions))
	}
}

// complete shows the terminals legal at the end of the input.
func complete(lang *exprlang.Lang, input string) {
	matchings, err := lang.Complete(input, uint64(len(input)))
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if len(matchings) == 0 {
		pterm.Info.Println("no completions here")
		return
	}
	pterm.Info.Println("completions: " + matchingList(matchings))
}

func matchingList(matchings []peg.Matching) string {
	parts := make([]string, len(matchings))
	for i, m := range matchings {
		parts[i] = fmt.Sprintf("%v", m.Value)
	}
	return strings.Join(parts, "  ")
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}
