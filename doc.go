/*
Package peggo is a backtracking parser toolbox.

peggo strives to be a smart and lightweight tool for interactive editors
and small DSLs. It focusses on top-down parsing with ordered choice and
chronological backtracking, and on answering the question an editor asks at
every keystroke: which terminals may legally appear at the cursor?
Package structure is as follows:

■ peg: Package peg holds the grammar model: rule elements, the grammar
builder and the FIRST-set analysis used to prune impossible alternatives.

■ peg/scanner: Package scanner provides a cursor over a finite token
sequence, the lexer contract, and a lexmachine adapter.

■ peg/parser: Package parser implements the parse engine proper: the
lazily-expanded node graph, the chance stack, the visiter and the
next-match probes.

■ peg/exprlang: A worked expression language with an interactive REPL,
demonstrating cursor completion.

The base package contains data types which are used throughout all the
other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package peggo
