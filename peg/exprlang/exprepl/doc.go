/*
Package exprepl/main provides an interactive command line tool for the
peggo expression language. It evaluates arithmetic expressions and, on
request, lists the terminals the grammar would accept at the caret,
the same question an editor integration asks the parse engine.


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main
