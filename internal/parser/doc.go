// Package parser reads the SELECT dialect qcore executes.
//
// The lexer and parser are hand-written. Keywords are case-insensitive and
// identifiers keep their case; a double-quoted identifier may be a keyword.
// Strings are single-quoted, with a doubled quote standing for one quote.
// Numbers are integers only.
package parser
