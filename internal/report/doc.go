// Package report renders completed rounds for the terminal and for tools.
//
// Three formats are available:
//   - table: aligned columns followed by a one-line summary (default)
//   - markdown: a section per round with a results table
//   - json: one JSON document per round, newline delimited
//
// All writers implement [Writer] and are chosen with [New].
package report
