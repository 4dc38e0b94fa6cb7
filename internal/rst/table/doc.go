// Package table edits reStructuredText grid tables.
//
// A grid table starts at a border line such as "+-----+----+" and runs
// until a line that does not start with whitespace, '+', '|' or '-'. Every
// structural operation parses the grid, changes it and renders it back
// with each column padded to its widest cell, replacing the whole table in
// one edit:
//
//	+-----+-----+
//	| a   | b   |
//	+=====+=====+
//	| 1   | 2   |
//	+-----+-----+
//
// Grids with spanning cells are rejected with ErrMalformedGrid and left
// untouched.
package table

import "errors"

// Errors returned by table operations.
var (
	ErrNotInTable    = errors.New("cursor not in a table")
	ErrMalformedGrid = errors.New("malformed grid table")
	ErrInvalidSize   = errors.New("invalid table size")
	ErrNoData        = errors.New("no table data")
	ErrAtLineEnd     = errors.New("cursor at end of line")
)
