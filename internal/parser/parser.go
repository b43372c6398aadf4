// Package parser reads the connectivity file format described in
// SPEC_FULL.md §5: a line-oriented header (process count, root id)
// followed by an N×N adjacency matrix, integers separated by runs of
// non-digit characters.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/distsim/asyncbf/bf"
)

// FormatError reports a malformed connectivity file, carrying the
// 1-based offending line number the way the reference parser's
// "format error at line N" diagnostic does.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("parser: format error at line %d: %s", e.Line, e.Reason)
}

var numRegexp = regexp.MustCompile(`-?\d+`)

// Parse reads a connectivity file from r and returns its matrix and
// root id. The first line is "N R": process count and root ProcessID.
// Each of the next N lines holds N signed integers, -1 meaning no edge.
func Parse(r io.Reader) (bf.ConnectivityMatrix, bf.ProcessID, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return nil, 0, &FormatError{Line: 1, Reason: "missing header line"}
	}
	header := numRegexp.FindAllString(scanner.Text(), -1)
	if len(header) != 2 {
		return nil, 0, &FormatError{Line: 1, Reason: "header must contain exactly two integers: N R"}
	}
	n, err := strconv.Atoi(header[0])
	if err != nil || n <= 0 {
		return nil, 0, &FormatError{Line: 1, Reason: "process count must be a positive integer"}
	}
	rootNum, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, 0, &FormatError{Line: 1, Reason: "root id must be an integer"}
	}
	root := bf.ProcessID(rootNum)

	matrix := make(bf.ConnectivityMatrix, n)
	lineNum := 1
	for i := 0; i < n; i++ {
		lineNum++
		if !scanner.Scan() {
			return nil, 0, &FormatError{Line: lineNum, Reason: fmt.Sprintf("expected %d matrix rows, found %d", n, i)}
		}
		fields := numRegexp.FindAllString(scanner.Text(), -1)
		if len(fields) != n {
			return nil, 0, &FormatError{Line: lineNum, Reason: fmt.Sprintf("expected %d integers, found %d", n, len(fields))}
		}
		row := make([]int, n)
		for j, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, 0, &FormatError{Line: lineNum, Reason: fmt.Sprintf("%q is not an integer", f)}
			}
			row[j] = v
		}
		matrix[i] = row
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("parser: reading input: %w", err)
	}

	return matrix, root, nil
}
