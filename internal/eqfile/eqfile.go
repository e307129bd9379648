// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package eqfile reads a small text format describing a system of
// integer linear equalities plus column bounds. The reader does no
// allocation of solver state itself; it only calls back into a Vis.
//
// Grammar (one directive per line, blank lines and lines starting with
// 'c' ignored):
//
//	p eq <nvars> <neqs>
//	v <col> int|rat
//	b <col> lo|hi <num>[/<den>]
//	t <col> <coeff> <var> [<coeff> <var> ...]
//
// "v" declares a base column, "t" declares a term column as a linear
// combination of other columns declared in the file (the reader does not
// require them to come first), "b" asserts a bound on any column.
package eqfile

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/go-air/dio/host"
)

// Vis receives callbacks for every directive in an equation file.
type Vis interface {
	Init(nVars, nEqs int)
	Var(col int, isInt bool)
	Bound(col int, kind host.BoundKind, value *big.Rat)
	Term(col int, coeffs []TermEntry)
	Eof()
}

// TermEntry is one coefficient*column pair in a "t" directive.
type TermEntry struct {
	Coeff *big.Rat
	Col   int
}

// ReadEqs parses r, calling back into vis for every directive, in file
// order, terminating with vis.Eof().
func ReadEqs(r io.Reader, vis Vis) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if len(fields) != 4 || fields[1] != "eq" {
				return fmt.Errorf("eqfile:%d: malformed problem line %q", lineNo, line)
			}
			nv, err1 := strconv.Atoi(fields[2])
			ne, err2 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil {
				return fmt.Errorf("eqfile:%d: bad problem counts in %q", lineNo, line)
			}
			vis.Init(nv, ne)
		case "v":
			if len(fields) != 3 {
				return fmt.Errorf("eqfile:%d: malformed var line %q", lineNo, line)
			}
			col, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("eqfile:%d: bad column %q", lineNo, fields[1])
			}
			isInt, err := parseKind(fields[2])
			if err != nil {
				return fmt.Errorf("eqfile:%d: %w", lineNo, err)
			}
			vis.Var(col, isInt)
		case "b":
			if len(fields) != 4 {
				return fmt.Errorf("eqfile:%d: malformed bound line %q", lineNo, line)
			}
			col, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("eqfile:%d: bad column %q", lineNo, fields[1])
			}
			kind, err := parseBoundKind(fields[2])
			if err != nil {
				return fmt.Errorf("eqfile:%d: %w", lineNo, err)
			}
			val, err := parseRat(fields[3])
			if err != nil {
				return fmt.Errorf("eqfile:%d: bad bound value %q", lineNo, fields[3])
			}
			vis.Bound(col, kind, val)
		case "t":
			if len(fields) < 4 || len(fields)%2 != 0 {
				return fmt.Errorf("eqfile:%d: malformed term line %q", lineNo, line)
			}
			col, err := strconv.Atoi(fields[1])
			if err != nil {
				return fmt.Errorf("eqfile:%d: bad column %q", lineNo, fields[1])
			}
			var entries []TermEntry
			for i := 2; i+1 < len(fields); i += 2 {
				coeff, err := parseRat(fields[i])
				if err != nil {
					return fmt.Errorf("eqfile:%d: bad coefficient %q", lineNo, fields[i])
				}
				vcol, err := strconv.Atoi(fields[i+1])
				if err != nil {
					return fmt.Errorf("eqfile:%d: bad column %q", lineNo, fields[i+1])
				}
				entries = append(entries, TermEntry{Coeff: coeff, Col: vcol})
			}
			vis.Term(col, entries)
		default:
			return fmt.Errorf("eqfile:%d: unknown directive %q", lineNo, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	vis.Eof()
	return nil
}

func parseKind(s string) (bool, error) {
	switch s {
	case "int":
		return true, nil
	case "rat":
		return false, nil
	default:
		return false, fmt.Errorf("unknown column kind %q", s)
	}
}

func parseBoundKind(s string) (host.BoundKind, error) {
	switch s {
	case "lo":
		return host.Lower, nil
	case "hi":
		return host.Upper, nil
	default:
		return 0, fmt.Errorf("unknown bound kind %q", s)
	}
}

func parseRat(s string) (*big.Rat, error) {
	v, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("not a rational: %q", s)
	}
	return v, nil
}
