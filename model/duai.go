// SPDX-License-Identifier: MIT
// Package: dbn/model
//
// duai.go: dynamic UAI models.
//
// Layout (sections in any order after the header; Prior and Internal optional):
//
//	DBAYES
//	# Variables      <n> then n cardinalities
//	# Prior          <k> then k current ids
//	# Interface      <2h> then h pairs "<current> <next>"
//	# Observations   <s> then s sensor ids
//	# Internal       <i> then i ids
//	# Domains        one "<width> <id> .." line per factor
//	# Factors        one "<size> <v> .." line per domain, same order

package model

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/dbn/factor"
)

// Section titles, matched case-insensitively.
const (
	secVariables    = "variables"
	secPrior        = "prior"
	secInterface    = "interface"
	secObservations = "observations"
	secInternal     = "internal"
	secDomains      = "domains"
	secFactors      = "factors"
)

// ReadDUAI parses a dynamic model.
//
// Errors:
//   - ErrUnsupportedKind: header other than DBAYES.
//   - ErrSyntax (*SyntaxError): unknown or repeated section, missing required
//     section, malformed tokens.
//   - ErrInconsistent: see Model.Validate.
func ReadDUAI(r io.Reader) (*Model, error) {
	l, err := lex(r)
	if err != nil {
		return nil, fmt.Errorf("ReadDUAI: %w", err)
	}
	m, err := parseDUAI(l)
	if err != nil {
		return nil, fmt.Errorf("ReadDUAI: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("ReadDUAI: %w", err)
	}

	return m, nil
}

func parseDUAI(l *lexer) (*Model, error) {
	head, err := l.word("model header")
	if err != nil {
		return nil, err
	}
	if kind, err := ParseKind(head.text); err != nil || kind != Dynamic {
		return nil, fmt.Errorf("header %q: %w", head.text, ErrUnsupportedKind)
	}
	m := &Model{Kind: Dynamic, Transition: make(map[int]int)}

	var doms []*factor.Domain
	seen := make(map[string]bool)
	for {
		t, ok := l.next()
		if !ok {
			break
		}
		if !t.header {
			return nil, syntaxErrorf(t.line, "expected a section title, found %q", t.text)
		}
		name := strings.ToLower(t.text)
		if seen[name] {
			return nil, syntaxErrorf(t.line, "section %q repeated", t.text)
		}
		seen[name] = true
		if name != secVariables && m.Arena == nil {
			return nil, syntaxErrorf(t.line, "section %q before %q", t.text, secVariables)
		}

		switch name {
		case secVariables:
			m.Arena, err = readVariables(l)
		case secPrior:
			m.Prior, err = readIDList(l, "prior")
		case secInterface:
			err = readInterface(l, m)
		case secObservations:
			m.Sensor, err = readIDList(l, "observation")
		case secInternal:
			m.Internal, err = readIDList(l, "internal")
		case secDomains:
			for i := 0; l.atValue(); i++ {
				dom, err := readScope(l, m.Arena, i)
				if err != nil {
					return nil, err
				}
				doms = append(doms, dom)
			}
		case secFactors:
			if !seen[secDomains] {
				return nil, syntaxErrorf(t.line, "section %q before %q", t.text, secDomains)
			}
			for i, dom := range doms {
				f, err := readTable(l, dom, i)
				if err != nil {
					return nil, err
				}
				m.Factors = append(m.Factors, f)
			}
		default:
			return nil, syntaxErrorf(t.line, "unknown section %q", t.text)
		}
		if err != nil {
			return nil, err
		}
		if l.atValue() {
			return nil, syntaxErrorf(l.line(), "unexpected trailing value in section %q", t.text)
		}
	}

	for _, req := range []string{secVariables, secInterface, secObservations, secDomains, secFactors} {
		if !seen[req] {
			return nil, syntaxErrorf(0, "missing section %q", req)
		}
	}

	return m, nil
}

// readIDList reads "<n> id..." (the ids may wrap across lines).
func readIDList(l *lexer, what string) ([]int, error) {
	n, err := l.count("number of " + what + " variables")
	if err != nil {
		return nil, err
	}

	return l.ints(n, what+" variable id")
}

// readInterface reads "<2h>" then h "<current> <next>" pairs.
func readInterface(l *lexer, m *Model) error {
	line := l.line()
	ids, err := readIDList(l, "interface")
	if err != nil {
		return err
	}
	if len(ids)%2 != 0 {
		return syntaxErrorf(line, "interface lists %d ids, want current/next pairs", len(ids))
	}
	for i := 0; i < len(ids); i += 2 {
		cur, next := ids[i], ids[i+1]
		if _, dup := m.Transition[next]; dup {
			return inconsistentf("interface: next variable %d listed twice", next)
		}
		m.Transition[next] = cur
	}

	return nil
}

// WriteDUAI renders a dynamic model; ReadDUAI reads it back unchanged.
func WriteDUAI(w io.Writer, m *Model) error {
	if m.Kind != Dynamic {
		return fmt.Errorf("WriteDUAI: %s: %w", m.Kind, ErrUnsupportedKind)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", Dynamic)

	fmt.Fprintln(bw, "# Variables")
	writeCards(bw, m.Arena)
	fmt.Fprintln(bw)

	if m.Prior != nil {
		fmt.Fprintln(bw, "# Prior")
		writeIDList(bw, m.Prior)
	}

	current, next := m.Interface()
	pairs := make([]int, 0, 2*len(current))
	for i := range current {
		pairs = append(pairs, current[i].ID, next[i].ID)
	}
	fmt.Fprintln(bw, "# Interface")
	writeIDList(bw, pairs)

	fmt.Fprintln(bw, "# Observations")
	writeIDList(bw, m.Sensor)

	if m.Internal != nil {
		fmt.Fprintln(bw, "# Internal")
		writeIDList(bw, m.Internal)
	}

	fmt.Fprintln(bw, "# Domains")
	for _, f := range m.Factors {
		writeScope(bw, f.Domain())
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "# Factors")
	for _, f := range m.Factors {
		writeValues(bw, f)
	}
	fmt.Fprintln(bw)

	return bw.Flush()
}

func writeIDList(w io.Writer, ids []int) {
	fmt.Fprintln(w, len(ids))
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = fmt.Sprint(id)
	}
	fmt.Fprintf(w, "%s\n\n", strings.Join(strs, " "))
}
