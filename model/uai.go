// SPDX-License-Identifier: MIT

package model

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/dbn/factor"
)

// ReadUAI parses a static model in UAI format:
//
//	BAYES|MARKOV
//	<nvars>
//	<card_0> .. <card_n-1>
//	<nfactors>
//	<width> <id> ..        (one scope per factor)
//	<size> <v> ..          (one table per factor, last scope variable fastest)
//
// Lines starting with '#' are comments.
//
// Errors:
//   - ErrUnsupportedKind: header other than BAYES or MARKOV.
//   - ErrSyntax (*SyntaxError): malformed tokens or premature end of input.
//   - ErrInconsistent: unknown ids, duplicate scope entries, size mismatches.
func ReadUAI(r io.Reader) (*Model, error) {
	l, err := lex(r)
	if err != nil {
		return nil, fmt.Errorf("ReadUAI: %w", err)
	}
	l.skipHeaders()
	head, err := l.word("model header")
	if err != nil {
		return nil, fmt.Errorf("ReadUAI: %w", err)
	}
	kind, err := ParseKind(head.text)
	if err != nil || kind == Dynamic {
		return nil, fmt.Errorf("ReadUAI: header %q: %w", head.text, ErrUnsupportedKind)
	}
	m := &Model{Kind: kind}

	l.skipHeaders()
	if m.Arena, err = readVariables(l); err != nil {
		return nil, fmt.Errorf("ReadUAI: %w", err)
	}
	l.skipHeaders()
	nf, err := l.count("number of factors")
	if err != nil {
		return nil, fmt.Errorf("ReadUAI: %w", err)
	}
	if err := l.expect(nf, "factors"); err != nil {
		return nil, fmt.Errorf("ReadUAI: %w", err)
	}
	doms := make([]*factor.Domain, nf)
	for i := range doms {
		l.skipHeaders()
		if doms[i], err = readScope(l, m.Arena, i); err != nil {
			return nil, fmt.Errorf("ReadUAI: %w", err)
		}
	}
	for i, dom := range doms {
		l.skipHeaders()
		f, err := readTable(l, dom, i)
		if err != nil {
			return nil, fmt.Errorf("ReadUAI: %w", err)
		}
		m.Factors = append(m.Factors, f)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("ReadUAI: %w", err)
	}

	return m, nil
}

// readVariables reads "<n> card..." into a fresh arena.
func readVariables(l *lexer) (*factor.Arena, error) {
	line := l.line()
	n, err := l.count("number of variables")
	if err != nil {
		return nil, err
	}
	cards, err := l.ints(n, "cardinality")
	if err != nil {
		return nil, err
	}
	arena, err := factor.NewArena(cards...)
	if err != nil {
		return nil, inconsistentf("line %d: variables: %v", line, err)
	}

	return arena, nil
}

// readScope reads "<width> id..." and builds the factor domain.
func readScope(l *lexer, arena *factor.Arena, i int) (*factor.Domain, error) {
	width, err := l.count("scope width")
	if err != nil {
		return nil, err
	}
	ids, err := l.ints(width, "variable id")
	if err != nil {
		return nil, err
	}
	scope, err := arena.Lookup(ids)
	if err != nil {
		return nil, inconsistentf("factor %d: %v", i, err)
	}
	dom, err := factor.NewDomain(scope...)
	if err != nil {
		return nil, inconsistentf("factor %d: %v", i, err)
	}
	if dom.Width() != width {
		return nil, inconsistentf("factor %d: scope %v repeats a variable", i, ids)
	}

	return dom, nil
}

// readTable reads "<size> v..." for dom.
func readTable(l *lexer, dom *factor.Domain, i int) (*factor.Dense, error) {
	size, err := l.count("table size")
	if err != nil {
		return nil, err
	}
	if size != dom.Size() {
		return nil, inconsistentf("factor %d: table has %d values, scope has %d instantiations", i, size, dom.Size())
	}
	if err := l.expect(size, "table values"); err != nil {
		return nil, err
	}
	values := make([]float64, size)
	for k := range values {
		if values[k], err = l.float("table value"); err != nil {
			return nil, err
		}
	}

	return factor.NewDense(dom, values)
}

// WriteUAI renders a static model in UAI format.
func WriteUAI(w io.Writer, m *Model) error {
	if m.Kind == Dynamic {
		return fmt.Errorf("WriteUAI: %s: %w", m.Kind, ErrUnsupportedKind)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, m.Kind)
	writeCards(bw, m.Arena)
	fmt.Fprintln(bw, len(m.Factors))
	for _, f := range m.Factors {
		writeScope(bw, f.Domain())
	}
	fmt.Fprintln(bw)
	for _, f := range m.Factors {
		writeValues(bw, f)
	}

	return bw.Flush()
}

func writeCards(w io.Writer, arena *factor.Arena) {
	vars := arena.Variables()
	cards := make([]string, len(vars))
	for i, v := range vars {
		cards[i] = fmt.Sprint(v.Card)
	}
	fmt.Fprintln(w, len(vars))
	fmt.Fprintln(w, strings.Join(cards, " "))
}

func writeScope(w io.Writer, dom *factor.Domain) {
	fmt.Fprint(w, dom.Width())
	for _, id := range factor.IDs(dom.Scope()) {
		fmt.Fprint(w, " ", id)
	}
	fmt.Fprintln(w)
}

func writeValues(w io.Writer, f *factor.Dense) {
	fmt.Fprint(w, f.Size())
	for _, v := range f.Values() {
		fmt.Fprint(w, " ", formatFloat(v))
	}
	fmt.Fprintln(w)
}
