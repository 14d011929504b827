// SPDX-License-Identifier: MIT

package model

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/katalvlaran/dbn/factor"
)

// maxEmptySteps bounds the length of a stream that declares no sensor.
const maxEmptySteps = 1 << 20

// missing marks an unobserved sensor at one step in the text format.
const missing = "*"

// ReadEvidence parses an observation stream:
//
//	<nsensors> <T>
//	<sensor id> <o_1> .. <o_T>      (nsensors rows; "*" = not observed)
//	<nstate> <state id> ..          (optional)
//
// Errors:
//   - ErrSyntax (*SyntaxError): malformed tokens, repeated sensor rows.
func ReadEvidence(r io.Reader) (*Observations, error) {
	l, err := lex(r)
	if err != nil {
		return nil, fmt.Errorf("ReadEvidence: %w", err)
	}
	o, err := parseEvidence(l)
	if err != nil {
		return nil, fmt.Errorf("ReadEvidence: %w", err)
	}

	return o, nil
}

func parseEvidence(l *lexer) (*Observations, error) {
	l.skipHeaders()
	ns, err := l.count("number of sensors")
	if err != nil {
		return nil, err
	}
	steps, err := l.count("number of steps")
	if err != nil {
		return nil, err
	}
	if err := expectRows(l, ns, steps); err != nil {
		return nil, err
	}
	o := &Observations{Steps: make([]factor.Evidence, steps)}
	for t := range o.Steps {
		o.Steps[t] = make(factor.Evidence, ns)
	}

	rows := make(map[int]bool, ns)
	for s := 0; s < ns; s++ {
		l.skipHeaders()
		line := l.line()
		id, err := l.integer("sensor id")
		if err != nil {
			return nil, err
		}
		if rows[id] {
			return nil, syntaxErrorf(line, "sensor %d listed twice", id)
		}
		rows[id] = true
		for t := 0; t < steps; t++ {
			tok, err := l.word("observation")
			if err != nil {
				return nil, err
			}
			if tok.text == missing {
				continue
			}
			val, err := strconv.Atoi(tok.text)
			if err != nil {
				return nil, syntaxErrorf(tok.line, "expected observation, found %q", tok.text)
			}
			o.Steps[t][id] = val
		}
	}

	l.skipHeaders()
	if !l.atValue() {
		return o, nil
	}
	n, err := l.count("number of state variables")
	if err != nil {
		return nil, err
	}
	if o.State, err = l.ints(n, "state variable id"); err != nil {
		return nil, err
	}
	if l.atValue() {
		return nil, syntaxErrorf(l.line(), "unexpected trailing value")
	}

	return o, nil
}

// expectRows checks that ns rows of one id and steps observations can
// follow. A stream without sensors carries no tokens, so its length is
// capped at maxEmptySteps instead.
func expectRows(l *lexer, ns, steps int) error {
	if ns == 0 {
		if steps > maxEmptySteps {
			return syntaxErrorf(l.line(), "%d steps without sensors (at most %d)", steps, maxEmptySteps)
		}
		return nil
	}
	if steps >= l.remaining()/ns {
		return syntaxErrorf(l.line(), "%d sensors over %d steps declared, %d tokens left", ns, steps, l.remaining())
	}

	return nil
}

// WriteEvidence renders o in the text format; sensor rows are sorted by id.
func WriteEvidence(w io.Writer, o *Observations) error {
	seen := make(map[int]struct{})
	for _, ev := range o.Steps {
		for id := range ev {
			seen[id] = struct{}{}
		}
	}
	sensors := sortedIDs(seen)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", len(sensors), len(o.Steps))
	for _, id := range sensors {
		fmt.Fprint(bw, id)
		for _, ev := range o.Steps {
			if val, ok := ev[id]; ok {
				fmt.Fprint(bw, " ", val)
			} else {
				fmt.Fprint(bw, " ", missing)
			}
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprint(bw, len(o.State))
	for _, id := range o.State {
		fmt.Fprint(bw, " ", id)
	}
	fmt.Fprintln(bw)

	return bw.Flush()
}
