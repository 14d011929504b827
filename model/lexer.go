// SPDX-License-Identifier: MIT

package model

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// maxLine bounds a single input line; factor rows of wide tables are long.
const maxLine = 1 << 26

// token is a whitespace-separated word, or a whole '#' line (header).
type token struct {
	text   string
	line   int
	header bool
}

// lexer walks the tokens of a text model or observation file.
type lexer struct {
	toks []token
	pos  int
}

// lex splits r into tokens. A line whose first non-blank rune is '#' becomes
// one header token holding the title after '#'.
func lex(r io.Reader) (*lexer, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	l := &lexer{}
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(text, "#") {
			l.toks = append(l.toks, token{text: strings.TrimSpace(text[1:]), line: line, header: true})
			continue
		}
		for _, w := range strings.Fields(text) {
			l.toks = append(l.toks, token{text: w, line: line})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return l, nil
}

// peek returns the next token without consuming it.
func (l *lexer) peek() (token, bool) {
	if l.pos >= len(l.toks) {
		return token{}, false
	}

	return l.toks[l.pos], true
}

// next consumes the next token.
func (l *lexer) next() (token, bool) {
	t, ok := l.peek()
	if ok {
		l.pos++
	}

	return t, ok
}

// skipHeaders consumes header tokens (comments, for formats without sections).
func (l *lexer) skipHeaders() {
	for t, ok := l.peek(); ok && t.header; t, ok = l.peek() {
		l.pos++
	}
}

// atValue reports whether a non-header token follows.
func (l *lexer) atValue() bool {
	t, ok := l.peek()

	return ok && !t.header
}

// word consumes a non-header token.
func (l *lexer) word(what string) (token, error) {
	t, ok := l.next()
	if !ok {
		return token{}, syntaxErrorf(0, "expected %s", what)
	}
	if t.header {
		return token{}, syntaxErrorf(t.line, "expected %s, found section %q", what, t.text)
	}

	return t, nil
}

// integer consumes an integer token.
func (l *lexer) integer(what string) (int, error) {
	t, err := l.word(what)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, syntaxErrorf(t.line, "expected %s, found %q", what, t.text)
	}

	return n, nil
}

// count consumes a non-negative integer token.
func (l *lexer) count(what string) (int, error) {
	t, _ := l.peek()
	n, err := l.integer(what)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, syntaxErrorf(t.line, "negative %s %d", what, n)
	}

	return n, nil
}

// remaining returns the number of tokens not yet consumed.
func (l *lexer) remaining() int { return len(l.toks) - l.pos }

// expect fails unless n more tokens are available; declared counts are
// checked with it before anything is allocated from them.
func (l *lexer) expect(n int, what string) error {
	if left := l.remaining(); n > left {
		return syntaxErrorf(l.line(), "%d %s declared, %d tokens left", n, what, left)
	}

	return nil
}

// ints consumes n integer tokens.
func (l *lexer) ints(n int, what string) ([]int, error) {
	if err := l.expect(n, what); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := range out {
		v, err := l.integer(what)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// float consumes a floating-point token.
func (l *lexer) float(what string) (float64, error) {
	t, err := l.word(what)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return 0, syntaxErrorf(t.line, "expected %s, found %q", what, t.text)
	}

	return v, nil
}

// line returns the line of the next token (0 at end of input).
func (l *lexer) line() int {
	t, _ := l.peek()

	return t.line
}

// formatFloat renders a table cell the shortest way that reads back exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
