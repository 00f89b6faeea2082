// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yang

// This file implements the lexical tokenization of yang.  The lexer produces
// a slice of tokens with one of the following codes:
//
//    tEOF         // end-of-file
//    tString      // A de-quoted string (e.g., "\"bob\"" becomes "bob")
//    tUnquoted    // An un-quoted string
//    '{'
//    ';'
//    '}'

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	eof       = 0x7fffffff // end of file, also an invalid rune
	maxErrors = 8
)

// stateFn represents a state in the lexer as a function, returning the next
// state the lexer should move to.
type stateFn func(*lexer) stateFn

// A lexer holds the internal state of the lexer.
type lexer struct {
	file  string // name of file we are processing
	input string // contents of the file
	start int    // start position in input of unconsumed data.
	pos   int    // current position in the input.
	line  int    // the current line number (1's based)
	col   int    // the current column number (0 based, add 1 before displaying)
	tcol  int    // column with tabs expanded (for multi-line strings)
	scol  int    // starting col of current token
	sline int    // starting line of current token
	width int    // width of last rune read from input.

	tokens []*token
	errs   []error
}

// A code is a token code.  Single character tokens (i.e., punctuation)
// are represented by their unicode code point.
type code int

const (
	tEOF      = code(-1 - iota) // Reached end of file
	tString                     // A dequoted string
	tUnquoted                   // A non-quoted string
)

// String returns c as a string.
func (c code) String() string {
	switch c {
	case tEOF:
		return "EOF"
	case tString:
		return "String"
	case tUnquoted:
		return "Unquoted"
	}
	if c < 0 || c > '~' {
		return fmt.Sprintf("%d", c)
	}
	return fmt.Sprintf("'%c'", c)
}

// A token represents one lexical unit read from the input.
type token struct {
	code code
	Text string // the actual text of the token
	Loc  Location
}

// Code returns the code of t.  If t is nil, tEOF is returned.
func (t *token) Code() code {
	if t == nil {
		return tEOF
	}
	return t.code
}

// String returns the location, code, and text of t as a string.
func (t *token) String() string {
	if t.Text == "" {
		return fmt.Sprintf("%s: %v", t.Loc, t.code)
	}
	return fmt.Sprintf("%s: %s", t.Loc, t.Text)
}

// lex tokenizes input, read from the file named path.  Lexing stops after
// maxErrors errors.
func lex(input, path string) ([]*token, []error) {
	// Force input to be newline terminated.
	if len(input) > 0 && input[len(input)-1] != '\n' {
		input += "\n"
	}
	l := &lexer{
		file:  path,
		input: input,
		line:  1, // humans start with 1
	}
	for state := stateFn(lexGround); state != nil; {
		state = state(l)
	}
	return l.tokens, l.errs
}

// emit emits the currently parsed token marked with code c using emitText.
func (l *lexer) emit(c code) {
	l.emitText(c, l.input[l.start:l.pos])
}

// emitText emits text as a token marked with c.
// All input up to the current cursor (pos) is consumed.
func (l *lexer) emitText(c code, text string) {
	l.tokens = append(l.tokens, &token{
		code: c,
		Text: text,
		Loc:  Location{File: l.file, Line: l.sline, Col: l.scol + 1},
	})
	l.consume()
}

// consume consumes all input to the current cursor.
func (l *lexer) consume() {
	l.start = l.pos
}

// backup steps back one rune.  It can be called only immediately after a call
// of next.  Backing up over a tab will set tcol to the last position of the
// tab, not where the tab started.  This is okay as when we call next again it
// will move tcol back to where it was before backup was called.
func (l *lexer) backup() {
	l.pos -= l.width
	if l.width > 0 {
		l.col--
		l.tcol--
		if l.col < 0 {
			// We backed up over a newline.  The next call to next
			// resets the column.
			l.line--
			l.col = 0
			l.tcol = 0
		}
	}
}

// peek returns but does not move past the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// ahead reports whether the unread input starts with s.
func (l *lexer) ahead(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// next returns the next rune in the input.  If next encounters the end of input
// then it will return eof.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	var r rune
	r, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	switch r {
	case '\n':
		l.line++
		l.col = 0
		l.tcol = 0
	case '\t':
		l.tcol = (l.tcol + 8) & ^7
		l.col++
	default:
		l.tcol++
		l.col++
	}
	return r
}

// acceptRun moves the cursor forward up to, but not including, the first rune
// not found in the valid set.  It returns true if any runes were accepted.
func (l *lexer) acceptRun(valid string) bool {
	ret := false
	for strings.ContainsRune(valid, l.next()) {
		ret = true
	}
	l.backup()
	return ret
}

// skipTo moves the cursor up to, but not including, s.
// Returns whether s was found in the remaining input.
func (l *lexer) skipTo(s string) bool {
	x := strings.Index(l.input[l.pos:], s)
	if x < 0 {
		return false
	}
	skipped := l.input[l.pos : l.pos+x]
	l.pos += x
	l.width = x
	if c := strings.Count(skipped, "\n"); c > 0 {
		l.line += c
		l.col = 0
	}
	l.col += utf8.RuneCountInString(skipped[strings.LastIndex(skipped, "\n")+1:])
	return true
}

// errorAt records an error at line and col (0 based).  Once maxErrors errors
// are recorded the rest of the input is dropped.
func (l *lexer) errorAt(line, col int, f string, v ...interface{}) {
	if len(l.errs) >= maxErrors {
		return
	}
	loc := Location{File: l.file, Line: line, Col: col + 1}
	l.errs = append(l.errs, fmt.Errorf("%s: %s", loc, fmt.Sprintf(f, v...)))
	if len(l.errs) == maxErrors {
		l.errs = append(l.errs, fmt.Errorf("%s: too many errors", l.file))
		l.input = l.input[:l.pos]
	}
	l.consume()
}

// lexGround is the state when the lexer is not in the middle of a token.  The
// ground state is left once the start of a token is found.  Pure comment lines
// leave the lexer in the ground state.
func lexGround(l *lexer) stateFn {
	l.acceptRun(" \t\r\n") // Skip leading spaces
	l.consume()
	l.sline = l.line
	l.scol = l.col

	switch c := l.peek(); c {
	case eof:
		return nil
	case ';', '{', '}':
		l.next()
		l.emit(code(c))
		return lexGround
	case '\'':
		l.next()
		l.consume() // Toss the leading '
		if !l.skipTo("'") {
			l.errorAt(l.line, l.col-1, `missing closing '`)
			return nil
		}
		l.emit(tString)
		l.next() // the matching '
		return lexGround
	case '"':
		l.next()
		return lexQString
	case '/':
		switch {
		case l.ahead("//"):
			l.skipTo("\n")
			return lexGround
		case l.ahead("/*"):
			if !l.skipTo("*/") {
				l.errorAt(l.line, l.col, `missing closing */`)
				return nil
			}
			l.next()
			l.next()
			return lexGround
		}
		return lexUnquoted
	case '+':
		l.next()
		switch l.peek() {
		case '"', '\'':
			l.emit(tUnquoted)
			return lexGround
		}
		return lexUnquoted
	default:
		return lexUnquoted
	}
}

// From the YANG standard:
//
//   If the double-quoted string contains a line break followed by space
//   or tab characters that are used to indent the text according to the
//   layout in the YANG file, this leading whitespace is stripped from the
//   string, up to and including the column of the double quote character,
//   or to the first non-whitespace character, whichever occurs first.  In
//   this process, a tab character is treated as 8 space characters.
//
//   If the double-quoted string contains space or tab characters before a
//   line break, this trailing whitespace is stripped from the string.

// lexQString handles double quoted strings, see the above text on how they
// work.  The leading " has already been read.  Escapes other than \n, \t, \"
// and \\ are kept as written, they are meaningful in patterns.
func lexQString(l *lexer) stateFn {
	indent := l.tcol // the column our text starts on
	over := true     // set to false when we are not past the indent

	line, col := l.line, l.col-1

	var text strings.Builder
	for {
		switch c := l.next(); c {
		case eof:
			l.errorAt(line, col, `missing closing "`)
			return nil
		case '"':
			l.emitText(tString, text.String())
			return lexGround
		case '\n':
			s := strings.TrimRight(text.String(), " \t")
			text.Reset()
			text.WriteString(s)
			text.WriteRune(c)
			over = false
		case ' ', '\t':
			// Ignore leading white space up to our indent.
			if !over && l.tcol <= indent {
				break
			}
			over = true
			text.WriteRune(c)
		case '\\':
			over = true
			switch e := l.next(); e {
			case 'n':
				text.WriteRune('\n')
			case 't':
				text.WriteRune('\t')
			case '"', '\\':
				text.WriteRune(e)
			case eof:
				l.errorAt(line, col, `missing closing "`)
				return nil
			default:
				text.WriteRune('\\')
				text.WriteRune(e)
			}
		default:
			over = true
			text.WriteRune(c)
		}
	}
}

// lexUnquoted reads one identifier/number/un-quoted-string/...
//
// From https://tools.ietf.org/html/rfc7950#section-6.1.3:
// An unquoted string is any sequence of characters that does not
// contain any space, tab, carriage return, or line feed characters, a
// single or double quote character, a semicolon (";"), braces ("{" or
// "}"), or comment sequences ("//", "/*", or "*/").
func lexUnquoted(l *lexer) stateFn {
	for {
		switch c := l.peek(); c {
		case ' ', '\r', '\n', '\t', ';', '"', '\'', '{', '}', eof:
			l.emit(tUnquoted)
			return lexGround
		case '/':
			if l.pos > l.start && (l.ahead("//") || l.ahead("/*")) {
				l.emit(tUnquoted)
				return lexGround
			}
			l.next()
		default:
			l.next()
		}
	}
}
