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

// This file implements Parse, which parses the input as generic YANG and
// returns a slice of base Statements (which in turn may contain more
// Statements, i.e., a slice of Statement trees.)

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Statement is a generic YANG statement that may have sub-statements.
//
// From https://tools.ietf.org/html/rfc7950#section-6.3:
// statement = keyword [argument] (";" / "{" *statement "}")
// The argument is a string.
type Statement struct {
	Keyword     string
	HasArgument bool
	Argument    string
	statements  []*Statement

	loc Location
}

// Arg returns the optional argument to s.  It returns false if s has no
// argument.
func (s *Statement) Arg() (string, bool) { return s.Argument, s.HasArgument }

// SubStatements returns a slice of Statements found in s.
func (s *Statement) SubStatements() []*Statement { return s.statements }

// Loc returns the location in the source where s was defined.
func (s *Statement) Loc() Location { return s.loc }

// Location returns the location in the source where s was defined as a
// string.
func (s *Statement) Location() string { return s.loc.String() }

// Write writes the tree in s to w, each line indented by ident.  Children
// nodes are indented further by a tab.  Typically indent is "" at the top
// level.  Write is intended to display the contents of Statement, but
// not necessarily reproduce the input of Statement.
func (s *Statement) Write(w io.Writer, indent string) error {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(s.Keyword)
	if s.HasArgument {
		args := strings.Split(s.Argument, "\n")
		fmt.Fprintf(&b, " %q", args[0])
		if len(args) > 1 {
			pad := indent + strings.Repeat(" ", len(s.Keyword)+1)
			for _, a := range args[1:] {
				fmt.Fprintf(&b, " +\n%s%q", pad, "\n"+a)
			}
		}
	}
	if len(s.statements) == 0 {
		_, err := fmt.Fprintf(w, "%s;\n", b.String())
		return err
	}
	if _, err := fmt.Fprintf(w, "%s {\n", b.String()); err != nil {
		return err
	}
	for _, ss := range s.statements {
		if err := ss.Write(w, indent+"\t"); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s}\n", indent)
	return err
}

// a parser is used to parse the tokens of a single .yang file.
type parser struct {
	tokens []*token
	pos    int
	errs   []error
	depth  int // statements open
	file   string
}

// Parse parses the input as generic YANG and returns the statements parsed.
// The path parameter should be the source name where input was read from (e.g.,
// the file name the input was read from).  If one more more errors are
// encountered, nil and an error are returned.  The error's text includes all
// errors encountered, one per line.
func Parse(input, path string) ([]*Statement, error) {
	tokens, errs := lex(input, path)
	p := &parser{tokens: tokens, errs: errs, file: path}

	var statements []*Statement
	for p.peek().Code() != tEOF {
		if t := p.peek(); t.Code() == '}' {
			p.errorf(t.Loc, "unexpected }")
			p.pos++
			continue
		}
		if s := p.statement(); s != nil {
			statements = append(statements, s)
		}
	}
	if len(p.errs) == 0 && p.depth != 0 {
		plural := ""
		if p.depth > 1 {
			plural = "s"
		}
		p.errorf(Location{File: path}, "missing %d closing brace%s", p.depth, plural)
	}
	if len(p.errs) == 0 {
		return statements, nil
	}
	msgs := make([]string, len(p.errs))
	for i, err := range p.errs {
		msgs[i] = err.Error()
	}
	return nil, errors.New(strings.Join(msgs, "\n"))
}

func (p *parser) errorf(loc Location, format string, v ...interface{}) {
	p.errs = append(p.errs, fmt.Errorf("%s: %s", loc, fmt.Sprintf(format, v...)))
}

// peek returns the next token without consuming it, nil at the end.
func (p *parser) peek() *token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return nil
}

// next returns the next token.  A string followed by "+" and another string
// is returned as one string, see
// https://tools.ietf.org/html/rfc7950#section-6.1.3.1.
func (p *parser) next() *token {
	t := p.peek()
	if t == nil {
		return nil
	}
	p.pos++
	if t.code != tString {
		return t
	}
	text := t.Text
	for p.pos+1 < len(p.tokens) {
		plus, s := p.tokens[p.pos], p.tokens[p.pos+1]
		if plus.code != tUnquoted || plus.Text != "+" || s.code != tString {
			break
		}
		text += s.Text
		p.pos += 2
	}
	if text == t.Text {
		return t
	}
	return &token{code: tString, Text: text, Loc: t.Loc}
}

// statement parses the statement starting at the next token, including its
// sub statements.  It returns nil after a syntax error.
func (p *parser) statement() *Statement {
	t := p.next()
	if t.Code() != tUnquoted {
		p.errorf(t.Loc, "keyword token not an unquoted string: %v", t.code)
		return nil
	}
	s := &Statement{Keyword: t.Text, loc: t.Loc}

	t = p.next()
	switch t.Code() {
	case tString, tUnquoted:
		s.HasArgument = true
		s.Argument = t.Text
		t = p.next()
	}

	switch t.Code() {
	case tEOF:
		p.errorf(Location{File: p.file}, "unexpected EOF")
		return nil
	case ';':
		return s
	case '{':
		p.depth++
		for {
			switch nt := p.peek(); nt.Code() {
			case tEOF:
				return nil
			case '}':
				p.pos++
				p.depth--
				return s
			default:
				if ss := p.statement(); ss != nil {
					s.statements = append(s.statements, ss)
				}
			}
		}
	default:
		p.errorf(t.Loc, "syntax error, expected ';' or '{'")
		return nil
	}
}
