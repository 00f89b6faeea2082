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

import (
	"fmt"
	"strings"
	"unicode"
)

// featureNames returns the feature names used in the if-feature expression
// expr, in order of appearance.  The grammar is that of RFC 7950:
//
//	expr   = term { "or" term }
//	term   = factor { "and" factor }
//	factor = "not" factor | "(" expr ")" | identifier-ref
func featureNames(expr string) ([]string, error) {
	p := &featureParser{toks: featureTokens(expr)}
	if len(p.toks) == 0 {
		return nil, fmt.Errorf("empty if-feature expression")
	}
	if err := p.expr(); err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("unexpected %q in if-feature expression %q", p.toks[p.pos], expr)
	}
	return p.names, nil
}

// featureTokens splits an if-feature expression into parentheses and words.
func featureTokens(expr string) []string {
	var toks []string
	start := -1
	for i, c := range expr {
		switch {
		case c == '(' || c == ')':
			if start >= 0 {
				toks = append(toks, expr[start:i])
				start = -1
			}
			toks = append(toks, string(c))
		case unicode.IsSpace(c):
			if start >= 0 {
				toks = append(toks, expr[start:i])
				start = -1
			}
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		toks = append(toks, expr[start:])
	}
	return toks
}

type featureParser struct {
	toks  []string
	pos   int
	names []string
}

func (p *featureParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *featureParser) expr() error {
	if err := p.term(); err != nil {
		return err
	}
	for p.peek() == "or" {
		p.pos++
		if err := p.term(); err != nil {
			return err
		}
	}
	return nil
}

func (p *featureParser) term() error {
	if err := p.factor(); err != nil {
		return err
	}
	for p.peek() == "and" {
		p.pos++
		if err := p.factor(); err != nil {
			return err
		}
	}
	return nil
}

func (p *featureParser) factor() error {
	switch tok := p.peek(); tok {
	case "":
		return fmt.Errorf("if-feature expression ends early")
	case "not":
		p.pos++
		return p.factor()
	case "(":
		p.pos++
		if err := p.expr(); err != nil {
			return err
		}
		if p.peek() != ")" {
			return fmt.Errorf("missing ) in if-feature expression")
		}
		p.pos++
		return nil
	case ")", "and", "or":
		return fmt.Errorf("unexpected %q in if-feature expression", tok)
	default:
		p.pos++
		p.names = append(p.names, tok)
		return nil
	}
}

// resolveIfFeature checks that every feature named by the if-feature
// expression r.Ref exists.
func (ms *Modules) resolveIfFeature(r *Resolvable, cross bool) ([]*Resolvable, error) {
	names, err := featureNames(r.Ref)
	if err != nil {
		return nil, errorf(StructuralError, "InvalidIfFeature", r.Loc, "%v", err)
	}
	var missing []string
	for _, name := range names {
		id, lerr := ms.findTop(FeatureNode, name, r.Node, r.Loc, cross)
		if lerr != nil {
			return nil, lerr
		}
		if id == NoNode {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		r.deferred(errorf(UnresolvedReferenceError, "UnresolvedFeature", r.Loc, "feature %s not found", strings.Join(missing, ", ")))
		return nil, nil
	}
	r.advance(Resolved)
	return nil, nil
}
