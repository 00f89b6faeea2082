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
)

// stripPredicates removes the [...] predicates from a leafref path.
func stripPredicates(path string) (string, error) {
	var b strings.Builder
	depth := 0
	var quote rune
	for _, c := range path {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			continue
		case depth > 0 && (c == '"' || c == '\''):
			quote = c
			continue
		case c == '[':
			depth++
			continue
		case c == ']':
			if depth == 0 {
				return "", fmt.Errorf("unbalanced ] in %q", path)
			}
			depth--
			continue
		}
		if depth == 0 && c != ' ' && c != '\t' && c != '\n' {
			b.WriteRune(c)
		}
	}
	if depth != 0 || quote != 0 {
		return "", fmt.Errorf("unterminated predicate in %q", path)
	}
	return b.String(), nil
}

// dataParent returns the parent of id in the data tree, skipping choice and
// case nodes.
func (t *Tree) dataParent(id NodeID) NodeID {
	p := t.Node(id).Parent
	for p != NoNode && (t.nodes[p].Kind == ChoiceNode || t.nodes[p].Kind == CaseNode) {
		p = t.nodes[p].Parent
	}
	return p
}

// topLevel returns the data node named name at the top level of the named
// module.  Only the unit u is searched unless cross is true.
func (ms *Modules) topLevel(u *Unit, module, name string, cross bool) NodeID {
	roots := []NodeID{u.Root}
	if cross {
		roots = ms.moduleRoots(module)
	} else if u.Module != module {
		return NoNode
	}
	for _, root := range roots {
		if id := ms.Tree.findTransparent(root, name); id != NoNode {
			return id
		}
	}
	return NoNode
}

// resolveLeafref resolves the path of the leafref type r.Type against the
// expanded tree, relative to r.Node.  The path must end on a leaf or
// leaf-list.  A step that cannot be found yet defers the entry, since a later
// uses or augment may still add it.
func (ms *Modules) resolveLeafref(r *Resolvable, cross bool) ([]*Resolvable, error) {
	t := r.Type
	invalid := func(format string, v ...interface{}) *LinkError {
		e := errorf(InvalidLeafrefOrTypeError, "InvalidLeafrefTarget", t.Loc, "leafref path %q: %s", t.Path, fmt.Sprintf(format, v...))
		e.Path = ms.Tree.Path(r.Node)
		return e
	}
	path, err := stripPredicates(t.Path)
	if err != nil {
		return nil, invalid("%v", err)
	}
	if path == "" {
		return nil, invalid("empty path")
	}
	pu := ms.unitOf(t.pathScope)
	home := ms.unitOf(r.Node)

	cur := r.Node
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		parts = parts[1:]
		cur = NoNode
	}
	for _, p := range parts {
		switch p {
		case "":
			return nil, invalid("empty step")
		case ".":
			continue
		case "..":
			if cur == NoNode {
				return nil, invalid(".. in absolute path")
			}
			if cur = ms.Tree.dataParent(cur); cur == NoNode {
				return nil, invalid("climbs above the top of the tree")
			}
			continue
		}
		prefix, name := getPrefix(p)
		next := NoNode
		if cur == NoNode || ms.Tree.Node(cur).Kind == ModuleNode || ms.Tree.Node(cur).Kind == SubModuleNode {
			module := home.Module
			if prefix != "" {
				target, _, err := ms.unitForPrefix(pu, prefix, t.Loc)
				if err != nil {
					return nil, err
				}
				if target == nil {
					r.deferred(invalid("module for prefix %s not loaded", prefix))
					return nil, nil
				}
				module = target.Module
			}
			next = ms.topLevel(home, module, name, cross)
		} else {
			next = ms.Tree.findTransparent(cur, name)
		}
		if next == NoNode {
			r.deferred(invalid("node %s not found", p))
			return nil, nil
		}
		cur = next
	}
	if cur == NoNode {
		return nil, invalid("path names no node")
	}
	n := ms.Tree.Node(cur)
	if n.Kind != LeafNode && n.Kind != LeafListNode {
		return nil, invalid("target %s is a %s, not a leaf or leaf-list", ms.Tree.Path(cur), n.Kind)
	}
	t.Target = cur
	r.Target = cur
	r.advance(Resolved)
	return nil, nil
}
