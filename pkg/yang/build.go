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

// This file implements the builder, which turns the Statement tree of one
// module or submodule into nodes of the Tree and registers every reference
// found along the way for the linker.

import (
	"errors"
	"strconv"
	"strings"
)

// nodeKeywords maps the keywords of statements that become nodes to the kind
// of node.
var nodeKeywords = map[string]NodeKind{
	"container":    ContainerNode,
	"list":         ListNode,
	"leaf":         LeafNode,
	"leaf-list":    LeafListNode,
	"choice":       ChoiceNode,
	"case":         CaseNode,
	"anydata":      AnyDataNode,
	"anyxml":       AnyXMLNode,
	"grouping":     GroupingNode,
	"uses":         UsesNode,
	"typedef":      TypedefNode,
	"identity":     IdentityNode,
	"feature":      FeatureNode,
	"augment":      AugmentNode,
	"deviation":    DeviationNode,
	"notification": NotificationNode,
	"rpc":          RPCNode,
	"input":        InputNode,
	"output":       OutputNode,
	"action":       ActionNode,
}

// headerKeywords are module and submodule statements handled before the
// body is built.
var headerKeywords = map[string]bool{
	"yang-version": true,
	"namespace":    true,
	"prefix":       true,
	"belongs-to":   true,
	"import":       true,
	"include":      true,
	"revision":     true,
	"organization": true,
	"contact":      true,
	"extension":    true,
}

// A builder builds one unit.
type builder struct {
	ms   *Modules
	t    *Tree
	u    *Unit
	errs []error
}

func (b *builder) errorf(code string, loc Location, format string, v ...interface{}) {
	b.errs = append(b.errs, errorf(StructuralError, code, loc, format, v...))
}

// register adds entries to the worklist of the unit being built.
func (b *builder) register(rs ...*Resolvable) {
	b.u.Registry.Add(rs...)
}

// build creates the unit for the module or submodule statement s.  Errors
// found while building are returned joined; the unit is not usable then.
func (ms *Modules) build(s *Statement) (*Unit, error) {
	var kind NodeKind
	switch s.Keyword {
	case "module":
		kind = ModuleNode
	case "submodule":
		kind = SubModuleNode
	default:
		return nil, errorf(StructuralError, "NotAModule", s.Loc(), "%s is not a module or submodule", s.Keyword)
	}
	if !s.HasArgument {
		return nil, errorf(StructuralError, "MissingArgument", s.Loc(), "%s has no name", s.Keyword)
	}
	root := ms.Tree.NewNode(kind, s.Argument, s.Loc())
	u := &Unit{
		Name:       s.Argument,
		Kind:       kind,
		Root:       root,
		Module:     s.Argument,
		Source:     s.Loc().File,
		Imports:    map[string]*Import{},
		Registry:   NewRegistry(),
		identities: map[string]NodeID{},
		features:   map[string]NodeID{},
	}
	b := &builder{ms: ms, t: ms.Tree, u: u}
	b.header(s)
	rn := ms.Tree.Node(root)
	rn.Unit = root
	rn.Module = u.Module

	for _, ss := range s.SubStatements() {
		if headerKeywords[ss.Keyword] {
			continue
		}
		b.statement(root, ss)
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(errorSort(b.errs)...)
	}
	return u, nil
}

// header fills in u from the header statements of s.
func (b *builder) header(s *Statement) {
	u := b.u
	for _, ss := range s.SubStatements() {
		switch ss.Keyword {
		case "namespace":
			u.Namespace = ss.Argument
		case "prefix":
			u.Prefix = ss.Argument
		case "belongs-to":
			u.Module = ss.Argument
			for _, p := range ss.SubStatements() {
				if p.Keyword == "prefix" {
					u.Prefix = p.Argument
				}
			}
		case "revision":
			if ss.Argument > u.Revision {
				u.Revision = ss.Argument
			}
		case "import":
			i := &Import{Module: ss.Argument, Loc: ss.Loc()}
			for _, p := range ss.SubStatements() {
				switch p.Keyword {
				case "prefix":
					i.Prefix = p.Argument
				case "revision-date":
					i.Revision = p.Argument
				}
			}
			if i.Prefix == "" {
				b.errorf("MissingPrefix", i.Loc, "import %s has no prefix", i.Module)
				continue
			}
			if o := u.Imports[i.Prefix]; o != nil || i.Prefix == u.Prefix {
				b.errs = append(b.errs, &LinkError{
					Kind:  CollisionError,
					Code:  "DuplicatePrefix",
					Ident: i.Prefix,
					Loc:   i.Loc,
					Msg:   "prefix " + i.Prefix + " is already in use",
				})
				continue
			}
			u.Imports[i.Prefix] = i
		case "include":
			i := &Include{Module: ss.Argument, Loc: ss.Loc()}
			for _, p := range ss.SubStatements() {
				if p.Keyword == "revision-date" {
					i.Revision = p.Argument
				}
			}
			u.Includes = append(u.Includes, i)
		}
	}
	if u.Kind == SubModuleNode && u.Module == u.Name {
		b.errorf("MissingBelongsTo", s.Loc(), "submodule %s has no belongs-to", u.Name)
	}
}

// statement handles s, a substatement of the node parent.
func (b *builder) statement(parent NodeID, s *Statement) {
	if kind, ok := nodeKeywords[s.Keyword]; ok {
		b.node(parent, kind, s)
		return
	}
	if strings.Contains(s.Keyword, ":") {
		if isAnnotation(s) {
			b.register(&Resolvable{Kind: CompilerAnnotation, Node: parent, Ref: s.Argument, Loc: s.Loc(), Target: NoNode, unit: b.u, stmt: s})
			return
		}
		n := b.t.Node(parent)
		n.Extensions = append(n.Extensions, s)
		return
	}
	b.property(parent, s)
}

// node creates the node of kind for s under parent and builds its
// substatements.
func (b *builder) node(parent NodeID, kind NodeKind, s *Statement) {
	t := b.t
	name := s.Argument
	switch kind {
	case InputNode, OutputNode:
		name = s.Keyword
	default:
		if !s.HasArgument {
			b.errorf("MissingArgument", s.Loc(), "%s has no name", s.Keyword)
			return
		}
	}
	p := t.Node(parent)
	switch kind {
	case AugmentNode:
		if p.Kind != ModuleNode && p.Kind != SubModuleNode && p.Kind != UsesNode {
			b.errorf("InvalidParent", s.Loc(), "augment %s cannot be a child of %s", name, p.Kind)
			return
		}
	case DeviationNode:
		if p.Kind != ModuleNode && p.Kind != SubModuleNode {
			b.errorf("InvalidParent", s.Loc(), "deviation %s must be at the top level", name)
			return
		}
	case IdentityNode, FeatureNode:
		if p.Kind != ModuleNode && p.Kind != SubModuleNode {
			b.errorf("InvalidParent", s.Loc(), "%s %s must be at the top level", kind, name)
			return
		}
		m := b.u.identities
		if kind == FeatureNode {
			m = b.u.features
		}
		if o, ok := m[name]; ok {
			other := t.Node(o).Loc
			b.errs = append(b.errs, &LinkError{
				Kind:      CollisionError,
				Code:      "Collision",
				Ident:     name,
				Loc:       s.Loc(),
				Other:     &other,
				NodeKind:  kind,
				OtherKind: kind,
				Path:      t.Path(parent),
				Msg:       kind.String() + " \"" + name + "\" is already defined",
			})
			return
		}
	}

	inGrouping := p.Kind == GroupingNode || t.InGrouping(parent)
	holder := parent
	if p.Kind == ChoiceNode && kind.isShorthandCase() {
		cs := b.newNode(CaseNode, name, s.Loc(), inGrouping)
		if err := t.attachChecked(parent, cs, s.Loc()); err != nil {
			b.errs = append(b.errs, err)
			return
		}
		holder = cs
	}
	id := b.newNode(kind, name, s.Loc(), inGrouping)
	if err := t.attachChecked(holder, id, s.Loc()); err != nil {
		b.errs = append(b.errs, err)
		return
	}
	n := t.Node(id)

	switch kind {
	case GroupingNode:
		n.GroupingDepth = 1
		if g := t.Ancestor(id, GroupingNode); g != NoNode {
			n.GroupingDepth = t.Node(g).GroupingDepth + 1
		}
	case UsesNode:
		n.entry = &Resolvable{Kind: Uses, Node: id, Ref: name, Loc: n.Loc, Target: NoNode, unit: b.u}
		b.register(n.entry)
	case AugmentNode:
		if p.Kind != UsesNode {
			n.entry = &Resolvable{Kind: Augment, Node: id, Ref: name, Loc: n.Loc, Target: NoNode, unit: b.u}
			b.u.augments = append(b.u.augments, id)
			b.register(n.entry)
		}
	case DeviationNode:
		n.entry = &Resolvable{Kind: Deviation, Node: id, Ref: name, Loc: n.Loc, Target: NoNode, unit: b.u}
		b.u.deviations = append(b.u.deviations, id)
		b.register(n.entry)
	case IdentityNode:
		b.u.identities[name] = id
	case FeatureNode:
		b.u.features[name] = id
	}

	for _, ss := range s.SubStatements() {
		b.statement(id, ss)
	}

	switch kind {
	case ListNode:
		for _, c := range n.Children {
			if cn := t.Node(c); cn.Kind == LeafNode {
				for _, k := range n.Keys {
					if k == cn.Name {
						cn.IsKey = true
					}
				}
			}
		}
	case LeafNode, LeafListNode, TypedefNode:
		if n.Type == nil {
			b.errorf("MissingType", n.Loc, "%s %s has no type", kind, name)
			return
		}
		b.register(b.ms.typeEntries(b.u, id, n.Type)...)
	case DeviationNode:
		if len(n.Deviates) == 0 {
			b.errorf("MissingDeviate", n.Loc, "deviation %s has no deviate", name)
		}
	}
}

// newNode creates a node of the unit being built.  Nodes inside groupings are
// not bound to a module namespace.
func (b *builder) newNode(kind NodeKind, name string, loc Location, inGrouping bool) NodeID {
	id := b.t.NewNode(kind, name, loc)
	n := b.t.Node(id)
	n.Unit = b.u.Root
	if !inGrouping {
		n.Module = b.u.Module
	}
	return id
}

// triState parses the argument of a true/false statement.
func (b *builder) triState(s *Statement) TriState {
	switch s.Argument {
	case "true":
		return TSTrue
	case "false":
		return TSFalse
	}
	b.errorf("InvalidValue", s.Loc(), "%s must be true or false, not %q", s.Keyword, s.Argument)
	return TSUnset
}

// property applies the property statement s to the node id.
func (b *builder) property(id NodeID, s *Statement) {
	n := b.t.Node(id)
	arg := s.Argument
	switch s.Keyword {
	case "description":
		n.Description = arg
	case "reference":
		n.Reference = arg
	case "status":
		n.Status = arg
	case "when":
		n.When = arg
	case "must":
		n.Must = append(n.Must, arg)
	case "if-feature":
		n.IfFeatures = append(n.IfFeatures, arg)
		b.register(&Resolvable{Kind: IfFeature, Node: id, Ref: arg, Loc: s.Loc(), Target: NoNode, unit: b.u})
	case "config":
		n.Config = b.triState(s)
	case "mandatory":
		n.Mandatory = b.triState(s)
	case "presence":
		n.Presence = arg
	case "default":
		n.Default = append(n.Default, arg)
	case "units":
		n.Units = arg
	case "min-elements":
		n.MinElements = arg
	case "max-elements":
		n.MaxElements = arg
	case "ordered-by":
		n.OrderedBy = arg
	case "key":
		if n.Kind != ListNode {
			b.errorf("InvalidStatement", s.Loc(), "key in %s %s", n.Kind, n.Name)
			return
		}
		n.Keys = strings.Fields(arg)
	case "unique":
		n.Unique = append(n.Unique, arg)
	case "type":
		switch n.Kind {
		case LeafNode, LeafListNode, TypedefNode:
			n.Type = b.typ(s, id)
		default:
			b.errorf("InvalidStatement", s.Loc(), "type in %s %s", n.Kind, n.Name)
		}
	case "base":
		if n.Kind != IdentityNode {
			b.errorf("InvalidStatement", s.Loc(), "base in %s %s", n.Kind, n.Name)
			return
		}
		b.register(&Resolvable{Kind: Base, Node: id, Ref: arg, Loc: s.Loc(), Target: NoNode, unit: b.u})
	case "refine":
		if n.Kind != UsesNode {
			b.errorf("InvalidStatement", s.Loc(), "refine in %s %s", n.Kind, n.Name)
			return
		}
		n.Refines = append(n.Refines, b.refine(id, s))
	case "deviate":
		if n.Kind != DeviationNode {
			b.errorf("InvalidStatement", s.Loc(), "deviate in %s %s", n.Kind, n.Name)
			return
		}
		if d := b.deviate(id, s); d != nil {
			n.Deviates = append(n.Deviates, d)
		}
	default:
		b.errorf("UnknownStatement", s.Loc(), "unknown statement %s in %s %s", s.Keyword, n.Kind, n.Name)
	}
}

// typ builds the type statement s declared at scope.
func (b *builder) typ(s *Statement, scope NodeID) *Type {
	t := newType(s.Argument, s.Loc(), scope)
	for _, ss := range s.SubStatements() {
		switch ss.Keyword {
		case "enum":
			t.Enums = append(t.Enums, b.member(ss, "value"))
		case "bit":
			t.Bits = append(t.Bits, b.member(ss, "position"))
		case "path":
			t.Path = ss.Argument
		case "require-instance":
			t.RequireInstance = b.triState(ss)
		case "base":
			t.Bases = append(t.Bases, ss.Argument)
		case "fraction-digits":
			fd, err := strconv.Atoi(ss.Argument)
			if err != nil {
				b.errorf("InvalidValue", ss.Loc(), "fraction-digits %q: %v", ss.Argument, err)
				continue
			}
			t.FractionDigits = fd
		case "range":
			t.Range = ss.Argument
		case "length":
			t.Length = ss.Argument
		case "pattern":
			t.Pattern = append(t.Pattern, ss.Argument)
		case "type":
			t.Union = append(t.Union, b.typ(ss, scope))
		default:
			if !strings.Contains(ss.Keyword, ":") {
				b.errorf("UnknownStatement", ss.Loc(), "unknown statement %s in type %s", ss.Keyword, t.Name)
			}
		}
	}
	if len(t.Union) > 0 && t.Kind != Yunion {
		b.errorf("InvalidStatement", s.Loc(), "member types in non-union type %s", t.Name)
	}
	// Restrictions on a built-in are checked when the type is resolved.
	if t.Range != "" || t.Length != "" {
		t.resolved = false
	}
	return t
}

// member builds an enum or bit statement.  valueKeyword is value for enums
// and position for bits.
func (b *builder) member(s *Statement, valueKeyword string) *EnumMember {
	m := &EnumMember{Name: s.Argument, Loc: s.Loc()}
	for _, ss := range s.SubStatements() {
		if ss.Keyword != valueKeyword {
			continue
		}
		v, err := strconv.ParseInt(ss.Argument, 10, 64)
		if err != nil {
			b.errorf("InvalidValue", ss.Loc(), "%s %q of %s: %v", valueKeyword, ss.Argument, m.Name, err)
			continue
		}
		m.Value, m.HasValue = v, true
	}
	return m
}

// refine builds the refine statement s of the uses node id.
func (b *builder) refine(id NodeID, s *Statement) *Refine {
	rf := &Refine{Path: s.Argument, Loc: s.Loc()}
	for _, ss := range s.SubStatements() {
		switch ss.Keyword {
		case "description":
			rf.Description = ss.Argument
		case "reference":
			rf.Reference = ss.Argument
		case "default":
			rf.Default = append(rf.Default, ss.Argument)
		case "config":
			rf.Config = b.triState(ss)
		case "mandatory":
			rf.Mandatory = b.triState(ss)
		case "presence":
			rf.Presence = ss.Argument
		case "min-elements":
			rf.MinElements = ss.Argument
		case "max-elements":
			rf.MaxElements = ss.Argument
		case "must":
			rf.Must = append(rf.Must, ss.Argument)
		case "if-feature":
			rf.IfFeatures = append(rf.IfFeatures, ss.Argument)
			b.register(&Resolvable{Kind: IfFeature, Node: id, Ref: ss.Argument, Loc: ss.Loc(), Target: NoNode, unit: b.u})
		default:
			if !strings.Contains(ss.Keyword, ":") {
				b.errorf("UnknownStatement", ss.Loc(), "unknown statement %s in refine %s", ss.Keyword, rf.Path)
			}
		}
	}
	return rf
}

// deviate builds the deviate statement s of the deviation node id.  Types
// are looked up from the deviation.
func (b *builder) deviate(id NodeID, s *Statement) *Deviate {
	kind, ok := deviateKindFromName[s.Argument]
	if !ok {
		b.errorf("InvalidValue", s.Loc(), "unknown deviate %q", s.Argument)
		return nil
	}
	d := &Deviate{Kind: kind, Loc: s.Loc()}
	if kind == DeviateNotSupported && len(s.SubStatements()) > 0 {
		b.errorf("InvalidStatement", s.Loc(), "deviate not-supported takes no substatements")
		return nil
	}
	for _, ss := range s.SubStatements() {
		switch ss.Keyword {
		case "config":
			d.Config = b.triState(ss)
		case "mandatory":
			d.Mandatory = b.triState(ss)
		case "default":
			d.Default = append(d.Default, ss.Argument)
		case "units":
			d.Units = ss.Argument
		case "must":
			d.Must = append(d.Must, ss.Argument)
		case "unique":
			d.Unique = append(d.Unique, ss.Argument)
		case "min-elements":
			d.MinElements = ss.Argument
		case "max-elements":
			d.MaxElements = ss.Argument
		case "type":
			d.Type = b.typ(ss, id)
		default:
			if !strings.Contains(ss.Keyword, ":") {
				b.errorf("UnknownStatement", ss.Loc(), "unknown statement %s in deviate %s", ss.Keyword, s.Argument)
			}
		}
	}
	return d
}
