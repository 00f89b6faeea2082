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

// This file implements derived type resolution: walking typedef chains down
// to a built-in type, computing enumeration and bits values, and resolving
// union members.

import (
	"fmt"
	"strings"
)

// A Type is a type statement together with what linking learned about it.
type Type struct {
	Name  string // as written, possibly prefixed
	Loc   Location
	Owner NodeID // leaf, leaf-list or typedef declaring the type

	// Kind is the built-in type at the end of the typedef chain.
	Kind TypeKind
	// Typedef is the typedef Name refers to, or NoNode for built-ins.
	Typedef NodeID

	Path            string   // leafref
	RequireInstance TriState // leafref and instance-identifier
	Target          NodeID   // leafref target, once resolved

	Bases      []string // identityref base names as written
	Identities []NodeID // resolved identityref bases

	Enums []*EnumMember // enum statements as written
	Bits  []*EnumMember // bit statements as written
	Enum  *EnumType     // resolved enumeration values
	Bit   *EnumType     // resolved bit positions

	Union []*Type

	FractionDigits int
	Range          string
	Length         string
	Pattern        []string
	Default        string // inherited from the typedef chain
	Units          string // inherited from the typedef chain

	scope     NodeID // where names in the type are looked up from
	pathScope NodeID // where prefixes in Path are looked up from
	resolved  bool
}

// newType returns a Type for name declared at scope.
func newType(name string, loc Location, scope NodeID) *Type {
	t := &Type{
		Name:    name,
		Loc:     loc,
		Owner:   scope,
		Typedef: NoNode,
		Target:  NoNode,
		scope:   scope,
	}
	t.pathScope = scope
	if k, ok := builtinKind(name); ok {
		t.Kind = k
		t.resolved = !k.needsResolution()
	}
	return t
}

// builtinKind returns the kind of the built-in type named name.  Prefixed
// names never name a built-in.
func builtinKind(name string) (TypeKind, bool) {
	if strings.Contains(name, ":") {
		return Ynone, false
	}
	k, ok := TypeKindFromName[name]
	return k, ok
}

// Resolved reports whether the typedef chain of t has been resolved.
func (t *Type) Resolved() bool { return t.resolved }

// IsBuiltin reports whether t names a built-in type directly.
func (t *Type) IsBuiltin() bool {
	_, ok := builtinKind(t.Name)
	return ok
}

// clone returns a deep copy of t owned by owner.  Resolution results that do
// not depend on the owner's position in the tree are kept; leafref targets
// are not.
func (t *Type) clone(owner NodeID) *Type {
	if t == nil {
		return nil
	}
	nt := *t
	nt.Owner = owner
	nt.Target = NoNode
	nt.Bases = append([]string(nil), t.Bases...)
	nt.Identities = append([]NodeID(nil), t.Identities...)
	nt.Pattern = append([]string(nil), t.Pattern...)
	nt.Enums = append([]*EnumMember(nil), t.Enums...)
	nt.Bits = append([]*EnumMember(nil), t.Bits...)
	nt.Union = nil
	for _, m := range t.Union {
		nt.Union = append(nt.Union, m.clone(owner))
	}
	return &nt
}

// walk calls fn on t and, recursively, its union members.
func (t *Type) walk(fn func(*Type)) {
	fn(t)
	for _, m := range t.Union {
		m.walk(fn)
	}
}

// typeChain returns the types along the typedef chain of a resolved type,
// starting with t itself.
func (ms *Modules) typeChain(t *Type) []*Type {
	types := []*Type{t}
	for cur := t; cur.Typedef != NoNode; {
		cur = ms.Tree.Node(cur.Typedef).Type
		types = append(types, cur)
	}
	return types
}

// resolveDerivedType resolves the typedef chain of r.Type.  Once resolved, it
// returns the follow-up leafref and identityref entries the type needs.
func (ms *Modules) resolveDerivedType(r *Resolvable, cross bool) ([]*Resolvable, error) {
	t := r.Type
	if !t.resolved {
		seen := map[NodeID]bool{}
		if o := t.Owner; o != NoNode && ms.Tree.Node(o).Kind == TypedefNode {
			seen[o] = true
		}
		reason, err := ms.resolveChain(t, seen, cross)
		if err != nil {
			return nil, err
		}
		if reason != nil {
			r.deferred(reason)
			return nil, nil
		}
	}
	r.Target = t.Typedef
	r.advance(Resolved)
	return ms.followUps(r.unit, r.Node, t), nil
}

// resolveChain resolves t.  seen holds the typedefs already on the chain
// leading to t.  A non-nil LinkError without an error means t cannot be
// resolved yet.
func (ms *Modules) resolveChain(t *Type, seen map[NodeID]bool, cross bool) (*LinkError, error) {
	if t.resolved {
		return nil, nil
	}
	var chain []NodeID
	var trail []string
	if t.Owner != NoNode && seen[t.Owner] {
		trail = append(trail, ms.Tree.Node(t.Owner).Name)
	}
	base := Ynone
	for cur := t; ; {
		if k, ok := builtinKind(cur.Name); ok {
			base = k
			break
		}
		id, err := ms.findTypeSpace(TypedefNode, cur.Name, cur.scope, cur.Loc, cross)
		if err != nil {
			return nil, err
		}
		if id == NoNode {
			return errorf(UnresolvedReferenceError, "UnresolvedChain", cur.Loc, "unknown type %s", cur.Name), nil
		}
		td := ms.Tree.Node(id)
		trail = append(trail, td.Name)
		if seen[id] {
			e := errorf(InvalidLeafrefOrTypeError, "TypeCycle", t.Loc, "typedef cycle: %s", strings.Join(trail, " -> "))
			e.Ident = td.Name
			return nil, e
		}
		seen[id] = true
		chain = append(chain, id)
		cur = td.Type
	}

	t.Kind = base
	if len(chain) > 0 {
		t.Typedef = chain[0]
	}
	types := []*Type{t}
	for _, id := range chain {
		types = append(types, ms.Tree.Node(id).Type)
	}

	switch base {
	case Yenum, Ybits:
		if err := ms.resolveMembers(t, types, base == Ybits); err != nil {
			return nil, err
		}
	case Ydecimal64:
		for _, tt := range types {
			if tt.FractionDigits != 0 {
				t.FractionDigits = tt.FractionDigits
				break
			}
		}
		if t.FractionDigits < 1 || t.FractionDigits > MaxFractionDigits {
			return nil, errorf(InvalidLeafrefOrTypeError, "InvalidFractionDigits", t.Loc,
				"decimal64 needs fraction-digits between 1 and %d, got %d", MaxFractionDigits, t.FractionDigits)
		}
	case Yunion:
		if len(t.Union) == 0 {
			for _, tt := range types[1:] {
				if len(tt.Union) > 0 {
					for _, m := range tt.Union {
						t.Union = append(t.Union, m.clone(t.Owner))
					}
					break
				}
			}
		}
		if len(t.Union) == 0 {
			return nil, errorf(InvalidLeafrefOrTypeError, "EmptyUnion", t.Loc, "union %s has no member types", t.Name)
		}
		for _, m := range t.Union {
			mseen := map[NodeID]bool{}
			for k := range seen {
				mseen[k] = true
			}
			reason, err := ms.resolveChain(m, mseen, cross)
			if err != nil || reason != nil {
				return reason, err
			}
		}
	case Yleafref:
		for _, tt := range types {
			if tt.Path != "" {
				t.Path, t.pathScope = tt.Path, tt.pathScope
				break
			}
		}
		if t.Path == "" {
			return nil, errorf(InvalidLeafrefOrTypeError, "MissingPath", t.Loc, "leafref %s has no path", t.Name)
		}
	}
	for _, tt := range types {
		if t.RequireInstance == TSUnset {
			t.RequireInstance = tt.RequireInstance
		}
		if t.Range == "" {
			t.Range = tt.Range
		}
		if t.Length == "" {
			t.Length = tt.Length
		}
	}
	for _, tt := range types[1:] {
		t.Pattern = append(t.Pattern, tt.Pattern...)
	}
	for _, id := range chain {
		td := ms.Tree.Node(id)
		if t.Default == "" && len(td.Default) > 0 {
			t.Default = td.Default[0]
		}
		if t.Units == "" {
			t.Units = td.Units
		}
	}
	if err := checkRestrictions(types); err != nil {
		return nil, err
	}
	t.resolved = true
	return nil, nil
}

// resolveMembers computes the values of an enumeration or the positions of a
// bits type.  The base-most type listing members assigns them; every more
// derived type listing members restricts them.
func (ms *Modules) resolveMembers(t *Type, types []*Type, bits bool) error {
	code := "DuplicateEnumValue"
	if bits {
		code = "DuplicateBitPosition"
	}
	var e *EnumType
	for i := len(types) - 1; i >= 0; i-- {
		members := types[i].Enums
		if bits {
			members = types[i].Bits
		}
		if len(members) == 0 {
			continue
		}
		var bad *EnumMember
		var err error
		if e == nil {
			e, bad, err = assign(members, bits)
		} else {
			code = "InvalidEnumRestriction"
			if bits {
				code = "InvalidBitRestriction"
			}
			e, bad, err = restrict(e, members)
		}
		if err != nil {
			le := errorf(InvalidLeafrefOrTypeError, code, bad.Loc, "%v", err)
			le.Ident = bad.Name
			return le
		}
	}
	if e == nil {
		return errorf(InvalidLeafrefOrTypeError, "MissingMembers", t.Loc, "%s %s has no members", t.Kind, t.Name)
	}
	if bits {
		t.Bit = e
	} else {
		t.Enum = e
	}
	return nil
}

// followUps returns the leafref and identityref entries needed by a resolved
// type t declared on node.  Leafrefs of template nodes and typedefs are only
// resolved on the nodes instantiating them.
func (ms *Modules) followUps(u *Unit, node NodeID, t *Type) []*Resolvable {
	n := ms.Tree.Node(node)
	leafrefs := (n.Kind == LeafNode || n.Kind == LeafListNode) && !ms.Tree.inTemplate(node)
	var rs []*Resolvable
	t.walk(func(tt *Type) {
		switch tt.Kind {
		case Yleafref:
			if leafrefs && tt.Target == NoNode {
				rs = append(rs, &Resolvable{Kind: Leafref, Node: node, Type: tt, Ref: tt.Path, Loc: tt.Loc, Target: NoNode, unit: u})
			}
		case Yidentityref:
			if len(tt.Identities) == 0 {
				rs = append(rs, &Resolvable{Kind: Identityref, Node: node, Type: tt, Ref: strings.Join(tt.Bases, " "), Loc: tt.Loc, Target: NoNode, unit: u})
			}
		}
	})
	return rs
}

// typeEntries returns the entries needed to finish resolving t, a type just
// given to node by a clone, a deviation, or the builder.
func (ms *Modules) typeEntries(u *Unit, node NodeID, t *Type) []*Resolvable {
	if t == nil {
		return nil
	}
	if !t.resolved {
		return []*Resolvable{{Kind: DerivedDataType, Node: node, Type: t, Ref: t.Name, Loc: t.Loc, Target: NoNode, unit: u}}
	}
	return ms.followUps(u, node, t)
}

// String returns a short description of t, such as "leafref(../y)".
func (t *Type) String() string {
	var b strings.Builder
	b.WriteString(t.Name)
	if !t.IsBuiltin() && t.resolved {
		fmt.Fprintf(&b, "(%s)", t.Kind)
	}
	switch t.Kind {
	case Yleafref:
		fmt.Fprintf(&b, " path %q", t.Path)
	case Yunion:
		var ms []string
		for _, m := range t.Union {
			ms = append(ms, m.String())
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(ms, ", "))
	}
	return b.String()
}
