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

// This file implements identity resolution: linking the base statements of
// identities, rejecting cycles among them, and resolving the bases of
// identityref types.

import (
	"fmt"
	"sort"
)

// resolveBase links the identity r.Node to the base identity named r.Ref.
func (ms *Modules) resolveBase(r *Resolvable, cross bool) ([]*Resolvable, error) {
	id, err := ms.findTop(IdentityNode, r.Ref, r.Node, r.Loc, cross)
	if err != nil {
		return nil, err
	}
	if id == NoNode {
		r.deferred(errorf(UnresolvedReferenceError, "UnresolvedBase", r.Loc, "base identity %s not found", r.Ref))
		return nil, nil
	}
	n := ms.Tree.Node(r.Node)
	n.Bases = append(n.Bases, id)
	cycle := findCycle(r.Node, func(id NodeID) []NodeID { return ms.Tree.Node(id).Bases })
	if cycle != nil {
		n.Bases = n.Bases[:len(n.Bases)-1]
		e := errorf(RecursiveDefinitionError, "CyclicIdentity", r.Loc, "identity cycle: %s", ms.Tree.cycleString(cycle))
		e.Ident = n.Name
		e.Path = ms.Tree.Path(r.Node)
		return nil, e
	}
	r.Target = id
	r.advance(Resolved)
	return nil, nil
}

// resolveIdentityref resolves the base identities of the identityref type
// r.Type.  Base names are taken from the closest type along the typedef
// chain that lists them, and looked up from where that type was written.
func (ms *Modules) resolveIdentityref(r *Resolvable, cross bool) ([]*Resolvable, error) {
	t := r.Type
	var bt *Type
	for _, tt := range ms.typeChain(t) {
		if len(tt.Bases) > 0 {
			bt = tt
			break
		}
	}
	if bt == nil {
		return nil, errorf(InvalidLeafrefOrTypeError, "MissingBase", t.Loc, "identityref %s has no base", t.Name)
	}
	ids := make([]NodeID, 0, len(bt.Bases))
	for _, b := range bt.Bases {
		id, err := ms.findTop(IdentityNode, b, bt.scope, bt.Loc, cross)
		if err != nil {
			return nil, err
		}
		if id == NoNode {
			r.deferred(errorf(UnresolvedReferenceError, "UnresolvedBase", bt.Loc, "identityref base %s not found", b))
			return nil, nil
		}
		ids = append(ids, id)
	}
	t.Identities = ids
	r.Target = ids[0]
	r.advance(Resolved)
	return nil, nil
}

// computeDerived fills in the Derived identities of every identity in the
// tree.  It must only be called once all bases are resolved.
func (ms *Modules) computeDerived() {
	t := ms.Tree
	derived := map[NodeID]map[NodeID]bool{}
	for _, n := range t.nodes {
		if n.Kind != IdentityNode {
			continue
		}
		seen := map[NodeID]bool{}
		var up func(NodeID)
		up = func(id NodeID) {
			for _, b := range t.nodes[id].Bases {
				if seen[b] {
					continue
				}
				seen[b] = true
				if derived[b] == nil {
					derived[b] = map[NodeID]bool{}
				}
				derived[b][n.ID] = true
				up(b)
			}
		}
		up(n.ID)
	}
	for id, ds := range derived {
		n := t.nodes[id]
		n.Derived = n.Derived[:0]
		for d := range ds {
			n.Derived = append(n.Derived, d)
		}
		sort.Slice(n.Derived, func(i, j int) bool { return n.Derived[i] < n.Derived[j] })
	}
}

// IsDerivedFrom reports whether identity id has base among its bases,
// directly or transitively.
func (ms *Modules) IsDerivedFrom(id, base NodeID) bool {
	for _, d := range ms.Tree.Node(base).Derived {
		if d == id {
			return true
		}
	}
	return false
}

// IdentityName returns the qualified name of an identity, module:name.
func (ms *Modules) IdentityName(id NodeID) string {
	n := ms.Tree.Node(id)
	return fmt.Sprintf("%s:%s", n.Module, n.Name)
}
