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

// This file implements the expansion of uses statements: the contents of the
// grouping are cloned into the node holding the uses.

import (
	"fmt"
	"strings"
)

// resolveUses binds the grouping of the uses r.Node and then expands it.
func (ms *Modules) resolveUses(r *Resolvable, cross bool) ([]*Resolvable, error) {
	n := ms.Tree.Node(r.Node)
	if n.Grouping == NoNode {
		g, err := ms.findTypeSpace(GroupingNode, n.Name, r.Node, r.Loc, cross)
		if err != nil {
			return nil, err
		}
		if g == NoNode {
			r.deferred(errorf(UnresolvedReferenceError, "UnresolvedGrouping", r.Loc, "grouping %s not found", n.Name))
			return nil, nil
		}
		if err := ms.Tree.detectSelf(r.Node, g); err != nil {
			return nil, err
		}
		n.Grouping = g
		r.Target = g
	}
	return ms.expandUses(r)
}

// expandUses clones the grouping of the uses r.Node into the node holding the
// uses and returns the entries the clones still need resolved.  Expanding a
// Resolved uses does nothing.  If the grouping, or an augment of the uses,
// contains a uses that is not Resolved yet, r becomes IntraFileResolved and
// is left for a later pass.
func (ms *Modules) expandUses(r *Resolvable) ([]*Resolvable, error) {
	t := ms.Tree
	if r.Status == Resolved {
		return nil, nil
	}
	n := t.Node(r.Node)
	if n.Grouping == NoNode {
		return nil, errorf(UnresolvedReferenceError, "UnresolvedGrouping", r.Loc, "uses %s: grouping was never linked", n.Name)
	}
	g := n.Grouping

	if pending := t.firstUnresolvedUses(g, r.Node); pending != NoNode {
		r.advance(IntraFileResolved)
		r.deferred(&LinkError{
			Kind:  RecursiveDefinitionError,
			Code:  "RecursiveUsesUnresolved",
			Ident: n.Name,
			Loc:   r.Loc,
			Path:  t.Path(r.Node),
			Msg:   fmt.Sprintf("uses %s waits for uses %s at %s", n.Name, t.Node(pending).Name, t.Node(pending).Loc),
		})
		return nil, nil
	}

	holder := n.Parent
	if holder == NoNode || !t.Node(holder).Kind.IsLeavesHolder() || !t.Node(holder).Kind.IsCollisionDetector() {
		kind := NodeKind(-1)
		if holder != NoNode {
			kind = t.Node(holder).Kind
		}
		return nil, &LinkError{
			Kind:      StructuralError,
			Code:      "InvalidHolder",
			Ident:     n.Name,
			Loc:       r.Loc,
			NodeKind:  UsesNode,
			OtherKind: kind,
			Path:      t.Path(r.Node),
			Msg:       fmt.Sprintf("uses %s cannot be expanded in a %s", n.Name, kind),
		}
	}

	c := ms.newCloner(r.unit, holder, r.Loc)

	// Leaves first, then leaf-lists, then everything else.
	var top []NodeID
	for _, pass := range []func(NodeKind) bool{
		func(k NodeKind) bool { return k == LeafNode },
		func(k NodeKind) bool { return k == LeafListNode },
		func(k NodeKind) bool { return k != LeafNode && k != LeafListNode },
	} {
		for _, child := range t.Node(g).Children {
			if !pass(t.Node(child).Kind) || !clonable(t.Node(child).Kind) {
				continue
			}
			id, err := c.cloneInto(child, holder)
			if err != nil {
				return nil, err
			}
			top = append(top, id)
		}
	}
	for _, id := range top {
		inheritConditions(t.Node(id), n)
	}

	for _, rf := range n.Refines {
		if err := ms.applyRefine(c, rf); err != nil {
			return nil, err
		}
	}
	for _, a := range t.ChildrenOfKind(r.Node, AugmentNode) {
		if err := ms.applyUsesAugment(c, a); err != nil {
			return nil, err
		}
	}

	c.rebind()
	r.Target = g
	r.advance(Resolved)
	return c.pending, nil
}

// inheritConditions gives the clone cn the when and if-feature statements of
// the uses u.  A when already on the clone is kept.
func inheritConditions(cn, u *Node) {
	cn.IfFeatures = append(cn.IfFeatures, u.IfFeatures...)
	if cn.When == "" {
		cn.When = u.When
	}
}

// firstUnresolvedUses returns a uses node below any of roots that is not yet
// Resolved, or NoNode.
func (t *Tree) firstUnresolvedUses(roots ...NodeID) NodeID {
	found := NoNode
	for _, root := range roots {
		t.Walk(root, func(id NodeID) bool {
			if found != NoNode {
				return false
			}
			n := t.nodes[id]
			if id != root && n.Kind == UsesNode && n.entry != nil && n.entry.Status != Resolved {
				found = id
			}
			return found == NoNode
		})
		if found != NoNode {
			return found
		}
	}
	return NoNode
}

// clonable reports whether nodes of kind k are copied by uses and augment.
// Typedefs and groupings are looked up where they were written, and uses
// nodes are represented by what they expanded to.
func clonable(k NodeKind) bool {
	switch k {
	case UsesNode, GroupingNode, TypedefNode, AugmentNode:
		return false
	}
	return true
}

// A cloner copies template subtrees into a holder.
type cloner struct {
	ms      *Modules
	unit    *Unit
	holder  NodeID
	module  string // namespace binding of the clones, "" inside groupings
	site    Location
	clones  map[NodeID]NodeID // original to clone
	order   []NodeID          // clones in creation order
	pending []*Resolvable
}

// newCloner returns a cloner for copies made into holder on behalf of the
// statement at site in unit u.  Clones placed inside a grouping stay unbound.
func (ms *Modules) newCloner(u *Unit, holder NodeID, site Location) *cloner {
	c := &cloner{
		ms:     ms,
		unit:   u,
		holder: holder,
		site:   site,
		clones: map[NodeID]NodeID{},
	}
	if ms.Tree.Node(holder).Kind != GroupingNode && !ms.Tree.InGrouping(holder) {
		c.module = u.Module
	}
	return c
}

// cloneInto deep-copies src and its clonable descendants and attaches the
// copy to holder.  Collisions with existing children of holder are errors.
func (c *cloner) cloneInto(src, holder NodeID) (NodeID, error) {
	t := c.ms.Tree
	id := c.cloneNode(src)
	loc := t.Node(src).Loc
	if err := t.attachChecked(holder, id, loc); err != nil {
		if le, ok := err.(*LinkError); ok && le.Kind == CollisionError {
			le.Msg += fmt.Sprintf(" (expanded at %s)", c.site)
		}
		return NoNode, err
	}
	c.markKey(holder, id)
	for _, child := range t.Node(src).Children {
		if !clonable(t.Node(child).Kind) {
			continue
		}
		if _, err := c.cloneInto(child, id); err != nil {
			return NoNode, err
		}
	}
	if cn := t.Node(id); cn.Type != nil {
		c.pending = append(c.pending, c.ms.typeEntries(c.unit, id, cn.Type)...)
	}
	return id, nil
}

// cloneNode returns a detached copy of the node src.  The copy gets a fresh
// identity, its own slices, a ReferredFrom link to src and the namespace
// binding of c.
func (c *cloner) cloneNode(src NodeID) NodeID {
	t := c.ms.Tree
	s := t.Node(src)
	id := t.NewNode(s.Kind, s.Name, s.Loc)
	n := t.nodes[id]
	*n = *s
	n.ID = id
	n.Parent = NoNode
	n.Next = NoNode
	n.Children = nil
	n.ReferredFrom = src
	n.Unit = c.unit.Root
	n.Module = c.module
	n.IsKey = false
	n.entry = nil
	n.dataChildren = nil
	n.typeChildren = nil
	n.IfFeatures = append([]string(nil), s.IfFeatures...)
	n.Must = append([]string(nil), s.Must...)
	n.Default = append([]string(nil), s.Default...)
	n.Keys = append([]string(nil), s.Keys...)
	n.Unique = append([]string(nil), s.Unique...)
	n.Extensions = append([]*Statement(nil), s.Extensions...)
	n.Annotations = append([]*Statement(nil), s.Annotations...)
	n.Type = s.Type.clone(id)
	c.clones[src] = id
	c.order = append(c.order, id)
	return id
}

// markKey marks a leaf clone as a key of its list holder.  Keys are matched
// by the name of the clone.
func (c *cloner) markKey(holder, id NodeID) {
	t := c.ms.Tree
	h, n := t.Node(holder), t.Node(id)
	if h.Kind != ListNode || n.Kind != LeafNode {
		return
	}
	for _, k := range h.Keys {
		if k == n.Name {
			n.IsKey = true
			return
		}
	}
}

// rebind points types of the clones that referred to an original node that
// was cloned in the same operation at the clone instead.
func (c *cloner) rebind() {
	for _, id := range c.order {
		n := c.ms.Tree.Node(id)
		if n.Type == nil {
			continue
		}
		n.Type.walk(func(tt *Type) {
			if nt, ok := c.clones[tt.Target]; ok {
				tt.Target = nt
			}
		})
	}
}

// clonedDescendant finds the node named by the descendant schema node id
// path among the clones placed under holder.
func (ms *Modules) clonedDescendant(holder NodeID, path string) NodeID {
	cur := holder
	for _, p := range strings.Split(strings.Trim(path, "/"), "/") {
		_, name := getPrefix(strings.TrimSpace(p))
		next := NoNode
		for _, child := range ms.Tree.Node(cur).Children {
			if c := ms.Tree.Node(child); c.Name == name && c.Kind != UsesNode && clonable(c.Kind) {
				next = child
				break
			}
		}
		if next == NoNode {
			return NoNode
		}
		cur = next
	}
	return cur
}

// applyRefine applies a refine of a uses to the clones of that uses.
func (ms *Modules) applyRefine(c *cloner, rf *Refine) error {
	id := ms.clonedDescendant(c.holder, rf.Path)
	if id == NoNode || !c.cloned(id) {
		return errorf(UnresolvedReferenceError, "UnresolvedRefine", rf.Loc, "refine target %s not found", rf.Path)
	}
	n := ms.Tree.Node(id)
	if rf.Description != "" {
		n.Description = rf.Description
	}
	if rf.Reference != "" {
		n.Reference = rf.Reference
	}
	if len(rf.Default) > 0 {
		n.Default = append([]string(nil), rf.Default...)
	}
	if rf.Config != TSUnset {
		n.Config = rf.Config
	}
	if rf.Mandatory != TSUnset {
		n.Mandatory = rf.Mandatory
	}
	if rf.Presence != "" {
		if n.Kind != ContainerNode {
			return errorf(StructuralError, "InvalidRefine", rf.Loc, "refine %s: presence on a %s", rf.Path, n.Kind)
		}
		n.Presence = rf.Presence
	}
	if rf.MinElements != "" {
		n.MinElements = rf.MinElements
	}
	if rf.MaxElements != "" {
		n.MaxElements = rf.MaxElements
	}
	n.IfFeatures = append(n.IfFeatures, rf.IfFeatures...)
	n.Must = append(n.Must, rf.Must...)
	return nil
}

// cloned reports whether id was made by c.
func (c *cloner) cloned(id NodeID) bool {
	for _, o := range c.order {
		if o == id {
			return true
		}
	}
	return false
}

// applyUsesAugment splices the body of the augment a, a child of a uses,
// into the clones of that uses.
func (ms *Modules) applyUsesAugment(c *cloner, a NodeID) error {
	an := ms.Tree.Node(a)
	target := ms.clonedDescendant(c.holder, an.Name)
	if target == NoNode || !c.cloned(target) {
		return errorf(UnresolvedReferenceError, "UnresolvedAugment", an.Loc, "augment target %s not found in the expanded grouping", an.Name)
	}
	if err := ms.spliceAugment(c, a, target); err != nil {
		return err
	}
	an.Target = target
	an.entry = &Resolvable{Kind: Augment, Node: a, Ref: an.Name, Loc: an.Loc, Status: Resolved, Target: target, unit: c.unit}
	return nil
}
