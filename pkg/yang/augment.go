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

	log "github.com/golang/glog"
)

// findSchemaNode returns the node named by the absolute schema node id path,
// such as /a:b/a:c, with prefixes taken from the unit scope was written in.
// Choice, case, input and output nodes must be named explicitly.  NoNode is
// returned, without an error, if the node does not exist (yet).  Only the
// unit of scope is searched unless cross is true.
func (ms *Modules) findSchemaNode(path string, scope NodeID, loc Location, cross bool) (NodeID, *LinkError) {
	if !strings.HasPrefix(path, "/") {
		return NoNode, errorf(StructuralError, "InvalidPath", loc, "schema node id %q is not absolute", path)
	}
	u := ms.unitOf(scope)
	cur := NoNode
	for _, p := range strings.Split(path[1:], "/") {
		p = strings.TrimSpace(p)
		if p == "" {
			return NoNode, errorf(StructuralError, "InvalidPath", loc, "schema node id %q has an empty step", path)
		}
		prefix, name := getPrefix(p)
		if cur == NoNode {
			target, local, err := ms.unitForPrefix(u, prefix, loc)
			if err != nil {
				return NoNode, err
			}
			if target == nil {
				return NoNode, nil
			}
			roots := []NodeID{u.Root}
			if cross {
				roots = ms.moduleRoots(target.Module)
			} else if !local {
				return NoNode, nil
			}
			for _, root := range roots {
				if cur = ms.schemaChild(root, name); cur != NoNode {
					break
				}
			}
		} else {
			cur = ms.schemaChild(cur, name)
		}
		if cur == NoNode {
			return NoNode, nil
		}
	}
	return cur, nil
}

// schemaChild returns the schema child of id named name.  Uses, typedef and
// grouping nodes are never schema children.
func (ms *Modules) schemaChild(id NodeID, name string) NodeID {
	for _, c := range ms.Tree.Node(id).Children {
		if n := ms.Tree.nodes[c]; n.Name == name && n.Kind.IsDataDefinition() {
			return c
		}
	}
	return NoNode
}

// augmentable reports whether an augment may target a node of kind k.
func augmentable(k NodeKind) bool {
	switch k {
	case ContainerNode, ListNode, ChoiceNode, CaseNode, InputNode, OutputNode,
		NotificationNode:
		return true
	}
	return false
}

// resolveAugment finds the target of the top-level augment r.Node and splices
// the augment's body into it.  The target may be added by a uses or another
// augment not yet applied, so a missing target defers the entry.
func (ms *Modules) resolveAugment(r *Resolvable, cross bool) ([]*Resolvable, error) {
	t := ms.Tree
	a := t.Node(r.Node)
	target, err := ms.findSchemaNode(a.Name, r.Node, r.Loc, cross)
	if err != nil {
		return nil, err
	}
	if target == NoNode {
		r.deferred(errorf(UnresolvedReferenceError, "UnresolvedAugment", r.Loc, "augment target %s not found", a.Name))
		return nil, nil
	}
	tn := t.Node(target)
	if !augmentable(tn.Kind) {
		e := errorf(StructuralError, "InvalidAugmentTarget", r.Loc, "augment target %s is a %s", a.Name, tn.Kind)
		e.NodeKind, e.OtherKind = AugmentNode, tn.Kind
		return nil, e
	}
	if t.inTemplate(target) {
		return nil, errorf(StructuralError, "InvalidAugmentTarget", r.Loc, "augment target %s is inside a grouping or augment", a.Name)
	}
	if pending := t.firstUnresolvedUses(r.Node); pending != NoNode {
		r.advance(IntraFileResolved)
		r.deferred(errorf(UnresolvedReferenceError, "UnresolvedAugment", r.Loc,
			"augment %s waits for uses %s at %s", a.Name, t.Node(pending).Name, t.Node(pending).Loc))
		return nil, nil
	}
	c := ms.newCloner(r.unit, target, r.Loc)
	if err := ms.spliceAugment(c, r.Node, target); err != nil {
		return nil, err
	}
	c.rebind()
	a.Target = target
	r.Target = target
	r.advance(Resolved)
	log.V(2).Infof("%s: spliced into %s", ms.augmentString(r.Node), t.Path(target))
	return c.pending, nil
}

// spliceAugment clones the body of the augment a into target.  Data nodes
// augmenting a choice are wrapped in a case of the same name.
func (ms *Modules) spliceAugment(c *cloner, a, target NodeID) error {
	t := ms.Tree
	for _, child := range t.Node(a).Children {
		cn := t.Node(child)
		if !clonable(cn.Kind) {
			continue
		}
		holder := target
		if t.Node(target).Kind == ChoiceNode && cn.Kind.isShorthandCase() {
			cs := t.NewNode(CaseNode, cn.Name, cn.Loc)
			csn := t.Node(cs)
			csn.Unit = c.unit.Root
			csn.Module = c.module
			if err := t.attachChecked(target, cs, cn.Loc); err != nil {
				return err
			}
			holder = cs
		}
		if k := t.Node(holder).Kind; k == ChoiceNode && cn.Kind != CaseNode {
			return errorf(StructuralError, "InvalidAugment", cn.Loc, "%s %s cannot augment choice %s", cn.Kind, cn.Name, t.Path(target))
		}
		if _, err := c.cloneInto(child, holder); err != nil {
			return err
		}
	}
	return nil
}

// augmentString describes an augment for tracing.
func (ms *Modules) augmentString(a NodeID) string {
	n := ms.Tree.Node(a)
	return fmt.Sprintf("augment %s at %s", n.Name, n.Loc)
}
