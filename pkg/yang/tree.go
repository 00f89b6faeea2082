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

// This file implements the schema node arena.  Every node of every module
// linked by one Modules lives in a single Tree and is addressed by its index.

import (
	"fmt"
	"strings"
)

// A NamespaceClass is one of the two identifier namespaces of a holder.
type NamespaceClass int

const (
	// DataNode covers leaf, leaf-list, container, list, choice, case,
	// anydata and anyxml identifiers among direct siblings.
	DataNode = NamespaceClass(iota)
	// TypeSpace covers typedef and grouping identifiers, visible to the
	// declaring scope and all of its descendants.
	TypeSpace
)

func (c NamespaceClass) String() string {
	if c == TypeSpace {
		return "type space"
	}
	return "data node"
}

// Class returns the namespace class identifiers of kind k belong to.
func (k NodeKind) Class() NamespaceClass {
	if k.IsTypeSpace() {
		return TypeSpace
	}
	return DataNode
}

// A Tree is an arena of schema nodes.
type Tree struct {
	nodes []*Node
}

// NewTree returns an empty Tree.
func NewTree() *Tree {
	return &Tree{}
}

// Len returns the number of nodes ever created in t.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id.  It panics if id is not a node of
// t.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("yang: invalid node id %d", id))
	}
	return t.nodes[id]
}

// NewNode creates a detached node and returns its id.
func (t *Tree) NewNode(kind NodeKind, name string, loc Location) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, &Node{
		ID:           id,
		Kind:         kind,
		Name:         name,
		Loc:          loc,
		Parent:       NoNode,
		Next:         NoNode,
		ReferredFrom: NoNode,
		Unit:         NoNode,
		Grouping:     NoNode,
		Target:       NoNode,
	})
	return id
}

// Attach appends child to the children of parent.  It fails if parent cannot
// hold children or if child is already attached.  Attach does not check for
// identifier collisions, see detect.
func (t *Tree) Attach(parent, child NodeID) error {
	p, c := t.Node(parent), t.Node(child)
	if !p.Kind.CanHoldChildren() || c.Kind == ModuleNode || c.Kind == SubModuleNode {
		return &LinkError{
			Kind:      StructuralError,
			Code:      "InvalidParent",
			Ident:     c.Name,
			Loc:       c.Loc,
			NodeKind:  c.Kind,
			OtherKind: p.Kind,
			Msg:       fmt.Sprintf("%s %s cannot be a child of %s %s", c.Kind, c.Name, p.Kind, p.Name),
		}
	}
	if c.Parent != NoNode && !c.Removed {
		return &LinkError{
			Kind:  StructuralError,
			Code:  "DuplicateAttach",
			Ident: c.Name,
			Loc:   c.Loc,
			Msg:   fmt.Sprintf("%s %s is already a child of %s", c.Kind, c.Name, t.Path(c.Parent)),
		}
	}
	c.Parent = parent
	c.Removed = false
	c.Next = NoNode
	if n := len(p.Children); n > 0 {
		t.nodes[p.Children[n-1]].Next = child
	}
	p.Children = append(p.Children, child)
	t.index(p, c)
	return nil
}

// index records c in the lookup maps of p.  The first node of a name wins.
func (t *Tree) index(p, c *Node) {
	switch {
	case c.Kind.IsTypeSpace():
		if p.typeChildren == nil {
			p.typeChildren = map[typeKey]NodeID{}
		}
		k := typeKey{c.Kind, c.Name}
		if _, ok := p.typeChildren[k]; !ok {
			p.typeChildren[k] = c.ID
		}
	case c.Kind.IsDataDefinition():
		if p.dataChildren == nil {
			p.dataChildren = map[string]NodeID{}
		}
		if _, ok := p.dataChildren[c.Name]; !ok {
			p.dataChildren[c.Name] = c.ID
		}
	}
}

// Detach removes child from its parent's children.  The node stays in the
// arena and keeps its Parent link for diagnostics.
func (t *Tree) Detach(child NodeID) {
	c := t.Node(child)
	if c.Parent == NoNode || c.Removed {
		return
	}
	p := t.Node(c.Parent)
	for i, id := range p.Children {
		if id != child {
			continue
		}
		if i > 0 {
			t.nodes[p.Children[i-1]].Next = c.Next
		}
		p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
		break
	}
	c.Next = NoNode
	c.Removed = true
	if p.dataChildren[c.Name] == child {
		delete(p.dataChildren, c.Name)
	}
	if k := (typeKey{c.Kind, c.Name}); p.typeChildren[k] == child {
		delete(p.typeChildren, k)
	}
}

// Child returns the child of parent named name in the namespace class, or
// NoNode.  For TypeSpace a grouping is preferred over a typedef.
func (t *Tree) Child(parent NodeID, name string, class NamespaceClass) NodeID {
	p := t.Node(parent)
	if class == TypeSpace {
		if id, ok := p.typeChildren[typeKey{GroupingNode, name}]; ok {
			return id
		}
		if id, ok := p.typeChildren[typeKey{TypedefNode, name}]; ok {
			return id
		}
		return NoNode
	}
	if id, ok := p.dataChildren[name]; ok {
		return id
	}
	return NoNode
}

// typeChild returns the typedef or grouping (per kind) named name declared
// directly in scope, or NoNode.
func (t *Tree) typeChild(scope NodeID, kind NodeKind, name string) NodeID {
	if id, ok := t.Node(scope).typeChildren[typeKey{kind, name}]; ok {
		return id
	}
	return NoNode
}

// Walk calls fn on root and its descendants in pre-order.  The walk moves
// from a node to its first child, then to its next sibling, climbing back
// through the parents when a sibling chain ends.  When fn returns false the
// children of that node are skipped.
func (t *Tree) Walk(root NodeID, fn func(NodeID) bool) {
	cur := root
	for {
		n := t.Node(cur)
		if fn(cur) && len(n.Children) > 0 {
			cur = n.Children[0]
			continue
		}
		for cur != root && t.nodes[cur].Next == NoNode {
			cur = t.nodes[cur].Parent
		}
		if cur == root {
			return
		}
		cur = t.nodes[cur].Next
	}
}

// Path returns the schema path of id, such as /mod:c/a.  The first element is
// qualified with the module the unit belongs to.
func (t *Tree) Path(id NodeID) string {
	var parts []string
	for cur := id; cur != NoNode; cur = t.nodes[cur].Parent {
		n := t.nodes[cur]
		if n.Kind == ModuleNode || n.Kind == SubModuleNode {
			mod := n.Module
			if mod == "" {
				mod = n.Name
			}
			if len(parts) == 0 {
				return "/" + mod
			}
			parts[len(parts)-1] = mod + ":" + parts[len(parts)-1]
			break
		}
		parts = append(parts, n.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

// Ancestor returns the closest proper ancestor of id whose kind is one of
// kinds, or NoNode.
func (t *Tree) Ancestor(id NodeID, kinds ...NodeKind) NodeID {
	for cur := t.Node(id).Parent; cur != NoNode; cur = t.nodes[cur].Parent {
		for _, k := range kinds {
			if t.nodes[cur].Kind == k {
				return cur
			}
		}
	}
	return NoNode
}

// InGrouping reports whether id is declared inside a grouping.
func (t *Tree) InGrouping(id NodeID) bool {
	return t.Ancestor(id, GroupingNode) != NoNode
}

// inTemplate reports whether id lives in a grouping or augment body.  Nodes
// in templates are only ever instantiated through clones.
func (t *Tree) inTemplate(id NodeID) bool {
	return t.Ancestor(id, GroupingNode, AugmentNode) != NoNode
}

// Origin follows the ReferredFrom links of id back to the authored node.
func (t *Tree) Origin(id NodeID) NodeID {
	for t.Node(id).ReferredFrom != NoNode {
		id = t.nodes[id].ReferredFrom
	}
	return id
}

// Root returns the module or submodule node id belongs to.
func (t *Tree) Root(id NodeID) NodeID {
	for t.Node(id).Parent != NoNode {
		id = t.nodes[id].Parent
	}
	return id
}

// ChildrenOfKind returns the children of id that have kind k.
func (t *Tree) ChildrenOfKind(id NodeID, k NodeKind) []NodeID {
	var ids []NodeID
	for _, c := range t.Node(id).Children {
		if t.nodes[c].Kind == k {
			ids = append(ids, c)
		}
	}
	return ids
}
