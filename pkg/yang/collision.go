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

import "fmt"

// detect reports whether adding a node of kind named name to holder would
// collide with an identifier already visible there.  Data node identifiers
// are checked among the direct children of holder (and, for a case, the
// other cases of its choice).  Typedef and grouping identifiers are checked
// in holder, every enclosing scope up to the unit root, and every scope
// nested below holder.  loc is the location reported for the candidate.
func (t *Tree) detect(holder NodeID, name string, kind NodeKind, loc Location) error {
	switch {
	case kind.IsTypeSpace():
		for scope := holder; scope != NoNode; scope = t.nodes[scope].Parent {
			if id := t.typeChild(scope, kind, name); id != NoNode {
				return t.collision(holder, id, name, kind, loc)
			}
		}
		found := NoNode
		t.Walk(holder, func(id NodeID) bool {
			if found != NoNode {
				return false
			}
			if id != holder {
				found = t.typeChild(id, kind, name)
			}
			return found == NoNode
		})
		if found != NoNode {
			return t.collision(holder, found, name, kind, loc)
		}
	case kind.IsDataDefinition():
		if id := t.Child(holder, name, DataNode); id != NoNode {
			return t.collision(holder, id, name, kind, loc)
		}
		h := t.Node(holder)
		if h.Kind != CaseNode || h.Parent == NoNode || t.nodes[h.Parent].Kind != ChoiceNode {
			return nil
		}
		for _, c := range t.nodes[h.Parent].Children {
			if c == holder || t.nodes[c].Kind != CaseNode {
				continue
			}
			if id := t.findTransparent(c, name); id != NoNode {
				return t.collision(holder, id, name, kind, loc)
			}
		}
	}
	return nil
}

// collision builds the CollisionError for a candidate that collides with the
// existing node.
func (t *Tree) collision(holder, existing NodeID, name string, kind NodeKind, loc Location) *LinkError {
	e := t.Node(existing)
	other := e.Loc
	return &LinkError{
		Kind:      CollisionError,
		Code:      "Collision",
		Ident:     name,
		Loc:       loc,
		Other:     &other,
		NodeKind:  kind,
		OtherKind: e.Kind,
		Path:      t.Path(holder),
		Msg:       fmt.Sprintf("%s %q collides with %s %q in %s", kind, name, e.Kind, e.Name, t.Path(holder)),
	}
}

// findTransparent looks up a data node named name below id, looking through
// choice and case nodes.
func (t *Tree) findTransparent(id NodeID, name string) NodeID {
	if c := t.Child(id, name, DataNode); c != NoNode {
		return c
	}
	for _, c := range t.Node(id).Children {
		if k := t.nodes[c].Kind; k == ChoiceNode || k == CaseNode {
			if found := t.findTransparent(c, name); found != NoNode {
				return found
			}
		}
	}
	return NoNode
}

// attachChecked runs collision detection for child against holder and then
// attaches it.  loc is the location reported for the child on collision.
func (t *Tree) attachChecked(holder, child NodeID, loc Location) error {
	c := t.Node(child)
	if err := t.detect(holder, c.Name, c.Kind, loc); err != nil {
		return err
	}
	return t.Attach(holder, child)
}

// detectSelf rejects a uses that names a grouping it is itself declared in.
func (t *Tree) detectSelf(uses, grouping NodeID) error {
	for cur := t.Node(uses).Parent; cur != NoNode; cur = t.nodes[cur].Parent {
		if cur != grouping {
			continue
		}
		g := t.nodes[grouping]
		other := g.Loc
		return &LinkError{
			Kind:      RecursiveDefinitionError,
			Code:      "SelfReference",
			Ident:     g.Name,
			Loc:       t.nodes[uses].Loc,
			Other:     &other,
			NodeKind:  UsesNode,
			OtherKind: GroupingNode,
			Path:      t.Path(uses),
			Msg:       fmt.Sprintf("uses %q is inside grouping %q: grouping cycle %s -> %s", g.Name, g.Name, g.Name, g.Name),
		}
	}
	return nil
}
