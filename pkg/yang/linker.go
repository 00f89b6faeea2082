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

// This file implements the linker: the per-unit state machine that runs the
// resolution passes in their fixed order, first within each unit and then
// across units, until nothing changes.

import (
	"fmt"

	log "github.com/golang/glog"
)

// A LinkState is the state of a unit in the linker.
type LinkState int

const (
	Parsing = LinkState(iota)
	SelfFileResolution
	AwaitingCrossFile
	CrossFileResolution
	Done
	Failed
)

var linkStateNames = map[LinkState]string{
	Parsing:             "parsing",
	SelfFileResolution:  "self-file-resolution",
	AwaitingCrossFile:   "awaiting-cross-file",
	CrossFileResolution: "cross-file-resolution",
	Done:                "done",
	Failed:              "failed",
}

func (s LinkState) String() string {
	if n, ok := linkStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state-%d", int(s))
}

// setState moves u to state s.
func (u *Unit) setState(s LinkState) {
	if u.State == s {
		return
	}
	log.V(1).Infof("%s: %s -> %s", u.FullName(), u.State, s)
	u.State = s
}

// resolve dispatches r to the resolver of its kind.  It returns the entries
// the resolution produced, such as the types of cloned leaves.
func (ms *Modules) resolve(r *Resolvable, cross bool) ([]*Resolvable, error) {
	switch r.Kind {
	case IfFeature:
		return ms.resolveIfFeature(r, cross)
	case Uses:
		return ms.resolveUses(r, cross)
	case DerivedDataType:
		return ms.resolveDerivedType(r, cross)
	case Leafref:
		return ms.resolveLeafref(r, cross)
	case Base:
		return ms.resolveBase(r, cross)
	case Identityref:
		return ms.resolveIdentityref(r, cross)
	case Augment:
		return ms.resolveAugment(r, cross)
	case Deviation:
		return ms.resolveDeviation(r, cross)
	case CompilerAnnotation:
		return ms.resolveAnnotation(r, cross)
	}
	return nil, errorf(StructuralError, "UnknownKind", r.Loc, "no resolver for %s", r.Kind)
}

// ResolveSelfFileLinking runs one pass over the entries of kind in the
// registry of u, using only what u itself declares.  Entries produced by the
// pass are added to the same registry; those of kind are handled within this
// pass.  It reports whether any entry changed status or was added.  The error
// is the first fatal error of the pass.
func (ms *Modules) ResolveSelfFileLinking(u *Unit, kind ResolvableKind) (bool, error) {
	return ms.pass(u.Registry, kind, false)
}

// pass resolves every entry of kind in g that is not Resolved yet.
func (ms *Modules) pass(g *Registry, kind ResolvableKind, cross bool) (bool, error) {
	changed := false
	for i := 0; i < len(g.entries[kind]); i++ {
		r := g.entries[kind][i]
		if r.Status == Resolved {
			continue
		}
		before := r.Status
		r.reason = nil
		pending, err := ms.resolve(r, cross)
		if err != nil {
			if r.unit != nil {
				r.unit.setState(Failed)
			}
			return changed, err
		}
		if r.Status != before {
			changed = true
		}
		if len(pending) > 0 {
			g.Add(pending...)
			changed = true
		}
		if log.V(2) {
			log.Infof("%s: %v", kind, r)
		}
	}
	return changed, nil
}

// link links every unit not linked yet and returns the errors found.
func (ms *Modules) link() []error {
	var units []*Unit
	for _, u := range ms.sortedUnits() {
		if u.State == Parsing {
			units = append(units, u)
		}
	}

	var errs []error
	for _, u := range units {
		errs = append(errs, ms.linkSelf(u)...)
	}
	if len(errs) > 0 {
		return errs
	}

	if errs := ms.linkCross(); len(errs) > 0 {
		return errs
	}

	for _, u := range units {
		if err := ms.done(u); err != nil {
			errs = append(errs, err)
		}
	}
	ms.computeDerived()
	return errs
}

// linkSelf runs the self-file passes of u until no entry changes.  Entries
// left over move to the cross-file worklist when u depends on other units,
// otherwise they are errors.
func (ms *Modules) linkSelf(u *Unit) []error {
	u.setState(SelfFileResolution)
	for i := 0; i < ms.Options.maxPasses(); i++ {
		changed := false
		for _, k := range selfFileOrder {
			c, err := ms.ResolveSelfFileLinking(u, k)
			if err != nil {
				return []error{err}
			}
			changed = changed || c
		}
		log.V(1).Infof("%s: self-file pass %d, %d entries, changed %v", u.FullName(), i+1, u.Registry.Len(), changed)
		if !changed {
			break
		}
	}
	left := u.Registry.Unresolved()
	if len(left) == 0 {
		return nil
	}
	if err := ms.usesCycle(left); err != nil {
		u.setState(Failed)
		return []error{err}
	}
	if u.needsCrossFile() {
		ms.cross.Add(u.Registry.drain()...)
		u.setState(AwaitingCrossFile)
		return nil
	}
	u.setState(Failed)
	return unresolvedErrors(left)
}

// linkCross runs the cross-file passes until no entry changes.
func (ms *Modules) linkCross() []error {
	if ms.cross.Len() == 0 {
		return nil
	}
	for _, u := range ms.units {
		if u.State == AwaitingCrossFile {
			u.setState(CrossFileResolution)
		}
	}
	for i := 0; i < ms.Options.maxPasses(); i++ {
		changed := false
		for _, k := range crossFileOrder {
			c, err := ms.pass(ms.cross, k, true)
			if err != nil {
				return []error{err}
			}
			changed = changed || c
		}
		log.V(1).Infof("cross-file pass %d, %d entries, changed %v", i+1, ms.cross.Len(), changed)
		if !changed {
			break
		}
	}
	left := ms.cross.Unresolved()
	if len(left) == 0 {
		return nil
	}
	if err := ms.usesCycle(left); err != nil {
		return []error{err}
	}
	for _, r := range left {
		if r.unit != nil {
			r.unit.setState(Failed)
		}
	}
	return unresolvedErrors(left)
}

// done runs the checks made once u and everything it depends on is linked,
// and moves u to Done.
func (ms *Modules) done(u *Unit) error {
	if u.State == Failed {
		return nil
	}
	if err := ms.ValidateMultipleDeviationStatement(u); err != nil {
		u.setState(Failed)
		return err
	}
	if err := ms.checkConfig(u); err != nil {
		u.setState(Failed)
		return err
	}
	u.setState(Done)
	return nil
}

// usesCycle returns a RecursiveDefinitionError if any of the uses entries in
// rs is part of a cycle of groupings using each other.
func (ms *Modules) usesCycle(rs []*Resolvable) error {
	t := ms.Tree
	uses := func(g NodeID) []NodeID {
		var gs []NodeID
		t.Walk(g, func(id NodeID) bool {
			if n := t.nodes[id]; n.Kind == UsesNode && n.Grouping != NoNode {
				gs = append(gs, n.Grouping)
			}
			return true
		})
		return gs
	}
	for _, r := range rs {
		if r.Kind != Uses {
			continue
		}
		g := t.Ancestor(r.Node, GroupingNode)
		if g == NoNode {
			g = t.Node(r.Node).Grouping
		}
		if g == NoNode {
			continue
		}
		if cycle := findCycle(g, uses); cycle != nil {
			n := t.Node(r.Node)
			return &LinkError{
				Kind:     RecursiveDefinitionError,
				Code:     "GroupingCycle",
				Ident:    t.Node(cycle[0]).Name,
				Loc:      r.Loc,
				NodeKind: UsesNode,
				Path:     t.Path(r.Node),
				Msg:      fmt.Sprintf("uses %s: grouping cycle %s", n.Name, t.cycleString(cycle)),
			}
		}
	}
	return nil
}

// unresolvedErrors turns the entries left after linking into errors.  The
// reason recorded by the last attempt is kept when there is one.
func unresolvedErrors(rs []*Resolvable) []error {
	errs := make([]error, 0, len(rs))
	for _, r := range rs {
		e := errorf(UnresolvedReferenceError, "Unresolved", r.Loc, "%s %s", r.Kind, r.Ref)
		if r.reason != nil {
			re := *r.reason
			e = &re
		}
		e.Msg = "unresolved after linking: " + e.Msg
		errs = append(errs, e)
	}
	return errs
}

// EffectiveConfig reports whether the data node id is configuration, either
// by its own config statement or by inheriting it.  Notifications and the
// output of operations are never configuration.
func (t *Tree) EffectiveConfig(id NodeID) bool {
	for cur := id; cur != NoNode; cur = t.nodes[cur].Parent {
		n := t.Node(cur)
		switch n.Kind {
		case NotificationNode, OutputNode:
			return false
		}
		if n.Config != TSUnset {
			return n.Config.Value()
		}
	}
	return true
}

// checkConfig rejects a data node of u's tree that is explicitly config true
// under a node that is not configuration.  Templates, operations and
// notifications are not checked.
func (ms *Modules) checkConfig(u *Unit) error {
	t := ms.Tree
	var err error
	t.Walk(u.Root, func(id NodeID) bool {
		if err != nil {
			return false
		}
		n := t.nodes[id]
		switch n.Kind {
		case GroupingNode, AugmentNode, UsesNode, DeviationNode, TypedefNode,
			RPCNode, ActionNode, NotificationNode:
			return false
		}
		if n.Config != TSTrue || n.Parent == NoNode || t.EffectiveConfig(n.Parent) {
			return true
		}
		e := errorf(StructuralError, "InvalidConfig", n.Loc, "%s %s is config true but its parent is config false", n.Kind, t.Path(id))
		e.Ident = n.Name
		e.Path = t.Path(id)
		err = e
		return false
	})
	return err
}
