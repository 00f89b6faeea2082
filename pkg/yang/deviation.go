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

// This file implements deviations: mutating the properties of a target node,
// or removing it, on behalf of another module.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/derekparker/trie"
)

// A DeviateKind is the argument of a deviate statement.
type DeviateKind int

const (
	DeviateNotSupported = DeviateKind(iota)
	DeviateAdd
	DeviateReplace
	DeviateDelete
)

var deviateKindNames = map[DeviateKind]string{
	DeviateNotSupported: "not-supported",
	DeviateAdd:          "add",
	DeviateReplace:      "replace",
	DeviateDelete:       "delete",
}

func (k DeviateKind) String() string {
	if s, ok := deviateKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("deviate-%d", int(k))
}

// deviateKindFromName maps the argument of a deviate statement to its kind.
var deviateKindFromName = map[string]DeviateKind{
	"not-supported": DeviateNotSupported,
	"add":           DeviateAdd,
	"replace":       DeviateReplace,
	"delete":        DeviateDelete,
}

// A Deviate is one deviate statement of a deviation and the properties it
// carries.
type Deviate struct {
	Kind DeviateKind
	Loc  Location

	Config      TriState
	Mandatory   TriState
	Default     []string
	Units       string
	Must        []string
	Unique      []string
	MinElements string
	MaxElements string
	Type        *Type
}

// conflict returns a DeviationConflictError for the deviate d.
func (d *Deviate) conflict(code string, target string, format string, v ...interface{}) *LinkError {
	e := errorf(DeviationConflictError, code, d.Loc, "deviate %s %s: %s", d.Kind, target, fmt.Sprintf(format, v...))
	e.Path = target
	return e
}

// checkDeviates rejects a deviation that mixes not-supported with any other
// deviate.
func checkDeviates(n *Node) error {
	if len(n.Deviates) < 2 {
		return nil
	}
	for _, d := range n.Deviates {
		if d.Kind == DeviateNotSupported {
			e := errorf(DeviationConflictError, "NotSupportedExclusive", d.Loc,
				"deviation %s: not-supported cannot be combined with other deviate statements", n.Name)
			e.Ident = n.Name
			return e
		}
	}
	return nil
}

// resolveDeviation finds the target of the deviation r.Node and applies its
// deviate statements.  A target that cannot be found yet defers the entry.
func (ms *Modules) resolveDeviation(r *Resolvable, cross bool) ([]*Resolvable, error) {
	t := ms.Tree
	n := t.Node(r.Node)
	if err := checkDeviates(n); err != nil {
		return nil, err
	}
	target, lerr := ms.findSchemaNode(n.Name, r.Node, r.Loc, cross)
	if lerr != nil {
		return nil, lerr
	}
	if target == NoNode {
		if e := ms.removedAncestor(r.unit, r.Node); e != nil {
			return nil, e
		}
		r.deferred(errorf(UnresolvedReferenceError, "UnresolvedDeviation", r.Loc, "deviation target %s not found", n.Name))
		return nil, nil
	}
	var pending []*Resolvable
	for _, d := range n.Deviates {
		rs, err := ms.applyDeviate(r.unit, d, target)
		if err != nil {
			return nil, err
		}
		pending = append(pending, rs...)
	}
	n.Target = target
	r.Target = target
	r.advance(Resolved)
	return pending, nil
}

// removedAncestor returns a NotSupportedConflict when another deviation of u
// already removed an ancestor of the target of the deviation id.
func (ms *Modules) removedAncestor(u *Unit, id NodeID) *LinkError {
	t := ms.Tree
	n := t.Node(id)
	for _, d := range u.deviations {
		dn := t.Node(d)
		if d == id || dn.Target == NoNode || !t.Node(dn.Target).Removed {
			continue
		}
		if !strings.HasPrefix(n.Name, strings.TrimSuffix(dn.Name, "/")+"/") {
			continue
		}
		return errorf(DeviationConflictError, "NotSupportedConflict", dn.Loc,
			"%s is not-supported but %s below it is also deviated by %s", t.Path(dn.Target), n.Name, u.Name)
	}
	return nil
}

// applyDeviate applies d to the node target.  A replaced type is returned as
// new entries to resolve.
func (ms *Modules) applyDeviate(u *Unit, d *Deviate, target NodeID) ([]*Resolvable, error) {
	t := ms.Tree
	n := t.Node(target)
	path := t.Path(target)

	switch d.Kind {
	case DeviateNotSupported:
		t.Detach(target)
		return nil, nil

	case DeviateAdd:
		if d.Type != nil {
			return nil, d.conflict("InvalidDeviate", path, "type cannot be added")
		}
		if d.Config != TSUnset {
			if n.Config != TSUnset {
				return nil, d.conflict("PropertyExists", path, "config is already %s", n.Config)
			}
			n.Config = d.Config
		}
		if d.Mandatory != TSUnset {
			if n.Mandatory != TSUnset {
				return nil, d.conflict("PropertyExists", path, "mandatory is already %s", n.Mandatory)
			}
			n.Mandatory = d.Mandatory
		}
		if len(d.Default) > 0 {
			if n.Kind != LeafListNode && len(n.Default) > 0 {
				return nil, d.conflict("PropertyExists", path, "default is already %q", n.Default[0])
			}
			n.Default = append(n.Default, d.Default...)
		}
		if d.Units != "" {
			if n.Units != "" {
				return nil, d.conflict("PropertyExists", path, "units is already %q", n.Units)
			}
			n.Units = d.Units
		}
		if d.MinElements != "" {
			if n.MinElements != "" {
				return nil, d.conflict("PropertyExists", path, "min-elements is already %s", n.MinElements)
			}
			n.MinElements = d.MinElements
		}
		if d.MaxElements != "" {
			if n.MaxElements != "" {
				return nil, d.conflict("PropertyExists", path, "max-elements is already %s", n.MaxElements)
			}
			n.MaxElements = d.MaxElements
		}
		n.Must = append(n.Must, d.Must...)
		n.Unique = append(n.Unique, d.Unique...)
		return nil, nil

	case DeviateReplace:
		if len(d.Must) > 0 || len(d.Unique) > 0 {
			return nil, d.conflict("InvalidDeviate", path, "must and unique cannot be replaced")
		}
		// config and mandatory always have a value, explicit or inherited.
		if d.Config != TSUnset {
			n.Config = d.Config
		}
		if d.Mandatory != TSUnset {
			n.Mandatory = d.Mandatory
		}
		if len(d.Default) > 0 {
			if len(n.Default) == 0 {
				return nil, d.conflict("PropertyMissing", path, "no default to replace")
			}
			n.Default = append([]string(nil), d.Default...)
		}
		if d.Units != "" {
			if n.Units == "" {
				return nil, d.conflict("PropertyMissing", path, "no units to replace")
			}
			n.Units = d.Units
		}
		if d.MinElements != "" {
			if n.MinElements == "" {
				return nil, d.conflict("PropertyMissing", path, "no min-elements to replace")
			}
			n.MinElements = d.MinElements
		}
		if d.MaxElements != "" {
			if n.MaxElements == "" {
				return nil, d.conflict("PropertyMissing", path, "no max-elements to replace")
			}
			n.MaxElements = d.MaxElements
		}
		if d.Type != nil {
			if n.Type == nil {
				return nil, d.conflict("PropertyMissing", path, "%s has no type", n.Kind)
			}
			n.Type = d.Type.clone(target)
			return ms.typeEntries(u, target, n.Type), nil
		}
		return nil, nil

	case DeviateDelete:
		if d.Type != nil || d.Config != TSUnset || d.Mandatory != TSUnset ||
			d.MinElements != "" || d.MaxElements != "" {
			return nil, d.conflict("InvalidDeviate", path, "only default, units, must and unique can be deleted")
		}
		var err *LinkError
		if n.Default, err = deleteValues(d, path, "default", n.Default, d.Default); err != nil {
			return nil, err
		}
		if n.Must, err = deleteValues(d, path, "must", n.Must, d.Must); err != nil {
			return nil, err
		}
		if n.Unique, err = deleteValues(d, path, "unique", n.Unique, d.Unique); err != nil {
			return nil, err
		}
		if d.Units != "" {
			if n.Units != d.Units {
				return nil, d.conflict("PropertyMismatch", path, "units %q does not match %q", d.Units, n.Units)
			}
			n.Units = ""
		}
		return nil, nil
	}
	return nil, d.conflict("InvalidDeviate", path, "unknown deviate kind")
}

// deleteValues removes each of del from have.  Every value deleted must be
// present.
func deleteValues(d *Deviate, path, what string, have, del []string) ([]string, *LinkError) {
	for _, v := range del {
		found := false
		for i, h := range have {
			if h == v {
				have = append(have[:i:i], have[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return nil, d.conflict("PropertyMismatch", path, "%s %q is not present", what, v)
		}
	}
	return have, nil
}

// targetModule returns the module a resolved deviation target belongs to: the
// module whose top-level node it sits under.
func (ms *Modules) targetModule(id NodeID) string {
	if u := ms.unitOf(id); u != nil {
		return u.Module
	}
	return ""
}

// ValidateMultipleDeviationStatement checks the deviations of u once they are
// all applied.  All of them must target nodes of one module, and no node
// removed by a not-supported deviation may contain, or be, the target of
// another deviation of u.
func (ms *Modules) ValidateMultipleDeviationStatement(u *Unit) error {
	t := ms.Tree
	if len(u.deviations) == 0 {
		return nil
	}
	modules := map[string]NodeID{}
	paths := trie.New()
	counts := map[string]int{}
	var removed []NodeID
	for _, d := range u.deviations {
		n := t.Node(d)
		if n.Target == NoNode {
			continue
		}
		modules[ms.targetModule(n.Target)] = d
		p := t.Path(n.Target)
		paths.Add(p, d)
		counts[p]++
		for _, dv := range n.Deviates {
			if dv.Kind == DeviateNotSupported {
				removed = append(removed, d)
			}
		}
	}
	if len(modules) > 1 {
		var names []string
		for m := range modules {
			names = append(names, m)
		}
		sort.Strings(names)
		first := t.Node(u.deviations[0])
		e := errorf(DeviationConflictError, "MultipleTargetModules", first.Loc,
			"deviations of %s target more than one module: %s", u.Name, strings.Join(names, ", "))
		e.Ident = u.Name
		return e
	}
	for _, d := range removed {
		n := t.Node(d)
		p := t.Path(n.Target)
		if counts[p] > 1 {
			return errorf(DeviationConflictError, "NotSupportedConflict", n.Loc,
				"%s is not-supported but is deviated more than once by %s", p, u.Name)
		}
		if below := paths.PrefixSearch(p + "/"); len(below) > 0 {
			sort.Strings(below)
			return errorf(DeviationConflictError, "NotSupportedConflict", n.Loc,
				"%s is not-supported but %s below it is also deviated by %s", p, below[0], u.Name)
		}
	}
	return nil
}
