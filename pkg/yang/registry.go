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

// A ResolutionStatus is how far a Resolvable has been resolved.  Statuses
// only ever increase.
type ResolutionStatus int

const (
	Unresolved = ResolutionStatus(iota)
	// IntraFileResolved means the reference was bound but the work it
	// implies was deferred to a later pass.
	IntraFileResolved
	Resolved
)

func (s ResolutionStatus) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case IntraFileResolved:
		return "intra-file-resolved"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("status-%d", int(s))
}

// A ResolvableKind is the kind of reference a Resolvable stands for.
type ResolvableKind int

const (
	IfFeature = ResolvableKind(iota)
	Uses
	DerivedDataType
	Leafref
	Base
	Identityref
	Augment
	Deviation
	CompilerAnnotation
	numResolvableKinds
)

var resolvableKindNames = [numResolvableKinds]string{
	IfFeature:          "if-feature",
	Uses:               "uses",
	DerivedDataType:    "derived-type",
	Leafref:            "leafref",
	Base:               "base",
	Identityref:        "identityref",
	Augment:            "augment",
	Deviation:          "deviation",
	CompilerAnnotation: "compiler-annotation",
}

func (k ResolvableKind) String() string {
	if k >= 0 && k < numResolvableKinds {
		return resolvableKindNames[k]
	}
	return fmt.Sprintf("resolvable-%d", int(k))
}

// selfFileOrder is the order in which kinds are resolved within one unit.
// Uses changes the tree that leafref and derived type resolution walk, and
// identity chains may be expressed through derived types.
var selfFileOrder = []ResolvableKind{
	IfFeature,
	Uses,
	DerivedDataType,
	Leafref,
	Base,
	Identityref,
	CompilerAnnotation,
}

// crossFileOrder is the order in which kinds are resolved once every unit
// has been through self-file resolution.
var crossFileOrder = []ResolvableKind{
	IfFeature,
	Uses,
	Augment,
	DerivedDataType,
	Leafref,
	Base,
	Identityref,
	Deviation,
	CompilerAnnotation,
}

// A Resolvable is one reference that must be resolved by the linker: a uses,
// a type needing derivation, a base, an if-feature, an augment, a deviation
// or a compiler annotation.
type Resolvable struct {
	Kind ResolvableKind
	// Node is the node the reference is declared in.
	Node NodeID
	// Type is the type being resolved, for DerivedDataType, Leafref and
	// Identityref.
	Type *Type
	// Ref is the referenced text: a grouping or identity name, an
	// if-feature expression or a path.
	Ref    string
	Loc    Location
	Status ResolutionStatus
	// Target is the node the reference resolved to, once known.
	Target NodeID

	unit   *Unit
	stmt   *Statement // compiler annotation body
	reason *LinkError // why the last attempt did not finish
}

// advance moves r to status s.  It never demotes r and reports whether the
// status changed.
func (r *Resolvable) advance(s ResolutionStatus) bool {
	if s <= r.Status {
		return false
	}
	r.Status = s
	return true
}

// deferred records why r could not be resolved on this pass.
func (r *Resolvable) deferred(err *LinkError) {
	r.reason = err
}

// String returns a short description of r for tracing.
func (r *Resolvable) String() string {
	return fmt.Sprintf("%s %q at %s (%s)", r.Kind, r.Ref, r.Loc, r.Status)
}

// A Registry is a worklist of Resolvable entries, kept per kind in
// registration order.
type Registry struct {
	entries [numResolvableKinds][]*Resolvable
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends e to the worklist of its kind.
func (g *Registry) Add(e ...*Resolvable) {
	for _, r := range e {
		g.entries[r.Kind] = append(g.entries[r.Kind], r)
	}
}

// Entries returns the entries of kind k.
func (g *Registry) Entries(k ResolvableKind) []*Resolvable {
	return g.entries[k]
}

// Unresolved returns every entry that is not Resolved, in kind order and then
// registration order.
func (g *Registry) Unresolved() []*Resolvable {
	var rs []*Resolvable
	for _, es := range g.entries {
		for _, r := range es {
			if r.Status != Resolved {
				rs = append(rs, r)
			}
		}
	}
	return rs
}

// Len returns the number of entries in g.
func (g *Registry) Len() int {
	n := 0
	for _, es := range g.entries {
		n += len(es)
	}
	return n
}

// drain removes every entry that is not Resolved from g and returns them, in
// the order of Unresolved.
func (g *Registry) drain() []*Resolvable {
	rs := g.Unresolved()
	for k, es := range g.entries {
		kept := es[:0]
		for _, r := range es {
			if r.Status == Resolved {
				kept = append(kept, r)
			}
		}
		g.entries[k] = kept
	}
	return rs
}
