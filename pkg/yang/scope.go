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

// Prefix notes for references:
//
// If there is no prefix, look in the ancestors of the referencing node, then
// at the top level of the module and its submodules.
//
// If the prefix matches the module's prefix statement (or the submodule's
// belongs-to prefix), do the same.
//
// Finally, look at the top level of the module imported with the prefix.
//
// Looking anywhere outside the unit the reference was written in needs
// cross-file data and is only done when cross is true.

// unitForPrefix returns the unit a prefix used in u refers to: u itself for
// its own prefix, or the imported module.  local is true for u itself.  An
// unknown prefix is an error.
func (ms *Modules) unitForPrefix(u *Unit, prefix string, loc Location) (*Unit, bool, *LinkError) {
	if prefix == "" || prefix == u.Prefix {
		return u, true, nil
	}
	i := u.Imports[prefix]
	if i == nil {
		return nil, false, errorf(UnresolvedReferenceError, "UnknownPrefix", loc,
			"prefix %q is not the prefix of %s or of any module it imports", prefix, u.Name)
	}
	return i.unit, false, nil
}

// findTypeSpace returns the typedef or grouping (per kind) named ref as seen
// from scope.  It returns NoNode without an error if the name is not found,
// or if finding it needs cross-file data and cross is false.
func (ms *Modules) findTypeSpace(kind NodeKind, ref string, scope NodeID, loc Location, cross bool) (NodeID, *LinkError) {
	u := ms.unitOf(scope)
	prefix, name := getPrefix(ref)
	target, local, err := ms.unitForPrefix(u, prefix, loc)
	if err != nil {
		return NoNode, err
	}
	if local {
		for s := scope; s != NoNode; s = ms.Tree.nodes[s].Parent {
			if id := ms.Tree.typeChild(s, kind, name); id != NoNode {
				return id, nil
			}
		}
	}
	if !cross || target == nil {
		return NoNode, nil
	}
	for _, fu := range ms.Family(target) {
		if fu == u && local {
			continue
		}
		if id := ms.Tree.typeChild(fu.Root, kind, name); id != NoNode {
			return id, nil
		}
	}
	return NoNode, nil
}

// findTop returns the identity or feature (per kind) named ref as seen from
// scope.  Identities and features are only declared at the top level.
func (ms *Modules) findTop(kind NodeKind, ref string, scope NodeID, loc Location, cross bool) (NodeID, *LinkError) {
	u := ms.unitOf(scope)
	prefix, name := getPrefix(ref)
	target, local, err := ms.unitForPrefix(u, prefix, loc)
	if err != nil {
		return NoNode, err
	}
	pick := func(u *Unit) map[string]NodeID {
		if kind == FeatureNode {
			return u.features
		}
		return u.identities
	}
	if local {
		if id, ok := pick(u)[name]; ok {
			return id, nil
		}
	}
	if !cross || target == nil {
		return NoNode, nil
	}
	for _, fu := range ms.Family(target) {
		if id, ok := pick(fu)[name]; ok {
			return id, nil
		}
	}
	return NoNode, nil
}

// moduleRoots returns the roots of every unit of the named module.
func (ms *Modules) moduleRoots(module string) []NodeID {
	u := ms.Modules[module]
	if u == nil {
		return nil
	}
	var roots []NodeID
	for _, fu := range ms.Family(u) {
		roots = append(roots, fu.Root)
	}
	return roots
}
