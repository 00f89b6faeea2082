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

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/openconfig/yanglink/pkg/indent"
	"github.com/openconfig/yanglink/pkg/yang"
	"github.com/pborman/getopt"
)

var (
	typesDebug   bool
	typesVerbose bool
)

func init() {
	flags := getopt.New()
	register(&formatter{
		name:  "types",
		f:     doTypes,
		help:  "display found types",
		flags: flags,
	})
	flags.BoolVarLong(&typesDebug, "types_debug", 0, "display identities and what derives from them")
	flags.BoolVarLong(&typesVerbose, "types_verbose", 0, "include source locations")
}

func doTypes(w io.Writer, ms *yang.Modules, units []*yang.Unit) {
	types := Types{}
	for _, u := range units {
		for _, fu := range ms.Family(u) {
			types.AddNode(ms.Tree, fu.Root)
		}
	}
	for _, t := range types.Sorted() {
		printType(w, ms, t, typesVerbose)
	}
	if typesDebug {
		for _, u := range units {
			for _, fu := range ms.Family(u) {
				showIdentities(w, ms, fu.Root)
			}
		}
	}
}

// Types keeps track of all the Types declared.
type Types map[*yang.Type]struct{}

// AddNode adds the types declared by root and its descendants to t.
func (t Types) AddNode(tree *yang.Tree, root yang.NodeID) {
	tree.Walk(root, func(id yang.NodeID) bool {
		n := tree.Node(id)
		if n.Removed {
			return false
		}
		if n.Type != nil {
			t[n.Type] = struct{}{}
		}
		return true
	})
}

// Sorted returns the types in t in source order.
func (t Types) Sorted() []*yang.Type {
	types := make([]*yang.Type, 0, len(t))
	for typ := range t {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool {
		a, b := types[i].Loc, types[j].Loc
		switch {
		case a.File != b.File:
			return a.File < b.File
		case a.Line != b.Line:
			return a.Line < b.Line
		case a.Col != b.Col:
			return a.Col < b.Col
		}
		return types[i].Owner < types[j].Owner
	})
	return types
}

// printType prints type t in a moderately human readable format to w.
func printType(w io.Writer, ms *yang.Modules, t *yang.Type, verbose bool) {
	if verbose {
		fmt.Fprintf(w, "%s: ", t.Loc)
	}
	fmt.Fprintf(w, "%s", t.Name)
	if t.Resolved() && t.Kind.String() != t.Name {
		fmt.Fprintf(w, "(%s)", t.Kind)
	}
	if t.Units != "" {
		fmt.Fprintf(w, " units=%s", t.Units)
	}
	if t.Default != "" {
		fmt.Fprintf(w, " default=%q", t.Default)
	}
	if t.FractionDigits != 0 {
		fmt.Fprintf(w, " fraction-digits=%d", t.FractionDigits)
	}
	if t.Length != "" {
		fmt.Fprintf(w, " length=%s", t.Length)
	}
	if t.Range != "" {
		fmt.Fprintf(w, " range=%s", t.Range)
	}
	if t.Kind == yang.Yleafref && t.Path != "" {
		fmt.Fprintf(w, " path=%q", t.Path)
	}
	if len(t.Pattern) > 0 {
		fmt.Fprintf(w, " pattern=%s", strings.Join(t.Pattern, "|"))
	}
	if len(t.Identities) > 0 {
		var bases []string
		for _, id := range t.Identities {
			bases = append(bases, ms.IdentityName(id))
		}
		fmt.Fprintf(w, " base=%s", strings.Join(bases, ","))
	}
	if e := t.Enum; e != nil {
		fmt.Fprintf(w, " enums={%s}", members(e))
	}
	if e := t.Bit; e != nil {
		fmt.Fprintf(w, " bits={%s}", members(e))
	}
	fmt.Fprintf(w, ";\n")
	if len(t.Union) > 0 {
		iw := indent.NewWriter(w, "  ")
		for _, m := range t.Union {
			printType(iw, ms, m, verbose)
		}
	}
}

// members returns the name=value pairs of e in value order.
func members(e *yang.EnumType) string {
	var parts []string
	for _, v := range e.Values() {
		parts = append(parts, fmt.Sprintf("%s=%d", e.Name(v), v))
	}
	return strings.Join(parts, ",")
}

// showIdentities writes every identity under root with the identities
// derived from it.
func showIdentities(w io.Writer, ms *yang.Modules, root yang.NodeID) {
	for _, id := range ms.Tree.ChildrenOfKind(root, yang.IdentityNode) {
		var derived []string
		for _, d := range ms.Tree.Node(id).Derived {
			derived = append(derived, ms.IdentityName(d))
		}
		fmt.Fprintf(w, "identity %s: %s\n", ms.IdentityName(id), strings.Join(derived, " "))
	}
}
