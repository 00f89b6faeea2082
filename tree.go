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
)

func init() {
	register(&formatter{
		name: "tree",
		f:    doTree,
		help: "display in a tree format",
	})
}

func doTree(w io.Writer, ms *yang.Modules, units []*yang.Unit) {
	for _, u := range units {
		writeUnit(w, ms, u)
	}
}

// writeUnit writes the data tree of module u, including the nodes of its
// submodules, to w.
func writeUnit(w io.Writer, ms *yang.Modules, u *yang.Unit) {
	fmt.Fprintf(w, "module %s {\n", u.FullName()) //}
	var children []yang.NodeID
	for _, fu := range ms.Family(u) {
		children = append(children, ms.Tree.Node(fu.Root).Children...)
	}
	for _, c := range sortedData(ms.Tree, children) {
		Write(indent.NewWriter(w, "  "), ms.Tree, u.Module, c)
	}
	// { to match the brace below to keep brace matching working
	fmt.Fprintln(w, "}")
}

// sortedData returns the data nodes among ids, sorted by name.
func sortedData(t *yang.Tree, ids []yang.NodeID) []yang.NodeID {
	var data []yang.NodeID
	for _, id := range ids {
		if n := t.Node(id); n.Kind.IsDataDefinition() && !n.Removed {
			data = append(data, id)
		}
	}
	sort.SliceStable(data, func(i, j int) bool {
		return t.Node(data[i]).Name < t.Node(data[j]).Name
	})
	return data
}

// Write writes node id, formatted, and all of its children, to w.  Nodes
// bound to a module other than module are written with a prefix.
func Write(w io.Writer, t *yang.Tree, module string, id yang.NodeID) {
	n := t.Node(id)
	if n.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(indent.NewWriter(w, "// "), n.Description)
	}
	if len(n.Annotations) > 0 {
		fmt.Fprintf(w, "annotations: {\n")
		for _, a := range n.Annotations {
			if arg, ok := a.Arg(); ok {
				fmt.Fprintf(w, "  %s %s;\n", a.Keyword, arg)
			} else {
				fmt.Fprintf(w, "  %s;\n", a.Keyword)
			}
		}
		fmt.Fprintln(w, "}")
	}
	switch {
	case n.Kind == yang.RPCNode || n.Kind == yang.ActionNode:
		fmt.Fprintf(w, "RPC: ")
	case !t.EffectiveConfig(id):
		fmt.Fprintf(w, "RO: ")
	default:
		fmt.Fprintf(w, "rw: ")
	}
	if n.Type != nil {
		fmt.Fprintf(w, "%s ", typeName(n.Type))
	}
	name := n.Name
	if n.Module != "" && n.Module != module {
		name = n.Module + ":" + name
	}
	children := sortedData(t, n.Children)
	switch {
	case n.Kind == yang.LeafListNode:
		fmt.Fprintf(w, "[]%s\n", name)
		return
	case len(children) == 0 && !n.Kind.CanHoldChildren():
		fmt.Fprintf(w, "%s\n", name)
		return
	case n.Kind == yang.ListNode:
		fmt.Fprintf(w, "[%s]%s {\n", strings.Join(n.Keys, " "), name) //}
	default:
		fmt.Fprintf(w, "%s {\n", name) //}
	}
	for _, c := range children {
		Write(indent.NewWriter(w, "  "), t, n.Module, c)
	}
	// { to match the brace below to keep brace matching working
	fmt.Fprintln(w, "}")
}

// typeName returns the name of the built-in type at the end of the typedef
// chain of typ.
func typeName(typ *yang.Type) string {
	if typ == nil {
		return ""
	}
	if !typ.Resolved() {
		return typ.Name
	}
	return typ.Kind.String()
}
