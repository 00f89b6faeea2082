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
)

// A NodeKind is the kind of a schema node.  The kind decides which
// capabilities a node has (see IsLeavesHolder and friends) rather than a type
// hierarchy.
type NodeKind int

const (
	ModuleNode = NodeKind(iota)
	SubModuleNode
	ContainerNode
	ListNode
	LeafNode
	LeafListNode
	ChoiceNode
	CaseNode
	AnyDataNode
	AnyXMLNode
	GroupingNode
	UsesNode
	TypedefNode
	IdentityNode
	FeatureNode
	AugmentNode
	DeviationNode
	NotificationNode
	RPCNode
	InputNode
	OutputNode
	ActionNode
)

var kindNames = map[NodeKind]string{
	ModuleNode:       "module",
	SubModuleNode:    "submodule",
	ContainerNode:    "container",
	ListNode:         "list",
	LeafNode:         "leaf",
	LeafListNode:     "leaf-list",
	ChoiceNode:       "choice",
	CaseNode:         "case",
	AnyDataNode:      "anydata",
	AnyXMLNode:       "anyxml",
	GroupingNode:     "grouping",
	UsesNode:         "uses",
	TypedefNode:      "typedef",
	IdentityNode:     "identity",
	FeatureNode:      "feature",
	AugmentNode:      "augment",
	DeviationNode:    "deviation",
	NotificationNode: "notification",
	RPCNode:          "rpc",
	InputNode:        "input",
	OutputNode:       "output",
	ActionNode:       "action",
}

// String returns the YANG keyword for k.
func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind-%d", int(k))
}

// IsLeavesHolder reports whether nodes of kind k may directly contain leaves
// and leaf-lists.
func (k NodeKind) IsLeavesHolder() bool {
	switch k {
	case ModuleNode, SubModuleNode, ContainerNode, ListNode, CaseNode,
		GroupingNode, NotificationNode, InputNode, OutputNode, AugmentNode:
		return true
	}
	return false
}

// IsCollisionDetector reports whether nodes of kind k keep a data node
// namespace for their children.
func (k NodeKind) IsCollisionDetector() bool {
	switch k {
	case ChoiceNode, RPCNode, ActionNode:
		return true
	}
	return k.IsLeavesHolder()
}

// CanHoldChildren reports whether a node of kind k may have any children at
// all.
func (k NodeKind) CanHoldChildren() bool {
	switch k {
	case LeafNode, LeafListNode, AnyDataNode, AnyXMLNode, TypedefNode,
		IdentityNode, FeatureNode, DeviationNode:
		return false
	}
	return true
}

// IsDataDefinition reports whether k names a member of the data node
// namespace.
func (k NodeKind) IsDataDefinition() bool {
	switch k {
	case ContainerNode, ListNode, LeafNode, LeafListNode, ChoiceNode,
		CaseNode, AnyDataNode, AnyXMLNode, NotificationNode, RPCNode,
		ActionNode, InputNode, OutputNode:
		return true
	}
	return false
}

// IsTypeSpace reports whether k names a member of the typedef/grouping
// namespace.
func (k NodeKind) IsTypeSpace() bool {
	return k == TypedefNode || k == GroupingNode
}

// isShorthandCase reports whether a node of kind k may appear directly under
// a choice, standing for an implicit case of the same name.
func (k NodeKind) isShorthandCase() bool {
	switch k {
	case ContainerNode, ListNode, LeafNode, LeafListNode, AnyDataNode,
		AnyXMLNode, ChoiceNode:
		return true
	}
	return false
}

// A NodeID addresses a Node within a Tree.
type NodeID int

// NoNode is the NodeID of no node.
const NoNode = NodeID(-1)

// Location is a position in a source file.  Line and Col are 1's based.
type Location struct {
	File string
	Line int
	Col  int
}

// String returns l in the form file:line:col.
func (l Location) String() string {
	switch {
	case l.File == "" && l.Line == 0:
		return "unknown"
	case l.File == "":
		return fmt.Sprintf("line %d:%d", l.Line, l.Col)
	case l.Line == 0:
		return l.File
	default:
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
	}
}

// A TriState may be true, false, or unset.
type TriState int

// The possible states of a TriState.
const (
	TSUnset = TriState(iota)
	TSTrue
	TSFalse
)

// Value returns the value of t as a boolean.  Unset is returned as false.
func (t TriState) Value() bool {
	return t == TSTrue
}

// String displays t as a string.
func (t TriState) String() string {
	switch t {
	case TSUnset:
		return "unset"
	case TSTrue:
		return "true"
	case TSFalse:
		return "false"
	default:
		return fmt.Sprintf("ts-%d", t)
	}
}

// A Node is one schema node.  Nodes are owned by a Tree and refer to each
// other by NodeID.  Parent and Next are navigation links only, a node is owned
// through its parent's Children.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Name     string
	Loc      Location
	Parent   NodeID
	Children []NodeID
	Next     NodeID

	// ReferredFrom is the node this node was cloned from by a uses or
	// augment, or NoNode for authored nodes.
	ReferredFrom NodeID
	// Unit is the root of the module or submodule the node belongs to.
	// Clones belong to the unit of the uses or augment that made them.
	Unit NodeID
	// Module is the name of the module whose namespace the node is bound
	// to.  It is empty while the node lives inside a grouping.
	Module string

	Description string
	Reference   string
	Status      string
	When        string
	IfFeatures  []string
	Must        []string
	Extensions  []*Statement

	// Data node properties.
	Config      TriState
	Mandatory   TriState
	Presence    string
	Default     []string
	Units       string
	MinElements string
	MaxElements string
	OrderedBy   string
	Keys        []string // list
	Unique      []string // list
	IsKey       bool     // leaf
	Type        *Type    // leaf, leaf-list and typedef

	// Removed is set when a deviation marked the node not-supported.  The
	// node is detached from its parent.
	Removed bool

	// Grouping is the grouping a uses refers to, once known.
	Grouping NodeID
	// Refines are the refine statements of a uses.
	Refines []*Refine
	// GroupingDepth is the nesting level of a grouping among groupings.
	GroupingDepth int

	// Bases are the resolved base identities of an identity.
	Bases []NodeID
	// Derived are the identities that have this identity as a base,
	// directly or transitively.
	Derived []NodeID

	// Target is the node an augment or deviation was applied to.
	Target NodeID
	// Deviates are the deviate statements of a deviation.
	Deviates []*Deviate

	// Annotations are the compiler annotations bound to this node.
	Annotations []*Statement

	entry        *Resolvable       // uses, augment and deviation
	dataChildren map[string]NodeID // data node namespace
	typeChildren map[typeKey]NodeID
}

// A typeKey identifies a member of the typedef/grouping namespace.
type typeKey struct {
	kind NodeKind
	name string
}

// Entry returns the resolution entry of a uses, augment or deviation node, or
// nil.
func (n *Node) Entry() *Resolvable { return n.entry }

// A Refine is a refine statement of a uses.
type Refine struct {
	Path        string
	Loc         Location
	Description string
	Reference   string
	Default     []string
	Config      TriState
	Mandatory   TriState
	Presence    string
	MinElements string
	MaxElements string
	IfFeatures  []string
	Must        []string
}

// getPrefix returns the prefix and base name of s.  If s has no prefix
// then the returned prefix is "".
func getPrefix(s string) (string, string) {
	f := strings.SplitN(s, ":", 2)
	if len(f) == 1 {
		return "", s
	}
	return f[0], f[1]
}
