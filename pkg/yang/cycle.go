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

import "strings"

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// findCycle walks the edges returned by next, depth first, starting at
// start.  It returns the first cycle found as a path whose first and last
// elements are the same node, or nil.
func findCycle(start NodeID, next func(NodeID) []NodeID) []NodeID {
	states := map[NodeID]visitState{}
	var stack []NodeID
	var visit func(NodeID) []NodeID
	visit = func(id NodeID) []NodeID {
		switch states[id] {
		case stateVisiting:
			for i, s := range stack {
				if s == id {
					return append(append([]NodeID(nil), stack[i:]...), id)
				}
			}
			return []NodeID{id, id}
		case stateDone:
			return nil
		}
		states[id] = stateVisiting
		stack = append(stack, id)
		for _, n := range next(id) {
			if c := visit(n); c != nil {
				return c
			}
		}
		stack = stack[:len(stack)-1]
		states[id] = stateDone
		return nil
	}
	return visit(start)
}

// cycleString renders a cycle as "a -> b -> a".
func (t *Tree) cycleString(cycle []NodeID) string {
	names := make([]string, len(cycle))
	for i, id := range cycle {
		names[i] = t.Node(id).Name
	}
	return strings.Join(names, " -> ")
}
