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

// annotationKeyword is the keyword, without its prefix, of the extension
// statement that attaches compiler annotations to a schema node:
//
//	ca:compiler-annotation /m:top/m:list {
//	    ca:app-data-structure map;
//	}
const annotationKeyword = "compiler-annotation"

// isAnnotation reports whether s is a compiler-annotation statement.
func isAnnotation(s *Statement) bool {
	prefix, name := getPrefix(s.Keyword)
	return prefix != "" && name == annotationKeyword
}

// resolveAnnotation binds the body of the compiler annotation r to the node
// named by its target path.
func (ms *Modules) resolveAnnotation(r *Resolvable, cross bool) ([]*Resolvable, error) {
	target, err := ms.findSchemaNode(r.Ref, r.Node, r.Loc, cross)
	if err != nil {
		return nil, err
	}
	if target == NoNode {
		r.deferred(errorf(UnresolvedReferenceError, "UnresolvedAnnotation", r.Loc, "compiler-annotation target %s not found", r.Ref))
		return nil, nil
	}
	n := ms.Tree.Node(target)
	n.Annotations = append(n.Annotations, r.stmt.SubStatements()...)
	r.Target = target
	r.advance(Resolved)
	return nil, nil
}
