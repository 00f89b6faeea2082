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

// Package yang links .yang files (see RFC 6020 and RFC 7950).
//
// A generic yang statement takes one of the forms:
//
//    keyword [argument] ;
//    keyword [argument] { [statement [...]] }
//
// At the lowest level, package yang returns a simple tree of statements via the
// Parse function.  The Parse function makes no attempt to determine the
// validity of the source, other than checking for generic syntax errors.
//
// A Modules turns statement trees into a schema Tree and links it: every uses
// is expanded, every type is resolved down to a built-in type, identities,
// leafrefs and if-feature expressions are bound, and augments and deviations
// are applied.  Linking runs in resolution passes of a fixed order, first
// within each module or submodule and then across all of them, until nothing
// changes:
//
//	ms := yang.NewModules()
//	ms.AddPath("models/...")
//	m, errs := ms.GetModule("module-name")
//	if len(errs) > 0 {
//		for _, err := range errs {
//			fmt.Fprintln(os.Stderr, err)
//		}
//		os.Exit(1)
//	}
//
//	// ms.Tree.Node(m.Root) is the root of the linked tree of "module-name".
//
// Errors found while linking are *LinkError values carrying the location of
// the offending statement, and for collisions the location of the other
// participant.
package yang
