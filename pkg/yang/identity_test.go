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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/openconfig/gnmi/errdiff"
)

// identityOut is the output for a particular identity within the test case.
type identityOut struct {
	module  string   // The module that the identity is within.
	name    string   // The name of the identity.
	bases   []string // The bases of the identity as module:name.
	derived []string // The identities derived from it as module:name.
}

// idrefOut is the output for an identityref leaf.
type idrefOut struct {
	path  string   // The path of the leaf, see find.
	bases []string // The resolved bases as module:name.
}

// identityTestCase is a test case for a module which contains identities.
type identityTestCase struct {
	name          string
	in            []inputModule
	identities    []identityOut
	idrefs        []idrefOut
	wantErrSubstr string
}

var identityTestCases = []identityTestCase{{
	name: "identity without base",
	in: []inputModule{{"idtest-one", `
		module idtest-one {
		  namespace "urn:idone";
		  prefix "idone";

		  identity TEST_ID;
		}`}},
	identities: []identityOut{
		{module: "idtest-one", name: "TEST_ID"},
	},
}, {
	name: "local base and transitive derivation",
	in: []inputModule{{"idtest-two", `
		module idtest-two {
		  namespace "urn:idtwo";
		  prefix "idtwo";

		  identity TEST_ID;
		  identity TEST_CHILD {
		    base TEST_ID;
		  }
		  identity TEST_GRANDCHILD {
		    base idtwo:TEST_CHILD;
		  }
		  leaf l {
		    type identityref { base TEST_ID; }
		  }
		}`}},
	identities: []identityOut{
		{module: "idtest-two", name: "TEST_ID", derived: []string{"idtest-two:TEST_CHILD", "idtest-two:TEST_GRANDCHILD"}},
		{module: "idtest-two", name: "TEST_CHILD", bases: []string{"idtest-two:TEST_ID"}, derived: []string{"idtest-two:TEST_GRANDCHILD"}},
		{module: "idtest-two", name: "TEST_GRANDCHILD", bases: []string{"idtest-two:TEST_CHILD"}},
	},
	idrefs: []idrefOut{
		{path: "/idtest-two/l", bases: []string{"idtest-two:TEST_ID"}},
	},
}, {
	name: "remote base and identityref through a typedef",
	in: []inputModule{{"base-mod", `
		module base-mod {
		  namespace "urn:base";
		  prefix "b";

		  identity AFI;
		  identity IPV4 { base AFI; }
		  typedef afi-ref {
		    type identityref { base AFI; }
		  }
		}`}, {"remote-mod", `
		module remote-mod {
		  namespace "urn:remote";
		  prefix "r";
		  import base-mod { prefix bm; }

		  identity IPV6 { base bm:AFI; }
		  identity MULTI {
		    base bm:IPV4;
		    base IPV6;
		  }
		  leaf family { type bm:afi-ref; }
		}`}},
	identities: []identityOut{
		{module: "base-mod", name: "AFI", derived: []string{"base-mod:IPV4", "remote-mod:IPV6", "remote-mod:MULTI"}},
		{module: "remote-mod", name: "MULTI", bases: []string{"base-mod:IPV4", "remote-mod:IPV6"}},
	},
	idrefs: []idrefOut{
		{path: "/remote-mod/family", bases: []string{"base-mod:AFI"}},
	},
}, {
	name: "identity cycle",
	in: []inputModule{{"cyc", `
		module cyc {
		  namespace "urn:cyc";
		  prefix "c";

		  identity A { base B; }
		  identity B { base C; }
		  identity C { base A; }
		}`}},
	wantErrSubstr: "identity cycle",
}, {
	name: "identity based on itself",
	in: []inputModule{{"self", `
		module self {
		  namespace "urn:self";
		  prefix "s";

		  identity A { base A; }
		}`}},
	wantErrSubstr: "identity cycle: A -> A",
}, {
	name: "unknown base",
	in: []inputModule{{"nobase", `
		module nobase {
		  namespace "urn:nobase";
		  prefix "n";

		  identity A { base MISSING; }
		}`}},
	wantErrSubstr: "unresolved after linking: base identity MISSING not found",
}, {
	name: "identityref without base",
	in: []inputModule{{"noref", `
		module noref {
		  namespace "urn:noref";
		  prefix "n";

		  leaf l { type identityref; }
		}`}},
	wantErrSubstr: "identityref identityref has no base",
}, {
	name: "duplicate identity",
	in: []inputModule{{"dup", `
		module dup {
		  namespace "urn:dup";
		  prefix "d";

		  identity A;
		  identity A;
		}`}},
	wantErrSubstr: `identity "A" is already defined`,
}}

// TestIdentityTree checks the bases and derived identities of identities
// and the bases of identityrefs, across modules.
func TestIdentityTree(t *testing.T) {
	for _, tt := range identityTestCases {
		t.Run(tt.name, func(t *testing.T) {
			ms := NewModules()
			var err error
			for _, mod := range tt.in {
				if err = ms.Parse(mod.content, mod.name); err != nil {
					break
				}
			}
			if err == nil {
				err = firstError(ms.Process())
			}
			if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
				t.Fatalf("Process: %s", diff)
			}
			if err != nil {
				return
			}

			names := func(ids []NodeID) []string {
				var ns []string
				for _, id := range ids {
					ns = append(ns, ms.IdentityName(id))
				}
				return ns
			}
			for _, want := range tt.identities {
				u := ms.Modules[want.module]
				if u == nil {
					t.Fatalf("module %s not found", want.module)
				}
				id, ok := u.identities[want.name]
				if !ok {
					t.Errorf("identity %s not found in %s", want.name, want.module)
					continue
				}
				n := ms.Tree.Node(id)
				if diff := cmp.Diff(want.bases, names(n.Bases), cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("identity %s bases (-want, +got):\n%s", want.name, diff)
				}
				if diff := cmp.Diff(want.derived, names(n.Derived), cmpopts.SortSlices(func(a, b string) bool { return a < b }), cmpopts.EquateEmpty()); diff != "" {
					t.Errorf("identity %s derived (-want, +got):\n%s", want.name, diff)
				}
				for _, b := range n.Bases {
					if !ms.IsDerivedFrom(id, b) {
						t.Errorf("IsDerivedFrom(%s, %s) = false, want true", want.name, ms.IdentityName(b))
					}
				}
			}
			for _, want := range tt.idrefs {
				id := find(ms, want.path)
				if id == NoNode {
					t.Errorf("leaf %s not found", want.path)
					continue
				}
				typ := ms.Tree.Node(id).Type
				if diff := cmp.Diff(want.bases, names(typ.Identities)); diff != "" {
					t.Errorf("identityref %s bases (-want, +got):\n%s", want.path, diff)
				}
			}
		})
	}
}
