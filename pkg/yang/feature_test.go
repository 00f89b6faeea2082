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
	"github.com/openconfig/gnmi/errdiff"
)

func TestFeatureNames(t *testing.T) {
	for _, tt := range []struct {
		line          int
		in            string
		want          []string
		wantErrSubstr string
	}{
		{line: line(), in: "a", want: []string{"a"}},
		{line: line(), in: "a and b or not c", want: []string{"a", "b", "c"}},
		{line: line(), in: "not (a or m:b)", want: []string{"a", "m:b"}},
		{line: line(), in: "((a))and(b)", want: []string{"a", "b"}},
		{line: line(), in: "  ", wantErrSubstr: "empty if-feature expression"},
		{line: line(), in: "a and", wantErrSubstr: "if-feature expression ends early"},
		{line: line(), in: "(a or b", wantErrSubstr: "missing ) in if-feature expression"},
		{line: line(), in: "a b", wantErrSubstr: `unexpected "b" in if-feature expression "a b"`},
		{line: line(), in: "a)", wantErrSubstr: `unexpected ")" in if-feature expression "a)"`},
		{line: line(), in: "and a", wantErrSubstr: `unexpected "and" in if-feature expression`},
		{line: line(), in: "not", wantErrSubstr: "ends early"},
	} {
		got, err := featureNames(tt.in)
		if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
			t.Errorf("%d: featureNames(%q): %s", tt.line, tt.in, diff)
			continue
		}
		if diff := cmp.Diff(tt.want, got); err == nil && diff != "" {
			t.Errorf("%d: featureNames(%q) (-want, +got):\n%s", tt.line, tt.in, diff)
		}
	}
}

func TestIfFeature(t *testing.T) {
	tests := []struct {
		desc          string
		in            []inputModule
		wantErrSubstr string
	}{{
		desc: "features of the module",
		in: []inputModule{typeModule(`
		  feature f;
		  feature g { if-feature f; }
		  leaf x {
		    if-feature "f and not g";
		    type string;
		  }`)},
	}, {
		desc: "feature of an imported module",
		in: []inputModule{{"a.yang", `
		  module a {
		    namespace "urn:a";
		    prefix "a";
		    import b { prefix b; }
		    container c { if-feature "b:fast or a:slow"; }
		    feature slow;
		  }`}, {"b.yang", `
		  module b {
		    namespace "urn:b";
		    prefix "b";
		    feature fast;
		  }`}},
	}, {
		desc: "unknown feature",
		in: []inputModule{typeModule(`
		  feature f;
		  leaf x { if-feature "f or h"; type string; }`)},
		wantErrSubstr: "unresolved after linking: feature h not found",
	}, {
		desc: "feature of a module that is not imported",
		in: []inputModule{typeModule(`
		  leaf x { if-feature "o:f"; type string; }`)},
		wantErrSubstr: `prefix "o" is not the prefix of m`,
	}, {
		desc: "invalid expression",
		in: []inputModule{typeModule(`
		  feature f;
		  leaf x { if-feature "f and"; type string; }`)},
		wantErrSubstr: "if-feature expression ends early",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, errs := link(t, tt.in...)
			if diff := errdiff.Substring(firstError(errs), tt.wantErrSubstr); diff != "" {
				t.Errorf("Process: %s", diff)
			}
		})
	}
}
