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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/gnmi/errdiff"
)

func TestLinkStates(t *testing.T) {
	tests := []struct {
		desc          string
		in            []inputModule
		want          map[string]LinkState
		wantErrSubstr string
	}{{
		desc: "self-contained module",
		in:   []inputModule{typeModule(`leaf x { type string; }`)},
		want: map[string]LinkState{"m": Done},
	}, {
		desc: "module linked across files",
		in: []inputModule{{"a.yang", `
		  module a {
		    namespace "urn:a";
		    prefix "a";
		    import b { prefix b; }
		    container c { uses b:g; }
		  }`}, {"b.yang", `
		  module b {
		    namespace "urn:b";
		    prefix "b";
		    grouping g { leaf x { type string; } }
		  }`}},
		want: map[string]LinkState{"a": Done, "b": Done},
	}, {
		desc:          "unresolved reference",
		in:            []inputModule{typeModule(`leaf x { type nope; }`)},
		want:          map[string]LinkState{"m": Failed},
		wantErrSubstr: "unknown type nope",
	}, {
		desc: "unresolved reference across files",
		in: []inputModule{{"a.yang", `
		  module a {
		    namespace "urn:a";
		    prefix "a";
		    import b { prefix b; }
		    leaf x { type b:nope; }
		  }`}, {"b.yang", `
		  module b {
		    namespace "urn:b";
		    prefix "b";
		  }`}},
		want:          map[string]LinkState{"a": Failed},
		wantErrSubstr: "unresolved after linking",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ms, errs := link(t, tt.in...)
			if diff := errdiff.Substring(firstError(errs), tt.wantErrSubstr); diff != "" {
				t.Fatalf("Process: %s", diff)
			}
			for name, want := range tt.want {
				if got := ms.Modules[name].State; got != want {
					t.Errorf("%s: got state %s, want %s", name, got, want)
				}
			}
		})
	}
}

func TestResolveSelfFileLinking(t *testing.T) {
	ms := NewModules()
	if err := ms.Parse(`
		module m {
		  namespace "urn:m";
		  prefix "m";
		  typedef name { type string; }
		  grouping g { leaf x { type name; } }
		  container top { uses g; }
		}`, "m.yang"); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	u := ms.Modules["m"]

	changed, err := ms.ResolveSelfFileLinking(u, Uses)
	if err != nil || !changed {
		t.Fatalf("Uses pass: got %v, %v, want true, nil", changed, err)
	}
	x := find(ms, "/m/top/x")
	if x == NoNode {
		t.Fatalf("/m/top/x not found after the uses pass")
	}
	if ms.Tree.Node(x).Type.Resolved() {
		t.Errorf("type of the clone resolved before the derived type pass")
	}

	if changed, err = ms.ResolveSelfFileLinking(u, DerivedDataType); err != nil || !changed {
		t.Fatalf("DerivedDataType pass: got %v, %v, want true, nil", changed, err)
	}
	typ := ms.Tree.Node(x).Type
	if !typ.Resolved() || typ.Kind != Ystring || ms.Tree.Node(typ.Typedef).Name != "name" {
		t.Errorf("type of x: got %s, want a resolved string through typedef name", typ)
	}
	if got := u.Registry.Unresolved(); len(got) != 0 {
		t.Errorf("unresolved entries: %v", got)
	}

	if changed, err = ms.ResolveSelfFileLinking(u, Uses); err != nil || changed {
		t.Errorf("second Uses pass: got %v, %v, want false, nil", changed, err)
	}
}

func TestMaxPasses(t *testing.T) {
	const body = `
	  container top { uses g1; }
	  grouping g1 { uses g2; }
	  grouping g2 { leaf x { type string; } }`

	for _, tt := range []struct {
		passes        int
		wantErrSubstr string
	}{
		{passes: 1, wantErrSubstr: "unresolved after linking: uses g1 waits for uses g2"},
		{passes: 0},
		{passes: 2},
	} {
		ms := NewModules()
		ms.Options.MaxPasses = tt.passes
		m := typeModule(body)
		if err := ms.Parse(m.content, m.name); err != nil {
			t.Fatalf("Parse: %v", err)
		}
		errs := ms.Process()
		if diff := errdiff.Substring(firstError(errs), tt.wantErrSubstr); diff != "" {
			t.Errorf("MaxPasses %d: %s", tt.passes, diff)
			continue
		}
		if len(errs) == 0 && find(ms, "/m/top/x") == NoNode {
			t.Errorf("MaxPasses %d: /m/top/x not found", tt.passes)
		}
	}
}

func TestConfig(t *testing.T) {
	ms, errs := link(t, typeModule(`
	  container c {
	    config false;
	    leaf l { type string; }
	  }
	  leaf plain { type string; }
	  rpc r {
	    input { leaf in { type string; } }
	    output { leaf out { type string; } }
	  }
	  notification n { leaf v { type string; } }`))
	if len(errs) > 0 {
		t.Fatalf("Process: %v", errs)
	}
	for _, tt := range []struct {
		path string
		want bool
	}{
		{"/m/c", false},
		{"/m/c/l", false},
		{"/m/plain", true},
		{"/m/r/input/in", true},
		{"/m/r/output/out", false},
		{"/m/n/v", false},
	} {
		id := find(ms, tt.path)
		if id == NoNode {
			t.Errorf("%s not found", tt.path)
			continue
		}
		if got := ms.Tree.EffectiveConfig(id); got != tt.want {
			t.Errorf("EffectiveConfig(%s): got %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestInvalidConfig(t *testing.T) {
	ms, errs := link(t, typeModule(`
	  container c {
	    config false;
	    leaf l {
	      config true;
	      type string;
	    }
	  }`))
	err := firstError(errs)
	if diff := errdiff.Substring(err, "leaf /m:c/l is config true but its parent is config false"); diff != "" {
		t.Fatalf("Process: %s", diff)
	}
	var le *LinkError
	if !errors.As(err, &le) || le.Code != "InvalidConfig" {
		t.Errorf("Process: got %v, want an InvalidConfig LinkError", err)
	}
	if s := ms.Modules["m"].State; s != Failed {
		t.Errorf("m: got state %s, want %s", s, Failed)
	}
}

func TestCompilerAnnotation(t *testing.T) {
	tests := []struct {
		desc          string
		in            []inputModule
		target        string
		want          []string // keywords of the bound statements
		wantErrSubstr string
	}{{
		desc: "own module",
		in: []inputModule{typeModule(`
		  container top { leaf x { type string; } }
		  ca:compiler-annotation "/m:top/m:x" {
		    ca:note "first";
		    ca:note "second";
		  }`)},
		target: "/m/top/x",
		want:   []string{"ca:note", "ca:note"},
	}, {
		desc: "node added by a uses",
		in: []inputModule{typeModule(`
		  ca:compiler-annotation "/m:top/m:a" { ca:hint "h"; }
		  grouping g { leaf a { type string; } }
		  container top { uses g; }`)},
		target: "/m/top/a",
		want:   []string{"ca:hint"},
	}, {
		desc: "another module",
		in: []inputModule{baseModule, {"ann.yang", `
		  module ann {
		    namespace "urn:ann";
		    prefix "ann";
		    import base { prefix b; }
		    ca:compiler-annotation "/b:top" { ca:hint "h"; }
		  }`}},
		target: "/base/top",
		want:   []string{"ca:hint"},
	}, {
		desc: "unknown target",
		in: []inputModule{typeModule(`
		  ca:compiler-annotation "/m:nope" { ca:hint "h"; }`)},
		wantErrSubstr: "unresolved after linking: compiler-annotation target /m:nope not found",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ms, errs := link(t, tt.in...)
			if diff := errdiff.Substring(firstError(errs), tt.wantErrSubstr); diff != "" {
				t.Fatalf("Process: %s", diff)
			}
			if len(errs) > 0 {
				return
			}
			id := find(ms, tt.target)
			if id == NoNode {
				t.Fatalf("%s not found", tt.target)
			}
			var got []string
			for _, s := range ms.Tree.Node(id).Annotations {
				got = append(got, s.Keyword)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("annotations of %s (-want, +got):\n%s", tt.target, diff)
			}
		})
	}
}
