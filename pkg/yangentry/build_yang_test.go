// Copyright 2020 Google Inc.
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

package yangentry

import (
	"testing"

	"github.com/openconfig/gnmi/errdiff"
	"github.com/openconfig/yanglink/pkg/yang"
)

// TestParse tests the Parse function - which takes an input set of modules
// and links them into one module set.
func TestParse(t *testing.T) {
	tests := []struct {
		name          string
		inFiles       []string
		inPath        []string
		wantErrSubstr string
		wantMods      []string
		wantPaths     []string
	}{{
		name:      "simple valid module",
		inFiles:   []string{"testdata/00-valid-module.yang"},
		inPath:    []string{"testdata"},
		wantMods:  []string{"test-module"},
		wantPaths: []string{"/test-module:server/ip", "/test-module:server/port", "/test-module:server/name"},
	}, {
		name:     "simple valid module without .yang extension",
		inFiles:  []string{"00-valid-module"},
		inPath:   []string{"testdata"},
		wantMods: []string{"test-module"},
	}, {
		name:          "simple invalid module",
		inFiles:       []string{"testdata/01-invalid-module.yang"},
		inPath:        []string{"testdata"},
		wantErrSubstr: "grouping no-such-grouping not found",
	}, {
		name:      "valid import",
		inFiles:   []string{"testdata/02-valid-import.yang"},
		inPath:    []string{"testdata/subdir"},
		wantMods:  []string{"test-module", "imported-module"},
		wantPaths: []string{"/test-module:server/address", "/test-module:server/kind"},
	}, {
		name:          "invalid import",
		inFiles:       []string{"testdata/03-invalid-import.yang"},
		inPath:        []string{},
		wantErrSubstr: "no such module: no-such-module",
	}, {
		name:     "two modules",
		inFiles:  []string{"testdata/04-valid-module-one.yang", "testdata/04-valid-module-two.yang"},
		inPath:   []string{},
		wantMods: []string{"module-one", "module-two"},
	}, {
		name:          "circular submodule dependency",
		inFiles:       []string{"testdata/05-circular-main.yang"},
		inPath:        []string{"testdata/subdir"},
		wantErrSubstr: "circular include of submodule",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, errs := Parse(tt.inFiles, tt.inPath)
			var err error
			if len(errs) > 0 {
				err = errs[0]
			}
			if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
				t.Fatalf("Parse(%v): %s", tt.inFiles, diff)
			}
			if err != nil {
				return
			}
			for _, m := range tt.wantMods {
				if _, ok := ms.Modules[m]; !ok {
					t.Fatalf("could not find module %s", m)
				}
			}
			paths := map[string]bool{}
			for _, u := range ms.Modules {
				ms.Tree.Walk(u.Root, func(id yang.NodeID) bool {
					paths[ms.Tree.Path(id)] = true
					return true
				})
			}
			for _, p := range tt.wantPaths {
				if !paths[p] {
					t.Errorf("path %s not in the linked tree", p)
				}
			}
		})
	}
}

// TestParseWithOptions tests the ParseWithOptions function, which links the
// modules with the given options.
func TestParseWithOptions(t *testing.T) {
	tests := []struct {
		name     string
		inFiles  []string
		inPath   []string
		opts     yang.Options
		wantErr  bool
		wantMods []string
	}{
		{
			name:    "circular submodule dependency with default options",
			inFiles: []string{"testdata/05-circular-main.yang"},
			inPath:  []string{"testdata/subdir"},
			opts:    yang.Options{},
			wantErr: true,
		},
		{
			name:     "circular submodule dependency with IgnoreSubmoduleCircularDependencies",
			inFiles:  []string{"testdata/05-circular-main.yang"},
			inPath:   []string{"testdata/subdir"},
			opts:     yang.Options{IgnoreSubmoduleCircularDependencies: true},
			wantMods: []string{"circular-main"},
		},
		{
			name:     "single pass is enough for a flat module",
			inFiles:  []string{"testdata/04-valid-module-one.yang"},
			opts:     yang.Options{MaxPasses: 1},
			wantMods: []string{"module-one"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, errs := ParseWithOptions(tt.inFiles, tt.inPath, tt.opts)
			if got := len(errs) != 0; got != tt.wantErr {
				t.Fatalf("got errors %v, want errors: %v", errs, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			for _, m := range tt.wantMods {
				u, ok := ms.Modules[m]
				if !ok {
					t.Fatalf("could not find module %s", m)
				}
				if u.State != yang.Done {
					t.Errorf("module %s is in state %s, want %s", m, u.State, yang.Done)
				}
			}
		})
	}
}
