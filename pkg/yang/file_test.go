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
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindFile(t *testing.T) {
	defer func(rf func(string) ([]byte, error), sd func(string, string, bool) string) {
		readFile, scanDir = rf, sd
	}(readFile, scanDir)
	scanDir = func(string, string, bool) string { return "" }

	for _, tt := range []struct {
		name  string
		path  []string
		check []string
	}{
		{
			name:  "one",
			check: []string{"one.yang"},
		},
		{
			name:  "./two",
			check: []string{"./two"},
		},
		{
			name:  "three.yang",
			check: []string{"three.yang"},
		},
		{
			name:  "four",
			path:  []string{"dir1", "dir2"},
			check: []string{"four.yang", "dir1/four.yang", "dir2/four.yang"},
		},
	} {
		var checked []string
		ms := NewModules()
		ms.AddPath(tt.path...)
		readFile = func(path string) ([]byte, error) {
			checked = append(checked, path)
			return nil, errors.New("no such file")
		}
		if _, _, err := ms.findFile(tt.name); err == nil {
			t.Errorf("%s unexpectedly succeeded", tt.name)
			continue
		}
		if !reflect.DeepEqual(tt.check, checked) {
			t.Errorf("%s: got %v, want %v", tt.name, checked, tt.check)
		}
	}
}

func TestAddPath(t *testing.T) {
	ms := NewModules()
	ms.AddPath("a:b", "b", "c::a")
	if diff := cmp.Diff([]string{"a", "b", "c"}, ms.Path()); diff != "" {
		t.Errorf("Path (-want, +got):\n%s", diff)
	}
}

func TestFindInDir(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"foo@2019-01-01.yang",
		"foo@2021-06-30.yang",
		"bar.yang",
		"sub/deep/baz.yang",
	}
	for _, f := range files {
		p := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("module x {}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		desc    string
		name    string
		recurse bool
		want    string
	}{{
		desc: "newest revision",
		name: "foo.yang",
		want: filepath.Join(dir, "foo@2021-06-30.yang"),
	}, {
		desc: "explicit revision",
		name: "foo@2019-01-01.yang",
		want: filepath.Join(dir, "foo@2019-01-01.yang"),
	}, {
		desc: "exact name",
		name: "bar.yang",
		want: filepath.Join(dir, "bar.yang"),
	}, {
		desc: "not found without recursion",
		name: "baz.yang",
	}, {
		desc:    "found with recursion",
		name:    "baz.yang",
		recurse: true,
		want:    filepath.Join(dir, "sub", "deep", "baz.yang"),
	}}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := findInDir(dir, tt.name, tt.recurse); got != tt.want {
				t.Errorf("findInDir(%q): got %q, want %q", tt.name, got, tt.want)
			}
		})
	}

	paths, err := PathsWithModules(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{dir, filepath.Join(dir, "sub", "deep")}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("PathsWithModules (-want, +got):\n%s", diff)
	}
}
