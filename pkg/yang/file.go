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
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AddPath adds the directories specified in p, a colon separated list
// of directory names, to the search path of ms, if they are not already
// there.  Using multiple arguments is also supported.
func (ms *Modules) AddPath(paths ...string) {
	for _, path := range paths {
		for _, p := range strings.Split(path, ":") {
			if p != "" && !ms.pathMap[p] {
				ms.pathMap[p] = true
				ms.path = append(ms.path, p)
			}
		}
	}
}

// Path returns the search path of ms.
func (ms *Modules) Path() []string {
	return append([]string(nil), ms.path...)
}

// PathsWithModules returns all paths under and including the root containing
// files with a ".yang" extension, as well as any error encountered.
func PathsWithModules(root string) ([]string, error) {
	var paths []string
	seen := map[string]bool{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".yang") {
			if dir := filepath.Dir(p); !seen[dir] {
				seen[dir] = true
				paths = append(paths, dir)
			}
		}
		return nil
	})
	return paths, err
}

// readFile makes testing of findFile easier.
var readFile = os.ReadFile

// scanDir makes testing of findFile easier.
var scanDir = findInDir

// findFile returns the name and contents of the .yang file associated with
// name, or an error.  If name is a module name rather than a file name (it does
// not have a .yang extension and there is no / in name), .yang is appended to
// the name.  The directory that the .yang file is found in is added to the
// search path of ms.  If a file is not found by exact match, directories are
// scanned for "name@revision-date.yang" files, the latest (sorted by
// YYYY-MM-DD revision-date) of these will be selected.
//
// If a path has the form dir/... then dir and all direct or indirect
// subdirectories of dir are searched.
//
// The current directory (.) is always checked first.
func (ms *Modules) findFile(name string) (string, string, error) {
	slash := strings.Index(name, "/")
	if slash < 0 && !strings.HasSuffix(name, ".yang") {
		name += ".yang"
		if best := scanDir(".", name, false); best != "" {
			name = best
		}
	}

	switch data, err := readFile(name); {
	case err == nil:
		ms.AddPath(filepath.Dir(name))
		return name, string(data), nil
	case slash >= 0:
		// If there are any /'s in the name then don't search the path.
		return "", "", fmt.Errorf("no such file: %s", name)
	}

	for _, dir := range ms.path {
		var candidates []string
		if filepath.Base(dir) == "..." {
			candidates = []string{scanDir(filepath.Dir(dir), name, true)}
		} else {
			candidates = []string{filepath.Join(dir, name), scanDir(dir, name, false)}
		}
		for _, n := range candidates {
			if n == "" {
				continue
			}
			if data, err := readFile(n); err == nil {
				return n, string(data), nil
			}
		}
	}
	return "", "", fmt.Errorf("no such file: %s", name)
}

// findInDir looks for a file named name in dir or any of its subdirectories if
// recurse is true.  Without a revision in name, the newest name@revision.yang
// found in a directory is used when name itself is not there.
func findInDir(dir, name string, recurse bool) string {
	des, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	mname := strings.TrimSuffix(name, ".yang")
	var candidates []string
	for _, de := range des {
		fn := de.Name()
		switch {
		case !de.IsDir():
			if fn == name {
				return filepath.Join(dir, name)
			}
			if !strings.Contains(name, "@") && strings.HasPrefix(fn, mname+"@") && strings.HasSuffix(fn, ".yang") {
				candidates = append(candidates, fn)
			}
		case recurse:
			if n := findInDir(filepath.Join(dir, fn), name, recurse); n != "" {
				return n
			}
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	// Revision dates are YYYY-MM-DD, so the last in sort order is the
	// newest.
	sort.Strings(candidates)
	return filepath.Join(dir, candidates[len(candidates)-1])
}
