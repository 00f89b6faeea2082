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

// Package yangentry contains high-level helpers for reading and linking a
// set of YANG files.
package yangentry

import (
	"fmt"

	"github.com/openconfig/yanglink/pkg/yang"
)

// Parse takes a list of either module/submodule names or .yang file
// paths, and a list of include paths. It reads the YANG files by searching
// for them in the include paths or in the current directory and links them,
// returning the linked module set.  It also returns a list of errors
// encountered while reading or linking, if any.
func Parse(yangfiles, path []string) (*yang.Modules, []error) {
	return parse(yangfiles, path, yang.NewModules())
}

// ParseWithOptions is Parse with the given linking options.
func ParseWithOptions(yangfiles, path []string, opts yang.Options) (*yang.Modules, []error) {
	ms := yang.NewModules()
	ms.Options = opts
	return parse(yangfiles, path, ms)
}

func parse(yangfiles, path []string, ms *yang.Modules) (*yang.Modules, []error) {
	for _, p := range path {
		ms.AddPath(fmt.Sprintf("%s/...", p))
	}

	var errs []error
	for _, name := range yangfiles {
		if name == "" {
			continue
		}
		if err := ms.Read(name); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if errs := ms.Process(); len(errs) != 0 {
		return nil, errs
	}
	return ms, nil
}
