// Copyright 2017 Google Inc.
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

// DefaultMaxPasses is the number of resolution passes run when
// Options.MaxPasses is not set.
const DefaultMaxPasses = 16

// Options defines the options that should be used when linking YANG modules,
// including specific overrides for potentially problematic YANG constructs.
// Each Modules carries its own Options.
type Options struct {
	// IgnoreSubmoduleCircularDependencies specifies whether circular dependencies
	// between submodules. Setting this value to true will ensure that this
	// package will explicitly ignore the case where a submodule will include
	// itself through a circular reference.
	IgnoreSubmoduleCircularDependencies bool

	// MaxPasses bounds the number of times the ordered resolution passes are
	// repeated, per unit and across units, while entries keep changing.
	MaxPasses int
}

// maxPasses returns the pass bound to use.
func (o Options) maxPasses() int {
	if o.MaxPasses <= 0 {
		return DefaultMaxPasses
	}
	return o.MaxPasses
}
