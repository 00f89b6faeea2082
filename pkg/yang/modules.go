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

// This file implements the Modules type.  This includes the processing of
// include and import statements, which must be done prior to linking.

import (
	"fmt"
	"sort"

	log "github.com/golang/glog"
)

// A Unit is one compilation unit: a module or a submodule, with the root of
// its node subtree and its self-file worklist.
type Unit struct {
	Name string
	Kind NodeKind // ModuleNode or SubModuleNode
	Root NodeID
	// Module is the module the unit's nodes belong to: the unit itself for
	// a module, the belongs-to module for a submodule.
	Module    string
	Prefix    string
	Namespace string
	Revision  string
	Source    string
	Imports   map[string]*Import // by prefix
	Includes  []*Include
	State     LinkState
	Registry  *Registry

	identities map[string]NodeID
	features   map[string]NodeID
	augments   []NodeID
	deviations []NodeID
	module     *Unit // belongs-to module of a submodule, once known
}

// FullName returns the unit name with its revision, if any.
func (u *Unit) FullName() string {
	if u.Revision == "" {
		return u.Name
	}
	return u.Name + "@" + u.Revision
}

// needsCrossFile reports whether u depends on any other unit.
func (u *Unit) needsCrossFile() bool {
	return len(u.Imports) > 0 || len(u.Includes) > 0 || u.Kind == SubModuleNode ||
		len(u.augments) > 0 || len(u.deviations) > 0
}

// An Import is an import statement of a unit.
type Import struct {
	Module   string
	Prefix   string
	Revision string
	Loc      Location
	unit     *Unit
}

// An Include is an include statement of a unit.
type Include struct {
	Module   string
	Revision string
	Loc      Location
	unit     *Unit
}

// Modules contains information about all the top level modules and
// submodules that are read into it via its Read method.  All of their nodes
// live in Tree.
type Modules struct {
	Tree       *Tree
	Modules    map[string]*Unit // All "module" units
	SubModules map[string]*Unit // All "submodule" units
	Options    Options

	units    []*Unit // in the order read
	byRoot   map[NodeID]*Unit
	includes map[*Unit]bool
	cross    *Registry
	path     []string
	pathMap  map[string]bool

	processed bool
	errs      []error
}

// NewModules returns a newly created and initialized Modules.
func NewModules() *Modules {
	return &Modules{
		Tree:       NewTree(),
		Modules:    map[string]*Unit{},
		SubModules: map[string]*Unit{},
		byRoot:     map[NodeID]*Unit{},
		includes:   map[*Unit]bool{},
		cross:      NewRegistry(),
		pathMap:    map[string]bool{},
	}
}

// Read reads the named yang module into ms.  The name can be the name of an
// actual .yang file or a module/submodule name (the base name of a .yang file,
// e.g., foo.yang is named foo).  An error is returned if the file is not
// found or there was an error parsing the file.
func (ms *Modules) Read(name string) error {
	name, data, err := ms.findFile(name)
	if err != nil {
		return err
	}
	return ms.Parse(data, name)
}

// Parse parses data as YANG source and adds it to ms.  The name should reflect
// the source of data.
func (ms *Modules) Parse(data, name string) error {
	ss, err := Parse(data, name)
	if err != nil {
		return err
	}
	for _, s := range ss {
		u, err := ms.build(s)
		if err != nil {
			return err
		}
		if err := ms.add(u); err != nil {
			return err
		}
	}
	return nil
}

// add adds u to ms.  An error is returned if u is a duplicate of a unit
// already added.
func (ms *Modules) add(u *Unit) error {
	m := ms.Modules
	if u.Kind == SubModuleNode {
		m = ms.SubModules
	}
	fullName := u.FullName()
	if o := m[fullName]; o != nil {
		return fmt.Errorf("duplicate %s %s at %s and %s", u.Kind, fullName,
			ms.Tree.Node(o.Root).Loc, ms.Tree.Node(u.Root).Loc)
	}
	m[fullName] = u
	ms.units = append(ms.units, u)
	ms.byRoot[u.Root] = u
	ms.processed = false
	if fullName == u.Name {
		return nil
	}
	// The bare name refers to the most recent revision.
	if o := m[u.Name]; o == nil || o.FullName() < fullName {
		m[u.Name] = u
	}
	return nil
}

// GetModule returns the unit of the module named by name, after linking
// everything read into ms.  GetModule will search for and read the file named
// name + ".yang" if it cannot satisfy the request from what it has currently
// read.  No unit is returned if linking reported any error.
func (ms *Modules) GetModule(name string) (*Unit, []error) {
	if ms.Modules[name] == nil {
		if err := ms.Read(name); err != nil {
			return nil, []error{err}
		}
		if ms.Modules[name] == nil {
			return nil, []error{fmt.Errorf("module not found: %s", name)}
		}
	}
	if errs := ms.Process(); len(errs) != 0 {
		return nil, errs
	}
	return ms.Modules[name], nil
}

// findUnit returns the unit named by an import (submodule false) or include
// (submodule true), reading it from Path if needed.
func (ms *Modules) findUnit(name, revision string, submodule bool) *Unit {
	m := ms.Modules
	if submodule {
		m = ms.SubModules
	}
	rev := name
	if revision != "" {
		rev = name + "@" + revision
	}
	if u := m[rev]; u != nil {
		return u
	}
	if u := m[name]; u != nil {
		return u
	}
	if err := ms.Read(name); err != nil {
		log.V(1).Infof("cannot read %s: %v", name, err)
		return nil
	}
	if u := m[rev]; u != nil {
		return u
	}
	return m[name]
}

// FindModuleByNamespace either returns the module unit specified by the
// namespace or returns an error.
func (ms *Modules) FindModuleByNamespace(ns string) (*Unit, error) {
	var found *Unit
	for _, u := range ms.sortedUnits() {
		if u.Kind != ModuleNode || u.Namespace != ns {
			continue
		}
		switch {
		case u == found:
		case found != nil && found.Name != u.Name:
			return nil, fmt.Errorf("namespace %s matches two or more modules (%s, %s)", ns, found.Name, u.Name)
		case found == nil:
			found = u
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%s: no such namespace", ns)
	}
	return found, nil
}

// FindModuleByPrefix either returns the module unit specified by prefix or
// returns an error.
func (ms *Modules) FindModuleByPrefix(prefix string) (*Unit, error) {
	var found *Unit
	for _, u := range ms.sortedUnits() {
		if u.Kind != ModuleNode || u.Prefix != prefix {
			continue
		}
		switch {
		case u == found:
		case found != nil && found.Name != u.Name:
			return nil, fmt.Errorf("prefix %s matches two or more modules (%s, %s)", prefix, found.Name, u.Name)
		case found == nil:
			found = u
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%s: no such prefix", prefix)
	}
	return found, nil
}

// sortedUnits returns every unit read into ms, sorted by full name with
// modules before submodules.
func (ms *Modules) sortedUnits() []*Unit {
	us := append([]*Unit(nil), ms.units...)
	sort.SliceStable(us, func(i, j int) bool {
		if us[i].Kind != us[j].Kind {
			return us[i].Kind == ModuleNode
		}
		return us[i].FullName() < us[j].FullName()
	})
	return us
}

// unitOf returns the unit node id was authored in.
func (ms *Modules) unitOf(id NodeID) *Unit {
	return ms.byRoot[ms.Tree.Root(id)]
}

// Family returns the units that share the top-level namespaces of u: its
// module and every submodule included by it, directly or not.
func (ms *Modules) Family(u *Unit) []*Unit {
	if u.Kind == SubModuleNode && u.module != nil {
		u = u.module
	}
	seen := map[*Unit]bool{}
	var us []*Unit
	var visit func(*Unit)
	visit = func(u *Unit) {
		if seen[u] {
			return
		}
		seen[u] = true
		us = append(us, u)
		for _, i := range u.Includes {
			if i.unit != nil {
				visit(i.unit)
			}
		}
	}
	visit(u)
	return us
}

// Process links all the modules and submodules that have been read into ms.
// While processing, if an include or import is found for which there is no
// matching module, Process attempts to locate the source file (using the
// search path) and automatically load it.  If a file cannot be found then an
// error is returned.
//
// Process expands every uses, resolves every type, identity and if-feature,
// and applies augments and deviations.  Any error aborts the link: the tree
// must not be used when Process returns errors.  Calling Process again
// without reading more input returns the same result.
func (ms *Modules) Process() []error {
	if ms.processed {
		return ms.errs
	}
	// Reading includes and imports may add units, which clears processed.
	defer func() { ms.processed = true }()

	var errs []error
	for _, u := range ms.sortedUnits() {
		if err := ms.include(u, nil); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		errs = ms.link()
	}
	// Errors of units linked by earlier calls are still reported.
	ms.errs = errorSort(append(ms.errs, errs...))
	return ms.errs
}

// include resolves all the include and import statements for u.  It returns
// an error if u, or recursively, any of the units it includes or imports,
// reference a unit that cannot be found.  stack holds the submodules being
// included, to catch circular includes.
func (ms *Modules) include(u *Unit, stack []*Unit) error {
	for _, s := range stack {
		if s != u {
			continue
		}
		if ms.Options.IgnoreSubmoduleCircularDependencies {
			log.Warningf("ignoring circular include of submodule %s", u.Name)
			return nil
		}
		return fmt.Errorf("%s: circular include of submodule %s", ms.Tree.Node(u.Root).Loc, u.Name)
	}
	if ms.includes[u] {
		return nil
	}
	if u.Kind == SubModuleNode && u.module == nil {
		u.module = ms.Modules[u.Module]
	}

	stack = append(stack, u)
	for _, i := range u.Includes {
		iu := ms.findUnit(i.Module, i.Revision, true)
		if iu == nil {
			return fmt.Errorf("%s: no such submodule: %s", i.Loc, i.Module)
		}
		if iu.Module != u.Module {
			return fmt.Errorf("%s: submodule %s belongs to %s, not %s", i.Loc, iu.Name, iu.Module, u.Module)
		}
		if err := ms.include(iu, stack); err != nil {
			return err
		}
		i.unit = iu
	}
	ms.includes[u] = true

	prefixes := make([]string, 0, len(u.Imports))
	for p := range u.Imports {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		i := u.Imports[p]
		iu := ms.findUnit(i.Module, i.Revision, false)
		if iu == nil {
			return fmt.Errorf("%s: no such module: %s", i.Loc, i.Module)
		}
		if err := ms.include(iu, nil); err != nil {
			return err
		}
		i.unit = iu
	}
	return nil
}
