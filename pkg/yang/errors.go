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
	"sort"
	"strconv"
	"strings"
)

// An ErrorKind classifies a LinkError.
type ErrorKind int

const (
	// StructuralError is a malformed holder/parent relationship.
	StructuralError = ErrorKind(iota)
	// CollisionError is a duplicate identifier within a namespace class.
	CollisionError
	// UnresolvedReferenceError is a reference to a target that was never
	// registered.
	UnresolvedReferenceError
	// RecursiveDefinitionError is a grouping or identity cycle.
	RecursiveDefinitionError
	// InvalidLeafrefOrTypeError is a bad leafref target, type chain cycle,
	// or duplicate enum or bit assignment.
	InvalidLeafrefOrTypeError
	// DeviationConflictError is a conflicting deviation.
	DeviationConflictError
)

var errorKindNames = map[ErrorKind]string{
	StructuralError:           "structural error",
	CollisionError:            "collision",
	UnresolvedReferenceError:  "unresolved reference",
	RecursiveDefinitionError:  "recursive definition",
	InvalidLeafrefOrTypeError: "invalid type",
	DeviationConflictError:    "deviation conflict",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error-kind-%d", int(k))
}

// A LinkError is a diagnostic produced while linking.  Every LinkError
// carries the location of the offending statement.  Collisions also carry the
// location and kind of the node collided with.
type LinkError struct {
	Kind ErrorKind
	// Code is a short, stable name of the condition, such as
	// InvalidHolder or DuplicateEnumValue.
	Code  string
	Ident string
	Loc   Location
	// Other is the location of the second participant, if any.
	Other     *Location
	NodeKind  NodeKind
	OtherKind NodeKind
	// Path is the schema path of the originating node, if known.
	Path string
	Msg  string
}

// Error returns the error as file:line:col: message.
func (e *LinkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Loc, e.Msg)
	if e.Other != nil {
		fmt.Fprintf(&b, " (previously defined at %s)", e.Other)
	}
	return b.String()
}

// errorf returns a LinkError of kind k at loc.
func errorf(k ErrorKind, code string, loc Location, format string, v ...interface{}) *LinkError {
	return &LinkError{
		Kind: k,
		Code: code,
		Loc:  loc,
		Msg:  fmt.Sprintf(format, v...),
	}
}

// nless returns -1 if a is less than b, 0 if a == b, and 1 if a > b.  If a
// and b are both numeric, then nless compares them as numbers, otherwise they
// are compared lexicographically.
func nless(a, b string) int {
	an, ae := strconv.Atoi(a)
	bn, be := strconv.Atoi(b)
	switch {
	case ae == nil && be == nil:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

type sError struct {
	s   string
	err error
}

type sortedErrors []sError

func (s sortedErrors) Len() int      { return len(s) }
func (s sortedErrors) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s sortedErrors) Less(i, j int) bool {
	fi := strings.SplitN(s[i].s, ":", 4)
	fj := strings.SplitN(s[j].s, ":", 4)
	for x := 0; x < 4; x++ {
		switch {
		case len(fi) <= x && len(fj) <= x:
			return false
		case len(fi) <= x:
			return true
		case len(fj) <= x:
			return false
		}
		if x == 0 || x == 3 {
			if fi[x] != fj[x] {
				return fi[x] < fj[x]
			}
			continue
		}
		switch nless(fi[x], fj[x]) {
		case -1:
			return true
		case 1:
			return false
		}
	}
	return false
}

// errorSort sorts the errors assuming each one starts with file:line:col.
// Line and column numbers are sorted numerically.  Duplicate errors are
// stripped.
func errorSort(errors []error) []error {
	switch len(errors) {
	case 0:
		return nil
	case 1:
		return errors
	}
	elist := make(sortedErrors, len(errors))
	for x, err := range errors {
		elist[x] = sError{err.Error(), err}
	}
	sort.Stable(elist)
	errors = make([]error, 0, len(elist))
	for i, err := range elist {
		if i > 0 && err.s == elist[i-1].s {
			continue
		}
		errors = append(errors, err.err)
	}
	return errors
}
