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
)

// An EnumMember is an enum or bit statement as declared.
type EnumMember struct {
	Name     string
	Loc      Location
	Value    int64 // value or position
	HasValue bool
}

// A EnumType represents a mapping of strings to integers.  It is used both
// for enumerations (values) and bits (positions).
type EnumType struct {
	last     int64 // maximum value assigned thus far
	set      bool  // whether last holds a value
	min      int64 // minimum value allowed
	max      int64 // maximum value allowed
	bits     bool
	order    []string
	ToString map[int64]string `json:",omitempty"`
	ToInt    map[string]int64 `json:",omitempty"`
}

// NewEnumType returns an initialized EnumType.
func NewEnumType() *EnumType {
	return &EnumType{
		min:      MinEnum,
		max:      MaxEnum,
		ToString: map[int64]string{},
		ToInt:    map[string]int64{},
	}
}

// NewBitfield returns an EnumType initialized as a bitfield.  Positions must
// be unique non-negative integers.
func NewBitfield() *EnumType {
	return &EnumType{
		min:      0,
		max:      MaxBitPosition,
		bits:     true,
		ToString: map[int64]string{},
		ToInt:    map[string]int64{},
	}
}

func (e *EnumType) what() string {
	if e.bits {
		return "position"
	}
	return "value"
}

// Set sets name in e to the provided value.  Set returns an error if the value
// is out of range, name is already assigned, or the value has previously been
// used.
func (e *EnumType) Set(name string, value int64) error {
	if _, ok := e.ToInt[name]; ok {
		return fmt.Errorf("%s already assigned", name)
	}
	if oname, ok := e.ToString[value]; ok {
		return fmt.Errorf("%s and %s conflict on %s %d", name, oname, e.what(), value)
	}
	if value < e.min {
		return fmt.Errorf("%s %d for %s too small (minimum is %d)", e.what(), value, name, e.min)
	}
	if value > e.max {
		return fmt.Errorf("%s %d for %s too large (maximum is %d)", e.what(), value, name, e.max)
	}
	e.ToString[value] = name
	e.ToInt[name] = value
	e.order = append(e.order, name)
	if !e.set || value > e.last {
		e.last = value
		e.set = true
	}
	return nil
}

// SetNext sets name in e using the highest value assigned so far plus one,
// or 0 if nothing has been assigned.
func (e *EnumType) SetNext(name string) error {
	if !e.set {
		return e.Set(name, 0)
	}
	if e.last == e.max {
		return fmt.Errorf("%s %q must be given explicitly since the previous %s is the maximum allowed", e.what(), name, e.what())
	}
	return e.Set(name, e.last+1)
}

// Name returns the name in e associated with value.  The empty string is
// returned if no name has been assigned to value.
func (e *EnumType) Name(value int64) string { return e.ToString[value] }

// Value returns the value associated with name in e.  Use IsDefined to
// tell an unknown name from the value 0.
func (e *EnumType) Value(name string) int64 { return e.ToInt[name] }

// IsDefined returns true if name is defined in e, else false.
func (e *EnumType) IsDefined(name string) bool {
	_, defined := e.ToInt[name]
	return defined
}

// Names returns the names in e in the order they were assigned.
func (e *EnumType) Names() []string {
	return append([]string(nil), e.order...)
}

// Values returns the sorted list of values.
func (e *EnumType) Values() []int64 {
	values := make([]int64, 0, len(e.ToInt))
	for _, value := range e.ToInt {
		values = append(values, value)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}

// assign builds the EnumType for members.  Members without an explicit value
// get the highest value assigned so far plus one.  The returned error names
// the offending member.
func assign(members []*EnumMember, bits bool) (*EnumType, *EnumMember, error) {
	e := NewEnumType()
	if bits {
		e = NewBitfield()
	}
	for _, m := range members {
		var err error
		if m.HasValue {
			err = e.Set(m.Name, m.Value)
		} else {
			err = e.SetNext(m.Name)
		}
		if err != nil {
			return nil, m, err
		}
	}
	return e, nil, nil
}

// restrict builds the EnumType of a derived enumeration or bits type that
// lists members, a subset of base.  Values come from base; an explicit value
// must agree with it.
func restrict(base *EnumType, members []*EnumMember) (*EnumType, *EnumMember, error) {
	e := NewEnumType()
	if base.bits {
		e = NewBitfield()
	}
	for _, m := range members {
		v, ok := base.ToInt[m.Name]
		if !ok {
			return nil, m, fmt.Errorf("%s is not a member of the base type", m.Name)
		}
		if m.HasValue && m.Value != v {
			return nil, m, fmt.Errorf("%s of %s is %d in the base type, not %d", e.what(), m.Name, v, m.Value)
		}
		if err := e.Set(m.Name, v); err != nil {
			return nil, m, err
		}
	}
	return e, nil, nil
}
