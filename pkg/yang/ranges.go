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

// This file checks the range and length restrictions along a typedef chain.
// A derived type may only narrow the values allowed by its base.

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	maxInt64 = 1<<63 - 1
	space18  = "000000000000000000" // used for prepending 0's
)

// builtinRanges are the value ranges of the integer types.
var builtinRanges = map[TypeKind]YangRange{
	Yint8:   mustParseRanges("-128..127"),
	Yint16:  mustParseRanges("-32768..32767"),
	Yint32:  mustParseRanges("-2147483648..2147483647"),
	Yint64:  mustParseRanges("-9223372036854775808..9223372036854775807"),
	Yuint8:  mustParseRanges("0..255"),
	Yuint16: mustParseRanges("0..65535"),
	Yuint32: mustParseRanges("0..4294967295"),
	Yuint64: mustParseRanges("0..18446744073709551615"),
}

// lengthRange is the length range of strings and binaries.
var lengthRange = mustParseRanges("0..18446744073709551615")

// A Number is either an integer in the range [-(1<<64) - 1, (1<<64)-1] or a
// decimal64 value with FractionDigits digits after the point.
type Number struct {
	Value          uint64 // absolute value
	FractionDigits uint8  // 0 for integers
	Negative       bool
}

// String returns n as a string in decimal.
func (n Number) String() string {
	out := strconv.FormatUint(n.Value, 10)
	if fd := int(n.FractionDigits); fd > 0 {
		ofd := len(out) - fd
		if ofd <= 0 {
			// We want 0.1 not .1
			out = space18[:-ofd+1] + out
			ofd = 1
		}
		out = out[:ofd] + "." + out[ofd:]
	}
	if n.Negative {
		out = "-" + out
	}
	return out
}

// Less returns true if n is less than m.
func (n Number) Less(m Number) bool {
	switch {
	case n.Negative && !m.Negative:
		return n.Value != 0 || m.Value != 0
	case !n.Negative && m.Negative:
		return false
	}
	nt, mt := n.trunc(), m.trunc()
	lt := nt < mt
	if nt == mt {
		nf, mf := n.frac(), m.frac()
		if nf == mf {
			return false
		}
		lt = nf < mf
	}
	if n.Negative {
		return !lt
	}
	return lt
}

// Equal returns true if n is equal to m.
func (n Number) Equal(m Number) bool {
	return !n.Less(m) && !m.Less(n)
}

// addQuantum adds i of the smallest quantum to n without checking overflow.
func (n Number) addQuantum(i uint64) Number {
	if !n.Negative {
		n.Value += i
		return n
	}
	if n.Value <= i {
		n.Value = i - n.Value
		n.Negative = false
	} else {
		n.Value -= i
	}
	return n
}

// trunc returns the whole part of abs(n).
func (n Number) trunc() uint64 {
	return n.Value / pow10(n.FractionDigits)
}

// frac returns the fraction part of abs(n) with a precision of 18 digits.
func (n Number) frac() uint64 {
	i := n.trunc() * pow10(n.FractionDigits)
	return (n.Value - i) * pow10(18-n.FractionDigits)
}

// pow10 returns 10^e without checking for overflow.
func pow10(e uint8) uint64 {
	var out uint64 = 1
	for i := uint8(0); i < e; i++ {
		out *= 10
	}
	return out
}

// ParseInt returns s as a Number with FractionDigits=0.  Octal and
// hexadecimal use the standard prefix notations (e.g., 0 and 0x).
func ParseInt(s string) (Number, error) {
	s = strings.TrimSpace(s)
	var n Number
	switch s {
	case "":
		return n, errors.New("converting empty string to number")
	case "+", "-":
		return n, errors.New("sign with no value")
	}
	ns := s
	switch s[0] {
	case '+':
		ns = s[1:]
	case '-':
		n.Negative = true
		ns = s[1:]
	}
	var err error
	n.Value, err = strconv.ParseUint(ns, 0, 64)
	return n, err
}

// ParseDecimal returns s as a decimal64 Number with fd fraction digits.  s
// may not be more precise than fd digits.
func ParseDecimal(s string, fd uint8) (Number, error) {
	var n Number
	if fd < 1 || fd > MaxFractionDigits {
		return n, fmt.Errorf("invalid number of fraction digits %d, must be between 1 and %d", fd, MaxFractionDigits)
	}
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return n, errors.New("converting empty string to number")
	case "+", "-":
		return n, errors.New("sign with no value")
	}
	digits := s
	var have uint8
	if dx := strings.Index(s, "."); dx >= 0 {
		have = uint8(len(s) - 1 - dx)
		digits = s[:dx] + s[dx+1:]
	}
	if have > fd {
		return n, fmt.Errorf("%s has too much precision, expect <= %d fractional digits", s, fd)
	}
	v, err := strconv.ParseInt(digits+space18[:fd-have], 10, 64)
	if err != nil {
		return n, fmt.Errorf("%s is not a valid decimal number: %v", s, err)
	}
	n.FractionDigits = fd
	if v < 0 {
		n.Negative = true
		v = -v
	}
	n.Value = uint64(v)
	return n, nil
}

// decimalRange returns the range of a decimal64 with fd fraction digits.
func decimalRange(fd uint8) YangRange {
	return YangRange{{
		Min: Number{Value: maxInt64 + 1, FractionDigits: fd, Negative: true},
		Max: Number{Value: maxInt64, FractionDigits: fd},
	}}
}

// YRange is a single range of consecutive numbers, inclusive.
type YRange struct {
	Min Number
	Max Number
}

// String returns r using YANG notation, either a single value if min == max
// or min..max.
func (r YRange) String() string {
	if r.Min.Equal(r.Max) {
		return r.Min.String()
	}
	return r.Min.String() + ".." + r.Max.String()
}

// Equal compares whether two YRanges are equal.
func (r YRange) Equal(s YRange) bool {
	return r.Min.Equal(s.Min) && r.Max.Equal(s.Max)
}

// A YangRange is a set of non-overlapping ranges.
type YangRange []YRange

// String returns the ranges r using YANG notation.  Individual ranges are
// separated by pipes (|).
func (r YangRange) String() string {
	s := make([]string, len(r))
	for i, r := range r {
		s[i] = r.String()
	}
	return strings.Join(s, "|")
}

func (r YangRange) Len() int      { return len(r) }
func (r YangRange) Swap(i, j int) { r[i], r[j] = r[j], r[i] }
func (r YangRange) Less(i, j int) bool {
	switch {
	case r[i].Min.Less(r[j].Min):
		return true
	case r[j].Min.Less(r[i].Min):
		return false
	default:
		return r[i].Max.Less(r[j].Max)
	}
}

// Equal returns true if ranges r and q are identically equivalent.
func (r YangRange) Equal(q YangRange) bool {
	if len(r) != len(q) {
		return false
	}
	for i, r := range r {
		if !r.Equal(q[i]) {
			return false
		}
	}
	return true
}

// Contains returns true if all possible values in s are also possible values
// in r.  An empty r allows everything.  Both r and s must be coalesced.
func (r YangRange) Contains(s YangRange) bool {
	if len(r) == 0 || len(s) == 0 {
		return true
	}
	ri := 0
	for _, ss := range s {
		for r[ri].Max.Less(ss.Min) {
			ri++
			if ri == len(r) {
				return false
			}
		}
		if ss.Min.Less(r[ri].Min) || r[ri].Max.Less(ss.Max) {
			return false
		}
	}
	return true
}

// coalesce coalesces the sorted r into as few ranges as possible.  For
// example, 1..5|6..10 becomes 1..10.
func coalesce(r YangRange) YangRange {
	if len(r) < 2 {
		return r
	}
	cr := make(YangRange, len(r))
	i := 0
	cr[i] = r[0]
	for _, r1 := range r[1:] {
		if cr[i].Max.addQuantum(1).Less(r1.Min) {
			i++
			cr[i] = r1
		} else if cr[i].Max.Less(r1.Max) {
			cr[i].Max = r1.Max
		}
	}
	return cr[:i+1]
}

// ParseRanges parses s, a range or length argument, as a restriction of
// parent.  The keywords min and max refer to the bounds of parent.  fd is the
// number of fraction digits for decimal64 ranges and 0 otherwise.  The result
// is sorted and coalesced.  An error is returned if s is malformed or allows
// a value parent does not.
func (parent YangRange) ParseRanges(s string, fd uint8) (YangRange, error) {
	parseNumber := func(s string) (Number, error) {
		switch s {
		case "min":
			if len(parent) == 0 {
				return Number{}, errors.New("min used without a base range")
			}
			return parent[0].Min, nil
		case "max":
			if len(parent) == 0 {
				return Number{}, errors.New("max used without a base range")
			}
			return parent[len(parent)-1].Max, nil
		}
		if fd > 0 {
			return ParseDecimal(s, fd)
		}
		return ParseInt(s)
	}

	parts := strings.Split(s, "|")
	r := make(YangRange, len(parts))
	for i, s := range parts {
		bounds := strings.Split(s, "..")
		min, err := parseNumber(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, err
		}
		max := min
		switch len(bounds) {
		case 1:
		case 2:
			if max, err = parseNumber(strings.TrimSpace(bounds[1])); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("too many '..' in %s", s)
		}
		if max.Less(min) {
			return nil, fmt.Errorf("range boundaries out of order (%s less than %s): %s", max, min, s)
		}
		r[i] = YRange{min, max}
	}
	sort.Sort(r)
	for i := 1; i < len(r); i++ {
		if !r[i-1].Max.Less(r[i].Min) {
			return nil, fmt.Errorf("overlapping ranges in %s", s)
		}
	}
	r = coalesce(r)
	if !parent.Contains(r) {
		return nil, fmt.Errorf("%s not within %s", s, parent)
	}
	return r, nil
}

func mustParseRanges(s string) YangRange {
	r, err := YangRange{}.ParseRanges(s, 0)
	if err != nil {
		panic(err)
	}
	return r
}

// checkRestrictions checks the range and length statements along types, the
// typedef chain of a resolved type starting with the type itself.  Each
// restriction must lie within the restriction of the type it derives from.
func checkRestrictions(types []*Type) *LinkError {
	t := types[0]
	var rng YangRange
	var fd uint8
	switch {
	case builtinRanges[t.Kind] != nil:
		rng = builtinRanges[t.Kind]
	case t.Kind == Ydecimal64:
		fd = uint8(t.FractionDigits)
		rng = decimalRange(fd)
	}
	length := lengthRange
	if t.Kind != Ystring && t.Kind != Ybinary {
		length = nil
	}
	for i := len(types) - 1; i >= 0; i-- {
		tt := types[i]
		if tt.Range != "" {
			if rng == nil {
				return errorf(InvalidLeafrefOrTypeError, "InvalidRestriction", tt.Loc, "range is not allowed for %s", t.Kind)
			}
			r, err := rng.ParseRanges(tt.Range, fd)
			if err != nil {
				return errorf(InvalidLeafrefOrTypeError, "InvalidRange", tt.Loc, "bad range %q: %v", tt.Range, err)
			}
			rng = r
		}
		if tt.Length != "" {
			if length == nil {
				return errorf(InvalidLeafrefOrTypeError, "InvalidRestriction", tt.Loc, "length is not allowed for %s", t.Kind)
			}
			r, err := length.ParseRanges(tt.Length, 0)
			if err != nil {
				return errorf(InvalidLeafrefOrTypeError, "InvalidLength", tt.Loc, "bad length %q: %v", tt.Length, err)
			}
			length = r
		}
	}
	return nil
}
