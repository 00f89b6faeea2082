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
	"testing"

	"github.com/openconfig/gnmi/errdiff"
)

// num returns i as an integer Number.
func num(i int64) Number {
	if i < 0 {
		return Number{Value: uint64(-i), Negative: true}
	}
	return Number{Value: uint64(i)}
}

func R(a, b int64) YRange {
	return YRange{num(a), num(b)}
}

func TestRangeEqual(t *testing.T) {
	for x, tt := range []struct {
		r1, r2 YangRange
		ok     bool
	}{
		{ok: true},                          // empty range contained in empty range
		{r1: YangRange{R(1, 2)}, ok: false}, // empty range contained in range
		{r2: YangRange{R(1, 2)}, ok: false}, // range contained in empty range
		{
			YangRange{R(1, 2)},
			YangRange{R(1, 2)},
			true,
		},
		{
			YangRange{R(1, 3)},
			YangRange{R(1, 2)},
			false,
		},
		{
			YangRange{R(1, 2), R(4, 5)},
			YangRange{R(1, 2), R(4, 5)},
			true,
		},
		{
			YangRange{R(1, 2), R(4, 6)},
			YangRange{R(1, 2), R(4, 5)},
			false,
		},
		{
			YangRange{R(1, 2)},
			YangRange{R(1, 2), R(4, 5)},
			false,
		},
		{
			YangRange{R(1, 2), R(4, 5)},
			YangRange{R(1, 2)},
			false,
		},
	} {
		if ok := tt.r1.Equal(tt.r2); ok != tt.ok {
			t.Errorf("#%d: got %v, want %v", x, ok, tt.ok)
		}
	}
}

func TestRangeContains(t *testing.T) {
	for x, tt := range []struct {
		r1, r2 YangRange
		ok     bool
	}{
		{ok: true},
		{r1: YangRange{R(1, 2)}, ok: true},
		{r2: YangRange{R(1, 2)}, ok: true},
		{
			r1: YangRange{R(1, 2)},
			r2: YangRange{R(1, 2)},
			ok: true,
		},
		{
			r1: YangRange{R(1, 5)},
			r2: YangRange{R(2, 3)},
			ok: true,
		},
		{
			r1: YangRange{R(2, 3)},
			r2: YangRange{R(1, 5)},
			ok: false,
		},
		{
			r1: YangRange{R(1, 10)},
			r2: YangRange{R(1, 2), R(4, 5), R(7, 10)},
			ok: true,
		},
		{
			r1: YangRange{R(1, 10)},
			r2: YangRange{R(1, 2), R(7, 11)},
			ok: false,
		},
		{
			r1: YangRange{R(1, 9), R(11, 19), R(21, 29)},
			r2: YangRange{R(23, 25)},
			ok: true,
		},
		{
			r1: YangRange{R(1, 9), R(11, 19), R(21, 29)},
			r2: YangRange{R(23, 23)},
			ok: true,
		},
		{
			r1: YangRange{R(1, 9), R(11, 19), R(21, 29)},
			r2: YangRange{R(20, 20)},
			ok: false,
		},
		{
			r1: YangRange{R(-10, -1), R(1, 10)},
			r2: YangRange{R(-5, -2)},
			ok: true,
		},
		{
			r1: YangRange{R(-10, -1), R(1, 10)},
			r2: YangRange{R(-1, 1)},
			ok: false,
		},
	} {
		if ok := tt.r1.Contains(tt.r2); ok != tt.ok {
			t.Errorf("#%d: got %v, want %v", x, ok, tt.ok)
		}
	}
}

func TestCoalesce(t *testing.T) {
	for x, tt := range []struct {
		in, out YangRange
	}{
		{},
		{YangRange{R(1, 4)}, YangRange{R(1, 4)}},
		{YangRange{R(1, 2), R(3, 4)}, YangRange{R(1, 4)}},
		{YangRange{R(1, 2), R(2, 4)}, YangRange{R(1, 4)}},
		{YangRange{R(1, 2), R(4, 5)}, YangRange{R(1, 2), R(4, 5)}},
		{YangRange{R(1, 3), R(2, 5)}, YangRange{R(1, 5)}},
		{YangRange{R(1, 10), R(2, 5)}, YangRange{R(1, 10)}},
		{YangRange{R(1, 10), R(1, 2), R(4, 5), R(7, 8)}, YangRange{R(1, 10)}},
		{YangRange{R(-3, -1), R(0, 2)}, YangRange{R(-3, 2)}},
	} {
		out := coalesce(tt.in)
		if !out.Equal(tt.out) {
			t.Errorf("#%d: got %v, want %v", x, out, tt.out)
		}
	}
}

func TestNumberLess(t *testing.T) {
	for _, tt := range []struct {
		n, m Number
		want bool
	}{
		{num(1), num(2), true},
		{num(2), num(1), false},
		{num(-2), num(-1), true},
		{num(-1), num(1), true},
		{num(1), num(-1), false},
		{num(0), Number{Negative: true}, false},
		{Number{Negative: true}, num(0), false},
		{Number{Value: 15, FractionDigits: 1}, Number{Value: 151, FractionDigits: 2}, true},
		{Number{Value: 15, FractionDigits: 1, Negative: true}, Number{Value: 149, FractionDigits: 2, Negative: true}, true},
	} {
		if got := tt.n.Less(tt.m); got != tt.want {
			t.Errorf("%s < %s: got %v, want %v", tt.n, tt.m, got, tt.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	for _, tt := range []struct {
		in            string
		fd            uint8
		want          string
		wantErrSubstr string
	}{
		{in: "1", fd: 2, want: "1.00"},
		{in: "1.5", fd: 2, want: "1.50"},
		{in: "-0.05", fd: 3, want: "-0.050"},
		{in: "0.001", fd: 3, want: "0.001"},
		{in: "1.234", fd: 2, wantErrSubstr: "1.234 has too much precision"},
		{in: "abc", fd: 2, wantErrSubstr: "not a valid decimal number"},
		{in: "", fd: 2, wantErrSubstr: "empty string"},
		{in: "1", fd: 19, wantErrSubstr: "invalid number of fraction digits 19"},
	} {
		n, err := ParseDecimal(tt.in, tt.fd)
		if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
			t.Errorf("ParseDecimal(%q, %d): %s", tt.in, tt.fd, diff)
			continue
		}
		if err == nil && n.String() != tt.want {
			t.Errorf("ParseDecimal(%q, %d): got %s, want %s", tt.in, tt.fd, n, tt.want)
		}
	}
}

func TestParseRanges(t *testing.T) {
	for _, tt := range []struct {
		desc          string
		parent        YangRange
		in            string
		fd            uint8
		want          string
		wantErrSubstr string
	}{{
		desc:   "single value",
		parent: builtinRanges[Yint8],
		in:     "5",
		want:   "5",
	}, {
		desc:   "min and max",
		parent: builtinRanges[Yint8],
		in:     "min..-1 | 1..max",
		want:   "-128..-1|1..127",
	}, {
		desc:   "unsorted and adjacent",
		parent: builtinRanges[Yuint16],
		in:     "10..20 | 1..9",
		want:   "1..20",
	}, {
		desc:   "hexadecimal",
		parent: builtinRanges[Yuint8],
		in:     "0x10..0x20",
		want:   "16..32",
	}, {
		desc:   "decimal",
		parent: decimalRange(2),
		in:     "-1.5..2",
		fd:     2,
		want:   "-1.50..2.00",
	}, {
		desc:          "outside the parent",
		parent:        builtinRanges[Yuint8],
		in:            "0..256",
		wantErrSubstr: "0..256 not within 0..255",
	}, {
		desc:          "overlap",
		parent:        builtinRanges[Yint32],
		in:            "1..5 | 3..7",
		wantErrSubstr: "overlapping ranges",
	}, {
		desc:          "out of order",
		parent:        builtinRanges[Yint32],
		in:            "5..1",
		wantErrSubstr: "range boundaries out of order",
	}, {
		desc:          "too many dots",
		parent:        builtinRanges[Yint32],
		in:            "1..2..3",
		wantErrSubstr: "too many '..'",
	}, {
		desc:          "max without a parent",
		in:            "1..max",
		wantErrSubstr: "max used without a base range",
	}} {
		t.Run(tt.desc, func(t *testing.T) {
			r, err := tt.parent.ParseRanges(tt.in, tt.fd)
			if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
				t.Fatalf("ParseRanges(%q): %s", tt.in, diff)
			}
			if err == nil && r.String() != tt.want {
				t.Errorf("ParseRanges(%q): got %s, want %s", tt.in, r, tt.want)
			}
		})
	}
}
