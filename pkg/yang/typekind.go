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

import "fmt"

var (
	// TypeKindFromName maps the string name used in a YANG file to the enumerated
	// TypeKind used in this library.
	TypeKindFromName = map[string]TypeKind{
		"int8":                Yint8,
		"int16":               Yint16,
		"int32":               Yint32,
		"int64":               Yint64,
		"uint8":               Yuint8,
		"uint16":              Yuint16,
		"uint32":              Yuint32,
		"uint64":              Yuint64,
		"binary":              Ybinary,
		"bits":                Ybits,
		"boolean":             Ybool,
		"decimal64":           Ydecimal64,
		"empty":               Yempty,
		"enumeration":         Yenum,
		"identityref":         Yidentityref,
		"instance-identifier": YinstanceIdentifier,
		"leafref":             Yleafref,
		"string":              Ystring,
		"union":               Yunion,
	}

	// TypeKindToName maps the enumerated type used in this library to the string
	// used in a YANG file.
	TypeKindToName = map[TypeKind]string{
		Ynone:               "none",
		Yint8:               "int8",
		Yint16:              "int16",
		Yint32:              "int32",
		Yint64:              "int64",
		Yuint8:              "uint8",
		Yuint16:             "uint16",
		Yuint32:             "uint32",
		Yuint64:             "uint64",
		Ybinary:             "binary",
		Ybits:               "bits",
		Ybool:               "boolean",
		Ydecimal64:          "decimal64",
		Yempty:              "empty",
		Yenum:               "enumeration",
		Yidentityref:        "identityref",
		YinstanceIdentifier: "instance-identifier",
		Yleafref:            "leafref",
		Ystring:             "string",
		Yunion:              "union",
	}
)

// TypeKind is the enumeration of the base types available in YANG.  It
// is analogous to reflect.Kind.
type TypeKind uint

func (k TypeKind) String() string {
	if s := TypeKindToName[k]; s != "" {
		return s
	}
	return fmt.Sprintf("unknown-type-%d", k)
}

const (
	// Ynone represents the invalid (unset) type.
	Ynone = TypeKind(iota)
	Yint8
	Yint16
	Yint32
	Yint64
	Yuint8
	Yuint16
	Yuint32
	Yuint64
	Ybinary
	Ybits
	Ybool
	Ydecimal64
	Yempty
	Yenum
	Yidentityref
	YinstanceIdentifier
	Yleafref
	Ystring
	Yunion
)

// needsResolution reports whether a built-in type of kind k carries members
// or restrictions that the linker must resolve.
func (k TypeKind) needsResolution() bool {
	switch k {
	case Yunion, Yenum, Ybits, Ydecimal64:
		return true
	}
	return false
}

const (
	// MaxEnum is the maximum value of an enumeration.
	MaxEnum = 1<<31 - 1
	// MinEnum is the minimum value of an enumeration.
	MinEnum = -1 << 31
	// MaxBitPosition is the maximum position of a bit.
	MaxBitPosition = 1<<32 - 1
	// MaxFractionDigits is the maximum number of fractional digits as per
	// RFC6020 Section 9.3.4.
	MaxFractionDigits = 18
)
