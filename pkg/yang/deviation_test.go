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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/openconfig/gnmi/errdiff"
)

var sysModule = inputModule{"sys.yang", `
	module sys {
	  namespace "urn:sys";
	  prefix "sys";

	  container sys {
	    leaf hostname {
	      type string;
	      default "localhost";
	      units "chars";
	      must "string-length(.) > 0";
	    }
	    leaf-list servers { type string; }
	    leaf port { type uint16; }
	    container c { leaf x { type string; } }
	  }
	}`}

var otherModule = inputModule{"other.yang", `
	module other {
	  namespace "urn:other";
	  prefix "o";
	  leaf flag { type boolean; }
	}`}

// deviating returns a module named dev importing sys and other and
// declaring body.
func deviating(body string) inputModule {
	return inputModule{"dev.yang", `
		module dev {
		  namespace "urn:dev";
		  prefix "dev";
		  import sys { prefix s; }
		  import other { prefix o; }
		` + body + `
		}`}
}

func TestDeviation(t *testing.T) {
	tests := []struct {
		desc          string
		body          string
		check         func(t *testing.T, ms *Modules)
		wantCode      string
		wantErrSubstr string
	}{{
		desc: "not-supported",
		body: `deviation /s:sys/s:hostname { deviate not-supported; }`,
		check: func(t *testing.T, ms *Modules) {
			if find(ms, "/sys/sys/hostname") != NoNode {
				t.Errorf("hostname still present")
			}
			if diff := cmp.Diff([]string{"servers", "port", "c"}, dataChildren(ms, find(ms, "/sys/sys"))); diff != "" {
				t.Errorf("children of sys (-want, +got):\n%s", diff)
			}
		},
	}, {
		desc: "add",
		body: `
		  deviation /s:sys/s:servers {
		    deviate add {
		      default "a";
		      default "b";
		      max-elements 4;
		      config false;
		    }
		  }
		  deviation /s:sys/s:hostname {
		    deviate add { must "true()"; }
		  }`,
		check: func(t *testing.T, ms *Modules) {
			s := ms.Tree.Node(find(ms, "/sys/sys/servers"))
			got := struct {
				Default     []string
				MaxElements string
				Config      TriState
			}{s.Default, s.MaxElements, s.Config}
			want := got
			want.Default, want.MaxElements, want.Config = []string{"a", "b"}, "4", TSFalse
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("servers (-want, +got):\n%s", diff)
			}
			h := ms.Tree.Node(find(ms, "/sys/sys/hostname"))
			if diff := cmp.Diff([]string{"string-length(.) > 0", "true()"}, h.Must); diff != "" {
				t.Errorf("hostname must (-want, +got):\n%s", diff)
			}
		},
	}, {
		desc:          "add an existing property",
		body:          `deviation /s:sys/s:hostname { deviate add { units "bytes"; } }`,
		wantCode:      "PropertyExists",
		wantErrSubstr: `deviate add /sys:sys/hostname: units is already "chars"`,
	}, {
		desc:          "add a second default to a leaf",
		body:          `deviation /s:sys/s:hostname { deviate add { default "other"; } }`,
		wantCode:      "PropertyExists",
		wantErrSubstr: `default is already "localhost"`,
	}, {
		desc:          "add a type",
		body:          `deviation /s:sys/s:port { deviate add { type string; } }`,
		wantCode:      "InvalidDeviate",
		wantErrSubstr: "type cannot be added",
	}, {
		desc: "replace",
		body: `
		  deviation /s:sys/s:hostname {
		    deviate replace {
		      default "router";
		      units "bytes";
		      config false;
		    }
		  }
		  deviation /s:sys/s:port {
		    deviate replace { type string; }
		  }`,
		check: func(t *testing.T, ms *Modules) {
			h := ms.Tree.Node(find(ms, "/sys/sys/hostname"))
			if diff := cmp.Diff([]string{"router"}, h.Default); diff != "" {
				t.Errorf("hostname default (-want, +got):\n%s", diff)
			}
			if h.Units != "bytes" || h.Config != TSFalse {
				t.Errorf("hostname: got units %q config %s, want bytes false", h.Units, h.Config)
			}
			p := ms.Tree.Node(find(ms, "/sys/sys/port"))
			if !p.Type.Resolved() || p.Type.Kind != Ystring {
				t.Errorf("port type: got %s, want a resolved string", p.Type.Kind)
			}
		},
	}, {
		desc: "replace with a typedef of the deviating module",
		body: `
		  typedef short { type string { length "0..8"; } }
		  deviation /s:sys/s:port { deviate replace { type short; } }`,
		check: func(t *testing.T, ms *Modules) {
			p := ms.Tree.Node(find(ms, "/sys/sys/port"))
			if !p.Type.Resolved() || p.Type.Kind != Ystring || p.Type.Length != "0..8" {
				t.Errorf("port type: got %s length %q, want string 0..8", p.Type.Kind, p.Type.Length)
			}
		},
	}, {
		desc:          "replace a missing default",
		body:          `deviation /s:sys/s:port { deviate replace { default "22"; } }`,
		wantCode:      "PropertyMissing",
		wantErrSubstr: "no default to replace",
	}, {
		desc:          "replace must",
		body:          `deviation /s:sys/s:hostname { deviate replace { must "false()"; } }`,
		wantCode:      "InvalidDeviate",
		wantErrSubstr: "must and unique cannot be replaced",
	}, {
		desc: "delete",
		body: `
		  deviation /s:sys/s:hostname {
		    deviate delete {
		      default "localhost";
		      units "chars";
		      must "string-length(.) > 0";
		    }
		  }`,
		check: func(t *testing.T, ms *Modules) {
			h := ms.Tree.Node(find(ms, "/sys/sys/hostname"))
			if len(h.Default) != 0 || h.Units != "" || len(h.Must) != 0 {
				t.Errorf("hostname after delete: default %v units %q must %v", h.Default, h.Units, h.Must)
			}
		},
	}, {
		desc:          "delete different units",
		body:          `deviation /s:sys/s:hostname { deviate delete { units "bytes"; } }`,
		wantCode:      "PropertyMismatch",
		wantErrSubstr: `units "bytes" does not match "chars"`,
	}, {
		desc:          "delete a missing must",
		body:          `deviation /s:sys/s:hostname { deviate delete { must "x"; } }`,
		wantCode:      "PropertyMismatch",
		wantErrSubstr: `must "x" is not present`,
	}, {
		desc:          "delete config",
		body:          `deviation /s:sys/s:hostname { deviate delete { config true; } }`,
		wantCode:      "InvalidDeviate",
		wantErrSubstr: "only default, units, must and unique can be deleted",
	}, {
		desc: "not-supported with another deviate",
		body: `
		  deviation /s:sys/s:hostname {
		    deviate not-supported;
		    deviate add { must "true()"; }
		  }`,
		wantCode:      "NotSupportedExclusive",
		wantErrSubstr: "not-supported cannot be combined with other deviate statements",
	}, {
		desc: "targets in two modules",
		body: `
		  deviation /s:sys/s:port { deviate replace { type string; } }
		  deviation /o:flag { deviate not-supported; }`,
		wantCode:      "MultipleTargetModules",
		wantErrSubstr: "deviations of dev target more than one module: other, sys",
	}, {
		desc: "not-supported target deviated again",
		body: `
		  deviation /s:sys/s:port { deviate replace { type string; } }
		  deviation /s:sys/s:port { deviate not-supported; }`,
		wantCode:      "NotSupportedConflict",
		wantErrSubstr: "/sys:sys/port is not-supported but is deviated more than once by dev",
	}, {
		desc: "not-supported above another target",
		body: `
		  deviation /s:sys/s:c/s:x { deviate add { default "x"; } }
		  deviation /s:sys/s:c { deviate not-supported; }`,
		wantCode:      "NotSupportedConflict",
		wantErrSubstr: "/sys:sys/c is not-supported but /sys:sys/c/x below it is also deviated by dev",
	}, {
		desc: "not-supported declared before a target below it",
		body: `
		  deviation /s:sys/s:c { deviate not-supported; }
		  deviation /s:sys/s:c/s:x { deviate add { default "x"; } }`,
		wantCode:      "NotSupportedConflict",
		wantErrSubstr: "/sys:sys/c is not-supported but /s:sys/s:c/s:x below it is also deviated by dev",
	}, {
		desc:          "unknown target",
		body:          `deviation /s:sys/s:nope { deviate not-supported; }`,
		wantErrSubstr: "unresolved after linking: deviation target /s:sys/s:nope not found",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ms, errs := link(t, sysModule, otherModule, deviating(tt.body))
			err := firstError(errs)
			if diff := errdiff.Substring(err, tt.wantErrSubstr); diff != "" {
				t.Fatalf("Process: %s", diff)
			}
			if err != nil {
				var le *LinkError
				if tt.wantCode != "" && (!errors.As(err, &le) || le.Code != tt.wantCode) {
					t.Errorf("Process: got %v, want code %s", err, tt.wantCode)
				}
				if u := ms.Modules["dev"]; u.State != Failed {
					t.Errorf("dev: got state %s, want %s", u.State, Failed)
				}
				return
			}
			if u := ms.Modules["dev"]; u.State != Done {
				t.Errorf("dev: got state %s, want %s", u.State, Done)
			}
			if tt.check != nil {
				tt.check(t, ms)
			}
		})
	}
}
