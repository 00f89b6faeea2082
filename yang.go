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

// Program yanglink reads YANG files, links them, displays errors, and
// possibly writes something related to the linked schema on output.
//
// Usage: yanglink [--path DIR] [--format FORMAT] [FORMAT OPTIONS] [MODULE] [FILE ...]
//
// If MODULE is specified (an argument that does not end in .yang), it is taken
// as the name of the module to display.  Any FILEs specified are read, and the
// tree for MODULE is displayed.  If MODULE was not defined in FILEs (or no
// files were specified), then the file MODULE.yang is read as well.  An error
// is displayed if no definition for MODULE was found.
//
// If MODULE is missing, then all base modules read from the FILEs are
// displayed.  If there are no arguments then standard input is parsed.
//
// If DIR is specified, it is considered a comma separated list of paths
// to append to the search directory.  If DIR appears as DIR/... then
// DIR and all direct and indirect subdirectories are checked.
//
// FORMAT, which defaults to "tree", specifies the format of output to produce.
// Use "yanglink --help" for a list of available formats.
//
// THIS PROGRAM IS STILL JUST A DEVELOPMENT TOOL.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/trace"
	"sort"
	"strings"

	"github.com/openconfig/yanglink/pkg/indent"
	"github.com/openconfig/yanglink/pkg/yang"
	"github.com/pborman/getopt"
)

// Each format must register a formatter with register.  The function f will
// be called once with the linked modules and the units to display.
type formatter struct {
	name  string
	f     func(io.Writer, *yang.Modules, []*yang.Unit)
	help  string
	flags *getopt.Set
}

var formatters = map[string]*formatter{}

func register(f *formatter) {
	formatters[f.name] = f
}

// exitIfError writes errs to standard error and exits with an exit status of 1.
// If errs is empty then exitIfError does nothing and simply returns.
func exitIfError(errs []error) {
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err)
		}
		stop(1)
	}
}

var stop = os.Exit

func main() {
	var format string
	var paths []string
	var traceP string
	var help bool
	var verbosity string
	opts := yang.Options{MaxPasses: yang.DefaultMaxPasses}

	formats := make([]string, 0, len(formatters))
	for k := range formatters {
		formats = append(formats, k)
	}
	sort.Strings(formats)

	getopt.ListVarLong(&paths, "path", 0, "comma separated list of directories to add to search path", "DIR[,DIR...]")
	getopt.StringVarLong(&format, "format", 0, "format to display: "+strings.Join(formats, ", "), "FORMAT")
	getopt.IntVarLong(&opts.MaxPasses, "max_passes", 0, "maximum number of resolution passes per linking stage", "N")
	getopt.BoolVarLong(&opts.IgnoreSubmoduleCircularDependencies, "ignore_circdep", 'g', "ignore circular dependencies between submodules")
	getopt.StringVarLong(&traceP, "trace", 't', "write trace into to TRACEFILE", "TRACEFILE")
	getopt.StringVarLong(&verbosity, "v", 0, "log linking progress to standard error at verbosity LEVEL", "LEVEL")
	getopt.BoolVarLong(&help, "help", 'h', "display help")
	getopt.SetParameters("[FORMAT OPTIONS] [SOURCE] [...]")

	if err := getopt.Getopt(func(o getopt.Option) bool {
		if o.Name() == "--format" {
			f, ok := formatters[format]
			if !ok {
				fmt.Fprintf(os.Stderr, "%s: invalid format.  Choices are %s\n", format, strings.Join(formats, ", "))
				stop(1)
			}
			if f.flags != nil {
				f.flags.VisitAll(func(o getopt.Option) {
					getopt.AddOption(o)
				})
			}
		}
		return true
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		getopt.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	if verbosity != "" {
		if err := setVerbosity(verbosity); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if traceP != "" {
		fp, err := os.Create(traceP)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		trace.Start(fp)
		stop = func(c int) { trace.Stop(); os.Exit(c) }
		defer func() { trace.Stop() }()
	}

	if help {
		getopt.CommandLine.PrintUsage(os.Stderr)
		fmt.Fprintf(os.Stderr, `
SOURCE may be a module name or a .yang file.

Formats:
`)
		for _, fn := range formats {
			f := formatters[fn]
			fmt.Fprintf(os.Stderr, "    %s - %s\n", f.name, f.help)
			if f.flags != nil {
				f.flags.PrintOptions(indent.NewWriter(os.Stderr, "   "))
			}
			fmt.Fprintln(os.Stderr)
		}
		stop(0)
	}

	if format == "" {
		format = "tree"
	}
	if _, ok := formatters[format]; !ok {
		fmt.Fprintf(os.Stderr, "%s: invalid format.  Choices are %s\n", format, strings.Join(formats, ", "))
		stop(1)
	}

	ms := yang.NewModules()
	ms.Options = opts
	for _, path := range paths {
		ms.AddPath(path)
	}

	files := getopt.Args()
	if len(files) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err == nil {
			err = ms.Parse(string(data), "<STDIN>")
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			stop(1)
		}
	}

	units, errs := load(ms, files)
	exitIfError(errs)
	formatters[format].f(os.Stdout, ms, units)
	stop(0)
}

// setVerbosity sets the glog verbosity to level and sends the log to
// standard error.  getopt owns the command line, so glog's own flags are
// never parsed.
func setVerbosity(level string) error {
	if err := flag.Set("v", level); err != nil {
		return fmt.Errorf("--v %s: %v", level, err)
	}
	return flag.Set("logtostderr", "true")
}

// load reads files into ms, links everything read and returns the units to
// display.  When the first file names a module rather than a .yang file only
// that module is returned.
func load(ms *yang.Modules, files []string) ([]*yang.Unit, []error) {
	var module string
	if len(files) > 0 && !strings.HasSuffix(files[0], ".yang") {
		module, files = files[0], files[1:]
	}
	var errs []error
	for _, name := range files {
		if err := ms.Read(name); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if module != "" {
		u, errs := ms.GetModule(module)
		if len(errs) > 0 {
			return nil, errs
		}
		return []*yang.Unit{u}, nil
	}
	if errs := ms.Process(); len(errs) > 0 {
		return nil, errs
	}
	return topUnits(ms), nil
}

// topUnits returns the latest revision of each module of ms sorted by name.
// Submodules are displayed as part of their module.
func topUnits(ms *yang.Modules) []*yang.Unit {
	var names []string
	for n, u := range ms.Modules {
		if n == u.Name {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	units := make([]*yang.Unit, 0, len(names))
	for _, n := range names {
		units = append(units, ms.Modules[n])
	}
	return units
}
