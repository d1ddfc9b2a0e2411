// cfgsync inspects, merges and validates configuration files against the
// built-in configuration profiles.
//
// Usage:
//
//	cfgsync [-config file] [-format yaml|json] <command> [args]
//
//	cfgsync show <file>                 Print a file as an indented tree
//	cfgsync merge <base> <overlay>...   Overlay files onto base, print the result
//	cfgsync dump <profile>              Print the defaults of a profile
//	cfgsync apply <profile> <file>      Merge a file into a profile, print the result
//	cfgsync check <profile> <file>...   Report every incompatibility of the files
//	cfgsync profiles                    List the built-in profiles
//	cfgsync version                     Print version info
//
// Files are YAML (.yaml, .yml) or JSON (.json).
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"config-reconciler/callable"
	"config-reconciler/internal/codec"
	"config-reconciler/internal/config"
	"config-reconciler/internal/diagnostic"
	"config-reconciler/internal/logging"
	"config-reconciler/internal/profiles"
	"config-reconciler/plain"
	"config-reconciler/reconcile"
)

const version = "0.3.0"

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	cfg    *config.Config
	log    *logging.Logger
	out    codec.Exporter
	stdout io.Writer
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cfgsync", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	configPath := fs.String("config", "", "cfgsync settings file")
	format := fs.String("format", "", "output format: yaml or json")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "cfgsync: %v\n", err)
		return 1
	}

	if *format != "" {
		cfg.Output.Format = *format
	}

	out, err := codec.ForFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(stderr, "cfgsync: %v\n", err)
		return 2
	}

	a := &app{
		cfg:    cfg,
		log:    logging.NewWriter(cfg.Logging, version, logging.Destination(cfg.Logging.Output, stdout, stderr)),
		out:    out,
		stdout: stdout,
	}

	// profiles registered their functions at init; nothing may add more
	if callable.Default.Seal() {
		a.log.Debug("callable registry sealed", "names", len(callable.Default.Names()))
	}

	err = a.dispatch(fs.Args())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "cfgsync: %v\n", err)
		printUsage(stderr)

		return 2
	default:
		fmt.Fprintf(stderr, "cfgsync: %v\n", err)
		return 1
	}
}

func (a *app) dispatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("%w: show <file>", errUsage)
		}

		return a.show(rest[0])

	case "merge":
		if len(rest) < 2 {
			return fmt.Errorf("%w: merge <base> <overlay>...", errUsage)
		}

		return a.merge(rest[0], rest[1:])

	case "dump":
		if len(rest) != 1 {
			return fmt.Errorf("%w: dump <profile>", errUsage)
		}

		return a.dump(rest[0])

	case "apply":
		if len(rest) != 2 {
			return fmt.Errorf("%w: apply <profile> <file>", errUsage)
		}

		return a.apply(rest[0], rest[1])

	case "check":
		if len(rest) < 2 {
			return fmt.Errorf("%w: check <profile> <file>...", errUsage)
		}

		return a.check(rest[0], rest[1:])

	case "profiles":
		for _, name := range profiles.Names() {
			fmt.Fprintln(a.stdout, name)
		}

		return nil

	case "version":
		fmt.Fprintf(a.stdout, "cfgsync %s\n", version)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (a *app) show(path string) error {
	m, err := codec.LoadFile(path)
	if err != nil {
		return err
	}

	return reconcile.Fprint(a.stdout, m)
}

func (a *app) merge(basePath string, overlays []string) error {
	base, err := codec.LoadFile(basePath)
	if err != nil {
		return err
	}

	for _, path := range overlays {
		overlay, err := codec.LoadFile(path)
		if err != nil {
			return err
		}

		base = reconcile.MergeMaps(base, overlay)
		a.log.Debug("overlay merged", "file", path, "keys", overlay.Len())
	}

	return a.out.Export(base, a.stdout)
}

func (a *app) dump(profile string) error {
	obj, err := profiles.Lookup(profile)
	if err != nil {
		return err
	}

	return a.export(obj)
}

func (a *app) apply(profile, path string) error {
	obj, data, err := a.load(profile, path)
	if err != nil {
		return err
	}

	if err := reconcile.Merge(obj, data, reconcile.WithLogger(a.log.With("profile", profile).Logger)); err != nil {
		return err
	}

	a.log.Info("configuration applied", "profile", profile, "file", path)

	return a.export(obj)
}

func (a *app) check(profile string, paths []string) error {
	var total diagnostic.Report

	for _, path := range paths {
		obj, data, err := a.load(profile, path)
		if err != nil {
			return err
		}

		report := diagnostic.Check(path, obj, data)
		if err := report.PrintWarnings(a.stdout); err != nil {
			return err
		}

		if !report.HasErrors() {
			fmt.Fprintf(a.stdout, "%s: ok\n", path)
		}

		a.log.Debug("file checked", "profile", profile, "file", path,
			"errors", len(report.Errors), "warnings", len(report.Warnings))
		total.Append(report)
	}

	if total.HasErrors() {
		return fmt.Errorf("%d problem(s) found\n%w", len(total.Errors), total.Err())
	}

	return nil
}

func (a *app) load(profile, path string) (any, *plain.Map, error) {
	obj, err := profiles.Lookup(profile)
	if err != nil {
		return nil, nil, err
	}

	data, err := codec.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}

	return obj, data, nil
}

func (a *app) export(obj any) error {
	m, err := reconcile.ToMap(obj)
	if err != nil {
		return err
	}

	return a.out.Export(m, a.stdout)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: cfgsync [-config file] [-format yaml|json] <command> [args]")
	fmt.Fprintln(w, "commands: show | merge | dump | apply | check | profiles | version")
}
