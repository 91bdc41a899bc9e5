package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kolkov/stateguard/cmd/stateguard/bracket"
	"github.com/kolkov/stateguard/cmd/stateguard/hostmod"
)

// checkCommand implements `stateguard check [-v] <files/dirs>`.
//
// Exit codes: 0 clean, 1 findings reported, 2 usage or I/O error.
func checkCommand(args []string) {
	flags := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := flags.Bool("v", false, "print per-run statistics")
	if err := flags.Parse(args); err != nil {
		os.Exit(2)
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "check: no files or directories given")
		os.Exit(2)
	}

	files, err := collectGoFiles(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "check: %v\n", err)
		os.Exit(2)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "check: no Go files found")
		os.Exit(2)
	}

	findings, stats, err := runCheck(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check: %v\n", err)
		os.Exit(2)
	}

	for _, f := range findings {
		fmt.Println(f)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "checked %d file(s) (%d without guard imports), %d function(s), %d guarded\n",
			stats.FilesChecked, stats.FilesSkipped, stats.FuncsChecked, stats.GuardedFuncs)
		fmt.Fprintf(os.Stderr, "findings: %d missing-release, %d missing-acquire, %d release-not-deferred, %d unguarded-entry\n",
			stats.FindingsByKind[bracket.MissingRelease],
			stats.FindingsByKind[bracket.MissingAcquire],
			stats.FindingsByKind[bracket.ReleaseNotDeferred],
			stats.FindingsByKind[bracket.UnguardedEntry])
	}

	if len(findings) > 0 {
		os.Exit(1)
	}
}

// runCheck analyzes the given files, grouping them by governing go.mod so
// replace directives apply to the right sources.
func runCheck(files []string) ([]bracket.Finding, bracket.Stats, error) {
	// Checker per go.mod: import-path resolution differs per module.
	checkers := map[string]*bracket.Checker{}
	checkerFor := func(dir string) (*bracket.Checker, error) {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		goMod := hostmod.FindGoMod(abs)
		if c, ok := checkers[goMod]; ok {
			return c, nil
		}
		paths, err := hostmod.GuardImportPaths(goMod)
		if err != nil {
			return nil, err
		}
		c := bracket.New(paths)
		checkers[goMod] = c
		return c, nil
	}

	var (
		all   []bracket.Finding
		stats bracket.Stats
	)
	fset := token.NewFileSet()
	for _, path := range files {
		checker, err := checkerFor(filepath.Dir(path))
		if err != nil {
			return nil, stats, err
		}

		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, stats, fmt.Errorf("parsing %s: %w", path, err)
		}
		all = append(all, checker.CheckFile(fset, file)...)
	}

	for _, c := range checkers {
		s := c.Stats()
		stats.FilesChecked += s.FilesChecked
		stats.FilesSkipped += s.FilesSkipped
		stats.FuncsChecked += s.FuncsChecked
		stats.GuardedFuncs += s.GuardedFuncs
		for i, n := range s.FindingsByKind {
			stats.FindingsByKind[i] += n
		}
	}
	return all, stats, nil
}

// collectGoFiles expands the argument list into Go source files.
// Directories are walked recursively, skipping hidden, underscore,
// vendor, and testdata directories.
func collectGoFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if strings.HasSuffix(arg, ".go") {
				files = append(files, arg)
			}
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if path != arg && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
					name == "vendor" || name == "testdata") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(name, ".go") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
