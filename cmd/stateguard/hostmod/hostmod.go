// Package hostmod resolves how a host project imports the stateguard
// runtime.
//
// The bracket checker needs to know which import paths denote the guard
// package before it can recognize guarded state in a host's source. The
// common case is the canonical module path, but a host may consume the
// runtime through a fork, a vanity path, or a local replace directive in
// its go.mod. This package parses the host's go.mod to expand the set of
// import paths that should be treated as the guard runtime.
package hostmod

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ModulePath is the canonical module path of the stateguard runtime.
const ModulePath = "github.com/kolkov/stateguard"

// GuardPackage is the canonical import path of the public guard package.
const GuardPackage = ModulePath + "/guard"

// FindGoMod walks up from dir looking for the nearest go.mod file.
//
// Returns the empty string if the filesystem root is reached without
// finding one, which is not an error: the checker then falls back to the
// canonical import path only.
func FindGoMod(dir string) string {
	for {
		modPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(modPath); err == nil {
			return modPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// GuardImportPaths returns every import path that denotes the guard
// package for source files governed by the go.mod at goModPath.
//
// The result always contains [GuardPackage]. It additionally contains
// "<old>/guard" for every replace directive whose replacement is the
// stateguard module (a host consuming the runtime under another name).
//
// Passing an empty goModPath yields just the canonical path.
func GuardImportPaths(goModPath string) ([]string, error) {
	paths := []string{GuardPackage}
	if goModPath == "" {
		return paths, nil
	}

	data, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", goModPath, err)
	}

	mf, err := modfile.Parse(goModPath, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", goModPath, err)
	}

	seen := map[string]bool{GuardPackage: true}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, rep := range mf.Replace {
		if rep.New.Path == ModulePath {
			// Imports of the old path resolve to the stateguard module.
			add(rep.Old.Path + "/guard")
		}
	}

	return paths, nil
}

// GuardImportPathsForDir resolves guard import paths for source files in
// dir, locating the governing go.mod automatically.
func GuardImportPathsForDir(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return GuardImportPaths(FindGoMod(abs))
}
