package hostmod

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func writeGoMod(c *qt.C, dir, content string) string {
	c.Helper()
	path := filepath.Join(dir, "go.mod")
	err := os.WriteFile(path, []byte(content), 0o644)
	c.Assert(err, qt.IsNil)
	return path
}

func TestFindGoMod(t *testing.T) {
	c := qt.New(t)

	root := c.TempDir()
	modPath := writeGoMod(c, root, "module example.com/host\n\ngo 1.24.0\n")

	nested := filepath.Join(root, "internal", "interp")
	c.Assert(os.MkdirAll(nested, 0o755), qt.IsNil)

	c.Assert(FindGoMod(nested), qt.Equals, modPath)
	c.Assert(FindGoMod(root), qt.Equals, modPath)
}

func TestFindGoModMissing(t *testing.T) {
	c := qt.New(t)

	// Temp dirs can still sit under a directory that happens to carry a
	// go.mod, so only assert that the walk terminates and returns either
	// nothing or a real path.
	dir := c.TempDir()
	got := FindGoMod(dir)
	if got != "" {
		_, err := os.Stat(got)
		c.Assert(err, qt.IsNil)
	}
}

func TestGuardImportPathsCanonicalOnly(t *testing.T) {
	c := qt.New(t)

	paths, err := GuardImportPaths("")
	c.Assert(err, qt.IsNil)
	c.Assert(paths, qt.DeepEquals, []string{GuardPackage})
}

func TestGuardImportPathsPlainHost(t *testing.T) {
	c := qt.New(t)

	modPath := writeGoMod(c, c.TempDir(), `module example.com/host

go 1.24.0

require github.com/kolkov/stateguard v0.1.0
`)

	paths, err := GuardImportPaths(modPath)
	c.Assert(err, qt.IsNil)
	c.Assert(paths, qt.DeepEquals, []string{GuardPackage})
}

func TestGuardImportPathsReplace(t *testing.T) {
	c := qt.New(t)

	modPath := writeGoMod(c, c.TempDir(), `module example.com/host

go 1.24.0

require example.com/forked/stateguard v0.0.0

replace example.com/forked/stateguard => github.com/kolkov/stateguard v0.1.0
`)

	paths, err := GuardImportPaths(modPath)
	c.Assert(err, qt.IsNil)
	c.Assert(paths, qt.DeepEquals, []string{
		GuardPackage,
		"example.com/forked/stateguard/guard",
	})
}

func TestGuardImportPathsBadGoMod(t *testing.T) {
	c := qt.New(t)

	modPath := writeGoMod(c, c.TempDir(), "this is not a go.mod\n")

	_, err := GuardImportPaths(modPath)
	c.Assert(err, qt.IsNotNil)
}
