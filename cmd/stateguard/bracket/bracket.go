// Package bracket statically checks the acquire/release discipline around
// guarded runtime state.
//
// Every public entry point of a host runtime that touches a guarded state
// must acquire on entry and release on every exit path. The original
// macro-based hook wiring made that guarantee by construction; with
// explicit calls it is a convention, and this package is the tool that
// keeps the convention honest.
//
// The analysis is purely syntactic (go/ast, no type checking), in the
// same spirit as source instrumentation: fast, dependency-free, and
// right for the common shapes. A call participates in the analysis when
// it invokes one of the bracketing methods (Acquire, TryAcquire, Release,
// Do) on an expression rooted at a guard-typed parameter, a value built
// by guard.New/guard.NewLock, or a field of the method receiver. Guarded
// state reached through other aliases is invisible to the checker.
//
// Functions whose own name marks them as bracketing helpers (containing
// "Acquire", "Release", "Lock", or "Unlock") are exempt from the
// missing-release and missing-acquire rules: returning while holding is
// their job.
package bracket

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// Bracketing method names on guard.State and guard.Lock.
const (
	methodAcquire    = "Acquire"
	methodTryAcquire = "TryAcquire"
	methodRelease    = "Release"
	methodDo         = "Do"
)

// Checker analyzes source files for bracketing problems.
//
// A Checker is configured with the set of import paths that denote the
// guard package (see the hostmod package) and is reusable across files.
// Not safe for concurrent use; Stats accumulate across calls.
type Checker struct {
	guardPaths map[string]bool
	stats      Stats
}

// New returns a Checker recognizing the given guard import paths.
func New(guardImportPaths []string) *Checker {
	paths := make(map[string]bool, len(guardImportPaths))
	for _, p := range guardImportPaths {
		paths[p] = true
	}
	return &Checker{guardPaths: paths}
}

// Stats returns the accumulated coverage statistics.
func (c *Checker) Stats() Stats {
	return c.stats
}

// CheckSource parses and checks a single source file.
func (c *Checker) CheckSource(filename string, src []byte) ([]Finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	return c.CheckFile(fset, file), nil
}

// CheckFile checks an already-parsed file.
//
// Files that do not import the guard package yield no findings: without
// the import, nothing in the file can name a guard type, and bracketing
// calls on indirectly held state cannot be distinguished from unrelated
// methods.
func (c *Checker) CheckFile(fset *token.FileSet, file *ast.File) []Finding {
	guardNames := c.guardPackageNames(file)
	if len(guardNames) == 0 {
		c.stats.FilesSkipped++
		return nil
	}
	c.stats.FilesChecked++

	var findings []Finding
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		c.stats.FuncsChecked++
		findings = append(findings, c.checkFunc(fset, fn, guardNames)...)
	}

	for _, f := range findings {
		c.stats.FindingsByKind[f.Kind]++
	}
	return findings
}

// guardPackageNames returns the local names under which this file imports
// the guard package (usually just "guard", or an alias).
func (c *Checker) guardPackageNames(file *ast.File) map[string]bool {
	names := map[string]bool{}
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !c.guardPaths[path] {
			continue
		}
		name := path[strings.LastIndex(path, "/")+1:]
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "." || name == "_" {
			// Dot and blank imports defeat selector matching.
			continue
		}
		names[name] = true
	}
	return names
}

// bracketUse records the bracketing calls on one guarded expression
// within one function.
type bracketUse struct {
	target          string // expression as written, e.g. "r.state"
	acquires        int
	releases        int
	deferredRelease bool
	dos             int
}

// checkFunc applies the bracketing rules to a single function.
func (c *Checker) checkFunc(fset *token.FileSet, fn *ast.FuncDecl, guardNames map[string]bool) []Finding {
	roots := guardedRoots(fn, guardNames)
	recv := receiverName(fn)

	uses := map[string]*bracketUse{}
	use := func(base ast.Expr) *bracketUse {
		key := types.ExprString(base)
		u, ok := uses[key]
		if !ok {
			u = &bracketUse{target: key}
			uses[key] = u
		}
		return u
	}

	// participates reports whether base denotes guarded state we can see:
	// a guard-typed/constructed local, or a field of the receiver.
	participates := func(base ast.Expr) bool {
		root := rootIdent(base)
		if root == "" {
			return false
		}
		if roots[root] {
			return true
		}
		if _, isSel := base.(*ast.SelectorExpr); isSel && root == recv && recv != "" {
			return true
		}
		return false
	}

	returns := 0
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ReturnStmt:
			returns++
		case *ast.FuncLit:
			// Nested closures run on their own schedule (goroutines,
			// callbacks); their bracketing is checked where they are
			// defined as named functions, not here.
			return false
		case *ast.DeferStmt:
			if sel, ok := n.Call.Fun.(*ast.SelectorExpr); ok &&
				sel.Sel.Name == methodRelease && participates(sel.X) {
				u := use(sel.X)
				u.releases++
				u.deferredRelease = true
				return false
			}
		case *ast.CallExpr:
			sel, ok := n.Fun.(*ast.SelectorExpr)
			if !ok || !participates(sel.X) {
				return true
			}
			switch sel.Sel.Name {
			case methodAcquire, methodTryAcquire:
				use(sel.X).acquires++
			case methodRelease:
				use(sel.X).releases++
			case methodDo:
				use(sel.X).dos++
			}
		}
		return true
	})

	if len(uses) > 0 {
		c.stats.GuardedFuncs++
	}

	pos := fset.Position(fn.Pos())
	helper := isBracketHelper(fn.Name.Name)

	var findings []Finding
	for _, u := range uses {
		switch {
		case u.acquires > 0 && u.releases == 0 && !helper:
			findings = append(findings, Finding{
				Pos: pos, Kind: MissingRelease, Func: fn.Name.Name, Target: u.target,
			})
		case u.releases > 0 && u.acquires == 0 && u.dos == 0 && !helper:
			findings = append(findings, Finding{
				Pos: pos, Kind: MissingAcquire, Func: fn.Name.Name, Target: u.target,
			})
		case u.acquires > 0 && u.releases > 0 && !u.deferredRelease && returns > 1:
			findings = append(findings, Finding{
				Pos: pos, Kind: ReleaseNotDeferred, Func: fn.Name.Name, Target: u.target,
			})
		}
	}

	// Exported entry points that take guarded state but never bracket it.
	if len(uses) == 0 && fn.Name.IsExported() {
		for name := range roots {
			if !guardTypedParam(fn, guardNames, name) {
				continue
			}
			findings = append(findings, Finding{
				Pos: pos, Kind: UnguardedEntry, Func: fn.Name.Name, Target: name,
			})
		}
	}

	return findings
}

// guardedRoots collects identifiers in fn that denote guarded state:
// guard-typed parameters and receivers, plus locals assigned from
// guard.New or guard.NewLock.
func guardedRoots(fn *ast.FuncDecl, guardNames map[string]bool) map[string]bool {
	roots := map[string]bool{}

	addFields := func(fl *ast.FieldList) {
		if fl == nil {
			return
		}
		for _, field := range fl.List {
			if !isGuardType(field.Type, guardNames) {
				continue
			}
			for _, name := range field.Names {
				roots[name.Name] = true
			}
		}
	}
	addFields(fn.Recv)
	if fn.Type.Params != nil {
		addFields(fn.Type.Params)
	}

	ast.Inspect(fn.Body, func(n ast.Node) bool {
		assign, ok := n.(*ast.AssignStmt)
		if !ok || len(assign.Rhs) != 1 {
			return true
		}
		call, ok := assign.Rhs[0].(*ast.CallExpr)
		if !ok || !isGuardConstructor(call.Fun, guardNames) {
			return true
		}
		for _, lhs := range assign.Lhs {
			if id, ok := lhs.(*ast.Ident); ok && id.Name != "_" {
				roots[id.Name] = true
			}
		}
		return true
	})

	return roots
}

// isGuardType reports whether a type expression references guard.State or
// guard.Lock, through any level of pointers or generic instantiation.
func isGuardType(expr ast.Expr, guardNames map[string]bool) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && guardNames[id.Name] &&
			(sel.Sel.Name == "State" || sel.Sel.Name == "Lock") {
			found = true
			return false
		}
		return true
	})
	return found
}

// isGuardConstructor reports whether a call target is guard.New or
// guard.NewLock (including generic instantiation guard.New[T]).
func isGuardConstructor(fun ast.Expr, guardNames map[string]bool) bool {
	if idx, ok := fun.(*ast.IndexExpr); ok {
		fun = idx.X
	}
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	id, ok := sel.X.(*ast.Ident)
	if !ok || !guardNames[id.Name] {
		return false
	}
	return sel.Sel.Name == "New" || sel.Sel.Name == "NewLock"
}

// guardTypedParam reports whether name is a guard-typed parameter or
// receiver of fn (as opposed to a guarded local).
func guardTypedParam(fn *ast.FuncDecl, guardNames map[string]bool, name string) bool {
	check := func(fl *ast.FieldList) bool {
		if fl == nil {
			return false
		}
		for _, field := range fl.List {
			if !isGuardType(field.Type, guardNames) {
				continue
			}
			for _, id := range field.Names {
				if id.Name == name {
					return true
				}
			}
		}
		return false
	}
	return check(fn.Recv) || check(fn.Type.Params)
}

// receiverName returns the name of fn's receiver, or "" for plain
// functions and anonymous receivers.
func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 || len(fn.Recv.List[0].Names) == 0 {
		return ""
	}
	return fn.Recv.List[0].Names[0].Name
}

// rootIdent returns the leftmost identifier of an expression chain
// ("r.state.lock" -> "r"), or "" if the root is not a plain identifier.
func rootIdent(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.Ident:
			return e.Name
		case *ast.SelectorExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.IndexExpr:
			expr = e.X
		default:
			return ""
		}
	}
}

// isBracketHelper reports whether a function name marks it as a
// bracketing helper that legitimately returns while holding (or releases
// a caller's hold).
func isBracketHelper(name string) bool {
	for _, marker := range []string{"Acquire", "Release", "Lock", "Unlock"} {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
