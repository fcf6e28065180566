package internalcheck

import (
	"fmt"
	"go/ast"
	"go/types"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestNoGateReentry fails when a closure passed to the gate calls, directly
// or through other package functions, back into the gate.
func TestNoGateReentry(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedFiles | packages.NeedName,
	}
	pkgs, err := packages.Load(cfg, netcdfPath)
	if err != nil {
		t.Fatalf("load package: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatal("package has errors")
	}

	var findings []string
	for _, pkg := range pkgs {
		gated := gatedFuncs(pkg)
		runs := runners(pkg)
		if len(gated) == 0 || len(runs) == 0 {
			t.Fatalf("%s: no function reaches the gate; the check is not seeing the code", pkg.PkgPath)
		}
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				if fn := callee(pkg.TypesInfo, call.Fun); fn == nil || !(isGateDo(fn) || runs[fn]) {
					return true
				}
				for _, arg := range call.Args {
					lit, ok := arg.(*ast.FuncLit)
					if !ok {
						continue
					}
					ast.Inspect(lit.Body, func(n ast.Node) bool {
						inner, ok := n.(*ast.CallExpr)
						if ok && entersGate(pkg.TypesInfo, inner, gated) {
							findings = append(findings, fmt.Sprintf("%s: gate entered from inside a gated closure",
								pkg.Fset.Position(inner.Pos())))
						}
						return true
					})
				}
				return true
			})
		}
	}
	if len(findings) > 0 {
		sort.Strings(findings)
		t.Fatalf("lock reentry policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func funcBodies(pkg *packages.Package) map[*types.Func]*ast.FuncDecl {
	decls := map[*types.Func]*ast.FuncDecl{}
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Body == nil {
				continue
			}
			if fn, ok := pkg.TypesInfo.Defs[fd.Name].(*types.Func); ok {
				decls[fn] = fd
			}
		}
	}
	return decls
}

// runners returns the functions of pkg that hand one of their function
// parameters to Gate.Do, directly or through another runner. Closures
// passed to them run with the gate held.
func runners(pkg *packages.Package) map[*types.Func]bool {
	decls := funcBodies(pkg)
	runs := map[*types.Func]bool{}
	for changed := true; changed; {
		changed = false
		for fn, fd := range decls {
			if runs[fn] {
				continue
			}
			params := map[types.Object]bool{}
			for _, field := range fd.Type.Params.List {
				for _, name := range field.Names {
					params[pkg.TypesInfo.Defs[name]] = true
				}
			}
			found := false
			ast.Inspect(fd.Body, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return !found
				}
				target := callee(pkg.TypesInfo, call.Fun)
				if target == nil || !(isGateDo(target) || runs[target]) {
					return true
				}
				for _, arg := range call.Args {
					if id, ok := arg.(*ast.Ident); ok && params[pkg.TypesInfo.Uses[id]] {
						found = true
					}
				}
				return !found
			})
			if found {
				runs[fn] = true
				changed = true
			}
		}
	}
	return runs
}

// gatedFuncs returns the functions of pkg that acquire the gate, directly
// or through other functions of pkg.
func gatedFuncs(pkg *packages.Package) map[*types.Func]bool {
	decls := funcBodies(pkg)
	gated := map[*types.Func]bool{}
	for changed := true; changed; {
		changed = false
		for fn, fd := range decls {
			if gated[fn] {
				continue
			}
			found := false
			ast.Inspect(fd.Body, func(n ast.Node) bool {
				if call, ok := n.(*ast.CallExpr); ok && entersGate(pkg.TypesInfo, call, gated) {
					found = true
				}
				return !found
			})
			if found {
				gated[fn] = true
				changed = true
			}
		}
	}
	return gated
}

// entersGate reports whether call is Gate.Do or a call of a gated function.
func entersGate(info *types.Info, call *ast.CallExpr, gated map[*types.Func]bool) bool {
	fn := callee(info, call.Fun)
	if fn == nil {
		return false
	}
	return isGateDo(fn) || gated[fn]
}

func callee(info *types.Info, fun ast.Expr) *types.Func {
	switch f := fun.(type) {
	case *ast.ParenExpr:
		return callee(info, f.X)
	case *ast.IndexExpr:
		return callee(info, f.X)
	case *ast.IndexListExpr:
		return callee(info, f.X)
	case *ast.Ident:
		fn, _ := info.Uses[f].(*types.Func)
		return origin(fn)
	case *ast.SelectorExpr:
		fn, _ := info.Uses[f.Sel].(*types.Func)
		return origin(fn)
	}
	return nil
}

func origin(fn *types.Func) *types.Func {
	if fn == nil {
		return nil
	}
	return fn.Origin()
}

func isGateDo(fn *types.Func) bool {
	if fn.Name() != "Do" || fn.Pkg() == nil || fn.Pkg().Path() != gatePath {
		return false
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return false
	}
	recv := sig.Recv().Type()
	if p, ok := recv.(*types.Pointer); ok {
		recv = p.Elem()
	}
	named, ok := recv.(*types.Named)
	return ok && named.Obj().Name() == "Gate"
}
