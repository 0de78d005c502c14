package parser

import (
	"fmt"

	"github.com/spark-lang/spark/internal/ast"
	"github.com/spark-lang/spark/internal/position"
)

// SymbolTable is the registry of declaration signatures built by the first
// pass. It is sealed before the second pass and read-only afterwards.
type SymbolTable struct {
	Functions  map[string]*ast.FunctionDeclaration
	Types      map[string]*ast.TypeDeclaration
	Interfaces map[string]*ast.InterfaceDeclaration
	Modules    map[string]*ast.ModuleDeclaration

	sealed bool
}

// NewSymbolTable creates an empty, unsealed table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Functions:  make(map[string]*ast.FunctionDeclaration),
		Types:      make(map[string]*ast.TypeDeclaration),
		Interfaces: make(map[string]*ast.InterfaceDeclaration),
		Modules:    make(map[string]*ast.ModuleDeclaration),
	}
}

// Warning records a non-fatal observation from the first pass.
type Warning struct {
	Pos     position.Position
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Pos, w.Message)
}

// Declare registers decl under its name. A later declaration replaces an
// earlier one of the same kind and name; replaced reports whether that
// happened.
func (st *SymbolTable) Declare(decl ast.Declaration) (replaced bool, err error) {
	if st.sealed {
		return false, ErrSealed
	}
	switch d := decl.(type) {
	case *ast.FunctionDeclaration:
		_, replaced = st.Functions[d.Name]
		st.Functions[d.Name] = d
	case *ast.TypeDeclaration:
		_, replaced = st.Types[d.Name]
		st.Types[d.Name] = d
	case *ast.InterfaceDeclaration:
		_, replaced = st.Interfaces[d.Name]
		st.Interfaces[d.Name] = d
	case *ast.ModuleDeclaration:
		_, replaced = st.Modules[d.Name]
		st.Modules[d.Name] = d
	default:
		return false, fmt.Errorf("cannot declare %T", decl)
	}
	return replaced, nil
}

// Seal forbids further declarations.
func (st *SymbolTable) Seal()          { st.sealed = true }
func (st *SymbolTable) IsSealed() bool { return st.sealed }

// IsType reports whether name was collected as a type declaration.
// Interfaces do not count.
func (st *SymbolTable) IsType(name string) bool {
	_, ok := st.Types[name]
	return ok
}

// Len returns the number of registered declarations.
func (st *SymbolTable) Len() int {
	return len(st.Functions) + len(st.Types) + len(st.Interfaces) + len(st.Modules)
}
