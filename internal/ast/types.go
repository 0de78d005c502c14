package ast

import "strings"

// Type is the closed set of type references: *BasicType, *GenericType and
// *UserDefinedType. The unexported marker keeps other packages from adding
// variants.
type Type interface {
	String() string
	// AssignableFrom reports whether a value of type other may be stored in
	// a location of this type.
	AssignableFrom(other Type) bool
	typeNode()
}

// BasicType is a primitive or unresolved named type
type BasicType struct {
	Name string
}

// GenericType is an instantiation such as List<int32>
type GenericType struct {
	BaseName       string
	TypeParameters []Type
}

// UserDefinedType names a type declared in the program
type UserDefinedType struct {
	Name string
}

// Void is the return type of functions declared without one.
func Void() *BasicType { return &BasicType{Name: "void"} }

func (b *BasicType) String() string       { return b.Name }
func (u *UserDefinedType) String() string { return u.Name }
func (g *GenericType) String() string {
	params := make([]string, len(g.TypeParameters))
	for i, p := range g.TypeParameters {
		params[i] = p.String()
	}
	return g.BaseName + "<" + strings.Join(params, ", ") + ">"
}

func (b *BasicType) AssignableFrom(other Type) bool       { return IsAssignable(b, other) }
func (g *GenericType) AssignableFrom(other Type) bool     { return IsAssignable(g, other) }
func (u *UserDefinedType) AssignableFrom(other Type) bool { return IsAssignable(u, other) }

func (*BasicType) typeNode()       {}
func (*GenericType) typeNode()     {}
func (*UserDefinedType) typeNode() {}

// IsAssignable reports whether src may be assigned to dst. Assignability is
// nominal within a variant: basic and user-defined types match by name, and
// generic types match by base name with pairwise assignable parameters of
// equal arity. Different variants never match.
func IsAssignable(dst, src Type) bool {
	switch d := dst.(type) {
	case *BasicType:
		s, ok := src.(*BasicType)
		return ok && d.Name == s.Name
	case *UserDefinedType:
		s, ok := src.(*UserDefinedType)
		return ok && d.Name == s.Name
	case *GenericType:
		s, ok := src.(*GenericType)
		if !ok || d.BaseName != s.BaseName || len(d.TypeParameters) != len(s.TypeParameters) {
			return false
		}
		for i := range d.TypeParameters {
			if !IsAssignable(d.TypeParameters[i], s.TypeParameters[i]) {
				return false
			}
		}
		return true
	}
	return false
}
