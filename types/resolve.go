package types

import "opossumdb/perrors"

// Visitor is invoked by ResolveDataType with exactly one of its methods
// called, carrying the compile-time type parameter as a concrete method
// rather than a runtime value - the Go substitute for the source's
// resolve_data_type(name, f) templated-lambda dispatch.
type Visitor interface {
	VisitInt32()
	VisitInt64()
	VisitFloat32()
	VisitFloat64()
	VisitString()
}

// ResolveDataType dispatches on typeName, which must be one of the five
// closed-set names, and invokes the matching method of v. It fails with
// UnknownType for any other string.
func ResolveDataType(typeName string, v Visitor) error {
	switch typeName {
	case "int":
		v.VisitInt32()
	case "long":
		v.VisitInt64()
	case "float":
		v.VisitFloat32()
	case "double":
		v.VisitFloat64()
	case "string":
		v.VisitString()
	default:
		return perrors.NewErrorf(perrors.UnknownType, "unknown type name %q", typeName)
	}
	return nil
}
