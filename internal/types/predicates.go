package types

// IsNumeric reports whether t is Int or Real.
func IsNumeric(t Type) bool {
	return t == Int || t == Real
}

// IsOrdered reports whether values of type t can be compared with < <= > >=.
func IsOrdered(t Type) bool {
	switch t {
	case Int, Real, String, Char:
		return true
	}
	return false
}

// IsValue reports whether t describes a value (anything but Unset, Void and Error).
func IsValue(t Type) bool {
	return t > Error && t < typeCount
}

// Coercible reports whether a value of type from may be used where a value of
// type to is required, either unchanged or through an implicit cast.
//
// The conversions are directional:
//
//	integer -> real
//	char    -> integer
//	char    -> string
func Coercible(from, to Type) bool {
	if from == to {
		return true
	}
	switch {
	case from == Int && to == Real:
		return true
	case from == Char && to == Int:
		return true
	case from == Char && to == String:
		return true
	}
	return false
}

// NeedsCast reports whether using a from value as a to value requires an
// explicit cast node. It is false for identical types and for pairs that are
// not coercible at all.
func NeedsCast(from, to Type) bool {
	return from != to && Coercible(from, to)
}
