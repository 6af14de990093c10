package model

import "fmt"

// PropertyType is an explicit wire type for a property, overriding the type the collector would
// otherwise infer from the JSON value.
type PropertyType string

// Wire type prefixes understood by the collector.
const (
	TypeBool         PropertyType = "b"
	TypeInteger      PropertyType = "n"
	TypeFloat        PropertyType = "f"
	TypeString       PropertyType = "s"
	TypeDate         PropertyType = "d"
	TypeStringArray  PropertyType = "a:s"
	TypeIntegerArray PropertyType = "a:n"
	TypeFloatArray   PropertyType = "a:f"
)

// Property is a single named value attached to an Event.
//
// Two properties are considered the same property if their names are equal ignoring case; an
// Event never contains two properties with the same name.
type Property struct {
	name      PropertyName
	value     Value
	forceType PropertyType
}

// NewProperty creates a property. It panics if name is AnyPropertyName, since the wildcard can only
// be used for filtering.
func NewProperty(name PropertyName, value Value) Property {
	if name.IsAny() || name.key == "" {
		panic(fmt.Sprintf("invalid name for a property value: %q", name.key))
	}
	return Property{name: name, value: value}
}

// NewTypedProperty is like NewProperty, but also sets an explicit wire type.
func NewTypedProperty(name PropertyName, value Value, forceType PropertyType) Property {
	p := NewProperty(name, value)
	p.forceType = forceType
	return p
}

// Name returns the property name.
func (p Property) Name() PropertyName { return p.name }

// Value returns the property value.
func (p Property) Value() Value { return p.value }

// ForceType returns the explicit wire type, or "" if the type is inferred.
func (p Property) ForceType() PropertyType { return p.forceType }

// WireKey returns the JSON key used for this property when sending it: the lowercased name,
// prefixed with "type:" if an explicit type was set.
func (p Property) WireKey() string {
	if p.forceType == "" {
		return p.name.normalized()
	}
	return string(p.forceType) + ":" + p.name.normalized()
}

// String returns a simple string representation for debugging.
func (p Property) String() string {
	return fmt.Sprintf("%s(%s)", p.name.key, p.value.kind)
}
