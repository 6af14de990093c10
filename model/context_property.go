package model

import "golang.org/x/exp/slices"

// AnyEventName is the event name pattern that matches every event.
const AnyEventName = "*"

// ContextProperty is a bundle of properties to be attached automatically to matching events.
type ContextProperty struct {
	properties []Property
	eventNames []string
	persistent bool
}

// NewContextProperty creates a context property bundle.
//
// eventNames are event name patterns (see the "*" wildcard rules on PrivacyMode); if it is empty,
// the bundle applies to every event. If persistent is false, the bundle is consumed by the first
// batch of events that it applies to.
func NewContextProperty(properties []Property, eventNames []string, persistent bool) ContextProperty {
	var set propertySet
	for _, p := range properties {
		set.add(p)
	}
	names := slices.Clone(eventNames)
	if len(names) == 0 {
		names = []string{AnyEventName}
	}
	return ContextProperty{properties: set.items, eventNames: names, persistent: persistent}
}

// Properties returns a copy of the bundle's properties.
func (c ContextProperty) Properties() []Property { return slices.Clone(c.properties) }

// EventNames returns a copy of the event name patterns the bundle applies to.
func (c ContextProperty) EventNames() []string { return slices.Clone(c.eventNames) }

// Persistent returns true if the bundle outlives the first matching batch.
func (c ContextProperty) Persistent() bool { return c.persistent }

// WithoutProperty returns a copy of the bundle with the named property removed.
func (c ContextProperty) WithoutProperty(name PropertyName) ContextProperty {
	ret := c
	ret.properties = make([]Property, 0, len(c.properties))
	for _, p := range c.properties {
		if !p.name.Equal(name) {
			ret.properties = append(ret.properties, p)
		}
	}
	return ret
}
