package model

import (
	"errors"
	"strings"
)

// Names of events that the library itself knows about.
const (
	EventNameClickAction     = "click.action"
	EventNameClickDownload   = "click.download"
	EventNameClickExit       = "click.exit"
	EventNameClickNavigation = "click.navigation"
	EventNamePageDisplay     = "page.display"
)

// ErrBlankEventName is returned by EventBuilder.Build when the event name is empty or whitespace.
var ErrBlankEventName = errors.New("event name can't be blank")

// Event is an immutable analytics event: a name plus an ordered set of properties.
//
// Use NewEventBuilder to create an event, and Event.NewBuilder to derive a modified copy.
type Event struct {
	name       string
	properties propertySet
}

// Name returns the event name.
func (e Event) Name() string { return e.name }

// Properties returns a copy of the event's properties, in the order they were added.
func (e Event) Properties() []Property { return e.properties.list() }

// Property returns the property with the given name, if any. The lookup is case-insensitive.
func (e Event) Property(name PropertyName) (Property, bool) {
	return e.properties.get(name)
}

// HasProperty returns true if the event has a property with the given name.
func (e Event) HasProperty(name PropertyName) bool {
	_, ok := e.properties.get(name)
	return ok
}

// NewBuilder returns a builder initialized with this event's name and properties.
func (e Event) NewBuilder() *EventBuilder {
	return &EventBuilder{name: e.name, properties: e.properties.clone()}
}

// EventBuilder accumulates the name and properties of an Event.
//
// Properties are added only if no property with the same name (ignoring case) was added before,
// so the first value given for a name is the one that is kept.
type EventBuilder struct {
	name       string
	properties propertySet
}

// NewEventBuilder creates a builder for an event with the given name.
func NewEventBuilder(name string) *EventBuilder {
	return &EventBuilder{name: name}
}

// Name changes the event name.
func (b *EventBuilder) Name(name string) *EventBuilder {
	b.name = name
	return b
}

// Properties adds properties whose names are not already present.
func (b *EventBuilder) Properties(props ...Property) *EventBuilder {
	for _, p := range props {
		b.properties.add(p)
	}
	return b
}

// Build creates the Event. It returns ErrBlankEventName if the name is blank.
func (b *EventBuilder) Build() (Event, error) {
	if strings.TrimSpace(b.name) == "" {
		return Event{}, ErrBlankEventName
	}
	return Event{name: b.name, properties: b.properties.clone()}, nil
}

// MustBuild is like Build but panics on a blank name.
func (b *EventBuilder) MustBuild() Event {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}

type propertySet struct {
	items []Property
	index map[string]int
}

func (s *propertySet) add(p Property) bool {
	key := p.name.normalized()
	if _, ok := s.index[key]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, p)
	return true
}

func (s propertySet) get(name PropertyName) (Property, bool) {
	if i, ok := s.index[name.normalized()]; ok {
		return s.items[i], true
	}
	return Property{}, false
}

func (s propertySet) list() []Property {
	ret := make([]Property, len(s.items))
	copy(ret, s.items)
	return ret
}

func (s propertySet) clone() propertySet {
	ret := propertySet{items: make([]Property, len(s.items)), index: make(map[string]int, len(s.index))}
	copy(ret.items, s.items)
	for k, v := range s.index {
		ret.index[k] = v
	}
	return ret
}
