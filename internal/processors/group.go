// Package processors contains the stages of the event enrichment pipeline.
package processors

import (
	"sync"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/model"
)

// Group runs a list of processors in order, passing each one the output of the previous one.
//
// Processors can be inserted after construction; Process always sees a consistent snapshot.
type Group struct {
	processors []interfaces.EventProcessor
	lock       sync.RWMutex
}

// NewGroup creates a Group.
func NewGroup(processors ...interfaces.EventProcessor) *Group {
	return &Group{processors: append([]interfaces.EventProcessor(nil), processors...)}
}

// Process implements interfaces.EventProcessor.
func (g *Group) Process(events []model.Event) []model.Event {
	g.lock.RLock()
	processors := g.processors
	g.lock.RUnlock()
	for _, p := range processors {
		events = p.Process(events)
	}
	return events
}

// Insert adds a processor before the one at index i. An index past the end appends.
func (g *Group) Insert(i int, p interfaces.EventProcessor) {
	g.lock.Lock()
	defer g.lock.Unlock()
	if i > len(g.processors) {
		i = len(g.processors)
	}
	if i < 0 {
		i = 0
	}
	updated := make([]interfaces.EventProcessor, 0, len(g.processors)+1)
	updated = append(updated, g.processors[:i]...)
	updated = append(updated, p)
	updated = append(updated, g.processors[i:]...)
	g.processors = updated
}

// Append adds a processor at the end.
func (g *Group) Append(p interfaces.EventProcessor) {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.processors = append(g.processors[:len(g.processors):len(g.processors)], p)
}

// Len returns the number of processors.
func (g *Group) Len() int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return len(g.processors)
}

func mapEvents(events []model.Event, fn func(model.Event) model.Event) []model.Event {
	ret := make([]model.Event, 0, len(events))
	for _, e := range events {
		ret = append(ret, fn(e))
	}
	return ret
}

func withProperties(e model.Event, props ...model.Property) model.Event {
	return e.NewBuilder().Properties(props...).MustBuild()
}
