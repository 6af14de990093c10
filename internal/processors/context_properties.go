package processors

import (
	"github.com/analyticskit/go-analytics/internal/contextprops"
	"github.com/analyticskit/go-analytics/model"
)

// ContextProperties adds the registered context properties that apply to each event. Properties
// the event already has are not replaced. Reading consumes non-persistent bundles.
type ContextProperties struct {
	storage *contextprops.Storage
}

// NewContextProperties creates a ContextProperties processor.
func NewContextProperties(storage *contextprops.Storage) *ContextProperties {
	return &ContextProperties{storage: storage}
}

func (p *ContextProperties) Process(events []model.Event) []model.Event {
	return mapEvents(events, func(e model.Event) model.Event {
		var add []model.Property
		for _, prop := range p.storage.GetByEventName(e.Name()) {
			if !e.HasProperty(prop.Name()) {
				add = append(add, prop)
			}
		}
		if len(add) == 0 {
			return e
		}
		return withProperties(e, add...)
	})
}
