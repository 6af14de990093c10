package interfaces

import "github.com/analyticskit/go-analytics/model"

// EventProcessor is one stage of the enrichment pipeline. It receives a batch of events and
// returns the batch to pass to the next stage, which may be shorter, longer or modified.
type EventProcessor interface {
	Process(events []model.Event) []model.Event
}

// EventProcessorFunc adapts a function to the EventProcessor interface.
type EventProcessorFunc func(events []model.Event) []model.Event

// Process calls f.
func (f EventProcessorFunc) Process(events []model.Event) []model.Event {
	return f(events)
}
