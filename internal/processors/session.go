package processors

import (
	"github.com/analyticskit/go-analytics/internal/session"
	"github.com/analyticskit/go-analytics/model"
)

// SessionFacts returns the current session state.
type SessionFacts interface {
	Facts() session.Facts
}

// Session adds the app_* session properties.
type Session struct {
	source SessionFacts
}

// NewSession creates a Session processor.
func NewSession(source SessionFacts) *Session {
	return &Session{source: source}
}

func (p *Session) Process(events []model.Event) []model.Event {
	f := p.source.Facts()
	props := []model.Property{
		model.NewProperty(model.AppFirstSession, model.Bool(f.IsFirstSession())),
		model.NewProperty(model.AppFirstSessionAfterUpdate, model.Bool(f.IsFirstSessionAfterUpdate())),
		model.NewProperty(model.AppSessionCount, model.Long(f.SessionCount)),
		model.NewProperty(model.AppDaysSinceLastSession, model.Long(f.DaysSinceLastSession)),
		model.NewProperty(model.AppDaysSinceFirstSession, model.Long(f.DaysSinceFirstSession)),
		model.NewProperty(model.AppFirstSessionDate, model.Int(session.ReportDate(f.FirstSessionDate))),
		model.NewProperty(model.AppSessionID, model.String(f.SessionID)),
	}
	if f.IsFirstSessionAfterUpdate() {
		props = append(props,
			model.NewProperty(model.AppSessionCountSinceUpdate, model.Long(f.SessionCountSinceUpdate)),
			model.NewProperty(model.AppFirstSessionDateAfterUpdate,
				model.Int(session.ReportDate(f.FirstSessionDateAfterUpdate))),
			model.NewProperty(model.AppDaysSinceUpdate, model.Long(f.DaysSinceUpdate)),
		)
	}
	return mapEvents(events, func(e model.Event) model.Event {
		return withProperties(e, props...)
	})
}
