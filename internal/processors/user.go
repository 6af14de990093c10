package processors

import (
	"github.com/analyticskit/go-analytics/model"
)

// UserSource returns the current user.
type UserSource interface {
	User() *model.User
	Recognized() bool
}

// User adds the user_* properties when there is a current user.
type User struct {
	source UserSource
}

// NewUser creates a User processor.
func NewUser(source UserSource) *User {
	return &User{source: source}
}

func (p *User) Process(events []model.Event) []model.Event {
	u := p.source.User()
	if u == nil {
		return events
	}
	props := []model.Property{
		model.NewProperty(model.UserIDProperty, model.String(u.ID)),
		model.NewProperty(model.UserRecognition, model.Bool(p.source.Recognized())),
	}
	if u.Category != "" {
		props = append(props, model.NewProperty(model.UserCategory, model.String(u.Category)))
	}
	return mapEvents(events, func(e model.Event) model.Event {
		return withProperties(e, props...)
	})
}
