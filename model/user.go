package model

// User identifies the logged-in user of the host application.
type User struct {
	ID             string
	Category       string
	ShouldBeStored bool
}

// NewUser creates a User that will be persisted across application restarts.
func NewUser(id, category string) User {
	return User{ID: id, Category: category, ShouldBeStored: true}
}
