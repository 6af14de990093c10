package analytics

import (
	"runtime"

	"github.com/analyticskit/go-analytics/media"
	"github.com/analyticskit/go-analytics/model"
)

const maxPanicFrames = 64

// SetScreenName sets the name of the screen the user is on. It is added as the page property of the
// next page.display event and reported with crashes.
func (c *Client) SetScreenName(name string) {
	c.screenLock.Lock()
	c.screenName = name
	c.screenLock.Unlock()
	c.contextProps.DeleteByKey(model.Page)
	if name != "" {
		c.contextProps.Add(model.NewContextProperty(
			[]model.Property{model.NewProperty(model.Page, model.String(name))},
			[]string{model.EventNamePageDisplay},
			false,
		))
	}
}

// ScreenName returns the value last passed to SetScreenName.
func (c *Client) ScreenName() string {
	c.screenLock.RLock()
	defer c.screenLock.RUnlock()
	return c.screenName
}

// AddContextProperty adds properties to future events, as described by model.NewContextProperty.
func (c *Client) AddContextProperty(cp model.ContextProperty) {
	c.contextProps.Add(cp)
}

// DeleteContextProperty removes a property from every context property bundle.
func (c *Client) DeleteContextProperty(name model.PropertyName) {
	c.contextProps.DeleteByKey(name)
}

// ClearContextProperties removes all context properties.
func (c *Client) ClearContextProperties() {
	c.contextProps.Clear()
}

// SetUser sets the current user. If user.ShouldBeStored is true, the user is remembered across
// runs until the user storage lifetime passes.
func (c *Client) SetUser(user model.User) {
	c.users.SetUser(&user)
}

// ClearUser removes the current user, including the stored one.
func (c *Client) ClearUser() {
	c.users.SetUser(nil)
}

// User returns the current user, or nil.
func (c *Client) User() *model.User {
	return c.users.User()
}

// UserRecognized returns true if the current user was restored from a previous run.
func (c *Client) UserRecognized() bool {
	return c.users.Recognized()
}

// SetCustomVisitorID sets the visitor ID used when Config.VisitorIDType is model.VisitorIDCustom.
func (c *Client) SetCustomVisitorID(id string) {
	c.customID.Set(id)
}

// VisitorID returns the visitor ID that would be sent now. It returns false if there is none, which
// happens for a custom visitor ID that was never set.
func (c *Client) VisitorID() (string, bool) {
	return c.visitorIDs.VisitorID()
}

// SetPrivacyMode switches to the named privacy mode. It returns an error wrapping
// ErrUnknownPrivacyMode if there is no such mode.
func (c *Client) SetPrivacyMode(name string) error {
	if err := c.modes.SetMode(name); err != nil {
		return err
	}
	c.loggers.Debugf("Privacy mode set to %q", name)
	return nil
}

// PrivacyMode returns the current privacy mode.
func (c *Client) PrivacyMode() model.PrivacyMode {
	return c.modes.CurrentMode()
}

// PrivacyModes returns every registered privacy mode.
func (c *Client) PrivacyModes() []model.PrivacyMode {
	return c.modes.Modes()
}

// CapturePanic records a panic so that it is reported with the first event of the next run, then
// panics again with the same value. It must be deferred directly:
//
//	defer client.CapturePanic()
func (c *Client) CapturePanic() {
	r := recover()
	if r == nil {
		return
	}
	pcs := make([]uintptr, maxPanicFrames)
	n := runtime.Callers(2, pcs)
	c.crash.Record(r, pcs[:n])
	panic(r)
}

// NewMediaHelper creates a media.Helper whose events are sent through this client. An empty
// mediaSessionID generates a new one.
func (c *Client) NewMediaHelper(contentID, mediaSessionID string) (*media.Helper, error) {
	return media.NewHelper(media.Params{
		ContentID: contentID,
		SessionID: mediaSessionID,
		Sender:    c,
		Clock:     c.config.Clock,
	})
}
