package processors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal"
	"github.com/analyticskit/go-analytics/internal/contextprops"
	"github.com/analyticskit/go-analytics/internal/session"
	"github.com/analyticskit/go-analytics/internal/sharedtest"
	"github.com/analyticskit/go-analytics/model"
)

var startTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func event(name string, props ...model.Property) model.Event {
	return model.NewEventBuilder(name).Properties(props...).MustBuild()
}

func valueOf(t *testing.T, e model.Event, name model.PropertyName) model.Value {
	p, ok := e.Property(name)
	require.True(t, ok, "missing property %s", name)
	return p.Value()
}

type appendProcessor struct{ suffix string }

func (a appendProcessor) Process(events []model.Event) []model.Event {
	return mapEvents(events, func(e model.Event) model.Event {
		return e.NewBuilder().Name(e.Name() + a.suffix).MustBuild()
	})
}

func TestGroupRunsProcessorsInOrder(t *testing.T) {
	g := NewGroup(appendProcessor{".a"}, appendProcessor{".b"})
	g.Insert(1, appendProcessor{".x"})
	g.Insert(99, appendProcessor{".z"})
	g.Append(appendProcessor{".end"})
	assert.Equal(t, 5, g.Len())

	out := g.Process([]model.Event{event("page")})
	require.Len(t, out, 1)
	assert.Equal(t, "page.a.x.b.z.end", out[0].Name())
}

type fakeFacts session.Facts

func (f fakeFacts) Facts() session.Facts { return session.Facts(f) }

func TestSessionProperties(t *testing.T) {
	facts := session.Facts{
		SessionID:                   "s-1",
		SessionCount:                4,
		SessionCountSinceUpdate:     1,
		FirstSessionDate:            time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local),
		FirstSessionDateAfterUpdate: time.Date(2024, 5, 3, 12, 0, 0, 0, time.Local),
		DaysSinceFirstSession:       5,
		DaysSinceUpdate:             3,
		DaysSinceLastSession:        1,
	}
	out := NewSession(fakeFacts(facts)).Process([]model.Event{event("page.display")})
	require.Len(t, out, 1)
	e := out[0]
	assert.False(t, valueOf(t, e, model.AppFirstSession).BoolValue())
	assert.True(t, valueOf(t, e, model.AppFirstSessionAfterUpdate).BoolValue())
	assert.Equal(t, int64(4), valueOf(t, e, model.AppSessionCount).Int64Value())
	assert.Equal(t, int64(20240501), valueOf(t, e, model.AppFirstSessionDate).Int64Value())
	assert.Equal(t, "s-1", valueOf(t, e, model.AppSessionID).StringValue())
	assert.Equal(t, int64(20240503), valueOf(t, e, model.AppFirstSessionDateAfterUpdate).Int64Value())
	assert.Equal(t, int64(3), valueOf(t, e, model.AppDaysSinceUpdate).Int64Value())

	facts.SessionCountSinceUpdate = 2
	e = NewSession(fakeFacts(facts)).Process([]model.Event{event("page.display")})[0]
	assert.False(t, e.HasProperty(model.AppSessionCountSinceUpdate))
	assert.False(t, e.HasProperty(model.AppDaysSinceUpdate))
}

func TestInternalProperties(t *testing.T) {
	device := sharedtest.NewFakeDeviceInfo()
	clock := sharedtest.NewFakeClock(startTime)

	e := NewInternalProperties(device, clock, model.OfflineStorageRequired).
		Process([]model.Event{event("page.display")})[0]
	assert.Equal(t, int64(1080), valueOf(t, e, model.DeviceScreenWidth).Int64Value())
	assert.Equal(t, "android 14", valueOf(t, e, model.OS).StringValue())
	assert.Equal(t, "WIFI", valueOf(t, e, model.ConnectionTypeName).StringValue())
	assert.Equal(t, startTime.Unix(), valueOf(t, e, model.DeviceTimestampUTC).Int64Value())
	assert.Equal(t, internal.SDKVersion, valueOf(t, e, model.EventCollectionVersion).StringValue())
	assert.Equal(t, "com.example.app", valueOf(t, e, model.AppID).StringValue())
	assert.Equal(t, "US", valueOf(t, e, model.BrowserLanguageLocal).StringValue())

	e = NewInternalProperties(device, clock, model.OfflineStorageAlways).
		Process([]model.Event{event("page.display")})[0]
	assert.Equal(t, "OFFLINE", valueOf(t, e, model.ConnectionTypeName).StringValue())

	device.SetAppInfo(nil)
	e = NewInternalProperties(device, clock, model.OfflineStorageRequired).
		Process([]model.Event{event("page.display")})[0]
	assert.False(t, e.HasProperty(model.AppID))
}

func TestEventPropertiesTakePrecedenceOverEnrichment(t *testing.T) {
	device := sharedtest.NewFakeDeviceInfo()
	e := NewInternalProperties(device, sharedtest.NewFakeClock(startTime), model.OfflineStorageRequired).
		Process([]model.Event{event("page.display",
			model.NewProperty(model.ConnectionTypeName, model.String("mine")))})[0]
	assert.Equal(t, "mine", valueOf(t, e, model.ConnectionTypeName).StringValue())
}

func TestContextProperties(t *testing.T) {
	storage := contextprops.NewStorage()
	custom := model.MustPropertyName("custom_prop")
	storage.Add(model.NewContextProperty([]model.Property{
		model.NewProperty(custom, model.String("context")),
		model.NewProperty(model.Page, model.String("context page")),
	}, []string{"page.*"}, false))

	out := NewContextProperties(storage).Process([]model.Event{
		event("click.action"),
		event("page.display", model.NewProperty(model.Page, model.String("home"))),
		event("page.display"),
	})
	require.Len(t, out, 3)
	assert.False(t, out[0].HasProperty(custom))
	assert.Equal(t, "context", valueOf(t, out[1], custom).StringValue())
	assert.Equal(t, "home", valueOf(t, out[1], model.Page).StringValue())
	assert.False(t, out[2].HasProperty(custom), "non-persistent bundle is consumed by the first match")
}

type fakeUsers struct {
	user       *model.User
	recognized bool
}

func (f fakeUsers) User() *model.User { return f.user }
func (f fakeUsers) Recognized() bool  { return f.recognized }

func TestUserProperties(t *testing.T) {
	in := []model.Event{event("page.display")}
	assert.Equal(t, in, NewUser(fakeUsers{}).Process(in))

	e := NewUser(fakeUsers{user: &model.User{ID: "u1", Category: "gold"}, recognized: true}).Process(in)[0]
	assert.Equal(t, "u1", valueOf(t, e, model.UserIDProperty).StringValue())
	assert.True(t, valueOf(t, e, model.UserRecognition).BoolValue())
	assert.Equal(t, "gold", valueOf(t, e, model.UserCategory).StringValue())

	e = NewUser(fakeUsers{user: &model.User{ID: "u1"}}).Process(in)[0]
	assert.False(t, e.HasProperty(model.UserCategory))
}

var _ interfaces.EventProcessor = (*Privacy)(nil)
