package crash

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analyticskit/go-analytics/internal/contextprops"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/internal/sharedtest"
	"github.com/analyticskit/go-analytics/model"
	"github.com/analyticskit/go-analytics/prefstore"
)

type reporterFixture struct {
	store   *prefstore.MemoryStore
	prefs   *prefs.Storage
	context *contextprops.Storage
}

func newReporterFixture(store *prefstore.MemoryStore) *reporterFixture {
	return &reporterFixture{
		store:   store,
		prefs:   prefs.NewStorage(store, sharedtest.NewTestLoggers()),
		context: contextprops.NewStorage(),
	}
}

func (f *reporterFixture) reporter(enabled bool) *Reporter {
	return NewReporter(ReporterParams{
		Prefs:         f.prefs,
		Context:       f.context,
		ScreenName:    func() string { return "checkout" },
		PackagePrefix: "github.com/analyticskit/go-analytics/internal/crash",
		Enabled:       enabled,
		Loggers:       sharedtest.NewTestLoggers(),
	})
}

func crashValues(props []model.Property) map[string]string {
	ret := make(map[string]string)
	for _, p := range props {
		ret[p.Name().Key()] = p.Value().StringValue()
	}
	return ret
}

func callers() []uintptr {
	pcs := make([]uintptr, 32)
	return pcs[:runtime.Callers(1, pcs)]
}

func TestRecordAddsContextAndPersists(t *testing.T) {
	f := newReporterFixture(prefstore.NewMemoryStore())
	f.reporter(true).Record(errors.New("boom"), callers())

	values := crashValues(f.context.GetByEventName(model.EventNamePageDisplay))
	assert.Equal(t, "*errors.errorString", values["app_crash"])
	assert.Equal(t, "checkout", values["app_crash_screen"])
	assert.Equal(t, "github.com/analyticskit/go-analytics/internal/crash.callers", values["app_crash_class"])

	_, saved := f.store.Get(prefs.KeyCrashInfo)
	assert.True(t, saved)
}

func TestWrappedErrorReportsCause(t *testing.T) {
	assert.Equal(t, "*fs.PathError", panicType(fmt.Errorf("read: %w", &fs.PathError{})))
	assert.Equal(t, "string", panicType("boom"))
	assert.Equal(t, "int", panicType(3))
}

func TestDisabledReporterRecordsNothing(t *testing.T) {
	f := newReporterFixture(prefstore.NewMemoryStore())
	f.reporter(false).Record("boom", callers())

	assert.Equal(t, 0, f.context.Len())
	_, saved := f.store.Get(prefs.KeyCrashInfo)
	assert.False(t, saved)
}

func TestUnknownPackagePrefixGivesEmptyClass(t *testing.T) {
	f := newReporterFixture(prefstore.NewMemoryStore())
	r := f.reporter(true)
	r.params.PackagePrefix = "example.com/other"
	r.Record("boom", callers())

	values := crashValues(f.context.GetByEventName("*"))
	assert.Equal(t, "", values["app_crash_class"])
}

func TestLoadPreviousReportsCrashOnce(t *testing.T) {
	store := prefstore.NewMemoryStore()
	newReporterFixture(store).reporter(true).Record("boom", callers())

	next := newReporterFixture(store)
	next.reporter(true).LoadPrevious()
	values := crashValues(next.context.GetByEventName(model.EventNamePageDisplay))
	assert.Equal(t, "string", values["app_crash"])
	assert.Equal(t, 0, next.context.Len())

	_, saved := store.Get(prefs.KeyCrashInfo)
	assert.False(t, saved)

	third := newReporterFixture(store)
	third.reporter(true).LoadPrevious()
	assert.Equal(t, 0, third.context.Len())
}

func TestLoadPreviousIgnoresMalformedData(t *testing.T) {
	store := prefstore.NewMemoryStore()
	require.NoError(t, store.Set(prefs.KeyCrashInfo, "not json"))
	f := newReporterFixture(store)
	f.reporter(true).LoadPrevious()
	assert.Equal(t, 0, f.context.Len())
}
