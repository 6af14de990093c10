package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/analyticskit/go-analytics/components"
	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal"
	"github.com/analyticskit/go-analytics/internal/contextprops"
	"github.com/analyticskit/go-analytics/internal/crash"
	"github.com/analyticskit/go-analytics/internal/delivery"
	"github.com/analyticskit/go-analytics/internal/eventstore"
	"github.com/analyticskit/go-analytics/internal/prefs"
	"github.com/analyticskit/go-analytics/internal/privacy"
	"github.com/analyticskit/go-analytics/internal/processors"
	"github.com/analyticskit/go-analytics/internal/scheduler"
	"github.com/analyticskit/go-analytics/internal/session"
	"github.com/analyticskit/go-analytics/internal/users"
	"github.com/analyticskit/go-analytics/internal/visitorid"
	"github.com/analyticskit/go-analytics/model"
	"github.com/analyticskit/go-analytics/prefstore"
)

// Version is the library version.
const Version = internal.SDKVersion

const logHTTPProperty = "debug.analytics.http"

// Client is the analytics client. Create it with NewClient; its methods are safe for concurrent use.
//
// Events are processed on a single background goroutine, in the order they were sent.
type Client struct {
	config       Config
	loggers      ldlog.Loggers
	worker       *scheduler.Worker
	fileStore    *prefstore.FileStore
	modes        *privacy.ModesStorage
	sessions     *session.Storage
	lifecycle    *session.Lifecycle
	users        *users.Storage
	contextProps *contextprops.Storage
	customID     *visitorid.CustomSource
	visitorIDs   *visitorid.Provider
	customGroup  *processors.Group
	pipeline     *processors.Group
	privacy      *processors.Privacy
	store        *eventstore.Store
	sendTask     *delivery.SendTask
	crash        *crash.Reporter
	listeners    *internal.Broadcaster[[]model.Event]
	screenName   string
	screenLock   sync.RWMutex
	closeOnce    sync.Once
}

// NewClient creates a Client and restores the state saved by previous runs.
func NewClient(config Config) (*Client, error) {
	if config.CollectDomain == "" && config.URLProvider == nil {
		return nil, ErrMissingCollectDomain
	}

	loggingFactory := config.Logging
	if loggingFactory == nil {
		loggingFactory = components.Logging()
	}
	loggingConfig := loggingFactory.CreateLoggingConfiguration()
	loggers := loggingConfig.Loggers
	loggers.SetPrefix("Analytics:")
	loggers.Infof("Starting analytics client %s", Version)
	loggers.Debugf("Configuration: %s", config.Describe().JSONString())

	clock := config.Clock
	if clock == nil {
		clock = interfaces.SystemClock{}
	}
	hooks := config.PlatformHooks
	if hooks == nil {
		hooks = interfaces.NoPlatformHooks{}
	}
	device := config.DeviceInfo
	if device == nil {
		device = components.HostDeviceInfo(nil)
	}

	httpFactory := config.HTTP
	if httpFactory == nil {
		httpFactory = components.HTTPConfiguration()
	}
	httpConfig, err := httpFactory.CreateHTTPConfiguration()
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP configuration: %w", err)
	}

	c := &Client{config: config, loggers: loggers}
	success := false
	defer func() {
		if !success {
			c.closeResources()
		}
	}()

	preferences := config.Preferences
	if preferences == nil {
		if config.PreferencesFile != "" {
			if c.fileStore, err = prefstore.NewFileStore(config.PreferencesFile, loggers); err != nil {
				return nil, err
			}
			if err := c.fileStore.Watch(); err != nil {
				loggers.Warnf("Changes to %s made by other processes will not be seen: %s", config.PreferencesFile, err)
			}
			preferences = c.fileStore
		} else {
			loggers.Info("No preference store configured; visitor and session state will not be kept across runs")
			preferences = prefstore.NewMemoryStore()
		}
	}
	storage := prefs.NewStorage(preferences, loggers)

	c.modes, err = privacy.NewModesStorage(privacy.ModesStorageParams{
		CustomModes:     config.CustomPrivacyModes,
		DefaultModeName: config.DefaultPrivacyMode,
		StorageLifetime: lifetime(config.PrivacyStorageLifetimeDays, DefaultPrivacyStorageLifetimeDays),
		Prefs:           storage,
		Clock:           clock,
		Loggers:         loggers,
	})
	if err != nil {
		return nil, err
	}
	c.modes.CurrentMode()

	c.sessions = session.NewStorage(storage, device, clock)
	c.lifecycle = session.NewLifecycle(config.sessionBackgroundDuration(), clock, c.sessions.NewSession)
	c.users = users.NewStorage(users.StorageParams{
		Prefs:    storage,
		Lifetime: lifetime(config.UserStorageLifetimeDays, DefaultUserStorageLifetimeDays),
		Clock:    clock,
		Loggers:  loggers,
	})
	c.contextProps = contextprops.NewStorage()

	c.customID = &visitorid.CustomSource{}
	uuidSource := visitorid.NewUUIDSource(storage,
		lifetime(config.VisitorStorageLifetimeDays, DefaultVisitorStorageLifetimeDays),
		config.visitorStorageMode(), clock)
	google := visitorid.NewAdvertisingSource("Google", config.AdvertisingID, loggers)
	huawei := visitorid.NewAdvertisingSource("Huawei", config.HuaweiAdvertisingID, loggers)
	c.visitorIDs = visitorid.NewProvider(visitorid.ProviderParams{
		Modes: c.modes,
		Type:  config.visitorIDType(),
		Sources: map[model.VisitorIDType]visitorid.Source{
			model.VisitorIDAdvertising:       visitorid.FirstOf(google, huawei),
			model.VisitorIDGoogleAdvertising: google,
			model.VisitorIDHuaweiAdvertising: huawei,
			model.VisitorIDUUID:              uuidSource,
			model.VisitorIDCustom:            c.customID,
		},
		Fallback:                uuidSource,
		IgnoreLimitedAdTracking: config.IgnoreLimitedAdTracking,
	})

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = ":memory:"
	}
	c.store, err = eventstore.Open(dbPath, eventstore.StoreParams{
		Encoder: config.DataEncoder,
		Clock:   clock,
		Loggers: loggers,
	})
	if err != nil {
		return nil, err
	}

	offlineMode := config.offlineStorageMode()
	c.customGroup = processors.NewGroup(config.CustomEventProcessors...)
	c.privacy = processors.NewPrivacy(c.modes, config.SuppressEventsWhenOptOut, loggers)
	c.pipeline = processors.NewGroup(
		processors.NewSession(c.sessions),
		processors.NewInternalProperties(device, clock, offlineMode),
		processors.NewContextProperties(c.contextProps),
		processors.NewUser(c.users),
		c.customGroup,
		c.privacy,
	)

	urlProvider := config.URLProvider
	if urlProvider == nil {
		urlProvider = components.StaticURLProvider(config.reportURL())
	}
	logPayloads := loggingConfig.LogEventPayloads
	if v, ok := hooks.SystemProperty(logHTTPProperty); ok && v == "true" {
		logPayloads = true
	}
	c.sendTask = delivery.NewSendTask(delivery.Params{
		Queue:              c.store,
		HTTPClient:         httpConfig.CreateHTTPClient(),
		Headers:            httpConfig.DefaultHeaders,
		URLProvider:        urlProvider,
		CustomHTTPData:     config.CustomHTTPData,
		VisitorIDs:         c.visitorIDs,
		Device:             device,
		StorageMode:        offlineMode,
		EventsLifetimeDays: daysOr(config.EventsOfflineStorageLifetimeDays, DefaultEventsOfflineStorageLifetimeDays),
		LogPayloads:        logPayloads,
		Loggers:            loggers,
	})

	c.crash = crash.NewReporter(crash.ReporterParams{
		Prefs:         storage,
		Context:       c.contextProps,
		ScreenName:    c.ScreenName,
		PackagePrefix: config.AppPackagePrefix,
		Enabled:       !config.DisableCrashDetection,
		Loggers:       loggers,
	})
	c.crash.LoadPrevious()

	c.listeners = internal.NewBroadcaster[[]model.Event]()
	c.worker = scheduler.NewWorker(loggers)
	success = true
	return c, nil
}

// SendEvents processes events and queues them for delivery. Processing starts after
// Config.SendDelay, on the client's background goroutine.
func (c *Client) SendEvents(events ...model.Event) {
	if len(events) == 0 {
		return
	}
	batch := append([]model.Event(nil), events...)
	if !c.worker.Schedule(c.config.sendDelay(), func() { c.processEvents(batch) }) {
		c.loggers.Warnf("Client is closed; dropping %d events", len(batch))
	}
}

// SendOfflineData sends the stored events now, whatever Config.OfflineStorageMode is.
func (c *Client) SendOfflineData() {
	c.worker.Submit(c.runSendTask)
}

// DeleteOfflineStorage removes stored events older than remainingDays days; 0 removes all of them.
func (c *Client) DeleteOfflineStorage(remainingDays int) {
	c.worker.Submit(func() {
		n, err := c.store.DeleteOldEvents(context.Background(), remainingDays)
		if err != nil {
			c.loggers.Errorf("Failed to delete stored events: %s", err)
			return
		}
		c.loggers.Debugf("Deleted %d stored events", n)
	})
}

// Flush waits until every task already queued on the background goroutine has finished. Events sent
// less than Config.SendDelay ago may still be waiting.
func (c *Client) Flush() {
	c.worker.SubmitAndWait(func() {})
}

func (c *Client) processEvents(events []model.Event) {
	processed := c.pipeline.Process(events)
	if len(processed) == 0 {
		return
	}
	if err := c.store.PutEvents(context.Background(), processed); err != nil {
		c.loggers.Errorf("Failed to store %d events: %s", len(processed), err)
	}
	if c.listeners.HasListeners() {
		if missed := c.listeners.Broadcast(processed); missed > 0 {
			c.loggers.Warnf("%d processed-events listeners are not keeping up and missed a batch", missed)
		}
	}
	if c.config.offlineStorageMode() != model.OfflineStorageAlways {
		c.runSendTask()
	}
}

func (c *Client) runSendTask() {
	if err := c.sendTask.Run(context.Background()); err != nil {
		c.loggers.Debugf("Delivery finished with errors: %s", err)
	}
}

// AddEventProcessor adds a processor after the ones in Config.CustomEventProcessors. Privacy rules
// are still applied after it.
func (c *Client) AddEventProcessor(p interfaces.EventProcessor) {
	c.customGroup.Append(p)
}

// AddProcessedEventsListener returns a channel that receives each batch of events after enrichment
// and privacy filtering, once it has been stored. A listener that does not keep up misses batches.
// The channel is closed by RemoveProcessedEventsListener or Close.
func (c *Client) AddProcessedEventsListener() <-chan []model.Event {
	return c.listeners.AddListener()
}

// RemoveProcessedEventsListener unsubscribes a channel returned by AddProcessedEventsListener.
func (c *Client) RemoveProcessedEventsListener(ch <-chan []model.Event) {
	c.listeners.RemoveListener(ch)
}

// OnForeground must be called when the application comes to the foreground. A new session starts if
// the application stayed in the background for at least Config.SessionBackgroundDuration.
func (c *Client) OnForeground() {
	if c.lifecycle.OnForeground() {
		c.loggers.Debug("Session expired in background; started a new session")
	}
}

// OnBackground must be called when the application goes to the background.
func (c *Client) OnBackground() {
	c.lifecycle.OnBackground()
}

// SessionID returns the identifier of the current session.
func (c *Client) SessionID() string {
	return c.sessions.SessionID()
}

// Close stops the client. Events already sent to the client, including delayed ones, are processed
// and delivered before Close returns; events sent afterwards are dropped.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.loggers.Info("Closing analytics client")
		c.worker.Close()
		c.listeners.Close()
		err = c.closeResources()
	})
	return err
}

func (c *Client) closeResources() error {
	var errs []error
	if c.privacy != nil {
		c.privacy.Close()
	}
	if c.store != nil {
		errs = append(errs, c.store.Close())
	}
	if c.fileStore != nil {
		errs = append(errs, c.fileStore.Close())
	}
	return errors.Join(errs...)
}
