// Package delivery sends stored events to the collection endpoint.
package delivery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/time/rate"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/eventstore"
	"github.com/analyticskit/go-analytics/internal/wire"
	"github.com/analyticskit/go-analytics/model"
)

const (
	// ChunkSize is the maximum number of events in one request.
	ChunkSize = 50
	// MaxStoredEvents is the number of unsent events kept when the queue grows too large.
	MaxStoredEvents = 2000
	// MaxAttempts is the number of times one request is tried.
	MaxAttempts = 3
	// DefaultRetryDelay is the pause between attempts.
	DefaultRetryDelay = 400 * time.Millisecond

	contentType     = "application/json; charset=UTF-8"
	payloadIDHeader = "X-Payload-ID"
	offlineWarning  = "Can't send events: no connection"
)

// Queue is the part of the event store used by the send task.
type Queue interface {
	GetNotSentEvents(ctx context.Context) ([]eventstore.Record, error)
	MarkEventsAsSent(ctx context.Context, records []eventstore.Record) error
	DeleteOldEvents(ctx context.Context, days int) (int64, error)
	DeleteOutOfLimitNotSentEvents(ctx context.Context, limit int) (int64, error)
}

// VisitorIDSource provides the idclient query parameter.
type VisitorIDSource interface {
	VisitorID() (string, bool)
}

// Params contains the configuration and dependencies of a SendTask.
type Params struct {
	Queue       Queue
	HTTPClient  *http.Client
	Headers     http.Header
	URLProvider interfaces.ReportURLProvider
	// CustomHTTPData is optional.
	CustomHTTPData     interfaces.CustomHTTPDataProvider
	VisitorIDs         VisitorIDSource
	Device             interfaces.DeviceInfoProvider
	StorageMode        model.OfflineStorageMode
	EventsLifetimeDays int
	// RetryDelay defaults to DefaultRetryDelay. Tests set it lower.
	RetryDelay  time.Duration
	LogPayloads bool
	Loggers     ldlog.Loggers
}

// SendTask prunes the event queue and delivers unsent events in batches.
//
// A SendTask is run only from the client's worker goroutine, so runs never overlap.
type SendTask struct {
	params         Params
	offlineWarning rate.Sometimes
}

// NewSendTask creates a SendTask.
func NewSendTask(params Params) *SendTask {
	if params.RetryDelay <= 0 {
		params.RetryDelay = DefaultRetryDelay
	}
	if params.HTTPClient == nil {
		params.HTTPClient = http.DefaultClient
	}
	return &SendTask{
		params:         params,
		offlineWarning: rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

// Run performs one delivery cycle. Every batch is attempted even if an earlier one fails; the
// returned error joins the failures. Being offline is not an error.
func (t *SendTask) Run(ctx context.Context) error {
	var errs []error
	loggers := t.params.Loggers
	if n, err := t.params.Queue.DeleteOldEvents(ctx, t.params.EventsLifetimeDays); err != nil {
		errs = append(errs, err)
	} else if n > 0 {
		loggers.Debugf("Deleted %d expired events", n)
	}
	if n, err := t.params.Queue.DeleteOutOfLimitNotSentEvents(ctx, MaxStoredEvents); err != nil {
		errs = append(errs, err)
	} else if n > 0 {
		loggers.Warnf("Event queue was full; deleted %d oldest unsent events", n)
	}

	if t.params.Device.ConnectionType() == model.ConnectionOffline {
		t.offlineWarning.Do(func() { loggers.Warn(offlineWarning) })
	} else {
		errs = append(errs, t.sendAll(ctx)...)
	}

	if t.params.StorageMode == model.OfflineStorageNever {
		if _, err := t.params.Queue.DeleteOldEvents(ctx, 0); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *SendTask) sendAll(ctx context.Context) []error {
	records, err := t.params.Queue.GetNotSentEvents(ctx)
	if err != nil {
		return []error{err}
	}
	var errs []error
	for start := 0; start < len(records); start += ChunkSize {
		end := start + ChunkSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]
		if err := t.send(ctx, batch); err != nil {
			t.params.Loggers.Warnf("Failed to send %d events: %s", len(batch), err)
			errs = append(errs, err)
			continue
		}
		if err := t.params.Queue.MarkEventsAsSent(ctx, batch); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (t *SendTask) send(ctx context.Context, batch []eventstore.Record) error {
	data := make([]string, 0, len(batch))
	for _, r := range batch {
		data = append(data, r.Data)
	}
	body := wire.EventsRequestBody(data)
	uri := t.requestURL()
	// Retries of the same payload share an ID so that the collector can discard duplicates.
	payloadID := uuid.NewString()

	if t.params.LogPayloads {
		t.params.Loggers.Debugf("Sending %d events to %s: %s", len(batch), uri, body)
	}

	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		if attempt > 0 {
			t.params.Loggers.Warnf("Will retry posting events after %s", t.params.RetryDelay)
			select {
			case <-time.After(t.params.RetryDelay):
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", ErrDeliveryFailed, ctx.Err())
			}
		}
		lastErr = t.post(ctx, uri, body, payloadID)
		if lastErr == nil {
			return nil
		}
		t.params.Loggers.Warnf("Error while sending events: %s", lastErr)
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, MaxAttempts, lastErr)
}

func (t *SendTask) post(ctx context.Context, uri string, body []byte, payloadID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	for k, vv := range t.params.Headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	if t.params.CustomHTTPData != nil {
		for k, v := range t.params.CustomHTTPData.Headers() {
			req.Header.Set(k, v)
		}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(payloadIDHeader, payloadID)

	resp, err := t.params.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return checkForHTTPError(resp.StatusCode, uri)
}

// requestURL builds https://{domain}/{path}?{custom parameters}&s={site}&idclient={visitor}. A
// domain that already has a scheme, such as "http://localhost:8080", is used as is.
func (t *SendTask) requestURL() string {
	target := t.params.URLProvider.ReportURL()
	base := target.CollectDomain
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	base = strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(target.Path, "/")

	var query []string
	if t.params.CustomHTTPData != nil {
		params := t.params.CustomHTTPData.Parameters()
		keys := maps.Keys(params)
		slices.Sort(keys)
		for _, k := range keys {
			query = append(query, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
		}
	}
	query = append(query, "s="+strconv.Itoa(target.Site))
	if id, ok := t.params.VisitorIDs.VisitorID(); ok {
		query = append(query, "idclient="+url.QueryEscape(id))
	}
	return base + "?" + strings.Join(query, "&")
}
