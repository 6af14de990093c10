package main

import (
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const (
	defaultPath        = "event"
	defaultKeepBatches = 100
	maxBodySize        = 4 << 20
)

// batch is one delivery request as received.
type batch struct {
	site      int
	visitorID string
	payloadID string
	events    ldvalue.Value
}

func (b batch) asValue() ldvalue.Value {
	return ldvalue.ObjectBuild().
		Set("site", ldvalue.Int(b.site)).
		Set("idclient", ldvalue.String(b.visitorID)).
		Set("payloadID", ldvalue.String(b.payloadID)).
		Set("events", b.events).
		Build()
}

// collector accepts event deliveries and keeps the most recent ones for inspection.
type collector struct {
	keep    int
	loggers ldlog.Loggers
	batches []batch
	seen    map[string]struct{}
	lock    sync.Mutex
}

func newCollector(keep int, loggers ldlog.Loggers) *collector {
	if keep <= 0 {
		keep = defaultKeepBatches
	}
	return &collector{keep: keep, loggers: loggers, seen: make(map[string]struct{})}
}

func (c *collector) router(path string) *mux.Router {
	if path == "" {
		path = defaultPath
	}
	r := mux.NewRouter()
	r.HandleFunc("/"+path, c.receive).Methods(http.MethodPost)
	r.HandleFunc("/received", c.list).Methods(http.MethodGet)
	r.HandleFunc("/received", c.reset).Methods(http.MethodDelete)
	return r
}

func (c *collector) receive(w http.ResponseWriter, r *http.Request) {
	site, err := strconv.Atoi(r.URL.Query().Get("s"))
	if err != nil {
		http.Error(w, "missing or invalid site parameter", http.StatusBadRequest)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "can't read body", http.StatusBadRequest)
		return
	}
	var payload ldvalue.Value
	if err := payload.UnmarshalJSON(body); err != nil {
		http.Error(w, "malformed JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	events := payload.GetByKey("events")
	if events.Type() != ldvalue.ArrayType {
		http.Error(w, "events array is required", http.StatusBadRequest)
		return
	}

	b := batch{
		site:      site,
		visitorID: r.URL.Query().Get("idclient"),
		payloadID: r.Header.Get("X-Payload-ID"),
		events:    events,
	}
	if !c.add(b) {
		c.loggers.Infof("Ignoring duplicate payload %s", b.payloadID)
		w.WriteHeader(http.StatusOK)
		return
	}
	for i := 0; i < events.Count(); i++ {
		e := events.GetByIndex(i)
		c.loggers.Infof("site=%d idclient=%q event=%s properties=%d", site, b.visitorID,
			e.GetByKey("name").StringValue(), e.GetByKey("data").Count())
	}
	c.loggers.Debugf("Payload: %s", body)
	w.WriteHeader(http.StatusOK)
}

// add records a batch, returning false if a batch with the same payload ID was already received.
func (c *collector) add(b batch) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	if b.payloadID != "" {
		if _, dup := c.seen[b.payloadID]; dup {
			return false
		}
		c.seen[b.payloadID] = struct{}{}
	}
	c.batches = append(c.batches, b)
	if over := len(c.batches) - c.keep; over > 0 {
		for _, old := range c.batches[:over] {
			delete(c.seen, old.payloadID)
		}
		c.batches = c.batches[over:]
	}
	return true
}

func (c *collector) list(w http.ResponseWriter, _ *http.Request) {
	c.lock.Lock()
	arr := ldvalue.ArrayBuildWithCapacity(len(c.batches))
	for _, b := range c.batches {
		arr.Add(b.asValue())
	}
	c.lock.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(arr.Build().JSONString()))
}

func (c *collector) reset(w http.ResponseWriter, _ *http.Request) {
	c.lock.Lock()
	c.batches = nil
	c.seen = make(map[string]struct{})
	c.lock.Unlock()
	w.WriteHeader(http.StatusNoContent)
}
