// Package eventstore is the local durable queue of encoded events, kept in an SQLite database.
package eventstore

import (
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
)

// Record is one stored event.
type Record struct {
	// ID is the database row identifier, or 0 if the record has not been stored yet.
	ID int64
	// Data is the encoded event, as produced by wire.MarshalEvent.
	Data      string
	Timestamp ldtime.UnixMillisecondTime
	IsSent    bool
}

// IsValid returns true if Data looks like a JSON object. Other records cannot be sent.
func (r Record) IsValid() bool {
	return strings.HasPrefix(r.Data, "{") && strings.HasSuffix(r.Data, "}")
}
