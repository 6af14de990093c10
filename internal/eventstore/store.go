package eventstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/analyticskit/go-analytics/interfaces"
	"github.com/analyticskit/go-analytics/internal/wire"
	"github.com/analyticskit/go-analytics/model"
)

const schemaVersion = 1

const selectColumns = "SELECT _id, data, time, isSent FROM events"

// StoreParams contains the dependencies of a Store.
type StoreParams struct {
	// Encoder transforms the data column. If nil, data is stored as is.
	Encoder interfaces.DataEncoder
	Clock   interfaces.Clock
	Loggers ldlog.Loggers
}

// Store is the event queue.
//
// All methods are called from the client's worker goroutine, but the database handle itself is safe
// for concurrent use.
type Store struct {
	db      *sql.DB
	encoder interfaces.DataEncoder
	clock   interfaces.Clock
	loggers ldlog.Loggers
}

// Open opens or creates the database file at path. Use ":memory:" for a store that is not persisted.
func Open(path string, params StoreParams) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event database: %w", err)
	}
	// Each connection to ":memory:" would be a separate database.
	db.SetMaxOpenConns(1)
	s, err := NewStore(db, params)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore creates a Store on an open database, creating or upgrading the schema as needed.
func NewStore(db *sql.DB, params StoreParams) (*Store, error) {
	s := &Store{db: db, encoder: params.Encoder, clock: params.Clock, loggers: params.Loggers}
	if s.clock == nil {
		s.clock = interfaces.SystemClock{}
	}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read event database version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}
	for v := version; v < schemaVersion; v++ {
		if err := s.migrateFrom(ctx, v); err != nil {
			return fmt.Errorf("failed to upgrade event database from version %d: %w", v, err)
		}
	}
	// PRAGMA statements do not accept bound parameters.
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("failed to write event database version: %w", err)
	}
	return nil
}

func (s *Store) migrateFrom(ctx context.Context, version int) error {
	switch version {
	case 0:
		_, err := s.db.ExecContext(ctx, `CREATE TABLE events (
			_id INTEGER PRIMARY KEY AUTOINCREMENT,
			data TEXT NOT NULL,
			time INTEGER,
			isSent INTEGER
		)`)
		return err
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutEvents encodes and stores events as unsent records.
func (s *Store) PutEvents(ctx context.Context, events []model.Event) error {
	for _, e := range events {
		rec := Record{Data: string(wire.MarshalEvent(e)), Timestamp: ldtime.UnixMillisFromTime(s.clock.Now())}
		if err := s.Save(ctx, &rec); err != nil {
			return err
		}
	}
	return nil
}

// Save inserts a record with no ID and sets its ID, or updates the stored record with the same ID.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	data, err := s.encode(rec.Data)
	if err != nil {
		return err
	}
	if rec.ID != 0 {
		_, err = s.db.ExecContext(ctx, "UPDATE events SET data = ?, time = ?, isSent = ? WHERE _id = ?",
			data, int64(rec.Timestamp), rec.IsSent, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to update event %d: %w", rec.ID, err)
		}
		return nil
	}
	result, err := s.db.ExecContext(ctx, "INSERT INTO events (data, time, isSent) VALUES (?, ?, ?)",
		data, int64(rec.Timestamp), rec.IsSent)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted event ID: %w", err)
	}
	rec.ID = id
	return nil
}

// GetNotSentEvents returns the unsent records, oldest first. Records that cannot be decoded or
// are not valid are skipped.
func (s *Store) GetNotSentEvents(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectColumns+" WHERE isSent = 0 ORDER BY time ASC, _id ASC")
}

// GetAllEvents returns every record, oldest first.
func (s *Store) GetAllEvents(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectColumns+" ORDER BY time ASC, _id ASC")
}

func (s *Store) query(ctx context.Context, query string, args ...interface{}) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ret []Record
	for rows.Next() {
		var (
			rec  Record
			data string
			ts   sql.NullInt64
			sent sql.NullBool
		)
		if err := rows.Scan(&rec.ID, &data, &ts, &sent); err != nil {
			s.loggers.Warnf("Skipping unreadable event row: %s", err)
			continue
		}
		decoded, err := s.decode(data)
		if err != nil {
			s.loggers.Warnf("Skipping event %d that could not be decoded: %s", rec.ID, err)
			continue
		}
		rec.Data = decoded
		rec.Timestamp = ldtime.UnixMillisecondTime(ts.Int64)
		rec.IsSent = sent.Bool
		if rec.IsValid() {
			ret = append(ret, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return ret, nil
}

// MarkEventsAsSent flags records as sent, in one transaction.
func (s *Store) MarkEventsAsSent(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	for i := range records {
		if _, err := tx.ExecContext(ctx, "UPDATE events SET isSent = 1 WHERE _id = ?", records[i].ID); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to mark event %d as sent: %w", records[i].ID, err)
		}
		records[i].IsSent = true
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to mark events as sent: %w", err)
	}
	return nil
}

// DeleteOldEvents removes records, sent or not, older than the given number of days. Zero days
// removes everything stored up to now.
func (s *Store) DeleteOldEvents(ctx context.Context, days int) (int64, error) {
	threshold := s.clock.Now().Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()
	if days == 0 {
		threshold++
	}
	result, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE time < ?", threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// DeleteOutOfLimitNotSentEvents keeps only the newest limit unsent records.
func (s *Store) DeleteOutOfLimitNotSentEvents(ctx context.Context, limit int) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE isSent = 0 AND _id NOT IN (
		SELECT _id FROM events WHERE isSent = 0 ORDER BY _id DESC LIMIT ?)`, limit)
	if err != nil {
		return 0, fmt.Errorf("failed to delete events over the limit: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

func (s *Store) encode(data string) (string, error) {
	if s.encoder == nil {
		return data, nil
	}
	encoded, err := s.encoder.Encode(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode event: %w", err)
	}
	return encoded, nil
}

func (s *Store) decode(data string) (string, error) {
	if s.encoder == nil {
		return data, nil
	}
	return s.encoder.Decode(data)
}
