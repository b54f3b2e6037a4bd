package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"promptalbum/internal/config"
)

// Store manages run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// busyBackoff lists the waits between attempts when another process holds
// the write lock past busy_timeout.
var busyBackoff = []time.Duration{
	10 * time.Millisecond,
	40 * time.Millisecond,
	120 * time.Millisecond,
	200 * time.Millisecond,
}

// Open creates the state directory if needed and opens the journal inside it.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.JournalPath())
}

// OpenPath opens the journal at an explicit location and applies the schema.
func OpenPath(dbPath string) (*Store, error) {
	pragmas := url.Values{}
	for _, p := range []string{"journal_mode(WAL)", "foreign_keys(1)", "busy_timeout(5000)"} {
		pragmas.Add("_pragma", p)
	}
	db, err := sql.Open("sqlite", dbPath+"?"+pragmas.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps pragmas and transactions on the same handle.
	db.SetMaxOpenConns(1)

	store := &Store{db: db, path: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// withBusyRetry runs op again while SQLite reports the database as locked.
func withBusyRetry(ctx context.Context, op func() error) error {
	err := op()
	for _, wait := range busyBackoff {
		if err == nil || !lockedErr(err) {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = op()
	}
	return err
}

func lockedErr(err error) bool {
	const sqliteBusy = 5
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code()&0xff == sqliteBusy {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func nullText(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// storedTimeLayout keeps every fraction digit so stored values sort
// lexically in time order.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func nullTimestamp(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(storedTimeLayout), Valid: true}
}

func sqlBool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTimestamp accepts RFC 3339 values written by the store and the
// "YYYY-MM-DD HH:MM:SS" form SQLite's CURRENT_TIMESTAMP produces.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(time.DateTime, value)
}
