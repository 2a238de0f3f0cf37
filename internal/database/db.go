package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/csvchart/pkg/models"
	_ "modernc.org/sqlite"
)

// tsLayout is fixed-width so text ordering matches time ordering
const tsLayout = "2006-01-02 15:04:05.000000000"

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		series TEXT NOT NULL,
		ts TEXT NOT NULL,
		value REAL NOT NULL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(series, ts)
	);
	CREATE INDEX IF NOT EXISTS idx_readings_series_ts ON readings(series, ts);
	CREATE INDEX IF NOT EXISTS idx_readings_published ON readings(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Filter narrows a reading query; zero fields are ignored
type Filter struct {
	Since       time.Time
	Until       time.Time
	Unpublished bool
	Limit       int
}

// SeriesSummary describes one stored series
type SeriesSummary struct {
	Name  string
	Count int
	First time.Time
	Last  time.Time
}

// InsertReading stores a record, ignoring duplicates of (series, ts).
// It reports whether a new row was written.
func (db *DB) InsertReading(ctx context.Context, r models.Record) (bool, error) {
	query := `
	INSERT OR IGNORE INTO readings (series, ts, value, created_at)
	VALUES (?, ?, ?, ?)
	`

	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := db.conn.ExecContext(ctx, query, r.Series, formatTS(r.Date), r.Value, createdAt)
	if err != nil {
		return false, fmt.Errorf("inserting reading: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking inserted rows: %w", err)
	}
	return n > 0, nil
}

// ListReadings retrieves readings for a series in time order
func (db *DB) ListReadings(ctx context.Context, series string, f Filter) (models.Series, error) {
	query := `
	SELECT id, series, ts, value, published
	FROM readings
	WHERE series = ?`
	args := []any{series}

	if f.Unpublished {
		query += ` AND published = 0`
	}
	if !f.Since.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, formatTS(f.Since))
	}
	if !f.Until.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, formatTS(f.Until))
	}
	query += ` ORDER BY ts ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var results models.Series
	for rows.Next() {
		var r models.Record
		var ts string
		var published int

		if err := rows.Scan(&r.ID, &r.Series, &ts, &r.Value, &published); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.Date, err = parseTS(ts)
		if err != nil {
			return nil, fmt.Errorf("parsing ts: %w", err)
		}
		r.Published = published != 0

		results = append(results, r)
	}

	return results, rows.Err()
}

// ListUnpublished retrieves readings that have not been published yet
func (db *DB) ListUnpublished(ctx context.Context, series string) (models.Series, error) {
	return db.ListReadings(ctx, series, Filter{Unpublished: true})
}

// MarkPublished marks a reading as published
func (db *DB) MarkPublished(ctx context.Context, id int64) error {
	query := `UPDATE readings SET published = 1 WHERE id = ?`
	_, err := db.conn.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("marking reading as published: %w", err)
	}
	return nil
}

// ListSeries summarizes every stored series, ordered by name
func (db *DB) ListSeries(ctx context.Context) ([]SeriesSummary, error) {
	query := `
	SELECT series, COUNT(*), MIN(ts), MAX(ts)
	FROM readings
	GROUP BY series
	ORDER BY series
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying series: %w", err)
	}
	defer rows.Close()

	var results []SeriesSummary
	for rows.Next() {
		var s SeriesSummary
		var first, last string

		if err := rows.Scan(&s.Name, &s.Count, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if s.First, err = parseTS(first); err != nil {
			return nil, fmt.Errorf("parsing first ts: %w", err)
		}
		if s.Last, err = parseTS(last); err != nil {
			return nil, fmt.Errorf("parsing last ts: %w", err)
		}

		results = append(results, s)
	}

	return results, rows.Err()
}

// SeriesLoader loads one stored series for charting
type SeriesLoader struct {
	db     *DB
	series string
}

// Loader returns a chart loader backed by a stored series
func (db *DB) Loader(series string) *SeriesLoader {
	return &SeriesLoader{db: db, series: series}
}

// Load reads every reading of the series in time order
func (l *SeriesLoader) Load(ctx context.Context) (models.Series, error) {
	series, err := l.db.ListReadings(ctx, l.series, Filter{})
	if err != nil {
		return nil, fmt.Errorf("loading series %q: %w", l.series, err)
	}
	return series, nil
}

func formatTS(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTS(s string) (time.Time, error) {
	t, err := time.ParseInLocation(tsLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.Local(), nil
}
