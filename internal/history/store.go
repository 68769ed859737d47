package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/atomik/internal/db"
)

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("history entry not found")

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02 15:04:05.000000"

// Store provides CRUD operations for selection entries.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Log inserts a new entry and returns it with ID and timestamp filled in.
func (s *Store) Log(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.Source == "" {
		entry.Source = SourceWeb
	}
	if entry.InsightStatus == "" {
		entry.InsightStatus = StatusPending
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO selections (id, timestamp, atomic_number, symbol, source, insight_status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Timestamp.Format(timeLayout),
		entry.AtomicNumber,
		entry.Symbol,
		string(entry.Source),
		string(entry.InsightStatus),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting selection: %w", err)
	}
	return entry, nil
}

// MarkInsight records how the insight for selection id was resolved.
func (s *Store) MarkInsight(ctx context.Context, id string, status InsightStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE selections SET insight_status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return fmt.Errorf("updating selection %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating selection %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("selection %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a single entry.
func (s *Store) GetByID(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, timestamp, atomic_number, symbol, source, insight_status
		FROM selections WHERE id = ?`, id)

	e, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("selection %s: %w", id, ErrNotFound)
	}
	return e, err
}

// QueryFilter controls which entries are returned by Query.
type QueryFilter struct {
	AtomicNumber  int
	Source        Source
	InsightStatus InsightStatus
	Since         *time.Time
	Until         *time.Time
	Limit         int
	Offset        int
}

// Query returns entries matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.AtomicNumber > 0 {
		clauses = append(clauses, "atomic_number = ?")
		args = append(args, filter.AtomicNumber)
	}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(filter.Source))
	}
	if filter.InsightStatus != "" {
		clauses = append(clauses, "insight_status = ?")
		args = append(args, string(filter.InsightStatus))
	}
	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC().Format(timeLayout))
	}

	query := "SELECT id, timestamp, atomic_number, symbol, source, insight_status FROM selections"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying selections: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// PopularElement is an element with its selection count.
type PopularElement struct {
	AtomicNumber int    `json:"atomicNumber"`
	Symbol       string `json:"symbol"`
	Count        int    `json:"count"`
}

// Popular returns the most selected elements, most popular first.
func (s *Store) Popular(ctx context.Context, limit int) ([]PopularElement, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT atomic_number, symbol, COUNT(*) AS n
		FROM selections
		GROUP BY atomic_number, symbol
		ORDER BY n DESC, atomic_number ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("counting selections: %w", err)
	}
	defer rows.Close()

	var out []PopularElement
	for rows.Next() {
		var p PopularElement
		if err := rows.Scan(&p.AtomicNumber, &p.Symbol, &p.Count); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteBefore removes all entries older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM selections WHERE timestamp < ?",
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old selections: %w", err)
	}
	return res.RowsAffected()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e              Entry
		ts             string
		source, status string
	)

	if err := sc.Scan(&e.ID, &ts, &e.AtomicNumber, &e.Symbol, &source, &status); err != nil {
		return nil, err
	}

	e.Source = Source(source)
	e.InsightStatus = InsightStatus(status)
	if t, err := time.Parse(timeLayout, ts); err == nil {
		e.Timestamp = t
	}
	return &e, nil
}
