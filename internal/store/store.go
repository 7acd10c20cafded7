// Package store keeps a history of analyses in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alexiusacademia/goslope/internal/bishop"
	"github.com/alexiusacademia/goslope/internal/project"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	fs           REAL,
	iterations   INTEGER NOT NULL,
	case_json    TEXT NOT NULL,
	result_json  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
`

// timeFormat sorts lexically in chronological order
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when no analysis has the requested id
var ErrNotFound = errors.New("analysis not found")

// Record is one stored analysis
type Record struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	CreatedAt  time.Time      `json:"created_at"`
	Outcome    bishop.Outcome `json:"outcome"`
	FS         *float64       `json:"fs"` // nil when there is no stability value
	Iterations int            `json:"iterations"`
	Case       *project.Case  `json:"case,omitempty"`
	Result     *bishop.Result `json:"result,omitempty"`
}

// Store manages analysis history in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a case and its result under a new id
func (s *Store) Save(ctx context.Context, c *project.Case, res bishop.Result) (Record, error) {
	caseJSON, err := json.Marshal(c)
	if err != nil {
		return Record{}, fmt.Errorf("marshal case: %w", err)
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		return Record{}, fmt.Errorf("marshal result: %w", err)
	}

	rec := Record{
		ID:         uuid.New().String(),
		Name:       c.Name,
		CreatedAt:  s.now().UTC(),
		Outcome:    res.Outcome,
		Iterations: res.Iterations,
		Case:       c,
		Result:     &res,
	}
	var fs sql.NullFloat64
	if res.HasValue() {
		v := res.FS
		rec.FS = &v
		fs = sql.NullFloat64{Float64: v, Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, name, created_at, outcome, fs, iterations, case_json, result_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.CreatedAt.Format(timeFormat), rec.Outcome.String(), fs,
		rec.Iterations, string(caseJSON), string(resultJSON))
	if err != nil {
		return Record{}, fmt.Errorf("insert analysis: %w", err)
	}

	return rec, nil
}

// Get loads one analysis including its case and full result
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, outcome, fs, iterations, case_json, result_json
		 FROM analyses WHERE id = ?`, id)

	var (
		rec                  Record
		createdAt, outcome   string
		fs                   sql.NullFloat64
		caseJSON, resultJSON string
	)
	err := row.Scan(&rec.ID, &rec.Name, &createdAt, &outcome, &fs, &rec.Iterations, &caseJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get analysis: %w", err)
	}

	if err := fillRecord(&rec, createdAt, outcome, fs); err != nil {
		return Record{}, err
	}

	var c project.Case
	if err := json.Unmarshal([]byte(caseJSON), &c); err != nil {
		return Record{}, fmt.Errorf("unmarshal case: %w", err)
	}
	var res bishop.Result
	if err := json.Unmarshal([]byte(resultJSON), &res); err != nil {
		return Record{}, fmt.Errorf("unmarshal result: %w", err)
	}
	rec.Case, rec.Result = &c, &res

	return rec, nil
}

// List returns the most recent analyses, newest first, without their case
// and result bodies
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, outcome, fs, iterations
		 FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec                Record
			createdAt, outcome string
			fs                 sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &createdAt, &outcome, &fs, &rec.Iterations); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := fillRecord(&rec, createdAt, outcome, fs); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes an analysis
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func fillRecord(rec *Record, createdAt, outcome string, fs sql.NullFloat64) error {
	t, err := time.Parse(timeFormat, createdAt)
	if err != nil {
		return fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t

	if err := rec.Outcome.UnmarshalText([]byte(outcome)); err != nil {
		return err
	}
	if fs.Valid {
		v := fs.Float64
		rec.FS = &v
	}
	return nil
}
