package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/gemfall/internal/core"
)

// Run is one finished game with enough detail to replay its seed.
type Run struct {
	ID            string // UUID
	Mode          string // game ID, e.g. "gemfall" or "gemfall_endless"
	Seed          int64
	Score         int
	Moves         int
	Cascades      int
	BombsExploded int
	CreatedAt     time.Time
}

// NewRun builds a run record from a game's stats with a fresh ID.
func NewRun(mode string, stats core.RunStats) Run {
	return Run{
		ID:            uuid.NewString(),
		Mode:          mode,
		Seed:          stats.Seed,
		Score:         stats.Score,
		Moves:         stats.Moves,
		Cascades:      stats.Cascades,
		BombsExploded: stats.BombsExploded,
	}
}

// SaveRun records a finished run. A run without an ID gets a new UUID.
// Returns the run ID.
func (s *Store) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	} else if _, err := uuid.Parse(r.ID); err != nil {
		return "", fmt.Errorf("storage: invalid run id %q: %w", r.ID, err)
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, mode, seed, score, moves, cascades, bombs_exploded)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Mode, r.Seed, r.Score, r.Moves, r.Cascades, r.BombsExploded,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `id, mode, seed, score, moves, cascades, bombs_exploded, created_at`

// RecentRuns returns the latest runs for a mode, newest first.
func (s *Store) RecentRuns(mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE mode = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// TopRuns returns the highest-scoring runs for a mode.
func (s *Store) TopRuns(mode string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE mode = ?
		 ORDER BY score DESC, moves ASC
		 LIMIT ?`,
		mode, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRun returns the highest-scoring run for a mode, or nil if none exist.
func (s *Store) BestRun(mode string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE mode = ?
		 ORDER BY score DESC, moves ASC
		 LIMIT 1`,
		mode,
	)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best run: %w", err)
	}
	return &r, nil
}

// RunByID looks up a single run.
func (s *Store) RunByID(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var createdAt any
	err := sc.Scan(&r.ID, &r.Mode, &r.Seed, &r.Score, &r.Moves, &r.Cascades, &r.BombsExploded, &createdAt)
	r.CreatedAt = parseTimestamp(createdAt)
	return r, err
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}
