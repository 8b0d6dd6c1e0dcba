// Package store handles SQLite persistence of run history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/symkrypt/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps sort chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			tag TEXT NOT NULL,
			input_path TEXT NOT NULL,
			mode TEXT NOT NULL,
			report_path TEXT NOT NULL,
			total_symbols INTEGER NOT NULL,
			distinct_symbols INTEGER NOT NULL,
			overlapping_total INTEGER NOT NULL,
			non_overlapping_total INTEGER NOT NULL,
			symbol_entropy REAL NOT NULL,
			overlapping_entropy REAL NOT NULL,
			non_overlapping_entropy REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS run_symbols (
			run_id INTEGER NOT NULL,
			symbol BLOB NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (run_id, symbol)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_input_path ON runs(input_path);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRun stores a finished run and its symbol counts.
func (s *Store) InsertRun(ctx context.Context, rec model.RunRecord, stats model.TextStatistics) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, tag, input_path, mode, report_path, total_symbols, distinct_symbols,
			overlapping_total, non_overlapping_total, symbol_entropy, overlapping_entropy, non_overlapping_entropy)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StartedAt.UTC().Format(timeLayout),
		rec.Tag,
		rec.Input,
		rec.Mode.String(),
		rec.ReportPath,
		rec.TotalSymbols,
		rec.DistinctSymbols,
		rec.OverlappingBigramTotal,
		rec.NonOverlappingBigramTotal,
		rec.SymbolEntropy,
		rec.OverlappingBigramEntropy,
		rec.NonOverlappingBigramEntropy,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(stats.SymbolCounts) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_symbols (run_id, symbol, count) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, sym := range stats.SortedSymbols() {
			if _, err := stmt.ExecContext(ctx, id, []byte{sym}, stats.SymbolCounts[sym]); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRuns returns recorded runs in chronological order, filtered by cfg.
// cfg.Last keeps only the most recent N runs.
func (s *Store) ListRuns(ctx context.Context, cfg model.HistoryConfig) ([]model.RunRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Input != "" {
		clauses = append(clauses, "input_path = ?")
		args = append(args, cfg.Input)
	}
	if cfg.Mode != nil {
		clauses = append(clauses, "mode = ?")
		args = append(args, cfg.Mode.String())
	}
	limit := ""
	if cfg.Last > 0 {
		limit = "LIMIT ?"
		args = append(args, cfg.Last)
	}
	query := fmt.Sprintf(`SELECT * FROM (
		SELECT id, started_at, tag, input_path, mode, report_path, total_symbols, distinct_symbols,
			overlapping_total, non_overlapping_total, symbol_entropy, overlapping_entropy, non_overlapping_entropy
		FROM runs
		WHERE %s
		ORDER BY started_at DESC, id DESC
		%s
	) ORDER BY started_at ASC, id ASC`, strings.Join(clauses, " AND "), limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var rec model.RunRecord
		var startedAt, mode string
		if err := rows.Scan(&rec.ID, &startedAt, &rec.Tag, &rec.Input, &mode, &rec.ReportPath,
			&rec.TotalSymbols, &rec.DistinctSymbols, &rec.OverlappingBigramTotal, &rec.NonOverlappingBigramTotal,
			&rec.SymbolEntropy, &rec.OverlappingBigramEntropy, &rec.NonOverlappingBigramEntropy); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, err
		}
		rec.StartedAt = parsed
		if rec.Mode, err = model.ParseMode(mode); err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// SymbolCounts returns the stored symbol counts of a run in ascending byte order.
func (s *Store) SymbolCounts(ctx context.Context, runID int64) ([]model.SymbolCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT symbol, count FROM run_symbols WHERE run_id = ? ORDER BY symbol ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SymbolCount
	for rows.Next() {
		var sym []byte
		var count int
		if err := rows.Scan(&sym, &count); err != nil {
			return nil, err
		}
		result = append(result, model.SymbolCount{Symbol: string(sym), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
