// Package store handles SQLite persistence of the analysis history.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cipherlab/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout has fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for analysis data.
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
		`CREATE TABLE IF NOT EXISTS analyses (
			id INTEGER PRIMARY KEY,
			created_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			lang TEXT NOT NULL,
			input TEXT NOT NULL,
			input_letters INTEGER NOT NULL,
			summary TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS analysis_findings (
			analysis_id INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			label TEXT NOT NULL,
			value REAL NOT NULL,
			detail TEXT NOT NULL,
			PRIMARY KEY (analysis_id, rank)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_kind ON analyses(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAnalysis stores a completed analysis and its ranked findings.
func (s *Store) InsertAnalysis(ctx context.Context, rec model.AnalysisRecord, findings []model.Finding) (int64, error) {
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
		`INSERT INTO analyses (created_at, kind, lang, input, input_letters, summary)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt.UTC().Format(timeLayout),
		string(rec.Kind),
		rec.Lang,
		rec.Input,
		rec.InputLetters,
		rec.Summary,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(findings) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO analysis_findings (analysis_id, rank, label, value, detail)
			 VALUES (?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, f := range findings {
			if _, err = stmt.ExecContext(ctx, id, f.Rank, f.Label, f.Value, f.Detail); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListAnalyses returns stored analyses filtered by cfg, oldest first.
func (s *Store) ListAnalyses(ctx context.Context, cfg model.HistoryConfig) ([]model.AnalysisSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, cfg.Kind)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT id, created_at, kind, lang, input, input_letters, summary
		FROM analyses
		WHERE %s
		ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
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

	var out []model.AnalysisSummary
	for rows.Next() {
		var a model.AnalysisSummary
		var createdAt, kind string
		if err := rows.Scan(&a.ID, &createdAt, &kind, &a.Lang, &a.Input, &a.InputLetters, &a.Summary); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		a.CreatedAt = parsed
		a.Kind = model.AnalysisKind(kind)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out, nil
}

// GetAnalysis returns one stored analysis and its findings ordered by rank.
func (s *Store) GetAnalysis(ctx context.Context, id int64) (model.AnalysisSummary, []model.Finding, error) {
	var a model.AnalysisSummary
	var createdAt, kind string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, kind, lang, input, input_letters, summary FROM analyses WHERE id = ?`, id).
		Scan(&a.ID, &createdAt, &kind, &a.Lang, &a.Input, &a.InputLetters, &a.Summary)
	if err != nil {
		return model.AnalysisSummary{}, nil, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return model.AnalysisSummary{}, nil, err
	}
	a.CreatedAt = parsed
	a.Kind = model.AnalysisKind(kind)

	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, label, value, detail FROM analysis_findings WHERE analysis_id = ? ORDER BY rank ASC`, id)
	if err != nil {
		return model.AnalysisSummary{}, nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var findings []model.Finding
	for rows.Next() {
		var f model.Finding
		if err := rows.Scan(&f.Rank, &f.Label, &f.Value, &f.Detail); err != nil {
			return model.AnalysisSummary{}, nil, err
		}
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return model.AnalysisSummary{}, nil, err
	}
	return a, findings, nil
}

// CountByKind returns the number of stored analyses per kind.
func (s *Store) CountByKind(ctx context.Context) (map[model.AnalysisKind]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM analyses GROUP BY kind`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	counts := map[model.AnalysisKind]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[model.AnalysisKind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
