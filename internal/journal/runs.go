package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"promptalbum/internal/services"
)

const runColumns = `id, prompt, started_at, finished_at, status, dry_run, mode,
    source_dir, target_dir, scanned, matched, unmatched, log_path`

// RecordRun stores a run with its albums, placements, and unmatched paths in
// one transaction.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run == nil || strings.TrimSpace(run.ID) == "" {
		return services.Wrap(services.ErrValidation, "journal", "record", "run id is required", nil)
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = run.StartedAt
	}
	ctx = orBackground(ctx)
	return withBusyRetry(ctx, func() error {
		return s.recordRunTx(ctx, run)
	})
}

func (s *Store) recordRunTx(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Prompt,
		nullTimestamp(run.StartedAt),
		nullTimestamp(run.FinishedAt),
		string(run.Status),
		sqlBool(run.DryRun),
		run.Mode,
		run.SourceDir,
		run.TargetDir,
		run.Scanned,
		run.Matched,
		run.Unmatched,
		nullText(run.LogPath),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, album := range run.Albums {
		keywords, err := json.Marshal(nonNil(album.Keywords))
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO albums (
                run_id, position, name, folder_label, dir, anchor_date, date_filter,
                keywords_json, photo_count, total_bytes
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			i,
			album.Name,
			album.FolderLabel,
			album.Dir,
			nullTimestamp(album.AnchorDate),
			nullText(album.DateFilter),
			string(keywords),
			album.PhotoCount,
			album.TotalBytes,
		)
		if err != nil {
			return fmt.Errorf("insert album: %w", err)
		}
		albumID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		for _, p := range album.Placements {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO placements (album_id, source, destination, renamed, error_message) VALUES (?, ?, ?, ?, ?)`,
				albumID,
				p.Source,
				nullText(p.Destination),
				sqlBool(p.Renamed),
				nullText(p.Error),
			); err != nil {
				return fmt.Errorf("insert placement: %w", err)
			}
		}
	}

	for _, path := range run.UnmatchedPaths {
		if _, err := tx.ExecContext(ctx, `INSERT INTO unmatched (run_id, path) VALUES (?, ?)`, run.ID, path); err != nil {
			return fmt.Errorf("insert unmatched: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first, without album detail. A limit
// <= 0 returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = orBackground(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun loads a run with its albums, placements, and unmatched paths. id
// may be a unique prefix of the full run id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = orBackground(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "journal", "get", "run id is required", nil)
	}

	fullID, err := s.resolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, fullID)
	run, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run.Albums, err = s.albums(ctx, fullID); err != nil {
		return nil, err
	}
	if run.UnmatchedPaths, err = s.unmatchedPaths(ctx, fullID); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) resolveID(ctx context.Context, prefix string) (string, error) {
	pattern := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix) + "%"
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`, pattern)
	if err != nil {
		return "", fmt.Errorf("resolve run id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan run id: %w", err)
		}
		if id == prefix {
			return id, nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", services.Wrap(services.ErrNotFound, "journal", "get", fmt.Sprintf("no run matches %q", prefix), nil)
	case 1:
		return ids[0], nil
	default:
		return "", services.Wrap(services.ErrValidation, "journal", "get", fmt.Sprintf("run id %q is ambiguous", prefix), nil)
	}
}

func (s *Store) albums(ctx context.Context, runID string) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, folder_label, dir, anchor_date, date_filter, keywords_json, photo_count, total_bytes
         FROM albums WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("query albums: %w", err)
	}

	var (
		albums []Album
		ids    []int64
	)
	for rows.Next() {
		var (
			id           int64
			album        Album
			anchor       sql.NullString
			filter       sql.NullString
			keywordsJSON string
		)
		if err := rows.Scan(&id, &album.Name, &album.FolderLabel, &album.Dir, &anchor, &filter,
			&keywordsJSON, &album.PhotoCount, &album.TotalBytes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan album: %w", err)
		}
		if album.AnchorDate, err = parseTimestamp(anchor.String); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parse anchor date: %w", err)
		}
		album.DateFilter = filter.String
		if err := json.Unmarshal([]byte(keywordsJSON), &album.Keywords); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decode keywords: %w", err)
		}
		albums = append(albums, album)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i, id := range ids {
		placements, err := s.placements(ctx, id)
		if err != nil {
			return nil, err
		}
		albums[i].Placements = placements
	}
	return albums, nil
}

func (s *Store) placements(ctx context.Context, albumID int64) ([]Placement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, destination, renamed, error_message FROM placements WHERE album_id = ? ORDER BY id`, albumID)
	if err != nil {
		return nil, fmt.Errorf("query placements: %w", err)
	}
	defer rows.Close()

	var out []Placement
	for rows.Next() {
		var (
			p       Placement
			dest    sql.NullString
			renamed int
			errMsg  sql.NullString
		)
		if err := rows.Scan(&p.Source, &dest, &renamed, &errMsg); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		p.Destination = dest.String
		p.Renamed = renamed != 0
		p.Error = errMsg.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) unmatchedPaths(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM unmatched WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query unmatched: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan unmatched: %w", err)
		}
		out = append(out, path)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (*Run, error) {
	var (
		run      Run
		started  string
		finished string
		status   string
		dryRun   int
		logPath  sql.NullString
	)
	if err := scanner.Scan(&run.ID, &run.Prompt, &started, &finished, &status, &dryRun, &run.Mode,
		&run.SourceDir, &run.TargetDir, &run.Scanned, &run.Matched, &run.Unmatched, &logPath); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, services.Wrap(services.ErrNotFound, "journal", "get", "run not found", err)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	var err error
	if run.StartedAt, err = parseTimestamp(started); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = parseTimestamp(finished); err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}
	run.Status = Status(status)
	run.DryRun = dryRun != 0
	run.LogPath = logPath.String
	return &run, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
