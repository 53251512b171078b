// File path: internal/catalog/queries.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nicodishanthj/docgen/internal/document"
)

type artifactRow struct {
	ID           string `db:"id"`
	Filename     string `db:"filename"`
	Path         string `db:"path"`
	DocumentType string `db:"document_type"`
	Locale       string `db:"locale"`
	SizeBytes    int64  `db:"size_bytes"`
	CreatedAt    string `db:"created_at"`
}

func (r artifactRow) artifact() document.Artifact {
	return document.Artifact{
		ID:           r.ID,
		Filename:     r.Filename,
		Path:         r.Path,
		Size:         r.SizeBytes,
		DocumentType: document.DocumentType(r.DocumentType),
		Locale:       document.Locale(r.Locale),
		CreatedAt:    parseTime(r.CreatedAt),
	}
}

// AuditEntry is one line of the catalog's audit trail.
type AuditEntry struct {
	ArtifactID string `db:"artifact_id" json:"artifact_id"`
	Action     string `db:"action" json:"action"`
	Detail     string `db:"detail" json:"detail,omitempty"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

// Record stores artifact. Re-recording the same id replaces the row.
func (s *Store) Record(ctx context.Context, artifact document.Artifact) error {
	if strings.TrimSpace(artifact.ID) == "" || strings.TrimSpace(artifact.Filename) == "" {
		return errors.New("catalog: artifact id and filename required")
	}
	created := artifact.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO artifacts(id, filename, path, document_type, locale, size_bytes, created_at)
                        VALUES(?, ?, ?, ?, ?, ?, ?)
                        ON CONFLICT(id) DO UPDATE SET filename = excluded.filename, path = excluded.path,
                                document_type = excluded.document_type, locale = excluded.locale,
                                size_bytes = excluded.size_bytes, created_at = excluded.created_at`,
			artifact.ID, artifact.Filename, artifact.Path, string(artifact.DocumentType), string(artifact.Locale),
			artifact.Size, formatTime(created)); err != nil {
			return fmt.Errorf("insert artifact: %w", err)
		}
		return recordAudit(ctx, tx, artifact.ID, "rendered", artifact.Filename)
	})
}

// Get returns the artifact with id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (document.Artifact, error) {
	var row artifactRow
	err := s.db.GetContext(ctx, &row, `SELECT id, filename, path, document_type, locale, size_bytes, created_at
                FROM artifacts WHERE id = ?`, strings.TrimSpace(id))
	if errors.Is(err, sql.ErrNoRows) {
		return document.Artifact{}, ErrNotFound
	}
	if err != nil {
		return document.Artifact{}, fmt.Errorf("query artifact: %w", err)
	}
	return row.artifact(), nil
}

// Forget removes the row for id. Forgetting an unknown id is not an error.
func (s *Store) Forget(ctx context.Context, id, reason string) error {
	return withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete artifact: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return recordAudit(ctx, tx, id, "forgotten", reason)
	})
}

// ForgetFile removes the row pointing at filename and reports whether one existed.
func (s *Store) ForgetFile(ctx context.Context, filename, reason string) (bool, error) {
	var id string
	err := s.db.GetContext(ctx, &id, `SELECT id FROM artifacts WHERE filename = ?`, filename)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query artifact by filename: %w", err)
	}
	if err := s.Forget(ctx, id, reason); err != nil {
		return false, err
	}
	return true, nil
}

// Recent lists the newest artifacts first.
func (s *Store) Recent(ctx context.Context, limit int) ([]document.Artifact, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []artifactRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, filename, path, document_type, locale, size_bytes, created_at
                FROM artifacts ORDER BY created_at DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("query recent artifacts: %w", err)
	}
	out := make([]document.Artifact, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.artifact())
	}
	return out, nil
}

// Audit returns the audit trail of one artifact, oldest first.
func (s *Store) Audit(ctx context.Context, artifactID string) ([]AuditEntry, error) {
	var entries []AuditEntry
	if err := s.db.SelectContext(ctx, &entries, `SELECT artifact_id, action, COALESCE(detail, '') AS detail, created_at
                FROM audit WHERE artifact_id = ? ORDER BY id`, artifactID); err != nil {
		return nil, fmt.Errorf("query audit: %w", err)
	}
	return entries, nil
}

func recordAudit(ctx context.Context, tx *sqlx.Tx, artifactID, action, detail string) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO audit(artifact_id, action, detail, created_at) VALUES(?, ?, ?, ?)`,
		artifactID, action, nullIfEmpty(detail), formatTime(time.Now())); err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
