package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accreditation-hub/accreditation-hub/internal/domain/accreditation"
)

// AccreditationRepository implements accreditation.Repository.
type AccreditationRepository struct {
	pool *pgxpool.Pool
}

func NewAccreditationRepository(pool *pgxpool.Pool) *AccreditationRepository {
	return &AccreditationRepository{pool: pool}
}

func (r *AccreditationRepository) CreateWithDocument(ctx context.Context, a *accreditation.Accreditation, doc *accreditation.Document) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO documents (document_id, name, content_type, content, checksum)
		VALUES ($1,$2,$3,$4,$5)
	`, doc.DocumentID, doc.Name, doc.ContentType, doc.Content, doc.Checksum); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO accreditations (accreditation_id, user_id, category, status, document_id, last_update_time, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.AccreditationID, a.UserID, a.Category, a.Status, a.DocumentID, a.LastUpdateTime, a.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *AccreditationRepository) GetByID(ctx context.Context, accreditationID uuid.UUID) (*accreditation.Accreditation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, accreditation_id, user_id, category, status, document_id, last_update_time, created_at
		FROM accreditations WHERE accreditation_id=$1
	`, accreditationID)
	return scanAccreditation(row)
}

func (r *AccreditationRepository) ListByUser(ctx context.Context, userID string) ([]*accreditation.Accreditation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, accreditation_id, user_id, category, status, document_id, last_update_time, created_at
		FROM accreditations WHERE user_id=$1 ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccreditations(rows)
}

func (r *AccreditationRepository) ListByStatus(ctx context.Context, status accreditation.Status) ([]*accreditation.Accreditation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, accreditation_id, user_id, category, status, document_id, last_update_time, created_at
		FROM accreditations WHERE status=$1 ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccreditations(rows)
}

// ApplyStatusChange moves the record and appends the history row in one
// transaction. The update is guarded by the expected current status so a
// stale request writes nothing.
func (r *AccreditationRepository) ApplyStatusChange(ctx context.Context, accreditationID uuid.UUID, from, to accreditation.Status, at time.Time) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE accreditations SET status=$1, last_update_time=$2
		WHERE accreditation_id=$3 AND status=$4
	`, to, at, accreditationID, from)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO accreditation_history (history_id, accreditation_id, old_status, last_update_time)
		VALUES ($1,$2,$3,$4)
	`, uuid.New(), accreditationID, from, at); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *AccreditationRepository) ListHistory(ctx context.Context, accreditationID uuid.UUID) ([]*accreditation.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, history_id, accreditation_id, old_status, last_update_time
		FROM accreditation_history WHERE accreditation_id=$1
		ORDER BY last_update_time ASC, id ASC
	`, accreditationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []*accreditation.HistoryEntry
	for rows.Next() {
		var e accreditation.HistoryEntry
		if err := rows.Scan(&e.ID, &e.HistoryID, &e.AccreditationID, &e.OldStatus, &e.LastUpdateTime); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *AccreditationRepository) GetDocument(ctx context.Context, documentID uuid.UUID) (*accreditation.Document, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, document_id, name, content_type, content, checksum
		FROM documents WHERE document_id=$1
	`, documentID)
	var d accreditation.Document
	if err := row.Scan(&d.ID, &d.DocumentID, &d.Name, &d.ContentType, &d.Content, &d.Checksum); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func scanAccreditation(row pgx.Row) (*accreditation.Accreditation, error) {
	var a accreditation.Accreditation
	if err := row.Scan(&a.ID, &a.AccreditationID, &a.UserID, &a.Category, &a.Status, &a.DocumentID, &a.LastUpdateTime, &a.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func collectAccreditations(rows pgx.Rows) ([]*accreditation.Accreditation, error) {
	var accs []*accreditation.Accreditation
	for rows.Next() {
		a, err := scanAccreditation(rows)
		if err != nil {
			return nil, err
		}
		accs = append(accs, a)
	}
	return accs, rows.Err()
}
