package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
)

const statusColumns = `id,zaak_id,statustype,datum_status_gezet,COALESCE(toelichting,''),created_at`

func scanStatus(row interface{ Scan(...any) error }) (domain.Status, error) {
	var s domain.Status
	err := row.Scan(&s.ID, &s.ZaakID, &s.Statustype, &s.DatumStatusGezet, &s.Toelichting, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return s, ErrNotFound
	}
	return s, err
}

// ErrDuplicateStatus marks a violation of the (zaak, datum_status_gezet)
// uniqueness constraint.
func IsDuplicateStatus(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: statussen.zaak_id, statussen.datum_status_gezet")
}

func (r Repo) InsertStatusTx(ctx context.Context, tx *sql.Tx, s domain.Status) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO statussen(id,zaak_id,statustype,datum_status_gezet,toelichting,created_at) VALUES (?,?,?,?,?,?)`,
		s.ID, s.ZaakID, s.Statustype, s.DatumStatusGezet, nullable(s.Toelichting), s.CreatedAt)
	return err
}

func (r Repo) GetStatus(ctx context.Context, id string) (domain.Status, error) {
	return scanStatus(r.DB.QueryRowContext(ctx, `SELECT `+statusColumns+` FROM statussen WHERE id=?`, id))
}

func (r Repo) ListStatussen(ctx context.Context, zaakID string) ([]domain.Status, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+statusColumns+` FROM statussen WHERE zaak_id=? ORDER BY datum_status_gezet`, zaakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Status
	for rows.Next() {
		s, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// LatestStatus returns the status with the most recent datum_status_gezet.
func (r Repo) LatestStatus(ctx context.Context, zaakID string) (domain.Status, error) {
	return scanStatus(r.DB.QueryRowContext(ctx,
		`SELECT `+statusColumns+` FROM statussen WHERE zaak_id=? ORDER BY datum_status_gezet DESC LIMIT 1`, zaakID))
}

// CountStatussenTx counts existing statussen inside the write transaction, so
// the at-most-one-initial-status rule holds under concurrent creation.
func (r Repo) CountStatussenTx(ctx context.Context, tx *sql.Tx, zaakID string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM statussen WHERE zaak_id=?`, zaakID).Scan(&n)
	return n, err
}
