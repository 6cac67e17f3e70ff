package repo

import (
	"context"
	"database/sql"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
)

func (r Repo) InsertKlantContactTx(ctx context.Context, tx *sql.Tx, kc domain.KlantContact) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO klantcontacten(id,zaak_id,identificatie,datumtijd,kanaal,onderwerp,toelichting,created_at) VALUES (?,?,?,?,?,?,?,?)`,
		kc.ID, kc.ZaakID, kc.Identificatie, kc.Datumtijd, nullable(kc.Kanaal), nullable(kc.Onderwerp), nullable(kc.Toelichting), kc.CreatedAt)
	return err
}

func (r Repo) ListKlantContacten(ctx context.Context, zaakID string) ([]domain.KlantContact, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,zaak_id,identificatie,datumtijd,COALESCE(kanaal,''),COALESCE(onderwerp,''),COALESCE(toelichting,''),created_at
FROM klantcontacten WHERE zaak_id=? ORDER BY datumtijd`, zaakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.KlantContact
	for rows.Next() {
		var kc domain.KlantContact
		if err := rows.Scan(&kc.ID, &kc.ZaakID, &kc.Identificatie, &kc.Datumtijd, &kc.Kanaal, &kc.Onderwerp, &kc.Toelichting, &kc.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, kc)
	}
	return res, rows.Err()
}

// NextKlantContactIdentificatie issues a sequential identification per year.
func (r Repo) NextKlantContactIdentificatie(ctx context.Context, tx *sql.Tx, year string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM klantcontacten WHERE identificatie LIKE ?`, year+"-%").Scan(&n)
	return n + 1, err
}
