package repo

import (
	"context"
	"database/sql"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
)

const resultaatColumns = `id,zaak_id,resultaattype,COALESCE(toelichting,''),created_at`

func scanResultaat(row interface{ Scan(...any) error }) (domain.Resultaat, error) {
	var res domain.Resultaat
	err := row.Scan(&res.ID, &res.ZaakID, &res.Resultaattype, &res.Toelichting, &res.CreatedAt)
	if err == sql.ErrNoRows {
		return res, ErrNotFound
	}
	return res, err
}

// UpsertResultaatTx replaces any prior resultaat on the zaak; a zaak carries
// at most one.
func (r Repo) UpsertResultaatTx(ctx context.Context, tx *sql.Tx, res domain.Resultaat) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM resultaten WHERE zaak_id=?`, res.ZaakID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO resultaten(id,zaak_id,resultaattype,toelichting,created_at) VALUES (?,?,?,?,?)`,
		res.ID, res.ZaakID, res.Resultaattype, nullable(res.Toelichting), res.CreatedAt)
	return err
}

func (r Repo) GetResultaat(ctx context.Context, id string) (domain.Resultaat, error) {
	return scanResultaat(r.DB.QueryRowContext(ctx, `SELECT `+resultaatColumns+` FROM resultaten WHERE id=?`, id))
}

func (r Repo) GetResultaatByZaak(ctx context.Context, zaakID string) (domain.Resultaat, error) {
	return scanResultaat(r.DB.QueryRowContext(ctx, `SELECT `+resultaatColumns+` FROM resultaten WHERE zaak_id=?`, zaakID))
}

func (r Repo) DeleteResultaatTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM resultaten WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
