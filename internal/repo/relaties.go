package repo

import (
	"context"
	"database/sql"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
)

// Zaakeigenschappen

func (r Repo) InsertZaakEigenschapTx(ctx context.Context, tx *sql.Tx, e domain.ZaakEigenschap) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO zaakeigenschappen(id,zaak_id,eigenschap,naam,waarde,created_at) VALUES (?,?,?,?,?,?)`,
		e.ID, e.ZaakID, e.Eigenschap, e.Naam, nullable(e.Waarde), e.CreatedAt)
	return err
}

func (r Repo) ListZaakEigenschappen(ctx context.Context, zaakID string) ([]domain.ZaakEigenschap, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,zaak_id,eigenschap,naam,COALESCE(waarde,''),created_at FROM zaakeigenschappen WHERE zaak_id=?`, zaakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ZaakEigenschap
	for rows.Next() {
		var e domain.ZaakEigenschap
		if err := rows.Scan(&e.ID, &e.ZaakID, &e.Eigenschap, &e.Naam, &e.Waarde, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Zaakobjecten

func (r Repo) InsertZaakObjectTx(ctx context.Context, tx *sql.Tx, o domain.ZaakObject) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO zaakobjecten(id,zaak_id,object,object_type,relatieomschrijving,created_at) VALUES (?,?,?,?,?,?)`,
		o.ID, o.ZaakID, o.Object, o.ObjectType, nullable(o.RelatieOmschrijving), o.CreatedAt)
	return err
}

func (r Repo) ListZaakObjecten(ctx context.Context, zaakID string) ([]domain.ZaakObject, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,zaak_id,object,object_type,COALESCE(relatieomschrijving,''),created_at FROM zaakobjecten WHERE zaak_id=?`, zaakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ZaakObject
	for rows.Next() {
		var o domain.ZaakObject
		if err := rows.Scan(&o.ID, &o.ZaakID, &o.Object, &o.ObjectType, &o.RelatieOmschrijving, &o.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, rows.Err()
}

// Zaakinformatieobjecten

func (r Repo) InsertZaakInformatieObjectTx(ctx context.Context, tx *sql.Tx, zio domain.ZaakInformatieObject) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO zaakinformatieobjecten(id,zaak_id,informatieobject,titel,beschrijving,created_at) VALUES (?,?,?,?,?,?)`,
		zio.ID, zio.ZaakID, zio.InformatieObject, nullable(zio.Titel), nullable(zio.Beschrijving), zio.CreatedAt)
	return err
}

func (r Repo) ListZaakInformatieObjecten(ctx context.Context, zaakID string) ([]domain.ZaakInformatieObject, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,zaak_id,informatieobject,COALESCE(titel,''),COALESCE(beschrijving,''),created_at FROM zaakinformatieobjecten WHERE zaak_id=?`, zaakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.ZaakInformatieObject
	for rows.Next() {
		var zio domain.ZaakInformatieObject
		if err := rows.Scan(&zio.ID, &zio.ZaakID, &zio.InformatieObject, &zio.Titel, &zio.Beschrijving, &zio.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, zio)
	}
	return res, rows.Err()
}

// Zaakbesluiten

func (r Repo) InsertZaakBesluitTx(ctx context.Context, tx *sql.Tx, b domain.ZaakBesluit) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO zaakbesluiten(id,zaak_id,besluit,created_at) VALUES (?,?,?,?)`,
		b.ID, b.ZaakID, b.Besluit, b.CreatedAt)
	return err
}

func (r Repo) DeleteZaakBesluitTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM zaakbesluiten WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetZaakBesluit(ctx context.Context, id string) (domain.ZaakBesluit, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,zaak_id,besluit,created_at FROM zaakbesluiten WHERE id=?`, id)
	var b domain.ZaakBesluit
	err := row.Scan(&b.ID, &b.ZaakID, &b.Besluit, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return b, ErrNotFound
	}
	return b, err
}

func (r Repo) CountZaakBesluiten(ctx context.Context, zaakID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM zaakbesluiten WHERE zaak_id=?`, zaakID).Scan(&n)
	return n, err
}

func (r Repo) DeleteZaakBesluitenByZaakTx(ctx context.Context, tx *sql.Tx, zaakID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM zaakbesluiten WHERE zaak_id=?`, zaakID)
	return err
}

// Relevante zaken

func (r Repo) InsertRelevanteZaakTx(ctx context.Context, tx *sql.Tx, rel domain.RelevanteZaak) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO relevante_zaken(zaak_id,relevante_zaak,aard_relatie,created_at) VALUES (?,?,?,?)`,
		rel.ZaakID, rel.RelevanteZaak, rel.AardRelatie, rel.CreatedAt)
	return err
}

func (r Repo) ListRelevanteZaken(ctx context.Context, zaakID string) ([]domain.RelevanteZaak, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT zaak_id,relevante_zaak,aard_relatie,created_at FROM relevante_zaken WHERE zaak_id=?`, zaakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.RelevanteZaak
	for rows.Next() {
		var rel domain.RelevanteZaak
		if err := rows.Scan(&rel.ZaakID, &rel.RelevanteZaak, &rel.AardRelatie, &rel.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, rel)
	}
	return res, rows.Err()
}
