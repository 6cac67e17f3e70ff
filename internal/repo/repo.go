package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// IsDuplicateZaak reports a violation of the (bronorganisatie, identificatie)
// uniqueness constraint.
func IsDuplicateZaak(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: zaken.bronorganisatie, zaken.identificatie")
}

const zaakColumns = `id,identificatie,bronorganisatie,zaaktype,COALESCE(omschrijving,''),registratiedatum,startdatum,
einddatum_gepland,uiterlijke_einddatum,einddatum,hoofdzaak,COALESCE(betalingsindicatie,''),laatste_betaaldatum,
archiefnominatie,archiefstatus,archiefactiedatum,created_at,updated_at`

func scanZaak(row interface{ Scan(...any) error }) (domain.Zaak, error) {
	var z domain.Zaak
	err := row.Scan(
		&z.ID, &z.Identificatie, &z.Bronorganisatie, &z.Zaaktype, &z.Omschrijving,
		&z.Registratiedatum, &z.Startdatum,
		&z.EinddatumGepland, &z.UiterlijkeEinddatum, &z.Einddatum, &z.Hoofdzaak,
		&z.Betalingsindicatie, &z.LaatsteBetaaldatum,
		&z.Archiefnominatie, &z.Archiefstatus, &z.Archiefactiedatum,
		&z.CreatedAt, &z.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return z, ErrNotFound
	}
	return z, err
}

func (r Repo) InsertZaakTx(ctx context.Context, tx *sql.Tx, z domain.Zaak) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO zaken(
id,identificatie,bronorganisatie,zaaktype,omschrijving,registratiedatum,startdatum,
einddatum_gepland,uiterlijke_einddatum,einddatum,hoofdzaak,betalingsindicatie,laatste_betaaldatum,
archiefnominatie,archiefstatus,archiefactiedatum,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		z.ID, z.Identificatie, z.Bronorganisatie, z.Zaaktype, nullable(z.Omschrijving),
		z.Registratiedatum, z.Startdatum,
		z.EinddatumGepland, z.UiterlijkeEinddatum, z.Einddatum, z.Hoofdzaak,
		nullable(z.Betalingsindicatie), z.LaatsteBetaaldatum,
		z.Archiefnominatie, z.Archiefstatus, z.Archiefactiedatum,
		z.CreatedAt, z.UpdatedAt)
	return err
}

func (r Repo) GetZaak(ctx context.Context, id string) (domain.Zaak, error) {
	return scanZaak(r.DB.QueryRowContext(ctx, `SELECT `+zaakColumns+` FROM zaken WHERE id=?`, id))
}

func (r Repo) GetZaakTx(ctx context.Context, tx *sql.Tx, id string) (domain.Zaak, error) {
	return scanZaak(tx.QueryRowContext(ctx, `SELECT `+zaakColumns+` FROM zaken WHERE id=?`, id))
}

func (r Repo) GetZaakByIdentificatie(ctx context.Context, bronorganisatie, identificatie string) (domain.Zaak, error) {
	return scanZaak(r.DB.QueryRowContext(ctx,
		`SELECT `+zaakColumns+` FROM zaken WHERE bronorganisatie=? AND identificatie=?`, bronorganisatie, identificatie))
}

func (r Repo) ListZaken(ctx context.Context) ([]domain.Zaak, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+zaakColumns+` FROM zaken ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Zaak
	for rows.Next() {
		z, err := scanZaak(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, z)
	}
	return res, rows.Err()
}

// UpdateZaakTx rewrites all mutable zaak fields.
func (r Repo) UpdateZaakTx(ctx context.Context, tx *sql.Tx, z domain.Zaak) error {
	res, err := tx.ExecContext(ctx, `UPDATE zaken SET
zaaktype=?, omschrijving=?, startdatum=?, einddatum_gepland=?, uiterlijke_einddatum=?,
einddatum=?, hoofdzaak=?, betalingsindicatie=?, laatste_betaaldatum=?,
archiefnominatie=?, archiefstatus=?, archiefactiedatum=?, updated_at=?
WHERE id=?`,
		z.Zaaktype, nullable(z.Omschrijving), z.Startdatum, z.EinddatumGepland, z.UiterlijkeEinddatum,
		z.Einddatum, z.Hoofdzaak, nullable(z.Betalingsindicatie), z.LaatsteBetaaldatum,
		z.Archiefnominatie, z.Archiefstatus, z.Archiefactiedatum, z.UpdatedAt,
		z.ID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteZaakTx removes the zaak; dependent rows cascade via foreign keys.
// Besluit links intentionally do not cascade, callers check them first.
func (r Repo) DeleteZaakTx(ctx context.Context, tx *sql.Tx, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM zaken WHERE id=?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) ListDeelzaken(ctx context.Context, hoofdzaakID string) ([]domain.Zaak, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+zaakColumns+` FROM zaken WHERE hoofdzaak=?`, hoofdzaakID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Zaak
	for rows.Next() {
		z, err := scanZaak(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, z)
	}
	return res, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
