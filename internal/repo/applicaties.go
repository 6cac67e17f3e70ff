package repo

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
)

// HashSecret returns a stable SHA-256 hex digest for a client secret.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(secret)))
	return hex.EncodeToString(sum[:])
}

// InsertApplicatie registers an API consumer. SecretHash must already contain
// the hashed value.
func (r Repo) InsertApplicatie(ctx context.Context, tx *sql.Tx, app domain.Applicatie) error {
	if app.ClientID == "" {
		return errors.New("client_id required")
	}
	if app.SecretHash == "" {
		return errors.New("secret_hash required")
	}
	exec := func(query string, args ...any) (sql.Result, error) {
		if tx != nil {
			return tx.ExecContext(ctx, query, args...)
		}
		return r.DB.ExecContext(ctx, query, args...)
	}
	if app.CreatedAt == "" {
		app.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	scopes, err := json.Marshal(app.Scopes)
	if err != nil {
		return err
	}
	_, err = exec(`INSERT INTO applicaties(client_id,label,secret_hash,scopes_json,created_at) VALUES (?,?,?,?,?)`,
		app.ClientID, nullable(app.Label), app.SecretHash, string(scopes), app.CreatedAt)
	return err
}

func scanApplicatie(row interface{ Scan(...any) error }) (domain.Applicatie, error) {
	var app domain.Applicatie
	var scopesJSON string
	err := row.Scan(&app.ClientID, &app.Label, &app.SecretHash, &scopesJSON, &app.CreatedAt)
	if err == sql.ErrNoRows {
		return domain.Applicatie{}, ErrNotFound
	}
	if err != nil {
		return domain.Applicatie{}, err
	}
	if err := json.Unmarshal([]byte(scopesJSON), &app.Scopes); err != nil {
		return domain.Applicatie{}, err
	}
	return app, nil
}

func (r Repo) GetApplicatie(ctx context.Context, clientID string) (domain.Applicatie, error) {
	return scanApplicatie(r.DB.QueryRowContext(ctx,
		`SELECT client_id,COALESCE(label,''),secret_hash,scopes_json,created_at FROM applicaties WHERE client_id=?`, clientID))
}

func (r Repo) ListApplicaties(ctx context.Context) ([]domain.Applicatie, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT client_id,COALESCE(label,''),secret_hash,scopes_json,created_at FROM applicaties ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Applicatie
	for rows.Next() {
		app, err := scanApplicatie(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, app)
	}
	return res, rows.Err()
}
