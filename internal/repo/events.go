package repo

import (
	"context"

	"github.com/VNG-Realisatie/zaken-api-sub000/internal/domain"
)

// EventsAfter returns at most limit events with id greater than cursor,
// optionally scoped to one zaak. Used by the notification dispatcher and the
// log CLI.
func (r Repo) EventsAfter(ctx context.Context, limit int, cursor int64, zaakID string) ([]domain.Event, error) {
	query := `SELECT id,ts,type,COALESCE(zaak_id,''),entity_kind,COALESCE(entity_id,''),actor_id,payload_json FROM events WHERE id>?`
	args := []any{cursor}
	if zaakID != "" {
		query += ` AND zaak_id=?`
		args = append(args, zaakID)
	}
	query += ` ORDER BY id LIMIT ?`
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.ZaakID, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// TailEvents returns the most recent events, newest last.
func (r Repo) TailEvents(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id,ts,type,COALESCE(zaak_id,''),entity_kind,COALESCE(entity_id,''),actor_id,payload_json
FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.ZaakID, &e.EntityKind, &e.EntityID, &e.ActorID, &e.Payload); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res, rows.Err()
}
