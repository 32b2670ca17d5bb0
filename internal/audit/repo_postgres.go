package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo journals events to Postgres.
//
// Expected schema:
//
//	CREATE TABLE portal_audit_events (
//	    id             uuid PRIMARY KEY,
//	    type           text NOT NULL,
//	    actor_user_id  text NOT NULL DEFAULT '',
//	    actor_username text NOT NULL DEFAULT '',
//	    ip_address     text NOT NULL DEFAULT '',
//	    message        text NOT NULL DEFAULT '',
//	    metadata       text NOT NULL DEFAULT '',
//	    created_at     timestamptz NOT NULL
//	);
//
// INSERT-only; no UPDATE or DELETE is ever issued.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO portal_audit_events (id, type, actor_user_id, actor_username, ip_address, message, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		string(e.Type),
		e.ActorUserID,
		e.ActorUsername,
		e.IPAddress,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
