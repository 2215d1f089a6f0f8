package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres backs the record store with a Postgres database through the pgx
// stdlib driver. The schema is created lazily on first use.
type Postgres struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

var _ Store = (*Postgres)(nil)

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) ensureSchema(ctx context.Context) error {
	p.schemaOnce.Do(func() {
		_, p.schemaErr = p.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS contents (
    id           TEXT NOT NULL,
    user_id      TEXT NOT NULL,
    channel      TEXT NOT NULL DEFAULT '',
    platform     TEXT NOT NULL DEFAULT '',
    content_type TEXT NOT NULL DEFAULT '',
    post_type    TEXT NOT NULL DEFAULT '',
    idea         TEXT NOT NULL DEFAULT '',
    body         TEXT NOT NULL DEFAULT '',
    media_url    TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'generated',
    scheduled_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (user_id, id)
);
CREATE TABLE IF NOT EXISTS leads (
    id           TEXT NOT NULL,
    user_id      TEXT NOT NULL,
    name         TEXT NOT NULL DEFAULT '',
    email        TEXT NOT NULL DEFAULT '',
    phone        TEXT NOT NULL DEFAULT '',
    source       TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'New',
    remarks      TEXT NOT NULL DEFAULT '',
    follow_up_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (user_id, id)
);`)
	})
	return p.schemaErr
}

func (p *Postgres) InsertContent(ctx context.Context, rec ContentRecord) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, `
INSERT INTO contents (id, user_id, channel, platform, content_type, post_type, idea, body, media_url, status, scheduled_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		rec.ID, rec.UserID, rec.Channel, rec.Platform, rec.ContentType, rec.PostType,
		rec.Idea, rec.Body, rec.MediaURL, rec.Status, rec.ScheduledAt, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (p *Postgres) UpdateContent(ctx context.Context, rec ContentRecord) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, `
UPDATE contents SET channel=$3, platform=$4, content_type=$5, post_type=$6, idea=$7, body=$8, media_url=$9, status=$10, scheduled_at=$11, updated_at=$12
WHERE user_id=$1 AND id=$2`,
		rec.UserID, rec.ID, rec.Channel, rec.Platform, rec.ContentType, rec.PostType,
		rec.Idea, rec.Body, rec.MediaURL, rec.Status, rec.ScheduledAt, rec.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (p *Postgres) DeleteContent(ctx context.Context, userID, id string) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, `DELETE FROM contents WHERE user_id=$1 AND id=$2`, userID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (p *Postgres) ListContent(ctx context.Context, userID string, f ContentFilter) ([]ContentRecord, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}
	query := `SELECT id, user_id, channel, platform, content_type, post_type, idea, body, media_url, status, scheduled_at, created_at, updated_at FROM contents WHERE user_id=$1`
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status=$%d", len(args))
	}
	if f.Platform != "" {
		args = append(args, f.Platform)
		query += fmt.Sprintf(" AND platform ILIKE $%d", len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(" AND (idea ILIKE $%d OR body ILIKE $%d)", len(args), len(args))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.Until != nil {
		args = append(args, *f.Until)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContentRecord
	for rows.Next() {
		var rec ContentRecord
		var scheduledAt sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Channel, &rec.Platform, &rec.ContentType,
			&rec.PostType, &rec.Idea, &rec.Body, &rec.MediaURL, &rec.Status,
			&scheduledAt, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if scheduledAt.Valid {
			t := scheduledAt.Time
			rec.ScheduledAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (p *Postgres) InsertLead(ctx context.Context, rec LeadRecord) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := p.db.ExecContext(ctx, `
INSERT INTO leads (id, user_id, name, email, phone, source, status, remarks, follow_up_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, rec.UserID, rec.Name, rec.Email, rec.Phone, rec.Source, rec.Status,
		rec.Remarks, rec.FollowUpAt, rec.CreatedAt, rec.UpdatedAt)
	return err
}

func (p *Postgres) UpdateLead(ctx context.Context, rec LeadRecord) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, `
UPDATE leads SET name=$3, email=$4, phone=$5, source=$6, status=$7, remarks=$8, follow_up_at=$9, updated_at=$10
WHERE user_id=$1 AND id=$2`,
		rec.UserID, rec.ID, rec.Name, rec.Email, rec.Phone, rec.Source, rec.Status,
		rec.Remarks, rec.FollowUpAt, rec.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (p *Postgres) DeleteLead(ctx context.Context, userID, id string) error {
	if err := p.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, `DELETE FROM leads WHERE user_id=$1 AND id=$2`, userID, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (p *Postgres) ListLeads(ctx context.Context, userID string, f LeadFilter) ([]LeadRecord, error) {
	if err := p.ensureSchema(ctx); err != nil {
		return nil, err
	}
	query := `SELECT id, user_id, name, email, phone, source, status, remarks, follow_up_at, created_at, updated_at FROM leads WHERE user_id=$1`
	args := []any{userID}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status ILIKE $%d", len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR remarks ILIKE $%d)", len(args), len(args), len(args))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeadRecord
	for rows.Next() {
		var rec LeadRecord
		var followUp sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Email, &rec.Phone,
			&rec.Source, &rec.Status, &rec.Remarks, &followUp, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		if followUp.Valid {
			t := followUp.Time
			rec.FollowUpAt = &t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
