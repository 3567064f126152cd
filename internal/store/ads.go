package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"newsdesk/pkg/models"
)

func (p *PgStore) CreateAd(ctx context.Context, a *models.Ad) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	stmt := `
INSERT INTO ads (id, title, body, advertiser, url, status)
VALUES ($1,$2,$3,$4,$5,$6)
`
	_, err := p.db.ExecContext(ctx, stmt, a.ID, a.Title, a.Body, a.Advertiser, a.URL, a.Status)
	if err != nil {
		return fmt.Errorf("insert ad id=%s: %w", a.ID, err)
	}
	return nil
}

func (p *PgStore) AdByID(ctx context.Context, id string) (*models.Ad, error) {
	var a models.Ad
	query := `SELECT id, title, body, advertiser, url, status, created_at FROM ads WHERE id = $1`
	err := p.db.GetContext(ctx, &a, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select ad id=%s: %w", id, err)
	}
	return &a, nil
}

// ListAds returns ads newest first, optionally narrowed to one status.
func (p *PgStore) ListAds(ctx context.Context, status models.AdStatus, limit int) ([]models.Ad, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	b := p.sb.Select("id, title, body, advertiser, url, status, created_at").
		From("ads").
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if status != "" {
		b = b.Where(sq.Eq{"status": status})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ads query: %w", err)
	}

	rows := []models.Ad{}
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ads: %w", err)
	}
	return rows, nil
}

func (p *PgStore) UpdateAdStatus(ctx context.Context, id string, status models.AdStatus) error {
	res, err := p.db.ExecContext(ctx, `UPDATE ads SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update ad status id=%s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
