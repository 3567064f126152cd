package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"newsdesk/pkg/models"
)

const campaignColumns = `id, ref_date::text AS ref_date, status, subject, created_at`

// CampaignByID returns the campaign, or (nil, nil) when absent.
func (p *PgStore) CampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	err := p.db.GetContext(ctx, &c, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select campaign id=%s: %w", id, err)
	}
	return &c, nil
}

// CampaignByDate returns the campaign for a reference date, or (nil, nil).
func (p *PgStore) CampaignByDate(ctx context.Context, refDate string) (*models.Campaign, error) {
	var c models.Campaign
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE ref_date = $1::date`
	err := p.db.GetContext(ctx, &c, query, refDate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select campaign date=%s: %w", refDate, err)
	}
	return &c, nil
}

// EnsureCampaign creates a draft campaign for the date if none exists and
// returns the surviving row. Concurrent creators race safely on the ref_date
// uniqueness: the loser's insert is a no-op and both read the same row back.
func (p *PgStore) EnsureCampaign(ctx context.Context, refDate string) (*models.Campaign, error) {
	stmt := `
INSERT INTO campaigns (id, ref_date, status)
VALUES ($1, $2::date, $3)
ON CONFLICT (ref_date) DO NOTHING
`
	_, err := p.db.ExecContext(ctx, stmt, uuid.New().String(), refDate, models.CampaignDraft)
	if err != nil {
		return nil, fmt.Errorf("insert campaign date=%s: %w", refDate, err)
	}
	c, err := p.CampaignByDate(ctx, refDate)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("campaign date=%s missing after ensure", refDate)
	}
	return c, nil
}

func (p *PgStore) UpdateCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) error {
	_, err := p.db.ExecContext(ctx, `UPDATE campaigns SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update campaign status id=%s: %w", id, err)
	}
	return nil
}

func (p *PgStore) UpdateCampaignSubject(ctx context.Context, id string, subject string) error {
	_, err := p.db.ExecContext(ctx, `UPDATE campaigns SET subject = $1 WHERE id = $2`, subject, id)
	if err != nil {
		return fmt.Errorf("update campaign subject id=%s: %w", id, err)
	}
	return nil
}

// UpsertArticle promotes a content item into a campaign. Re-running selection
// never overwrites an existing article: editorial edits and the active flag
// survive, and the insert reports whether a new row was created.
func (p *PgStore) UpsertArticle(ctx context.Context, a *models.Article) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	stmt := `
INSERT INTO articles (id, campaign_id, content_item_id, headline, body, score, active)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (campaign_id, content_item_id) DO NOTHING
`
	res, err := p.db.ExecContext(ctx, stmt,
		a.ID, a.CampaignID, a.ContentItemID, a.Headline, a.Body, a.Score, a.Active)
	if err != nil {
		return false, fmt.Errorf("insert article campaign=%s item=%s: %w", a.CampaignID, a.ContentItemID, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ArticlesForCampaign lists a campaign's articles, highest score first.
func (p *PgStore) ArticlesForCampaign(ctx context.Context, campaignID string) ([]models.Article, error) {
	rows := []models.Article{}
	query := `
SELECT id, campaign_id, content_item_id, headline, body, score, active, created_at
FROM articles
WHERE campaign_id = $1
ORDER BY score DESC, created_at ASC
`
	err := p.db.SelectContext(ctx, &rows, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("select articles campaign=%s: %w", campaignID, err)
	}
	return rows, nil
}

// SetArticleActive flips inclusion without deleting the row.
func (p *PgStore) SetArticleActive(ctx context.Context, id string, active bool) error {
	res, err := p.db.ExecContext(ctx, `UPDATE articles SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("update article active id=%s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
