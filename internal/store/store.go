// Package store persists newsdesk entities in Postgres through sqlx.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	dbtypes "newsdesk/internal/db"
	"newsdesk/pkg/models"
)

type PgStore struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{
		db: sqlx.NewDb(db, "postgres"),
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS content_items(
  id UUID PRIMARY KEY,
  title TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL,
  published_at TIMESTAMP NOT NULL,
  source TEXT NOT NULL DEFAULT '',
  topics JSONB NOT NULL DEFAULT '[]',
  created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_content_items_created ON content_items(created_at);

CREATE TABLE IF NOT EXISTS ratings(
  content_item_id UUID PRIMARY KEY REFERENCES content_items(id),
  interest INT NOT NULL,
  local_relevance INT NOT NULL,
  community_impact INT NOT NULL,
  total INT NOT NULL,
  rated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS campaigns(
  id UUID PRIMARY KEY,
  ref_date DATE NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'draft',
  subject TEXT,
  created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS articles(
  id UUID PRIMARY KEY,
  campaign_id UUID NOT NULL REFERENCES campaigns(id),
  content_item_id UUID NOT NULL REFERENCES content_items(id),
  headline TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  score INT NOT NULL DEFAULT 0,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMP NOT NULL DEFAULT NOW(),
  UNIQUE(campaign_id, content_item_id)
);
CREATE INDEX IF NOT EXISTS idx_articles_campaign ON articles(campaign_id);

CREATE TABLE IF NOT EXISTS events(
  id UUID PRIMARY KEY,
  title TEXT NOT NULL,
  venue TEXT NOT NULL DEFAULT '',
  start_date DATE NOT NULL,
  url TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_date);

CREATE TABLE IF NOT EXISTS campaign_events(
  id UUID PRIMARY KEY,
  campaign_id UUID NOT NULL REFERENCES campaigns(id),
  event_id UUID NOT NULL REFERENCES events(id),
  event_date DATE NOT NULL,
  is_selected BOOLEAN NOT NULL DEFAULT FALSE,
  is_featured BOOLEAN NOT NULL DEFAULT FALSE,
  display_order INT NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL DEFAULT NOW(),
  UNIQUE(campaign_id, event_id, event_date)
);

CREATE TABLE IF NOT EXISTS ads(
  id UUID PRIMARY KEY,
  title TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  advertiser TEXT NOT NULL DEFAULT '',
  url TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS task_runs(
  task_key TEXT PRIMARY KEY,
  last_run DATE NOT NULL
);
`
	_, err := db.Exec(initSQL)
	return err
}

const contentItemColumns = `id, title, body, url, published_at, source, topics, created_at`

// SaveContentItems inserts new items and silently skips ones already seen.
// Items are immutable once ingested, so conflicts never overwrite.
func (p *PgStore) SaveContentItems(ctx context.Context, items []*models.ContentItem) (int, error) {
	stmt := `
INSERT INTO content_items (id, title, body, url, published_at, source, topics)
VALUES ($1,$2,$3,$4,$5,$6,$7::jsonb)
ON CONFLICT (id) DO NOTHING
`
	created := 0
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		if it.Topics == nil {
			it.Topics = dbtypes.StringSlice{}
		}
		if it.PublishedAt.IsZero() {
			it.PublishedAt = time.Now().UTC()
		}
		res, err := p.db.ExecContext(ctx, stmt,
			it.ID, it.Title, it.Body, it.URL, it.PublishedAt, it.Source, it.Topics)
		if err != nil {
			return created, fmt.Errorf("insert content item id=%s: %w", it.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			created++
		}
	}
	return created, nil
}

// RecentContentItems returns items ingested since the cutoff, oldest first so
// the selection tie-break follows ingest order.
func (p *PgStore) RecentContentItems(ctx context.Context, since time.Time) ([]models.ContentItem, error) {
	rows := []models.ContentItem{}
	query := `
SELECT ` + contentItemColumns + `
FROM content_items
WHERE created_at >= $1
ORDER BY created_at ASC
`
	err := p.db.SelectContext(ctx, &rows, query, since)
	if err != nil {
		return nil, fmt.Errorf("select recent content items: %w", err)
	}
	return rows, nil
}

// UnratedContentItems returns recent items that have no rating row yet.
func (p *PgStore) UnratedContentItems(ctx context.Context, since time.Time) ([]models.ContentItem, error) {
	rows := []models.ContentItem{}
	query := `
SELECT c.id, c.title, c.body, c.url, c.published_at, c.source, c.topics, c.created_at
FROM content_items c
LEFT JOIN ratings r ON r.content_item_id = c.id
WHERE c.created_at >= $1 AND r.content_item_id IS NULL
ORDER BY c.created_at ASC
`
	err := p.db.SelectContext(ctx, &rows, query, since)
	if err != nil {
		return nil, fmt.Errorf("select unrated content items: %w", err)
	}
	return rows, nil
}

// SaveRating upserts the component scores for one item. The caller computes
// the total from the components; it is never accepted independently of them.
func (p *PgStore) SaveRating(ctx context.Context, r *models.Rating) error {
	stmt := `
INSERT INTO ratings (content_item_id, interest, local_relevance, community_impact, total)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (content_item_id) DO UPDATE SET
 interest=EXCLUDED.interest,
 local_relevance=EXCLUDED.local_relevance,
 community_impact=EXCLUDED.community_impact,
 total=EXCLUDED.total,
 rated_at=NOW()
`
	_, err := p.db.ExecContext(ctx, stmt,
		r.ContentItemID, r.Interest, r.LocalRelevance, r.CommunityImpact, r.Total)
	if err != nil {
		return fmt.Errorf("upsert rating item=%s: %w", r.ContentItemID, err)
	}
	return nil
}

// RatingFor returns the rating for one item, or (nil, nil) when the item has
// not been rated. Missing ratings are a normal state, not an error.
func (p *PgStore) RatingFor(ctx context.Context, contentItemID string) (*models.Rating, error) {
	var r models.Rating
	query := `
SELECT content_item_id, interest, local_relevance, community_impact, total, rated_at
FROM ratings
WHERE content_item_id = $1
`
	err := p.db.GetContext(ctx, &r, query, contentItemID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select rating item=%s: %w", contentItemID, err)
	}
	return &r, nil
}

// RatingsFor returns the ratings present for the given item IDs, keyed by
// item ID. Items without a rating are simply absent from the map.
func (p *PgStore) RatingsFor(ctx context.Context, ids []string) (map[string]models.Rating, error) {
	out := map[string]models.Rating{}
	if len(ids) == 0 {
		return out, nil
	}
	rows := []models.Rating{}
	query := `
SELECT content_item_id, interest, local_relevance, community_impact, total, rated_at
FROM ratings
WHERE content_item_id = ANY($1::uuid[])
`
	err := p.db.SelectContext(ctx, &rows, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("select ratings: %w", err)
	}
	for _, r := range rows {
		out[r.ContentItemID] = r
	}
	return out, nil
}
