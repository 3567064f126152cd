package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"newsdesk/pkg/models"
)

const eventColumns = `id, title, venue, start_date::text AS start_date, url, description, active, created_at`

func (p *PgStore) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	stmt := `
INSERT INTO events (id, title, venue, start_date, url, description, active)
VALUES ($1,$2,$3,$4::date,$5,$6,$7)
`
	_, err := p.db.ExecContext(ctx, stmt,
		e.ID, e.Title, e.Venue, e.StartDate, e.URL, e.Description, e.Active)
	if err != nil {
		return fmt.Errorf("insert event id=%s: %w", e.ID, err)
	}
	return nil
}

// ListEvents returns events matching the filter, earliest first.
func (p *PgStore) ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}

	b := p.sb.Select(eventColumns).
		From("events").
		OrderBy("start_date ASC", "created_at ASC").
		Limit(uint64(f.Limit))
	if f.From != "" {
		b = b.Where(sq.GtOrEq{"start_date": f.From})
	}
	if f.To != "" {
		b = b.Where(sq.LtOrEq{"start_date": f.To})
	}
	if f.ActiveOnly {
		b = b.Where(sq.Eq{"active": true})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build events query: %w", err)
	}

	rows := []models.Event{}
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	return rows, nil
}

// ActiveEventsOnDates returns active events whose calendar start date matches
// one of the given dates, ordered by start date. This ordering drives the
// populator's display_order assignment.
func (p *PgStore) ActiveEventsOnDates(ctx context.Context, dates []string) ([]models.Event, error) {
	if len(dates) == 0 {
		return []models.Event{}, nil
	}
	rows := []models.Event{}
	query := `
SELECT ` + eventColumns + `
FROM events
WHERE active = TRUE AND start_date = ANY($1::date[])
ORDER BY start_date ASC, created_at ASC
`
	err := p.db.SelectContext(ctx, &rows, query, pq.Array(dates))
	if err != nil {
		return nil, fmt.Errorf("select events on dates: %w", err)
	}
	return rows, nil
}

// SetEventActive flips an event's listing flag.
func (p *PgStore) SetEventActive(ctx context.Context, id string, active bool) error {
	res, err := p.db.ExecContext(ctx, `UPDATE events SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("update event active id=%s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// LinkCampaignEvent inserts one campaign/event/date link. The insert is an
// idempotent merge: on conflict with the (campaign_id, event_id, event_date)
// uniqueness it leaves the existing row, and its curator flags, untouched.
// Returns whether a new link was created.
func (p *PgStore) LinkCampaignEvent(ctx context.Context, link *models.CampaignEvent) (bool, error) {
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	stmt := `
INSERT INTO campaign_events (id, campaign_id, event_id, event_date, is_selected, is_featured, display_order)
VALUES ($1,$2,$3,$4::date,$5,$6,$7)
ON CONFLICT (campaign_id, event_id, event_date) DO NOTHING
`
	res, err := p.db.ExecContext(ctx, stmt,
		link.ID, link.CampaignID, link.EventID, link.EventDate,
		link.IsSelected, link.IsFeatured, link.DisplayOrder)
	if err != nil {
		return false, fmt.Errorf("insert campaign event campaign=%s event=%s date=%s: %w",
			link.CampaignID, link.EventID, link.EventDate, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// CampaignEventsFor lists a campaign's event links in display order.
func (p *PgStore) CampaignEventsFor(ctx context.Context, campaignID string) ([]models.CampaignEvent, error) {
	rows := []models.CampaignEvent{}
	query := `
SELECT id, campaign_id, event_id, event_date::text AS event_date,
       is_selected, is_featured, display_order, created_at
FROM campaign_events
WHERE campaign_id = $1
ORDER BY event_date ASC, display_order ASC
`
	err := p.db.SelectContext(ctx, &rows, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("select campaign events campaign=%s: %w", campaignID, err)
	}
	return rows, nil
}

// SetCampaignEventFlags records a curator decision on one link.
func (p *PgStore) SetCampaignEventFlags(ctx context.Context, campaignID, eventID, eventDate string, selected, featured bool) error {
	stmt := `
UPDATE campaign_events
SET is_selected = $1, is_featured = $2
WHERE campaign_id = $3 AND event_id = $4 AND event_date = $5::date
`
	res, err := p.db.ExecContext(ctx, stmt, selected, featured, campaignID, eventID, eventDate)
	if err != nil {
		return fmt.Errorf("update campaign event flags campaign=%s event=%s: %w", campaignID, eventID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
