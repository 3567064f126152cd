package models

import (
	"time"

	dbtypes "newsdesk/internal/db"
)

// DateOnly is the calendar-date layout used everywhere a date crosses a
// boundary. Window arithmetic is calendar-day only, no time-of-day component.
const DateOnly = "2006-01-02"

// ContentItem is one ingested feed post. Immutable after ingest except for
// promotion into a campaign via an Article.
type ContentItem struct {
	ID          string              `db:"id" json:"id"`
	Title       string              `db:"title" json:"title"`
	Body        string              `db:"body" json:"body"`
	URL         string              `db:"url" json:"url"`
	PublishedAt time.Time           `db:"published_at" json:"published_at"`
	Source      string              `db:"source" json:"source"`
	Topics      dbtypes.StringSlice `db:"topics" json:"topics"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
}

// Rating holds the AI component scores for one content item. Total is always
// recomputed from the components on write, never trusted from callers.
type Rating struct {
	ContentItemID   string    `db:"content_item_id" json:"content_item_id"`
	Interest        int       `db:"interest" json:"interest"`
	LocalRelevance  int       `db:"local_relevance" json:"local_relevance"`
	CommunityImpact int       `db:"community_impact" json:"community_impact"`
	Total           int       `db:"total" json:"total"`
	RatedAt         time.Time `db:"rated_at" json:"rated_at"`
}

// Campaign is one dated newsletter issue. RefDate is an ISO calendar date,
// unique per issue.
type Campaign struct {
	ID        string         `db:"id" json:"id"`
	RefDate   string         `db:"ref_date" json:"ref_date"`
	Status    CampaignStatus `db:"status" json:"status"`
	Subject   *string        `db:"subject" json:"subject,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Article is a ContentItem promoted into a Campaign. Excluded articles are
// deactivated, never deleted.
type Article struct {
	ID            string    `db:"id" json:"id"`
	CampaignID    string    `db:"campaign_id" json:"campaign_id"`
	ContentItemID string    `db:"content_item_id" json:"content_item_id"`
	Headline      string    `db:"headline" json:"headline"`
	Body          string    `db:"body" json:"body"`
	Score         int       `db:"score" json:"score"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Event is a community event listing, independent of any campaign.
// StartDate is an ISO calendar date; time of day is not tracked.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Venue       string    `db:"venue" json:"venue"`
	StartDate   string    `db:"start_date" json:"start_date"`
	URL         string    `db:"url" json:"url"`
	Description string    `db:"description" json:"description"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CampaignEvent links an Event to a Campaign for one calendar date inside the
// campaign's 3-day display window. (CampaignID, EventID, EventDate) is unique.
type CampaignEvent struct {
	ID           string    `db:"id" json:"id"`
	CampaignID   string    `db:"campaign_id" json:"campaign_id"`
	EventID      string    `db:"event_id" json:"event_id"`
	EventDate    string    `db:"event_date" json:"event_date"`
	IsSelected   bool      `db:"is_selected" json:"is_selected"`
	IsFeatured   bool      `db:"is_featured" json:"is_featured"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// EventFilter narrows event listings; zero values mean "no constraint".
type EventFilter struct {
	From       string
	To         string
	ActiveOnly bool
	Limit      int
}

// Ad is a sponsor placement moving through the approval workflow.
type Ad struct {
	ID         string    `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Body       string    `db:"body" json:"body"`
	Advertiser string    `db:"advertiser" json:"advertiser"`
	URL        string    `db:"url" json:"url"`
	Status     AdStatus  `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
