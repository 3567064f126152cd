// Package service implements the newsletter operations pipeline: ingestion,
// rating, daily selection, campaign event population, and the editorial
// operations layered on top.
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"newsdesk/internal/feed"
	"newsdesk/internal/llm"
	"newsdesk/internal/selection"
	"newsdesk/pkg/models"
)

// Task keys claimed through the daily-run guard.
const (
	TaskDailySelection = "daily_selection_run"
	TaskRSSProcessing  = "last_rss_processing_run"
)

// snapshotWindow bounds the content snapshot the selector ranks.
const snapshotWindow = 24 * time.Hour

// Store is the persistence surface the service depends on.
type Store interface {
	SaveContentItems(ctx context.Context, items []*models.ContentItem) (int, error)
	RecentContentItems(ctx context.Context, since time.Time) ([]models.ContentItem, error)
	UnratedContentItems(ctx context.Context, since time.Time) ([]models.ContentItem, error)
	SaveRating(ctx context.Context, r *models.Rating) error
	RatingFor(ctx context.Context, contentItemID string) (*models.Rating, error)
	RatingsFor(ctx context.Context, ids []string) (map[string]models.Rating, error)

	CampaignByID(ctx context.Context, id string) (*models.Campaign, error)
	CampaignByDate(ctx context.Context, refDate string) (*models.Campaign, error)
	EnsureCampaign(ctx context.Context, refDate string) (*models.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, id string, status models.CampaignStatus) error
	UpdateCampaignSubject(ctx context.Context, id string, subject string) error

	UpsertArticle(ctx context.Context, a *models.Article) (bool, error)
	ArticlesForCampaign(ctx context.Context, campaignID string) ([]models.Article, error)
	SetArticleActive(ctx context.Context, id string, active bool) error

	CreateEvent(ctx context.Context, e *models.Event) error
	ListEvents(ctx context.Context, f models.EventFilter) ([]models.Event, error)
	ActiveEventsOnDates(ctx context.Context, dates []string) ([]models.Event, error)
	SetEventActive(ctx context.Context, id string, active bool) error
	LinkCampaignEvent(ctx context.Context, link *models.CampaignEvent) (bool, error)
	CampaignEventsFor(ctx context.Context, campaignID string) ([]models.CampaignEvent, error)
	SetCampaignEventFlags(ctx context.Context, campaignID, eventID, eventDate string, selected, featured bool) error

	CreateAd(ctx context.Context, a *models.Ad) error
	AdByID(ctx context.Context, id string) (*models.Ad, error)
	ListAds(ctx context.Context, status models.AdStatus, limit int) ([]models.Ad, error)
	UpdateAdStatus(ctx context.Context, id string, status models.AdStatus) error

	TryMarkRun(ctx context.Context, taskKey, today string) (bool, error)
	LastRun(ctx context.Context, taskKey string) (string, error)
	ResetRun(ctx context.Context, taskKey string) error
}

// Rater scores one content item.
type Rater interface {
	RateArticle(ctx context.Context, title, body string) (llm.Scores, error)
}

// Fetcher pulls configured feeds.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []feed.Source) []models.ContentItem
}

// Publisher streams stored content items to downstream consumers.
type Publisher interface {
	PublishContentItem(ctx context.Context, item models.ContentItem) error
}

type Service struct {
	store    Store
	rdb      *redis.Client
	rater    Rater
	fetcher  Fetcher
	producer Publisher
	feeds    []feed.Source
	weights  selection.Weights
	limit    int
	logger   *slog.Logger
	now      func() time.Time
}

// Options tunes the optional collaborators and selection behavior.
type Options struct {
	Redis    *redis.Client
	Rater    Rater
	Fetcher  Fetcher
	Producer Publisher
	Feeds    []feed.Source
	Weights  selection.Weights
	Limit    int
	Logger   *slog.Logger
}

func NewService(store Store, opts Options) *Service {
	if opts.Weights.IsZero() {
		opts.Weights = selection.DefaultWeights()
	}
	if opts.Limit <= 0 {
		opts.Limit = selection.DefaultLimit
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:    store,
		rdb:      opts.Redis,
		rater:    opts.Rater,
		fetcher:  opts.Fetcher,
		producer: opts.Producer,
		feeds:    opts.Feeds,
		weights:  opts.Weights,
		limit:    opts.Limit,
		logger:   opts.Logger,
		now:      time.Now,
	}
}
