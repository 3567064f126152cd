package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"newsdesk/pkg/models"
)

// fakeStore is an in-memory Store mirroring the Postgres semantics the
// service relies on: conflict-ignoring link inserts, the CAS run guard, and
// the ref_date uniqueness of campaigns.
type fakeStore struct {
	items     []models.ContentItem
	ratings   map[string]models.Rating
	campaigns map[string]*models.Campaign
	articles  map[string]*models.Article
	events    map[string]*models.Event
	links     map[string]*models.CampaignEvent
	ads       map[string]*models.Ad
	runs      map[string]string

	failLinkAfter int // abort LinkCampaignEvent after this many calls; 0 = never
	linkCalls     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ratings:   map[string]models.Rating{},
		campaigns: map[string]*models.Campaign{},
		articles:  map[string]*models.Article{},
		events:    map[string]*models.Event{},
		links:     map[string]*models.CampaignEvent{},
		ads:       map[string]*models.Ad{},
		runs:      map[string]string{},
	}
}

func (f *fakeStore) SaveContentItems(_ context.Context, items []*models.ContentItem) (int, error) {
	created := 0
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		exists := false
		for _, have := range f.items {
			if have.ID == it.ID {
				exists = true
				break
			}
		}
		if !exists {
			f.items = append(f.items, *it)
			created++
		}
	}
	return created, nil
}

func (f *fakeStore) RecentContentItems(_ context.Context, since time.Time) ([]models.ContentItem, error) {
	out := []models.ContentItem{}
	for _, it := range f.items {
		if !it.CreatedAt.Before(since) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStore) UnratedContentItems(ctx context.Context, since time.Time) ([]models.ContentItem, error) {
	recent, _ := f.RecentContentItems(ctx, since)
	out := []models.ContentItem{}
	for _, it := range recent {
		if _, ok := f.ratings[it.ID]; !ok {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveRating(_ context.Context, r *models.Rating) error {
	f.ratings[r.ContentItemID] = *r
	return nil
}

func (f *fakeStore) RatingFor(_ context.Context, id string) (*models.Rating, error) {
	if r, ok := f.ratings[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (f *fakeStore) RatingsFor(_ context.Context, ids []string) (map[string]models.Rating, error) {
	out := map[string]models.Rating{}
	for _, id := range ids {
		if r, ok := f.ratings[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (f *fakeStore) CampaignByID(_ context.Context, id string) (*models.Campaign, error) {
	if c, ok := f.campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) CampaignByDate(_ context.Context, refDate string) (*models.Campaign, error) {
	for _, c := range f.campaigns {
		if c.RefDate == refDate {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) EnsureCampaign(ctx context.Context, refDate string) (*models.Campaign, error) {
	if c, _ := f.CampaignByDate(ctx, refDate); c != nil {
		return c, nil
	}
	c := &models.Campaign{
		ID:      uuid.New().String(),
		RefDate: refDate,
		Status:  models.CampaignDraft,
	}
	f.campaigns[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpdateCampaignStatus(_ context.Context, id string, status models.CampaignStatus) error {
	if c, ok := f.campaigns[id]; ok {
		c.Status = status
	}
	return nil
}

func (f *fakeStore) UpdateCampaignSubject(_ context.Context, id string, subject string) error {
	if c, ok := f.campaigns[id]; ok {
		c.Subject = &subject
	}
	return nil
}

func (f *fakeStore) UpsertArticle(_ context.Context, a *models.Article) (bool, error) {
	for _, have := range f.articles {
		if have.CampaignID == a.CampaignID && have.ContentItemID == a.ContentItemID {
			return false, nil
		}
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	cp := *a
	f.articles[a.ID] = &cp
	return true, nil
}

func (f *fakeStore) ArticlesForCampaign(_ context.Context, campaignID string) ([]models.Article, error) {
	out := []models.Article{}
	for _, a := range f.articles {
		if a.CampaignID == campaignID {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}

func (f *fakeStore) SetArticleActive(_ context.Context, id string, active bool) error {
	a, ok := f.articles[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.Active = active
	return nil
}

func (f *fakeStore) CreateEvent(_ context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeStore) ListEvents(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range f.events {
		if filter.ActiveOnly && !e.Active {
			continue
		}
		if filter.From != "" && e.StartDate < filter.From {
			continue
		}
		if filter.To != "" && e.StartDate > filter.To {
			continue
		}
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	return out, nil
}

func (f *fakeStore) ActiveEventsOnDates(_ context.Context, dates []string) ([]models.Event, error) {
	want := map[string]bool{}
	for _, d := range dates {
		want[d] = true
	}
	out := []models.Event{}
	for _, e := range f.events {
		if e.Active && want[e.StartDate] {
			out = append(out, *e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (f *fakeStore) SetEventActive(_ context.Context, id string, active bool) error {
	e, ok := f.events[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Active = active
	return nil
}

func linkKey(campaignID, eventID, date string) string {
	return fmt.Sprintf("%s|%s|%s", campaignID, eventID, date)
}

func (f *fakeStore) LinkCampaignEvent(_ context.Context, link *models.CampaignEvent) (bool, error) {
	f.linkCalls++
	if f.failLinkAfter > 0 && f.linkCalls > f.failLinkAfter {
		return false, fmt.Errorf("link insert failed")
	}
	key := linkKey(link.CampaignID, link.EventID, link.EventDate)
	if _, ok := f.links[key]; ok {
		return false, nil
	}
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	cp := *link
	f.links[key] = &cp
	return true, nil
}

func (f *fakeStore) CampaignEventsFor(_ context.Context, campaignID string) ([]models.CampaignEvent, error) {
	out := []models.CampaignEvent{}
	for _, l := range f.links {
		if l.CampaignID == campaignID {
			out = append(out, *l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EventDate != out[j].EventDate {
			return out[i].EventDate < out[j].EventDate
		}
		return out[i].DisplayOrder < out[j].DisplayOrder
	})
	return out, nil
}

func (f *fakeStore) SetCampaignEventFlags(_ context.Context, campaignID, eventID, eventDate string, selected, featured bool) error {
	l, ok := f.links[linkKey(campaignID, eventID, eventDate)]
	if !ok {
		return sql.ErrNoRows
	}
	l.IsSelected = selected
	l.IsFeatured = featured
	return nil
}

func (f *fakeStore) CreateAd(_ context.Context, a *models.Ad) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	cp := *a
	f.ads[a.ID] = &cp
	return nil
}

func (f *fakeStore) AdByID(_ context.Context, id string) (*models.Ad, error) {
	if a, ok := f.ads[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) ListAds(_ context.Context, status models.AdStatus, limit int) ([]models.Ad, error) {
	out := []models.Ad{}
	for _, a := range f.ads {
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) UpdateAdStatus(_ context.Context, id string, status models.AdStatus) error {
	a, ok := f.ads[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.Status = status
	return nil
}

func (f *fakeStore) TryMarkRun(_ context.Context, taskKey, today string) (bool, error) {
	if f.runs[taskKey] == today {
		return false, nil
	}
	f.runs[taskKey] = today
	return true, nil
}

func (f *fakeStore) LastRun(_ context.Context, taskKey string) (string, error) {
	return f.runs[taskKey], nil
}

func (f *fakeStore) ResetRun(_ context.Context, taskKey string) error {
	f.runs[taskKey] = "1970-01-01"
	return nil
}
