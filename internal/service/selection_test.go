package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/pkg/models"
)

func seedRatedItem(store *fakeStore, id string, score int, createdAt time.Time) {
	store.items = append(store.items, models.ContentItem{
		ID:        id,
		Title:     "item " + id,
		Body:      "body " + id,
		CreatedAt: createdAt,
	})
	store.ratings[id] = models.Rating{
		ContentItemID: id,
		Interest:      score,
	}
}

func TestRunDailySelectionPromotesTopItems(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	now := time.Date(2025, 10, 4, 8, 0, 0, 0, time.UTC)
	seedRatedItem(store, "low", 2, now.Add(-time.Hour))
	seedRatedItem(store, "high", 9, now.Add(-2*time.Hour))
	seedRatedItem(store, "mid", 5, now.Add(-3*time.Hour))
	// unrated item must never be promoted
	store.items = append(store.items, models.ContentItem{ID: "unrated", CreatedAt: now.Add(-time.Hour)})
	// stale item outside the snapshot window
	seedRatedItem(store, "stale", 10, now.Add(-48*time.Hour))

	svc := NewService(store, Options{Limit: 2})
	svc.now = func() time.Time { return now }

	res, err := svc.RunDailySelection(context.Background(), "2025-10-04")

	require.NoError(t, err)
	assert.Equal(t, 4, res.Candidates)
	assert.Equal(t, 2, res.Selected)
	assert.Equal(t, 2, res.ArticlesCreated)

	articles, err := store.ArticlesForCampaign(context.Background(), res.CampaignID)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "high", articles[0].ContentItemID)
	assert.Equal(t, "mid", articles[1].ContentItemID)
	assert.True(t, articles[0].Active)

	c, err := store.CampaignByID(context.Background(), res.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-04", c.RefDate)
	assert.Equal(t, models.CampaignDraft, c.Status)
}

func TestRunDailySelectionGuardedPerDay(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(store)

	_, err := svc.RunDailySelection(context.Background(), "2025-10-04")
	require.NoError(t, err)

	_, err = svc.RunDailySelection(context.Background(), "2025-10-04")
	assert.ErrorIs(t, err, ErrAlreadyRan)

	// a different date is a fresh run
	_, err = svc.RunDailySelection(context.Background(), "2025-10-05")
	assert.NoError(t, err)
}

func TestRunDailySelectionAfterResetKeepsDeactivatedArticles(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	now := time.Date(2025, 10, 4, 8, 0, 0, 0, time.UTC)
	seedRatedItem(store, "a", 9, now.Add(-time.Hour))

	svc := newTestService(store)
	svc.now = func() time.Time { return now }

	res, err := svc.RunDailySelection(context.Background(), "2025-10-04")
	require.NoError(t, err)

	articles, _ := store.ArticlesForCampaign(context.Background(), res.CampaignID)
	require.Len(t, articles, 1)
	require.NoError(t, svc.SetArticleActive(context.Background(), articles[0].ID, false))

	// editorial exclusion survives a re-run of the selection
	require.NoError(t, svc.ResetTask(context.Background(), TaskDailySelection))
	res2, err := svc.RunDailySelection(context.Background(), "2025-10-04")
	require.NoError(t, err)
	assert.Equal(t, res.CampaignID, res2.CampaignID)
	assert.Equal(t, 0, res2.ArticlesCreated)
	assert.Equal(t, 1, res2.ArticlesExisting)

	articles, _ = store.ArticlesForCampaign(context.Background(), res.CampaignID)
	require.Len(t, articles, 1)
	assert.False(t, articles[0].Active)
}

func TestRunDailySelectionPopulatesEvents(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	seedEvent(store, "market", "2025-10-05", true)

	svc := newTestService(store)
	res, err := svc.RunDailySelection(context.Background(), "2025-10-04")

	require.NoError(t, err)
	assert.Equal(t, 1, res.Events.EventsFound)
	assert.Equal(t, 1, res.Events.LinksCreated)
}

func TestRunDailySelectionRejectsBadDate(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeStore())
	_, err := svc.RunDailySelection(context.Background(), "October 4th")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestPreviewSelectionWritesNothing(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	now := time.Date(2025, 10, 4, 8, 0, 0, 0, time.UTC)
	seedRatedItem(store, "a", 7, now.Add(-time.Hour))

	svc := newTestService(store)
	svc.now = func() time.Time { return now }

	top, err := svc.PreviewSelection(context.Background(), "2025-10-04")

	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].Item.ID)
	assert.Empty(t, store.campaigns)
	assert.Empty(t, store.articles)
}
