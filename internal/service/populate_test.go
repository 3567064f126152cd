package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/pkg/models"
)

func newTestService(store Store) *Service {
	return NewService(store, Options{})
}

func seedCampaign(t *testing.T, store *fakeStore, refDate string) *models.Campaign {
	t.Helper()
	c, err := store.EnsureCampaign(context.Background(), refDate)
	require.NoError(t, err)
	return c
}

func seedEvent(store *fakeStore, title, startDate string, active bool) *models.Event {
	e := &models.Event{Title: title, StartDate: startDate, Active: active}
	store.CreateEvent(context.Background(), e)
	return e
}

func TestPopulateLinksEventsInWindow(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	c := seedCampaign(t, store, "2025-10-04")
	seedEvent(store, "farmers market", "2025-10-04", true)
	seedEvent(store, "school play", "2025-10-05", true)
	seedEvent(store, "late show", "2025-10-06", true)
	seedEvent(store, "next week", "2025-10-07", true)  // outside window
	seedEvent(store, "cancelled", "2025-10-05", false) // inactive

	svc := newTestService(store)
	res, err := svc.PopulateEventsForCampaign(context.Background(), c.ID)

	require.NoError(t, err)
	assert.Equal(t, 3, res.EventsFound)
	assert.Equal(t, 3, res.LinksCreated)
	assert.Equal(t, 0, res.LinksExisting)

	links, err := svc.CampaignEvents(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "2025-10-04", links[0].EventDate)
	assert.Equal(t, "2025-10-06", links[2].EventDate)
}

func TestPopulateIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	c := seedCampaign(t, store, "2025-10-04")
	seedEvent(store, "farmers market", "2025-10-04", true)
	seedEvent(store, "school play", "2025-10-06", true)

	svc := newTestService(store)
	first, err := svc.PopulateEventsForCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	firstLinks, _ := svc.CampaignEvents(context.Background(), c.ID)

	second, err := svc.PopulateEventsForCampaign(context.Background(), c.ID)
	require.NoError(t, err)
	secondLinks, _ := svc.CampaignEvents(context.Background(), c.ID)

	assert.Equal(t, 2, first.LinksCreated)
	assert.Equal(t, 0, second.LinksCreated)
	assert.Equal(t, 2, second.LinksExisting)
	assert.Equal(t, firstLinks, secondLinks)
}

func TestPopulatePreservesCuratorFlags(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	c := seedCampaign(t, store, "2025-10-04")
	ev := seedEvent(store, "farmers market", "2025-10-05", true)

	svc := newTestService(store)
	_, err := svc.PopulateEventsForCampaign(context.Background(), c.ID)
	require.NoError(t, err)

	require.NoError(t, svc.FlagCampaignEvent(context.Background(), c.ID, ev.ID, "2025-10-05", true, true))

	_, err = svc.PopulateEventsForCampaign(context.Background(), c.ID)
	require.NoError(t, err)

	links, err := svc.CampaignEvents(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.True(t, links[0].IsSelected)
	assert.True(t, links[0].IsFeatured)
}

func TestPopulateUnknownCampaign(t *testing.T) {
	t.Parallel()

	svc := newTestService(newFakeStore())
	_, err := svc.PopulateEventsForCampaign(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPopulatePartialFailureKeepsCommittedLinks(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	c := seedCampaign(t, store, "2025-10-04")
	seedEvent(store, "a", "2025-10-04", true)
	seedEvent(store, "b", "2025-10-05", true)
	seedEvent(store, "c", "2025-10-06", true)
	store.failLinkAfter = 2

	svc := newTestService(store)
	res, err := svc.PopulateEventsForCampaign(context.Background(), c.ID)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, res.EventsFound)
	assert.Equal(t, 2, res.LinksCreated)

	links, lerr := store.CampaignEventsFor(context.Background(), c.ID)
	require.NoError(t, lerr)
	assert.Len(t, links, 2)
}

func TestEventWindowIsThreeCalendarDays(t *testing.T) {
	t.Parallel()

	window, err := eventWindow("2025-10-04")

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10-04", "2025-10-05", "2025-10-06"}, window)
}

func TestEventWindowCrossesMonthBoundary(t *testing.T) {
	t.Parallel()

	window, err := eventWindow("2025-10-31")

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10-31", "2025-11-01", "2025-11-02"}, window)
}

func TestEventWindowRejectsBadDate(t *testing.T) {
	t.Parallel()

	_, err := eventWindow("04/10/2025")
	assert.ErrorIs(t, err, ErrValidation)
}
