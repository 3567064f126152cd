package service

import (
	"context"
	"fmt"
	"time"

	"newsdesk/pkg/models"
)

// windowDays is the length of a campaign's event display window in calendar
// days, starting at the campaign's reference date.
const windowDays = 3

// PopulateResult reports what one populate run did. Counts are meaningful
// even when the run aborted partway; links already committed stay committed.
type PopulateResult struct {
	EventsFound   int `json:"events_found"`
	LinksCreated  int `json:"links_created"`
	LinksExisting int `json:"links_existing"`
}

// eventWindow expands a reference date into the campaign's display dates:
// day offsets 0, 1, 2. Calendar arithmetic only, no time-of-day component.
func eventWindow(refDate string) ([]string, error) {
	t, err := time.Parse(models.DateOnly, refDate)
	if err != nil {
		return nil, fmt.Errorf("%w: bad reference date %q", ErrValidation, refDate)
	}
	dates := make([]string, windowDays)
	for i := range dates {
		dates[i] = t.AddDate(0, 0, i).Format(models.DateOnly)
	}
	return dates, nil
}

// PopulateEventsForCampaign links every active event whose start date falls
// in the campaign's 3-day window. Safe to re-run: existing links, including
// curator is_selected/is_featured decisions, are never touched. A failure
// mid-loop stops the remaining inserts but keeps what was already committed,
// so the caller still gets the partial counts alongside the error.
func (s *Service) PopulateEventsForCampaign(ctx context.Context, campaignID string) (PopulateResult, error) {
	var res PopulateResult

	campaign, err := s.store.CampaignByID(ctx, campaignID)
	if err != nil {
		return res, fmt.Errorf("load campaign: %w", err)
	}
	if campaign == nil {
		return res, fmt.Errorf("%w: campaign %s", ErrNotFound, campaignID)
	}

	window, err := eventWindow(campaign.RefDate)
	if err != nil {
		return res, err
	}

	events, err := s.store.ActiveEventsOnDates(ctx, window)
	if err != nil {
		return res, fmt.Errorf("load events for window: %w", err)
	}
	res.EventsFound = len(events)

	for i, ev := range events {
		created, err := s.store.LinkCampaignEvent(ctx, &models.CampaignEvent{
			CampaignID:   campaignID,
			EventID:      ev.ID,
			EventDate:    ev.StartDate,
			DisplayOrder: i,
		})
		if err != nil {
			return res, fmt.Errorf("link event %s: %w", ev.ID, err)
		}
		if created {
			res.LinksCreated++
		} else {
			res.LinksExisting++
		}
	}

	s.logger.Info("campaign events populated",
		"campaign", campaignID,
		"found", res.EventsFound,
		"created", res.LinksCreated,
		"existing", res.LinksExisting)
	return res, nil
}
