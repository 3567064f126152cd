package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk/pkg/models"
)

// EventSubmission is the operator- or public-facing event input.
type EventSubmission struct {
	Title       string `json:"title"`
	Venue       string `json:"venue"`
	StartDate   string `json:"start_date"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// SubmitEvent validates and stores a community event. StartDate accepts a
// plain calendar date or an RFC 3339 timestamp; only the calendar day is
// kept, so "2025-10-06T23:00:00Z" lands on 2025-10-06.
func (s *Service) SubmitEvent(ctx context.Context, sub EventSubmission) (*models.Event, error) {
	if strings.TrimSpace(sub.Title) == "" {
		return nil, fmt.Errorf("%w: event title required", ErrValidation)
	}
	day, err := calendarDay(sub.StartDate)
	if err != nil {
		return nil, err
	}

	e := &models.Event{
		Title:       strings.TrimSpace(sub.Title),
		Venue:       strings.TrimSpace(sub.Venue),
		StartDate:   day,
		URL:         strings.TrimSpace(sub.URL),
		Description: strings.TrimSpace(sub.Description),
		Active:      true,
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("event submitted", "event", e.ID, "start", e.StartDate)
	return e, nil
}

// Events lists events matching the filter.
func (s *Service) Events(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	for _, d := range []string{f.From, f.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateOnly, d); err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrValidation, d)
		}
	}
	return s.store.ListEvents(ctx, f)
}

// SetEventActive shows or hides an event in listings and future population
// runs. Links already made to campaigns are unaffected.
func (s *Service) SetEventActive(ctx context.Context, id string, active bool) error {
	err := s.store.SetEventActive(ctx, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: event %s", ErrNotFound, id)
	}
	return err
}

// CampaignEvents lists a campaign's event links in display order.
func (s *Service) CampaignEvents(ctx context.Context, campaignID string) ([]models.CampaignEvent, error) {
	if _, err := s.Campaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.store.CampaignEventsFor(ctx, campaignID)
}

// FlagCampaignEvent records a curator's select/feature decision on one link.
// The populator preserves these flags across re-runs.
func (s *Service) FlagCampaignEvent(ctx context.Context, campaignID, eventID, eventDate string, selected, featured bool) error {
	day, err := calendarDay(eventDate)
	if err != nil {
		return err
	}
	err = s.store.SetCampaignEventFlags(ctx, campaignID, eventID, day, selected, featured)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: campaign %s has no link for event %s on %s", ErrNotFound, campaignID, eventID, day)
	}
	return err
}

// calendarDay normalizes a date or timestamp string to its calendar day.
func calendarDay(value string) (string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(models.DateOnly, value); err == nil {
		return t.Format(models.DateOnly), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format(models.DateOnly), nil
	}
	if t, err := time.Parse("2006-01-02T15:04", value); err == nil {
		return t.Format(models.DateOnly), nil
	}
	return "", fmt.Errorf("%w: bad date %q", ErrValidation, value)
}
