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

// Campaign returns one campaign by ID.
func (s *Service) Campaign(ctx context.Context, id string) (*models.Campaign, error) {
	c, err := s.store.CampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: campaign %s", ErrNotFound, id)
	}
	return c, nil
}

// CampaignForDate returns the campaign whose reference date matches.
func (s *Service) CampaignForDate(ctx context.Context, date string) (*models.Campaign, error) {
	if _, err := time.Parse(models.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}
	c, err := s.store.CampaignByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: no campaign for %s", ErrNotFound, date)
	}
	return c, nil
}

// TransitionCampaign moves a campaign through its lifecycle, rejecting moves
// the transition table does not allow.
func (s *Service) TransitionCampaign(ctx context.Context, id string, next models.CampaignStatus) (*models.Campaign, error) {
	c, err := s.Campaign(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := c.Status.Transition(next)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := s.store.UpdateCampaignStatus(ctx, id, status); err != nil {
		return nil, err
	}
	c.Status = status
	s.logger.Info("campaign status changed", "campaign", id, "status", status)
	return c, nil
}

// SetCampaignSubject stores the issue subject line.
func (s *Service) SetCampaignSubject(ctx context.Context, id, subject string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return fmt.Errorf("%w: empty subject", ErrValidation)
	}
	if _, err := s.Campaign(ctx, id); err != nil {
		return err
	}
	return s.store.UpdateCampaignSubject(ctx, id, subject)
}

// CampaignArticles lists a campaign's articles, highest score first.
func (s *Service) CampaignArticles(ctx context.Context, campaignID string) ([]models.Article, error) {
	if _, err := s.Campaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.store.ArticlesForCampaign(ctx, campaignID)
}

// SetArticleActive includes or excludes an article from the rendered issue.
// Exclusion deactivates; the row is never deleted.
func (s *Service) SetArticleActive(ctx context.Context, id string, active bool) error {
	err := s.store.SetArticleActive(ctx, id, active)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: article %s", ErrNotFound, id)
	}
	return err
}
