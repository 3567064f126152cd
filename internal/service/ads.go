package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"newsdesk/pkg/models"
)

// AdSubmission is the advertiser-facing input.
type AdSubmission struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Advertiser string `json:"advertiser"`
	URL        string `json:"url"`
}

// SubmitAd stores a new ad in pending state, awaiting review.
func (s *Service) SubmitAd(ctx context.Context, sub AdSubmission) (*models.Ad, error) {
	if strings.TrimSpace(sub.Title) == "" {
		return nil, fmt.Errorf("%w: ad title required", ErrValidation)
	}
	if strings.TrimSpace(sub.Advertiser) == "" {
		return nil, fmt.Errorf("%w: advertiser required", ErrValidation)
	}

	a := &models.Ad{
		Title:      strings.TrimSpace(sub.Title),
		Body:       strings.TrimSpace(sub.Body),
		Advertiser: strings.TrimSpace(sub.Advertiser),
		URL:        strings.TrimSpace(sub.URL),
		Status:     models.AdPending,
	}
	if err := s.store.CreateAd(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info("ad submitted", "ad", a.ID, "advertiser", a.Advertiser)
	return a, nil
}

// Ads lists ads, optionally narrowed to one status.
func (s *Service) Ads(ctx context.Context, status models.AdStatus, limit int) ([]models.Ad, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown ad status %q", ErrValidation, status)
	}
	return s.store.ListAds(ctx, status, limit)
}

// TransitionAd moves an ad through the approval workflow, rejecting moves
// the transition table does not allow.
func (s *Service) TransitionAd(ctx context.Context, id string, next models.AdStatus) (*models.Ad, error) {
	a, err := s.store.AdByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: ad %s", ErrNotFound, id)
	}
	status, err := a.Status.Transition(next)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	err = s.store.UpdateAdStatus(ctx, id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ad %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	a.Status = status
	s.logger.Info("ad status changed", "ad", id, "status", status)
	return a, nil
}
