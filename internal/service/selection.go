package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"newsdesk/internal/selection"
	"newsdesk/pkg/models"
)

// SelectionResult reports one daily selection run.
type SelectionResult struct {
	CampaignID       string         `json:"campaign_id"`
	Candidates       int            `json:"candidates"`
	Selected         int            `json:"selected"`
	ArticlesCreated  int            `json:"articles_created"`
	ArticlesExisting int            `json:"articles_existing"`
	Events           PopulateResult `json:"events"`
}

// RunDailySelection builds the campaign for a calendar date: it claims the
// day through the run guard, ensures the campaign row exists, ranks the last
// day's rated content, promotes the top items to draft articles, and
// populates the event window. Idempotent per day; a second call returns
// ErrAlreadyRan until the guard is reset.
func (s *Service) RunDailySelection(ctx context.Context, date string) (SelectionResult, error) {
	var res SelectionResult

	if _, err := time.Parse(models.DateOnly, date); err != nil {
		return res, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}

	claimed, err := s.store.TryMarkRun(ctx, TaskDailySelection, date)
	if err != nil {
		return res, fmt.Errorf("claim daily run: %w", err)
	}
	if !claimed {
		return res, fmt.Errorf("%w: %s on %s", ErrAlreadyRan, TaskDailySelection, date)
	}

	campaign, err := s.store.EnsureCampaign(ctx, date)
	if err != nil {
		return res, fmt.Errorf("ensure campaign: %w", err)
	}
	res.CampaignID = campaign.ID

	top, candidates, err := s.rankSnapshot(ctx)
	if err != nil {
		return res, err
	}
	res.Candidates = candidates
	res.Selected = len(top)

	for _, sc := range top {
		created, err := s.store.UpsertArticle(ctx, &models.Article{
			CampaignID:    campaign.ID,
			ContentItemID: sc.Item.ID,
			Headline:      sc.Item.Title,
			Body:          sc.Item.Body,
			Score:         sc.Total,
			Active:        true,
		})
		if err != nil {
			return res, fmt.Errorf("promote item %s: %w", sc.Item.ID, err)
		}
		if created {
			res.ArticlesCreated++
		} else {
			res.ArticlesExisting++
		}
	}

	events, err := s.PopulateEventsForCampaign(ctx, campaign.ID)
	res.Events = events
	if err != nil {
		return res, err
	}

	s.logger.Info("daily selection complete",
		"date", date,
		"campaign", campaign.ID,
		"candidates", res.Candidates,
		"selected", res.Selected,
		"articles_created", res.ArticlesCreated)
	return res, nil
}

// PreviewSelection ranks the current snapshot without writing anything.
// Results are cached briefly in redis so repeated console polling does not
// re-read the snapshot.
func (s *Service) PreviewSelection(ctx context.Context, date string) ([]selection.Scored, error) {
	cacheKey := "selection:preview:" + date
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []selection.Scored
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	top, _, err := s.rankSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(top); err == nil {
			s.rdb.Set(ctx, cacheKey, raw, 5*time.Minute)
		}
	}
	return top, nil
}

// rankSnapshot loads the recency-windowed content snapshot with its ratings
// and runs the selector. Returns the top items and the candidate count.
func (s *Service) rankSnapshot(ctx context.Context) ([]selection.Scored, int, error) {
	since := s.now().Add(-snapshotWindow)
	items, err := s.store.RecentContentItems(ctx, since)
	if err != nil {
		return nil, 0, fmt.Errorf("load content snapshot: %w", err)
	}

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	ratings, err := s.store.RatingsFor(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load ratings: %w", err)
	}

	return selection.TopN(items, ratings, s.limit, s.weights), len(items), nil
}
