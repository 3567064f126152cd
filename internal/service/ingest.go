package service

import (
	"context"
	"fmt"
	"time"

	"newsdesk/pkg/models"
)

// IngestResult reports one guarded ingest run.
type IngestResult struct {
	Fetched   int `json:"fetched"`
	Stored    int `json:"stored"`
	Rated     int `json:"rated"`
	RateFails int `json:"rate_failures"`
	Published int `json:"published"`
}

// RunIngest pulls the configured feeds, stores new items, rates whatever is
// still unrated in the snapshot window, and streams stored items downstream.
// Guarded per calendar day. Rating failures are counted and skipped, not
// fatal: an item left unrated is simply invisible to selection until a later
// run rates it.
func (s *Service) RunIngest(ctx context.Context, date string) (IngestResult, error) {
	var res IngestResult

	if _, err := time.Parse(models.DateOnly, date); err != nil {
		return res, fmt.Errorf("%w: bad date %q", ErrValidation, date)
	}

	claimed, err := s.store.TryMarkRun(ctx, TaskRSSProcessing, date)
	if err != nil {
		return res, fmt.Errorf("claim ingest run: %w", err)
	}
	if !claimed {
		return res, fmt.Errorf("%w: %s on %s", ErrAlreadyRan, TaskRSSProcessing, date)
	}

	if s.fetcher != nil {
		fetched := s.fetcher.FetchAll(ctx, s.feeds)
		res.Fetched = len(fetched)

		ptrs := make([]*models.ContentItem, len(fetched))
		for i := range fetched {
			ptrs[i] = &fetched[i]
		}
		stored, err := s.store.SaveContentItems(ctx, ptrs)
		if err != nil {
			return res, fmt.Errorf("store content items: %w", err)
		}
		res.Stored = stored

		if s.producer != nil {
			for _, item := range fetched {
				if err := s.producer.PublishContentItem(ctx, item); err != nil {
					s.logger.Warn("publish content item failed", "item", item.ID, "err", err)
					continue
				}
				res.Published++
			}
		}
	}

	if s.rater != nil {
		rated, fails, err := s.rateUnrated(ctx)
		res.Rated = rated
		res.RateFails = fails
		if err != nil {
			return res, err
		}
	}

	s.logger.Info("ingest complete",
		"date", date,
		"fetched", res.Fetched,
		"stored", res.Stored,
		"rated", res.Rated,
		"rate_failures", res.RateFails)
	return res, nil
}

// rateUnrated scores recent items that have no rating yet. The stored total
// is derived from the components with the configured weights; the selector
// re-derives it the same way, so the column is a convenience, not a source
// of truth.
func (s *Service) rateUnrated(ctx context.Context) (rated, fails int, err error) {
	since := s.now().Add(-snapshotWindow)
	unrated, err := s.store.UnratedContentItems(ctx, since)
	if err != nil {
		return 0, 0, fmt.Errorf("load unrated items: %w", err)
	}

	for _, item := range unrated {
		scores, err := s.rater.RateArticle(ctx, item.Title, item.Body)
		if err != nil {
			s.logger.Warn("rating failed", "item", item.ID, "err", err)
			fails++
			continue
		}
		r := models.Rating{
			ContentItemID:   item.ID,
			Interest:        scores.Interest,
			LocalRelevance:  scores.LocalRelevance,
			CommunityImpact: scores.CommunityImpact,
		}
		r.Total = s.weights.Total(r)
		if err := s.store.SaveRating(ctx, &r); err != nil {
			return rated, fails, fmt.Errorf("save rating item=%s: %w", item.ID, err)
		}
		rated++
	}
	return rated, fails, nil
}
