// Package selection holds the pure article-scoring and top-N logic feeding
// the daily campaign build. It never touches storage.
package selection

import (
	"sort"

	"newsdesk/pkg/models"
)

// DefaultLimit is the number of articles selected when no limit is configured.
const DefaultLimit = 10

// Scored pairs a content item with the total score it was ranked by.
type Scored struct {
	Item  models.ContentItem
	Total int
}

// TopN returns the highest-scoring items, at most n, in descending score
// order. Items without a rating are dropped. Equal scores keep their relative
// input order, so the snapshot's ordering is the tie-break. An empty result
// is valid when nothing is rated.
func TopN(items []models.ContentItem, ratings map[string]models.Rating, n int, w Weights) []Scored {
	if n <= 0 {
		n = DefaultLimit
	}
	if w.IsZero() {
		w = DefaultWeights()
	}

	scored := make([]Scored, 0, len(items))
	for _, item := range items {
		r, ok := ratings[item.ID]
		if !ok {
			continue
		}
		scored = append(scored, Scored{Item: item, Total: w.Total(r)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Total > scored[j].Total
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
