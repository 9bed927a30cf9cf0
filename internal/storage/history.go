package storage

import (
	"sort"

	"conventest/internal/domain"
)

// sortByTimestamp orders run metadata oldest first. RFC 3339 timestamps in the
// same zone sort lexically.
func sortByTimestamp(metas []domain.TestResultsMeta) {
	sort.SliceStable(metas, func(i, j int) bool {
		return metas[i].Timestamp < metas[j].Timestamp
	})
}
