package stream

import (
	"sort"

	"github.com/stream-queue-system/pkg/models"
)

// QueueEntry is one row of the ranked queue view: a stream annotated with
// its current vote count and whether the requesting user has voted for it.
type QueueEntry struct {
	models.Stream
	Upvotes     int64 `json:"upvotes"`
	HaveUpvoted bool  `json:"have_upvoted"`
}

// SortQueue orders entries by descending vote count, ties broken by
// earliest submission time. The stream id is the final tiebreak so the
// comparison is total and the order deterministic for equal timestamps.
func SortQueue(entries []QueueEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Upvotes != entries[j].Upvotes {
			return entries[i].Upvotes > entries[j].Upvotes
		}
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
}
