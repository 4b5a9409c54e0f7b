package stream

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stream-queue-system/pkg/models"
)

func makeEntry(title string, submittedAt time.Time, upvotes int64) QueueEntry {
	return QueueEntry{
		Stream: models.Stream{
			ID:        uuid.New(),
			Title:     title,
			Active:    true,
			CreatedAt: submittedAt,
		},
		Upvotes: upvotes,
	}
}

func TestSortQueue_DescendingVotes(t *testing.T) {
	base := time.Now()
	entries := []QueueEntry{
		makeEntry("one vote", base, 1),
		makeEntry("three votes", base.Add(time.Second), 3),
		makeEntry("no votes", base.Add(2*time.Second), 0),
		makeEntry("two votes", base.Add(3*time.Second), 2),
	}

	SortQueue(entries)

	assert.Equal(t, "three votes", entries[0].Title)
	assert.Equal(t, "two votes", entries[1].Title)
	assert.Equal(t, "one vote", entries[2].Title)
	assert.Equal(t, "no votes", entries[3].Title)
}

func TestSortQueue_TieBrokenBySubmissionOrder(t *testing.T) {
	base := time.Now()
	first := makeEntry("submitted first", base, 1)
	second := makeEntry("submitted second", base.Add(time.Minute), 1)

	entries := []QueueEntry{second, first}
	SortQueue(entries)

	assert.Equal(t, "submitted first", entries[0].Title)
	assert.Equal(t, "submitted second", entries[1].Title)
}

func TestSortQueue_EqualTimestampsOrderedByID(t *testing.T) {
	at := time.Now()
	a := makeEntry("a", at, 2)
	b := makeEntry("b", at, 2)

	forward := []QueueEntry{a, b}
	reversed := []QueueEntry{b, a}
	SortQueue(forward)
	SortQueue(reversed)

	// Identical votes and timestamps still produce one deterministic order.
	assert.Equal(t, forward[0].ID, reversed[0].ID)
	assert.Equal(t, forward[1].ID, reversed[1].ID)
}

func TestSortQueue_VoteSwingReordersQueue(t *testing.T) {
	base := time.Now()
	older := makeEntry("older", base, 0)
	newer := makeEntry("newer", base.Add(time.Second), 1)

	entries := []QueueEntry{older, newer}
	SortQueue(entries)
	assert.Equal(t, "newer", entries[0].Title)

	// The vote is retracted; submission order decides again.
	entries[0].Upvotes = 0
	SortQueue(entries)
	assert.Equal(t, "older", entries[0].Title)
}

func TestSortQueue_Empty(t *testing.T) {
	entries := []QueueEntry{}
	SortQueue(entries)
	assert.Empty(t, entries)
}
