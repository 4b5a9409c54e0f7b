package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stream-queue-system/internal/youtube"
	"github.com/stream-queue-system/pkg/database"
	"github.com/stream-queue-system/pkg/events"
	"github.com/stream-queue-system/pkg/models"
)

const (
	videoKeyPrefix = "video:"
	videoCacheTTL  = 24 * time.Hour

	// Shown when the metadata provider is down or the video is gone.
	// Metadata unavailability never fails a submission.
	fallbackTitle = "Can't find Video"
)

type Service struct {
	db     *database.MySQLDB
	redis  *redis.Client
	yt     *youtube.Client
	events *events.KafkaClient
}

func NewService(db *database.MySQLDB, redis *redis.Client, yt *youtube.Client, events *events.KafkaClient) *Service {
	return &Service{
		db:     db,
		redis:  redis,
		yt:     yt,
		events: events,
	}
}

// GetUser resolves a user id to a known user, or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.db.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create validates the submitted URL, resolves video metadata and persists
// a new active stream owned by creatorID.
func (s *Service) Create(ctx context.Context, creatorID string, rawURL string) (*models.Stream, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	owner, err := s.GetUser(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	details := s.resolveMetadata(ctx, videoID)

	stream := &models.Stream{
		ID:          uuid.New(),
		UserID:      owner.ID,
		URL:         rawURL,
		ExtractedID: videoID,
		Type:        models.StreamTypeYoutube,
		Title:       details.Title,
		SmallImg:    details.SmallImg,
		BigImg:      details.BigImg,
		Active:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.CreateStream(stream); err != nil {
		return nil, fmt.Errorf("failed to create stream: %w", err)
	}

	payload := events.StreamAddedPayload{
		StreamID:    stream.ID.String(),
		ExtractedID: stream.ExtractedID,
		Title:       stream.Title,
		CreatorID:   creatorID,
	}

	if err := s.events.PublishEvent(ctx, events.EventTypeStreamAdded, creatorID, payload); err != nil {
		log.Printf("Warning: failed to publish stream-added event: %v", err)
	}

	return stream, nil
}

// resolveMetadata fetches title and thumbnails for a video, reading through
// a Redis cache so repeated submissions of the same video stay cheap and
// idempotent. Provider failure degrades to placeholder values.
func (s *Service) resolveMetadata(ctx context.Context, videoID string) *youtube.VideoDetails {
	key := videoKeyPrefix + videoID
	cached, err := s.redis.Get(ctx, key).Bytes()
	if err == nil {
		var details youtube.VideoDetails
		if err := json.Unmarshal(cached, &details); err == nil {
			return &details
		}
	}

	details, err := s.yt.GetVideoDetails(ctx, videoID)
	if err != nil {
		log.Printf("Warning: failed to fetch video details for %s: %v", videoID, err)
		return &youtube.VideoDetails{Title: fallbackTitle}
	}

	if details.Title == "" {
		details.Title = fallbackTitle
	}

	detailsJSON, _ := json.Marshal(details)
	if err := s.redis.Set(ctx, key, detailsJSON, videoCacheTTL).Err(); err != nil {
		log.Printf("Warning: failed to cache video details: %v", err)
	}

	return details
}

// Queue returns the ranked view of creatorID's active streams: descending
// vote count, submission order as tiebreak, each entry annotated with
// whether requesterID has voted for it. requesterID may be empty for
// anonymous reads. Read-only; never blocks writers.
func (s *Service) Queue(ctx context.Context, creatorID, requesterID string) ([]QueueEntry, error) {
	streams, err := s.db.GetStreamsByCreator(creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streams: %w", err)
	}

	streamIDs := make([]uuid.UUID, len(streams))
	for i, st := range streams {
		streamIDs[i] = st.ID
	}

	counts, err := s.db.CountUpvotesByStream(streamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}

	voted := map[uuid.UUID]bool{}
	if requesterID != "" {
		voted, err = s.db.UpvotedStreamIDs(requesterID, streamIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get requester votes: %w", err)
		}
	}

	entries := make([]QueueEntry, len(streams))
	for i, st := range streams {
		entries[i] = QueueEntry{
			Stream:      *st,
			Upvotes:     counts[st.ID],
			HaveUpvoted: voted[st.ID],
		}
	}

	SortQueue(entries)
	return entries, nil
}

// Next returns the head of the requester's ranked queue, or nil when the
// queue is empty. Which entry is "currently playing" stays client-side;
// this is a stateless read over the same ranked view.
func (s *Service) Next(ctx context.Context, creatorID, requesterID string) (*QueueEntry, error) {
	entries, err := s.Queue(ctx, creatorID, requesterID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// Upvote records userID's vote for a stream. The (stream, user) uniqueness
// is enforced by the storage layer's unique index, so racing upvotes for
// the same pair resolve to exactly one stored relation; a repeated upvote
// is a no-op success.
func (s *Service) Upvote(ctx context.Context, streamID, userID string) error {
	sid, err := uuid.Parse(streamID)
	if err != nil {
		return ErrStreamNotFound
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return ErrUserNotFound
	}

	if _, err := s.db.GetStreamByID(streamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStreamNotFound
		}
		return fmt.Errorf("failed to get stream: %w", err)
	}

	vote := &models.Upvote{
		ID:        uuid.New(),
		StreamID:  sid,
		UserID:    uid,
		CreatedAt: time.Now(),
	}

	inserted, err := s.db.AddUpvote(vote)
	if err != nil {
		return fmt.Errorf("failed to store vote: %w", err)
	}
	if !inserted {
		// Already voted; the unique index swallowed the insert.
		return nil
	}

	total, err := s.db.CountUpvotes(streamID)
	if err != nil {
		return fmt.Errorf("failed to get total votes: %w", err)
	}

	s.events.PublishVoteUpdate(ctx, streamID, userID, total)

	return nil
}

// MarkPlayed flips a stream's Active flag off once the client selects it
// for playback, removing it from the ranked view. Only the queue owner may
// retire their own streams; which entry is "currently playing" remains
// client-side state.
func (s *Service) MarkPlayed(ctx context.Context, streamID, userID string) error {
	if _, err := uuid.Parse(streamID); err != nil {
		return ErrStreamNotFound
	}

	st, err := s.db.GetStreamByID(streamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStreamNotFound
		}
		return fmt.Errorf("failed to get stream: %w", err)
	}

	if st.UserID.String() != userID {
		return ErrNotStreamOwner
	}

	if err := s.db.SetStreamActive(streamID, false); err != nil {
		return fmt.Errorf("failed to update stream: %w", err)
	}

	return nil
}

// Downvote retracts userID's vote for a stream. Removing a vote that was
// never cast is a no-op success; the UI calls this defensively.
func (s *Service) Downvote(ctx context.Context, streamID, userID string) error {
	if _, err := uuid.Parse(streamID); err != nil {
		return ErrStreamNotFound
	}

	if err := s.db.RemoveUpvote(streamID, userID); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}

	total, err := s.db.CountUpvotes(streamID)
	if err != nil {
		return fmt.Errorf("failed to get total votes: %w", err)
	}

	s.events.PublishVoteUpdate(ctx, streamID, userID, total)

	return nil
}
