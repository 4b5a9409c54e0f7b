package models

import (
	"time"

	"github.com/google/uuid"
)

// StreamType identifies the video provider a stream was submitted from.
// Only YouTube is supported today; the enum leaves room for more.
type StreamType string

const (
	StreamTypeYoutube StreamType = "Youtube"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"unique"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stream is a submitted, queueable video. Immutable after creation except
// for the Active flag.
type Stream struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey"`
	UserID      uuid.UUID  `json:"user_id" gorm:"index"`
	URL         string     `json:"url"`
	ExtractedID string     `json:"extracted_id" gorm:"size:11"`
	Type        StreamType `json:"type"`
	Title       string     `json:"title"`
	SmallImg    string     `json:"small_img"`
	BigImg      string     `json:"big_img"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Upvote relates one user to one stream. The composite unique index on
// (stream_id, user_id) makes concurrent duplicate upvotes collapse to a
// single row; a downvote deletes the row rather than storing -1.
type Upvote struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey"`
	StreamID  uuid.UUID `json:"stream_id" gorm:"uniqueIndex:idx_stream_user"`
	UserID    uuid.UUID `json:"user_id" gorm:"uniqueIndex:idx_stream_user"`
	CreatedAt time.Time `json:"created_at"`
}
