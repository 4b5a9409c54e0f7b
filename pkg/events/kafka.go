package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type EventType string

const (
	EventTypeStreamAdded EventType = "stream_added"
	EventTypeStreamVoted EventType = "stream_voted"
)

// Event is the envelope written to the event log. Payload carries the typed
// payload as raw JSON so consumers can decode it per Type.
type Event struct {
	Type      EventType       `json:"type"`
	UserID    string          `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type KafkaClient struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaClient(brokers []string, topic string, groupID string) *KafkaClient {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
	})

	return &KafkaClient{
		writer: writer,
		reader: reader,
	}
}

// PublishEvent wraps the payload in an Event envelope and appends it to the
// event log.
func (k *KafkaClient) PublishEvent(ctx context.Context, eventType EventType, userID string, payload interface{}) error {
	msg, err := newEventMessage(eventType, userID, payload)
	if err != nil {
		return err
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func newEventMessage(eventType EventType, userID string, payload interface{}) (kafka.Message, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := Event{
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payloadJSON,
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(uuid.New().String()),
		Value: eventJSON,
	}, nil
}

func (k *KafkaClient) PublishVoteUpdate(ctx context.Context, streamID, userID string, totalVotes int64) error {
	payload := VoteUpdatePayload{
		StreamID:   streamID,
		UserID:     userID,
		TotalVotes: totalVotes,
		Timestamp:  time.Now(),
	}

	return k.PublishEvent(ctx, EventTypeStreamVoted, userID, payload)
}

func (k *KafkaClient) ConsumeEvents(ctx context.Context, handler func(Event) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			msg, err := k.reader.ReadMessage(ctx)
			if err != nil {
				return fmt.Errorf("failed to read message: %w", err)
			}

			event, err := decodeEvent(msg.Value)
			if err != nil {
				return err
			}

			if err := handler(event); err != nil {
				return fmt.Errorf("failed to handle event: %w", err)
			}
		}
	}
}

func decodeEvent(value []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}

func (k *KafkaClient) Close() error {
	if err := k.writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	if err := k.reader.Close(); err != nil {
		return fmt.Errorf("failed to close reader: %w", err)
	}
	return nil
}

// Event payload types
type StreamAddedPayload struct {
	StreamID    string `json:"stream_id"`
	ExtractedID string `json:"extracted_id"`
	Title       string `json:"title"`
	CreatorID   string `json:"creator_id"`
}

type VoteUpdatePayload struct {
	StreamID   string    `json:"stream_id"`
	UserID     string    `json:"user_id"`
	TotalVotes int64     `json:"total_votes"`
	Timestamp  time.Time `json:"timestamp"`
}
