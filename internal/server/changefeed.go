package server

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/shopfront/internal/catalog"
)

const (
	ChangeCreated = "item.created"
	ChangeUpdated = "item.updated"
	ChangeDeleted = "item.deleted"
)

// ItemChanged is published to the change feed after every successful
// mutation, keyed by item id.
type ItemChanged struct {
	Action string       `json:"action"`
	Item   catalog.Item `json:"item"`
	At     time.Time    `json:"at"`
}

// ChangeFeed publishes item mutations to Kafka. The feed is best-effort:
// a publish failure is logged by the caller and never fails the mutation.
type ChangeFeed struct {
	writer *kafka.Writer
}

func NewChangeFeed(brokers []string, topic string) *ChangeFeed {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &ChangeFeed{writer: writer}
}

func (f *ChangeFeed) Publish(ctx context.Context, change ItemChanged) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}

	return f.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(change.Item.ID, 10)),
		Value: data,
		Time:  change.At,
	})
}

func (f *ChangeFeed) Close() error {
	return f.writer.Close()
}
