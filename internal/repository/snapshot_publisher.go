package repository

import (
	"context"
	"time"

	"FinScore/internal/domain/models"
	drepo "FinScore/internal/domain/repository"
	pkgkafka "FinScore/pkg/kafka"
)

// snapshotEvent is the per-ticker payload written to the snapshot topic.
type snapshotEvent struct {
	RunID       string                `json:"runId"`
	PublishedAt time.Time             `json:"publishedAt"`
	Ticker      models.EnrichedTicker `json:"ticker"`
}

// KafkaSnapshotPublisher implements SnapshotPublisher, one message per ticker keyed by symbol.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	now      func() time.Time
}

// NewKafkaSnapshotPublisher creates a Kafka publisher.
func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer) *KafkaSnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, now: time.Now}
}

func (p *KafkaSnapshotPublisher) PublishSnapshot(ctx context.Context, runID string, tickers []models.EnrichedTicker) error {
	if len(tickers) == 0 {
		return nil
	}
	at := p.now().UTC()
	msgs := make([]pkgkafka.Message, len(tickers))
	for i, t := range tickers {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(t.Ticker),
			Value: snapshotEvent{RunID: runID, PublishedAt: at, Ticker: t},
		}
	}
	return p.producer.PublishBatch(ctx, msgs)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopSnapshotPublisher is used when Kafka is disabled.
type NopSnapshotPublisher struct{}

func (NopSnapshotPublisher) PublishSnapshot(context.Context, string, []models.EnrichedTicker) error {
	return nil
}

func (NopSnapshotPublisher) Close() error { return nil }

var (
	_ drepo.SnapshotPublisher = (*KafkaSnapshotPublisher)(nil)
	_ drepo.SnapshotPublisher = NopSnapshotPublisher{}
)
