package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"FinScore/internal/domain/models"
	pkgkafka "FinScore/pkg/kafka"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFileLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"aapl": {"cik": "320193", "name": "Apple Inc."},
		"MSFT": {"cik": "0000789019", "name": "Microsoft Corp"},
		"BAD": {"cik": "n/a", "name": "broken"}
	}`), 0o644))

	got, err := NewSeedFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.CompanyIdentity{Identifier: "0000320193", Name: "Apple Inc."}, got["AAPL"])
	assert.Equal(t, "0000789019", got["MSFT"].Identifier)
	assert.NotContains(t, got, "BAD")
}

func TestSeedFileMissingIsEmpty(t *testing.T) {
	got, err := NewSeedFile(filepath.Join(t.TempDir(), "absent.json")).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSeedFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	_, err := NewSeedFile(path).Load(context.Background())
	assert.Error(t, err)
}

type captureWriter struct{ msgs []kafka.Message }

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestKafkaSnapshotPublisher(t *testing.T) {
	w := &captureWriter{}
	p := NewKafkaSnapshotPublisher(pkgkafka.NewProducerWithWriter(w, "finscore.enriched", "gzip"))

	price := 193.79
	err := p.PublishSnapshot(context.Background(), "run-1", []models.EnrichedTicker{
		{Ticker: "AAPL", LatestPrice: &price, ValueScore: 40},
		{Ticker: "MSFT"},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "AAPL", string(w.msgs[0].Key))

	var ev struct {
		RunID  string `json:"runId"`
		Ticker struct {
			Ticker      string   `json:"ticker"`
			LatestPrice *float64 `json:"latestPrice"`
			PeTtm       *float64 `json:"peTtm"`
		} `json:"ticker"`
	}
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &ev))
	assert.Equal(t, "run-1", ev.RunID)
	assert.Equal(t, 193.79, *ev.Ticker.LatestPrice)
	assert.Nil(t, ev.Ticker.PeTtm)

	assert.NoError(t, p.PublishSnapshot(context.Background(), "run-2", nil))
	assert.Len(t, w.msgs, 2)
}
