package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishBatchEncodesJSON(t *testing.T) {
	w := &recordingWriter{}
	p := NewProducerWithWriter(w, "finscore.enriched", "gzip")

	err := p.PublishBatch(context.Background(), []Message{
		{Key: []byte("AAPL"), Value: map[string]int{"valueScore": 42}},
		{Key: []byte("RAW"), Value: []byte("raw")},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "AAPL", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"valueScore":42}`, string(w.msgs[0].Value))
	assert.Equal(t, "raw", string(w.msgs[1].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishBatchWrapsWriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, "t", "gzip")
	err := p.PublishBatch(context.Background(), []Message{{Key: []byte("k"), Value: "v"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer("t")
	assert.Error(t, err)
	_, err = NewProducer("", WithBrokers([]string{"localhost:9092"}))
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, parseCompression("snappy"))
	assert.Equal(t, kafka.Gzip, parseCompression("unknown"))
}
