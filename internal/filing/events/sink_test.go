package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pscfiling/internal/platform/kafka/producer"
	audit "pscfiling/pkg/platform/audit"
	"pscfiling/pkg/platform/audit/publisher"
)

type recordingProducer struct {
	mu       sync.Mutex
	messages []*producer.Message
	err      error
}

func (p *recordingProducer) Produce(_ context.Context, msg *producer.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *recordingProducer) Healthy(context.Context) bool { return true }
func (p *recordingProducer) Close() error                 { return nil }

func TestKafkaSinkAppend(t *testing.T) {
	prod := &recordingProducer{}
	sink := NewKafkaSink(prod, "psc-filing-events")
	at := time.Date(2022, 10, 6, 9, 30, 0, 0, time.UTC)

	err := sink.Append(context.Background(), audit.Event{
		Timestamp:     at,
		Action:        string(audit.EventFilingCreated),
		FilingID:      "filing-1",
		TransactionID: "178417-909116-690426",
		PscType:       "individual",
		Etag:          "etag-1",
		RequestID:     "req-1",
	})

	require.NoError(t, err)
	require.Len(t, prod.messages, 1)
	msg := prod.messages[0]
	assert.Equal(t, "psc-filing-events", msg.Topic)
	assert.Equal(t, []byte("filing-1"), msg.Key)
	assert.Equal(t, map[string]string{"event": "psc_filing_created", "request_id": "req-1"}, msg.Headers)

	var got Message
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, Message{
		Event:         "psc_filing_created",
		FilingID:      "filing-1",
		TransactionID: "178417-909116-690426",
		PscType:       "individual",
		Etag:          "etag-1",
		OccurredAt:    at,
	}, got)
}

func TestKafkaSinkProduceError(t *testing.T) {
	boom := errors.New("broker down")
	sink := NewKafkaSink(&recordingProducer{err: boom}, "")

	err := sink.Append(context.Background(), audit.Event{Action: "psc_filing_updated", FilingID: "f"})

	assert.ErrorIs(t, err, boom)
}

func TestKafkaSinkBehindPublisher(t *testing.T) {
	prod := &recordingProducer{}
	pub := publisher.NewPublisher(NewKafkaSink(prod, ""), publisher.WithAsyncBuffer(4))

	require.NoError(t, pub.Emit(context.Background(), audit.Event{Action: "psc_filing_updated", FilingID: "f-2"}))
	pub.Close()

	require.Len(t, prod.messages, 1)
	assert.Equal(t, []byte("f-2"), prod.messages[0].Key)
}
