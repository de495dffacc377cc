package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestMessageKeysByUser(t *testing.T) {
	at := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	msg, err := Message(Event{UserID: "user-1", Kind: "saveWorkout", EntityID: "w1", At: at})
	require.NoError(t, err)

	require.Equal(t, "user-1", string(msg.Key))
	require.Equal(t, at, msg.Time)
	require.Equal(t, "kind", msg.Headers[0].Key)
	require.Equal(t, "saveWorkout", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	require.Equal(t, "user-1", decoded["userId"])
	require.Equal(t, "w1", decoded["entityId"])
	require.Equal(t, "2026-03-03T09:00:00Z", decoded["at"])
}

func TestKafkaPublisherWritesAndCloses(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), Event{UserID: "u", Kind: "deleteAllUserData", At: time.Now()}))
	require.Len(t, w.msgs, 1)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), Event{UserID: "u", Kind: "saveGoal"})
	require.ErrorContains(t, err, "publisher closed")
}

func TestKafkaPublisherWrapsWriteErrors(t *testing.T) {
	p := &KafkaPublisher{writer: &recordingWriter{err: errors.New("broker down")}}
	err := p.Publish(context.Background(), Event{UserID: "u", Kind: "saveMeal"})
	require.ErrorContains(t, err, "publish saveMeal: broker down")
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	require.NoError(t, p.Publish(context.Background(), Event{}))
	require.NoError(t, p.Close())
}
