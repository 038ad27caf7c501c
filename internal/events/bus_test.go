package events_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-loja/internal/events"
)

type captureNotifier struct {
	events []events.Event
	err    error
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return c.err
}

func TestEmitFansOutToAllNotifiers(t *testing.T) {
	first := &captureNotifier{}
	second := &captureNotifier{}
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	bus := &events.Bus{
		Notifiers: []events.Notifier{first, second},
		Now:       func() time.Time { return fixed },
	}

	ev, err := bus.Emit(context.Background(), events.TopicOrderBuilt, map[string]any{"total": int64(5000)})
	require.NoError(t, err)
	require.Equal(t, events.TopicOrderBuilt, ev.Topic)
	require.Equal(t, fixed, ev.OccurredAt)
	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
}

func TestEmitJoinsNotifierErrors(t *testing.T) {
	boom := errors.New("boom")
	failing := &captureNotifier{err: boom}
	healthy := &captureNotifier{}
	bus := &events.Bus{Notifiers: []events.Notifier{failing, healthy}}

	_, err := bus.Emit(context.Background(), events.TopicCartItemAdded, nil)
	require.ErrorIs(t, err, boom)
	// The failure must not stop fan-out.
	require.Len(t, healthy.events, 1)
}

func TestEmitRequiresTopic(t *testing.T) {
	bus := &events.Bus{}
	_, err := bus.Emit(context.Background(), "  ", nil)
	require.Error(t, err)
}

func TestNotifierFunc(t *testing.T) {
	var got events.Event
	fn := events.NotifierFunc(func(_ context.Context, event events.Event) error {
		got = event
		return nil
	})
	bus := &events.Bus{Notifiers: []events.Notifier{fn}}
	_, err := bus.Emit(context.Background(), events.TopicCartItemAdded, "payload")
	require.NoError(t, err)
	require.Equal(t, "payload", got.Payload)
}
