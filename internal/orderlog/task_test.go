package orderlog

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestRecordTaskRoundTrip(t *testing.T) {
	entry := Entry{
		ID:         "e-1",
		Recipient:  "11999999999",
		Text:       "*Novo Pedido - Loja*",
		TotalPrice: 5000,
		TotalItems: 2,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	task, err := NewRecordTask(entry)
	require.NoError(t, err)
	require.Equal(t, TaskTypeRecord, task.Type())

	decoded, err := DecodeRecordTask(task)
	require.NoError(t, err)
	require.Equal(t, entry, decoded)
}

func TestNewRecordTaskFillsDefaults(t *testing.T) {
	task, err := NewRecordTask(Entry{Recipient: "11999999999", Text: "pedido"})
	require.NoError(t, err)
	decoded, err := DecodeRecordTask(task)
	require.NoError(t, err)
	require.NotEmpty(t, decoded.ID)
	require.False(t, decoded.CreatedAt.IsZero())
}

func TestDecodeRejectsForeignTask(t *testing.T) {
	_, err := DecodeRecordTask(asynq.NewTask("other:type", nil))
	require.Error(t, err)
}

func TestEnqueueWithoutClientIsNoop(t *testing.T) {
	var e Enqueuer
	require.NoError(t, e.Enqueue(context.Background(), Entry{Text: "pedido"}))
}
