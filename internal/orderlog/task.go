package orderlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-loja/internal/money"
)

// TaskTypeRecord is the asynq task type for recording a built order message.
const TaskTypeRecord = "orderlog:record"

// Entry is one built order message, kept for the store owner's history. The
// cart itself is never persisted; only the rendered outcome of a checkout is.
type Entry struct {
	ID         string      `json:"id"`
	Recipient  string      `json:"recipient"`
	Text       string      `json:"text"`
	TotalPrice money.Money `json:"totalPrice"`
	TotalItems int         `json:"totalItems"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// NewRecordTask serialises the entry into an asynq task.
func NewRecordTask(e Entry) (*asynq.Task, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("orderlog: encode task: %w", err)
	}
	return asynq.NewTask(TaskTypeRecord, payload, asynq.MaxRetry(5)), nil
}

// DecodeRecordTask parses an asynq task back into an Entry.
func DecodeRecordTask(t *asynq.Task) (Entry, error) {
	if t == nil || t.Type() != TaskTypeRecord {
		return Entry{}, errors.New("orderlog: unexpected task type")
	}
	var e Entry
	if err := json.Unmarshal(t.Payload(), &e); err != nil {
		return Entry{}, fmt.Errorf("orderlog: decode task: %w", err)
	}
	return e, nil
}

// Enqueuer schedules order log writes through asynq. A nil client makes
// enqueueing a no-op so checkout keeps working without the queue.
type Enqueuer struct {
	Client *asynq.Client
}

// Enqueue submits the entry for asynchronous recording.
func (e Enqueuer) Enqueue(ctx context.Context, entry Entry) error {
	if e.Client == nil {
		return nil
	}
	task, err := NewRecordTask(entry)
	if err != nil {
		return err
	}
	if _, err := e.Client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("orderlog: enqueue: %w", err)
	}
	return nil
}
