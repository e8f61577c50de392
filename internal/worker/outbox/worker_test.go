package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	outboxmodel "github.com/overwatch-coder/souppp-ecom/internal/service/models/outbox"
)

type fakePublisher struct {
	published []outboxmodel.Message
	err       error
}

func (p *fakePublisher) Publish(msg outboxmodel.Message) error {
	if p.err != nil {
		return p.err
	}

	p.published = append(p.published, msg)

	return nil
}

type fakeOutboxRepo struct {
	pending []outboxmodel.Message
	deleted []int64
	retries []int64
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outboxmodel.Message) error {
	r.pending = append(r.pending, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outboxmodel.Message, error) {
	return r.pending, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, id int64) error {
	r.deleted = append(r.deleted, id)

	return nil
}

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, id int64, _ int, _ string, _ time.Time) error {
	r.retries = append(r.retries, id)

	return nil
}

func newTestWorker(repo *fakeOutboxRepo, pub *fakePublisher) *Worker {
	return &Worker{
		outboxRepo:    repo,
		publisher:     pub,
		pollInterval:  time.Second,
		batchSize:     100,
		retryInterval: 30 * time.Second,
		stopCh:        make(chan struct{}),
	}
}

func TestProcessMessages(t *testing.T) {
	msg := outboxmodel.Message{
		ID:           1,
		EventID:      "evt-1",
		EventType:    "order.created",
		ExchangeName: "orders",
		RoutingKey:   "order.created",
		Payload:      []byte(`{"orderId":"order-1"}`),
		ContentType:  "application/json",
	}

	t.Run("published messages are removed", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []outboxmodel.Message{msg}}
		pub := &fakePublisher{}
		w := newTestWorker(repo, pub)

		w.processMessages(context.Background())

		if len(pub.published) != 1 {
			t.Fatalf("published = %d, want 1", len(pub.published))
		}
		if len(repo.deleted) != 1 || repo.deleted[0] != 1 {
			t.Errorf("deleted = %v, want [1]", repo.deleted)
		}
		if len(repo.retries) != 0 {
			t.Errorf("retries = %v, want none", repo.retries)
		}
	})

	t.Run("failed publish schedules a retry", func(t *testing.T) {
		repo := &fakeOutboxRepo{pending: []outboxmodel.Message{msg}}
		pub := &fakePublisher{err: errors.New("broker down")}
		w := newTestWorker(repo, pub)

		w.processMessages(context.Background())

		if len(repo.deleted) != 0 {
			t.Errorf("deleted = %v, want none", repo.deleted)
		}
		if len(repo.retries) != 1 || repo.retries[0] != 1 {
			t.Errorf("retries = %v, want [1]", repo.retries)
		}
	})
}

func TestBackoff(t *testing.T) {
	w := &Worker{retryInterval: 30 * time.Second}

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{1, 60 * time.Second},
		{2, 120 * time.Second},
		{3, 240 * time.Second},
	}
	for _, tt := range tests {
		if got := w.backoff(tt.retryCount); got != tt.want {
			t.Errorf("backoff(%d) = %s, want %s", tt.retryCount, got, tt.want)
		}
	}
}
