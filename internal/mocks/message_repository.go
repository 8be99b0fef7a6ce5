package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/apperror"
	"github.com/google/uuid"
)

type MockMessageRepository struct {
	Failures
	mu       sync.Mutex
	messages []entity.Message
	clock    time.Time
	// BatchCalls counts CreateBatch invocations.
	BatchCalls int
}

func NewMockMessageRepository(messages ...entity.Message) *MockMessageRepository {
	m := &MockMessageRepository{
		messages: append([]entity.Message(nil), messages...),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, row := range messages {
		if row.CreatedAt.After(m.clock) {
			m.clock = row.CreatedAt
		}
	}
	return m
}

// stamp gives each new row a fresh id and a strictly increasing created_at.
func (m *MockMessageRepository) stamp(msg *entity.Message) {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.Must(uuid.NewV7())
	}
	m.clock = m.clock.Add(time.Second)
	msg.CreatedAt = m.clock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if err := m.failure("Create"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stamp(message)
	m.messages = append(m.messages, *message)
	return nil
}

func (m *MockMessageRepository) CreateBatch(ctx context.Context, messages []entity.Message) error {
	if err := m.failure("CreateBatch"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchCalls++
	for i := range messages {
		m.stamp(&messages[i])
		m.messages = append(m.messages, messages[i])
	}
	return nil
}

func (m *MockMessageRepository) FindForReceiver(ctx context.Context, id, receiverID uuid.UUID) (*entity.Message, error) {
	if err := m.failure("FindForReceiver"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id && msg.ReceiverID == receiverID {
			found := msg
			return &found, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (m *MockMessageRepository) UpdateStatus(ctx context.Context, id, receiverID uuid.UUID, from, to string) (int64, error) {
	if err := m.failure("UpdateStatus"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, msg := range m.messages {
		if msg.ID == id && msg.ReceiverID == receiverID && msg.Status == from {
			m.messages[i].Status = to
			return 1, nil
		}
	}
	return 0, nil
}

// SetStatus changes a row behind the service's back, like a concurrent writer would.
func (m *MockMessageRepository) SetStatus(id uuid.UUID, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Status = status
		}
	}
}

func (m *MockMessageRepository) Get(id uuid.UUID) (entity.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return entity.Message{}, false
}

func (m *MockMessageRepository) All() []entity.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Message(nil), m.messages...)
}

func (m *MockMessageRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Message, error) {
	if err := m.failure("ListForUser"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entity.Message{}
	for _, msg := range m.messages {
		if msg.SenderID == userID || msg.ReceiverID == userID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockMessageRepository) HasAcceptedBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if err := m.failure("HasAcceptedBetween"); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.Status != "accepted" {
			continue
		}
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			return true, nil
		}
	}
	return false, nil
}
