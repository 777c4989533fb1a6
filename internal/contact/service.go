package contact

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/logging"
	"github.com/folio-labs/portfolio-backend/internal/metrics"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	List(ctx context.Context, unreadOnly bool) ([]Message, error)
	MarkRead(ctx context.Context, id string, read bool) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Submit stores a message from the public contact form.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Message, error) {
	m := &Message{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	metrics.RecordContactMessage()
	logging.FromContext(ctx).Info("contact message received", zap.String("message_id", m.ID))
	return m, nil
}

func (s *Service) List(ctx context.Context, unreadOnly bool) ([]Message, error) {
	return s.repo.List(ctx, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, id string, read bool) error {
	return mutate(id, func(id string) (bool, error) { return s.repo.MarkRead(ctx, id, read) })
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mutate(id, func(id string) (bool, error) { return s.repo.Delete(ctx, id) })
}

// mutate resolves id and maps a missing row to ErrNotFound.
func mutate(id string, fn func(string) (bool, error)) error {
	mid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ErrNotFound
	}
	ok, err := fn(mid.String())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
