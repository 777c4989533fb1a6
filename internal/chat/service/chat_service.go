package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/folio-labs/portfolio-backend/internal/chat/domain"
	"github.com/folio-labs/portfolio-backend/internal/logging"
	"github.com/folio-labs/portfolio-backend/internal/metrics"
	"github.com/folio-labs/portfolio-backend/internal/utils"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// SessionStore holds chat history per session.
type SessionStore interface {
	History(ctx context.Context, id string, n int) ([]domain.Turn, error)
	Append(ctx context.Context, id string, turns ...domain.Turn) error
	Delete(ctx context.Context, id string) (bool, error)
}

// Generator produces a model reply for a conversation.
type Generator interface {
	Generate(ctx context.Context, system string, history []domain.Turn, message string) (string, error)
}

type Options struct {
	SystemInstruction string
	HistoryTurns      int
	MaxMessageChars   int
}

// SendRequest is a single user message. An empty SessionID starts a new session.
type SendRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

// ChatService relays visitor questions to the model with session memory.
type ChatService struct {
	sessions SessionStore
	gen      Generator
	opts     Options
	now      func() time.Time
}

func NewChatService(sessions SessionStore, gen Generator, opts Options) *ChatService {
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = 20
	}
	if opts.MaxMessageChars <= 0 {
		opts.MaxMessageChars = 2000
	}
	return &ChatService{sessions: sessions, gen: gen, opts: opts, now: time.Now}
}

// Send runs one exchange. The user turn is only stored together with a reply,
// so a failed model call leaves the session unchanged.
func (s *ChatService) Send(ctx context.Context, req SendRequest) (*domain.Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message required", domain.ErrValidation)
	}
	if utf8.RuneCountInString(message) > s.opts.MaxMessageChars {
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrValidation, s.opts.MaxMessageChars)
	}

	sessionID := strings.TrimSpace(req.SessionID)
	var history []domain.Turn
	if sessionID == "" {
		sessionID = utils.NewHexID()
	} else {
		if err := ValidateSessionID(sessionID); err != nil {
			return nil, err
		}
		var err error
		history, err = s.sessions.History(ctx, sessionID, s.opts.HistoryTurns)
		if err != nil {
			return nil, err
		}
	}

	log := logging.FromContext(ctx).With(zap.String("session_id", sessionID))

	start := time.Now()
	reply, err := s.gen.Generate(ctx, s.opts.SystemInstruction, history, message)
	metrics.RecordChatCall(time.Since(start), err)
	if err != nil {
		log.Warn("chat generation failed", zap.Error(err))
		if !errors.Is(err, domain.ErrEmptyReply) && !errors.Is(err, domain.ErrUpstream) {
			err = fmt.Errorf("%w: %v", domain.ErrUpstream, err)
		}
		return nil, err
	}

	now := s.now().UTC()
	if err := s.sessions.Append(ctx, sessionID,
		domain.Turn{Role: domain.RoleUser, Content: message, At: now},
		domain.Turn{Role: domain.RoleModel, Content: reply, At: now},
	); err != nil {
		log.Error("chat history append failed", zap.Error(err))
		return nil, err
	}

	return &domain.Reply{SessionID: sessionID, Reply: reply}, nil
}

// History returns every stored turn of a session.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	turns, err := s.sessions.History(ctx, sessionID, 0)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return turns, nil
}

func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	if err := ValidateSessionID(sessionID); err != nil {
		return err
	}
	ok, err := s.sessions.Delete(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrSessionNotFound
	}
	return nil
}

func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return fmt.Errorf("%w: malformed session id", domain.ErrValidation)
	}
	return nil
}
