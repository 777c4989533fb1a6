package http

import (
	"context"

	"github.com/folio-labs/portfolio-backend/internal/auth/domain"
)

type LoginService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
}

type Handler struct {
	svc LoginService
}

func New(svc LoginService) *Handler {
	return &Handler{svc: svc}
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
