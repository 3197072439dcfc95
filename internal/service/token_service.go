package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/logger"
	"github.com/dtroode/authsys-server/internal/model"
)

// TokenService issues, rotates and revokes token pairs. It composes the
// TokenManager and RefreshTokenStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	events  model.EventPublisher
	logger  *logger.Logger
	now     func() time.Time
}

func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	events model.EventPublisher,
	logger *logger.Logger,
) *TokenService {
	return &TokenService{
		manager: manager,
		store:   store,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Issue signs a new access/refresh pair for userID and persists the refresh record.
func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID, client model.ClientInfo) (model.TokenPair, error) {
	access, err := s.manager.IssueAccess(userID.String())
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	refresh, jti, expiresAt, err := s.manager.IssueRefresh(userID.String(), "")
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	rt := model.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		JTI:       jti,
		CreatedAt: s.now(),
		ExpiresAt: expiresAt,
		UserAgent: client.UserAgent,
		IP:        client.IP,
	}
	if err := s.store.Create(ctx, rt); err != nil {
		s.logger.Error("Token service: failed to persist refresh token",
			"user_id", userID.String(),
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return model.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked in the same transaction that stores its successor, so it can be
// used at most once.
func (s *TokenService) Refresh(ctx context.Context, presented string, client model.ClientInfo) (model.TokenPair, error) {
	if presented == "" {
		return model.TokenPair{}, model.ErrRefreshRequired
	}

	payload, err := s.manager.Decode(presented, model.TokenTypeRefresh)
	if err != nil {
		s.reject(ctx, "", err)
		return model.TokenPair{}, fmt.Errorf("failed to decode refresh token: %w", err)
	}

	userID, err := uuid.Parse(payload.Subject)
	if err != nil {
		s.reject(ctx, "", model.ErrTokenInvalid)
		return model.TokenPair{}, model.ErrTokenInvalid
	}

	rt, err := s.store.GetByUserAndJTI(ctx, userID, payload.JTI)
	if errors.Is(err, model.ErrNotFound) {
		s.reject(ctx, payload.Subject, model.ErrRefreshNotFound)
		return model.TokenPair{}, model.ErrRefreshNotFound
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if !rt.IsActive(s.now()) {
		s.reject(ctx, payload.Subject, model.ErrRefreshInactive)
		return model.TokenPair{}, model.ErrRefreshInactive
	}

	refresh, jti, expiresAt, err := s.manager.IssueRefresh(payload.Subject, "")
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	rotatedFrom := rt.JTI
	next := model.RefreshToken{
		ID:             uuid.New(),
		UserID:         userID,
		JTI:            jti,
		CreatedAt:      s.now(),
		ExpiresAt:      expiresAt,
		UserAgent:      client.UserAgent,
		IP:             client.IP,
		RotatedFromJTI: &rotatedFrom,
	}
	if err := s.store.Rotate(ctx, rt.ID, next); err != nil {
		if errors.Is(err, model.ErrRefreshInactive) {
			s.reject(ctx, payload.Subject, err)
			return model.TokenPair{}, err
		}
		s.logger.Error("Token service: failed to rotate refresh token",
			"user_id", payload.Subject,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	access, err := s.manager.IssueAccess(payload.Subject)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	s.events.Publish(ctx, model.Event{
		Type:   model.EventSessionRefresh,
		UserID: payload.Subject,
		Fields: map[string]any{"rotated_from": rotatedFrom, "jti": jti},
	})

	return model.TokenPair{Access: access, Refresh: refresh}, nil
}

// RevokeAllForUser revokes every active refresh token of userID and returns how many were revoked.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.store.RevokeAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return n, nil
}

func (s *TokenService) reject(ctx context.Context, userID string, reason error) {
	s.logger.Info("Token service: refresh rejected",
		"user_id", userID,
		"reason", reason.Error())
	s.events.Publish(ctx, model.Event{
		Type:   model.EventRefreshRejected,
		UserID: userID,
		Fields: map[string]any{"reason": reason.Error()},
	})
}
