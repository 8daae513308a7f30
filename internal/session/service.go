package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/notegenius/server/internal/verification"
)

// DashboardPath is where the client is sent once verification completes.
const DashboardPath = "/dashboard"

// Service is the hand-off boundary invoked when a verification flow
// succeeds: it marks the session authenticated and exposes the verified
// identity to the rest of the application.
type Service struct {
	registry Registry
	logger   *slog.Logger
}

// NewService creates the session outcome service.
func NewService(registry Registry, logger *slog.Logger) *Service {
	return &Service{registry: registry, logger: logger}
}

// Activate records the verified identity under the flow session id.
func (s *Service) Activate(ctx context.Context, sessionID string, identity verification.Identity) {
	sess := Session{
		ID:         sessionID,
		Name:       identity.Name,
		Channel:    identity.Channel,
		Contact:    identity.Contact(),
		VerifiedAt: time.Now().UTC(),
	}

	if err := s.registry.Put(ctx, sess); err != nil {
		if s.logger != nil {
			s.logger.Error("activate session", slog.String("session_id", sessionID), slog.Any("error", err))
		}
		return
	}

	if s.logger != nil {
		s.logger.Info("session verified",
			slog.String("session_id", sessionID),
			slog.String("channel", string(sess.Channel)),
			slog.String("contact", sess.Contact),
			slog.String("redirect_to", DashboardPath),
		)
	}
}

// Lookup returns the verified session for an id, or ErrNotVerified.
func (s *Service) Lookup(ctx context.Context, id string) (Session, error) {
	return s.registry.Get(ctx, id)
}
