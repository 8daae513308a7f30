package verification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/notegenius/server/internal/notification"
)

// SessionHook is notified when a flow session reaches the verified state.
type SessionHook func(ctx context.Context, sessionID string, identity Identity)

// ServiceConfig wires a verification service.
type ServiceConfig struct {
	Rules         Rules
	Issuer        Issuer
	Notifier      notification.Notifier
	Logger        *slog.Logger
	DeliveryDelay time.Duration
	OnVerified    SessionHook
}

// Service manages verification flow sessions keyed by id.
type Service struct {
	cfg ServiceConfig

	mu    sync.RWMutex
	flows map[string]*Flow
}

// NewService creates a verification service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{cfg: cfg, flows: make(map[string]*Flow)}
}

// Start opens a new flow session in the collecting_details state and
// returns its id.
func (s *Service) Start(ctx context.Context) (string, Snapshot) {
	id := uuid.NewString()

	var hook Hook
	if s.cfg.OnVerified != nil {
		onVerified := s.cfg.OnVerified
		hook = func(ctx context.Context, identity Identity) {
			onVerified(ctx, id, identity)
		}
	}

	flow := NewFlow(s.cfg.Rules, s.cfg.Issuer, s.cfg.Notifier, s.cfg.Logger, s.cfg.DeliveryDelay, hook)

	s.mu.Lock()
	s.flows[id] = flow
	s.mu.Unlock()

	if s.cfg.Logger != nil {
		s.cfg.Logger.Info("verification session started", slog.String("session_id", id))
	}

	return id, flow.Snapshot()
}

// SubmitDetails forwards the draft to the session's flow.
func (s *Service) SubmitDetails(ctx context.Context, id string, draft Draft) (Result, error) {
	flow, err := s.flow(id)
	if err != nil {
		return Result{}, err
	}
	return flow.SubmitDetails(ctx, draft)
}

// SubmitCode forwards a candidate code to the session's flow.
func (s *Service) SubmitCode(ctx context.Context, id, candidate string) (Result, error) {
	flow, err := s.flow(id)
	if err != nil {
		return Result{}, err
	}
	return flow.SubmitCode(ctx, candidate)
}

// Resend re-issues the session's challenge.
func (s *Service) Resend(ctx context.Context, id string) (Result, error) {
	flow, err := s.flow(id)
	if err != nil {
		return Result{}, err
	}
	return flow.Resend(ctx)
}

// GoBack returns the session's flow to the details step.
func (s *Service) GoBack(ctx context.Context, id string) (Result, error) {
	flow, err := s.flow(id)
	if err != nil {
		return Result{}, err
	}
	return flow.GoBack(ctx)
}

// Snapshot returns the current view of a session.
func (s *Service) Snapshot(ctx context.Context, id string) (Snapshot, error) {
	flow, err := s.flow(id)
	if err != nil {
		return Snapshot{}, err
	}
	return flow.Snapshot(), nil
}

func (s *Service) flow(id string) (*Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flow, ok := s.flows[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return flow, nil
}
