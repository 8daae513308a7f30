package notes

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrMissingFields is returned when a new note lacks a title or content.
var ErrMissingFields = errors.New("title and content are required")

type summaryJob struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Service manages the note collection and the asynchronous summary stub.
type Service struct {
	repo         Repository
	logger       *slog.Logger
	summaryDelay time.Duration

	mu      sync.Mutex
	pending map[string]summaryJob
}

// NewService creates a note service. summaryDelay simulates the latency of
// a real summarization backend.
func NewService(repo Repository, logger *slog.Logger, summaryDelay time.Duration) *Service {
	return &Service{
		repo:         repo,
		logger:       logger,
		summaryDelay: summaryDelay,
		pending:      make(map[string]summaryJob),
	}
}

// Create stores a new note with a preview summary.
func (s *Service) Create(ctx context.Context, in CreateInput) (Note, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return Note{}, ErrMissingFields
	}

	note := Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      in.Tags,
		Summary:   preview(content),
		CreatedAt: time.Now().UTC(),
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return Note{}, err
	}
	return note, nil
}

// Search returns notes whose title or any tag contains the query as a
// case-insensitive substring. An empty query returns everything, newest
// first.
func (s *Service) Search(ctx context.Context, query string) ([]Note, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, q)
}

// Get fetches a single note.
func (s *Service) Get(ctx context.Context, id string) (Note, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a note and cancels any in-flight summary generation for it.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if job, ok := s.pending[id]; ok {
		job.cancel()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	return s.repo.Delete(ctx, id)
}

// GenerateSummary starts asynchronous summary generation for a note.
// Re-submitting for the same note cancels the in-flight run, so only the
// most recent request's completion takes effect.
func (s *Service) GenerateSummary(ctx context.Context, id string) error {
	note, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	genCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if prev, ok := s.pending[id]; ok {
		prev.cancel()
	}
	s.pending[id] = summaryJob{ctx: genCtx, cancel: cancel}
	s.mu.Unlock()

	go s.runSummary(genCtx, note)
	return nil
}

func (s *Service) runSummary(ctx context.Context, note Note) {
	timer := time.NewTimer(s.summaryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	// Claim the completion slot. A newer submission owns it now if the
	// stored context is not ours; in that case this run's effect is dropped.
	s.mu.Lock()
	job, ok := s.pending[note.ID]
	if !ok || job.ctx != ctx {
		s.mu.Unlock()
		return
	}
	delete(s.pending, note.ID)
	s.mu.Unlock()

	summary := Summarize(note.Content)
	if err := s.repo.UpdateSummary(context.Background(), note.ID, summary, true); err != nil {
		if s.logger != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Warn("store summary", slog.String("note_id", note.ID), slog.Any("error", err))
		}
		return
	}

	if s.logger != nil {
		s.logger.Info("summary generated", slog.String("note_id", note.ID))
	}
}
