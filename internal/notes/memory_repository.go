package notes

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	notes map[string]Note
}

// NewMemoryRepository builds an in-memory note store.
func NewMemoryRepository() Repository {
	return &memoryRepository{notes: make(map[string]Note)}
}

func (r *memoryRepository) Create(_ context.Context, note Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[note.ID] = note
	return nil
}

func (r *memoryRepository) List(_ context.Context) ([]Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Note, 0, len(r.notes))
	for _, note := range r.notes {
		out = append(out, note)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepository) Search(ctx context.Context, query string) ([]Note, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	out := make([]Note, 0, len(all))
	for _, note := range all {
		if matches(note, q) {
			out = append(out, note)
		}
	}
	return out, nil
}

func matches(note Note, q string) bool {
	if strings.Contains(strings.ToLower(note.Title), q) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (r *memoryRepository) Get(_ context.Context, id string) (Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	note, ok := r.notes[id]
	if !ok {
		return Note{}, ErrNotFound
	}
	return note, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notes[id]; !ok {
		return ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *memoryRepository) UpdateSummary(_ context.Context, id, summary string, aiGenerated bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.notes[id]
	if !ok {
		return ErrNotFound
	}
	note.Summary = summary
	note.AIGenerated = aiGenerated
	r.notes[id] = note
	return nil
}
