package notes

import "time"

// Note is a single note with its summary, which is either the creation-time
// preview or an AI-generated one.
type Note struct {
	ID          string
	Title       string
	Content     string
	Tags        []string
	Summary     string
	AIGenerated bool
	CreatedAt   time.Time
}

// CreateInput carries the fields a user supplies for a new note.
type CreateInput struct {
	Title   string
	Content string
	Tags    []string
}
