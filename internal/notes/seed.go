package notes

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Seed loads the sample notes shown to first-time users. Intended for
// development setups backed by the in-memory repository.
func Seed(ctx context.Context, repo Repository) error {
	samples := []Note{
		{
			Title:       "Machine Learning Fundamentals",
			CreatedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Tags:        []string{"AI", "Technology", "Learning"},
			Summary:     "Machine learning enables computers to learn from data without explicit programming. It includes supervised, unsupervised, and reinforcement learning approaches.",
			Content:     "Machine learning is a subset of artificial intelligence that enables computers to learn and make decisions from data without being explicitly programmed. It involves algorithms that can identify patterns in data and make predictions or decisions based on those patterns. There are three main types of machine learning: supervised learning, unsupervised learning, and reinforcement learning. Supervised learning uses labeled data to train models, unsupervised learning finds patterns in unlabeled data, and reinforcement learning learns through trial and error with rewards and penalties.",
			AIGenerated: true,
		},
		{
			Title:       "React Best Practices",
			CreatedAt:   time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
			Tags:        []string{"React", "Frontend", "Development"},
			Summary:     "Essential patterns and practices for building scalable React applications with proper component structure and state management.",
			Content:     "React development requires following certain best practices to ensure maintainable and scalable applications. Key practices include proper component composition, effective state management, and performance optimization techniques.",
			AIGenerated: false,
		},
		{
			Title:       "Data Structures Overview",
			CreatedAt:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Tags:        []string{"Computer Science", "Algorithms", "Programming"},
			Summary:     "Comprehensive overview of fundamental data structures including arrays, linked lists, trees, and graphs with their use cases.",
			Content:     "Data structures are fundamental building blocks in computer science that organize and store data efficiently. Understanding different data structures and their trade-offs is crucial for writing efficient algorithms.",
			AIGenerated: true,
		},
	}

	for _, note := range samples {
		note.ID = uuid.NewString()
		if err := repo.Create(ctx, note); err != nil {
			return err
		}
	}
	return nil
}
