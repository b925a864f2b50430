package repository

import (
	"context"
	"errors"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

var ErrCategoryNotFound = errors.New("category not found")

var categories = []entities.Category{
	{ID: "history", Name: "History", Icon: "🏛️", Color: "amber", RemoteID: 23},
	{ID: "science", Name: "Science", Icon: "🔬", Color: "blue", RemoteID: 17},
	{ID: "sports", Name: "Sports", Icon: "⚽", Color: "green", RemoteID: 21},
	{ID: "entertainment", Name: "Entertainment", Icon: "🎬", Color: "purple", RemoteID: 11},
	{ID: "geography", Name: "Geography", Icon: "🌍", Color: "teal", RemoteID: 22},
	{ID: "art", Name: "Art & Literature", Icon: "🎨", Color: "pink", RemoteID: 25},
}

// CategoryRepository provides the static list of playable categories.
type CategoryRepository struct {
	categories []entities.Category
}

// NewCategoryRepository creates a CategoryRepository.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{categories: categories}
}

// GetAll returns every category in display order.
func (r *CategoryRepository) GetAll(_ context.Context) ([]entities.Category, error) {
	out := make([]entities.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

// GetByID returns the category with the given id.
func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entities.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, ErrCategoryNotFound
}
