package menu

import (
	"context"
	"fmt"
)

// Service provides read access to the menu catalog.
type Service struct {
	repo Repository
}

// NewService creates a new menu service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the current catalog ordered by name.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return products, nil
}
