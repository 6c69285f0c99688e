package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CategoryService struct {
	categories store.CategoryStore
}

func NewCategoryService(categories store.CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.ListWithCounts(ctx)
}

func (s *CategoryService) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	c.CategoryName = strings.TrimSpace(c.CategoryName)
	if c.CategoryName == "" {
		return nil, fmt.Errorf("%w: categoryName is required", ErrInvalidInput)
	}
	c.ID = primitive.NewObjectID()
	c.ProductCount = 0

	outcome, err := s.categories.InsertIfAbsent(ctx, c)
	if err != nil {
		return nil, err
	}
	if outcome == store.AlreadyExists {
		return nil, fmt.Errorf("category %w", ErrConflict)
	}
	return c, nil
}

type CategoryUpdate struct {
	CategoryName  *string `json:"categoryName"`
	CategoryImage *string `json:"categoryImage"`
}

func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, u CategoryUpdate) error {
	fields := bson.M{}
	if u.CategoryName != nil {
		name := strings.TrimSpace(*u.CategoryName)
		if name == "" {
			return fmt.Errorf("%w: categoryName must not be empty", ErrInvalidInput)
		}
		fields["categoryName"] = name
	}
	if u.CategoryImage != nil {
		fields["categoryImage"] = *u.CategoryImage
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	err := s.categories.Update(ctx, id, fields)
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("category %w", ErrConflict)
	}
	return err
}

func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.categories.Delete(ctx, id)
}
